package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/psiscan/internal/config"
	"github.com/nao1215/psiscan/internal/ner"
)

// newRecognizer constructs the configured NER backend. The caller closes it.
func newRecognizer(cfg *config.Config, logger *slog.Logger) (ner.Recognizer, error) {
	switch cfg.NER.Backend {
	case config.BackendHTTP:
		opts := []ner.HTTPOption{
			ner.WithTimeout(cfg.NER.Timeout),
			ner.WithRateLimit(cfg.NER.RequestsPerSecond, 1),
			ner.WithHTTPLogger(logger),
		}
		if cfg.NER.APIKey != "" {
			opts = append(opts, ner.WithAPIKey(cfg.NER.APIKey))
		}
		r, err := ner.NewHTTPRecognizer(cfg.NER.URL, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendGazetteer:
		r, err := ner.NewGazetteerRecognizer(cfg.Gazetteer)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendONNX:
		return newONNXRecognizer(cfg.NER, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ner.ErrUnknownBackend, cfg.NER.Backend)
	}
}

// availableBackends lists the backends compiled into this binary.
func availableBackends() string {
	backends := []string{config.BackendHTTP, config.BackendGazetteer}
	if onnxBuilt {
		backends = append([]string{config.BackendONNX}, backends...)
	}
	return strings.Join(backends, ", ")
}
