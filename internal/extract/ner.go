package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/psiscan/internal/model"
	"github.com/nao1215/psiscan/internal/ner"
)

// Entity is a recognizer result as seen by the bucketing logic.
type Entity = ner.Entity

// NERExtractor runs a Recognizer over text and buckets its entities.
type NERExtractor struct {
	recognizer ner.Recognizer
	labels     *LabelMap
	logger     *slog.Logger
}

// NewNERExtractor returns an extractor. The recognizer stays owned by the caller.
func NewNERExtractor(recognizer ner.Recognizer, labels *LabelMap, logger *slog.Logger) *NERExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &NERExtractor{
		recognizer: recognizer,
		labels:     labels,
		logger:     logger,
	}
}

// Name returns the recognizer's name.
func (e *NERExtractor) Name() string {
	return e.recognizer.Name()
}

// Extract returns Organization, Education, Location and Person lists for text.
// Recognizer failures are returned unchanged in meaning.
func (e *NERExtractor) Extract(ctx context.Context, text string) (*model.Record, error) {
	entities, err := e.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s recognizer: %w", e.recognizer.Name(), err)
	}

	dropped := 0
	for _, ent := range entities {
		if _, ok := e.labels.Lookup(ent.Label); !ok {
			dropped++
		}
	}
	e.logger.Debug("entities recognized",
		"recognizer", e.recognizer.Name(),
		"count", len(entities),
		"unmapped", dropped,
	)

	return e.labels.Bucket(entities), nil
}
