//go:build onnx

package main

import (
	"log/slog"

	"github.com/nao1215/psiscan/internal/config"
	"github.com/nao1215/psiscan/internal/ner"
	"github.com/nao1215/psiscan/internal/ner/onnx"
)

const onnxBuilt = true

func newONNXRecognizer(cfg config.NERConfig, logger *slog.Logger) (ner.Recognizer, error) {
	opts := []onnx.Option{
		onnx.WithMinConfidence(cfg.MinConfidence),
		onnx.WithLogger(logger),
	}
	if cfg.ModelFile != "" {
		opts = append(opts, onnx.WithModelFile(cfg.ModelFile))
	}
	if cfg.TokenizerFile != "" {
		opts = append(opts, onnx.WithTokenizerFile(cfg.TokenizerFile))
	}
	if cfg.LabelFile != "" {
		opts = append(opts, onnx.WithLabelFile(cfg.LabelFile))
	}
	if cfg.SharedLibrary != "" {
		opts = append(opts, onnx.WithSharedLibrary(cfg.SharedLibrary))
	}
	r, err := onnx.New(cfg.ModelDir, opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}
