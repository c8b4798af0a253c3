//go:build !onnx

package main

import (
	"fmt"
	"log/slog"

	"github.com/nao1215/psiscan/internal/config"
	"github.com/nao1215/psiscan/internal/ner"
)

const onnxBuilt = false

func newONNXRecognizer(config.NERConfig, *slog.Logger) (ner.Recognizer, error) {
	return nil, fmt.Errorf("%w: onnx (rebuild with -tags onnx, or use --ner http or --ner gazetteer)", ner.ErrBackendNotBuilt)
}
