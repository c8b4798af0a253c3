package ner

import "context"

// Entity is one recognized span with sub-word tokens already merged.
type Entity struct {
	// Text is the surface string as it appears in the input.
	Text string `json:"text"`

	// Label is the entity category reported by the model, e.g. ORG or PER.
	Label string `json:"label"`

	// Start and End are byte offsets into the input. Both are zero when the
	// backend does not report positions.
	Start int `json:"start_pos"`
	End   int `json:"end_pos"`

	// Confidence is the model score in [0, 1], or 0 if unknown.
	Confidence float64 `json:"confidence"`
}

// Recognizer is a named-entity recognition capability.
//
// A Recognizer is constructed once, handed to whatever needs it and closed by
// its owner. Implementations do not change configuration after construction.
type Recognizer interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Recognize returns the entities found in text, in the order the
	// backend reports them.
	Recognize(ctx context.Context, text string) ([]Entity, error)

	// Close releases resources held by the backend.
	Close() error
}
