package ner

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultMinConfidence is the softmax probability below which a token is
// treated as outside any entity.
const DefaultMinConfidence = 0.5

// Span is a token's byte range in the input text. Special tokens such as
// [CLS] and [SEP] have an empty span.
type Span struct {
	Start int
	End   int
}

// DecodeTokenLabels turns per-token logits into whole entities.
//
// logits holds numLabels scores per token, token-major. Each token takes its
// highest-scoring label; low-confidence tokens and tokens with empty spans
// count as "O". Consecutive tokens of the same category are merged unless a
// token starts a new entity with a B- tag, so sub-word pieces come back as
// one surface string cut from text.
func DecodeTokenLabels(text string, logits []float32, numLabels int, id2label map[int]string, spans []Span, minConfidence float64) []Entity {
	if numLabels <= 0 {
		return nil
	}

	numTokens := len(spans)
	if n := len(logits) / numLabels; n < numTokens {
		numTokens = n
	}

	var (
		entities []Entity
		current  *Entity
		scoreSum float64
		tokens   int
	)

	flush := func() {
		if current == nil {
			return
		}
		if current.Start >= 0 && current.End <= len(text) && current.Start < current.End {
			current.Text = text[current.Start:current.End]
			current.Confidence = scoreSum / float64(tokens)
			entities = append(entities, *current)
		}
		current = nil
		scoreSum = 0
		tokens = 0
	}

	for i := 0; i < numTokens; i++ {
		span := spans[i]
		label, confidence := argmaxSoftmax(logits[i*numLabels:(i+1)*numLabels], id2label)
		if confidence < minConfidence || span.Start >= span.End {
			label = "O"
		}

		if label == "O" {
			flush()
			continue
		}

		prefix, base := splitTag(label)
		if current != nil && prefix != "B" && current.Label == base {
			current.End = span.End
			scoreSum += confidence
			tokens++
			continue
		}

		flush()
		current = &Entity{Label: base, Start: span.Start, End: span.End}
		scoreSum = confidence
		tokens = 1
	}
	flush()

	return entities
}

// argmaxSoftmax returns the best label and its softmax probability.
func argmaxSoftmax(scores []float32, id2label map[int]string) (string, float64) {
	best := 0
	maxScore := math.Inf(-1)
	for j, s := range scores {
		if float64(s) > maxScore {
			maxScore = float64(s)
			best = j
		}
	}

	var sum float64
	for _, s := range scores {
		sum += math.Exp(float64(s) - maxScore)
	}

	label, ok := id2label[best]
	if !ok {
		return "O", 0
	}
	return label, 1 / sum
}

// splitTag splits "B-ORG" into ("B", "ORG"). Untagged labels return an empty prefix.
func splitTag(label string) (string, string) {
	if len(label) > 2 && label[1] == '-' {
		switch label[0] {
		case 'B', 'I', 'E', 'S':
			return label[:1], label[2:]
		}
	}
	return "", label
}

// LoadLabelMapping reads the id2label table from a model's config.json or
// label_mappings.json.
func LoadLabelMapping(path string) (map[int]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read label mapping: %w", err)
	}

	var cfg struct {
		ID2Label map[string]string `json:"id2label"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLabelMapping, err)
	}
	if len(cfg.ID2Label) == 0 {
		return nil, fmt.Errorf("%w: id2label is empty in %s", ErrLabelMapping, path)
	}

	mapping := make(map[int]string, len(cfg.ID2Label))
	for k, v := range cfg.ID2Label {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%w: non-numeric id %q", ErrLabelMapping, k)
		}
		mapping[id] = v
	}
	return mapping, nil
}

// CheckModelDir verifies that every named file exists in dir.
func CheckModelDir(dir string, files ...string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: model directory %s: %v", ErrModelFileMissing, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrModelFileMissing, dir)
	}

	for _, f := range files {
		path := filepath.Join(dir, f)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrModelFileMissing, path)
		}
	}
	return nil
}
