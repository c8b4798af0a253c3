package ner

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GazetteerRecognizer finds known phrases in text. It needs no model and is
// meant for offline runs and for pinning down behavior in tests.
//
// Matching is case-sensitive and respects word boundaries. Where matches
// overlap the earliest wins, then the longest.
type GazetteerRecognizer struct {
	phrases []gazetteerPhrase
}

type gazetteerPhrase struct {
	text  string
	label string
}

// NewGazetteerRecognizer builds a recognizer from label to phrase lists.
func NewGazetteerRecognizer(entries map[string][]string) (*GazetteerRecognizer, error) {
	g := &GazetteerRecognizer{}
	for label, phrases := range entries {
		for _, p := range phrases {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			g.phrases = append(g.phrases, gazetteerPhrase{text: p, label: label})
		}
	}
	if len(g.phrases) == 0 {
		return nil, ErrEmptyGazetteer
	}

	// Longest first so that "New York City" beats "New York" at one position.
	sort.SliceStable(g.phrases, func(i, j int) bool {
		if len(g.phrases[i].text) != len(g.phrases[j].text) {
			return len(g.phrases[i].text) > len(g.phrases[j].text)
		}
		if g.phrases[i].text != g.phrases[j].text {
			return g.phrases[i].text < g.phrases[j].text
		}
		return g.phrases[i].label < g.phrases[j].label
	})
	return g, nil
}

// Name returns "gazetteer".
func (g *GazetteerRecognizer) Name() string {
	return "gazetteer"
}

// Recognize returns every non-overlapping phrase occurrence in text order.
func (g *GazetteerRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Entity
	for _, p := range g.phrases {
		offset := 0
		for {
			idx := strings.Index(text[offset:], p.text)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(p.text)
			if isBoundary(text, start, end) {
				candidates = append(candidates, Entity{
					Text:       p.text,
					Label:      p.label,
					Start:      start,
					End:        end,
					Confidence: 1,
				})
			}
			offset = start + 1
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	entities := make([]Entity, 0, len(candidates))
	lastEnd := -1
	for _, c := range candidates {
		if c.Start < lastEnd {
			continue
		}
		entities = append(entities, c)
		lastEnd = c.End
	}
	return entities, nil
}

// Close is a no-op.
func (g *GazetteerRecognizer) Close() error {
	return nil
}

// isBoundary reports whether text[start:end] is not glued to adjacent word characters.
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
