package extract

import (
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/psiscan/internal/model"
)

// RegexExtractor finds the pattern-defined attributes in assembled CV text.
//
// First Name is the first capitalized word that is not an honorific.
// Last Name is the next such word after the first name. Every other
// attribute is searched independently over the whole text and keeps only its
// first match. Attributes without a match are left out of the result.
type RegexExtractor struct {
	honorifics map[string]struct{}
	rules      []rule
}

// RegexOption configures a RegexExtractor.
type RegexOption func(*RegexExtractor)

// WithHonorifics replaces the set of titles skipped when looking for names.
func WithHonorifics(titles ...string) RegexOption {
	return func(e *RegexExtractor) {
		e.honorifics = make(map[string]struct{}, len(titles))
		for _, t := range titles {
			e.honorifics[t] = struct{}{}
		}
	}
}

// NewRegexExtractor returns an extractor with the default patterns.
func NewRegexExtractor(opts ...RegexOption) *RegexExtractor {
	e := &RegexExtractor{rules: defaultRules()}
	WithHonorifics(DefaultHonorifics...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns "regex".
func (e *RegexExtractor) Name() string {
	return "regex"
}

// Extract returns a record holding the attributes found in text.
func (e *RegexExtractor) Extract(text string) *model.Record {
	rec := model.NewRecord()

	if first, end, ok := e.nextName(text, 0); ok {
		rec.Set(model.AttrFirstName, model.Scalar(first))
		if last, _, ok := e.nextName(text, end); ok {
			rec.Set(model.AttrLastName, model.Scalar(last))
		}
	}

	for _, r := range e.rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil || m[r.group] == "" {
			continue
		}
		rec.Set(r.attr, model.Scalar(m[r.group]))
	}
	return rec
}

// nextName returns the first capitalized non-honorific word starting at or
// after offset, and the byte offset just past it.
func (e *RegexExtractor) nextName(text string, offset int) (string, int, bool) {
	for _, loc := range capitalizedWord.FindAllStringIndex(text[offset:], -1) {
		start, end := offset+loc[0], offset+loc[1]
		if !isWholeWord(text, start, end) {
			continue
		}
		word := text[start:end]
		if _, skip := e.honorifics[word]; skip {
			continue
		}
		return word, end, true
	}
	return "", 0, false
}

// isWholeWord reports whether text[start:end] is not glued to a neighbouring
// letter, digit, mark or underscore.
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
