package cv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PersonalStatementSection is the section used in statement mode.
const PersonalStatementSection = "PersonalStatement"

// textEntry picks the "text" member out of a section entry.
type textEntry struct {
	Text *string `json:"text"`
}

// AssembleText concatenates every "text" field of the record into one string.
// Sections are visited in declared order. A section that is a list contributes
// each entry's text; a section that is a single object contributes its own
// text. Every contribution is followed by one space. Entries without a string
// "text" member are skipped. The text is not normalized.
func AssembleText(r *Record) string {
	var sb strings.Builder
	for _, s := range r.Sections {
		for _, text := range sectionTexts(s.Content) {
			sb.WriteString(text)
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// PersonalStatement returns the text of the first PersonalStatement entry.
func PersonalStatement(r *Record) (string, error) {
	s, ok := r.Section(PersonalStatementSection)
	if !ok {
		return "", fmt.Errorf("%w: section %s missing", ErrNoPersonalStatement, PersonalStatementSection)
	}

	switch firstByte(s.Content) {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(s.Content, &entries); err != nil || len(entries) == 0 {
			return "", fmt.Errorf("%w: section %s is empty", ErrNoPersonalStatement, PersonalStatementSection)
		}
		if text, ok := entryText(entries[0]); ok {
			return text, nil
		}
	case '{':
		if text, ok := entryText(s.Content); ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: first entry has no text", ErrNoPersonalStatement)
}

// sectionTexts returns the text contributions of one section in order.
func sectionTexts(content json.RawMessage) []string {
	switch firstByte(content) {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(content, &entries); err != nil {
			return nil
		}
		texts := make([]string, 0, len(entries))
		for _, e := range entries {
			if text, ok := entryText(e); ok {
				texts = append(texts, text)
			}
		}
		return texts
	case '{':
		if text, ok := entryText(content); ok {
			return []string{text}
		}
	}
	return nil
}

func entryText(raw json.RawMessage) (string, bool) {
	if firstByte(raw) != '{' {
		return "", false
	}
	var e textEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Text == nil {
		return "", false
	}
	return *e.Text, true
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
