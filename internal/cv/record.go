package cv

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Section is one named part of a CV, such as PersonalStatement or WorkExperience.
// Content is kept as raw JSON: a list of entries or a single entry.
type Section struct {
	Name    string
	Content json.RawMessage
}

// Record is a parsed CV. Sections keep the order in which the file declares them.
type Record struct {
	// Root is the name of the single top-level member wrapping the sections.
	Root     string
	Sections []Section
}

// Section returns the section with the given name.
func (r *Record) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Parse decodes a CV document. The document must already satisfy the schema;
// Parse only walks the sections in order.
func Parse(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	root, ok := tok.(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing top-level member", ErrInvalidShape)
	}

	sections, err := decodeSections(dec)
	if err != nil {
		return nil, err
	}
	return &Record{Root: root, Sections: sections}, nil
}

// decodeSections reads an object of section name to raw content.
func decodeSections(dec *json.Decoder) ([]Section, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var sections []Section
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: section name is not a string", ErrInvalidShape)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		sections = append(sections, Section{Name: name, Content: raw})
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return sections, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q", ErrInvalidShape, want)
	}
	return nil
}
