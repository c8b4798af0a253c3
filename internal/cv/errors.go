package cv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDirectoryNotFound is returned when the input directory does not exist.
	ErrDirectoryNotFound = errors.New("input directory not found")

	// ErrNotADirectory is returned when the input path is a regular file.
	ErrNotADirectory = errors.New("input path is not a directory")

	// ErrMalformedJSON is returned when a CV file is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrInvalidShape is returned when a CV file is valid JSON but its root is
	// not an object with exactly one member whose value is an object.
	ErrInvalidShape = errors.New("unexpected CV document shape")

	// ErrNoPersonalStatement is returned in statement mode when the CV has no
	// PersonalStatement section with a text entry.
	ErrNoPersonalStatement = errors.New("no personal statement text")
)

// ParseError reports a CV file that could not be read or decoded.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

// SchemaError lists every violation of the CV document schema.
type SchemaError struct {
	Fields []FieldError
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidShape, strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidShape
}
