package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRecognition marks a failure of the entity recognizer. It ends the run.
	ErrRecognition = errors.New("entity recognition failed")

	// ErrNoRecord is returned when a document reaches the pipeline without a parsed CV.
	ErrNoRecord = errors.New("document has no parsed record")

	// ErrUnknownTextSource is returned for a text source other than sections or statement.
	ErrUnknownTextSource = errors.New("unknown text source")
)

// StepError wraps the failure of a single step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err should stop the whole run rather than skip one file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrRecognition) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
