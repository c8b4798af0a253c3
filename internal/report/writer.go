package report

import (
	"io"

	"github.com/nao1215/psiscan/internal/model"
)

// Writer renders scan results.
//
// WriteResult is called once per file as soon as the file is done, so
// streaming formats can print incrementally. Write is called once at the end
// of the run with every result. A format may produce all of its output in
// either method.
type Writer interface {
	// WriteResult outputs one file's result.
	WriteResult(res *model.FileResult) (int, error)

	// Write outputs the finished run.
	Write(run *model.Run) (int, error)
}

// MultiWriter sends results to several Writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter returns a Writer that writes to all of writers in order.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteResult writes res to every writer. It stops on the first error.
func (m *MultiWriter) WriteResult(res *model.FileResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteResult(res)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Write writes run to every writer. It stops on the first error.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
