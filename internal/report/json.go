package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/psiscan/internal/model"
)

// JSONWriter outputs the finished run as one JSON document.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
	version      string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the psiscan version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter returns a JSONWriter writing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult does nothing; results are written together by Write.
func (w *JSONWriter) WriteResult(*model.FileResult) (int, error) {
	return 0, nil
}

// Write outputs run wrapped in a JSONReport.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.writeJSON(NewJSONReport(run, w.version))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport is the document JSONWriter produces.
type JSONReport struct {
	Version string      `json:"version,omitempty"`
	Summary JSONSummary `json:"summary"`
	Run     *model.Run  `json:"run"`
}

// JSONSummary holds the run totals.
type JSONSummary struct {
	Processed  int                    `json:"processed"`
	Skipped    int                    `json:"skipped"`
	Attributes []model.AttributeCount `json:"attributes"`
}

// NewJSONReport wraps run with its totals.
func NewJSONReport(run *model.Run, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Summary: JSONSummary{
			Processed:  run.ProcessedCount(),
			Skipped:    run.SkippedCount(),
			Attributes: run.AttributeCounts(),
		},
		Run: run,
	}
}
