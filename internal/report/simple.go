package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/psiscan/internal/model"
)

// SimpleWriter prints human-readable text.
//
// Each processed file produces two lines, the detected PSI and its
// anonymized form, followed by a blank line:
//
//	PSI for john.json: {First Name: John, Location: [Paris, France]}
//	Anonymized PSI for john.json: {First Name: ****, Location: [Fortland, Chad]}
//
// A skipped file produces one "Skipped" line instead. The run summary is
// printed by Write unless disabled with WithSummary(false).
type SimpleWriter struct {
	baseWriter

	summary bool
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummary controls whether Write prints the run summary.
func WithSummary(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summary = show
	}
}

// WithVerbose adds the executed step names under each file.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter returns a SimpleWriter writing to output.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		summary:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteResult prints the PSI lines for one file.
func (w *SimpleWriter) WriteResult(res *model.FileResult) (int, error) {
	var sb strings.Builder

	if res.Skipped {
		sb.WriteString(fmt.Sprintf("Skipped %s: %s\n\n", res.File, res.ErrorMessage))
		return w.output.Write([]byte(sb.String()))
	}

	sb.WriteString(fmt.Sprintf("PSI for %s: %s\n", res.File, recordText(res.PSI)))
	sb.WriteString(fmt.Sprintf("Anonymized PSI for %s: %s\n", res.File, recordText(res.Anonymized)))
	if w.verbose && len(res.Steps) > 0 {
		sb.WriteString(fmt.Sprintf("  steps: %s\n", strings.Join(res.Steps, " -> ")))
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// Write prints the run summary.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	if !w.summary {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          PSISCAN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run ID:      %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Input:       %s\n", run.InputDir))
	sb.WriteString(fmt.Sprintf("Recognizer:  %s\n", run.Recognizer))
	sb.WriteString(fmt.Sprintf("Processed:   %d\n", run.ProcessedCount()))
	sb.WriteString(fmt.Sprintf("Skipped:     %d\n", run.SkippedCount()))
	sb.WriteString("\n")

	counts := run.AttributeCounts()
	if len(counts) > 0 {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("DETECTED ATTRIBUTES\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")
		for _, c := range counts {
			sb.WriteString(fmt.Sprintf("  %-16s %d\n", c.Attribute.String()+":", c.Count))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func recordText(rec *model.Record) string {
	if rec == nil {
		return "{}"
	}
	return rec.String()
}
