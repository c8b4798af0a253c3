package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/psiscan/internal/model"
)

// MarkdownWriter outputs the finished run as a Markdown document with one
// table per file and a pie chart of detected attributes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter returns a MarkdownWriter writing to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteResult does nothing; the document is built by Write.
func (w *MarkdownWriter) WriteResult(*model.FileResult) (int, error) {
	return 0, nil
}

// Write outputs the whole report.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSummary(md, run)
	w.writeFiles(md, run)
	w.writeSkipped(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("PSI Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.ID + "`"},
			{"Input", "`" + run.InputDir + "`"},
			{"Recognizer", run.Recognizer},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Files Processed", strconv.Itoa(run.ProcessedCount())},
			{"Files Skipped", strconv.Itoa(run.SkippedCount())},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.Run) {
	md.H2("Detected Attributes")
	md.PlainText("")

	counts := run.AttributeCounts()
	if len(counts) == 0 {
		md.PlainText("No PSI detected.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(counts))
		for i, c := range counts {
			rows[i] = []string{c.Attribute.String(), strconv.Itoa(c.Count)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Attribute", "Count"},
			Rows:   rows,
		})
		md.PlainText("")
		w.writePieChart(md, counts)
	}

	if skipped := run.SkippedCount(); skipped > 0 {
		md.Warningf("%d file(s) could not be processed. See the Skipped Files section.", skipped)
	} else {
		md.Tip("Every file in the input directory was processed.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts []model.AttributeCount) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Detected PSI by Attribute"),
		piechart.WithShowData(true),
	)
	for _, c := range counts {
		chart.LabelAndIntValue(c.Attribute.String(), uint64(c.Count)) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, run *model.Run) {
	md.H2("Files")
	md.PlainText("")

	if run.ProcessedCount() == 0 {
		md.PlainText("No files were processed.")
		md.PlainText("")
		return
	}

	for _, res := range run.Results {
		if res.Skipped {
			continue
		}
		md.H3(res.File)
		md.PlainText("")
		w.writeRecordTable(md, res)
	}
}

func (w *MarkdownWriter) writeRecordTable(md *markdown.Markdown, res *model.FileResult) {
	if res.PSI == nil || res.PSI.Len() == 0 {
		md.Note("No PSI detected in this file.")
		md.PlainText("")
		return
	}

	keys := res.PSI.Keys()
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		orig, _ := res.PSI.Get(k)
		anon := "-"
		if res.Anonymized != nil {
			if v, ok := res.Anonymized.Get(k); ok {
				anon = cellText(v)
			}
		}
		rows = append(rows, []string{k.String(), cellText(orig), anon})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Attribute", "Detected", "Anonymized"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, run *model.Run) {
	if run.SkippedCount() == 0 {
		return
	}

	md.H2("Skipped Files")
	md.PlainText("")

	items := make([]string, 0, run.SkippedCount())
	for _, res := range run.Results {
		if res.Skipped {
			items = append(items, "`"+res.File+"`: "+res.ErrorMessage)
		}
	}
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [psiscan](https://github.com/nao1215/psiscan)*")
}

// cellText renders a value for a table cell. Lists are joined with commas,
// an empty list is shown as "-", and pipes are escaped.
func cellText(v model.Value) string {
	var s string
	if v.IsList() {
		if v.Len() == 0 {
			return "-"
		}
		s = strings.Join(v.Items(), ", ")
	} else {
		s = v.Text()
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
