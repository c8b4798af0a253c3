// Package report renders scan results.
//
//   - SimpleWriter: the default terminal output, two lines per file
//   - JSONWriter: one JSON document for the whole run
//   - MarkdownWriter: a Markdown document with per-file tables and a
//     Mermaid chart of detected attributes
//
// Writers implement Writer and can be combined with MultiWriter.
package report
