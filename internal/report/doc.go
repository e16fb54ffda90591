// Package report renders compiled audits into client-facing documents.
//
// This package contains writers for different output formats:
//   - HTMLWriter: Self-contained HTML report with embedded screenshots
//   - MarkdownWriter: Markdown for documentation and sharing
//   - TextWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//
// Design decision: Writers consume a compiled audit, never a raw record.
// Every score, ranking, and color decision is made during compilation, so
// all formats agree on the numbers by construction and rendering is pure
// presentation.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
