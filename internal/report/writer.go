package report

import (
	"io"
	"strings"

	"github.com/liftlens/croaudit/internal/compile"
)

// Writer defines the interface for report output.
// Implementations render a compiled audit in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write renders the compiled audit to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(audit *compile.CompiledAudit) (int, error)
}

// Format identifies an output format.
type Format string

// Supported output formats.
const (
	// FormatHTML is a self-contained HTML document.
	FormatHTML Format = "html"
	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"
	// FormatText is plain text for terminal display.
	FormatText Format = "text"
	// FormatJSON is the compiled audit as JSON.
	FormatJSON Format = "json"
)

// AllFormats lists every supported format.
var AllFormats = []Format{FormatHTML, FormatMarkdown, FormatText, FormatJSON}

// String returns the format name.
func (f Format) String() string { return string(f) }

// IsValid returns true if this is a supported format.
func (f Format) IsValid() bool {
	for _, known := range AllFormats {
		if f == known {
			return true
		}
	}
	return false
}

// Extension returns the conventional file extension, without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// ParseFormat converts a string to a Format. Matching is case-insensitive
// and "md" is accepted for Markdown. An unsupported name returns a
// RenderError.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", &compile.RenderError{Format: s}
	}
}

// NewWriter creates a writer for the given format. HTML writers accept
// further configuration through NewHTMLWriter; this factory uses defaults.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatHTML:
		return NewHTMLWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewTextWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, &compile.RenderError{Format: format.String()}
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write compiled audits, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the audit to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(audit *compile.CompiledAudit) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(audit)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
