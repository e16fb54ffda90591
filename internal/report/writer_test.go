package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

// compiledFixture builds a compiled audit with a representative mix of
// findings for writer tests.
func compiledFixture(t *testing.T) *compile.CompiledAudit {
	t.Helper()

	report := &model.AuditReport{
		SiteURL:          "https://shop.example.com",
		SiteName:         "Example Shop",
		Platform:         "Shopify",
		AuditDate:        time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		ExecutiveSummary: "Strong homepage, weak checkout.",
		Pages: []model.PageResult{
			{
				PageType: model.PageTypeHomepage,
				URL:      "https://shop.example.com/",
				Findings: []model.Finding{
					{
						CriterionID:    "H1",
						CriterionName:  "Value proposition",
						Lens:           model.LensClarity,
						Score:          4,
						Issue:          "Hero copy is vague.",
						Recommendation: "State the offer above the fold.",
						Priority:       model.PriorityP1,
						Effort:         model.EffortLow,
					},
				},
			},
			{
				PageType: model.PageTypeCheckout,
				URL:      "https://shop.example.com/checkout",
				Findings: []model.Finding{
					{
						CriterionID:    "C1",
						CriterionName:  "Guest checkout",
						Lens:           model.LensFriction,
						Score:          1,
						Issue:          "Account creation is forced.",
						Recommendation: "Offer guest checkout.",
						Priority:       model.PriorityP0,
						Effort:         model.EffortHigh,
					},
				},
			},
			{
				PageType: model.PageTypeSearch,
				URL:      "https://shop.example.com/search",
			},
		},
		CrossCuttingIssues: []model.CrossCuttingIssue{
			{
				Title:         "No trust badges",
				Description:   "Payment trust marks are missing sitewide.",
				AffectedPages: []model.PageType{model.PageTypeHomepage, model.PageTypeCheckout},
				Priority:      model.PriorityP2,
			},
		},
	}

	opts := compile.DefaultOptions()
	opts.GeneratedAt = time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)

	compiled, err := compile.Compile(report, opts)
	if err != nil {
		t.Fatalf("fixture failed to compile: %v", err)
	}
	return compiled
}

// TestParseFormat tests format name parsing.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"html", FormatHTML, false},
		{"HTML", FormatHTML, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, expected %v", got, tt.want)
			}
		})
	}
}

// TestFormatExtension tests the file extension mapping.
func TestFormatExtension(t *testing.T) {
	t.Parallel()

	want := map[Format]string{
		FormatHTML:     "html",
		FormatMarkdown: "md",
		FormatText:     "txt",
		FormatJSON:     "json",
	}
	for f, ext := range want {
		if got := f.Extension(); got != ext {
			t.Errorf("%v.Extension() = %q, expected %q", f, got, ext)
		}
	}
}

// TestTextWriter tests the terminal-friendly output.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	audit := compiledFixture(t)

	var buf bytes.Buffer
	w := NewTextWriter(&buf, WithVerbose(true))
	n, err := w.Write(audit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"CRO AUDIT REPORT",
		"Example Shop",
		"Overall Score:",
		"TOP FINDINGS",
		"ACTION PLAN",
		"C1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if !strings.Contains(out, "N/A") {
		t.Error("expected the empty search page to render as N/A")
	}
}

// TestMarkdownWriter tests the Markdown output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	audit := compiledFixture(t)

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(audit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# CRO Audit Report",
		"## Top Findings",
		"```mermaid",
		"## Action Plan",
		"Example Shop",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// A P0 exists, so the caution alert should fire.
	if !strings.Contains(out, "[!CAUTION]") {
		t.Error("expected a caution alert for P0 findings")
	}
}

// TestJSONWriter tests that JSON output parses and carries the aggregates.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	audit := compiledFixture(t)

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint(), WithVersion("1.2.3"))
	if _, err := w.Write(audit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed struct {
		Version string `json:"version"`
		Audit   struct {
			OverallScore   float64 `json:"overall_score"`
			OverallDefined bool    `json:"overall_defined"`
			TotalFindings  int     `json:"total_findings"`
		} `json:"audit"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if parsed.Version != "1.2.3" {
		t.Errorf("got version %q", parsed.Version)
	}
	if !parsed.Audit.OverallDefined {
		t.Error("expected a defined overall score")
	}
	// Homepage 4.0 and checkout 1.0 average to 2.5.
	if parsed.Audit.OverallScore != 2.5 {
		t.Errorf("got overall score %v, expected 2.5", parsed.Audit.OverallScore)
	}
	if parsed.Audit.TotalFindings != 2 {
		t.Errorf("got %d findings, expected 2", parsed.Audit.TotalFindings)
	}
}

// TestHTMLWriter tests the self-contained HTML output.
func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	audit := compiledFixture(t)

	var buf bytes.Buffer
	w := NewHTMLWriter(&buf)
	if _, err := w.Write(audit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"Example Shop",
		"Top Findings",
		"Action Plan",
		"No screenshot available",
		// Checkout page scored 1.0: critical red.
		"#dc2626",
		// Homepage scored 4.0: good.
		"#65a30d",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(out, "<script") {
		t.Error("report should not contain scripts")
	}
}

// TestHTMLWriterDeterminism tests that two renders of the same compiled
// audit are byte-identical.
func TestHTMLWriterDeterminism(t *testing.T) {
	t.Parallel()

	audit := compiledFixture(t)

	var a, b bytes.Buffer
	if _, err := NewHTMLWriter(&a).Write(audit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewHTMLWriter(&b).Write(audit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two renders of the same audit differ")
	}
}

// TestHTMLWriterColorOverride tests the palette override path.
func TestHTMLWriterColorOverride(t *testing.T) {
	t.Parallel()

	report := &model.AuditReport{
		SiteURL: "https://x.example",
		Pages: []model.PageResult{
			{
				PageType: model.PageTypeHomepage,
				URL:      "https://x.example/",
				Findings: []model.Finding{
					{CriterionID: "H1", Lens: model.LensClarity, Score: 1,
						Priority: model.PriorityP0},
				},
			},
		},
	}
	opts := compile.DefaultOptions()
	opts.Colors = map[model.ScoreBucket]string{model.BucketCritical: "#111111"}

	audit, err := compile.Compile(report, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if _, err := NewHTMLWriter(&buf).Write(audit); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "#111111") {
		t.Error("expected the overridden bucket color in the output")
	}
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	audit := compiledFixture(t)

	var text, md bytes.Buffer
	mw := NewMultiWriter(NewTextWriter(&text), NewMarkdownWriter(&md))

	n, err := mw.Write(audit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text.Len() == 0 || md.Len() == 0 {
		t.Error("expected output in both writers")
	}
	if n < text.Len() {
		t.Errorf("total %d is less than first writer's %d bytes", n, text.Len())
	}
}

// TestNewWriter tests the format factory.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	for _, f := range AllFormats {
		if _, err := NewWriter(f, &buf); err != nil {
			t.Errorf("NewWriter(%v) failed: %v", f, err)
		}
	}
	if _, err := NewWriter(Format("pdf"), &buf); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
