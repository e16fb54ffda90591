package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

// TextWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type TextWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables issue and recommendation text per finding.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with issue and recommendation text.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the compiled audit in human-readable format.
func (w *TextWriter) Write(audit *compile.CompiledAudit) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, audit)
	w.writeScores(&sb, audit)
	w.writeTopFindings(&sb, audit)
	w.writePages(&sb, audit)
	w.writeCrossCutting(&sb, audit)
	w.writeActionPlan(&sb, audit)
	w.writeFooter(&sb, audit)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with site information.
func (w *TextWriter) writeHeader(sb *strings.Builder, audit *compile.CompiledAudit) {
	report := audit.Report

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        CRO AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:           %s\n", report.DisplayName()))
	sb.WriteString(fmt.Sprintf("URL:            %s\n", report.SiteURL))
	if report.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform:       %s\n", report.Platform))
	}
	if !report.AuditDate.IsZero() {
		sb.WriteString(fmt.Sprintf("Audit Date:     %s\n", report.AuditDate.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("Pages Audited:  %d\n", len(audit.Pages)))
	sb.WriteString(fmt.Sprintf("Findings:       %d (%d critical/high)\n",
		audit.TotalFindings, audit.UrgentFindings))

	if audit.OverallDefined {
		bucket := model.BucketForScore(audit.OverallScore)
		sb.WriteString(fmt.Sprintf("Overall Score:  %.1f / 5.0 (%s)\n", audit.OverallScore, bucket))
	} else {
		sb.WriteString("Overall Score:  N/A (no findings)\n")
	}

	if report.ExecutiveSummary != "" {
		sb.WriteString("\n")
		sb.WriteString(report.ExecutiveSummary)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeScores writes per-page scores and lens averages.
func (w *TextWriter) writeScores(sb *strings.Builder, audit *compile.CompiledAudit) {
	w.sectionHeader(sb, "SCORES")

	for _, page := range audit.Pages {
		if page.Defined {
			sb.WriteString(fmt.Sprintf("  %-12s %.1f  (%s)\n",
				page.Page.PageType.Label(), page.Score, page.Bucket))
		} else {
			sb.WriteString(fmt.Sprintf("  %-12s N/A\n", page.Page.PageType.Label()))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("  By lens:\n")
	for _, la := range audit.LensAverages {
		if la.Count == 0 && !w.showEmpty {
			continue
		}
		if la.Count == 0 {
			sb.WriteString(fmt.Sprintf("    %-10s -\n", la.Lens.Label()))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %-10s %.2f  (%d findings)\n",
			la.Lens.Label(), la.Average, la.Count))
	}
	sb.WriteString("\n")

	sb.WriteString("  By priority:\n")
	for _, pc := range audit.PriorityDistribution {
		sb.WriteString(fmt.Sprintf("    %s %-9s %d\n", pc.Priority, pc.Priority.Label()+":", pc.Count))
	}
	sb.WriteString("\n")
}

// writeTopFindings writes the highest-ranked findings across all pages.
func (w *TextWriter) writeTopFindings(sb *strings.Builder, audit *compile.CompiledAudit) {
	if len(audit.TopFindings) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "TOP FINDINGS")

	if len(audit.TopFindings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for i, pf := range audit.TopFindings {
		f := pf.Finding
		sb.WriteString(fmt.Sprintf("  %d. [%s] %s (%s, score %d)\n",
			i+1, f.Priority, f.CriterionID, pf.PageType.Label(), f.Score))
		if f.Issue != "" {
			sb.WriteString(fmt.Sprintf("     %s\n", f.Issue))
		}
		if f.Recommendation != "" {
			sb.WriteString(fmt.Sprintf("     Fix: %s\n", f.Recommendation))
		}
	}
	sb.WriteString("\n")
}

// writePages writes one section per audited page.
func (w *TextWriter) writePages(sb *strings.Builder, audit *compile.CompiledAudit) {
	w.sectionHeader(sb, "PAGE DETAILS")

	for _, page := range audit.Pages {
		if page.Defined {
			sb.WriteString(fmt.Sprintf("[%s] %.1f  %s\n",
				page.Page.PageType.Label(), page.Score, page.Page.URL))
		} else {
			sb.WriteString(fmt.Sprintf("[%s] N/A  %s\n",
				page.Page.PageType.Label(), page.Page.URL))
		}

		for _, f := range page.Page.Findings {
			sb.WriteString(fmt.Sprintf("  * %s %s (%s, score %d)\n",
				f.Priority, f.CriterionID, f.Lens.Label(), f.Score))
			if w.verbose {
				if f.Issue != "" {
					sb.WriteString(fmt.Sprintf("    Issue: %s\n", f.Issue))
				}
				if f.Recommendation != "" {
					sb.WriteString(fmt.Sprintf("    Recommendation: %s\n", f.Recommendation))
				}
			}
		}
		sb.WriteString("\n")
	}
}

// writeCrossCutting writes site-wide issues.
func (w *TextWriter) writeCrossCutting(sb *strings.Builder, audit *compile.CompiledAudit) {
	issues := audit.Report.CrossCuttingIssues
	if len(issues) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "CROSS-CUTTING ISSUES")

	if len(issues) == 0 {
		sb.WriteString("  No cross-cutting issues\n\n")
		return
	}

	for _, issue := range issues {
		sb.WriteString(fmt.Sprintf("  * [%s] %s\n", issue.Priority, issue.Title))
		if issue.Description != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", issue.Description))
		}
		if len(issue.AffectedPages) > 0 {
			labels := make([]string, len(issue.AffectedPages))
			for i, p := range issue.AffectedPages {
				labels[i] = p.Label()
			}
			sb.WriteString(fmt.Sprintf("    Affects: %s\n", strings.Join(labels, ", ")))
		}
	}
	sb.WriteString("\n")
}

// writeActionPlan writes the impact/effort partition.
func (w *TextWriter) writeActionPlan(sb *strings.Builder, audit *compile.CompiledAudit) {
	plan := audit.ActionPlan
	if plan.Total() == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "ACTION PLAN")

	sections := []struct {
		title    string
		findings []compile.PlacedFinding
	}{
		{"Quick Wins (high impact, low effort)", plan.QuickWins},
		{"Strategic (high impact, high effort)", plan.Strategic},
		{"Fill-Ins (low impact, low effort)", plan.MediumTerm},
		{"Deprioritized (low impact, high effort)", plan.Deprioritized},
	}

	for _, section := range sections {
		if len(section.findings) == 0 && !w.showEmpty {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", section.title))
		if len(section.findings) == 0 {
			sb.WriteString("  (none)\n")
		}
		for _, pf := range section.findings {
			sb.WriteString(fmt.Sprintf("  * [%s] %s (%s)\n",
				pf.Finding.Priority, pf.Finding.CriterionID, pf.PageType.Label()))
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder, audit *compile.CompiledAudit) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if !audit.Options.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Generated %s by croaudit\n",
			audit.Options.GeneratedAt.Format("2006-01-02 15:04 MST")))
	} else {
		sb.WriteString("Generated by croaudit\n")
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// sectionHeader writes a dashed section divider.
func (w *TextWriter) sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
