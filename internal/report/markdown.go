package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the compiled audit in Markdown format.
func (w *MarkdownWriter) Write(audit *compile.CompiledAudit) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, audit)
	w.writeScores(md, audit)
	w.writeTopFindings(md, audit)
	w.writePages(md, audit)
	w.writeCrossCutting(md, audit)
	w.writeActionPlan(md, audit)
	w.writeFooter(md, audit)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with site information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, audit *compile.CompiledAudit) {
	report := audit.Report

	md.H1("CRO Audit Report")
	md.PlainText("")

	overall := "N/A"
	if audit.OverallDefined {
		bucket := model.BucketForScore(audit.OverallScore)
		overall = fmt.Sprintf("**%.1f / 5.0** (%s)", audit.OverallScore, bucket)
	}

	rows := [][]string{
		{"Site", report.DisplayName()},
		{"URL", report.SiteURL},
		{"Overall Score", overall},
		{"Pages Audited", strconv.Itoa(len(audit.Pages))},
		{"Findings", fmt.Sprintf("%d (%d critical/high)", audit.TotalFindings, audit.UrgentFindings)},
	}
	if report.Platform != "" {
		rows = append(rows, []string{"Platform", report.Platform})
	}
	if !report.AuditDate.IsZero() {
		rows = append(rows, []string{"Audit Date", report.AuditDate.Format("2006-01-02")})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.ExecutiveSummary != "" {
		md.H2("Executive Summary")
		md.PlainText("")
		md.PlainText(report.ExecutiveSummary)
		md.PlainText("")
	}

	w.writeAlert(md, audit)
}

// writeAlert writes an appropriate alert based on the urgency of findings.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, audit *compile.CompiledAudit) {
	p0 := 0
	p1 := 0
	for _, pc := range audit.PriorityDistribution {
		switch pc.Priority {
		case model.PriorityP0:
			p0 = pc.Count
		case model.PriorityP1:
			p1 = pc.Count
		}
	}

	switch {
	case p0 > 0:
		md.Cautionf(
			"Critical conversion blockers detected! %d P0 finding(s) require immediate attention.",
			p0,
		)
	case p1 > 0:
		md.Warningf(
			"High priority issues detected. %d P1 finding(s) should be addressed this sprint.",
			p1,
		)
	case audit.TotalFindings > 0:
		md.Note("Only medium and low priority findings detected.")
	default:
		md.Tip("No findings recorded for this audit.")
	}
	md.PlainText("")
}

// writeScores writes page scores, lens averages, and the priority chart.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, audit *compile.CompiledAudit) {
	md.H2("Scores")
	md.PlainText("")

	pageRows := make([][]string, 0, len(audit.Pages))
	for _, page := range audit.Pages {
		score := "N/A"
		label := "-"
		if page.Defined {
			score = fmt.Sprintf("%.1f", page.Score)
			label = page.Bucket.String()
		}
		pageRows = append(pageRows, []string{page.Page.PageType.Label(), score, label})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Score", "Rating"},
		Rows:   pageRows,
	})
	md.PlainText("")

	lensRows := make([][]string, 0, len(audit.LensAverages))
	for _, la := range audit.LensAverages {
		if la.Count == 0 {
			continue
		}
		lensRows = append(lensRows, []string{
			la.Lens.Label(),
			fmt.Sprintf("%.2f", la.Average),
			strconv.Itoa(la.Count),
		})
	}
	if len(lensRows) > 0 {
		md.H3("By Lens")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Lens", "Average", "Findings"},
			Rows:   lensRows,
		})
		md.PlainText("")
	}

	if audit.TotalFindings > 0 {
		w.writePriorityChart(md, audit)
	}
}

// writePriorityChart writes a mermaid pie chart of the priority distribution.
func (w *MarkdownWriter) writePriorityChart(md *markdown.Markdown, audit *compile.CompiledAudit) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Priority Distribution"),
		piechart.WithShowData(true),
	)

	for _, pc := range audit.PriorityDistribution {
		if pc.Count > 0 {
			chart.LabelAndIntValue(pc.Priority.String()+" "+pc.Priority.Label(), uint64(pc.Count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTopFindings writes the highest-ranked findings across all pages.
func (w *MarkdownWriter) writeTopFindings(md *markdown.Markdown, audit *compile.CompiledAudit) {
	md.H2("Top Findings")
	md.PlainText("")

	if len(audit.TopFindings) == 0 {
		md.PlainText("No findings recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(audit.TopFindings))
	for i, pf := range audit.TopFindings {
		f := pf.Finding
		rows[i] = []string{
			f.Priority.String(),
			f.CriterionID,
			pf.PageType.Label(),
			strconv.Itoa(f.Score),
			truncateString(f.Issue, 60),
			truncateString(f.Recommendation, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Priority", "Criterion", "Page", "Score", "Issue", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes one section per audited page with its findings.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, audit *compile.CompiledAudit) {
	md.H2("Page Details")
	md.PlainText("")

	for _, page := range audit.Pages {
		title := page.Page.PageType.Label()
		if page.Defined {
			title = fmt.Sprintf("%s (%.1f)", title, page.Score)
		} else {
			title += " (N/A)"
		}
		md.H3(title)
		md.PlainText("")
		md.PlainTextf("[%s](%s)", page.Page.URL, page.Page.URL)
		md.PlainText("")

		if len(page.Page.Findings) == 0 {
			md.PlainText("No findings for this page.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, len(page.Page.Findings))
		for i, f := range page.Page.Findings {
			rows[i] = []string{
				f.CriterionID,
				f.Lens.Label(),
				strconv.Itoa(f.Score),
				f.Priority.String(),
				truncateString(f.Issue, 60),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Criterion", "Lens", "Score", "Priority", "Issue"},
			Rows:   rows,
		})
		md.PlainText("")

		// Recommendations are usually longer than a table cell can carry.
		for _, f := range page.Page.Findings {
			if f.Recommendation != "" {
				md.Details(f.CriterionID+" recommendation", f.Recommendation)
			}
		}
		md.PlainText("")
	}
}

// writeCrossCutting writes site-wide issues.
func (w *MarkdownWriter) writeCrossCutting(md *markdown.Markdown, audit *compile.CompiledAudit) {
	issues := audit.Report.CrossCuttingIssues
	if len(issues) == 0 {
		return
	}

	md.H2("Cross-Cutting Issues")
	md.PlainText("")

	items := make([]string, len(issues))
	for i, issue := range issues {
		labels := make([]string, len(issue.AffectedPages))
		for j, p := range issue.AffectedPages {
			labels[j] = p.Label()
		}
		item := fmt.Sprintf("**%s** %s", issue.Priority, issue.Title)
		if issue.Description != "" {
			item += " - " + issue.Description
		}
		if len(labels) > 0 {
			item += " (affects " + strings.Join(labels, ", ") + ")"
		}
		items[i] = item
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeActionPlan writes the impact/effort partition.
func (w *MarkdownWriter) writeActionPlan(md *markdown.Markdown, audit *compile.CompiledAudit) {
	plan := audit.ActionPlan
	if plan.Total() == 0 {
		return
	}

	md.H2("Action Plan")
	md.PlainText("")

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
		if len(section.findings) == 0 {
			continue
		}
		md.H3(section.title)
		md.PlainText("")

		items := make([]string, len(section.findings))
		for i, pf := range section.findings {
			items[i] = fmt.Sprintf("**%s** %s (%s): %s",
				pf.Finding.Priority, pf.Finding.CriterionID,
				pf.PageType.Label(), truncateString(pf.Finding.Recommendation, 100))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, audit *compile.CompiledAudit) {
	md.HorizontalRule()
	md.PlainText("")
	if !audit.Options.GeneratedAt.IsZero() {
		md.PlainTextf("*Generated %s by croaudit*",
			audit.Options.GeneratedAt.Format("2006-01-02 15:04 MST"))
	} else {
		md.PlainText("*Generated by croaudit*")
	}
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
