package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/liftlens/croaudit/internal/assets"
	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

// HTMLWriter outputs a self-contained HTML report.
// This is the primary client deliverable: one file, no external assets,
// screenshots embedded as data URIs.
//
// Design decision: We build a flat view model in Go and keep the template
// to pure presentation. Score and color decisions never happen in template
// expressions, so the HTML output cannot disagree with the other formats.
type HTMLWriter struct {
	baseWriter

	// loader resolves screenshot paths. Nil disables embedding.
	loader *assets.Loader
}

// HTMLWriterOption configures an HTMLWriter.
type HTMLWriterOption func(*HTMLWriter)

// WithAssetLoader supplies the loader used to embed screenshots.
func WithAssetLoader(loader *assets.Loader) HTMLWriterOption {
	return func(w *HTMLWriter) {
		w.loader = loader
	}
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...HTMLWriterOption) *HTMLWriter {
	w := &HTMLWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the compiled audit as a self-contained HTML document.
func (w *HTMLWriter) Write(audit *compile.CompiledAudit) (int, error) {
	view := w.buildView(audit)

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, view); err != nil {
		return 0, &compile.RenderError{Format: FormatHTML.String(), Err: err}
	}
	return w.output.Write([]byte(sb.String()))
}

// htmlView is the flat, fully resolved input to the HTML template.
type htmlView struct {
	SiteName         string
	SiteURL          string
	Platform         string
	AuditDate        string
	GeneratedAt      string
	ExecutiveSummary string

	OverallScore   string
	OverallLabel   string
	OverallColor   string
	OverallDefined bool

	TotalFindings  int
	UrgentFindings int
	PageCount      int

	Pages         []htmlPage
	Lenses        []htmlLens
	ScoreDist     []htmlBar
	PriorityDist  []htmlBar
	TopFindings   []htmlFinding
	CrossCutting  []htmlIssue
	ActionPlan    []htmlPlanSection
	MetadataNotes []string
}

type htmlPage struct {
	ID         string
	Label      string
	URL        string
	Score      string
	ScoreColor string
	Defined    bool
	Desktop    template.URL
	Mobile     template.URL
	Findings   []htmlFinding
}

type htmlLens struct {
	Label   string
	Average string
	Count   int
	Percent int
}

type htmlBar struct {
	Label   string
	Count   int
	Color   string
	Percent int
}

type htmlFinding struct {
	CriterionID    string
	CriterionName  string
	Lens           string
	Score          int
	ScoreColor     string
	Issue          string
	Recommendation string
	Priority       string
	PriorityLabel  string
	PriorityColor  string
	Page           string
}

type htmlIssue struct {
	Title         string
	Description   string
	Priority      string
	PriorityColor string
	Affected      string
}

type htmlPlanSection struct {
	Title    string
	Subtitle string
	Findings []htmlFinding
}

// buildView resolves every display decision ahead of template execution.
func (w *HTMLWriter) buildView(audit *compile.CompiledAudit) *htmlView {
	report := audit.Report
	opts := &audit.Options

	view := &htmlView{
		SiteName:         report.DisplayName(),
		SiteURL:          report.SiteURL,
		Platform:         report.Platform,
		ExecutiveSummary: report.ExecutiveSummary,
		TotalFindings:    audit.TotalFindings,
		UrgentFindings:   audit.UrgentFindings,
		PageCount:        len(audit.Pages),
		OverallDefined:   audit.OverallDefined,
	}
	if !report.AuditDate.IsZero() {
		view.AuditDate = report.AuditDate.Format("2006-01-02")
	}
	if !opts.GeneratedAt.IsZero() {
		view.GeneratedAt = opts.GeneratedAt.Format("2006-01-02 15:04 MST")
	}

	if audit.OverallDefined {
		bucket := model.BucketForScore(audit.OverallScore)
		view.OverallScore = fmt.Sprintf("%.1f", audit.OverallScore)
		view.OverallLabel = bucket.String()
		view.OverallColor = opts.BucketColor(bucket)
	} else {
		view.OverallScore = "N/A"
		view.OverallLabel = "No findings"
		view.OverallColor = model.ColorNeutral
	}

	view.Pages = w.buildPages(audit, view)
	view.Lenses = buildLenses(audit)
	view.ScoreDist = buildScoreDist(audit)
	view.PriorityDist = buildPriorityDist(audit)

	view.TopFindings = make([]htmlFinding, len(audit.TopFindings))
	for i, pf := range audit.TopFindings {
		view.TopFindings[i] = buildFinding(pf, opts)
	}

	view.CrossCutting = buildCrossCutting(report.CrossCuttingIssues)
	view.ActionPlan = buildActionPlan(&audit.ActionPlan, opts)

	return view
}

// buildPages prepares per-page sections, loading screenshots when a loader
// is configured and embedding is on. Sensitive image metadata found along
// the way is collected into the view's notes.
func (w *HTMLWriter) buildPages(audit *compile.CompiledAudit, view *htmlView) []htmlPage {
	opts := &audit.Options
	pages := make([]htmlPage, len(audit.Pages))

	for i, cp := range audit.Pages {
		page := htmlPage{
			ID:      cp.Page.PageType.String(),
			Label:   cp.Page.PageType.Label(),
			URL:     cp.Page.URL,
			Defined: cp.Defined,
		}
		if cp.Defined {
			page.Score = fmt.Sprintf("%.1f", cp.Score)
			page.ScoreColor = opts.BucketColor(cp.Bucket)
		} else {
			page.Score = "N/A"
			page.ScoreColor = model.ColorNeutral
		}

		if w.loader != nil && opts.EmbedImages {
			page.Desktop = w.loadScreenshot(cp.Page.DesktopScreenshot, view, page.Label+" desktop")
			page.Mobile = w.loadScreenshot(cp.Page.MobileScreenshot, view, page.Label+" mobile")
		}

		page.Findings = make([]htmlFinding, len(cp.Page.Findings))
		for j, f := range cp.Page.Findings {
			page.Findings[j] = buildFinding(compile.PlacedFinding{
				Finding:  f,
				PageType: cp.Page.PageType,
			}, opts)
		}
		pages[i] = page
	}
	return pages
}

// loadScreenshot returns a data URI, or empty when the image is missing.
// Sensitive EXIF metadata is surfaced as a report-level note so it can be
// scrubbed before the report is shared.
//
// The returned value is typed template.URL because html/template would
// otherwise reject data: URIs in src attributes. The URI is built from
// sniffed MIME type plus base64 payload, never from caller-controlled text.
func (w *HTMLWriter) loadScreenshot(path string, view *htmlView, label string) template.URL {
	img := w.loader.Load(path)
	if img.Missing {
		return ""
	}
	if len(img.MetadataTags) > 0 {
		view.MetadataNotes = append(view.MetadataNotes, fmt.Sprintf(
			"%s screenshot carries metadata (%s); consider scrubbing before sharing.",
			label, strings.Join(img.MetadataTags, ", ")))
	}
	return template.URL(img.DataURI)
}

func buildLenses(audit *compile.CompiledAudit) []htmlLens {
	lenses := make([]htmlLens, 0, len(audit.LensAverages))
	for _, la := range audit.LensAverages {
		if la.Count == 0 {
			continue
		}
		lenses = append(lenses, htmlLens{
			Label:   la.Lens.Label(),
			Average: fmt.Sprintf("%.2f", la.Average),
			Count:   la.Count,
			Percent: int(la.Average / float64(model.MaxScore) * 100),
		})
	}
	return lenses
}

func buildScoreDist(audit *compile.CompiledAudit) []htmlBar {
	max := 1
	for _, n := range audit.ScoreDistribution {
		if n > max {
			max = n
		}
	}

	bars := make([]htmlBar, len(audit.ScoreDistribution))
	for i, n := range audit.ScoreDistribution {
		score := i + model.MinScore
		bars[i] = htmlBar{
			Label:   fmt.Sprintf("%d", score),
			Count:   n,
			Color:   audit.Options.BucketColor(model.BucketForScore(float64(score))),
			Percent: n * 100 / max,
		}
	}
	return bars
}

func buildPriorityDist(audit *compile.CompiledAudit) []htmlBar {
	max := 1
	for _, pc := range audit.PriorityDistribution {
		if pc.Count > max {
			max = pc.Count
		}
	}

	bars := make([]htmlBar, len(audit.PriorityDistribution))
	for i, pc := range audit.PriorityDistribution {
		bars[i] = htmlBar{
			Label:   pc.Priority.String(),
			Count:   pc.Count,
			Color:   pc.Priority.ColorToken(),
			Percent: pc.Count * 100 / max,
		}
	}
	return bars
}

func buildFinding(pf compile.PlacedFinding, opts *compile.Options) htmlFinding {
	f := pf.Finding
	return htmlFinding{
		CriterionID:    f.CriterionID,
		CriterionName:  f.CriterionName,
		Lens:           f.Lens.Label(),
		Score:          f.Score,
		ScoreColor:     opts.BucketColor(model.BucketForScore(float64(f.Score))),
		Issue:          f.Issue,
		Recommendation: f.Recommendation,
		Priority:       f.Priority.String(),
		PriorityLabel:  f.Priority.Label(),
		PriorityColor:  f.Priority.ColorToken(),
		Page:           pf.PageType.Label(),
	}
}

func buildCrossCutting(issues []model.CrossCuttingIssue) []htmlIssue {
	out := make([]htmlIssue, len(issues))
	for i, issue := range issues {
		labels := make([]string, len(issue.AffectedPages))
		for j, p := range issue.AffectedPages {
			labels[j] = p.Label()
		}
		out[i] = htmlIssue{
			Title:         issue.Title,
			Description:   issue.Description,
			Priority:      issue.Priority.String(),
			PriorityColor: issue.Priority.ColorToken(),
			Affected:      strings.Join(labels, ", "),
		}
	}
	return out
}

func buildActionPlan(plan *compile.ActionPlan, opts *compile.Options) []htmlPlanSection {
	sections := []struct {
		title    string
		subtitle string
		findings []compile.PlacedFinding
	}{
		{"Quick Wins", "High impact, low effort", plan.QuickWins},
		{"Strategic", "High impact, high effort", plan.Strategic},
		{"Fill-Ins", "Low impact, low effort", plan.MediumTerm},
		{"Deprioritized", "Low impact, high effort", plan.Deprioritized},
	}

	out := make([]htmlPlanSection, 0, len(sections))
	for _, s := range sections {
		if len(s.findings) == 0 {
			continue
		}
		section := htmlPlanSection{
			Title:    s.title,
			Subtitle: s.subtitle,
			Findings: make([]htmlFinding, len(s.findings)),
		}
		for i, pf := range s.findings {
			section.Findings[i] = buildFinding(pf, opts)
		}
		out = append(out, section)
	}
	return out
}
