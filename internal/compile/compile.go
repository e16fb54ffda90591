package compile

import (
	"sort"
	"time"

	"github.com/liftlens/croaudit/internal/model"
)

// DefaultTopFindings is the number of site-level top findings selected when
// the caller does not override it.
const DefaultTopFindings = 5

// Options configures a compilation. All fields that influence output are
// explicit here; in particular the report timestamp is an input, never read
// from the environment, so repeated compilations are byte-identical.
type Options struct {
	// TopFindings is the maximum number of site-level top findings.
	// Zero means DefaultTopFindings.
	TopFindings int `json:"top_findings,omitempty"`

	// GeneratedAt is the timestamp embedded in rendered output.
	// The caller decides what "now" means.
	GeneratedAt time.Time `json:"generated_at"`

	// EmbedImages controls whether renderers inline screenshots as data
	// URIs (true, the default for HTML) or reference them by path.
	EmbedImages bool `json:"embed_images"`

	// Colors optionally overrides the default bucket palette. Buckets not
	// present in the map keep their canonical token.
	Colors map[model.ScoreBucket]string `json:"-"`
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		TopFindings: DefaultTopFindings,
		EmbedImages: true,
	}
}

// BucketColor returns the color token for a bucket, honoring any override.
func (o *Options) BucketColor(b model.ScoreBucket) string {
	if c, ok := o.Colors[b]; ok && c != "" {
		return c
	}
	return b.ColorToken()
}

// CompiledAudit is the aggregated, render-ready form of an audit record.
// Every number a renderer displays is computed here exactly once, so the
// choice of output format cannot change scores, colors, or rankings.
type CompiledAudit struct {
	// Report is the validated input record with pages in discovery order.
	Report *model.AuditReport `json:"report"`

	// Options are the compilation options, kept so renderers agree on
	// embedding and palette decisions.
	Options Options `json:"options"`

	// OverallScore is the site score. Only meaningful when OverallDefined.
	OverallScore float64 `json:"overall_score"`

	// OverallDefined is false when no page has findings.
	OverallDefined bool `json:"overall_defined"`

	// Pages holds per-page aggregates in discovery order.
	Pages []CompiledPage `json:"pages"`

	// LensAverages holds the mean score per lens across all findings,
	// in canonical lens order. Lenses with no findings report a zero count.
	LensAverages []LensAverage `json:"lens_averages"`

	// ScoreDistribution counts findings per score value; index 0 holds
	// score 1.
	ScoreDistribution [5]int `json:"score_distribution"`

	// PriorityDistribution counts findings per priority tier, in tier order.
	PriorityDistribution []PriorityCount `json:"priority_distribution"`

	// TopFindings are the highest-ranked findings across all pages.
	TopFindings []PlacedFinding `json:"top_findings"`

	// ActionPlan partitions every finding by the impact/effort matrix.
	ActionPlan ActionPlan `json:"action_plan"`

	// TotalFindings is the number of findings across all pages.
	TotalFindings int `json:"total_findings"`

	// UrgentFindings counts P0 and P1 findings.
	UrgentFindings int `json:"urgent_findings"`
}

// CompiledPage pairs a page result with its derived aggregates.
type CompiledPage struct {
	// Page is the underlying page result.
	Page *model.PageResult `json:"page"`

	// Score is the page score. Only meaningful when Defined.
	Score float64 `json:"score"`

	// Defined is false when the page has no findings (rendered as N/A).
	Defined bool `json:"defined"`

	// Bucket is the severity bucket of the page score.
	Bucket model.ScoreBucket `json:"-"`
}

// LensAverage is the mean finding score for one lens.
type LensAverage struct {
	// Lens is the analytical angle.
	Lens model.Lens `json:"lens"`

	// Average is the mean score across findings with this lens, rounded
	// to two decimals. Zero when Count is zero.
	Average float64 `json:"average"`

	// Count is the number of findings with this lens.
	Count int `json:"count"`
}

// PriorityCount is the number of findings in one priority tier.
type PriorityCount struct {
	// Priority is the tier.
	Priority model.Priority `json:"priority"`

	// Count is the number of findings in the tier.
	Count int `json:"count"`
}

// PlacedFinding is a finding annotated with the page it was observed on,
// used for site-level listings where the page context would otherwise be
// lost.
type PlacedFinding struct {
	// Finding is the underlying finding.
	Finding model.Finding `json:"finding"`

	// PageType is the page the finding was recorded on.
	PageType model.PageType `json:"page_type"`
}

// Compile validates and aggregates an audit record. It returns a
// ValidationError when the record is malformed; nothing is rendered in
// that case.
func Compile(report *model.AuditReport, opts Options) (*CompiledAudit, error) {
	if err := Validate(report); err != nil {
		return nil, err
	}
	if opts.TopFindings <= 0 {
		opts.TopFindings = DefaultTopFindings
	}

	// Normalize page order to the discovery sequence. Stable so duplicate
	// page types keep their input order.
	sort.SliceStable(report.Pages, func(i, j int) bool {
		return report.Pages[i].PageType.OrderIndex() < report.Pages[j].PageType.OrderIndex()
	})

	compiled := &CompiledAudit{
		Report:  report,
		Options: opts,
	}

	compiled.OverallScore, compiled.OverallDefined = report.OverallScore()
	compiled.aggregatePages()
	compiled.aggregateLenses()
	compiled.aggregateDistributions()
	compiled.rankTopFindings(opts.TopFindings)
	compiled.ActionPlan = partitionActionPlan(compiled.allFindings())

	return compiled, nil
}

// aggregatePages computes per-page scores and buckets.
func (c *CompiledAudit) aggregatePages() {
	c.Pages = make([]CompiledPage, len(c.Report.Pages))
	for i := range c.Report.Pages {
		page := &c.Report.Pages[i]
		score, ok := page.Score()
		c.Pages[i] = CompiledPage{
			Page:    page,
			Score:   score,
			Defined: ok,
			Bucket:  model.BucketForScore(score),
		}
		c.TotalFindings += len(page.Findings)
	}
}

// aggregateLenses computes the mean score per lens. Iterating AllLenses
// keeps the output order fixed regardless of finding order.
func (c *CompiledAudit) aggregateLenses() {
	sums := make(map[model.Lens]int)
	counts := make(map[model.Lens]int)
	for i := range c.Report.Pages {
		for _, f := range c.Report.Pages[i].Findings {
			sums[f.Lens] += f.Score
			counts[f.Lens]++
		}
	}

	c.LensAverages = make([]LensAverage, 0, len(model.AllLenses))
	for _, lens := range model.AllLenses {
		avg := LensAverage{Lens: lens, Count: counts[lens]}
		if avg.Count > 0 {
			avg.Average = roundTwo(float64(sums[lens]) / float64(avg.Count))
		}
		c.LensAverages = append(c.LensAverages, avg)
	}
}

// aggregateDistributions counts findings per score value and per priority
// tier.
func (c *CompiledAudit) aggregateDistributions() {
	priorityCounts := make(map[model.Priority]int)
	for i := range c.Report.Pages {
		for _, f := range c.Report.Pages[i].Findings {
			c.ScoreDistribution[f.Score-model.MinScore]++
			priorityCounts[f.Priority]++
			if f.Priority == model.PriorityP0 || f.Priority == model.PriorityP1 {
				c.UrgentFindings++
			}
		}
	}

	c.PriorityDistribution = make([]PriorityCount, 0, len(model.AllPriorities))
	for _, p := range model.AllPriorities {
		c.PriorityDistribution = append(c.PriorityDistribution, PriorityCount{
			Priority: p,
			Count:    priorityCounts[p],
		})
	}
}

// allFindings flattens every finding with its page context, preserving
// page discovery order and the agent's per-page finding order.
func (c *CompiledAudit) allFindings() []PlacedFinding {
	placed := make([]PlacedFinding, 0, c.TotalFindings)
	for i := range c.Report.Pages {
		page := &c.Report.Pages[i]
		for _, f := range page.Findings {
			placed = append(placed, PlacedFinding{Finding: f, PageType: page.PageType})
		}
	}
	return placed
}

// rankTopFindings selects the site-level top findings using a two-key
// comparator: priority rank first (P0 highest), then ascending score
// (a lower score is more severe). The sort is stable, so ties keep the
// input order.
func (c *CompiledAudit) rankTopFindings(limit int) {
	ranked := c.allFindings()
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i].Finding, &ranked[j].Finding
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.Score < b.Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	c.TopFindings = ranked
}

// roundTwo rounds to two decimal places for lens averages.
func roundTwo(v float64) float64 {
	const scale = 100
	return float64(int(v*scale+0.5)) / scale
}
