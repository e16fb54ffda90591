package main

import (
	"testing"
	"time"

	"github.com/liftlens/croaudit/internal/model"
)

func TestNewCompareCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	if cmd.Use != "compare [site-url]" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	flagsWithShort := map[string]string{
		"list":          "l",
		"list-sites":    "L",
		"with-audit-id": "i",
		"since":         "s",
		"json":          "j",
		"markdown":      "m",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}
}

// auditWith builds an audit record with the given homepage findings and an
// optional checkout page score.
func auditWith(findings []model.Finding, checkoutFindings []model.Finding) *model.AuditReport {
	report := &model.AuditReport{
		SiteURL:   "https://shop.example.com",
		AuditDate: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		Pages: []model.PageResult{
			{PageType: model.PageTypeHomepage, Findings: findings},
		},
	}
	if checkoutFindings != nil {
		report.Pages = append(report.Pages, model.PageResult{
			PageType: model.PageTypeCheckout,
			Findings: checkoutFindings,
		})
	}
	return report
}

func finding(id string, score int, priority model.Priority) model.Finding {
	return model.Finding{
		CriterionID: id,
		Lens:        model.LensClarity,
		Score:       score,
		Issue:       "issue for " + id,
		Priority:    priority,
	}
}

func TestCompareAudits(t *testing.T) {
	t.Parallel()

	previous := auditWith(
		[]model.Finding{
			finding("H1", 2, model.PriorityP1),
			finding("H2", 3, model.PriorityP2),
		},
		nil,
	)
	current := auditWith(
		[]model.Finding{
			finding("H1", 4, model.PriorityP2), // still present, improved
			finding("H3", 2, model.PriorityP0), // new
		},
		[]model.Finding{finding("C1", 3, model.PriorityP2)}, // new page
	)

	result := compareAudits(previous, current)

	if result.SiteURL != "https://shop.example.com" {
		t.Errorf("SiteURL = %q", result.SiteURL)
	}

	// H3 and C1 are new; H2 was resolved; H1 persists.
	if len(result.NewFindings) != 2 {
		t.Fatalf("NewFindings = %d, want 2", len(result.NewFindings))
	}
	if len(result.ResolvedFindings) != 1 {
		t.Fatalf("ResolvedFindings = %d, want 1", len(result.ResolvedFindings))
	}
	if result.ResolvedFindings[0].Finding.CriterionID != "H2" {
		t.Errorf("resolved = %q, want H2", result.ResolvedFindings[0].Finding.CriterionID)
	}
	if result.UnchangedCount != 1 {
		t.Errorf("UnchangedCount = %d, want 1", result.UnchangedCount)
	}

	// Homepage: (2+3)/2=2.5 -> (4+2)/2=3.0. Checkout appears only now.
	if len(result.PageChanges) != 2 {
		t.Fatalf("PageChanges = %d, want 2", len(result.PageChanges))
	}
	home := result.PageChanges[0]
	if home.PageType != model.PageTypeHomepage {
		t.Errorf("first page change = %s, want homepage", home.PageType)
	}
	if home.Previous != 2.5 || home.Current != 3.0 {
		t.Errorf("homepage scores = %.1f -> %.1f, want 2.5 -> 3.0", home.Previous, home.Current)
	}
	checkout := result.PageChanges[1]
	if checkout.PreviousDefined {
		t.Error("checkout had no baseline score")
	}
	if !checkout.CurrentDefined || checkout.Current != 3.0 {
		t.Errorf("checkout current = %.1f/%v, want 3.0/true", checkout.Current, checkout.CurrentDefined)
	}

	// Overall: previous 2.5, current (3.0+3.0)/2 = 3.0.
	if result.ScoreChange.Direction != scoreDirectionImproved {
		t.Errorf("Direction = %q, want improved", result.ScoreChange.Direction)
	}
	if result.ScoreChange.Delta != 0.5 {
		t.Errorf("Delta = %.1f, want 0.5", result.ScoreChange.Delta)
	}
}

func TestCompareAuditsSameCriterionDifferentPages(t *testing.T) {
	t.Parallel()

	// The same criterion ID on different pages is a different finding.
	previous := auditWith([]model.Finding{finding("X1", 3, model.PriorityP2)}, nil)
	current := auditWith(nil, []model.Finding{finding("X1", 3, model.PriorityP2)})

	result := compareAudits(previous, current)
	if len(result.NewFindings) != 1 || len(result.ResolvedFindings) != 1 {
		t.Errorf("new = %d, resolved = %d, want 1 and 1",
			len(result.NewFindings), len(result.ResolvedFindings))
	}
	if result.UnchangedCount != 0 {
		t.Errorf("UnchangedCount = %d, want 0", result.UnchangedCount)
	}
}

func TestCalculateScoreChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous AuditSummary
		current  AuditSummary
		want     string
	}{
		{
			name:     "score increased",
			previous: AuditSummary{OverallScore: 2.5, OverallDefined: true},
			current:  AuditSummary{OverallScore: 3.2, OverallDefined: true},
			want:     scoreDirectionImproved,
		},
		{
			name:     "score decreased",
			previous: AuditSummary{OverallScore: 4.0, OverallDefined: true},
			current:  AuditSummary{OverallScore: 3.1, OverallDefined: true},
			want:     scoreDirectionWorsened,
		},
		{
			name:     "score unchanged",
			previous: AuditSummary{OverallScore: 3.0, OverallDefined: true},
			current:  AuditSummary{OverallScore: 3.0, OverallDefined: true},
			want:     scoreDirectionUnchanged,
		},
		{
			name:     "undefined falls back to urgent counts",
			previous: AuditSummary{PriorityCounts: map[string]int{"P0": 2, "P1": 1}},
			current:  AuditSummary{PriorityCounts: map[string]int{"P0": 1, "P1": 1}},
			want:     scoreDirectionImproved,
		},
		{
			name:     "undefined with more urgent findings",
			previous: AuditSummary{PriorityCounts: map[string]int{"P1": 1}},
			current:  AuditSummary{PriorityCounts: map[string]int{"P0": 1}},
			want:     scoreDirectionWorsened,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := calculateScoreChange(tt.previous, tt.current)
			if got.Direction != tt.want {
				t.Errorf("Direction = %q, want %q", got.Direction, tt.want)
			}
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	t.Run("formatDelta", func(t *testing.T) {
		t.Parallel()
		if got := formatDelta(3); got != "+3" {
			t.Errorf("formatDelta(3) = %q", got)
		}
		if got := formatDelta(-2); got != "-2" {
			t.Errorf("formatDelta(-2) = %q", got)
		}
		if got := formatDelta(0); got != "0" {
			t.Errorf("formatDelta(0) = %q", got)
		}
	})

	t.Run("formatScore", func(t *testing.T) {
		t.Parallel()
		if got := formatScore(3.25, true); got != "3.2" {
			t.Errorf("formatScore(3.25, true) = %q", got)
		}
		if got := formatScore(0, false); got != "N/A" {
			t.Errorf("formatScore(0, false) = %q", got)
		}
	})

	t.Run("formatScoreDelta", func(t *testing.T) {
		t.Parallel()
		if got := formatScoreDelta(0.5); got != "+0.5" {
			t.Errorf("formatScoreDelta(0.5) = %q", got)
		}
		if got := formatScoreDelta(-0.3); got != "-0.3" {
			t.Errorf("formatScoreDelta(-0.3) = %q", got)
		}
		if got := formatScoreDelta(0); got != "0" {
			t.Errorf("formatScoreDelta(0) = %q", got)
		}
	})

	t.Run("formatPrioritySummary", func(t *testing.T) {
		t.Parallel()
		got := formatPrioritySummary(map[string]int{"P0": 1, "P2": 3})
		if got != "P0:1 P2:3" {
			t.Errorf("formatPrioritySummary = %q", got)
		}
		if got := formatPrioritySummary(map[string]int{}); got != noFindingsMessage {
			t.Errorf("empty summary = %q", got)
		}
		if got := formatPrioritySummary(nil); got != "N/A" {
			t.Errorf("nil summary = %q", got)
		}
	})
}
