package compile

import (
	"fmt"

	"github.com/liftlens/croaudit/internal/model"
)

// Validate checks the audit record against the input invariants and returns
// a ValidationError naming the first offending field, or nil when the record
// is well formed.
//
// We report the first error rather than collecting all of them because the
// record is machine-generated: a malformed record usually means the agent
// produced garbage wholesale, and one precise path is enough to debug it.
func Validate(report *model.AuditReport) *ValidationError {
	if report == nil {
		return newValidationError("report", "record is missing")
	}
	if report.SiteURL == "" {
		return newValidationError("site_url", "must not be empty")
	}
	if len(report.Pages) == 0 {
		return newValidationError("pages", "must contain at least one page result")
	}

	for i := range report.Pages {
		if err := validatePage(&report.Pages[i], fmt.Sprintf("pages[%d]", i)); err != nil {
			return err
		}
	}

	for i, issue := range report.CrossCuttingIssues {
		path := fmt.Sprintf("cross_cutting_issues[%d]", i)
		if issue.Title == "" {
			return newValidationError(path+".title", "must not be empty")
		}
		if !issue.Priority.IsValid() {
			return newValidationError(path+".priority", "must be one of P0, P1, P2, P3")
		}
	}

	return nil
}

// validatePage checks a single page result and its findings.
func validatePage(page *model.PageResult, path string) *ValidationError {
	if !page.PageType.IsValid() {
		return newValidationError(path+".page_type",
			"must be one of Homepage, Collection, PDP, Cart, Checkout, Search")
	}
	if page.URL == "" {
		return newValidationError(path+".url", "must not be empty")
	}

	// Criterion IDs must be unique within a page: historical comparison
	// identifies a finding by its criterion on its page, so a duplicate
	// would make two findings indistinguishable across audits.
	seen := make(map[string]int, len(page.Findings))

	for i := range page.Findings {
		f := &page.Findings[i]
		fpath := fmt.Sprintf("%s.findings[%d]", path, i)

		if f.CriterionID == "" {
			return newValidationError(fpath+".criterion_id", "must not be empty")
		}
		if prev, ok := seen[f.CriterionID]; ok {
			return newValidationError(fpath+".criterion_id",
				"duplicate criterion %q, already used by findings[%d]", f.CriterionID, prev)
		}
		seen[f.CriterionID] = i
		if f.Score < model.MinScore || f.Score > model.MaxScore {
			return newValidationError(fpath+".score",
				"must be an integer between %d and %d, got %d", model.MinScore, model.MaxScore, f.Score)
		}
		if !f.Priority.IsValid() {
			return newValidationError(fpath+".priority", "must be one of P0, P1, P2, P3")
		}
		if !f.Lens.IsValid() {
			return newValidationError(fpath+".lens",
				"must be one of Clarity, Relevance, Friction, Anxiety, Urgency, Technical")
		}
		// Effort and impact are optional, but a present value must parse.
		if f.Effort != model.EffortUnknown && !f.Effort.IsValid() {
			return newValidationError(fpath+".effort", "must be low or high")
		}
		if f.Impact != model.ImpactUnknown && !f.Impact.IsValid() {
			return newValidationError(fpath+".impact", "must be low, medium, or high")
		}
	}

	return nil
}
