package sanitize

import "github.com/liftlens/croaudit/internal/model"

// Report sanitizes every narrative field of an audit record in place.
// Structural fields (IDs, URLs, enums, screenshot paths) are left untouched.
func Report(r *model.AuditReport) {
	if r == nil {
		return
	}

	Strings(&r.SiteName, &r.Platform, &r.ExecutiveSummary)

	for i := range r.Pages {
		page := &r.Pages[i]
		for j := range page.Findings {
			f := &page.Findings[j]
			Strings(&f.CriterionName, &f.Issue, &f.Recommendation)
		}
	}

	for i := range r.CrossCuttingIssues {
		issue := &r.CrossCuttingIssues[i]
		Strings(&issue.Title, &issue.Description)
	}
}
