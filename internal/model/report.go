package model

import (
	"math"
	"time"
)

// AuditReport is the complete audit record for one site, as produced by the
// external auditing agent. It is the sole input to the report compiler.
//
// Design decision: The report exclusively owns its PageResults and their
// Findings. Nothing is shared across reports, so compiling several reports
// concurrently needs no locking.
type AuditReport struct {
	// SiteURL is the audited storefront address.
	SiteURL string `json:"site_url"`

	// SiteName is the optional display name. Falls back to SiteURL.
	SiteName string `json:"site_name,omitempty"`

	// Platform is the detected e-commerce platform (free text, may be
	// "unknown").
	Platform string `json:"platform"`

	// AuditDate is the date the audit was performed.
	AuditDate time.Time `json:"audit_date"`

	// ExecutiveSummary is optional narrative text written by the agent.
	ExecutiveSummary string `json:"executive_summary,omitempty"`

	// Pages holds one result per discovered page type.
	Pages []PageResult `json:"pages"`

	// CrossCuttingIssues are site-wide problems that span multiple pages.
	CrossCuttingIssues []CrossCuttingIssue `json:"cross_cutting_issues,omitempty"`
}

// CrossCuttingIssue is a problem observed on more than one page, reported
// once at the site level instead of repeated per page.
type CrossCuttingIssue struct {
	// Title is a short name for the issue.
	Title string `json:"title"`

	// Description explains the issue.
	Description string `json:"description"`

	// AffectedPages lists the page types where the issue was observed.
	AffectedPages []PageType `json:"affected_pages,omitempty"`

	// Priority is the remediation urgency tier.
	Priority Priority `json:"priority"`
}

// OverallScore returns the site score: the mean of all defined page scores,
// rounded to one decimal place. The second return value is false when no
// page has findings, in which case the overall score is undefined.
func (r *AuditReport) OverallScore() (float64, bool) {
	var sum float64
	var n int
	for i := range r.Pages {
		if s, ok := r.Pages[i].Score(); ok {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	mean := sum / float64(n)
	return math.Round(mean*10) / 10, true
}

// TotalFindings returns the number of findings across all pages.
func (r *AuditReport) TotalFindings() int {
	var n int
	for i := range r.Pages {
		n += len(r.Pages[i].Findings)
	}
	return n
}

// DisplayName returns the site name, falling back to the URL.
func (r *AuditReport) DisplayName() string {
	if r.SiteName != "" {
		return r.SiteName
	}
	return r.SiteURL
}
