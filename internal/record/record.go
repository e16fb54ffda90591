package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

// dateLayout is the wire format for audit dates.
const dateLayout = "2006-01-02"

// auditDocument mirrors the agent's JSON document. Enum-valued fields stay
// strings here so we can parse them with precise error paths instead of
// letting encoding/json coerce them.
type auditDocument struct {
	SiteURL            string             `json:"site_url"`
	SiteName           string             `json:"site_name"`
	Platform           string             `json:"platform"`
	AuditDate          string             `json:"audit_date"`
	ExecutiveSummary   string             `json:"executive_summary"`
	Pages              []pageDocument     `json:"pages"`
	CrossCuttingIssues []crossCutDocument `json:"cross_cutting_issues"`
}

type pageDocument struct {
	PageType          string            `json:"page_type"`
	URL               string            `json:"url"`
	DesktopScreenshot string            `json:"desktop_screenshot_path"`
	MobileScreenshot  string            `json:"mobile_screenshot_path"`
	Findings          []findingDocument `json:"findings"`
}

type findingDocument struct {
	CriterionID    string `json:"criterion_id"`
	CriterionName  string `json:"criterion_name"`
	Lens           string `json:"lens"`
	Score          int    `json:"score"`
	Issue          string `json:"issue"`
	Recommendation string `json:"recommendation"`
	Priority       string `json:"priority"`
	Effort         string `json:"effort"`
	Impact         string `json:"impact"`
}

type crossCutDocument struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	AffectedPages []string `json:"affected_pages"`
	Priority      string   `json:"priority"`
}

// Decode reads one audit record document from r. It returns a
// *compile.ValidationError when the document is syntactically valid JSON
// but carries an unparseable field, so callers can treat decode failures
// and compile-time validation failures uniformly.
func Decode(r io.Reader) (*model.AuditReport, error) {
	var doc auditDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode audit record: %w", err)
	}

	report, verr := convert(&doc)
	if verr != nil {
		return nil, verr
	}
	return report, nil
}

// DecodeFile reads one audit record document from path.
func DecodeFile(path string) (*model.AuditReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit record: %w", err)
	}
	defer f.Close()

	report, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

// convert turns the wire document into the domain model, parsing every
// enum-valued field. Structural invariants (score range, required fields)
// are left to compile.Validate; convert only rejects values that cannot be
// represented in the model at all.
func convert(doc *auditDocument) (*model.AuditReport, *compile.ValidationError) {
	report := &model.AuditReport{
		SiteURL:          strings.TrimSpace(doc.SiteURL),
		SiteName:         strings.TrimSpace(doc.SiteName),
		Platform:         strings.TrimSpace(doc.Platform),
		ExecutiveSummary: doc.ExecutiveSummary,
	}

	if doc.AuditDate != "" {
		date, err := time.Parse(dateLayout, doc.AuditDate)
		if err != nil {
			return nil, &compile.ValidationError{
				Field:  "audit_date",
				Reason: fmt.Sprintf("must be a %s date, got %q", dateLayout, doc.AuditDate),
			}
		}
		report.AuditDate = date
	}

	report.Pages = make([]model.PageResult, 0, len(doc.Pages))
	for i, p := range doc.Pages {
		page, err := convertPage(&p, fmt.Sprintf("pages[%d]", i))
		if err != nil {
			return nil, err
		}
		report.Pages = append(report.Pages, page)
	}

	for i, c := range doc.CrossCuttingIssues {
		issue, err := convertCrossCut(&c, fmt.Sprintf("cross_cutting_issues[%d]", i))
		if err != nil {
			return nil, err
		}
		report.CrossCuttingIssues = append(report.CrossCuttingIssues, issue)
	}

	return report, nil
}

func convertPage(doc *pageDocument, path string) (model.PageResult, *compile.ValidationError) {
	pageType := model.ParsePageType(doc.PageType)
	if pageType == model.PageTypeUnknown {
		return model.PageResult{}, &compile.ValidationError{
			Field:  path + ".page_type",
			Reason: fmt.Sprintf("unknown page type %q", doc.PageType),
		}
	}

	page := model.PageResult{
		PageType:          pageType,
		URL:               strings.TrimSpace(doc.URL),
		DesktopScreenshot: doc.DesktopScreenshot,
		MobileScreenshot:  doc.MobileScreenshot,
		Findings:          make([]model.Finding, 0, len(doc.Findings)),
	}

	for i, f := range doc.Findings {
		finding, err := convertFinding(&f, fmt.Sprintf("%s.findings[%d]", path, i))
		if err != nil {
			return model.PageResult{}, err
		}
		page.Findings = append(page.Findings, finding)
	}
	return page, nil
}

func convertFinding(doc *findingDocument, path string) (model.Finding, *compile.ValidationError) {
	lens := model.ParseLens(doc.Lens)
	if lens == model.LensUnknown {
		return model.Finding{}, &compile.ValidationError{
			Field:  path + ".lens",
			Reason: fmt.Sprintf("unknown lens %q", doc.Lens),
		}
	}

	priority := model.ParsePriority(doc.Priority)
	if !priority.IsValid() {
		return model.Finding{}, &compile.ValidationError{
			Field:  path + ".priority",
			Reason: fmt.Sprintf("unknown priority %q", doc.Priority),
		}
	}

	finding := model.Finding{
		CriterionID:    strings.TrimSpace(doc.CriterionID),
		CriterionName:  strings.TrimSpace(doc.CriterionName),
		Lens:           lens,
		Score:          doc.Score,
		Issue:          doc.Issue,
		Recommendation: doc.Recommendation,
		Priority:       priority,
	}

	// Effort and impact are optional estimates. Absent is fine; present
	// but unrecognized is an error.
	if doc.Effort != "" {
		effort := model.ParseEffort(doc.Effort)
		if effort == model.EffortUnknown {
			return model.Finding{}, &compile.ValidationError{
				Field:  path + ".effort",
				Reason: fmt.Sprintf("unknown effort %q", doc.Effort),
			}
		}
		finding.Effort = effort
	}
	if doc.Impact != "" {
		impact := model.ParseImpact(doc.Impact)
		if impact == model.ImpactUnknown {
			return model.Finding{}, &compile.ValidationError{
				Field:  path + ".impact",
				Reason: fmt.Sprintf("unknown impact %q", doc.Impact),
			}
		}
		finding.Impact = impact
	}

	return finding, nil
}

func convertCrossCut(doc *crossCutDocument, path string) (model.CrossCuttingIssue, *compile.ValidationError) {
	priority := model.ParsePriority(doc.Priority)
	if !priority.IsValid() {
		return model.CrossCuttingIssue{}, &compile.ValidationError{
			Field:  path + ".priority",
			Reason: fmt.Sprintf("unknown priority %q", doc.Priority),
		}
	}

	issue := model.CrossCuttingIssue{
		Title:       strings.TrimSpace(doc.Title),
		Description: doc.Description,
		Priority:    priority,
	}

	for i, p := range doc.AffectedPages {
		pageType := model.ParsePageType(p)
		if pageType == model.PageTypeUnknown {
			return model.CrossCuttingIssue{}, &compile.ValidationError{
				Field:  fmt.Sprintf("%s.affected_pages[%d]", path, i),
				Reason: fmt.Sprintf("unknown page type %q", p),
			}
		}
		issue.AffectedPages = append(issue.AffectedPages, pageType)
	}

	return issue, nil
}
