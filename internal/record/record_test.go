package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/model"
)

const sampleDocument = `{
  "site_url": "https://shop.example.com",
  "site_name": "Example Shop",
  "platform": "Shopify",
  "audit_date": "2026-02-14",
  "executive_summary": "Solid fundamentals, weak checkout.",
  "pages": [
    {
      "page_type": "Homepage",
      "url": "https://shop.example.com/",
      "desktop_screenshot_path": "shots/home-desktop.png",
      "mobile_screenshot_path": "shots/home-mobile.png",
      "findings": [
        {
          "criterion_id": "H1",
          "criterion_name": "Value proposition",
          "lens": "Clarity",
          "score": 4,
          "issue": "Hero copy is vague.",
          "recommendation": "State the offer above the fold.",
          "priority": "P1",
          "effort": "low",
          "impact": "high"
        }
      ]
    }
  ],
  "cross_cutting_issues": [
    {
      "title": "No trust badges",
      "description": "Payment trust marks are missing everywhere.",
      "affected_pages": ["Homepage", "Checkout"],
      "priority": "P2"
    }
  ]
}`

// TestDecode tests decoding a well-formed document.
func TestDecode(t *testing.T) {
	t.Parallel()

	report, err := Decode(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.SiteURL != "https://shop.example.com" {
		t.Errorf("unexpected site URL %q", report.SiteURL)
	}
	if report.SiteName != "Example Shop" {
		t.Errorf("unexpected site name %q", report.SiteName)
	}

	wantDate := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	if !report.AuditDate.Equal(wantDate) {
		t.Errorf("unexpected audit date %v", report.AuditDate)
	}

	if len(report.Pages) != 1 {
		t.Fatalf("got %d pages, expected 1", len(report.Pages))
	}
	page := report.Pages[0]
	if page.PageType != model.PageTypeHomepage {
		t.Errorf("unexpected page type %v", page.PageType)
	}
	if page.DesktopScreenshot != "shots/home-desktop.png" {
		t.Errorf("unexpected screenshot path %q", page.DesktopScreenshot)
	}

	if len(page.Findings) != 1 {
		t.Fatalf("got %d findings, expected 1", len(page.Findings))
	}
	f := page.Findings[0]
	if f.Lens != model.LensClarity || f.Priority != model.PriorityP1 {
		t.Errorf("unexpected finding enums: %+v", f)
	}
	if f.Effort != model.EffortLow || f.Impact != model.ImpactHigh {
		t.Errorf("unexpected effort/impact: %+v", f)
	}

	if len(report.CrossCuttingIssues) != 1 {
		t.Fatalf("got %d cross-cutting issues, expected 1", len(report.CrossCuttingIssues))
	}
	issue := report.CrossCuttingIssues[0]
	if len(issue.AffectedPages) != 2 || issue.AffectedPages[1] != model.PageTypeCheckout {
		t.Errorf("unexpected affected pages: %v", issue.AffectedPages)
	}
}

// TestDecodeLenientEnums tests case-insensitive enums and aliases.
func TestDecodeLenientEnums(t *testing.T) {
	t.Parallel()

	doc := `{
  "site_url": "https://x.example",
  "pages": [
    {
      "page_type": "Product Detail Page",
      "url": "https://x.example/p/1",
      "findings": [
        {"criterion_id": "C1", "lens": "FRICTION", "score": 3,
         "priority": "p0", "effort": "medium"}
      ]
    }
  ]
}`

	report, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Pages[0].PageType != model.PageTypePDP {
		t.Errorf("unexpected page type %v", report.Pages[0].PageType)
	}
	f := report.Pages[0].Findings[0]
	if f.Lens != model.LensFriction || f.Priority != model.PriorityP0 {
		t.Errorf("unexpected enums: %+v", f)
	}
	// Medium effort is planned as real work.
	if f.Effort != model.EffortHigh {
		t.Errorf("got effort %v, expected high", f.Effort)
	}
}

// TestDecodeErrors tests that bad fields surface as validation errors with
// the offending path.
func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{
			name:      "malformed date",
			doc:       `{"site_url": "https://x.example", "audit_date": "Feb 14", "pages": []}`,
			wantField: "audit_date",
		},
		{
			name: "unknown page type",
			doc: `{"site_url": "https://x.example",
				"pages": [{"page_type": "blog", "url": "https://x.example/blog"}]}`,
			wantField: "pages[0].page_type",
		},
		{
			name: "unknown lens",
			doc: `{"site_url": "https://x.example",
				"pages": [{"page_type": "homepage", "url": "https://x.example/",
				"findings": [{"criterion_id": "C1", "lens": "vibes", "score": 3, "priority": "P1"}]}]}`,
			wantField: "pages[0].findings[0].lens",
		},
		{
			name: "unknown priority",
			doc: `{"site_url": "https://x.example",
				"pages": [{"page_type": "homepage", "url": "https://x.example/",
				"findings": [{"criterion_id": "C1", "lens": "clarity", "score": 3, "priority": "urgent"}]}]}`,
			wantField: "pages[0].findings[0].priority",
		},
		{
			name: "unknown impact",
			doc: `{"site_url": "https://x.example",
				"pages": [{"page_type": "homepage", "url": "https://x.example/",
				"findings": [{"criterion_id": "C1", "lens": "clarity", "score": 3,
				"priority": "P1", "impact": "huge"}]}]}`,
			wantField: "pages[0].findings[0].impact",
		},
		{
			name: "unknown affected page",
			doc: `{"site_url": "https://x.example",
				"pages": [{"page_type": "homepage", "url": "https://x.example/"}],
				"cross_cutting_issues": [{"title": "t", "priority": "P1", "affected_pages": ["blog"]}]}`,
			wantField: "cross_cutting_issues[0].affected_pages[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.doc))
			var verr *compile.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("got field %q, expected %q", verr.Field, tt.wantField)
			}
		})
	}
}

// TestDecodeMalformedJSON tests that syntax errors are not validation errors.
func TestDecodeMalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader(`{"site_url": `))
	if err == nil {
		t.Fatal("expected an error for truncated JSON")
	}
	var verr *compile.ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("syntax error should not be a ValidationError: %v", err)
	}
}

// TestDecodeFile tests the file-based entry point.
func TestDecodeFile(t *testing.T) {
	t.Parallel()

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "audit.json")
		if err := os.WriteFile(path, []byte(sampleDocument), 0600); err != nil {
			t.Fatal(err)
		}

		report, err := DecodeFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.SiteURL != "https://shop.example.com" {
			t.Errorf("unexpected site URL %q", report.SiteURL)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := DecodeFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}
