package model

import (
	"math"
	"strings"
)

// PageType represents the kind of e-commerce page that was audited.
type PageType string

// Page type constants in discovery order.
const (
	// PageTypeUnknown represents an unparseable page type.
	PageTypeUnknown PageType = ""
	// PageTypeHomepage is the storefront landing page.
	PageTypeHomepage PageType = "homepage"
	// PageTypeCollection is a category or collection listing page.
	PageTypeCollection PageType = "collection"
	// PageTypePDP is a product detail page.
	PageTypePDP PageType = "pdp"
	// PageTypeCart is the shopping cart page.
	PageTypeCart PageType = "cart"
	// PageTypeCheckout is the checkout flow entry page.
	PageTypeCheckout PageType = "checkout"
	// PageTypeSearch is the on-site search results page.
	PageTypeSearch PageType = "search"
)

// AllPageTypes lists every valid page type in the canonical discovery order
// (Homepage, Collection, PDP, Cart, Checkout, Search). Report sections are
// emitted in this order regardless of input order.
var AllPageTypes = []PageType{
	PageTypeHomepage,
	PageTypeCollection,
	PageTypePDP,
	PageTypeCart,
	PageTypeCheckout,
	PageTypeSearch,
}

// String returns the canonical lowercase representation.
func (t PageType) String() string {
	if t == PageTypeUnknown {
		return "unknown"
	}
	return string(t)
}

// Label returns the human-readable label used in rendered reports.
func (t PageType) Label() string {
	switch t {
	case PageTypeHomepage:
		return "Homepage"
	case PageTypeCollection:
		return "Collection"
	case PageTypePDP:
		return "PDP"
	case PageTypeCart:
		return "Cart"
	case PageTypeCheckout:
		return "Checkout"
	case PageTypeSearch:
		return "Search"
	default:
		return "Unknown"
	}
}

// OrderIndex returns the position of the page type in the discovery
// sequence. Unknown types sort after all known types.
func (t PageType) OrderIndex() int {
	for i, pt := range AllPageTypes {
		if pt == t {
			return i
		}
	}
	return len(AllPageTypes)
}

// IsValid returns true if this is a known page type.
func (t PageType) IsValid() bool {
	return t.OrderIndex() < len(AllPageTypes)
}

// ParsePageType converts a string to a PageType. Matching is
// case-insensitive and tolerates the long form "product detail page".
func ParsePageType(s string) PageType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "homepage", "home":
		return PageTypeHomepage
	case "collection", "category":
		return PageTypeCollection
	case "pdp", "product", "product detail page":
		return PageTypePDP
	case "cart":
		return PageTypeCart
	case "checkout":
		return PageTypeCheckout
	case "search":
		return PageTypeSearch
	default:
		return PageTypeUnknown
	}
}

// PageResult holds the audit outcome for a single page: where it lives,
// what it looked like, and every scored finding recorded against it.
type PageResult struct {
	// PageType identifies which storefront page this result covers.
	PageType PageType `json:"page_type"`

	// URL is the audited page address.
	URL string `json:"url"`

	// DesktopScreenshot is an optional path or reference to the desktop
	// capture supplied by the external agent. Missing references are not
	// errors; renderers substitute a placeholder.
	DesktopScreenshot string `json:"desktop_screenshot,omitempty"`

	// MobileScreenshot is the optional mobile capture reference.
	MobileScreenshot string `json:"mobile_screenshot,omitempty"`

	// Findings are the scored observations for this page, in the order the
	// agent recorded them. Order never affects the computed page score.
	Findings []Finding `json:"findings"`
}

// Score returns the page score: the arithmetic mean of the findings'
// scores, rounded to one decimal place. The second return value is false
// when the page has no findings, in which case the score is undefined and
// reported as N/A.
//
// The reduction is a plain sum, so it is independent of finding order.
func (p *PageResult) Score() (float64, bool) {
	if len(p.Findings) == 0 {
		return 0, false
	}
	var sum int
	for _, f := range p.Findings {
		sum += f.Score
	}
	mean := float64(sum) / float64(len(p.Findings))
	return math.Round(mean*10) / 10, true
}
