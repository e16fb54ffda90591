package model

import "strings"

// lensUnknownStr is the string representation for unknown lens values.
const lensUnknownStr = "unknown"

// Lens represents one of the analytical angles used to categorize a finding.
// The five LIFT lenses (Clarity, Relevance, Friction, Anxiety, Urgency) are
// extended with Technical for implementation-level issues.
type Lens string

// Lens constants. The canonical form is lowercase; Label returns the
// human-readable form used in reports.
const (
	// LensUnknown represents an unknown lens.
	LensUnknown Lens = ""
	// LensClarity covers value-proposition and messaging issues.
	LensClarity Lens = "clarity"
	// LensRelevance covers mismatches between visitor intent and content.
	LensRelevance Lens = "relevance"
	// LensFriction covers obstacles in the purchase flow.
	LensFriction Lens = "friction"
	// LensAnxiety covers trust and risk-perception issues.
	LensAnxiety Lens = "anxiety"
	// LensUrgency covers missing or weak motivation to act now.
	LensUrgency Lens = "urgency"
	// LensTechnical covers performance, rendering, and markup defects.
	LensTechnical Lens = "technical"
)

// AllLenses lists every valid lens in canonical report order.
// Aggregations (per-lens averages) iterate this slice so output ordering
// is stable regardless of finding order.
var AllLenses = []Lens{
	LensClarity,
	LensRelevance,
	LensFriction,
	LensAnxiety,
	LensUrgency,
	LensTechnical,
}

// String returns the canonical lowercase representation of the Lens.
func (l Lens) String() string {
	if l == LensUnknown {
		return lensUnknownStr
	}
	return string(l)
}

// Label returns the human-readable label used in rendered reports.
func (l Lens) Label() string {
	switch l {
	case LensClarity:
		return "Clarity"
	case LensRelevance:
		return "Relevance"
	case LensFriction:
		return "Friction"
	case LensAnxiety:
		return "Anxiety"
	case LensUrgency:
		return "Urgency"
	case LensTechnical:
		return "Technical"
	default:
		return "Unknown"
	}
}

// IsValid returns true if this is a known lens.
func (l Lens) IsValid() bool {
	switch l {
	case LensClarity, LensRelevance, LensFriction,
		LensAnxiety, LensUrgency, LensTechnical:
		return true
	default:
		return false
	}
}

// ParseLens converts a string to a Lens. Matching is case-insensitive
// because the input record is produced by an external agent whose casing
// is not guaranteed.
func ParseLens(s string) Lens {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clarity":
		return LensClarity
	case "relevance":
		return LensRelevance
	case "friction":
		return LensFriction
	case "anxiety":
		return LensAnxiety
	case "urgency":
		return LensUrgency
	case "technical":
		return LensTechnical
	default:
		return LensUnknown
	}
}
