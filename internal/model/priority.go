package model

import "strings"

// Priority represents the remediation urgency tier of a finding.
// It is independent of the 1-5 severity score: a low-scoring finding can
// still be a P3 if fixing it has little business value.
//
// Design decision: We use string-typed constants ("P0".."P3") rather than
// iota integers because the tier names appear verbatim in the input record
// and in rendered output. Rank() provides the integer ordering needed for
// sorting.
type Priority string

// Priority tier constants. P0 is the most urgent.
const (
	// PriorityUnknown represents an unparseable priority value.
	PriorityUnknown Priority = ""
	// PriorityP0 is critical: fix immediately.
	PriorityP0 Priority = "P0"
	// PriorityP1 is high: fix this sprint.
	PriorityP1 Priority = "P1"
	// PriorityP2 is medium: fix this quarter.
	PriorityP2 Priority = "P2"
	// PriorityP3 is low: fix opportunistically.
	PriorityP3 Priority = "P3"
)

// AllPriorities lists every valid tier from most to least urgent.
var AllPriorities = []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3}

// String returns the tier name ("P0".."P3").
func (p Priority) String() string {
	if p == PriorityUnknown {
		return "unknown"
	}
	return string(p)
}

// Rank returns the sort rank of the tier. P0 ranks 0 (highest urgency).
// Unknown tiers rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	default:
		return 4
	}
}

// Label returns the human-readable urgency label for the tier.
func (p Priority) Label() string {
	switch p {
	case PriorityP0:
		return "Critical"
	case PriorityP1:
		return "High"
	case PriorityP2:
		return "Medium"
	case PriorityP3:
		return "Low"
	default:
		return "Unknown"
	}
}

// ColorToken returns the fixed hex color associated with the tier.
// The table is part of the report contract and must not drift between
// output formats.
func (p Priority) ColorToken() string {
	switch p {
	case PriorityP0:
		return "#dc2626"
	case PriorityP1:
		return "#ea580c"
	case PriorityP2:
		return "#ca8a04"
	case PriorityP3:
		return "#65a30d"
	default:
		return ColorNeutral
	}
}

// IsValid returns true if this is a known priority tier.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityP0, PriorityP1, PriorityP2, PriorityP3:
		return true
	default:
		return false
	}
}

// ParsePriority converts a string to a Priority. Matching is
// case-insensitive ("p1" and "P1" are equivalent).
func ParsePriority(s string) Priority {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P0":
		return PriorityP0
	case "P1":
		return PriorityP1
	case "P2":
		return PriorityP2
	case "P3":
		return PriorityP3
	default:
		return PriorityUnknown
	}
}
