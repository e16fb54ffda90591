package model

import "strings"

// Effort represents the estimated implementation effort of a finding's
// recommendation. It is supplied by the external agent; when absent the
// compiler assumes high effort so nothing is optimistically promoted into
// the quick-win bucket.
type Effort string

// Effort constants.
const (
	// EffortUnknown represents a missing or unparseable effort estimate.
	EffortUnknown Effort = ""
	// EffortLow means the fix is a copy, style, or configuration change.
	EffortLow Effort = "low"
	// EffortHigh means the fix needs design or engineering work.
	EffortHigh Effort = "high"
)

// String returns the canonical lowercase representation.
func (e Effort) String() string {
	if e == EffortUnknown {
		return "unknown"
	}
	return string(e)
}

// IsValid returns true if this is a known effort level.
func (e Effort) IsValid() bool {
	return e == EffortLow || e == EffortHigh
}

// ParseEffort converts a string to an Effort. "medium" is treated as high:
// anything that is not clearly cheap is planned as real work.
func ParseEffort(s string) Effort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return EffortLow
	case "high", "medium":
		return EffortHigh
	default:
		return EffortUnknown
	}
}

// Impact represents the estimated conversion impact of fixing a finding.
// It is a judgment call made by the external agent per finding. When the
// agent omits it, Finding.EffectiveImpact falls back to the priority tier.
type Impact string

// Impact constants.
const (
	// ImpactUnknown represents a missing impact estimate.
	ImpactUnknown Impact = ""
	// ImpactLow means fixing the finding is unlikely to move conversion.
	ImpactLow Impact = "low"
	// ImpactMedium means a modest expected conversion lift.
	ImpactMedium Impact = "medium"
	// ImpactHigh means a significant expected conversion lift.
	ImpactHigh Impact = "high"
)

// String returns the canonical lowercase representation.
func (i Impact) String() string {
	if i == ImpactUnknown {
		return "unknown"
	}
	return string(i)
}

// IsValid returns true if this is a known impact level.
func (i Impact) IsValid() bool {
	return i == ImpactLow || i == ImpactMedium || i == ImpactHigh
}

// IsHigh reports whether the impact counts as the high row of the 2x2
// impact/effort matrix. Only an explicit "high" qualifies; medium and low
// both land in the low-impact row.
func (i Impact) IsHigh() bool {
	return i == ImpactHigh
}

// ParseImpact converts a string to an Impact.
func ParseImpact(s string) Impact {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ImpactLow
	case "medium":
		return ImpactMedium
	case "high":
		return ImpactHigh
	default:
		return ImpactUnknown
	}
}
