package model

// Score bounds for a finding. Scores are integers on a 1-5 rubric where
// 1 is the most severe and 5 means no issue worth acting on.
const (
	// MinScore is the lowest (worst) valid finding score.
	MinScore = 1
	// MaxScore is the highest (best) valid finding score.
	MaxScore = 5
)

// Finding is a single scored observation about one evaluation criterion on
// one page. Findings are produced by the external auditing agent; the
// compiler validates and aggregates them but never invents or rewrites one.
type Finding struct {
	// CriterionID identifies the evaluation criterion (for example "H1").
	CriterionID string `json:"criterion_id"`

	// CriterionName is the optional human-readable criterion title
	// (for example "Hero Section & Value Proposition").
	CriterionName string `json:"criterion_name,omitempty"`

	// Lens is the analytical angle the finding belongs to.
	Lens Lens `json:"lens"`

	// Score is the 1-5 rating for this criterion. Lower is more severe.
	Score int `json:"score"`

	// Issue describes what is wrong.
	Issue string `json:"issue"`

	// Recommendation describes how to fix it.
	Recommendation string `json:"recommendation"`

	// Priority is the remediation urgency tier.
	Priority Priority `json:"priority"`

	// Effort is the optional implementation-effort estimate.
	// When absent the compiler assumes high effort.
	Effort Effort `json:"effort,omitempty"`

	// Impact is the optional conversion-impact estimate supplied by the
	// agent. The compiler never computes it.
	Impact Impact `json:"impact,omitempty"`
}

// EffectiveEffort returns the effort used for action-plan partitioning:
// the explicit estimate when present, otherwise high. Defaulting to high
// keeps unestimated findings out of the quick-win bucket.
func (f *Finding) EffectiveEffort() Effort {
	if f.Effort.IsValid() {
		return f.Effort
	}
	return EffortHigh
}

// EffectiveImpact returns the impact used for action-plan partitioning.
// An explicit estimate always wins. When the agent supplied none, the
// priority tier stands in: P0 and P1 findings count as high impact, P2 and
// P3 as low. This is a fallback for partitioning only; the report renders
// the impact field as supplied.
func (f *Finding) EffectiveImpact() Impact {
	if f.Impact.IsValid() {
		return f.Impact
	}
	if f.Priority == PriorityP0 || f.Priority == PriorityP1 {
		return ImpactHigh
	}
	return ImpactLow
}

// Bucket returns the severity bucket for the finding's score.
func (f *Finding) Bucket() ScoreBucket {
	return BucketForScore(float64(f.Score))
}
