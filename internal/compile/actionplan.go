package compile

import "github.com/liftlens/croaudit/internal/model"

// ActionPlanBucket names one cell of the impact/effort matrix.
type ActionPlanBucket string

// Action plan bucket constants.
const (
	// BucketQuickWin is high impact, low effort: do these first.
	BucketQuickWin ActionPlanBucket = "quick_win"
	// BucketMediumTerm is low impact, low effort: fill-in work.
	BucketMediumTerm ActionPlanBucket = "medium_term"
	// BucketStrategic is high impact, high effort: plan as initiatives.
	BucketStrategic ActionPlanBucket = "strategic"
	// BucketDeprioritized is low impact, high effort: revisit later.
	BucketDeprioritized ActionPlanBucket = "deprioritized"
)

// ActionPlan partitions every finding into exactly one matrix cell.
// No finding is ever dropped: a finding without an effort estimate is
// treated as high effort and still lands in a bucket.
type ActionPlan struct {
	// QuickWins are high-impact, low-effort findings.
	QuickWins []PlacedFinding `json:"quick_wins,omitempty"`

	// MediumTerm are low-impact, low-effort fill-in findings.
	MediumTerm []PlacedFinding `json:"medium_term,omitempty"`

	// Strategic are high-impact, high-effort findings.
	Strategic []PlacedFinding `json:"strategic,omitempty"`

	// Deprioritized are low-impact, high-effort findings.
	Deprioritized []PlacedFinding `json:"deprioritized,omitempty"`
}

// Total returns the number of findings across all buckets.
func (p *ActionPlan) Total() int {
	return len(p.QuickWins) + len(p.MediumTerm) + len(p.Strategic) + len(p.Deprioritized)
}

// ClassifyFinding returns the matrix cell for one finding.
// The matrix: high impact + low effort is a quick win, high + high is
// strategic, low + low is fill-in (medium term), low + high is
// deprioritized.
func ClassifyFinding(f PlacedFinding) ActionPlanBucket {
	highImpact := f.Finding.EffectiveImpact().IsHigh()
	lowEffort := f.Finding.EffectiveEffort() == model.EffortLow

	switch {
	case highImpact && lowEffort:
		return BucketQuickWin
	case highImpact && !lowEffort:
		return BucketStrategic
	case !highImpact && lowEffort:
		return BucketMediumTerm
	default:
		return BucketDeprioritized
	}
}

// partitionActionPlan classifies every finding, preserving input order
// inside each bucket.
func partitionActionPlan(findings []PlacedFinding) ActionPlan {
	var plan ActionPlan
	for _, f := range findings {
		switch ClassifyFinding(f) {
		case BucketQuickWin:
			plan.QuickWins = append(plan.QuickWins, f)
		case BucketStrategic:
			plan.Strategic = append(plan.Strategic, f)
		case BucketMediumTerm:
			plan.MediumTerm = append(plan.MediumTerm, f)
		case BucketDeprioritized:
			plan.Deprioritized = append(plan.Deprioritized, f)
		}
	}
	return plan
}
