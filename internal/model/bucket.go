package model

// ScoreBucket represents the severity band a numeric score falls into.
// Buckets are ordered by goodness: Critical is the worst, Excellent the best.
//
// Design decision: We use iota-based constants rather than string constants
// so the compiler can check exhaustiveness in switches and comparisons stay
// cheap when sorting pages by severity.
type ScoreBucket int

// ColorNeutral is the fallback color for undefined scores and unknown
// enum values.
const ColorNeutral = "#6b7280"

const (
	// BucketCritical covers scores below 1.5.
	BucketCritical ScoreBucket = iota

	// BucketNeedsWork covers scores in [1.5, 2.5).
	BucketNeedsWork

	// BucketAcceptable covers scores in [2.5, 3.5).
	BucketAcceptable

	// BucketGood covers scores in [3.5, 4.5).
	BucketGood

	// BucketExcellent covers scores of 4.5 and above.
	BucketExcellent
)

// BucketForScore maps a numeric score to its severity bucket using a fixed
// step function with inclusive lower bounds. The function is pure: same
// input, same bucket, no configuration involved.
func BucketForScore(score float64) ScoreBucket {
	switch {
	case score >= 4.5:
		return BucketExcellent
	case score >= 3.5:
		return BucketGood
	case score >= 2.5:
		return BucketAcceptable
	case score >= 1.5:
		return BucketNeedsWork
	default:
		return BucketCritical
	}
}

// String returns the canonical label for the bucket.
func (b ScoreBucket) String() string {
	switch b {
	case BucketExcellent:
		return "Excellent"
	case BucketGood:
		return "Good"
	case BucketAcceptable:
		return "Acceptable"
	case BucketNeedsWork:
		return "Needs Work"
	case BucketCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// ColorToken returns the fixed hex color associated with the bucket.
// These five tokens are the report's canonical palette; renderers may only
// deviate when the caller supplies an explicit color-scheme override.
func (b ScoreBucket) ColorToken() string {
	switch b {
	case BucketExcellent:
		return "#16a34a"
	case BucketGood:
		return "#65a30d"
	case BucketAcceptable:
		return "#ca8a04"
	case BucketNeedsWork:
		return "#ea580c"
	case BucketCritical:
		return "#dc2626"
	default:
		return ColorNeutral
	}
}

// AllBuckets lists every bucket from worst to best.
var AllBuckets = []ScoreBucket{
	BucketCritical,
	BucketNeedsWork,
	BucketAcceptable,
	BucketGood,
	BucketExcellent,
}
