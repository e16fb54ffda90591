package model

import "testing"

// TestBucketForScoreBoundaries tests the step function at and around every
// bucket boundary. Lower bounds are inclusive.
func TestBucketForScoreBoundaries(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		score    float64
		expected ScoreBucket
	}{
		{"exact 5.0", 5.0, BucketExcellent},
		{"exact 4.5", 4.5, BucketExcellent},
		{"just below 4.5", 4.49, BucketGood},
		{"exact 3.5", 3.5, BucketGood},
		{"just below 3.5", 3.49, BucketAcceptable},
		{"exact 2.5", 2.5, BucketAcceptable},
		{"just below 2.5", 2.49, BucketNeedsWork},
		{"exact 1.5", 1.5, BucketNeedsWork},
		{"just below 1.5", 1.49, BucketCritical},
		{"exact 1.0", 1.0, BucketCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := BucketForScore(tc.score); got != tc.expected {
				t.Errorf("BucketForScore(%v) = %v, expected %v", tc.score, got, tc.expected)
			}
		})
	}
}

// TestBucketForScoreMonotonic tests that goodness never increases as the
// score decreases and that every valid score maps to a documented bucket.
func TestBucketForScoreMonotonic(t *testing.T) {
	t.Parallel()

	prev := BucketExcellent
	for s := 5.0; s >= 1.0; s -= 0.01 {
		b := BucketForScore(s)
		if b > prev {
			t.Fatalf("bucket increased from %v to %v at score %.2f", prev, b, s)
		}
		if b.ColorToken() == "#6b7280" {
			t.Fatalf("score %.2f mapped outside the documented palette", s)
		}
		prev = b
	}
}

// TestScoreBucketString tests the bucket labels.
func TestScoreBucketString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		bucket   ScoreBucket
		expected string
	}{
		{BucketExcellent, "Excellent"},
		{BucketGood, "Good"},
		{BucketAcceptable, "Acceptable"},
		{BucketNeedsWork, "Needs Work"},
		{BucketCritical, "Critical"},
		{ScoreBucket(99), "Unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.bucket.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.bucket.String(), tc.expected)
			}
		})
	}
}

// TestScoreBucketColorToken tests the fixed five-token palette.
func TestScoreBucketColorToken(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		bucket   ScoreBucket
		expected string
	}{
		{BucketExcellent, "#16a34a"},
		{BucketGood, "#65a30d"},
		{BucketAcceptable, "#ca8a04"},
		{BucketNeedsWork, "#ea580c"},
		{BucketCritical, "#dc2626"},
	}

	for _, tc := range testCases {
		t.Run(tc.bucket.String(), func(t *testing.T) {
			t.Parallel()
			if tc.bucket.ColorToken() != tc.expected {
				t.Errorf("got %q, expected %q", tc.bucket.ColorToken(), tc.expected)
			}
		})
	}
}
