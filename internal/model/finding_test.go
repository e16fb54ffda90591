package model

import "testing"

// TestEffectiveEffort tests the conservative default for missing effort.
func TestEffectiveEffort(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		finding  Finding
		expected Effort
	}{
		{"explicit low", Finding{Effort: EffortLow}, EffortLow},
		{"explicit high", Finding{Effort: EffortHigh}, EffortHigh},
		{"missing defaults to high", Finding{}, EffortHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.finding.EffectiveEffort(); got != tc.expected {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestEffectiveImpact tests that explicit impact wins and that the
// priority-tier fallback maps P0/P1 high and P2/P3 low.
func TestEffectiveImpact(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		finding  Finding
		expected Impact
	}{
		{"explicit low beats P0 fallback", Finding{Priority: PriorityP0, Impact: ImpactLow}, ImpactLow},
		{"explicit high", Finding{Priority: PriorityP3, Impact: ImpactHigh}, ImpactHigh},
		{"P0 falls back to high", Finding{Priority: PriorityP0}, ImpactHigh},
		{"P1 falls back to high", Finding{Priority: PriorityP1}, ImpactHigh},
		{"P2 falls back to low", Finding{Priority: PriorityP2}, ImpactLow},
		{"P3 falls back to low", Finding{Priority: PriorityP3}, ImpactLow},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.finding.EffectiveImpact(); got != tc.expected {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestParseEffort tests effort parsing, including the medium-as-high rule.
func TestParseEffort(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Effort
	}{
		{"low", EffortLow},
		{"LOW", EffortLow},
		{"high", EffortHigh},
		{"medium", EffortHigh},
		{"", EffortUnknown},
		{"trivial", EffortUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseEffort(tc.input); got != tc.expected {
				t.Errorf("ParseEffort(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}

// TestImpactIsHigh tests that only an explicit high lands in the high row
// of the impact/effort matrix.
func TestImpactIsHigh(t *testing.T) {
	t.Parallel()

	if !ImpactHigh.IsHigh() {
		t.Error("expected high impact to be high")
	}
	if ImpactMedium.IsHigh() {
		t.Error("expected medium impact to land in the low row")
	}
	if ImpactLow.IsHigh() {
		t.Error("expected low impact to be low")
	}
}

// TestParseLens tests lens parsing.
func TestParseLens(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Lens
	}{
		{"clarity", LensClarity},
		{"Clarity", LensClarity},
		{"RELEVANCE", LensRelevance},
		{"friction", LensFriction},
		{"anxiety", LensAnxiety},
		{"urgency", LensUrgency},
		{"technical", LensTechnical},
		{"value", LensUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseLens(tc.input); got != tc.expected {
				t.Errorf("ParseLens(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		})
	}
}
