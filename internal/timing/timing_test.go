package timing

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestCompute_ZeroWeightedSum(t *testing.T) {
	t.Parallel()

	budget := Budget{TotalSeconds: 60, MinSeconds: 3, MaxSeconds: 10}

	tests := []struct {
		name    string
		counts  [6]int
		weights Weights
	}{
		{"no images", [6]int{}, DefaultWeights()},
		{"all present weights zero", [6]int{0, 0, 0, 4, 0, 0}, Weights{100, 100, 100, 0, 100, 100}},
		{"all weights zero", [6]int{1, 1, 1, 1, 1, 1}, Weights{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.counts, tt.weights, budget)
			if !errors.Is(err, ErrZeroWeightedSum) {
				t.Fatalf("Compute() error = %v, want ErrZeroWeightedSum", err)
			}
		})
	}
}

// The worked example: 4 images rated [5,3,0,5] with weights {5:125, 3:100,
// 0:100} on a 60s budget all clamp to the 10s maximum.
func TestCompute_ClampsToMax(t *testing.T) {
	t.Parallel()

	counts := CountByRating([]int{5, 3, 0, 5})
	weights := Weights{100, 50, 75, 100, 125, 125}
	budget := Budget{TotalSeconds: 60, MinSeconds: 3, MaxSeconds: 10}

	got, err := Compute(counts, weights, budget)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// weightedSum = 125+100+100+125 = 450; 60/450 * 125 = 16.67 → 10, etc.
	for _, r := range []int{5, 3, 0} {
		if !almostEqual(got.DurationSeconds[r], 10) {
			t.Errorf("duration[%d] = %g, want 10 (clamped)", r, got.DurationSeconds[r])
		}
	}
	if !almostEqual(got.RealizedSeconds, 40) {
		t.Errorf("RealizedSeconds = %g, want 40", got.RealizedSeconds)
	}
}

func TestCompute_DurationsWithinWindow(t *testing.T) {
	t.Parallel()

	budgets := []Budget{
		{TotalSeconds: 180, MinSeconds: 3, MaxSeconds: 10},
		{TotalSeconds: 420, MinSeconds: 3, MaxSeconds: 10},
		{TotalSeconds: 720, MinSeconds: 2, MaxSeconds: 8},
		{TotalSeconds: 1080, MinSeconds: 2, MaxSeconds: 8},
	}
	countSets := [][6]int{
		{1, 0, 0, 0, 0, 0},
		{10, 4, 3, 2, 1, 0},
		{0, 0, 0, 0, 0, 200},
		{33, 33, 33, 33, 33, 33},
	}

	for _, budget := range budgets {
		for _, counts := range countSets {
			got, err := Compute(counts, DefaultWeights(), budget)
			if err != nil {
				t.Fatalf("Compute(%v, %v): %v", counts, budget, err)
			}
			for r, d := range got.DurationSeconds {
				if d < budget.MinSeconds || d > budget.MaxSeconds {
					t.Errorf("duration[%d] = %g outside [%g, %g]", r, d, budget.MinSeconds, budget.MaxSeconds)
				}
			}
		}
	}
}

func TestCompute_BlendClampedToShortestThird(t *testing.T) {
	t.Parallel()

	counts := [6]int{0, 0, 0, 20, 0, 2}
	budget := Budget{TotalSeconds: 100, MinSeconds: 1, MaxSeconds: 30, BlendSeconds: 5}

	got, err := Compute(counts, DefaultWeights(), budget)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	shortest := math.Inf(1)
	for r, n := range counts {
		if n > 0 && got.DurationSeconds[r] < shortest {
			shortest = got.DurationSeconds[r]
		}
	}
	if got.BlendSeconds > shortest/3+tolerance {
		t.Errorf("BlendSeconds = %g exceeds shortest/3 = %g", got.BlendSeconds, shortest/3)
	}
	if got.BlendSeconds <= 0 {
		t.Errorf("BlendSeconds = %g, want > 0 for a requested blend", got.BlendSeconds)
	}
}

func TestCompute_NoBlendRequested(t *testing.T) {
	t.Parallel()

	counts := [6]int{0, 0, 0, 0, 0, 3}
	budget := Budget{TotalSeconds: 30, MinSeconds: 3, MaxSeconds: 10}

	got, err := Compute(counts, DefaultWeights(), budget)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.BlendSeconds != 0 {
		t.Errorf("BlendSeconds = %g, want 0 when no blend requested", got.BlendSeconds)
	}
}

func TestCompute_RealizedIncludesOneBlend(t *testing.T) {
	t.Parallel()

	counts := [6]int{0, 0, 0, 6, 0, 0}
	budget := Budget{TotalSeconds: 60, MinSeconds: 1, MaxSeconds: 30, BlendSeconds: 2}

	got, err := Compute(counts, DefaultWeights(), budget)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	want := 6*got.DurationSeconds[3] + got.BlendSeconds
	if !almostEqual(got.RealizedSeconds, want) {
		t.Errorf("RealizedSeconds = %g, want %g", got.RealizedSeconds, want)
	}
}

func TestCountByRating(t *testing.T) {
	t.Parallel()

	got := CountByRating([]int{5, 5, 3, 0, -1, 7, 2})
	want := [6]int{3, 0, 1, 1, 0, 2}
	if got != want {
		t.Errorf("CountByRating = %v, want %v", got, want)
	}
}

func TestBudgetValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		budget  Budget
		wantErr bool
	}{
		{"valid", Budget{TotalSeconds: 60, MinSeconds: 3, MaxSeconds: 10}, false},
		{"valid with blend", Budget{TotalSeconds: 60, MinSeconds: 3, MaxSeconds: 10, BlendSeconds: 1}, false},
		{"zero total", Budget{MinSeconds: 3, MaxSeconds: 10}, true},
		{"negative total", Budget{TotalSeconds: -5, MinSeconds: 3, MaxSeconds: 10}, true},
		{"min above max", Budget{TotalSeconds: 60, MinSeconds: 11, MaxSeconds: 10}, true},
		{"negative blend", Budget{TotalSeconds: 60, MinSeconds: 3, MaxSeconds: 10, BlendSeconds: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("DefaultWeights().Validate() = %v, want nil", err)
	}
	bad := Weights{100, -1, 75, 100, 125, 125}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil for negative weight, want error")
	}
}
