// Package timing converts a rating-weighted image set and a time budget into
// per-rating display durations and a cross-fade duration. The computation is
// a single deterministic pass: nothing feeds back into duration selection.
package timing

import (
	"errors"
	"fmt"
)

// MaxRating is the highest supported star rating. Ratings run 0..MaxRating.
const MaxRating = 5

// ErrZeroWeightedSum is returned when the weighted image mass is zero —
// either no images at all, or every present rating carries a zero weight.
var ErrZeroWeightedSum = errors.New("timing: weighted image mass is zero")

// Weights maps a star rating (index 0..5) to its relative weight. A higher
// weight means images of that rating stay on screen longer.
type Weights [MaxRating + 1]int

// DefaultWeights returns the stock weighting table: better-rated images get
// proportionally more screen time, unrated images count as average.
func DefaultWeights() Weights {
	return Weights{100, 50, 75, 100, 125, 125}
}

// Validate reports an error if any weight is negative.
func (w Weights) Validate() error {
	for r, v := range w {
		if v < 0 {
			return fmt.Errorf("timing: weight for rating %d is negative (%d)", r, v)
		}
	}
	return nil
}

// Budget describes the time envelope for one show.
type Budget struct {
	// TotalSeconds is the requested overall show duration.
	TotalSeconds float64

	// MinSeconds and MaxSeconds clamp the per-image display duration.
	MinSeconds float64
	MaxSeconds float64

	// BlendSeconds is the requested cross-fade duration. Zero disables
	// cross-fades entirely.
	BlendSeconds float64
}

// Validate reports an error for an unusable budget.
func (b Budget) Validate() error {
	if b.TotalSeconds <= 0 {
		return fmt.Errorf("timing: total duration must be positive, got %gs", b.TotalSeconds)
	}
	if b.MinSeconds < 0 || b.MaxSeconds < 0 {
		return fmt.Errorf("timing: per-image durations must not be negative")
	}
	if b.MinSeconds > b.MaxSeconds {
		return fmt.Errorf("timing: min duration %gs exceeds max duration %gs", b.MinSeconds, b.MaxSeconds)
	}
	if b.BlendSeconds < 0 {
		return fmt.Errorf("timing: blend duration must not be negative, got %gs", b.BlendSeconds)
	}
	return nil
}

// Timing is the computed result of Compute. All values are in seconds.
type Timing struct {
	// DurationSeconds holds the clamped display duration per rating.
	DurationSeconds [MaxRating + 1]float64

	// BlendSeconds is the effective cross-fade duration, never more than a
	// third of the shortest duration among present ratings.
	BlendSeconds float64

	// RealizedSeconds is the show duration the durations actually add up to,
	// including one blend transition. Informational only: it is reported to
	// the caller and never enforced against wall-clock playback.
	RealizedSeconds float64
}

// shortestPresent returns the smallest per-rating duration among ratings with
// at least one image. The second return is false when no rating is present.
func shortestPresent(counts [MaxRating + 1]int, durations [MaxRating + 1]float64) (float64, bool) {
	shortest := 0.0
	found := false
	for r, n := range counts {
		if n == 0 {
			continue
		}
		if !found || durations[r] < shortest {
			shortest = durations[r]
			found = true
		}
	}
	return shortest, found
}

// Compute derives per-rating display durations from the image counts, the
// weighting table and the budget. The caller must guarantee at least one
// image; an all-zero weighted sum yields ErrZeroWeightedSum.
func Compute(counts [MaxRating + 1]int, weights Weights, budget Budget) (Timing, error) {
	weightedSum := 0.0
	for r, n := range counts {
		weightedSum += float64(n) * float64(weights[r])
	}
	if weightedSum == 0 {
		return Timing{}, ErrZeroWeightedSum
	}

	perWeight := budget.TotalSeconds / weightedSum

	var t Timing
	for r := range t.DurationSeconds {
		d := perWeight * float64(weights[r])
		if d < budget.MinSeconds {
			d = budget.MinSeconds
		} else if d > budget.MaxSeconds {
			d = budget.MaxSeconds
		}
		t.DurationSeconds[r] = d
	}

	// A cross-fade must never exceed the visible lifetime of the
	// fastest-cycling rating class.
	if budget.BlendSeconds > 0 {
		if shortest, ok := shortestPresent(counts, t.DurationSeconds); ok {
			t.BlendSeconds = budget.BlendSeconds
			if limit := shortest / 3; t.BlendSeconds > limit {
				t.BlendSeconds = limit
			}
		}
	}

	// One extra blend transition beyond the per-image total, matching the
	// timeline's fade-in/fade-out structure.
	for r, n := range counts {
		t.RealizedSeconds += float64(n) * t.DurationSeconds[r]
	}
	t.RealizedSeconds += t.BlendSeconds

	return t, nil
}

// CountByRating tallies ratings into the fixed-size count vector Compute
// expects. Ratings outside 0..5 count as unrated.
func CountByRating(ratings []int) [MaxRating + 1]int {
	var counts [MaxRating + 1]int
	for _, r := range ratings {
		if r < 0 || r > MaxRating {
			r = 0
		}
		counts[r]++
	}
	return counts
}
