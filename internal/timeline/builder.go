package timeline

import (
	"fmt"

	"github.com/papapumpkin/diashow/internal/timing"
)

// Slide is one image in the ordered playback sequence. The caller applies
// forward/reverse/random ordering before building; the builder is
// order-agnostic.
type Slide struct {
	Image  string
	Rating int
}

// Entry pairs a segment with its absolute start and end times at unit speed.
type Entry struct {
	Segment Segment
	Start   float64
	End     float64
}

// Build expands the slide sequence into a contiguous entry list:
// a fade-in, then per image a static display with a cross-fade into its
// successor, then a fade-out and a single zero-duration stop sentinel.
// An empty sequence yields nil; attempting playback on that is the caller's
// precondition violation.
//
// The fade-in and fade-out each last one blend duration, so the sum of all
// non-stop, non-crossfade durations plus the cross-fade durations reproduces
// the realized total from the duration computation.
func Build(slides []Slide, t timing.Timing) []Entry {
	if len(slides) == 0 {
		return nil
	}

	blend := t.BlendSeconds
	duration := func(s Slide) float64 {
		r := s.Rating
		if r < 0 || r > timing.MaxRating {
			r = 0
		}
		return t.DurationSeconds[r]
	}

	entries := make([]Entry, 0, 2*len(slides)+3)
	cursor := 0.0
	push := func(seg Segment) {
		if seg.Duration < 0 {
			// Structurally prevented: the blend is clamped to a third of the
			// shortest per-rating duration before the builder runs.
			panic(fmt.Sprintf("timeline: %s segment for %q has negative duration %g",
				seg.Kind, seg.Image, seg.Duration))
		}
		entries = append(entries, Entry{Segment: seg, Start: cursor, End: cursor + seg.Duration})
		cursor += seg.Duration
	}

	first := slides[0]
	push(Segment{Kind: KindStart, Image: first.Image, Rating: first.Rating, Duration: blend})

	for i := 0; i < len(slides)-1; i++ {
		cur, next := slides[i], slides[i+1]
		push(Segment{Kind: KindFixed, Image: cur.Image, Rating: cur.Rating, Duration: duration(cur) - blend})
		push(Segment{Kind: KindCrossFade, Image: cur.Image, Next: next.Image, Rating: next.Rating, Duration: blend})
	}

	last := slides[len(slides)-1]
	push(Segment{Kind: KindFixed, Image: last.Image, Rating: last.Rating, Duration: duration(last) - blend})
	push(Segment{Kind: KindEnd, Image: last.Image, Rating: last.Rating, Duration: blend})
	push(Segment{Kind: KindStop})

	return entries
}

// TotalSeconds returns the timeline length at unit speed, zero for an empty
// timeline.
func TotalSeconds(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].End
}
