// Package timeline expands an ordered image sequence into a linear list of
// typed segments with cumulative start/end times at unit speed. The list is
// built once per playback session and immutable thereafter.
package timeline

// Kind identifies the segment variant.
type Kind int

const (
	// KindStart fades the first image in from black.
	KindStart Kind = iota
	// KindFixed displays a single image statically.
	KindFixed
	// KindCrossFade blends one image into the next.
	KindCrossFade
	// KindEnd fades the last image out to black.
	KindEnd
	// KindStop terminates the timeline. Always zero duration.
	KindStop
)

// String returns the lowercase segment name.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindFixed:
		return "fixed"
	case KindCrossFade:
		return "crossfade"
	case KindEnd:
		return "end"
	case KindStop:
		return "stop"
	}
	return "unknown"
}

// Segment is one timeline unit. Its lifetime is its own Duration field; a
// segment never references other segments.
type Segment struct {
	Kind Kind

	// Image is the primary image reference. Empty for Stop.
	Image string

	// Next is the incoming image of a cross-fade, empty otherwise.
	Next string

	// Duration is the segment length in seconds at unit speed.
	Duration float64

	// Rating is carried along for display purposes only.
	Rating int
}

// DrawOp instructs the renderer to present one image at an opacity.
// A cross-fade yields two ops: the outgoing image at full opacity, then the
// incoming image at the interpolated opacity.
type DrawOp struct {
	Image   string
	Opacity uint8
}

// fadeFactor maps a wall-clock offset into [0,1] across the segment's
// speed-scaled duration. Zero-duration segments are fully faded in.
func (s Segment) fadeFactor(offset, speed float64) float64 {
	scaled := s.Duration / speed
	if scaled <= 0 {
		return 1
	}
	f := offset / scaled
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DrawOps returns the render instructions for this segment at the given
// wall-clock offset from its start. The speed multiplier paces in-segment
// fades: a cross-fade's opacity ramps over Duration/speed wall-clock seconds.
func (s Segment) DrawOps(offset, speed float64) []DrawOp {
	switch s.Kind {
	case KindStart:
		return []DrawOp{{Image: s.Image, Opacity: opacity(s.fadeFactor(offset, speed))}}
	case KindFixed:
		return []DrawOp{{Image: s.Image, Opacity: 255}}
	case KindCrossFade:
		return []DrawOp{
			{Image: s.Image, Opacity: 255},
			{Image: s.Next, Opacity: opacity(s.fadeFactor(offset, speed))},
		}
	case KindEnd:
		return []DrawOp{{Image: s.Image, Opacity: opacity(1 - s.fadeFactor(offset, speed))}}
	}
	return nil
}

// Lead returns the image the renderer should prepare when this segment
// becomes active: the incoming image for a cross-fade, the displayed image
// otherwise.
func (s Segment) Lead() string {
	if s.Kind == KindCrossFade {
		return s.Next
	}
	return s.Image
}

func opacity(factor float64) uint8 {
	return uint8(factor*255 + 0.5)
}
