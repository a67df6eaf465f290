// Package player drives a built timeline against wall-clock time. The
// scheduler advances through segments, renders the active one at the correct
// local offset, and supports pause, continuous speed change and discrete
// image-to-image seeking without ever letting the displayed phase jump.
//
// The model is single-threaded and cooperative: one frame loop calls Tick
// repeatedly, and every control operation is invoked synchronously from that
// same loop. No locks are needed.
package player

import "time"

// Clock supplies the current time in seconds. Implementations must be
// monotonic non-decreasing; the scheduler tolerates a regression by clamping
// the delta to zero rather than propagating negative elapsed time.
type Clock interface {
	Now() float64
}

// MonotonicClock is the production Clock, backed by the runtime's monotonic
// reading of time.Since.
type MonotonicClock struct {
	base time.Time
}

// NewMonotonicClock returns a Clock anchored at the moment of the call.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{base: time.Now()}
}

// Now returns seconds since the clock was created.
func (c *MonotonicClock) Now() float64 {
	return time.Since(c.base).Seconds()
}

// Renderer receives draw instructions for the active segment. Prepare is
// fire-and-forget: the scheduler never waits for preparation to complete, and
// the renderer presents a placeholder while an image is still loading.
type Renderer interface {
	// Prepare asks the renderer to load resources for an image, best effort.
	Prepare(image string)

	// Present draws an image at the given opacity. A cross-fade presents
	// twice per tick: the outgoing image fully opaque, then the incoming one
	// at the interpolated opacity.
	Present(image string, opacity uint8)

	// Clear resets the output before the current tick's Present calls.
	Clear()
}
