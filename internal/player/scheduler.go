package player

import (
	"fmt"

	"github.com/papapumpkin/diashow/internal/timeline"
)

// State is the scheduler lifecycle state.
type State int

const (
	// StateRunning means Tick advances the timeline.
	StateRunning State = iota
	// StatePaused means the effective elapsed time is frozen.
	StatePaused
	// StateStopped is terminal: reached the stop entry or cancelled.
	StateStopped
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Scheduler is the real-time driver for one playback session. Entry times are
// stored at unit speed; an entry's effective boundary at the live speed is
// storedTime / speed. All repositioning (pause, speed change, seek) adjusts a
// single anchor — the wall-clock timestamp treated as timeline time zero —
// never the entry data.
//
// A Scheduler must not be shared across concurrent playback sessions; all
// methods are called from the frame loop goroutine.
type Scheduler struct {
	entries  []timeline.Entry
	clock    Clock
	renderer Renderer

	state   State
	index   int
	speed   float64
	anchor  float64
	lastNow float64
}

// New creates a scheduler positioned at the first entry. It panics on an
// empty timeline: playback on a never-built timeline is a programmer error,
// not a runtime condition to recover from.
func New(entries []timeline.Entry, clock Clock, renderer Renderer) *Scheduler {
	if len(entries) == 0 {
		panic("player: cannot schedule an empty timeline")
	}
	now := clock.Now()
	s := &Scheduler{
		entries:  entries,
		clock:    clock,
		renderer: renderer,
		state:    StateRunning,
		speed:    1,
		anchor:   now,
		lastNow:  now,
	}
	s.enterSegment(0)
	return s
}

// enterSegment records the new index and fires the segment's side effect:
// asking the renderer to prepare the image this segment leads with.
func (s *Scheduler) enterSegment(i int) {
	s.index = i
	if lead := s.entries[i].Segment.Lead(); lead != "" {
		s.renderer.Prepare(lead)
	}
}

// clampNow absorbs clock regressions by never letting now move backwards.
func (s *Scheduler) clampNow(now float64) float64 {
	if now < s.lastNow {
		return s.lastNow
	}
	return now
}

// Tick advances the timeline to now and renders the active segment.
// It reports whether the active entry changed this tick — callers skip their
// frame-rate cap on such ticks since entering a segment may be expensive —
// and whether playback has finished.
func (s *Scheduler) Tick(now float64) (advanced, finished bool) {
	if s.state == StateStopped {
		return false, true
	}

	now = s.clampNow(now)

	if s.state == StatePaused {
		// Pause is continuous anchor compensation: the anchor absorbs the
		// wall-clock delta each tick so the effective elapsed time freezes.
		s.anchor += now - s.lastNow
		s.lastNow = now
		s.render(now)
		return false, false
	}
	s.lastNow = now

	elapsed := now - s.anchor
	for {
		next := s.entries[s.index+1]
		if elapsed < next.Start/s.speed {
			break
		}
		if next.Segment.Kind == timeline.KindStop {
			s.state = StateStopped
			return true, true
		}
		s.enterSegment(s.index + 1)
		advanced = true
	}

	s.render(now)
	return advanced, false
}

// render draws the active segment at its wall-clock local offset.
func (s *Scheduler) render(now float64) {
	active := s.entries[s.index]
	offset := (now - s.anchor) - active.Start/s.speed
	s.renderer.Clear()
	for _, op := range active.Segment.DrawOps(offset, s.speed) {
		s.renderer.Present(op.Image, op.Opacity)
	}
}

// SetPause freezes or resumes the effective elapsed time. Pausing a stopped
// scheduler is a no-op.
func (s *Scheduler) SetPause(paused bool) {
	if s.state == StateStopped {
		return
	}
	if paused {
		s.state = StatePaused
	} else {
		s.state = StateRunning
	}
}

// SetSpeed changes the playback speed while preserving the fractional
// position within the active entry, so the visible phase never jumps or
// replays. Panics on a non-positive speed.
func (s *Scheduler) SetSpeed(speed float64) {
	if speed <= 0 {
		panic(fmt.Sprintf("player: speed must be positive, got %g", speed))
	}
	if s.state == StateStopped {
		return
	}

	active := s.entries[s.index]
	elapsed := s.lastNow - s.anchor

	oldStart := active.Start / s.speed
	oldEnd := active.End / s.speed
	ratio := 0.0
	if oldEnd > oldStart {
		ratio = (elapsed - oldStart) / (oldEnd - oldStart)
	}

	newStart := active.Start / speed
	newEnd := active.End / speed
	newElapsed := newStart + ratio*(newEnd-newStart)

	s.anchor = s.lastNow - newElapsed
	s.speed = speed
}

// GotoNextImage seeks forward to the nearest statically displayed image and
// reports whether the position changed.
func (s *Scheduler) GotoNextImage() bool {
	return s.seekFixed(+1)
}

// GotoPrevImage seeks backward to the nearest statically displayed image and
// reports whether the position changed.
func (s *Scheduler) GotoPrevImage() bool {
	return s.seekFixed(-1)
}

// seekFixed scans in the given direction for the closest Fixed entry,
// skipping fades and sentinels. Absent one, it is a no-op. The anchor shifts
// by the exact delta between the current elapsed time and the target's
// scaled start, so the target begins at its very first frame.
func (s *Scheduler) seekFixed(dir int) bool {
	if s.state == StateStopped {
		return false
	}

	target := -1
	for i := s.index + dir; i >= 0 && i < len(s.entries); i += dir {
		if s.entries[i].Segment.Kind == timeline.KindFixed {
			target = i
			break
		}
	}
	if target < 0 {
		return false
	}

	elapsed := s.lastNow - s.anchor
	targetStart := s.entries[target].Start / s.speed
	s.anchor += elapsed - targetStart
	if s.lastNow-s.anchor < 0 {
		// Entry ordering is monotonic and starts at zero, so a seek can
		// never land on negative elapsed time.
		panic("player: seek produced negative elapsed time")
	}
	s.enterSegment(target)
	return true
}

// Cancel transitions to Stopped unconditionally; the frame loop exits after
// the current tick.
func (s *Scheduler) Cancel() {
	s.state = StateStopped
}

// State returns the lifecycle state.
func (s *Scheduler) State() State { return s.state }

// Speed returns the live speed multiplier.
func (s *Scheduler) Speed() float64 { return s.speed }

// Active returns the entry currently being rendered.
func (s *Scheduler) Active() timeline.Entry { return s.entries[s.index] }

// Position returns the current timeline position in unit-speed seconds,
// clamped to the timeline bounds.
func (s *Scheduler) Position() float64 {
	pos := (s.lastNow - s.anchor) * s.speed
	if pos < 0 {
		pos = 0
	}
	if total := timeline.TotalSeconds(s.entries); pos > total {
		pos = total
	}
	return pos
}

// TotalSeconds returns the timeline length at unit speed.
func (s *Scheduler) TotalSeconds() float64 {
	return timeline.TotalSeconds(s.entries)
}
