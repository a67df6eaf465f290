package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/diashow/internal/player"
	"github.com/papapumpkin/diashow/internal/timeline"
)

// stubClock is a manually advanced Clock for deterministic ticks.
type stubClock struct{ now float64 }

func (c *stubClock) Now() float64 { return c.now }

// testEntries builds a two-image timeline with 1s fades and 3s static holds:
// Start[0,1] Fixed(a)[1,4] CrossFade(a->b)[4,5] Fixed(b)[5,8] End[8,9] Stop.
func testEntries() []timeline.Entry {
	segs := []struct {
		seg      timeline.Segment
		duration float64
	}{
		{timeline.Segment{Kind: timeline.KindStart, Image: "a.jpg", Rating: 3}, 1},
		{timeline.Segment{Kind: timeline.KindFixed, Image: "a.jpg", Rating: 3}, 3},
		{timeline.Segment{Kind: timeline.KindCrossFade, Image: "a.jpg", Next: "b.jpg", Rating: 5}, 1},
		{timeline.Segment{Kind: timeline.KindFixed, Image: "b.jpg", Rating: 5}, 3},
		{timeline.Segment{Kind: timeline.KindEnd, Image: "b.jpg", Rating: 5}, 1},
		{timeline.Segment{Kind: timeline.KindStop}, 0},
	}
	var entries []timeline.Entry
	start := 0.0
	for _, s := range segs {
		seg := s.seg
		seg.Duration = s.duration
		entries = append(entries, timeline.Entry{Segment: seg, Start: start, End: start + s.duration})
		start += s.duration
	}
	return entries
}

func newTestModel(t *testing.T) (PlayerModel, *stubClock, *[]string) {
	t.Helper()
	clock := &stubClock{}
	canvas := NewCanvas(8, 4)
	sched := player.New(testEntries(), clock, canvas)

	var viewed []string
	m := NewPlayerModel(PlayerConfig{
		Scheduler: sched,
		Clock:     clock,
		Canvas:    canvas,
		FPS:       30,
		OnView: func(image string, rating int) {
			viewed = append(viewed, image)
		},
	})
	return m, clock, &viewed
}

// tickModel sends one frame message and returns the updated model.
func tickModel(t *testing.T, m PlayerModel) (PlayerModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(frameMsg{})
	next, ok := updated.(PlayerModel)
	if !ok {
		t.Fatalf("Update returned %T, want PlayerModel", updated)
	}
	return next, cmd
}

func TestPlayerModel_FrameAdvancesAndRecordsViews(t *testing.T) {
	t.Parallel()
	m, clock, viewed := newTestModel(t)

	// Into the first static hold.
	clock.now = 1.5
	m, _ = tickModel(t, m)
	if got := len(*viewed); got != 1 || (*viewed)[0] != "a.jpg" {
		t.Fatalf("viewed = %v, want [a.jpg]", *viewed)
	}
	if m.status.ImageName != "a.jpg" {
		t.Errorf("status image = %q, want a.jpg", m.status.ImageName)
	}
	if m.status.Rating != 3 {
		t.Errorf("status rating = %d, want 3", m.status.Rating)
	}

	// Into the second static hold.
	clock.now = 5.5
	m, _ = tickModel(t, m)
	if got := len(*viewed); got != 2 || (*viewed)[1] != "b.jpg" {
		t.Fatalf("viewed = %v, want [a.jpg b.jpg]", *viewed)
	}
	if m.Finished() {
		t.Error("playback should not be finished mid-timeline")
	}
}

func TestPlayerModel_FinishesAtStop(t *testing.T) {
	t.Parallel()
	m, clock, _ := newTestModel(t)

	clock.now = 9.5
	m, cmd := tickModel(t, m)
	if !m.Finished() {
		t.Fatal("expected finished after passing the stop entry")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestPlayerModel_QuitCancels(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(PlayerModel)
	if m.Finished() {
		t.Error("cancelled playback must not report completion")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
	if m.sched.State() != player.StateStopped {
		t.Errorf("scheduler state = %v, want stopped", m.sched.State())
	}
}

func TestPlayerModel_PauseToggles(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(PlayerModel)
	if m.sched.State() != player.StatePaused {
		t.Fatalf("state after pause = %v, want paused", m.sched.State())
	}
	if !m.status.Paused {
		t.Error("status bar should show paused")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(PlayerModel)
	if m.sched.State() != player.StateRunning {
		t.Fatalf("state after resume = %v, want running", m.sched.State())
	}
}

func TestPlayerModel_SpeedClamping(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)

	// Hammer the speed-up key well past the cap.
	for range 12 {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
		m = updated.(PlayerModel)
	}
	if got := m.sched.Speed(); got > maxSpeed {
		t.Errorf("speed = %v, want at most %v", got, maxSpeed)
	}

	for range 24 {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
		m = updated.(PlayerModel)
	}
	if got := m.sched.Speed(); got < minSpeed {
		t.Errorf("speed = %v, want at least %v", got, minSpeed)
	}
}

func TestPlayerModel_SeekKeys(t *testing.T) {
	t.Parallel()
	m, clock, viewed := newTestModel(t)

	clock.now = 0.5 // still in the fade-in
	m, _ = tickModel(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = updated.(PlayerModel)
	if got := len(*viewed); got == 0 || (*viewed)[len(*viewed)-1] != "a.jpg" {
		t.Fatalf("viewed = %v, want seek to record a.jpg", *viewed)
	}
	if m.status.ImageName != "a.jpg" {
		t.Errorf("status image = %q, want a.jpg", m.status.ImageName)
	}
}

func TestPlayerModel_ResizeUpdatesLayout(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	m = updated.(PlayerModel)
	if m.status.Width != 40 {
		t.Errorf("status width = %d, want 40", m.status.Width)
	}
}
