package tui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/diashow/internal/player"
	"github.com/papapumpkin/diashow/internal/telemetry"
	"github.com/papapumpkin/diashow/internal/timeline"
)

// Speed control bounds. Each press of +/- moves the multiplier one step of
// sqrt(2), so two presses double or halve the speed.
const (
	minSpeed  = 0.25
	maxSpeed  = 4.0
	speedStep = 1.4142135623730951
)

// frameMsg drives one scheduler tick.
type frameMsg struct{ Time time.Time }

// PlayerConfig bundles the collaborators a playback model needs.
type PlayerConfig struct {
	Scheduler *player.Scheduler
	Clock     player.Clock
	Canvas    *Canvas
	FPS       int
	Emitter   *telemetry.Emitter // optional, nil disables telemetry
	SessionID string
	OnView    func(image string, rating int) // optional, called when an image starts its static display
}

// PlayerModel is the BubbleTea model for a playback session. It owns the
// frame loop: every frame tick advances the scheduler against the wall
// clock, and all control keys are translated into synchronous scheduler
// calls from Update.
type PlayerModel struct {
	sched     *player.Scheduler
	clock     player.Clock
	canvas    *Canvas
	status    StatusBar
	keys      KeyMap
	emitter   *telemetry.Emitter
	sessionID string
	onView    func(string, int)

	fps      int
	paused   bool
	finished bool
}

// NewPlayerModel creates a model around an already-positioned scheduler.
func NewPlayerModel(cfg PlayerConfig) PlayerModel {
	fps := cfg.FPS
	if fps < 1 {
		fps = 30
	}
	m := PlayerModel{
		sched:     cfg.Scheduler,
		clock:     cfg.Clock,
		canvas:    cfg.Canvas,
		keys:      DefaultKeyMap(),
		emitter:   cfg.Emitter,
		sessionID: cfg.SessionID,
		onView:    cfg.OnView,
		fps:       fps,
	}
	m.status.Speed = 1
	m.status.ShowControls = true
	m.status.Total = cfg.Scheduler.TotalSeconds()
	m.syncStatus()
	return m
}

// Finished reports whether playback reached the stop entry rather than
// being cancelled.
func (m PlayerModel) Finished() bool { return m.finished }

// Init starts the frame timer.
func (m PlayerModel) Init() tea.Cmd {
	return m.frameCmd()
}

// frameCmd schedules the next frame tick at the configured rate.
func (m PlayerModel) frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg{Time: t}
	})
}

// Update handles frame ticks, key presses and resizes.
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.status.Width = msg.Width
		m.canvas.SetSize(msg.Width, msg.Height-1)
		// Resizing drops the scaled image cache; re-request the active image.
		if lead := m.sched.Active().Segment.Lead(); lead != "" {
			m.canvas.Prepare(lead)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		advanced, finished := m.sched.Tick(m.clock.Now())
		if advanced {
			m.noteSegment()
		}
		if finished {
			m.finished = true
			m.emit(telemetry.KindFinished, nil)
			return m, tea.Quit
		}
		m.syncStatus()
		return m, m.frameCmd()
	}
	return m, nil
}

// handleKey maps bindings onto scheduler control calls.
func (m PlayerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sched.Cancel()
		m.emit(telemetry.KindCancelled, nil)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		m.sched.SetPause(m.paused)
		if m.paused {
			m.emit(telemetry.KindPause, nil)
		} else {
			m.emit(telemetry.KindResume, nil)
		}

	case key.Matches(msg, m.keys.SpeedUp):
		m.setSpeed(m.sched.Speed() * speedStep)

	case key.Matches(msg, m.keys.SpeedDown):
		m.setSpeed(m.sched.Speed() / speedStep)

	case key.Matches(msg, m.keys.Next):
		if m.sched.GotoNextImage() {
			m.emit(telemetry.KindSeek, map[string]string{"direction": "next"})
			m.noteSegment()
		}

	case key.Matches(msg, m.keys.Prev):
		if m.sched.GotoPrevImage() {
			m.emit(telemetry.KindSeek, map[string]string{"direction": "prev"})
			m.noteSegment()
		}
	}

	m.syncStatus()
	return m, nil
}

// setSpeed applies the clamped multiplier and emits the change.
func (m *PlayerModel) setSpeed(speed float64) {
	if speed < minSpeed {
		speed = minSpeed
	}
	if speed > maxSpeed {
		speed = maxSpeed
	}
	if speed == m.sched.Speed() {
		return
	}
	m.sched.SetSpeed(speed)
	m.emit(telemetry.KindSpeedChange, map[string]float64{"speed": speed})
}

// noteSegment records the newly entered segment: a telemetry event always,
// and a view count when an image starts its static display.
func (m *PlayerModel) noteSegment() {
	active := m.sched.Active()
	m.emit(telemetry.KindSegmentStart, map[string]string{
		"kind":  active.Segment.Kind.String(),
		"image": active.Segment.Lead(),
	})
	if active.Segment.Kind == timeline.KindFixed && m.onView != nil {
		m.onView(active.Segment.Image, active.Segment.Rating)
	}
}

// syncStatus copies live scheduler state into the status bar.
func (m *PlayerModel) syncStatus() {
	active := m.sched.Active()
	m.status.ImageName = filepath.Base(active.Segment.Lead())
	m.status.Rating = active.Segment.Rating
	m.status.Position = m.sched.Position()
	m.status.Speed = m.sched.Speed()
	m.status.Paused = m.paused
}

// emit sends a telemetry event, best effort.
func (m *PlayerModel) emit(kind string, data any) {
	_ = m.emitter.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      kind,
		SessionID: m.sessionID,
		Data:      data,
	})
}

// View renders the canvas above the status bar.
func (m PlayerModel) View() string {
	return m.canvas.View() + "\n" + m.status.View()
}
