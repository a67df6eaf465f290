// Package tui renders slideshow playback in the terminal: a half-block
// image canvas driven by a frame loop, with a status bar and playback
// control keys.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for a playback session.
// The program uses the alternate screen buffer for a clean TUI experience.
func NewProgram(cfg PlayerConfig, opts ...tea.ProgramOption) *Program {
	model := NewPlayerModel(cfg)

	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, opts...)

	return tea.NewProgram(model, allOpts...)
}

// Run creates and runs a playback session, blocking until it exits.
// It reports whether playback ran to completion rather than being
// cancelled by the user.
func Run(cfg PlayerConfig) (completed bool, err error) {
	p := NewProgram(cfg)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("TUI error: %w", err)
	}
	if m, ok := final.(PlayerModel); ok {
		return m.Finished(), nil
	}
	return false, nil
}
