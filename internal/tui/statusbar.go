package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders the single-line playback bar: image name, rating stars,
// position/total, speed multiplier and paused indicator.
type StatusBar struct {
	ImageName    string
	Rating       int
	Position     float64 // unit-speed seconds into the timeline
	Total        float64 // timeline length in unit-speed seconds
	Speed        float64
	Paused       bool
	Width        int
	ShowControls bool // render the key hints on wide terminals
}

// View renders the status bar as a single line clamped to Width.
func (s StatusBar) View() string {
	const barPadding = 2
	innerWidth := s.Width - barPadding
	if innerWidth < 0 {
		innerWidth = 0
	}

	right := s.buildRight(innerWidth)
	rightWidth := lipgloss.Width(right)

	// Name takes what remains, truncated with an ellipsis.
	const minGap = 1
	nameWidth := innerWidth - rightWidth - minGap
	left := s.buildLeft(nameWidth)
	leftWidth := lipgloss.Width(left)

	gap := innerWidth - leftWidth - rightWidth
	if gap < 1 {
		gap = 1
	}
	barBg := lipgloss.NewStyle().Background(colorSurface)
	line := left + barBg.Render(strings.Repeat(" ", gap)) + right

	return styleStatusBar.Width(s.Width).Render(line)
}

// buildLeft renders the image name and its rating stars.
func (s StatusBar) buildLeft(maxWidth int) string {
	barBg := lipgloss.NewStyle().Background(colorSurface)

	stars := styleStatusStars.Render(renderStars(s.Rating))
	starsWidth := lipgloss.Width(stars) + 2

	name := s.ImageName
	if avail := maxWidth - starsWidth; avail > 0 {
		name = truncateWithEllipsis(name, avail)
	} else {
		name = ""
	}
	if name == "" {
		return stars
	}
	return styleStatusName.Render(name) + barBg.Render("  ") + stars
}

// buildRight renders position, speed and paused segments. On narrow
// terminals the speed segment is dropped first, then the position.
func (s StatusBar) buildRight(innerWidth int) string {
	barBg := lipgloss.NewStyle().Background(colorSurface)
	compact := innerWidth < 50

	var parts []string
	if s.Paused {
		parts = append(parts, styleStatusPaused.Render("PAUSED"))
	}
	if !compact && s.Speed != 1 {
		parts = append(parts, styleStatusSpeed.Render(fmt.Sprintf("%.2gx", s.Speed)))
	}
	parts = append(parts, styleStatusTime.Render(
		fmt.Sprintf("%s / %s", formatClock(s.Position), formatClock(s.Total))))

	if s.ShowControls && !compact {
		parts = append(parts, styleStatusHelp.Render("space pause · ←/→ seek · +/- speed · q quit"))
	}

	return strings.Join(parts, barBg.Render("  "))
}

// renderStars returns a five-glyph star string for a [0,5] rating.
func renderStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat(starFilled, rating) + strings.Repeat(starEmpty, 5-rating)
}

// formatClock renders seconds as m:ss.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// truncateWithEllipsis shortens s to at most maxWidth runes, appending "…"
// when truncation happens.
func truncateWithEllipsis(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	return string(runes[:maxWidth-1]) + "…"
}
