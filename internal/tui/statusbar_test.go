package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderStars(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rating int
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{1, "★☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{-2, "☆☆☆☆☆"},
		{9, "★★★★★"},
	}
	for _, tt := range tests {
		if got := renderStars(tt.rating); got != tt.want {
			t.Errorf("renderStars(%d) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59.6, "1:00"},
		{61, "1:01"},
		{310.5, "5:11"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.seconds); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		maxWidth int
		want     string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"much-too-long-name", 8, "much-to…"},
		{"x", 1, "x"},
		{"xy", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncateWithEllipsis(tt.in, tt.maxWidth); got != tt.want {
			t.Errorf("truncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.maxWidth, got, tt.want)
		}
	}
}

func TestStatusBar_ViewFitsWidth(t *testing.T) {
	t.Parallel()
	bar := StatusBar{
		ImageName:    "holiday-2024-very-long-filename.jpg",
		Rating:       4,
		Position:     42,
		Total:        310,
		Speed:        2,
		Width:        60,
		ShowControls: true,
	}
	view := bar.View()
	if w := lipgloss.Width(view); w != 60 {
		t.Errorf("rendered width = %d, want 60", w)
	}
	if strings.Contains(view, "\n") {
		t.Error("status bar must render as a single line")
	}
}

func TestStatusBar_ShowsPaused(t *testing.T) {
	t.Parallel()
	bar := StatusBar{ImageName: "a.jpg", Width: 80, Paused: true}
	if !strings.Contains(bar.View(), "PAUSED") {
		t.Error("expected PAUSED indicator")
	}
	bar.Paused = false
	if strings.Contains(bar.View(), "PAUSED") {
		t.Error("unexpected PAUSED indicator while running")
	}
}

func TestStatusBar_ShowsSpeedOnlyWhenChanged(t *testing.T) {
	t.Parallel()
	bar := StatusBar{ImageName: "a.jpg", Width: 80, Speed: 1}
	if strings.Contains(bar.View(), "1x") {
		t.Error("unit speed should not render a multiplier")
	}
	bar.Speed = 2
	if !strings.Contains(bar.View(), "2x") {
		t.Error("expected speed multiplier at 2x")
	}
}

func TestStatusBar_NarrowWidth(t *testing.T) {
	t.Parallel()
	bar := StatusBar{
		ImageName: "some-image.jpg",
		Rating:    5,
		Position:  10,
		Total:     60,
		Speed:     2,
		Width:     30,
	}
	view := bar.View()
	if w := lipgloss.Width(view); w != 30 {
		t.Errorf("rendered width = %d, want 30", w)
	}
}
