package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold — rating stars
	colorMuted       = lipgloss.Color("#636363") // Gray — de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray — normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white — primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white — emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface — status bar bg
)

// Rating star glyphs.
const (
	starFilled = "★"
	starEmpty  = "☆"
)

// Status bar styles — solid background, single line.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Padding(0, 1)

	styleStatusName = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorBrightWhite).
			Bold(true)

	styleStatusStars = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorAccent)

	styleStatusTime = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorMutedLight)

	styleStatusSpeed = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorPrimary).
				Bold(true)

	styleStatusPaused = lipgloss.NewStyle().
				Background(colorSurface).
				Foreground(colorAccent).
				Bold(true)

	styleStatusHelp = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorMuted)
)
