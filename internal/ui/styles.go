package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 60
	MaxViewportWidth  = 100
	MinViewportHeight = 20
	DefaultWidth      = 80 // Used when terminal size is unknown
	DefaultHeight     = 40
	MaxListHeight     = 20 // list height cap: 10 rows of RowHeight lines
	FrameHeight       = 6  // main box border (2) + footer box (3) + spacing (1)
	ColWidthRank      = 4
	ColWidthFlag      = 3
	ColWidthCases     = 14
	ColSeparatorWidth = 1
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // clamped terminal height
	InnerWidth     int // ViewportWidth - 2 border chars
	MainHeight     int // content lines inside the main box
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	if terminalHeight <= 0 {
		terminalHeight = DefaultHeight
	}
	height := max(terminalHeight, MinViewportHeight)

	return Layout{
		ViewportWidth:  width,
		ViewportHeight: height,
		InnerWidth:     width - 2,
		MainHeight:     height - FrameHeight,
	}
}

// ListHeight returns the lines left for the list once chrome lines of the
// main box are taken, capped at MaxListHeight. Whole rows only, so the last
// row is never cut in half.
func (l Layout) ListHeight(chrome int) int {
	h := clamp(l.MainHeight-chrome, RowHeight, MaxListHeight)
	return h - h%RowHeight
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorCases     = lipgloss.Color("203") // light red
	ColorRecovered = lipgloss.Color("82")  // green
	ColorWhite     = lipgloss.Color("255")
)

// Common styles - reusable style definitions
var (
	// Border style for the main viewport.
	// Always use .Width(InnerWidth) with NO .Padding() so the overhead stays 2 chars.
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Footer box border
	FooterBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorWhite)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	// Headline global case count
	TotalCasesStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	StatValueStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	CasesStyle = lipgloss.NewStyle().
			Foreground(ColorCases).
			Bold(true)

	RecoveredStyle = lipgloss.NewStyle().
			Foreground(ColorRecovered)

	RankStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	// Single-match detail card
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)

// RenderTitle renders a section title
func RenderTitle(s string) string {
	return TitleStyle.Render(s)
}

// RenderDim renders secondary text
func RenderDim(s string) string {
	return DimStyle.Render(s)
}

// RenderNormal renders body text
func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

// RenderError renders an error line
func RenderError(s string) string {
	return ErrorStyle.Render(s)
}

// StringWidth returns the printable width of s, ignoring ANSI sequences
func StringWidth(s string) int {
	return lipgloss.Width(s)
}
