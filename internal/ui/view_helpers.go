package ui

// view_helpers.go provides common View() rendering helpers.
// Use these to build the two-box layout: main content, then a one-line help box.

import (
	"strings"
)

// ViewHeader renders title + full-width divider.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n")
	return b.String()
}

// CenterText centers text within given width.
// Uses StringWidth() for ANSI-aware width calculation.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	padding := (width - textW) / 2
	return strings.Repeat(" ", padding) + text
}

// CenterTextPadded centers text and pads to full width.
func CenterTextPadded(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	leftPad := (width - textW) / 2
	rightPad := width - textW - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}

// TwoBoxView constructs the standard two-box layout.
//
// Layout:
//
//	┌────────────────────────┐
//	│ Main content           │  <- Red border
//	└────────────────────────┘
//	┌────────────────────────┐
//	│   Centered help text   │  <- White border, 1 row
//	└────────────────────────┘
func TwoBoxView(content, helpText string, layout Layout) string {
	var result strings.Builder

	mainHeight := layout.MainHeight
	content = strings.TrimSuffix(content, "\n")

	result.WriteString(BorderStyle.
		Width(layout.InnerWidth).
		Height(mainHeight).
		MaxHeight(mainHeight + 2).
		Render(content))
	result.WriteString("\n")

	result.WriteString(FooterBorderStyle.
		Width(layout.InnerWidth).
		Height(1).
		Render(CenterTextPadded(helpText, layout.InnerWidth)))

	return result.String()
}
