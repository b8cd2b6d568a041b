package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/thesavant42/covidwatch/internal/models"
	"github.com/thesavant42/covidwatch/internal/tracker"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBorder).
				MarginBottom(1)

	reportHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder).
				Bold(true)

	reportBorderStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim)

	reportRowStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	reportHighlightStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// PrintSnapshot writes the global totals and the ranked country table.
//
// This is a CLI report (non-interactive), so the table structure is plain
// string formatting; lipgloss only colors the text.
func PrintSnapshot(w io.Writer, snap tracker.Snapshot, highlight string, now time.Time) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, reportTitleStyle.Render("COVID-19 Worldwide"))
	fmt.Fprintf(w, "%s %s   %s %s   %s %s\n\n",
		TotalCasesStyle.Render(humanize.Comma(snap.Totals.Cases)), StatLabelStyle.Render("cases"),
		StatValueStyle.Render(humanize.Comma(snap.Totals.Deaths)), StatLabelStyle.Render("deaths"),
		RecoveredStyle.Render(humanize.Comma(snap.Totals.Recovered)), StatLabelStyle.Render("recovered"),
	)
	PrintCountryTable(w, snap.Rows, highlight, now)
}

// PrintCountryTable prints one line per country. Rows whose name equals
// highlight (case-insensitive) are emphasized.
func PrintCountryTable(w io.Writer, rows []models.CountryRecord, highlight string, now time.Time) {
	if len(rows) == 0 {
		fmt.Fprintln(w, RenderDim("No data"))
		return
	}

	colWidths := []int{4, 28, 14, 12, 14, 16} // Rank, Country, Cases, Deaths, Recovered, Updated
	totalWidth := 2
	for _, cw := range colWidths {
		totalWidth += cw + 3
	}
	totalWidth--

	separator := strings.Repeat("─", totalWidth-2)

	fmt.Fprintln(w, reportBorderStyle.Render("┌"+separator+"┐"))
	fmt.Fprintln(w, reportHeaderStyle.Render(fmt.Sprintf("│ %-*s │ %-*s │ %*s │ %*s │ %*s │ %-*s │",
		colWidths[0], "#",
		colWidths[1], "Country",
		colWidths[2], "Cases",
		colWidths[3], "Deaths",
		colWidths[4], "Recovered",
		colWidths[5], "Updated")))
	fmt.Fprintln(w, reportBorderStyle.Render("├"+separator+"┤"))

	for i, r := range rows {
		name := runewidth.FillRight(runewidth.Truncate(r.Name, colWidths[1], "…"), colWidths[1])
		updated := runewidth.FillRight(runewidth.Truncate(UpdatedAge(r.LastUpdated, now), colWidths[5], "…"), colWidths[5])

		line := fmt.Sprintf("│ %-*d │ %s │ %*s │ %*s │ %*s │ %s │",
			colWidths[0], i+1,
			name,
			colWidths[2], humanize.Comma(r.Cases),
			colWidths[3], humanize.Comma(r.Deaths),
			colWidths[4], humanize.Comma(r.Recovered),
			updated)

		if highlight != "" && strings.EqualFold(r.Name, highlight) {
			fmt.Fprintln(w, reportHighlightStyle.Render(line))
		} else {
			fmt.Fprintln(w, reportRowStyle.Render(line))
		}
	}

	fmt.Fprintln(w, reportBorderStyle.Render("└"+separator+"┘"))
	fmt.Fprintln(w)
}

// GenerateMarkdownReport renders the snapshot as a markdown document.
func GenerateMarkdownReport(snap tracker.Snapshot, fetchedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# COVID-19 Worldwide\n\n")
	sb.WriteString(fmt.Sprintf("_Fetched %s_\n\n", fetchedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("**Cases:** %s  \n", humanize.Comma(snap.Totals.Cases)))
	sb.WriteString(fmt.Sprintf("**Deaths:** %s  \n", humanize.Comma(snap.Totals.Deaths)))
	sb.WriteString(fmt.Sprintf("**Recovered:** %s\n\n", humanize.Comma(snap.Totals.Recovered)))

	if len(snap.Rows) == 0 {
		sb.WriteString("No data\n")
		return sb.String()
	}

	sb.WriteString("| # | Country | Cases | Deaths | Recovered |\n")
	sb.WriteString("|---|---------|------:|-------:|----------:|\n")
	for i, r := range snap.Rows {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, r.Name, humanize.Comma(r.Cases), humanize.Comma(r.Deaths), humanize.Comma(r.Recovered)))
	}

	return sb.String()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	successStyle := lipgloss.NewStyle().
		Foreground(ColorRecovered).
		Bold(true)
	fmt.Println(successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(ErrorStyle.Render("Error: " + message))
}
