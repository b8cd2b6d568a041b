package ui

// dashboard.go is the single-screen COVID-19 tracker: global totals, a search
// box with a detail card, and the virtualized country list. All state
// changes happen in Update; fetches run as commands and report back as
// messages.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/thesavant42/covidwatch/internal/models"
	"github.com/thesavant42/covidwatch/internal/tracker"
)

const (
	chromeLines = 11 // header, totals, banner, search, dividers and status
	cardHeight  = 8  // full detail card lines including its border
)

// Fetcher retrieves the latest per-country records.
type Fetcher interface {
	FetchCountries(ctx context.Context) ([]models.CountryRecord, error)
}

// DashboardOptions configures a Dashboard.
type DashboardOptions struct {
	Interval     time.Duration
	Snapshot     tracker.SnapshotOptions
	ErrorMessage string
	AltScreen    bool
	Logger       *log.Logger
	// Now overrides the clock, for tests
	Now func() time.Time
}

// Messages
type (
	pollTickMsg struct {
		at time.Time
	}
	pollerStoppedMsg struct{}

	countriesFetchedMsg struct {
		records []models.CountryRecord
		at      time.Time
	}
	countriesFailedMsg struct {
		err error
		at  time.Time
	}
)

// Dashboard is the Bubble Tea model for the tracker screen.
type Dashboard struct {
	fetcher  Fetcher
	poller   *tracker.Poller
	ctx      context.Context // poller lifetime
	fetchCtx context.Context // not cancelled on teardown
	logger   *log.Logger
	now      func() time.Time
	interval time.Duration

	state   *tracker.State
	list    VirtualList
	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	layout  Layout

	inFlight int
	quitting bool
}

// NewDashboard builds the model. The poller is started by Init and stopped on quit.
func NewDashboard(ctx context.Context, fetcher Fetcher, poller *tracker.Poller, opts DashboardOptions) Dashboard {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	layout := DefaultLayout()

	ti := textinput.New()
	ti.Placeholder = "Search regions"
	ti.Prompt = "Search: "
	ti.PromptStyle = AccentStyle
	ti.CharLimit = 64
	ti.Width = layout.InnerWidth - len(ti.Prompt) - 1
	ti.Focus()

	h := help.New()
	h.Width = layout.InnerWidth

	m := Dashboard{
		fetcher:  fetcher,
		poller:   poller,
		ctx:      ctx,
		fetchCtx: context.WithoutCancel(ctx),
		logger:   logger,
		now:      now,
		interval: poller.Interval(),
		state:    tracker.NewState(opts.Snapshot, opts.ErrorMessage),
		list:     NewVirtualList(layout.InnerWidth-1, layout.ListHeight(chromeLines)),
		search:   ti,
		spinner:  NewAppSpinner(),
		help:     h,
		layout:   layout,
	}
	m.fitList()
	return m
}

// RunDashboard owns the poller for the lifetime of the program and blocks
// until the user quits or ctx is cancelled.
func RunDashboard(ctx context.Context, fetcher Fetcher, opts DashboardOptions) error {
	poller := tracker.NewPoller(opts.Interval)
	defer poller.Stop()

	m := NewDashboard(ctx, fetcher, poller, opts)

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func (m Dashboard) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
		m.waitForTick(),
		m.spinner.Tick,
		textinput.Blink,
	)
}

// waitForTick blocks on the poller channel. Start returns the same channel
// on every call, so re-arming after each tick is cheap.
func (m Dashboard) waitForTick() tea.Cmd {
	ticks := m.poller.Start(m.ctx)
	return func() tea.Msg {
		at, ok := <-ticks
		if !ok {
			return pollerStoppedMsg{}
		}
		return pollTickMsg{at: at}
	}
}

func (m Dashboard) fetchCountries() tea.Cmd {
	fetcher, ctx, now := m.fetcher, m.fetchCtx, m.now
	return func() tea.Msg {
		records, err := fetcher.FetchCountries(ctx)
		if err != nil {
			return countriesFailedMsg{err: err, at: now()}
		}
		return countriesFetchedMsg{records: records, at: now()}
	}
}

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handle(msg)
	// The query and the refresh result both decide how tall the card is
	next.fitList()
	return next, cmd
}

func (m Dashboard) handle(msg tea.Msg) (Dashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.list.ScrollBy(-RowHeight)
		case tea.MouseButtonWheelDown:
			m.list.ScrollBy(RowHeight)
		}
		return m, nil

	case pollTickMsg:
		if m.quitting {
			return m, nil
		}
		m.inFlight++
		m.logger.Debug("refresh", "at", msg.at.Format(time.RFC3339), "in_flight", m.inFlight)
		return m, tea.Batch(m.fetchCountries(), m.waitForTick())

	case pollerStoppedMsg:
		m.logger.Debug("poller stopped")
		return m, nil

	case countriesFetchedMsg:
		m.inFlight = max(0, m.inFlight-1)
		if m.quitting {
			return m, nil
		}
		m.state.ApplySuccess(msg.records, msg.at)
		m.list.SetItems(m.state.Rows)
		m.logger.Info("refreshed", "countries", len(msg.records), "rows", len(m.state.Rows), "cases", m.state.Totals.Cases)
		return m, nil

	case countriesFailedMsg:
		m.inFlight = max(0, m.inFlight-1)
		if m.quitting {
			return m, nil
		}
		m.state.ApplyFailure(msg.err, msg.at)
		m.logger.Warn("refresh failed", "err", msg.err, "failures", m.state.Failures)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Dashboard) handleKey(msg tea.KeyMsg) (Dashboard, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.poller.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.list.MoveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.list.MoveCursor(1)
	case key.Matches(msg, keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, keys.PageDown):
		m.list.PageDown()
	case key.Matches(msg, keys.Top):
		m.list.GotoTop()
	case key.Matches(msg, keys.Bottom):
		m.list.GotoBottom()
	case key.Matches(msg, keys.Clear):
		m.search.Reset()
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Dashboard) resize(width, height int) {
	m.layout = NewLayout(width, height)
	m.search.Width = m.layout.InnerWidth - len(m.search.Prompt) - 1
	m.help.Width = m.layout.InnerWidth
}

// fitList gives the list whatever the main box has left after the chrome
// and the detail card.
func (m *Dashboard) fitList() {
	m.list.SetSize(m.layout.InnerWidth-1, m.layout.ListHeight(chromeLines+m.cardLines()))
}

// cardLines is the height renderCard produces for the current query.
func (m Dashboard) cardLines() int {
	query := m.search.Value()
	if query == "" {
		return 0
	}
	if _, ok := m.state.Match(query); !ok || m.compactCard() {
		return 1
	}
	return cardHeight
}

// compactCard reports whether the full card would squeeze the list below
// two rows, in which case the match is shown on a single line.
func (m Dashboard) compactCard() bool {
	return m.layout.MainHeight-chromeLines-cardHeight < 2*RowHeight
}

// Query returns the current search text.
func (m Dashboard) Query() string {
	return m.search.Value()
}

// State exposes the refresh state, read-only by convention.
func (m Dashboard) State() *tracker.State {
	return m.state
}

func (m Dashboard) View() string {
	if m.quitting {
		return ""
	}

	now := m.now()
	w := m.layout.InnerWidth

	var b strings.Builder
	b.WriteString(ViewHeader("COVID-19 Worldwide", w))
	b.WriteString(m.renderTotals(w))
	b.WriteString("\n")

	if m.state.ErrorMessage != "" {
		b.WriteString(RenderError("⚠ " + m.state.ErrorMessage))
	}
	b.WriteString("\n")

	b.WriteString(m.search.View())
	b.WriteString("\n")
	if card := m.renderCard(now); card != "" {
		b.WriteString(card)
		b.WriteString("\n")
	}

	b.WriteString(FullWidthDivider(w))
	b.WriteString("\n")
	b.WriteString(m.list.View(now))
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(w))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return TwoBoxView(b.String(), m.help.ShortHelpView(keys.ShortHelp()), m.layout)
}

func (m Dashboard) renderTotals(width int) string {
	t := m.state.Totals

	var b strings.Builder
	b.WriteString(CenterText(TotalCasesStyle.Render(humanize.Comma(t.Cases)), width))
	b.WriteString("\n")
	b.WriteString(CenterText(StatLabelStyle.Render("CONFIRMED CASES"), width))
	b.WriteString("\n")

	stats := StatValueStyle.Render(humanize.Comma(t.Deaths)) + " " + StatLabelStyle.Render("DEATHS") +
		"     " +
		RecoveredStyle.Render(humanize.Comma(t.Recovered)) + " " + StatLabelStyle.Render("RECOVERED")
	b.WriteString(CenterText(stats, width))
	b.WriteString("\n")
	return b.String()
}

// renderCard shows the exact match for the query, if any. It is derived on
// every render and never stored.
func (m Dashboard) renderCard(now time.Time) string {
	query := m.search.Value()
	if query == "" {
		return ""
	}
	c, ok := m.state.Match(query)
	if !ok {
		return m.singleLine(RenderDim(fmt.Sprintf("No region named %q in the list", query)))
	}

	if m.compactCard() {
		return m.singleLine(AccentStyle.Render(FlagGlyph(c.ISO2)+" "+c.Name) + "  " +
			CasesStyle.Render(humanize.Comma(c.Cases)) + " " + StatLabelStyle.Render("cases") + "  " +
			StatValueStyle.Render(humanize.Comma(c.Deaths)) + " " + StatLabelStyle.Render("deaths") + "  " +
			RecoveredStyle.Render(humanize.Comma(c.Recovered)) + " " + StatLabelStyle.Render("recovered"))
	}

	flagURL := c.FlagURL
	if flagURL == "" {
		flagURL = "-"
	}
	// Border and padding take 4 columns, the label column 11
	flagURL = runewidth.Truncate(flagURL, m.layout.InnerWidth-4-11, "…")
	lines := []string{
		AccentStyle.Render(FlagGlyph(c.ISO2) + " " + c.Name),
		cardLine("Cases", CasesStyle.Render(humanize.Comma(c.Cases))),
		cardLine("Deaths", StatValueStyle.Render(humanize.Comma(c.Deaths))),
		cardLine("Recovered", RecoveredStyle.Render(humanize.Comma(c.Recovered))),
		cardLine("Flag", RenderDim(flagURL)),
		cardLine("Updated", RenderDim(UpdatedAge(c.LastUpdated, now))),
	}
	return CardStyle.Width(m.layout.InnerWidth - 2).Render(strings.Join(lines, "\n"))
}

// singleLine cuts s to the inner width so the main box never wraps it.
func (m Dashboard) singleLine(s string) string {
	return lipgloss.NewStyle().MaxWidth(m.layout.InnerWidth).Render(s)
}

func cardLine(label, value string) string {
	return StatLabelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + value
}

func (m Dashboard) renderStatus() string {
	switch {
	case !m.state.Loaded() && m.state.Failures == 0:
		return m.spinner.View() + " " + RenderDim("refreshing…")
	case !m.state.Loaded():
		return RenderDim(fmt.Sprintf("no data yet, retrying every %s", m.interval))
	}

	status := fmt.Sprintf("updated %s · %d regions · every %s",
		m.state.LastRefresh.Format("15:04:05"), m.list.Len(), m.interval)
	if m.inFlight > 0 {
		return RenderDim(status) + " " + m.spinner.View()
	}
	return RenderDim(status)
}
