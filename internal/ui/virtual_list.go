package ui

// virtual_list.go renders a fixed-height, scrollable list of country rows.
// Only rows intersecting the viewport (plus overscan) are rendered, and
// rendered rows are kept in a small pool of slots that get rebound as the
// list scrolls.

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/thesavant42/covidwatch/internal/models"
)

const (
	// RowHeight is the number of terminal lines one country row occupies.
	RowHeight = 2
	// DefaultOverscan is the number of extra rows rendered above and below the viewport.
	DefaultOverscan = 2
)

// VisibleRange returns the half-open range [start, end) of item indices that
// must be rendered for a viewport of viewportHeight lines scrolled to offset.
// overscan extra rows are included on each side, clipped to [0, total].
func VisibleRange(offset, rowHeight, viewportHeight, total, overscan int) (start, end int) {
	if rowHeight <= 0 || viewportHeight <= 0 || total <= 0 {
		return 0, 0
	}
	if offset < 0 {
		offset = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	first := offset / rowHeight
	last := (offset + viewportHeight - 1) / rowHeight

	start = max(0, first-overscan)
	end = min(total, last+1+overscan)
	if start > end {
		start = end
	}
	return start, end
}

// rowSlot is a pooled rendering of one item. A slot is reused as long as the
// item it shows and everything that affects its text stay the same.
type rowSlot struct {
	bound    bool
	index    int
	record   models.CountryRecord
	selected bool
	width    int
	age      string
	lines    []string
}

// VirtualList is a windowed list of CountryRecords. Scroll position is kept
// in lines; the cursor is an item index.
type VirtualList struct {
	items    []models.CountryRecord
	width    int
	height   int
	offset   int
	cursor   int
	overscan int

	slots []rowSlot
	// renders counts slot (re)renders; used to check recycling
	renders int
}

// NewVirtualList creates a list with the given inner width and viewport height in lines.
func NewVirtualList(width, height int) VirtualList {
	l := VirtualList{overscan: DefaultOverscan}
	l.SetSize(width, height)
	return l
}

// SetSize updates the viewport dimensions and resizes the slot pool.
func (l *VirtualList) SetSize(width, height int) {
	if height < RowHeight {
		height = RowHeight
	}
	l.width = width
	l.height = height

	// Enough slots for a full window: visible rows, a partial row, and overscan on both sides
	poolSize := height/RowHeight + 1 + 2*l.overscan
	if len(l.slots) != poolSize {
		l.slots = make([]rowSlot, poolSize)
	}
	l.clamp()
}

// SetOverscan changes how many rows are rendered beyond each viewport edge.
func (l *VirtualList) SetOverscan(n int) {
	if n < 0 {
		n = 0
	}
	l.overscan = n
	l.slots = nil
	l.SetSize(l.width, l.height)
}

// SetItems replaces the list contents. Scroll position and cursor are kept
// where possible and clamped to the new length.
func (l *VirtualList) SetItems(items []models.CountryRecord) {
	l.items = items
	l.clamp()
}

// Items returns the current items.
func (l VirtualList) Items() []models.CountryRecord {
	return l.items
}

// Len returns the number of items.
func (l VirtualList) Len() int {
	return len(l.items)
}

// Offset returns the scroll position in lines.
func (l VirtualList) Offset() int {
	return l.offset
}

// Cursor returns the selected item index.
func (l VirtualList) Cursor() int {
	return l.cursor
}

// Height returns the viewport height in lines.
func (l VirtualList) Height() int {
	return l.height
}

// Selected returns the record under the cursor.
func (l VirtualList) Selected() (models.CountryRecord, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return models.CountryRecord{}, false
	}
	return l.items[l.cursor], true
}

// Range returns the item range currently materialized.
func (l VirtualList) Range() (start, end int) {
	return VisibleRange(l.offset, RowHeight, l.height, len(l.items), l.overscan)
}

// contentHeight is the total scrollable height in lines.
func (l VirtualList) contentHeight() int {
	return len(l.items) * RowHeight
}

func (l VirtualList) maxOffset() int {
	return max(0, l.contentHeight()-l.height)
}

func (l *VirtualList) clamp() {
	l.offset = clamp(l.offset, 0, l.maxOffset())
	l.cursor = clamp(l.cursor, 0, max(0, len(l.items)-1))
}

// ScrollBy moves the viewport by delta lines without moving the cursor.
func (l *VirtualList) ScrollBy(delta int) {
	l.offset += delta
	l.clamp()
}

// MoveCursor moves the cursor by delta rows and scrolls it into view.
func (l *VirtualList) MoveCursor(delta int) {
	if len(l.items) == 0 {
		return
	}
	l.cursor = clamp(l.cursor+delta, 0, len(l.items)-1)
	l.ensureCursorVisible()
}

// PageDown moves one viewport down.
func (l *VirtualList) PageDown() {
	l.MoveCursor(max(1, l.height/RowHeight))
}

// PageUp moves one viewport up.
func (l *VirtualList) PageUp() {
	l.MoveCursor(-max(1, l.height/RowHeight))
}

// GotoTop jumps to the first row.
func (l *VirtualList) GotoTop() {
	l.cursor = 0
	l.offset = 0
}

// GotoBottom jumps to the last row.
func (l *VirtualList) GotoBottom() {
	l.cursor = max(0, len(l.items)-1)
	l.offset = l.maxOffset()
}

func (l *VirtualList) ensureCursorVisible() {
	top := l.cursor * RowHeight
	bottom := top + RowHeight
	if top < l.offset {
		l.offset = top
	} else if bottom > l.offset+l.height {
		l.offset = bottom - l.height
	}
	l.clamp()
}

// View renders exactly Height() lines. now is used for the relative update time.
func (l *VirtualList) View(now time.Time) string {
	if l.height <= 0 {
		return ""
	}
	if len(l.items) == 0 {
		lines := make([]string, l.height)
		lines[0] = RenderDim(CenterText("No data yet", l.width))
		return strings.Join(lines, "\n")
	}

	start, end := l.Range()
	rendered := make([]string, 0, (end-start)*RowHeight)
	for i := start; i < end; i++ {
		rendered = append(rendered, l.bind(i, now)...)
	}

	// Crop the materialized window (which includes overscan) to the viewport
	from := l.offset - start*RowHeight
	to := min(from+l.height, len(rendered))
	visible := rendered[from:to]

	lines := make([]string, l.height)
	copy(lines, visible)
	return strings.Join(lines, "\n")
}

// bind returns the lines for item i, reusing the pooled slot when nothing changed.
func (l *VirtualList) bind(i int, now time.Time) []string {
	record := l.items[i]
	selected := i == l.cursor
	age := UpdatedAge(record.LastUpdated, now)

	slot := &l.slots[i%len(l.slots)]
	if slot.bound && slot.index == i && slot.record == record &&
		slot.selected == selected && slot.width == l.width && slot.age == age {
		return slot.lines
	}

	*slot = rowSlot{
		bound:    true,
		index:    i,
		record:   record,
		selected: selected,
		width:    l.width,
		age:      age,
		lines:    renderRow(i, record, selected, age, l.width),
	}
	l.renders++
	return slot.lines
}

// renderRow formats one country as RowHeight lines:
//
//	  1 🇻🇳 Vietnam                               11,624,000
//	        updated 3 minutes ago
func renderRow(i int, r models.CountryRecord, selected bool, age string, width int) []string {
	nameWidth := width - ColWidthRank - ColWidthFlag - ColWidthCases - 3*ColSeparatorWidth
	if nameWidth < 8 {
		nameWidth = 8
	}

	rank := fmt.Sprintf("%*d", ColWidthRank, i+1)
	flag := runewidth.FillRight(FlagGlyph(r.ISO2), ColWidthFlag)
	name := runewidth.FillRight(runewidth.Truncate(r.Name, nameWidth, "…"), nameWidth)
	cases := fmt.Sprintf("%*s", ColWidthCases, humanize.Comma(r.Cases))

	indent := strings.Repeat(" ", ColWidthRank+ColWidthFlag+2*ColSeparatorWidth)
	sub := runewidth.FillRight(indent+"updated "+age, width)

	if selected {
		top := rank + " " + flag + " " + name + " " + cases
		return []string{
			SelectedStyle.Render(runewidth.FillRight(top, width)),
			SelectedStyle.Render(sub),
		}
	}
	top := RankStyle.Render(rank) + " " + flag + " " + RenderNormal(name) + " " + CasesStyle.Render(cases)
	return []string{top, RenderDim(sub)}
}

// FlagGlyph converts an ISO 3166-1 alpha-2 code to its regional-indicator
// flag emoji. Unknown or missing codes render as a white flag.
func FlagGlyph(iso2 string) string {
	if len(iso2) != 2 {
		return "🏳"
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(iso2) {
		if c < 'A' || c > 'Z' {
			return "🏳"
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

// UpdatedAge renders t relative to now, e.g. "3 minutes ago".
func UpdatedAge(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
