// Package render draws a timeline.Layout as a text Gantt chart.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/timeline"
)

// EmptyMessage is shown instead of a chart when no task has a due date.
const EmptyMessage = "No tasks with due dates to display"

const (
	barGlyph     = '█'
	weekendGlyph = '·'
	todayGlyph   = '┆'
	markerGlyph  = "●"
	diamondGlyph = '◆'
	fallbackGrey = "245"
)

type Options struct {
	NameWidth      int
	DayWidth       int
	ShowWeekends   bool
	StatusColors   map[string]string
	PriorityColors map[string]string
}

// FromConfig builds Options from the [display] section.
func FromConfig(d config.DisplayConfig) Options {
	return Options{
		NameWidth:      d.NameWidth,
		DayWidth:       d.DayWidth,
		ShowWeekends:   d.ShowWeekends,
		StatusColors:   d.StatusColors,
		PriorityColors: d.PriorityColors,
	}
}

// Chart renders layouts with a fixed set of options.
type Chart struct {
	opts Options
	r    *lipgloss.Renderer

	header  lipgloss.Style
	weekend lipgloss.Style
	today   lipgloss.Style
	faint   lipgloss.Style
}

// New returns a Chart. A nil renderer uses lipgloss' default (stdout) renderer.
func New(opts Options, r *lipgloss.Renderer) *Chart {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if opts.NameWidth < 4 {
		opts.NameWidth = 4
	}
	if opts.DayWidth < 1 {
		opts.DayWidth = 1
	}
	return &Chart{
		opts:    opts,
		r:       r,
		header:  r.NewStyle().Bold(true),
		weekend: r.NewStyle().Foreground(lipgloss.Color("240")),
		today:   r.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		faint:   r.NewStyle().Faint(true),
	}
}

// Columns is the width of the day grid in terminal cells.
func (c *Chart) Columns(l timeline.Layout) int {
	return l.TotalDays * c.opts.DayWidth
}

// BarSpan converts a bar position into a column range of a grid cols wide.
// The bar is at least one column wide and never starts past the last column.
func BarSpan(p timeline.Position, cols int) (start, width int) {
	if cols < 1 || !p.Visible() {
		return 0, 0
	}
	start = int(math.Round(p.LeftPercent / 100 * float64(cols)))
	if start >= cols {
		start = cols - 1
	}
	width = int(math.Round(p.WidthPercent / 100 * float64(cols)))
	if width < 1 {
		width = 1
	}
	if start+width > cols {
		width = cols - start
	}
	return start, width
}

// Render returns the chart with two header rows and one row per bar.
func (c *Chart) Render(l timeline.Layout) string {
	if len(l.VisibleBars()) == 0 {
		return EmptyMessage + "\n"
	}

	var b strings.Builder
	pad := strings.Repeat(" ", c.opts.NameWidth) + " "

	b.WriteString(pad)
	b.WriteString(c.header.Render(c.monthRow(l)))
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString(c.dayRow(l))
	b.WriteString("\n")
	if len(l.Markers) > 0 {
		b.WriteString(runewidth.FillRight(runewidth.Truncate("Milestones", c.opts.NameWidth, "…"), c.opts.NameWidth))
		b.WriteString(" ")
		b.WriteString(c.milestoneRow(l))
		b.WriteString("\n")
	}

	for _, bar := range l.Bars {
		b.WriteString(c.nameCell(bar.Task))
		b.WriteString(" ")
		b.WriteString(c.barRow(l, bar))
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Chart) monthRow(l timeline.Layout) string {
	cols := c.Columns(l)
	row := []rune(strings.Repeat(" ", cols))
	for i, d := range l.Days {
		if i != 0 && d.Date.Day() != 1 {
			continue
		}
		label := d.Date.Format("Jan")
		if i == 0 || d.Date.Month() == 1 {
			label = d.Date.Format("Jan 2006")
		}
		at := i * c.opts.DayWidth
		for j, r := range label {
			if at+j >= cols {
				break
			}
			row[at+j] = r
		}
	}
	return strings.TrimRight(string(row), " ")
}

func (c *Chart) dayRow(l timeline.Layout) string {
	var b strings.Builder
	for _, d := range l.Days {
		s := strconv.Itoa(d.Date.Day())
		if len(s) > c.opts.DayWidth {
			s = s[len(s)-c.opts.DayWidth:]
		}
		s = fmt.Sprintf("%*s", c.opts.DayWidth, s)
		switch {
		case d.IsToday:
			s = c.today.Render(s)
		case d.IsWeekend && c.opts.ShowWeekends:
			s = c.weekend.Render(s)
		}
		b.WriteString(s)
	}
	return b.String()
}

// MarkerColumn converts a marker position into a column of a grid cols wide.
func MarkerColumn(m timeline.Marker, cols int) int {
	if cols < 1 {
		return 0
	}
	col := int(math.Round(m.LeftPercent / 100 * float64(cols)))
	if col >= cols {
		col = cols - 1
	}
	return col
}

func (c *Chart) milestoneRow(l timeline.Layout) string {
	cols := c.Columns(l)
	// 0 blank, 1 pending, 2 completed; a pending milestone wins a shared column
	kinds := make([]int, cols)
	for _, m := range l.Markers {
		col := MarkerColumn(m, cols)
		kind := 1
		if m.Milestone.Status == models.MilestoneCompleted {
			kind = 2
		}
		if kinds[col] == 0 || kind == 1 {
			kinds[col] = kind
		}
	}

	last := 0
	var b strings.Builder
	for col, kind := range kinds {
		if kind == 0 {
			continue
		}
		b.WriteString(strings.Repeat(" ", col-last))
		if kind == 2 {
			b.WriteString(c.faint.Render(string(diamondGlyph)))
		} else {
			b.WriteString(c.today.Render(string(diamondGlyph)))
		}
		last = col + 1
	}
	return b.String()
}

func (c *Chart) nameCell(t models.Task) string {
	marker := c.r.NewStyle().Foreground(lipgloss.Color(colorFor(c.opts.PriorityColors, string(t.Priority)))).Render(markerGlyph)
	w := c.opts.NameWidth - 2
	name := runewidth.Truncate(t.Title, w, "…")
	name = runewidth.FillRight(name, w)
	if t.DueDate == nil {
		name = c.faint.Render(name)
	}
	return marker + " " + name
}

type cellKind int

const (
	cellBlank cellKind = iota
	cellWeekend
	cellToday
	cellBar
)

func (c *Chart) barRow(l timeline.Layout, bar timeline.Bar) string {
	cols := c.Columns(l)
	start, width := BarSpan(bar.Position, cols)

	kinds := make([]cellKind, cols)
	for col := range kinds {
		day := l.Days[col/c.opts.DayWidth]
		switch {
		case width > 0 && col >= start && col < start+width:
			kinds[col] = cellBar
		case day.IsToday:
			kinds[col] = cellToday
		case day.IsWeekend && c.opts.ShowWeekends:
			kinds[col] = cellWeekend
		}
	}

	barStyle := c.r.NewStyle().Foreground(lipgloss.Color(colorFor(c.opts.StatusColors, string(bar.Task.Status))))

	// render runs of equal cells in one call
	var b strings.Builder
	for i := 0; i < cols; {
		j := i
		for j < cols && kinds[j] == kinds[i] {
			j++
		}
		n := j - i
		switch kinds[i] {
		case cellBar:
			b.WriteString(barStyle.Render(strings.Repeat(string(barGlyph), n)))
		case cellToday:
			b.WriteString(c.today.Render(strings.Repeat(string(todayGlyph), n)))
		case cellWeekend:
			b.WriteString(c.weekend.Render(strings.Repeat(string(weekendGlyph), n)))
		default:
			b.WriteString(strings.Repeat(" ", n))
		}
		i = j
	}
	return b.String()
}

func colorFor(colors map[string]string, key string) string {
	if c, ok := colors[key]; ok && c != "" {
		return c
	}
	return fallbackGrey
}

// Summary is a one line description of the layout, e.g. for a chart footer.
func Summary(l timeline.Layout) string {
	undated := len(l.Bars) - len(l.VisibleBars())
	s := fmt.Sprintf("%s (%d days), %d task(s)", l.Window, l.TotalDays, len(l.Bars))
	if undated > 0 {
		s += fmt.Sprintf(", %d without due date", undated)
	}
	if n := len(l.Markers); n > 0 {
		s += fmt.Sprintf(", %d milestone(s)", n)
	}
	return s
}
