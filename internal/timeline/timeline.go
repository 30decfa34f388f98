// Package timeline computes the Gantt layout for a list of tasks: the display window,
// the day grid spanning it, and each task's horizontal bar position as percentages of
// the grid width.
//
// Everything here is a pure function of its inputs. The current time is always passed
// in by the caller, so results are deterministic and safe to compute concurrently.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/utils"
)

var (
	// ErrInvertedWindow is returned when a window ends before it starts.
	ErrInvertedWindow = errors.New("timeline window ends before it starts")
	// ErrInvalidTotalDays is returned when positions are requested for a grid of fewer than one day.
	ErrInvalidTotalDays = errors.New("timeline grid must span at least one day")
)

// Options holds the layout policy. The defaults are display conventions rather than
// business rules: a week of padding, a 30 day fallback, an 8 hour workday and a 2% bar floor.
type Options struct {
	PaddingDays     int
	FallbackDays    int
	WorkdayHours    float64
	MinWidthPercent float64
}

func DefaultOptions() Options {
	return Options{
		PaddingDays:     constants.DefaultPaddingDays,
		FallbackDays:    constants.DefaultFallbackDays,
		WorkdayHours:    constants.DefaultWorkdayHours,
		MinWidthPercent: constants.DefaultMinWidthPercent,
	}
}

func (o Options) Validate() error {
	if o.PaddingDays < 0 {
		return fmt.Errorf("padding days must not be negative, got %d", o.PaddingDays)
	}
	if o.FallbackDays < 1 {
		return fmt.Errorf("fallback days must be at least 1, got %d", o.FallbackDays)
	}
	if o.WorkdayHours <= 0 {
		return fmt.Errorf("workday hours must be positive, got %v", o.WorkdayHours)
	}
	if o.MinWidthPercent <= 0 || o.MinWidthPercent > 100 {
		return fmt.Errorf("minimum bar width must be in (0, 100], got %v", o.MinWidthPercent)
	}
	return nil
}

// Engine lays out tasks using a fixed set of Options.
type Engine struct {
	opts Options
}

func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{opts: opts}, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

var defaultEngine = &Engine{opts: DefaultOptions()}

// Window is an inclusive range of calendar days. Start is midnight of the first day and
// End is the last instant of the final day.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow truncates start and end to their day boundaries.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: utils.StartOfDay(start), End: utils.EndOfDay(end.In(start.Location()))}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("%w: %s > %s", ErrInvertedWindow,
			start.Format(constants.DateFormat), end.Format(constants.DateFormat))
	}
	return w, nil
}

// TotalDays is the number of day cells in the window.
func (w Window) TotalDays() int {
	return utils.DaysBetween(w.Start, w.End) + 1
}

// Contains reports whether t falls on one of the window's days.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Shift moves the window by n days in either direction.
func (w Window) Shift(n int) Window {
	return Window{Start: utils.AddDays(w.Start, n), End: utils.AddDays(w.End, n)}
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(constants.DateFormat), w.End.Format(constants.DateFormat))
}

// Bounds are optional caller supplied window limits. They only take effect when both are set.
type Bounds struct {
	Start *time.Time
	End   *time.Time
}

func (b Bounds) Explicit() bool {
	return b.Start != nil && b.End != nil
}

// DayCell is one column of the day grid.
type DayCell struct {
	Date      time.Time `json:"date"`
	IsWeekend bool      `json:"is_weekend"`
	IsToday   bool      `json:"is_today"`
}

// Position places a task bar within the grid. Width 0 means the bar is not drawn.
type Position struct {
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

// Visible reports whether the bar should be rendered.
func (p Position) Visible() bool {
	return p.WidthPercent > 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Around returns explicit bounds of FallbackDays days that place day PaddingDays
// cells from the left edge. Viewers use it to jump back to today.
func (e *Engine) Around(day time.Time) Bounds {
	start := utils.AddDays(utils.StartOfDay(day), -e.opts.PaddingDays)
	end := utils.AddDays(start, e.opts.FallbackDays-1)
	return Bounds{Start: &start, End: &end}
}

// Shifted converts a resolved window into explicit bounds moved by n days.
func Shifted(w Window, n int) Bounds {
	s := w.Shift(n)
	return Bounds{Start: &s.Start, End: &s.End}
}
