package timeline

import (
	"time"

	"github.com/julianstephens/taskline/internal/models"
)

// Bar is a task together with its computed position.
type Bar struct {
	Task     models.Task `json:"task"`
	Position Position    `json:"position"`
}

// Layout is everything a renderer needs to draw the chart.
type Layout struct {
	Window    Window    `json:"window"`
	TotalDays int       `json:"total_days"`
	Days      []DayCell `json:"days"`
	Bars      []Bar     `json:"bars"`
	Markers   []Marker  `json:"markers,omitempty"`
}

// VisibleBars returns the bars that have a due date, in input order.
func (l Layout) VisibleBars() []Bar {
	var out []Bar
	for _, b := range l.Bars {
		if b.Position.Visible() {
			out = append(out, b)
		}
	}
	return out
}

// Build uses the default options. See Engine.Build.
func Build(tasks []models.Task, bounds Bounds, now time.Time) (Layout, error) {
	return defaultEngine.Build(tasks, bounds, now)
}

// Build resolves the window, generates the day grid and positions every task.
// Bars keep the order of tasks.
func (e *Engine) Build(tasks []models.Task, bounds Bounds, now time.Time) (Layout, error) {
	w, err := e.Resolve(tasks, bounds, now)
	if err != nil {
		return Layout{}, err
	}

	days, err := GenerateDays(w, now)
	if err != nil {
		return Layout{}, err
	}

	total := len(days)
	bars := make([]Bar, 0, len(tasks))
	for _, t := range tasks {
		pos, err := e.PositionOf(t, w, total)
		if err != nil {
			return Layout{}, err
		}
		bars = append(bars, Bar{Task: t, Position: pos})
	}

	return Layout{
		Window:    w,
		TotalDays: total,
		Days:      days,
		Bars:      bars,
	}, nil
}
