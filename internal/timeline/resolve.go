package timeline

import (
	"time"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/utils"
)

// Resolve uses the default options. See Engine.Resolve.
func Resolve(tasks []models.Task, bounds Bounds, now time.Time) (Window, error) {
	return defaultEngine.Resolve(tasks, bounds, now)
}

// Resolve computes the display window. Explicit bounds win when both are set; otherwise the
// window covers every due date plus padding on each side, falling back to FallbackDays
// starting today when no task has a due date. All days are taken in now's location.
func (e *Engine) Resolve(tasks []models.Task, bounds Bounds, now time.Time) (Window, error) {
	loc := now.Location()

	if bounds.Explicit() {
		return NewWindow(bounds.Start.In(loc), bounds.End.In(loc))
	}

	var minDue, maxDue time.Time
	found := false
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := t.DueDate.In(loc)
		if !found || due.Before(minDue) {
			minDue = due
		}
		if !found || due.After(maxDue) {
			maxDue = due
		}
		found = true
	}

	if !found {
		start := utils.StartOfDay(now)
		return NewWindow(start, utils.AddDays(start, e.opts.FallbackDays-1))
	}

	return NewWindow(
		utils.AddDays(minDue, -e.opts.PaddingDays),
		utils.AddDays(maxDue, e.opts.PaddingDays),
	)
}
