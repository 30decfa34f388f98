package timeline

import (
	"math"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/utils"
)

// PositionOf uses the default options. See Engine.PositionOf.
func PositionOf(task models.Task, w Window, totalDays int) (Position, error) {
	return defaultEngine.PositionOf(task, w, totalDays)
}

// PositionOf maps a task onto the grid. A task without a due date gets a zero position.
// Due dates outside the window are clamped to the edges rather than rejected.
func (e *Engine) PositionOf(task models.Task, w Window, totalDays int) (Position, error) {
	if totalDays < 1 {
		return Position{}, ErrInvalidTotalDays
	}
	if task.DueDate == nil {
		return Position{}, nil
	}

	daysFromStart := utils.DaysBetween(w.Start, task.DueDate.In(w.Start.Location()))
	left := float64(daysFromStart) / float64(totalDays) * 100

	duration := e.DurationDays(task.EstimatedHours)
	width := float64(duration) / float64(totalDays) * 100

	return Position{
		LeftPercent:  clamp(left, 0, 100),
		WidthPercent: clamp(width, e.opts.MinWidthPercent, 100),
	}, nil
}

// DurationDays converts an effort estimate into whole workdays, at least one.
// A missing, non-positive or NaN estimate counts as a single workday.
func (e *Engine) DurationDays(estimatedHours *float64) int {
	hours := e.opts.WorkdayHours
	if estimatedHours != nil && *estimatedHours > 0 && !math.IsNaN(*estimatedHours) {
		hours = *estimatedHours
	}
	days := math.Ceil(hours / e.opts.WorkdayHours)
	if days < 1 {
		return 1
	}
	if days > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(days)
}
