package models

import (
	"math"
	"time"
)

type TimeEntry struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	DurationMin int        `json:"duration_min"`
	Description string     `json:"description,omitempty"`
	Billable    bool       `json:"billable"`
}

// Running reports whether the entry is an active timer.
func (e TimeEntry) Running() bool {
	return e.EndTime == nil
}

// Stop closes the entry at end and records the elapsed whole minutes (rounded to nearest).
func (e *TimeEntry) Stop(end time.Time) {
	e.EndTime = &end
	e.DurationMin = MinutesBetween(e.StartTime, end)
}

// MinutesBetween returns the rounded number of minutes between start and end, never negative.
func MinutesBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}
