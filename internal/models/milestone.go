package models

import "time"

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneCompleted MilestoneStatus = "completed"
)

func (s MilestoneStatus) Valid() bool {
	return s == MilestonePending || s == MilestoneCompleted
}

// Milestone is a dated checkpoint within a project. It is drawn as a marker, never as a bar.
type Milestone struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	TargetDate    time.Time       `json:"target_date"`
	CompletedDate *time.Time      `json:"completed_date,omitempty"`
	Status        MilestoneStatus `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Complete marks the milestone reached at the given time.
func (m *Milestone) Complete(now time.Time) {
	m.Status = MilestoneCompleted
	m.CompletedDate = &now
}

// IsMissed reports whether a pending milestone's target day lies before the given day.
func (m Milestone) IsMissed(now time.Time) bool {
	if m.Status == MilestoneCompleted {
		return false
	}
	y, mo, d := now.Date()
	startOfToday := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())
	return m.TargetDate.Before(startOfToday)
}
