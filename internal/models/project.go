package models

import (
	"fmt"
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	st := ProjectStatus(norm)
	if !st.Valid() {
		return "", fmt.Errorf("invalid project status %q (expected planning|active|on_hold|completed|cancelled)", s)
	}
	return st, nil
}

type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	DeletedAt   *string       `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// HasSchedule reports whether both project dates are set.
func (p Project) HasSchedule() bool {
	return p.StartDate != nil && p.EndDate != nil
}
