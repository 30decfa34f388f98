package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusCompleted  TaskStatus = "completed"
	StatusBlocked    TaskStatus = "blocked"
)

// TaskStatuses lists every status in workflow order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusCompleted, StatusBlocked}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the status with underscores replaced for display.
func (s TaskStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ParseTaskStatus accepts the canonical values as well as hyphen or space separated forms.
func ParseTaskStatus(s string) (TaskStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	st := TaskStatus(norm)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (expected todo|in_progress|review|completed|blocked)", s)
	}
	return st, nil
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p TaskPriority) Valid() bool {
	for _, v := range TaskPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Rank orders priorities from low (0) to urgent (3). Unknown values rank below low.
func (p TaskPriority) Rank() int {
	for i, v := range TaskPriorities {
		if p == v {
			return i
		}
	}
	return -1
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (expected low|medium|high|urgent)", s)
	}
	return p, nil
}

type Task struct {
	ID             string       `json:"id"`
	ProjectID      string       `json:"project_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	EstimatedHours *float64     `json:"estimated_hours,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	DeletedAt      *string      `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// IsOpen reports whether the task still needs work.
func (t Task) IsOpen() bool {
	return t.Status != StatusCompleted
}

// IsOverdue reports whether an open task's due date lies before the given day.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || !t.IsOpen() {
		return false
	}
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(startOfToday)
}

// SetStatus updates the status and keeps CompletedAt in sync with it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	t.UpdatedAt = now
	if status == StatusCompleted {
		if t.CompletedAt == nil {
			completed := now
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}
}
