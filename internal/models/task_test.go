package models

import (
	"testing"
	"time"
)

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    TaskStatus
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"in_progress", StatusInProgress, false},
		{"In-Progress", StatusInProgress, false},
		{"in progress", StatusInProgress, false},
		{" review ", StatusReview, false},
		{"completed", StatusCompleted, false},
		{"blocked", StatusBlocked, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTaskStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTaskStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTaskStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	if p, err := ParseTaskPriority("URGENT"); err != nil || p != PriorityUrgent {
		t.Errorf("ParseTaskPriority(URGENT) = %q, %v", p, err)
	}
	if _, err := ParseTaskPriority("critical"); err == nil {
		t.Error("expected error for unknown priority")
	}
	if PriorityLow.Rank() >= PriorityUrgent.Rank() {
		t.Error("low should rank below urgent")
	}
	if TaskPriority("bogus").Rank() != -1 {
		t.Error("unknown priority should rank -1")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	earlierToday := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: StatusTodo}, false},
		{"due yesterday", Task{Status: StatusTodo, DueDate: &yesterday}, true},
		{"due earlier today", Task{Status: StatusInProgress, DueDate: &earlierToday}, false},
		{"completed past due", Task{Status: StatusCompleted, DueDate: &yesterday}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTaskSetStatus(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	task := Task{Status: StatusTodo}

	task.SetStatus(StatusCompleted, now)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt = %v, want %v", task.CompletedAt, now)
	}

	later := now.Add(time.Hour)
	task.SetStatus(StatusCompleted, later)
	if !task.CompletedAt.Equal(now) {
		t.Errorf("re-completing should keep original CompletedAt, got %v", task.CompletedAt)
	}

	task.SetStatus(StatusInProgress, later)
	if task.CompletedAt != nil {
		t.Errorf("reopening should clear CompletedAt, got %v", task.CompletedAt)
	}
	if !task.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", task.UpdatedAt, later)
	}
}

func TestTimeEntryStop(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	e := TimeEntry{StartTime: start}
	if !e.Running() {
		t.Fatal("new entry should be running")
	}
	e.Stop(start.Add(90*time.Minute + 40*time.Second))
	if e.Running() {
		t.Error("stopped entry should not be running")
	}
	if e.DurationMin != 91 {
		t.Errorf("DurationMin = %d, want 91", e.DurationMin)
	}
	if MinutesBetween(start, start.Add(-time.Hour)) != 0 {
		t.Error("negative span should yield zero minutes")
	}
}
