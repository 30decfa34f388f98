package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/timeline"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to load tasks: %w", errors.New("database is locked")),
			expected: "Error: failed to load tasks: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("task %s not found", "abc")
	if got != "Error: task abc not found" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantSet bool
	}{
		{"nil", nil, false},
		{"unknown", errors.New("boom"), false},
		{"not initialized", fmt.Errorf("load: %w", storage.ErrNotInitialized), true},
		{"not found", fmt.Errorf("get task: %w", storage.ErrNotFound), true},
		{"timer running", storage.ErrTimerActive, true},
		{"inverted window", fmt.Errorf("resolve: %w", timeline.ErrInvertedWindow), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); (got != "") != tt.wantSet {
				t.Errorf("Hint(%v) = %q, wantSet %v", tt.err, got, tt.wantSet)
			}
		})
	}
}
