package errors

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/taskline/internal/logger"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/timeline"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a short suggestion for well-known failures, or "" when there is none.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, storage.ErrNotInitialized):
		return "run 'taskline init' to create the database"
	case stderrors.Is(err, storage.ErrNotFound), stderrors.Is(err, sql.ErrNoRows):
		return "use 'taskline task list --show-ids' to find valid IDs"
	case stderrors.Is(err, storage.ErrTimerActive):
		return "stop the running timer with 'taskline timer stop' first"
	case stderrors.Is(err, timeline.ErrInvertedWindow):
		return "--start must not be after --end"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
