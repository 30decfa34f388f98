package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
)

func (s *Store) AddTimeEntry(entry models.TimeEntry) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO time_entries (`+storage.TimeEntryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		storage.TimeEntryArgs(entry)...,
	)
	return err
}

func (s *Store) GetTimeEntries() ([]models.TimeEntry, error) {
	return s.queryTimeEntries("SELECT " + storage.TimeEntryColumns + " FROM time_entries ORDER BY start_time")
}

func (s *Store) GetTimeEntriesForTask(taskID string) ([]models.TimeEntry, error) {
	return s.queryTimeEntries("SELECT "+storage.TimeEntryColumns+" FROM time_entries WHERE task_id = ? ORDER BY start_time", taskID)
}

func (s *Store) queryTimeEntries(query string, args ...interface{}) ([]models.TimeEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		e, err := storage.ScanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetActiveTimer() (models.TimeEntry, error) {
	row := s.db.QueryRow("SELECT " + storage.TimeEntryColumns + " FROM time_entries WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1")
	e, err := storage.ScanTimeEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TimeEntry{}, storage.ErrNoActiveTimer
		}
		return models.TimeEntry{}, err
	}
	return e, nil
}

func (s *Store) StartTimer(taskID, description string, at time.Time) (models.TimeEntry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.TimeEntry{}, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT count(*) FROM tasks WHERE id = ? AND deleted_at IS NULL", taskID).Scan(&exists)
	if err != nil {
		return models.TimeEntry{}, fmt.Errorf("failed to check task existence: %w", err)
	}
	if exists == 0 {
		return models.TimeEntry{}, fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
	}

	var running int
	if err := tx.QueryRow("SELECT count(*) FROM time_entries WHERE end_time IS NULL").Scan(&running); err != nil {
		return models.TimeEntry{}, fmt.Errorf("failed to check running timers: %w", err)
	}
	if running > 0 {
		return models.TimeEntry{}, storage.ErrTimerActive
	}

	entry := models.TimeEntry{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		StartTime:   at,
		Description: description,
	}
	if _, err := tx.Exec(`
		INSERT INTO time_entries (`+storage.TimeEntryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		storage.TimeEntryArgs(entry)...,
	); err != nil {
		return models.TimeEntry{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

func (s *Store) StopTimer(at time.Time) (models.TimeEntry, error) {
	entry, err := s.GetActiveTimer()
	if err != nil {
		return models.TimeEntry{}, err
	}

	entry.Stop(at)
	_, err = s.db.Exec("UPDATE time_entries SET end_time = ?, duration_min = ? WHERE id = ?",
		storage.FormatOptionalTime(entry.EndTime), entry.DurationMin, entry.ID)
	if err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}
