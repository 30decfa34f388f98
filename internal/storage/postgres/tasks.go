package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
)

var upsertTask = upsert("tasks", storage.TaskColumns)

func (s *Store) AddTask(task models.Task) error {
	return s.UpdateTask(task)
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow("SELECT "+storage.TaskColumns+" FROM tasks WHERE id = $1 AND deleted_at IS NULL", id)
	t, err := storage.ScanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
		}
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	return s.queryTasks("SELECT " + storage.TaskColumns + " FROM tasks WHERE deleted_at IS NULL ORDER BY created_at, id")
}

func (s *Store) GetTasksByProject(projectID string) ([]models.Task, error) {
	return s.queryTasks("SELECT "+storage.TaskColumns+" FROM tasks WHERE project_id = $1 AND deleted_at IS NULL ORDER BY created_at, id", projectID)
}

func (s *Store) GetAllTasksIncludingDeleted() ([]models.Task, error) {
	return s.queryTasks("SELECT " + storage.TaskColumns + " FROM tasks ORDER BY created_at, id")
}

func (s *Store) queryTasks(query string, args ...interface{}) ([]models.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := storage.ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.Task) error {
	_, err := s.db.Exec(upsertTask, storage.TaskArgs(task)...)
	return err
}

func (s *Store) DeleteTask(id string) error {
	// Soft delete
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM tasks WHERE id = $1", id).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if deletedAt.Valid {
		return fmt.Errorf("task %s: %w", id, storage.ErrAlreadyDeleted)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE tasks SET deleted_at = $1 WHERE id = $2", now, id)
	return err
}

func (s *Store) RestoreTask(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM tasks WHERE id = $1", id).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if !deletedAt.Valid {
		return fmt.Errorf("cannot restore task %s: %w", id, storage.ErrNotDeleted)
	}

	_, err = s.db.Exec("UPDATE tasks SET deleted_at = NULL WHERE id = $1", id)
	return err
}
