package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
)

func (s *Store) AddProject(project models.Project) error {
	return s.UpdateProject(project)
}

func (s *Store) GetProject(id string) (models.Project, error) {
	row := s.db.QueryRow("SELECT "+storage.ProjectColumns+" FROM projects WHERE id = ? AND deleted_at IS NULL", id)
	p, err := storage.ScanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, fmt.Errorf("project %s: %w", id, storage.ErrNotFound)
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetProjectByName(name string) (models.Project, error) {
	row := s.db.QueryRow("SELECT "+storage.ProjectColumns+" FROM projects WHERE name = ? COLLATE NOCASE AND deleted_at IS NULL", name)
	p, err := storage.ScanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, fmt.Errorf("project %q: %w", name, storage.ErrNotFound)
		}
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) GetAllProjects() ([]models.Project, error) {
	return s.queryProjects("SELECT " + storage.ProjectColumns + " FROM projects WHERE deleted_at IS NULL ORDER BY name")
}

func (s *Store) GetAllProjectsIncludingDeleted() ([]models.Project, error) {
	return s.queryProjects("SELECT " + storage.ProjectColumns + " FROM projects ORDER BY name")
}

func (s *Store) queryProjects(query string, args ...interface{}) ([]models.Project, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := storage.ScanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(project models.Project) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO projects (`+storage.ProjectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		storage.ProjectArgs(project)...,
	)
	return err
}

func (s *Store) DeleteProject(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM projects WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to check project existence: %w", err)
	}

	if deletedAt.Valid {
		return fmt.Errorf("project %s: %w", id, storage.ErrAlreadyDeleted)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE projects SET deleted_at = ? WHERE id = ?", now, id)
	return err
}

func (s *Store) RestoreProject(id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM projects WHERE id = ?", id).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project %s: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to check project existence: %w", err)
	}

	if !deletedAt.Valid {
		return fmt.Errorf("cannot restore project %s: %w", id, storage.ErrNotDeleted)
	}

	_, err = s.db.Exec("UPDATE projects SET deleted_at = NULL WHERE id = ?", id)
	return err
}
