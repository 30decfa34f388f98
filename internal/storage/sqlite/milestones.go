package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
)

func (s *Store) AddMilestone(m models.Milestone) error {
	return s.UpdateMilestone(m)
}

func (s *Store) GetMilestone(id string) (models.Milestone, error) {
	row := s.db.QueryRow("SELECT "+storage.MilestoneColumns+" FROM milestones WHERE id = ?", id)
	m, err := storage.ScanMilestone(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Milestone{}, fmt.Errorf("milestone %s: %w", id, storage.ErrNotFound)
		}
		return models.Milestone{}, err
	}
	return m, nil
}

func (s *Store) GetMilestonesByProject(projectID string) ([]models.Milestone, error) {
	return s.queryMilestones("SELECT "+storage.MilestoneColumns+" FROM milestones WHERE project_id = ? ORDER BY target_date, name", projectID)
}

func (s *Store) GetAllMilestones() ([]models.Milestone, error) {
	return s.queryMilestones("SELECT " + storage.MilestoneColumns + " FROM milestones ORDER BY target_date, name")
}

func (s *Store) queryMilestones(query string, args ...interface{}) ([]models.Milestone, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		m, err := storage.ScanMilestone(rows)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (s *Store) UpdateMilestone(m models.Milestone) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO milestones (`+storage.MilestoneColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		storage.MilestoneArgs(m)...,
	)
	return err
}

func (s *Store) DeleteMilestone(id string) error {
	res, err := s.db.Exec("DELETE FROM milestones WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("milestone %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
