package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
)

var upsertTag = upsert("tags", storage.TagColumns)

func (s *Store) AddTag(tag models.Tag) error {
	_, err := s.db.Exec(upsertTag, storage.TagArgs(tag)...)
	return err
}

func (s *Store) GetTagByName(name string) (models.Tag, error) {
	row := s.db.QueryRow("SELECT "+storage.TagColumns+" FROM tags WHERE lower(name) = lower($1)", name)
	t, err := storage.ScanTag(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tag{}, fmt.Errorf("tag %q: %w", name, storage.ErrNotFound)
		}
		return models.Tag{}, err
	}
	return t, nil
}

func (s *Store) GetAllTags() ([]models.Tag, error) {
	return s.queryTags("SELECT " + storage.TagColumns + " FROM tags ORDER BY name")
}

func (s *Store) GetTagsForTask(taskID string) ([]models.Tag, error) {
	return s.queryTags(`SELECT `+storage.TagColumns+` FROM tags
		WHERE id IN (SELECT tag_id FROM task_tags WHERE task_id = $1) ORDER BY name`, taskID)
}

func (s *Store) queryTags(query string, args ...interface{}) ([]models.Tag, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := storage.ScanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) DeleteTag(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM tags WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("tag %s: %w", id, storage.ErrNotFound)
	}
	if _, err := tx.Exec("DELETE FROM task_tags WHERE tag_id = $1", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) TagTask(taskID, tagID string) error {
	_, err := s.db.Exec("INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", taskID, tagID)
	return err
}

func (s *Store) UntagTask(taskID, tagID string) error {
	_, err := s.db.Exec("DELETE FROM task_tags WHERE task_id = $1 AND tag_id = $2", taskID, tagID)
	return err
}

func (s *Store) GetTaskIDsByTag(tagID string) ([]string, error) {
	rows, err := s.db.Query("SELECT task_id FROM task_tags WHERE tag_id = $1 ORDER BY task_id", tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
