package storage

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/models"
)

// Column lists shared by the SQL backends. The Scan helpers below expect this order.
const (
	TaskColumns = `id, project_id, title, description, due_date, estimated_hours, status, priority,
		created_at, updated_at, completed_at, deleted_at`
	ProjectColumns   = `id, name, description, status, start_date, end_date, created_at, deleted_at`
	TimeEntryColumns = `id, task_id, start_time, end_time, duration_min, description, billable`
	MilestoneColumns = `id, project_id, name, description, target_date, completed_date, status, created_at`
	TagColumns       = `id, name, color, category, description, created_at`
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanTask reads one row selected with TaskColumns.
func ScanTask(row Scanner) (models.Task, error) {
	var t models.Task
	var status, priority, createdAt, updatedAt string
	var dueDate, completedAt, deletedAt sql.NullString
	var estimate sql.NullFloat64

	if err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &dueDate, &estimate, &status, &priority,
		&createdAt, &updatedAt, &completedAt, &deletedAt,
	); err != nil {
		return models.Task{}, err
	}

	t.Status = models.TaskStatus(status)
	t.Priority = models.TaskPriority(priority)
	if estimate.Valid {
		hours := estimate.Float64
		t.EstimatedHours = &hours
	}
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.String
	}

	var err error
	if t.DueDate, err = ParseOptionalTime(dueDate.String, dueDate.Valid); err != nil {
		return models.Task{}, fmt.Errorf("task %s: invalid due_date: %w", t.ID, err)
	}
	if t.CompletedAt, err = ParseOptionalTime(completedAt.String, completedAt.Valid); err != nil {
		return models.Task{}, fmt.Errorf("task %s: invalid completed_at: %w", t.ID, err)
	}
	if t.CreatedAt, err = ParseTime(createdAt); err != nil {
		return models.Task{}, fmt.Errorf("task %s: invalid created_at: %w", t.ID, err)
	}
	if t.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return models.Task{}, fmt.Errorf("task %s: invalid updated_at: %w", t.ID, err)
	}
	return t, nil
}

// TaskArgs returns the bind values for an insert using TaskColumns order.
func TaskArgs(t models.Task) []interface{} {
	var estimate interface{}
	if t.EstimatedHours != nil {
		estimate = *t.EstimatedHours
	}
	var deletedAt interface{}
	if t.DeletedAt != nil {
		deletedAt = *t.DeletedAt
	}
	return []interface{}{
		t.ID, t.ProjectID, t.Title, t.Description, FormatOptionalTime(t.DueDate), estimate,
		string(t.Status), string(t.Priority), FormatTime(t.CreatedAt), FormatTime(t.UpdatedAt),
		FormatOptionalTime(t.CompletedAt), deletedAt,
	}
}

// ScanProject reads one row selected with ProjectColumns.
func ScanProject(row Scanner) (models.Project, error) {
	var p models.Project
	var status, createdAt string
	var startDate, endDate, deletedAt sql.NullString

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &status, &startDate, &endDate, &createdAt, &deletedAt); err != nil {
		return models.Project{}, err
	}

	p.Status = models.ProjectStatus(status)
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.String
	}

	var err error
	if p.StartDate, err = ParseOptionalTime(startDate.String, startDate.Valid); err != nil {
		return models.Project{}, fmt.Errorf("project %s: invalid start_date: %w", p.ID, err)
	}
	if p.EndDate, err = ParseOptionalTime(endDate.String, endDate.Valid); err != nil {
		return models.Project{}, fmt.Errorf("project %s: invalid end_date: %w", p.ID, err)
	}
	if p.CreatedAt, err = ParseTime(createdAt); err != nil {
		return models.Project{}, fmt.Errorf("project %s: invalid created_at: %w", p.ID, err)
	}
	return p, nil
}

// ProjectArgs returns the bind values for an insert using ProjectColumns order.
func ProjectArgs(p models.Project) []interface{} {
	var deletedAt interface{}
	if p.DeletedAt != nil {
		deletedAt = *p.DeletedAt
	}
	return []interface{}{
		p.ID, p.Name, p.Description, string(p.Status), FormatOptionalTime(p.StartDate),
		FormatOptionalTime(p.EndDate), FormatTime(p.CreatedAt), deletedAt,
	}
}

// ScanTimeEntry reads one row selected with TimeEntryColumns.
func ScanTimeEntry(row Scanner) (models.TimeEntry, error) {
	var e models.TimeEntry
	var startTime string
	var endTime sql.NullString

	if err := row.Scan(&e.ID, &e.TaskID, &startTime, &endTime, &e.DurationMin, &e.Description, &e.Billable); err != nil {
		return models.TimeEntry{}, err
	}

	var err error
	if e.StartTime, err = ParseTime(startTime); err != nil {
		return models.TimeEntry{}, fmt.Errorf("time entry %s: invalid start_time: %w", e.ID, err)
	}
	if e.EndTime, err = ParseOptionalTime(endTime.String, endTime.Valid); err != nil {
		return models.TimeEntry{}, fmt.Errorf("time entry %s: invalid end_time: %w", e.ID, err)
	}
	return e, nil
}

// TimeEntryArgs returns the bind values for an insert using TimeEntryColumns order.
func TimeEntryArgs(e models.TimeEntry) []interface{} {
	return []interface{}{
		e.ID, e.TaskID, FormatTime(e.StartTime), FormatOptionalTime(e.EndTime), e.DurationMin,
		e.Description, e.Billable,
	}
}

// ScanMilestone reads one row selected with MilestoneColumns.
func ScanMilestone(row Scanner) (models.Milestone, error) {
	var m models.Milestone
	var status, targetDate, createdAt string
	var completedDate sql.NullString

	if err := row.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Description, &targetDate, &completedDate, &status, &createdAt); err != nil {
		return models.Milestone{}, err
	}

	m.Status = models.MilestoneStatus(status)

	var err error
	if m.TargetDate, err = ParseTime(targetDate); err != nil {
		return models.Milestone{}, fmt.Errorf("milestone %s: invalid target_date: %w", m.ID, err)
	}
	if m.CompletedDate, err = ParseOptionalTime(completedDate.String, completedDate.Valid); err != nil {
		return models.Milestone{}, fmt.Errorf("milestone %s: invalid completed_date: %w", m.ID, err)
	}
	if m.CreatedAt, err = ParseTime(createdAt); err != nil {
		return models.Milestone{}, fmt.Errorf("milestone %s: invalid created_at: %w", m.ID, err)
	}
	return m, nil
}

// MilestoneArgs returns the bind values for an insert using MilestoneColumns order.
func MilestoneArgs(m models.Milestone) []interface{} {
	return []interface{}{
		m.ID, m.ProjectID, m.Name, m.Description, FormatTime(m.TargetDate),
		FormatOptionalTime(m.CompletedDate), string(m.Status), FormatTime(m.CreatedAt),
	}
}

// ScanTag reads one row selected with TagColumns.
func ScanTag(row Scanner) (models.Tag, error) {
	var t models.Tag
	var createdAt string
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Category, &t.Description, &createdAt); err != nil {
		return models.Tag{}, err
	}
	var err error
	if t.CreatedAt, err = ParseTime(createdAt); err != nil {
		return models.Tag{}, fmt.Errorf("tag %s: invalid created_at: %w", t.ID, err)
	}
	return t, nil
}

// TagArgs returns the bind values for an insert using TagColumns order.
func TagArgs(t models.Tag) []interface{} {
	return []interface{}{t.ID, t.Name, t.Color, t.Category, t.Description, FormatTime(t.CreatedAt)}
}

// SettingsFromMap builds Settings from key/value rows.
func SettingsFromMap(values map[string]string) models.Settings {
	return models.Settings{
		Timezone:       values[constants.SettingTimezone],
		DefaultProject: values[constants.SettingDefaultProject],
	}
}

// SettingsToMap flattens Settings into key/value rows.
func SettingsToMap(s models.Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:       s.Timezone,
		constants.SettingDefaultProject: s.DefaultProject,
	}
}
