package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTitle  ConflictType = "duplicate_title"
	ConflictOutsideProject  ConflictType = "due_outside_project"
	ConflictOverdue         ConflictType = "overdue"
	ConflictUnknownProject  ConflictType = "unknown_project"
	ConflictInvalidEstimate ConflictType = "invalid_estimate"
)

// Conflict represents a detected problem in the task list
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // task titles involved
	TaskIDs     []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type.
func (vr *ValidationResult) Count(kind ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == kind {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// ValidateTask checks a single task before it is stored.
func ValidateTask(t models.Task) error {
	var errs []error
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
			errs = append(errs, fmt.Errorf("estimated hours must be a positive number, got %v", h))
		}
	}
	if !t.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid status %q", t.Status))
	}
	if !t.Priority.Valid() {
		errs = append(errs, fmt.Errorf("invalid priority %q", t.Priority))
	}
	return errors.Join(errs...)
}

// ValidateProject checks a single project before it is stored.
func ValidateProject(p models.Project) error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !p.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid project status %q", p.Status))
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		errs = append(errs, fmt.Errorf("end date %s is before start date %s",
			p.EndDate.Format(constants.DateFormat), p.StartDate.Format(constants.DateFormat)))
	}
	return errors.Join(errs...)
}

// ValidateTimeEntry checks a manually logged entry.
func ValidateTimeEntry(e models.TimeEntry) error {
	if e.TaskID == "" {
		return errors.New("task id is required")
	}
	if e.EndTime != nil && !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("end time %s must be after start time %s",
			e.EndTime.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}
	return nil
}

// ValidateMilestone checks a single milestone before it is stored.
func ValidateMilestone(m models.Milestone) error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if m.ProjectID == "" {
		errs = append(errs, errors.New("project is required"))
	}
	if m.TargetDate.IsZero() {
		errs = append(errs, errors.New("target date is required"))
	}
	if !m.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid milestone status %q", m.Status))
	}
	return errors.Join(errs...)
}

// ValidateTag checks a tag name and color. Colors are #RGB, #RRGGBB or an ANSI index 0-255.
func ValidateTag(t models.Tag) error {
	var errs []error
	name := strings.TrimSpace(t.Name)
	if name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if strings.ContainsAny(name, ", \t") {
		errs = append(errs, fmt.Errorf("tag name %q must not contain spaces or commas", t.Name))
	}
	if t.Color != "" && !validColor(t.Color) {
		errs = append(errs, fmt.Errorf("invalid color %q (expected #RGB, #RRGGBB or 0-255)", t.Color))
	}
	return errors.Join(errs...)
}

func validColor(c string) bool {
	if strings.HasPrefix(c, "#") {
		hex := c[1:]
		if len(hex) != 3 && len(hex) != 6 {
			return false
		}
		for _, r := range hex {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return false
			}
		}
		return true
	}
	n, err := strconv.Atoi(c)
	return err == nil && n >= 0 && n <= 255
}

// Validator checks a task list for conflicts
type Validator struct {
	now func() time.Time
}

// New creates a new Validator
func New() *Validator {
	return &Validator{now: time.Now}
}

// WithClock overrides the clock used for the overdue check.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// ValidateTasks checks tasks against each other and against their projects.
func (v *Validator) ValidateTasks(tasks []models.Task, projects []models.Project) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	now := v.now()

	byID := make(map[string]models.Project, len(projects))
	for _, p := range projects {
		if p.DeletedAt == nil {
			byID[p.ID] = p
		}
	}

	// Duplicate titles, case-insensitive, within the same project
	type key struct{ project, title string }
	seen := map[key][]models.Task{}
	var order []key
	for _, task := range tasks {
		if task.DeletedAt != nil || strings.TrimSpace(task.Title) == "" {
			continue
		}
		k := key{task.ProjectID, strings.ToLower(strings.TrimSpace(task.Title))}
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = append(seen[k], task)
	}
	for _, k := range order {
		group := seen[k]
		if len(group) < 2 {
			continue
		}
		ids := make([]string, len(group))
		for i, t := range group {
			ids[i] = t.ID
		}
		scope := "without a project"
		if p, ok := byID[k.project]; ok {
			scope = fmt.Sprintf("in project %q", p.Name)
		} else if k.project != "" {
			scope = fmt.Sprintf("in project %s", k.project)
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateTitle,
			Description: fmt.Sprintf("Duplicate task title %q %s (IDs: %s)", group[0].Title, scope, strings.Join(ids, ", ")),
			Items:       []string{group[0].Title},
			TaskIDs:     ids,
		})
	}

	for _, task := range tasks {
		if task.DeletedAt != nil {
			continue
		}

		if task.EstimatedHours != nil && (*task.EstimatedHours <= 0 || math.IsNaN(*task.EstimatedHours)) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidEstimate,
				Description: fmt.Sprintf("Task %q has a non-positive estimate; one workday is assumed", task.Title),
				Items:       []string{task.Title},
				TaskIDs:     []string{task.ID},
			})
		}

		if task.ProjectID != "" {
			project, ok := byID[task.ProjectID]
			if !ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictUnknownProject,
					Description: fmt.Sprintf("Task %q references missing project %s", task.Title, task.ProjectID),
					Items:       []string{task.Title},
					TaskIDs:     []string{task.ID},
				})
			} else if task.DueDate != nil && outsideProject(*task.DueDate, project) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOutsideProject,
					Description: fmt.Sprintf("Task %q is due %s, outside project %q (%s)",
						task.Title, task.DueDate.Format(constants.DateFormat), project.Name, projectRange(project)),
					Items:   []string{task.Title},
					TaskIDs: []string{task.ID},
				})
			}
		}

		if task.IsOverdue(now) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOverdue,
				Description: fmt.Sprintf("Task %q was due %s and is still %s", task.Title, task.DueDate.Format(constants.DateFormat), task.Status.Label()),
				Items:       []string{task.Title},
				TaskIDs:     []string{task.ID},
			})
		}
	}

	sort.SliceStable(result.Conflicts, func(i, j int) bool {
		return conflictRank(result.Conflicts[i].Type) < conflictRank(result.Conflicts[j].Type)
	})
	return result
}

func conflictRank(t ConflictType) int {
	switch t {
	case ConflictDuplicateTitle:
		return 0
	case ConflictUnknownProject:
		return 1
	case ConflictOutsideProject:
		return 2
	case ConflictInvalidEstimate:
		return 3
	default:
		return 4
	}
}

// outsideProject compares calendar days so a task due on the project's last day is inside.
func outsideProject(due time.Time, p models.Project) bool {
	day := dayKey(due)
	if p.StartDate != nil && day < dayKey(*p.StartDate) {
		return true
	}
	if p.EndDate != nil && day > dayKey(*p.EndDate) {
		return true
	}
	return false
}

func dayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

func projectRange(p models.Project) string {
	start, end := "…", "…"
	if p.StartDate != nil {
		start = p.StartDate.Format(constants.DateFormat)
	}
	if p.EndDate != nil {
		end = p.EndDate.Format(constants.DateFormat)
	}
	return start + " to " + end
}
