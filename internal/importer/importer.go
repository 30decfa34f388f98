// Package importer loads projects, their milestones and tasks in bulk from a YAML document.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/utils"
	"github.com/julianstephens/taskline/internal/validation"
)

// Document is the on-disk import format.
type Document struct {
	Projects []ProjectEntry `yaml:"projects"`
	Tasks    []TaskEntry    `yaml:"tasks"`
}

type ProjectEntry struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Status      string           `yaml:"status"`
	Start       string           `yaml:"start"`
	End         string           `yaml:"end"`
	Milestones  []MilestoneEntry `yaml:"milestones"`
}

type MilestoneEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Target      string `yaml:"target"`
	Done        bool   `yaml:"done"`
}

type TaskEntry struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Project       string   `yaml:"project"`
	Due           string   `yaml:"due"`
	EstimateHours *float64 `yaml:"estimate_hours"`
	Status        string   `yaml:"status"`
	Priority      string   `yaml:"priority"`
}

// Plan is the set of records an import would create.
type Plan struct {
	Projects   []models.Project
	Milestones []models.Milestone
	Tasks      []models.Task
}

// Writer is the subset of storage the importer needs.
type Writer interface {
	AddProject(models.Project) error
	AddMilestone(models.Milestone) error
	AddTask(models.Task) error
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("import file is empty")
		}
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	if len(doc.Projects) == 0 && len(doc.Tasks) == 0 {
		return nil, errors.New("import file has no projects or tasks")
	}
	return &doc, nil
}

// Plan converts the document into models. Dates are read in loc; existing projects are
// matched by name (case-insensitive) so tasks can reference them. Every problem found is
// reported, not just the first.
func (d *Document) Plan(existing []models.Project, loc *time.Location, now time.Time) (Plan, error) {
	var plan Plan
	var errs []error

	projectIDs := make(map[string]string)
	for _, p := range existing {
		projectIDs[strings.ToLower(p.Name)] = p.ID
	}

	for i, entry := range d.Projects {
		p, err := entry.toProject(loc, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %d (%s): %w", i+1, entry.Name, err))
			continue
		}
		key := strings.ToLower(p.Name)
		if _, dup := projectIDs[key]; dup {
			errs = append(errs, fmt.Errorf("project %d (%s): a project with this name already exists", i+1, entry.Name))
			continue
		}
		projectIDs[key] = p.ID
		plan.Projects = append(plan.Projects, p)

		for j, me := range entry.Milestones {
			m, err := me.toMilestone(p.ID, loc, now)
			if err != nil {
				errs = append(errs, fmt.Errorf("project %d (%s) milestone %d (%s): %w", i+1, entry.Name, j+1, me.Name, err))
				continue
			}
			plan.Milestones = append(plan.Milestones, m)
		}
	}

	for i, entry := range d.Tasks {
		t, err := entry.toTask(loc, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d (%s): %w", i+1, entry.Title, err))
			continue
		}
		if name := strings.TrimSpace(entry.Project); name != "" {
			id, ok := projectIDs[strings.ToLower(name)]
			if !ok {
				errs = append(errs, fmt.Errorf("task %d (%s): unknown project %q", i+1, entry.Title, name))
				continue
			}
			t.ProjectID = id
		}
		plan.Tasks = append(plan.Tasks, t)
	}

	if len(errs) > 0 {
		return Plan{}, errors.Join(errs...)
	}
	return plan, nil
}

func (e ProjectEntry) toProject(loc *time.Location, now time.Time) (models.Project, error) {
	p := models.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(e.Name),
		Description: e.Description,
		Status:      models.ProjectPlanning,
		CreatedAt:   now,
	}
	if e.Status != "" {
		st, err := models.ParseProjectStatus(e.Status)
		if err != nil {
			return models.Project{}, err
		}
		p.Status = st
	}

	var err error
	if p.StartDate, err = utils.ParseOptionalDate(e.Start, loc); err != nil {
		return models.Project{}, fmt.Errorf("start: %w", err)
	}
	if p.EndDate, err = utils.ParseOptionalDate(e.End, loc); err != nil {
		return models.Project{}, fmt.Errorf("end: %w", err)
	}
	return p, validation.ValidateProject(p)
}

func (e MilestoneEntry) toMilestone(projectID string, loc *time.Location, now time.Time) (models.Milestone, error) {
	m := models.Milestone{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        strings.TrimSpace(e.Name),
		Description: e.Description,
		Status:      models.MilestonePending,
		CreatedAt:   now,
	}
	target, err := utils.ParseOptionalDate(e.Target, loc)
	if err != nil {
		return models.Milestone{}, fmt.Errorf("target: %w", err)
	}
	if target != nil {
		m.TargetDate = *target
	}
	if e.Done {
		m.Complete(now)
	}
	return m, validation.ValidateMilestone(m)
}

func (e TaskEntry) toTask(loc *time.Location, now time.Time) (models.Task, error) {
	t := models.Task{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(e.Title),
		Description:    e.Description,
		EstimatedHours: e.EstimateHours,
		Status:         models.StatusTodo,
		Priority:       models.PriorityMedium,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if e.Status != "" {
		st, err := models.ParseTaskStatus(e.Status)
		if err != nil {
			return models.Task{}, err
		}
		t.SetStatus(st, now)
	}
	if e.Priority != "" {
		pr, err := models.ParseTaskPriority(e.Priority)
		if err != nil {
			return models.Task{}, err
		}
		t.Priority = pr
	}

	due, err := utils.ParseOptionalDate(e.Due, loc)
	if err != nil {
		return models.Task{}, fmt.Errorf("due: %w", err)
	}
	t.DueDate = due

	return t, validation.ValidateTask(t)
}

// Apply writes the plan, projects first so milestone and task references resolve.
// It returns the number of projects and tasks written before any failure.
func Apply(w Writer, plan Plan) (projects, tasks int, err error) {
	for _, p := range plan.Projects {
		if err := w.AddProject(p); err != nil {
			return projects, tasks, fmt.Errorf("failed to add project %q: %w", p.Name, err)
		}
		projects++
	}
	for _, m := range plan.Milestones {
		if err := w.AddMilestone(m); err != nil {
			return projects, tasks, fmt.Errorf("failed to add milestone %q: %w", m.Name, err)
		}
	}
	for _, t := range plan.Tasks {
		if err := w.AddTask(t); err != nil {
			return projects, tasks, fmt.Errorf("failed to add task %q: %w", t.Title, err)
		}
		tasks++
	}
	return projects, tasks, nil
}
