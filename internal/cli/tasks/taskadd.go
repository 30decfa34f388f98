package tasks

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/validation"
)

type TaskAddCmd struct {
	Title       string   `arg:"" help:"Task title."`
	Description string   `short:"m" help:"Longer description."`
	Project     string   `short:"p" help:"Project name or ID."`
	Due         string   `short:"d" help:"Due date (YYYY-MM-DD, today, tomorrow, +Nd)."`
	Estimate    *float64 `short:"e" help:"Estimated effort in hours."`
	Priority    string   `short:"P" help:"Priority (low|medium|high|urgent)." default:"medium"`
	Status      string   `short:"s" help:"Initial status (todo|in_progress|review|completed|blocked)." default:"todo"`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()

	priority, err := models.ParseTaskPriority(c.Priority)
	if err != nil {
		return err
	}
	status, err := models.ParseTaskStatus(c.Status)
	if err != nil {
		return err
	}
	due, err := ctx.ParseDate(c.Due)
	if err != nil {
		return err
	}

	task := models.Task{
		ID:             uuid.New().String(),
		Title:          c.Title,
		Description:    c.Description,
		DueDate:        due,
		EstimatedHours: c.Estimate,
		Priority:       priority,
		CreatedAt:      now,
	}
	task.SetStatus(status, now)

	projectRef := c.Project
	if projectRef == "" {
		if s, err := ctx.Store.GetSettings(); err == nil {
			projectRef = s.DefaultProject
		}
	}
	if projectRef != "" {
		project, err := ctx.LookupProject(projectRef)
		if err != nil {
			return fmt.Errorf("failed to find project: %w", err)
		}
		task.ProjectID = project.ID
	}

	if err := validation.ValidateTask(task); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if err := ctx.Store.AddTask(task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	ctx.Printf("Added task: %s (ID: %s)\n", task.Title, task.ID)
	return nil
}
