package tasks

import (
	"fmt"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/validation"
)

type TaskEditCmd struct {
	Task        string   `arg:"" help:"Task ID, ID prefix or title."`
	Title       *string  `help:"New title."`
	Description *string  `short:"m" help:"New description."`
	Project     *string  `short:"p" help:"New project name or ID (empty to clear)."`
	Due         *string  `short:"d" help:"New due date (empty to clear)."`
	Estimate    *float64 `short:"e" help:"New estimate in hours."`
	NoEstimate  bool     `help:"Clear the estimate."`
	Priority    *string  `short:"P" help:"New priority (low|medium|high|urgent)."`
	Status      *string  `short:"s" help:"New status (todo|in_progress|review|completed|blocked)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	now := ctx.Now()

	if c.Title != nil {
		task.Title = *c.Title
	}
	if c.Description != nil {
		task.Description = *c.Description
	}
	if c.Project != nil {
		task.ProjectID = ""
		if *c.Project != "" {
			project, err := ctx.LookupProject(*c.Project)
			if err != nil {
				return fmt.Errorf("failed to find project: %w", err)
			}
			task.ProjectID = project.ID
		}
	}
	if c.Due != nil {
		due, err := ctx.ParseDate(*c.Due)
		if err != nil {
			return err
		}
		task.DueDate = due
	}
	if c.Estimate != nil {
		task.EstimatedHours = c.Estimate
	}
	if c.NoEstimate {
		task.EstimatedHours = nil
	}
	if c.Priority != nil {
		p, err := models.ParseTaskPriority(*c.Priority)
		if err != nil {
			return err
		}
		task.Priority = p
	}
	if c.Status != nil {
		s, err := models.ParseTaskStatus(*c.Status)
		if err != nil {
			return err
		}
		task.SetStatus(s, now)
	}
	task.UpdatedAt = now

	if err := validation.ValidateTask(task); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if err := ctx.Store.UpdateTask(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	ctx.Printf("Task updated: %s\n", task.Title)
	return nil
}
