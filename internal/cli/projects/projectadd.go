package projects

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/validation"
)

type ProjectAddCmd struct {
	Name        string `arg:"" help:"Project name."`
	Description string `short:"m" help:"Project description."`
	Start       string `short:"s" help:"Start date (YYYY-MM-DD)."`
	End         string `short:"e" help:"End date (YYYY-MM-DD)."`
	Status      string `help:"Status (planning|active|on_hold|completed|cancelled)." default:"planning"`
}

func (c *ProjectAddCmd) Run(ctx *cli.Context) error {
	status, err := models.ParseProjectStatus(c.Status)
	if err != nil {
		return err
	}
	start, err := ctx.ParseDate(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ctx.ParseDate(c.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	if _, err := ctx.Store.GetProjectByName(c.Name); err == nil {
		return fmt.Errorf("a project named %q already exists", c.Name)
	} else if !isNotFound(err) {
		return fmt.Errorf("failed to check existing projects: %w", err)
	}

	project := models.Project{
		ID:          uuid.New().String(),
		Name:        c.Name,
		Description: c.Description,
		Status:      status,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   ctx.Now(),
	}
	if err := validation.ValidateProject(project); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	if err := ctx.Store.AddProject(project); err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}

	ctx.Printf("Added project: %s (ID: %s)\n", project.Name, project.ID)
	return nil
}

type ProjectEditCmd struct {
	Project     string  `arg:"" help:"Project name or ID."`
	Name        *string `help:"New name."`
	Description *string `short:"m" help:"New description."`
	Start       *string `short:"s" help:"New start date (empty to clear)."`
	End         *string `short:"e" help:"New end date (empty to clear)."`
	Status      *string `help:"New status."`
}

func (c *ProjectEditCmd) Run(ctx *cli.Context) error {
	project, err := ctx.LookupProject(c.Project)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}

	if c.Name != nil {
		project.Name = *c.Name
	}
	if c.Description != nil {
		project.Description = *c.Description
	}
	if c.Start != nil {
		if project.StartDate, err = ctx.ParseDate(*c.Start); err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	if c.End != nil {
		if project.EndDate, err = ctx.ParseDate(*c.End); err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}
	if c.Status != nil {
		if project.Status, err = models.ParseProjectStatus(*c.Status); err != nil {
			return err
		}
	}

	if err := validation.ValidateProject(project); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}
	if err := ctx.Store.UpdateProject(project); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	ctx.Printf("Project updated: %s\n", project.Name)
	return nil
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, storage.ErrNotFound)
}
