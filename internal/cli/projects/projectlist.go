package projects

import (
	"fmt"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/report"
	"github.com/julianstephens/taskline/internal/utils"
)

type ProjectListCmd struct {
	Deleted bool `help:"Include deleted projects."`
	ShowIDs bool `help:"Show project IDs."`
}

func (c *ProjectListCmd) Run(ctx *cli.Context) error {
	var (
		projects []models.Project
		err      error
	)
	if c.Deleted {
		projects, err = ctx.Store.GetAllProjectsIncludingDeleted()
	} else {
		projects, err = ctx.Store.GetAllProjects()
	}
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	if len(projects) == 0 {
		ctx.Println("No projects found")
		return nil
	}

	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	counts := make(map[string][2]int)
	for _, t := range tasks {
		n := counts[t.ProjectID]
		n[0]++
		if !t.IsOpen() {
			n[1]++
		}
		counts[t.ProjectID] = n
	}

	ctx.Println("Projects:")
	for _, p := range projects {
		n := counts[p.ID]
		line := fmt.Sprintf("  [%s] %s - %d/%d tasks done", p.Status, p.Name, n[1], n[0])
		if p.StartDate != nil || p.EndDate != nil {
			line += fmt.Sprintf(" (%s)", dateRange(p))
		}
		if p.DeletedAt != nil {
			line += " (deleted)"
		}
		if c.ShowIDs {
			line += fmt.Sprintf(" [ID: %s]", p.ID)
		}
		ctx.Println(line)
	}
	return nil
}

func dateRange(p models.Project) string {
	start, end := utils.FormatOptionalDate(p.StartDate), utils.FormatOptionalDate(p.EndDate)
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = "?"
	}
	return start + " .. " + end
}

type ProjectShowCmd struct {
	Project string `arg:"" help:"Project name or ID."`
}

func (c *ProjectShowCmd) Run(ctx *cli.Context) error {
	project, err := ctx.LookupProject(c.Project)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	tasks, err := ctx.Store.GetTasksByProject(project.ID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	entries, err := ctx.Store.GetTimeEntries()
	if err != nil {
		return fmt.Errorf("failed to load time entries: %w", err)
	}

	now := ctx.Now()
	statuses := report.ProjectStatuses([]models.Project{project}, tasks, entries, now)
	s := statuses[0]

	ctx.Printf("%s [%s]\n", project.Name, project.Status)
	if project.Description != "" {
		ctx.Printf("  %s\n", project.Description)
	}
	ctx.Printf("  ID:         %s\n", project.ID)
	if project.StartDate != nil || project.EndDate != nil {
		ctx.Printf("  Schedule:   %s\n", dateRange(project))
	}
	ctx.Printf("  Progress:   %d/%d tasks (%.0f%%)\n", s.CompletedTasks, s.TotalTasks, s.CompletionPercent)
	ctx.Printf("  Time:       %.1fh logged / %.1fh estimated\n", float64(s.MinutesLogged)/60, s.EstimatedHours)
	if s.DaysRemaining != nil {
		if s.Overdue() {
			ctx.Printf("  Deadline:   %d day(s) overdue\n", -*s.DaysRemaining)
		} else {
			ctx.Printf("  Deadline:   %d day(s) left (%.0f%% of schedule elapsed)\n", *s.DaysRemaining, s.TimelineProgress)
		}
	}

	if len(tasks) == 0 {
		return nil
	}
	ctx.Println()
	ctx.Println("Tasks:")
	for _, t := range tasks {
		due := "no due date"
		if t.DueDate != nil {
			due = "due " + t.DueDate.In(now.Location()).Format(constants.DateFormat)
		}
		ctx.Printf("  [%s] %s (%s)\n", t.Status.Label(), t.Title, due)
	}
	return nil
}

type ProjectDeleteCmd struct {
	Project   string `arg:"" help:"Project name or ID to delete."`
	WithTasks bool   `help:"Also delete the project's tasks."`
}

func (c *ProjectDeleteCmd) Run(ctx *cli.Context) error {
	project, err := ctx.LookupProject(c.Project)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	tasks, err := ctx.Store.GetTasksByProject(project.ID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) > 0 && !c.WithTasks {
		return fmt.Errorf("project %q has %d task(s); use --with-tasks to delete them too", project.Name, len(tasks))
	}

	for _, t := range tasks {
		if err := ctx.Store.DeleteTask(t.ID); err != nil {
			return fmt.Errorf("failed to delete task %s: %w", t.ID, err)
		}
	}
	if err := ctx.Store.DeleteProject(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	ctx.Printf("Deleted project: %s (ID: %s)", project.Name, project.ID)
	if len(tasks) > 0 {
		ctx.Printf(" and %d task(s)", len(tasks))
	}
	ctx.Println()
	return nil
}

type ProjectRestoreCmd struct {
	ID string `arg:"" help:"Project ID to restore."`
}

func (c *ProjectRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreProject(c.ID); err != nil {
		return fmt.Errorf("failed to restore project: %w", err)
	}
	ctx.Printf("Restored project with ID: %s\n", c.ID)
	return nil
}
