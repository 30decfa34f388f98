package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/export"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/report"
	"github.com/julianstephens/taskline/internal/validation"
)

type data struct {
	projects []models.Project
	tasks    []models.Task
	entries  []models.TimeEntry
}

func load(ctx *cli.Context) (data, error) {
	var d data
	var err error
	if d.projects, err = ctx.Store.GetAllProjects(); err != nil {
		return d, fmt.Errorf("failed to load projects: %w", err)
	}
	if d.tasks, err = ctx.Store.GetAllTasks(); err != nil {
		return d, fmt.Errorf("failed to load tasks: %w", err)
	}
	if d.entries, err = ctx.Store.GetTimeEntries(); err != nil {
		return d, fmt.Errorf("failed to load time entries: %w", err)
	}
	return d, nil
}

// writeCSV maps an empty export onto a friendly message.
func writeCSV(ctx *cli.Context, fn func() error) error {
	err := fn()
	if errors.Is(err, export.ErrNoData) {
		ctx.Println("Nothing to report")
		return nil
	}
	return err
}

type ReportStatusCmd struct {
	Format string `short:"f" help:"Output format: text or csv." enum:"text,csv" default:"text"`
}

func (c *ReportStatusCmd) Run(ctx *cli.Context) error {
	d, err := load(ctx)
	if err != nil {
		return err
	}
	statuses := report.ProjectStatuses(d.projects, d.tasks, d.entries, ctx.Now())

	if c.Format == string(export.FormatCSV) {
		return writeCSV(ctx, func() error { return export.ProjectStatusCSV(ctx.Out, statuses) })
	}

	if len(statuses) == 0 {
		ctx.Println("No projects found")
		return nil
	}
	ctx.Printf("%-24s %-10s %8s %9s %16s %10s\n", "PROJECT", "STATUS", "DONE", "COMPLETE", "HOURS", "DEADLINE")
	for _, s := range statuses {
		deadline := "-"
		if s.DaysRemaining != nil {
			if s.Overdue() {
				deadline = fmt.Sprintf("%dd late", -*s.DaysRemaining)
			} else {
				deadline = fmt.Sprintf("%dd left", *s.DaysRemaining)
			}
		}
		ctx.Printf("%-24s %-10s %8s %8.0f%% %16s %10s\n",
			truncate(s.Project.Name, 24),
			s.Project.Status,
			fmt.Sprintf("%d/%d", s.CompletedTasks, s.TotalTasks),
			s.CompletionPercent,
			fmt.Sprintf("%.1f/%.1fh", float64(s.MinutesLogged)/60, s.EstimatedHours),
			deadline,
		)
	}
	return nil
}

type ReportStatsCmd struct {
	Format string `short:"f" help:"Output format: text or csv." enum:"text,csv" default:"text"`
}

func (c *ReportStatsCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	s := report.Stats(tasks, ctx.Now())

	if c.Format == string(export.FormatCSV) {
		return writeCSV(ctx, func() error { return export.TaskStatsCSV(ctx.Out, s) })
	}

	ctx.Println("Task statistics:")
	ctx.Printf("  Total:            %d\n", s.TotalTasks)
	ctx.Printf("  Completed:        %d (%.1f%%)\n", s.CompletedTasks, s.CompletionRate)
	ctx.Printf("  Overdue:          %d\n", s.OverdueTasks)
	ctx.Printf("  Avg estimate:     %.1fh\n", s.AvgEstimatedHours)
	ctx.Printf("  Avg to complete:  %.1f days\n", s.AvgDaysToComplete)
	return nil
}

type ReportProductivityCmd struct {
	Format string `short:"f" help:"Output format: text or csv." enum:"text,csv" default:"text"`
}

func (c *ReportProductivityCmd) Run(ctx *cli.Context) error {
	d, err := load(ctx)
	if err != nil {
		return err
	}
	rows := report.ProductivityByProject(d.projects, d.tasks, d.entries, ctx.Now())

	if c.Format == string(export.FormatCSV) {
		return writeCSV(ctx, func() error { return export.ProductivityCSV(ctx.Out, rows) })
	}

	if len(rows) == 0 {
		ctx.Println("No projects found")
		return nil
	}
	ctx.Printf("%-24s %10s %10s %8s %6s\n", "PROJECT", "LOGGED", "ESTIMATED", "RATIO", "DONE")
	for _, p := range rows {
		ctx.Printf("%-24s %9.1fh %9.1fh %7.0f%% %6d\n",
			truncate(p.Project.Name, 24), float64(p.MinutesLogged)/60, p.EstimatedHours, p.ProductivityPercent, p.TasksCompleted)
	}
	return nil
}

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	projects, err := ctx.Store.GetAllProjectsIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	result := validation.New().WithClock(func() time.Time { return ctx.Now() }).ValidateTasks(tasks, projects)
	if !result.HasConflicts() {
		ctx.Println(result.FormatReport())
		return nil
	}
	ctx.Printf("%s", result.FormatReport())
	ctx.Printf("\n%d conflict(s) across %d task(s)\n", len(result.Conflicts), len(tasks))
	return nil
}

func truncate(s string, n int) string {
	return runewidth.Truncate(s, n, "…")
}
