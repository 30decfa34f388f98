package gantt

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/cli/tasks"
	"github.com/julianstephens/taskline/internal/export"
	"github.com/julianstephens/taskline/internal/logger"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/render"
	"github.com/julianstephens/taskline/internal/timeline"
)

// Selection decides which tasks appear on the chart and in what order.
type Selection struct {
	Project       string
	Tag           string
	HideCompleted bool
	Sort          string
}

// Load returns the live tasks matching the selection.
func (s Selection) Load(ctx *cli.Context) ([]models.Task, error) {
	var (
		list []models.Task
		err  error
	)
	if s.Project != "" {
		project, perr := ctx.LookupProject(s.Project)
		if perr != nil {
			return nil, fmt.Errorf("failed to find project: %w", perr)
		}
		list, err = ctx.Store.GetTasksByProject(project.ID)
	} else {
		list, err = ctx.Store.GetAllTasks()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	if s.Tag != "" {
		if list, err = filterByTag(ctx, list, s.Tag); err != nil {
			return nil, err
		}
	}
	if s.HideCompleted {
		open := list[:0]
		for _, t := range list {
			if t.Status != models.StatusCompleted {
				open = append(open, t)
			}
		}
		list = open
	}
	if s.Sort != "" {
		tasks.SortTasks(list, s.Sort)
	}
	return list, nil
}

func filterByTag(ctx *cli.Context, list []models.Task, name string) ([]models.Task, error) {
	tag, err := ctx.Store.GetTagByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	ids, err := ctx.Store.GetTaskIDsByTag(tag.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tagged tasks: %w", err)
	}
	tagged := make(map[string]bool, len(ids))
	for _, id := range ids {
		tagged[id] = true
	}
	out := list[:0]
	for _, t := range list {
		if tagged[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

// Milestones returns the milestones to mark on the chart: those of the selected
// project, or all of them when no project is selected.
func (s Selection) Milestones(ctx *cli.Context) ([]models.Milestone, error) {
	if s.Project == "" {
		return ctx.Store.GetAllMilestones()
	}
	project, err := ctx.LookupProject(s.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return ctx.Store.GetMilestonesByProject(project.ID)
}

type GanttCmd struct {
	Start         string `help:"First day of the chart (YYYY-MM-DD, today, +Nd). Needs --end."`
	End           string `help:"Last day of the chart. Needs --start."`
	Project       string `short:"p" help:"Only tasks in this project."`
	Tag           string `help:"Only tasks carrying this tag."`
	NoMilestones  bool   `help:"Leave milestone markers off the chart."`
	Today         bool   `short:"t" help:"Center the chart on today instead of the task dates."`
	HideCompleted bool   `short:"H" help:"Leave completed tasks off the chart."`
	Sort          string `help:"Row order: due, priority, title or created." enum:"due,priority,title,created" default:"due"`
	Format        string `short:"f" help:"Output format: text, json or csv." enum:"text,json,csv" default:"text"`
}

func (c *GanttCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	sortBy := c.Sort
	if sortBy == "created" {
		sortBy = ""
	}
	sel := Selection{Project: c.Project, Tag: c.Tag, HideCompleted: c.HideCompleted, Sort: sortBy}
	list, err := sel.Load(ctx)
	if err != nil {
		return err
	}

	bounds, err := c.bounds(ctx)
	if err != nil {
		return err
	}

	now := ctx.Now()
	layout, err := ctx.Engine.Build(list, bounds, now)
	if err != nil {
		return fmt.Errorf("failed to lay out chart: %w", err)
	}
	if !c.NoMilestones {
		milestones, err := sel.Milestones(ctx)
		if err != nil {
			return fmt.Errorf("failed to load milestones: %w", err)
		}
		layout.PlaceMilestones(milestones)
	}
	logger.Debug("Built timeline", "window", layout.Window.String(), "days", layout.TotalDays, "bars", len(layout.Bars), "markers", len(layout.Markers))

	switch format {
	case export.FormatJSON:
		return export.LayoutJSON(ctx.Out, layout)
	case export.FormatCSV:
		if err := export.LayoutCSV(ctx.Out, layout); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	}

	chart := render.New(render.FromConfig(ctx.Config.Display), lipgloss.NewRenderer(ctx.Out))
	ctx.Printf("%s", chart.Render(layout))
	if len(layout.VisibleBars()) > 0 {
		ctx.Printf("\n%s\n", render.Summary(layout))
	}
	return nil
}

func (c *GanttCmd) bounds(ctx *cli.Context) (timeline.Bounds, error) {
	if c.Today {
		if c.Start != "" || c.End != "" {
			ctx.Warnf("--today overrides --start and --end")
		}
		return ctx.Engine.Around(ctx.Now()), nil
	}

	start, err := ctx.ParseDate(c.Start)
	if err != nil {
		return timeline.Bounds{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := ctx.ParseDate(c.End)
	if err != nil {
		return timeline.Bounds{}, fmt.Errorf("invalid --end: %w", err)
	}
	b := timeline.Bounds{Start: start, End: end}
	if !b.Explicit() && (start != nil || end != nil) {
		ctx.Warnf("--start and --end must be given together; using the task dates instead")
		return timeline.Bounds{}, nil
	}
	return b, nil
}
