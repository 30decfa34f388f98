package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/cli/gantt"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/tui"
)

type TuiCmd struct {
	Project       string `short:"p" help:"Only show tasks in this project."`
	Tag           string `help:"Only show tasks carrying this tag."`
	HideCompleted bool   `short:"H" help:"Leave completed tasks off the chart."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	sel := gantt.Selection{Project: c.Project, Tag: c.Tag, HideCompleted: c.HideCompleted, Sort: "due"}
	model := tui.NewModel(tui.Options{
		Store:   ctx.Store,
		Engine:  ctx.Engine,
		Display: ctx.Config.Display,
		Now:     ctx.Now,
		Load:    func() ([]models.Task, error) { return sel.Load(ctx) },
		LoadMilestones: func() ([]models.Milestone, error) {
			return sel.Milestones(ctx)
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
