package tasks

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/importer"
	"github.com/julianstephens/taskline/internal/logger"
	"github.com/julianstephens/taskline/internal/utils"
)

type ImportCmd struct {
	File   string `arg:"" help:"YAML file to import, or - for stdin."`
	DryRun bool   `short:"n" help:"Check the file and show what would be created without writing."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	var r io.Reader
	if c.File == "-" {
		r = ctx.In
	} else {
		path, err := utils.ExpandHome(c.File)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := importer.Parse(r)
	if err != nil {
		return err
	}

	existing, err := ctx.Store.GetAllProjects()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	plan, err := doc.Plan(existing, ctx.Loc(), ctx.Now())
	if err != nil {
		return fmt.Errorf("import file has errors:\n%w", err)
	}

	if c.DryRun {
		ctx.Printf("Would create %d project(s) and %d task(s):\n", len(plan.Projects), len(plan.Tasks))
		for _, p := range plan.Projects {
			ctx.Printf("  project %s [%s]\n", p.Name, p.Status)
		}
		for _, t := range plan.Tasks {
			ctx.Printf("  task    %s [%s]\n", t.Title, t.Status.Label())
		}
		return nil
	}

	ctx.PerformAutomaticBackup()
	projects, tasks, err := importer.Apply(ctx.Store, plan)
	logger.Info("Import finished", "file", c.File, "projects", projects, "tasks", tasks)
	if err != nil {
		return fmt.Errorf("import stopped after %d project(s) and %d task(s): %w", projects, tasks, err)
	}
	ctx.Printf("Imported %d project(s) and %d task(s)\n", projects, tasks)
	return nil
}
