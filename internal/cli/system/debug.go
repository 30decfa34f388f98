package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/taskline/internal/cli"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpTask     DebugDumpTaskCmd     `cmd:"" help:"Dump task data as JSON."`
	DumpProject  DebugDumpProjectCmd  `cmd:"" help:"Dump project data as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpTaskCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(cmd.Task)
	if err != nil {
		return err
	}
	return printJSON(ctx, task)
}

type DebugDumpProjectCmd struct {
	Project string `arg:"" help:"Project name or ID."`
}

func (cmd *DebugDumpProjectCmd) Run(ctx *cli.Context) error {
	project, err := ctx.LookupProject(cmd.Project)
	if err != nil {
		return err
	}
	return printJSON(ctx, project)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
