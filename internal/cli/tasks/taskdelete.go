package tasks

import (
	"fmt"

	"github.com/julianstephens/taskline/internal/cli"
)

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := ctx.Store.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	ctx.Printf("Deleted task: %s (ID: %s)\n", task.Title, task.ID)
	ctx.Printf("Restore it with: taskline task restore %s\n", task.ID)
	return nil
}
