package tasks

import (
	"fmt"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/models"
)

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task ID, ID prefix or title."`
	Undo bool   `help:"Reopen the task instead."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	status := models.StatusCompleted
	if c.Undo {
		status = models.StatusTodo
	}
	task.SetStatus(status, ctx.Now())

	if err := ctx.Store.UpdateTask(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if c.Undo {
		ctx.Printf("Reopened task: %s\n", task.Title)
	} else {
		ctx.Printf("Completed task: %s\n", task.Title)
	}
	return nil
}
