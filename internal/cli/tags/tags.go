package tags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/validation"
)

type TagAddCmd struct {
	Name        string `arg:"" help:"Tag name (no spaces or commas)."`
	Color       string `short:"c" help:"Color as #RRGGBB or an ANSI index."`
	Category    string `help:"Free-form grouping, e.g. area or client."`
	Description string `short:"m" help:"Tag description."`
}

func (c *TagAddCmd) Run(ctx *cli.Context) error {
	tag := models.Tag{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(c.Name),
		Color:       c.Color,
		Category:    c.Category,
		Description: c.Description,
		CreatedAt:   ctx.Now(),
	}
	if err := validation.ValidateTag(tag); err != nil {
		return fmt.Errorf("invalid tag: %w", err)
	}
	if _, err := ctx.Store.GetTagByName(tag.Name); err == nil {
		return fmt.Errorf("a tag named %q already exists", tag.Name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check existing tags: %w", err)
	}

	if err := ctx.Store.AddTag(tag); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	ctx.Printf("Added tag: %s\n", tag.Name)
	return nil
}

type TagListCmd struct{}

func (c *TagListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Store.GetAllTags()
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	if len(list) == 0 {
		ctx.Println("No tags found")
		return nil
	}

	ctx.Println("Tags:")
	for _, t := range list {
		ids, err := ctx.Store.GetTaskIDsByTag(t.ID)
		if err != nil {
			return fmt.Errorf("failed to count tasks for tag %s: %w", t.Name, err)
		}
		line := fmt.Sprintf("  %s - %d task(s)", t.Name, len(ids))
		if t.Category != "" {
			line += fmt.Sprintf(" [%s]", t.Category)
		}
		if t.Description != "" {
			line += ": " + t.Description
		}
		ctx.Println(line)
	}
	return nil
}

type TagDeleteCmd struct {
	Name string `arg:"" help:"Tag name."`
}

func (c *TagDeleteCmd) Run(ctx *cli.Context) error {
	tag, err := ctx.Store.GetTagByName(c.Name)
	if err != nil {
		return fmt.Errorf("failed to find tag: %w", err)
	}
	if err := ctx.Store.DeleteTag(tag.ID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	ctx.Printf("Deleted tag: %s\n", tag.Name)
	return nil
}

// TaskTagCmd attaches tags to a task. Unknown tag names are created on the fly.
type TaskTagCmd struct {
	Task string   `arg:"" help:"Task title or ID."`
	Tags []string `arg:"" help:"Tag names."`
}

func (c *TaskTagCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	for _, name := range c.Tags {
		tag, err := ensureTag(ctx, name)
		if err != nil {
			return err
		}
		if err := ctx.Store.TagTask(task.ID, tag.ID); err != nil {
			return fmt.Errorf("failed to tag task: %w", err)
		}
	}
	return printTaskTags(ctx, task)
}

type TaskUntagCmd struct {
	Task string   `arg:"" help:"Task title or ID."`
	Tags []string `arg:"" help:"Tag names."`
}

func (c *TaskUntagCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	for _, name := range c.Tags {
		tag, err := ctx.Store.GetTagByName(name)
		if err != nil {
			return fmt.Errorf("failed to find tag: %w", err)
		}
		if err := ctx.Store.UntagTask(task.ID, tag.ID); err != nil {
			return fmt.Errorf("failed to untag task: %w", err)
		}
	}
	return printTaskTags(ctx, task)
}

func ensureTag(ctx *cli.Context, name string) (models.Tag, error) {
	tag, err := ctx.Store.GetTagByName(name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Tag{}, fmt.Errorf("failed to look up tag: %w", err)
	}
	tag = models.Tag{ID: uuid.New().String(), Name: strings.TrimSpace(name), CreatedAt: ctx.Now()}
	if err := validation.ValidateTag(tag); err != nil {
		return models.Tag{}, fmt.Errorf("invalid tag: %w", err)
	}
	if err := ctx.Store.AddTag(tag); err != nil {
		return models.Tag{}, fmt.Errorf("failed to add tag: %w", err)
	}
	return tag, nil
}

func printTaskTags(ctx *cli.Context, task models.Task) error {
	current, err := ctx.Store.GetTagsForTask(task.ID)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	names := make([]string, len(current))
	for i, t := range current {
		names[i] = t.Name
	}
	if len(names) == 0 {
		ctx.Printf("Task %s has no tags\n", task.Title)
		return nil
	}
	ctx.Printf("Task %s tagged: %s\n", task.Title, strings.Join(names, ", "))
	return nil
}
