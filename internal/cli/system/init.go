package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if abs, err := filepath.Abs(dbPath); err == nil {
			dbPath = abs
		}
		if c.Source != "" {
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized taskline storage at: %s\n", ctx.Store.GetConfigPath())

	if err := writeDefaultConfig(ctx); err != nil {
		return err
	}

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		source, err := cli.OpenStore(c.Source)
		if err != nil {
			return fmt.Errorf("invalid source: %w", err)
		}
		if err := c.copyData(ctx, source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

// copyData copies every record, soft-deleted ones included, from source into the store.
func (c *InitCmd) copyData(ctx *cli.Context, source storage.Provider) error {
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	ctx.Println("  Migrating settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating projects...")
	projects, err := source.GetAllProjectsIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to get projects from source: %w", err)
	}
	for _, p := range projects {
		if err := ctx.Store.AddProject(p); err != nil {
			return fmt.Errorf("failed to add project %s: %w", p.ID, err)
		}
	}
	ctx.Printf("    Migrated %d projects\n", len(projects))

	ctx.Println("  Migrating tasks...")
	tasks, err := source.GetAllTasksIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to get tasks from source: %w", err)
	}
	for _, t := range tasks {
		if err := ctx.Store.AddTask(t); err != nil {
			return fmt.Errorf("failed to add task %s: %w", t.ID, err)
		}
	}
	ctx.Printf("    Migrated %d tasks\n", len(tasks))

	ctx.Println("  Migrating time entries...")
	entries, err := source.GetTimeEntries()
	if err != nil {
		return fmt.Errorf("failed to get time entries from source: %w", err)
	}
	for _, e := range entries {
		if err := ctx.Store.AddTimeEntry(e); err != nil {
			return fmt.Errorf("failed to add time entry %s: %w", e.ID, err)
		}
	}
	ctx.Printf("    Migrated %d time entries\n", len(entries))

	ctx.Println("  Migrating milestones...")
	milestones, err := source.GetAllMilestones()
	if err != nil {
		return fmt.Errorf("failed to get milestones from source: %w", err)
	}
	for _, m := range milestones {
		if err := ctx.Store.AddMilestone(m); err != nil {
			return fmt.Errorf("failed to add milestone %s: %w", m.ID, err)
		}
	}
	ctx.Printf("    Migrated %d milestones\n", len(milestones))

	ctx.Println("  Migrating tags...")
	tags, err := source.GetAllTags()
	if err != nil {
		return fmt.Errorf("failed to get tags from source: %w", err)
	}
	for _, tag := range tags {
		if err := ctx.Store.AddTag(tag); err != nil {
			return fmt.Errorf("failed to add tag %s: %w", tag.ID, err)
		}
		ids, err := source.GetTaskIDsByTag(tag.ID)
		if err != nil {
			return fmt.Errorf("failed to get tasks for tag %s: %w", tag.Name, err)
		}
		for _, id := range ids {
			if err := ctx.Store.TagTask(id, tag.ID); err != nil {
				return fmt.Errorf("failed to tag task %s: %w", id, err)
			}
		}
	}
	ctx.Printf("    Migrated %d tags\n", len(tags))

	return nil
}

// writeDefaultConfig writes the active chart configuration when no config file exists yet.
func writeDefaultConfig(ctx *cli.Context) error {
	if ctx.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(ctx.ConfigPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access config file: %w", err)
	}
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Save(ctx.ConfigPath, cfg); err != nil {
		return err
	}
	ctx.Printf("Wrote chart configuration to: %s\n", ctx.ConfigPath)
	return nil
}
