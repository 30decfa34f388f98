package settings

import (
	"fmt"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone       *string `help:"IANA timezone used for dates, e.g. Europe/Paris (Local for the system zone)."`
	DefaultProject *string `help:"Project new tasks go to when none is given (empty to clear)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		defaultProject := settings.DefaultProject
		if defaultProject == "" {
			defaultProject = "(none)"
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:          %s\n", settings.Timezone)
		ctx.Printf("  Default Project:   %s\n", defaultProject)

		opts := ctx.Engine.Options()
		ctx.Println("\nChart Settings:")
		if ctx.ConfigPath != "" {
			ctx.Printf("  Config File:       %s\n", ctx.ConfigPath)
		}
		ctx.Printf("  Padding:           %d day(s)\n", opts.PaddingDays)
		ctx.Printf("  Fallback Window:   %d day(s)\n", opts.FallbackDays)
		ctx.Printf("  Workday:           %gh\n", opts.WorkdayHours)
		ctx.Printf("  Minimum Bar Width: %g%%\n", opts.MinWidthPercent)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if _, err := utils.LoadLocation(*c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", *c.Timezone, err)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultProject != nil {
		name := *c.DefaultProject
		if name != "" {
			project, err := ctx.LookupProject(name)
			if err != nil {
				return fmt.Errorf("failed to find project: %w", err)
			}
			name = project.Name
		}
		settings.DefaultProject = name
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
