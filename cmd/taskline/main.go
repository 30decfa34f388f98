package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/cli/backups"
	"github.com/julianstephens/taskline/internal/cli/gantt"
	"github.com/julianstephens/taskline/internal/cli/milestones"
	"github.com/julianstephens/taskline/internal/cli/projects"
	"github.com/julianstephens/taskline/internal/cli/reports"
	"github.com/julianstephens/taskline/internal/cli/settings"
	"github.com/julianstephens/taskline/internal/cli/system"
	"github.com/julianstephens/taskline/internal/cli/tags"
	"github.com/julianstephens/taskline/internal/cli/tasks"
	"github.com/julianstephens/taskline/internal/cli/timer"
	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/errors"
	"github.com/julianstephens/taskline/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	DB       string `name:"db" help:"SQLite database path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use TASKLINE_DB_CONNECTION, .pgpass or the OS keyring instead."`
	Config   string `help:"Chart configuration file." type:"path" default:"~/.config/taskline/config.toml"`
	Debug    bool   `help:"Enable debug logging to stderr."`
	Timezone string `help:"Display timezone (IANA name). Defaults to the timezone in settings."`

	Init     system.InitCmd       `cmd:"" help:"Initialize taskline storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Gantt    gantt.GanttCmd       `cmd:"" help:"Show the task timeline as a Gantt chart."`
	Import   tasks.ImportCmd      `cmd:"" help:"Import projects and tasks from a YAML file."`
	Validate reports.ValidateCmd  `cmd:"" help:"Validate tasks for conflicts."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Inspect  system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Task     struct {
		Add     tasks.TaskAddCmd     `cmd:"" help:"Add a new task."`
		Edit    tasks.TaskEditCmd    `cmd:"" help:"Edit an existing task."`
		Done    tasks.TaskDoneCmd    `cmd:"" help:"Mark a task as completed."`
		Delete  tasks.TaskDeleteCmd  `cmd:"" help:"Delete a task."`
		Restore tasks.TaskRestoreCmd `cmd:"" help:"Restore a deleted task."`
		Tag     tags.TaskTagCmd      `cmd:"" help:"Attach tags to a task."`
		Untag   tags.TaskUntagCmd    `cmd:"" help:"Remove tags from a task."`
		List    tasks.TaskListCmd    `cmd:"" help:"List tasks." default:"1"`
	} `cmd:"" help:"Manage tasks."`
	Project struct {
		Add     projects.ProjectAddCmd     `cmd:"" help:"Add a new project."`
		Edit    projects.ProjectEditCmd    `cmd:"" help:"Edit an existing project."`
		List    projects.ProjectListCmd    `cmd:"" help:"List projects." default:"1"`
		Show    projects.ProjectShowCmd    `cmd:"" help:"Show a project and its tasks."`
		Delete  projects.ProjectDeleteCmd  `cmd:"" help:"Delete a project."`
		Restore projects.ProjectRestoreCmd `cmd:"" help:"Restore a deleted project."`
	} `cmd:"" help:"Manage projects."`
	Milestone struct {
		Add    milestones.MilestoneAddCmd    `cmd:"" help:"Add a milestone to a project."`
		List   milestones.MilestoneListCmd   `cmd:"" help:"List milestones." default:"1"`
		Done   milestones.MilestoneDoneCmd   `cmd:"" help:"Mark a milestone as reached."`
		Delete milestones.MilestoneDeleteCmd `cmd:"" help:"Delete a milestone."`
	} `cmd:"" help:"Manage project milestones."`
	Tag struct {
		Add    tags.TagAddCmd    `cmd:"" help:"Add a tag."`
		List   tags.TagListCmd   `cmd:"" help:"List tags." default:"1"`
		Delete tags.TagDeleteCmd `cmd:"" help:"Delete a tag and detach it from every task."`
	} `cmd:"" help:"Manage task tags."`
	Timer struct {
		Start  timer.TimerStartCmd  `cmd:"" help:"Start tracking time on a task."`
		Stop   timer.TimerStopCmd   `cmd:"" help:"Stop the running timer."`
		Status timer.TimerStatusCmd `cmd:"" help:"Show the running timer." default:"1"`
		Log    timer.TimerLogCmd    `cmd:"" help:"Record time spent without a timer."`
		List   timer.TimerListCmd   `cmd:"" help:"List time entries."`
	} `cmd:"" help:"Track time spent on tasks."`
	Report struct {
		Status       reports.ReportStatusCmd       `cmd:"" help:"Project status overview." default:"1"`
		Stats        reports.ReportStatsCmd        `cmd:"" help:"Task statistics."`
		Productivity reports.ReportProductivityCmd `cmd:"" help:"Completed work and tracked time."`
	} `cmd:"" help:"Generate reports."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// these commands open (or never touch) the store themselves
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Project timelines and Gantt charts in the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		Level:     logLevel(cfg),
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", CLI.Config, w)
	}

	store, err := cli.OpenStore(CLI.DB)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx, err := cli.NewContext(store, cfg)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx.ConfigPath = CLI.Config

	command := strings.Fields(ctx.Command())
	loaded := false
	if len(command) == 0 || !selfLoading[command[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		loaded = true
	}
	if loaded || CLI.Timezone != "" {
		if err := appCtx.ResolveLocation(CLI.Timezone); err != nil {
			errors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "store", store.GetConfigPath())
	err = ctx.Run(appCtx)
	_ = store.Close()
	errors.Fatal(err)
}

// logLevel lets --debug win over the configured level.
func logLevel(cfg *config.Config) string {
	if CLI.Debug {
		return ""
	}
	return cfg.Log.Level
}
