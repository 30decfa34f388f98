package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/utils"
	"github.com/julianstephens/taskline/internal/validation"
)

var errChecksFailed = errors.New("one or more health checks failed")

// errWarning marks a check result that is reported but does not fail the run.
type errWarning struct{ msg string }

func (w errWarning) Error() string { return w.msg }

func warnf(format string, args ...interface{}) error {
	return errWarning{msg: fmt.Sprintf(format, args...)}
}

type check struct {
	name    string
	needsDB bool
	run     func(*cli.Context) error
}

var checks = []check{
	{"Schema version", true, checkSchemaVersion},
	{"Backups present", false, checkBackupsPresent},
	{"Data validation", true, checkValidation},
	{"Time entries", true, checkTimeEntries},
	{"Milestones", true, checkMilestones},
	{"Configuration", false, checkConfig},
	{"Clock/timezone", true, checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var warning errWarning
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &warning):
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errChecksFailed
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d - run 'taskline migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return warnf("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return warnf("no backups found in %s (run 'taskline backup create')", mgr.Dir())
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	projects, err := ctx.Store.GetAllProjectsIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	result := validation.New().WithClock(ctx.Now).ValidateTasks(tasks, projects)
	if result.HasConflicts() {
		return warnf("%d conflict(s) found (run 'taskline validate' for details)", len(result.Conflicts))
	}
	return nil
}

// checkTimeEntries looks for entries pointing at unknown tasks and for more than one running timer.
func checkTimeEntries(ctx *cli.Context) error {
	entries, err := ctx.Store.GetTimeEntries()
	if err != nil {
		return fmt.Errorf("failed to load time entries: %w", err)
	}
	tasks, err := ctx.Store.GetAllTasksIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
	}

	orphaned, running := 0, 0
	for _, e := range entries {
		if !known[e.TaskID] {
			orphaned++
		}
		if e.Running() {
			running++
		}
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d time entries referencing missing tasks", orphaned)
	}
	if running > 1 {
		return fmt.Errorf("found %d running timers, expected at most one", running)
	}
	return nil
}

// checkMilestones warns about milestones whose project no longer exists or is deleted.
func checkMilestones(ctx *cli.Context) error {
	milestones, err := ctx.Store.GetAllMilestones()
	if err != nil {
		return fmt.Errorf("failed to load milestones: %w", err)
	}
	projects, err := ctx.Store.GetAllProjects()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	live := make(map[string]bool, len(projects))
	for _, p := range projects {
		live[p.ID] = true
	}
	stranded := 0
	for _, m := range milestones {
		if !live[m.ProjectID] {
			stranded++
		}
	}
	if stranded > 0 {
		return warnf("%d milestone(s) belong to missing or deleted projects", stranded)
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil || len(ctx.Config.Warnings) == 0 {
		return nil
	}
	return warnf("%d unknown key(s) in %s: %v", len(ctx.Config.Warnings), ctx.ConfigPath, ctx.Config.Warnings)
}

func checkClockTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return fmt.Errorf("stored timezone is invalid: %w", err)
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
