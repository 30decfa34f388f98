package timer

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/validation"
)

type TimerStartCmd struct {
	Task        string `arg:"" help:"Task ID, ID prefix or title."`
	Description string `short:"m" help:"What you are working on."`
}

func (c *TimerStartCmd) Run(ctx *cli.Context) error {
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	entry, err := ctx.Store.StartTimer(task.ID, c.Description, ctx.Now())
	if err != nil {
		if errors.Is(err, storage.ErrTimerActive) {
			if running, rerr := ctx.Store.GetActiveTimer(); rerr == nil {
				return fmt.Errorf("%w (started %s)", err, running.StartTime.In(ctx.Loc()).Format("15:04"))
			}
		}
		return fmt.Errorf("failed to start timer: %w", err)
	}

	// a task moves to in progress once work on it is logged
	if task.Status == models.StatusTodo {
		task.SetStatus(models.StatusInProgress, ctx.Now())
		if err := ctx.Store.UpdateTask(task); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
	}

	ctx.Printf("Timer started for %s at %s\n", task.Title, entry.StartTime.In(ctx.Loc()).Format("15:04"))
	return nil
}

type TimerStopCmd struct{}

func (c *TimerStopCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.StopTimer(ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to stop timer: %w", err)
	}

	title := entry.TaskID
	if task, err := ctx.Store.GetTask(entry.TaskID); err == nil {
		title = task.Title
	}
	ctx.Printf("Timer stopped for %s: %s\n", title, FormatMinutes(entry.DurationMin))
	return nil
}

type TimerStatusCmd struct{}

func (c *TimerStatusCmd) Run(ctx *cli.Context) error {
	entry, err := ctx.Store.GetActiveTimer()
	if errors.Is(err, storage.ErrNoActiveTimer) {
		ctx.Println("No timer is running")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read timer: %w", err)
	}

	title := entry.TaskID
	if task, err := ctx.Store.GetTask(entry.TaskID); err == nil {
		title = task.Title
	}
	now := ctx.Now()
	ctx.Printf("Tracking %s since %s (%s, %s)\n", title, entry.StartTime.In(ctx.Loc()).Format("15:04"),
		humanize.RelTime(entry.StartTime, now, "ago", "from now"),
		FormatMinutes(models.MinutesBetween(entry.StartTime, now)))
	return nil
}

type TimerLogCmd struct {
	Task        string        `arg:"" help:"Task ID, ID prefix or title."`
	Duration    time.Duration `arg:"" help:"Time spent, e.g. 45m or 1h30m."`
	Date        string        `short:"d" help:"Day the work happened (default today)."`
	Description string        `short:"m" help:"What was done."`
	Billable    bool          `help:"Mark the entry billable."`
}

func (c *TimerLogCmd) Run(ctx *cli.Context) error {
	if c.Duration < time.Minute {
		return fmt.Errorf("duration must be at least one minute, got %s", c.Duration)
	}
	task, err := ctx.LookupTask(c.Task)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}

	end := ctx.Now()
	if c.Date != "" {
		day, err := ctx.ParseDate(c.Date)
		if err != nil {
			return err
		}
		// manual entries for another day end at the close of the working day
		end = time.Date(day.Year(), day.Month(), day.Day(), 17, 0, 0, 0, day.Location())
	}
	entry := models.TimeEntry{
		ID:          uuid.New().String(),
		TaskID:      task.ID,
		StartTime:   end.Add(-c.Duration),
		Description: c.Description,
		Billable:    c.Billable,
	}
	entry.Stop(end)

	if err := validation.ValidateTimeEntry(entry); err != nil {
		return fmt.Errorf("invalid time entry: %w", err)
	}
	if err := ctx.Store.AddTimeEntry(entry); err != nil {
		return fmt.Errorf("failed to log time: %w", err)
	}

	ctx.Printf("Logged %s on %s\n", FormatMinutes(entry.DurationMin), task.Title)
	return nil
}

type TimerListCmd struct {
	Task  string `short:"t" help:"Only entries for this task."`
	Limit int    `short:"n" help:"Show at most this many entries (newest first)." default:"20"`
}

func (c *TimerListCmd) Run(ctx *cli.Context) error {
	var (
		entries []models.TimeEntry
		err     error
	)
	if c.Task != "" {
		task, lerr := ctx.LookupTask(c.Task)
		if lerr != nil {
			return fmt.Errorf("failed to find task: %w", lerr)
		}
		entries, err = ctx.Store.GetTimeEntriesForTask(task.ID)
	} else {
		entries, err = ctx.Store.GetTimeEntries()
	}
	if err != nil {
		return fmt.Errorf("failed to load time entries: %w", err)
	}
	if len(entries) == 0 {
		ctx.Println("No time entries found")
		return nil
	}

	tasks, err := ctx.Store.GetAllTasksIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	now := ctx.Now()
	total := 0
	shown := 0
	ctx.Println("Time entries:")
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		minutes := e.DurationMin
		if e.Running() {
			minutes = models.MinutesBetween(e.StartTime, now)
		}
		total += minutes
		if c.Limit > 0 && shown >= c.Limit {
			continue
		}
		shown++

		line := fmt.Sprintf("  %s  %-8s %s", e.StartTime.In(ctx.Loc()).Format("2006-01-02 15:04"), FormatMinutes(minutes), titles[e.TaskID])
		if e.Description != "" {
			line += " - " + e.Description
		}
		if e.Running() {
			line += " (running)"
		}
		if e.Billable {
			line += " $"
		}
		ctx.Println(line)
	}
	ctx.Printf("\nTotal: %s across %d entries\n", FormatMinutes(total), len(entries))
	return nil
}

// FormatMinutes renders a minute count as "1h 05m" or "45m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}
