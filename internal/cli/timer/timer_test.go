package timer

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/storage/sqlite"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, *clock) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, err := cli.NewContext(store, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	clk := &clock{now: time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)}
	ctx.Out = out
	ctx.Location = time.UTC
	ctx.Clock = clk.Now

	task := models.Task{ID: "task-1", Title: "Write report", Status: models.StatusTodo, Priority: models.PriorityMedium,
		CreatedAt: clk.now, UpdatedAt: clk.now}
	if err := store.AddTask(task); err != nil {
		t.Fatal(err)
	}
	return ctx, out, clk
}

func TestTimerStartStop(t *testing.T) {
	ctx, out, clk := setupTestDB(t)

	if err := (&TimerStartCmd{Task: "report"}).Run(ctx); err != nil {
		t.Fatalf("timer start failed: %v", err)
	}
	task, _ := ctx.Store.GetTask("task-1")
	if task.Status != models.StatusInProgress {
		t.Errorf("expected task in progress, got %s", task.Status)
	}

	err := (&TimerStartCmd{Task: "report"}).Run(ctx)
	if !errors.Is(err, storage.ErrTimerActive) {
		t.Errorf("expected ErrTimerActive, got %v", err)
	}

	clk.now = clk.now.Add(95 * time.Minute)
	out.Reset()
	if err := (&TimerStatusCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Tracking Write report since 09:00") || !strings.Contains(out.String(), "1h 35m") {
		t.Errorf("unexpected status: %s", out.String())
	}

	out.Reset()
	if err := (&TimerStopCmd{}).Run(ctx); err != nil {
		t.Fatalf("timer stop failed: %v", err)
	}
	if !strings.Contains(out.String(), "Timer stopped for Write report: 1h 35m") {
		t.Errorf("unexpected stop output: %s", out.String())
	}

	if err := (&TimerStopCmd{}).Run(ctx); !errors.Is(err, storage.ErrNoActiveTimer) {
		t.Errorf("expected ErrNoActiveTimer, got %v", err)
	}
}

func TestTimerLogAndList(t *testing.T) {
	ctx, out, _ := setupTestDB(t)

	if err := (&TimerLogCmd{Task: "task-1", Duration: 45 * time.Minute, Description: "outline", Billable: true}).Run(ctx); err != nil {
		t.Fatalf("timer log failed: %v", err)
	}
	if err := (&TimerLogCmd{Task: "task-1", Duration: 2 * time.Hour, Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("timer log failed: %v", err)
	}
	if err := (&TimerLogCmd{Task: "task-1", Duration: 30 * time.Second}).Run(ctx); err == nil {
		t.Error("expected sub-minute duration to be rejected")
	}

	entries, err := ctx.Store.GetTimeEntriesForTask("task-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// ordered by start time: yesterday 15:00-17:00 first
	if entries[0].StartTime.Format("2006-01-02 15:04") != "2024-05-14 15:00" || entries[0].DurationMin != 120 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}

	out.Reset()
	if err := (&TimerListCmd{Limit: 1}).Run(ctx); err != nil {
		t.Fatalf("timer list failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2024-05-15 08:15  45m      Write report - outline $") {
		t.Errorf("newest entry missing:\n%s", got)
	}
	if strings.Contains(got, "2024-05-14") {
		t.Errorf("limit not applied:\n%s", got)
	}
	if !strings.Contains(got, "Total: 2h 45m across 2 entries") {
		t.Errorf("total missing:\n%s", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	for m, want := range map[int]string{0: "0m", 45: "45m", 60: "1h 00m", 125: "2h 05m"} {
		if got := FormatMinutes(m); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", m, got, want)
		}
	}
}
