package tasks

import (
	"bytes"
	"errors"
	"os"
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

var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx, err := cli.NewContext(store, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Err = &bytes.Buffer{}
	ctx.Location = time.UTC
	ctx.Clock = func() time.Time { return testNow }
	return ctx, out
}

func addProject(t *testing.T, ctx *cli.Context, name string) models.Project {
	t.Helper()
	p := models.Project{ID: "proj-" + strings.ToLower(name), Name: name, Status: models.ProjectActive, CreatedAt: testNow}
	if err := ctx.Store.AddProject(p); err != nil {
		t.Fatalf("failed to add project: %v", err)
	}
	return p
}

func onlyTask(t *testing.T, ctx *cli.Context) models.Task {
	t.Helper()
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	return tasks[0]
}

func TestTaskAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	project := addProject(t, ctx, "Website")

	est := 12.0
	cmd := &TaskAddCmd{Title: "Design mockups", Project: "web", Due: "+5d", Estimate: &est, Priority: "high", Status: "todo"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added task: Design mockups") {
		t.Errorf("unexpected output: %s", out.String())
	}

	task := onlyTask(t, ctx)
	if task.ProjectID != project.ID {
		t.Errorf("expected project %s, got %s", project.ID, task.ProjectID)
	}
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2024-05-20" {
		t.Errorf("unexpected due date %v", task.DueDate)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("expected high priority, got %s", task.Priority)
	}
}

func TestTaskAddCmdUsesDefaultProject(t *testing.T) {
	ctx, _ := setupTestDB(t)
	project := addProject(t, ctx, "Inbox")
	if err := ctx.Store.SaveSettings(models.Settings{Timezone: "UTC", DefaultProject: "Inbox"}); err != nil {
		t.Fatal(err)
	}

	if err := (&TaskAddCmd{Title: "Triage", Priority: "medium", Status: "todo"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := onlyTask(t, ctx).ProjectID; got != project.ID {
		t.Errorf("expected default project, got %q", got)
	}
}

func TestTaskAddCmdRejectsInvalidInput(t *testing.T) {
	ctx, _ := setupTestDB(t)
	neg := -1.0

	tests := []struct {
		name string
		cmd  TaskAddCmd
	}{
		{"bad priority", TaskAddCmd{Title: "x", Priority: "critical", Status: "todo"}},
		{"bad status", TaskAddCmd{Title: "x", Priority: "low", Status: "done"}},
		{"bad date", TaskAddCmd{Title: "x", Priority: "low", Status: "todo", Due: "next week"}},
		{"negative estimate", TaskAddCmd{Title: "x", Priority: "low", Status: "todo", Estimate: &neg}},
		{"blank title", TaskAddCmd{Title: "  ", Priority: "low", Status: "todo"}},
		{"unknown project", TaskAddCmd{Title: "x", Priority: "low", Status: "todo", Project: "nowhere"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTaskEditAndDone(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&TaskAddCmd{Title: "Write release notes", Priority: "low", Status: "todo"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	due := "2024-06-01"
	prio := "urgent"
	if err := (&TaskEditCmd{Task: "release", Due: &due, Priority: &prio}).Run(ctx); err != nil {
		t.Fatalf("task edit failed: %v", err)
	}
	task := onlyTask(t, ctx)
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != due {
		t.Errorf("due date not updated: %v", task.DueDate)
	}
	if task.Priority != models.PriorityUrgent {
		t.Errorf("priority not updated: %s", task.Priority)
	}

	if err := (&TaskDoneCmd{Task: task.ID[:8]}).Run(ctx); err != nil {
		t.Fatalf("task done failed: %v", err)
	}
	task = onlyTask(t, ctx)
	if task.Status != models.StatusCompleted || task.CompletedAt == nil {
		t.Errorf("expected completed task, got %s / %v", task.Status, task.CompletedAt)
	}

	if err := (&TaskDoneCmd{Task: task.ID, Undo: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if task = onlyTask(t, ctx); task.Status != models.StatusTodo || task.CompletedAt != nil {
		t.Errorf("expected reopened task, got %s / %v", task.Status, task.CompletedAt)
	}
}

func TestTaskDeleteAndRestore(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&TaskAddCmd{Title: "Temporary", Priority: "low", Status: "todo"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	id := onlyTask(t, ctx).ID

	if err := (&TaskDeleteCmd{Task: "Temporary"}).Run(ctx); err != nil {
		t.Fatalf("task delete failed: %v", err)
	}
	if _, err := ctx.Store.GetTask(id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected deleted task to be hidden, got %v", err)
	}

	if err := (&TaskRestoreCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("task restore failed: %v", err)
	}
	if _, err := ctx.Store.GetTask(id); err != nil {
		t.Errorf("restored task not found: %v", err)
	}
}

func TestTaskListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addProject(t, ctx, "Website")

	for _, cmd := range []TaskAddCmd{
		{Title: "Overdue thing", Due: "2024-05-10", Priority: "urgent", Status: "todo"},
		{Title: "Next up", Due: "tomorrow", Project: "Website", Priority: "medium", Status: "in_progress"},
		{Title: "Finished", Due: "2024-05-01", Priority: "low", Status: "completed"},
		{Title: "Someday", Priority: "low", Status: "todo"},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	out.Reset()

	if err := (&TaskListCmd{Sort: "due"}).Run(ctx); err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"[todo] !! Overdue thing (due 2024-05-10, 5 days ago)", "[in progress] Next up (due 2024-05-16, tomorrow; Website)", "[todo] Someday"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Finished") {
		t.Errorf("completed task should be hidden:\n%s", got)
	}
	if strings.Index(got, "Overdue thing") > strings.Index(got, "Someday") {
		t.Errorf("undated tasks should sort last:\n%s", got)
	}

	out.Reset()
	if err := (&TaskListCmd{All: true, Overdue: true, Sort: "due"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); !strings.Contains(got, "Overdue thing") || strings.Contains(got, "Next up") {
		t.Errorf("overdue filter wrong:\n%s", got)
	}

	out.Reset()
	if err := (&TaskListCmd{Project: "Website", ShowIDs: true, Sort: "title"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); !strings.Contains(got, "Next up") || !strings.Contains(got, "[ID: ") || strings.Contains(got, "Someday") {
		t.Errorf("project filter wrong:\n%s", got)
	}
}

func TestTaskListCmdTagFilter(t *testing.T) {
	ctx, out := setupTestDB(t)
	for _, title := range []string{"Tagged", "Plain"} {
		if err := (&TaskAddCmd{Title: title, Priority: "medium", Status: "todo"}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Store.AddTag(models.Tag{ID: "g1", Name: "urgent-fix", CreatedAt: testNow}); err != nil {
		t.Fatal(err)
	}
	for _, task := range tasks {
		if task.Title == "Tagged" {
			if err := ctx.Store.TagTask(task.ID, "g1"); err != nil {
				t.Fatal(err)
			}
		}
	}

	out.Reset()
	if err := (&TaskListCmd{Tag: "urgent-fix", Sort: "title"}).Run(ctx); err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Tagged") || strings.Contains(got, "Plain") {
		t.Errorf("tag filter wrong:\n%s", got)
	}

	if err := (&TaskListCmd{Tag: "nope", Sort: "due"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown tag error = %v, want ErrNotFound", err)
	}
}

func TestRelativeDue(t *testing.T) {
	tests := []struct {
		due  time.Time
		want string
	}{
		{time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), "today"},
		{time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC), "tomorrow"},
		{time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), "yesterday"},
		{time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC), "3 days from now"},
		{time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), "3 days ago"},
	}
	for _, tt := range tests {
		if got := RelativeDue(tt.due, testNow); got != tt.want {
			t.Errorf("RelativeDue(%s) = %q, want %q", tt.due.Format("2006-01-02"), got, tt.want)
		}
	}
}

const importDoc = `
projects:
  - name: Launch
    status: active
    start: 2024-05-01
    end: 2024-06-30
tasks:
  - title: Press kit
    project: launch
    due: 2024-05-20
    estimate_hours: 6
  - title: Landing page
    project: Website
    priority: high
`

func TestImportCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addProject(t, ctx, "Website")

	path := filepath.Join(t.TempDir(), "import.yaml")
	if err := os.WriteFile(path, []byte(importDoc), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&ImportCmd{File: path, DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Would create 1 project(s) and 2 task(s)") {
		t.Errorf("unexpected dry run output: %s", out.String())
	}
	if tasks, _ := ctx.Store.GetAllTasks(); len(tasks) != 0 {
		t.Fatalf("dry run wrote %d tasks", len(tasks))
	}

	out.Reset()
	if err := (&ImportCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 1 project(s) and 2 task(s)") {
		t.Errorf("unexpected output: %s", out.String())
	}

	launch, err := ctx.Store.GetProjectByName("Launch")
	if err != nil {
		t.Fatal(err)
	}
	byProject, err := ctx.Store.GetTasksByProject(launch.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(byProject) != 1 || byProject[0].Title != "Press kit" {
		t.Errorf("unexpected tasks for imported project: %+v", byProject)
	}

	// importing again clashes with the project created above
	if err := (&ImportCmd{File: path}).Run(ctx); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected duplicate project error, got %v", err)
	}
}

func TestImportCmdStdin(t *testing.T) {
	ctx, out := setupTestDB(t)
	ctx.In = strings.NewReader("tasks:\n  - title: Solo\n")

	if err := (&ImportCmd{File: "-"}).Run(ctx); err != nil {
		t.Fatalf("import from stdin failed: %v", err)
	}
	if !strings.Contains(out.String(), "Imported 0 project(s) and 1 task(s)") {
		t.Errorf("unexpected output: %s", out.String())
	}
}
