package projects

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage/sqlite"
)

var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
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
	ctx.Out = out
	ctx.Location = time.UTC
	ctx.Clock = func() time.Time { return testNow }
	return ctx, out
}

func TestProjectAddAndList(t *testing.T) {
	ctx, out := setupTestDB(t)

	cmd := &ProjectAddCmd{Name: "Website", Start: "2024-05-01", End: "2024-05-31", Status: "active"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("project add failed: %v", err)
	}
	if err := (&ProjectAddCmd{Name: "website", Status: "planning"}).Run(ctx); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
	if err := (&ProjectAddCmd{Name: "Backwards", Start: "2024-06-01", End: "2024-05-01", Status: "planning"}).Run(ctx); err == nil {
		t.Error("expected inverted schedule to be rejected")
	}

	out.Reset()
	if err := (&ProjectListCmd{}).Run(ctx); err != nil {
		t.Fatalf("project list failed: %v", err)
	}
	if !strings.Contains(out.String(), "[active] Website - 0/0 tasks done (2024-05-01 .. 2024-05-31)") {
		t.Errorf("unexpected list output:\n%s", out.String())
	}
}

func TestProjectShow(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&ProjectAddCmd{Name: "Website", Start: "2024-05-01", End: "2024-05-31", Status: "active"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	project, err := ctx.Store.GetProjectByName("Website")
	if err != nil {
		t.Fatal(err)
	}

	due := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	est := 4.0
	for i, status := range []models.TaskStatus{models.StatusCompleted, models.StatusTodo} {
		task := models.Task{ID: string(rune('a' + i)), ProjectID: project.ID, Title: "Task " + string(status), DueDate: &due,
			EstimatedHours: &est, Status: status, Priority: models.PriorityMedium, CreatedAt: testNow, UpdatedAt: testNow}
		if err := ctx.Store.AddTask(task); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := (&ProjectShowCmd{Project: "web"}).Run(ctx); err != nil {
		t.Fatalf("project show failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Website [active]",
		"Progress:   1/2 tasks (50%)",
		"Time:       0.0h logged / 8.0h estimated",
		"Deadline:   16 day(s) left",
		"[todo] Task todo (due 2024-05-20)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestProjectDeleteAndRestore(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&ProjectAddCmd{Name: "Website", Status: "active"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	project, _ := ctx.Store.GetProjectByName("Website")
	task := models.Task{ID: "t1", ProjectID: project.ID, Title: "Landing page", Status: models.StatusTodo,
		Priority: models.PriorityLow, CreatedAt: testNow, UpdatedAt: testNow}
	if err := ctx.Store.AddTask(task); err != nil {
		t.Fatal(err)
	}

	if err := (&ProjectDeleteCmd{Project: "Website"}).Run(ctx); err == nil {
		t.Fatal("expected delete to refuse a project with tasks")
	}
	if err := (&ProjectDeleteCmd{Project: "Website", WithTasks: true}).Run(ctx); err != nil {
		t.Fatalf("project delete failed: %v", err)
	}
	if projects, _ := ctx.Store.GetAllProjects(); len(projects) != 0 {
		t.Errorf("expected no live projects, got %d", len(projects))
	}
	if tasks, _ := ctx.Store.GetAllTasks(); len(tasks) != 0 {
		t.Errorf("expected project tasks deleted, got %d", len(tasks))
	}

	if err := (&ProjectRestoreCmd{ID: project.ID}).Run(ctx); err != nil {
		t.Fatalf("project restore failed: %v", err)
	}
	if _, err := ctx.Store.GetProject(project.ID); err != nil {
		t.Errorf("restored project not found: %v", err)
	}
}

func TestProjectEdit(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&ProjectAddCmd{Name: "Website", Status: "planning"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	status := "on-hold"
	end := "2024-07-01"
	if err := (&ProjectEditCmd{Project: "Website", Status: &status, End: &end}).Run(ctx); err != nil {
		t.Fatalf("project edit failed: %v", err)
	}
	p, _ := ctx.Store.GetProjectByName("Website")
	if p.Status != models.ProjectOnHold || p.EndDate == nil {
		t.Errorf("project not updated: %+v", p)
	}
}
