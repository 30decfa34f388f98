package tags

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
	ctx.Err = &bytes.Buffer{}
	ctx.Location = time.UTC
	ctx.Clock = func() time.Time { return testNow }

	task := models.Task{ID: "t1", Title: "Write copy", Status: models.StatusTodo, Priority: models.PriorityMedium, CreatedAt: testNow, UpdatedAt: testNow}
	if err := store.AddTask(task); err != nil {
		t.Fatal(err)
	}
	return ctx, out
}

func TestTagAddAndList(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&TagAddCmd{Name: "frontend", Color: "#3b82f6", Category: "area", Description: "UI work"}).Run(ctx); err != nil {
		t.Fatalf("tag add failed: %v", err)
	}
	if err := (&TagAddCmd{Name: "Frontend"}).Run(ctx); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected duplicate tag to be rejected, got %v", err)
	}
	if err := (&TagAddCmd{Name: "bad tag"}).Run(ctx); err == nil {
		t.Error("expected tag with a space to be rejected")
	}
	if err := (&TagAddCmd{Name: "x", Color: "magenta"}).Run(ctx); err == nil {
		t.Error("expected invalid color to be rejected")
	}

	out.Reset()
	if err := (&TagListCmd{}).Run(ctx); err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	if !strings.Contains(out.String(), "frontend - 0 task(s) [area]: UI work") {
		t.Errorf("unexpected list output:\n%s", out.String())
	}
}

func TestTaskTagAndUntag(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&TagAddCmd{Name: "frontend"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&TaskTagCmd{Task: "Write copy", Tags: []string{"frontend", "content"}}).Run(ctx); err != nil {
		t.Fatalf("task tag failed: %v", err)
	}
	if !strings.Contains(out.String(), "Task Write copy tagged: content, frontend") {
		t.Errorf("unexpected tag output: %s", out.String())
	}
	if _, err := ctx.Store.GetTagByName("content"); err != nil {
		t.Errorf("unknown tag should be created on tagging: %v", err)
	}

	out.Reset()
	if err := (&TaskUntagCmd{Task: "t1", Tags: []string{"frontend"}}).Run(ctx); err != nil {
		t.Fatalf("task untag failed: %v", err)
	}
	if !strings.Contains(out.String(), "tagged: content") || strings.Contains(out.String(), "frontend") {
		t.Errorf("unexpected untag output: %s", out.String())
	}

	if err := (&TaskUntagCmd{Task: "t1", Tags: []string{"missing"}}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("untag with unknown tag error = %v, want ErrNotFound", err)
	}
}

func TestTagDelete(t *testing.T) {
	ctx, out := setupTestDB(t)
	if err := (&TaskTagCmd{Task: "t1", Tags: []string{"content"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&TagDeleteCmd{Name: "content"}).Run(ctx); err != nil {
		t.Fatalf("tag delete failed: %v", err)
	}
	tags, err := ctx.Store.GetTagsForTask("t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 0 {
		t.Errorf("task still tagged after delete: %+v", tags)
	}

	out.Reset()
	if err := (&TagListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No tags found") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if err := (&TagDeleteCmd{Name: "content"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
