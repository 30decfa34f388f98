package settings

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
	ctx.Location = time.UTC
	return ctx, out
}

func strPtr(s string) *string { return &s }

func TestSettingsCmd_List(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsCmd{List: true}).Run(ctx); err != nil {
		t.Fatalf("settings list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Timezone:", "Default Project:   (none)", "Padding:           7 day(s)", "Workday:           8h"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestSettingsCmd_UpdateTimezone(t *testing.T) {
	ctx, _ := setupTestDB(t)

	if err := (&SettingsCmd{Timezone: strPtr("Asia/Tokyo")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Timezone != "Asia/Tokyo" {
		t.Errorf("expected Asia/Tokyo, got %q", settings.Timezone)
	}

	if err := (&SettingsCmd{Timezone: strPtr("Mars/Olympus")}).Run(ctx); err == nil {
		t.Error("expected invalid timezone to be rejected")
	}
}

func TestSettingsCmd_DefaultProject(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := ctx.Store.AddProject(models.Project{ID: "p1", Name: "Inbox", Status: models.ProjectActive, CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	if err := (&SettingsCmd{DefaultProject: strPtr("inbox")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}
	settings, _ := ctx.Store.GetSettings()
	if settings.DefaultProject != "Inbox" {
		t.Errorf("expected canonical project name, got %q", settings.DefaultProject)
	}

	if err := (&SettingsCmd{DefaultProject: strPtr("")}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	settings, _ = ctx.Store.GetSettings()
	if settings.DefaultProject != "" {
		t.Errorf("expected default project cleared, got %q", settings.DefaultProject)
	}

	if err := (&SettingsCmd{DefaultProject: strPtr("Nowhere")}).Run(ctx); err == nil {
		t.Error("expected unknown project to be rejected")
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %s", out.String())
	}
}
