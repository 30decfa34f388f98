package milestones

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

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, *bytes.Buffer) {
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
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	ctx.Out = out
	ctx.Err = errOut
	ctx.Location = time.UTC
	ctx.Clock = func() time.Time { return testNow }

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	project := models.Project{ID: "proj-web", Name: "Website", Status: models.ProjectActive, StartDate: &start, EndDate: &end, CreatedAt: testNow}
	if err := store.AddProject(project); err != nil {
		t.Fatal(err)
	}
	return ctx, out, errOut
}

func TestMilestoneAddAndList(t *testing.T) {
	ctx, out, errOut := setupTestDB(t)

	for _, cmd := range []MilestoneAddCmd{
		{Project: "Website", Name: "Launch", Target: "2024-06-28"},
		{Project: "Website", Name: "Design review", Target: "2024-05-10"},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("milestone add %q failed: %v", cmd.Name, err)
		}
	}
	if !strings.Contains(out.String(), "Added milestone: Launch on 2024-06-28") {
		t.Errorf("unexpected add output:\n%s", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected warning: %s", errOut.String())
	}

	out.Reset()
	if err := (&MilestoneListCmd{Project: "Website"}).Run(ctx); err != nil {
		t.Fatalf("milestone list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"[missed] 2024-05-10 - Design review (Website)", "[pending] 2024-06-28 - Launch (Website)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Design review") > strings.Index(got, "Launch") {
		t.Errorf("milestones should be ordered by target date:\n%s", got)
	}
}

func TestMilestoneAddValidation(t *testing.T) {
	ctx, _, errOut := setupTestDB(t)

	if err := (&MilestoneAddCmd{Project: "Website", Name: "Undated"}).Run(ctx); err == nil || !strings.Contains(err.Error(), "target date is required") {
		t.Errorf("expected missing target error, got %v", err)
	}
	if err := (&MilestoneAddCmd{Project: "Nowhere", Name: "x", Target: "2024-06-01"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected unknown project error, got %v", err)
	}

	if err := (&MilestoneAddCmd{Project: "Website", Name: "Aftercare", Target: "2024-08-01"}).Run(ctx); err != nil {
		t.Fatalf("milestone outside schedule should only warn: %v", err)
	}
	if !strings.Contains(errOut.String(), "falls outside project") {
		t.Errorf("expected schedule warning, got %q", errOut.String())
	}
}

func TestMilestoneDoneAndDelete(t *testing.T) {
	ctx, out, _ := setupTestDB(t)
	if err := (&MilestoneAddCmd{Project: "Website", Name: "Beta", Target: "2024-05-10"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&MilestoneDoneCmd{Milestone: "beta"}).Run(ctx); err != nil {
		t.Fatalf("milestone done failed: %v", err)
	}
	m, err := ctx.LookupMilestone("Beta")
	if err != nil {
		t.Fatal(err)
	}
	if m.Status != models.MilestoneCompleted || m.CompletedDate == nil || !m.CompletedDate.Equal(testNow) {
		t.Errorf("milestone after done = %+v", m)
	}

	out.Reset()
	if err := (&MilestoneDoneCmd{Milestone: "Beta"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "already completed") {
		t.Errorf("unexpected output: %s", out.String())
	}

	out.Reset()
	if err := (&MilestoneListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[completed] 2024-05-10 - Beta") {
		t.Errorf("completed milestone should not read as missed:\n%s", out.String())
	}

	if err := (&MilestoneDeleteCmd{Milestone: m.ID}).Run(ctx); err != nil {
		t.Fatalf("milestone delete failed: %v", err)
	}
	out.Reset()
	if err := (&MilestoneListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No milestones found") {
		t.Errorf("unexpected output after delete: %s", out.String())
	}
}
