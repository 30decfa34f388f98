package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/report"
	"github.com/julianstephens/taskline/internal/timeline"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": FormatText, " CSV ": FormatCSV, "Json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"name", "note"}, [][]string{
		{"plain", "a, b"},
		{`say "hi"`, "line1\nline2"},
	})
	require.NoError(t, err)

	want := "name,note\nplain,\"a, b\"\n\"say \"\"hi\"\"\",\"line1\nline2\"\n"
	assert.Equal(t, want, buf.String())

	// round-trips through a CSV reader
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `say "hi"`, records[2][0])
}

func TestWriteCSVErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV(&buf, []string{"a"}, nil), ErrNoData)
	assert.Error(t, WriteCSV(&buf, []string{"a", "b"}, [][]string{{"only one"}}))
}

func TestProjectStatusCSV(t *testing.T) {
	ten, late := 10, -3
	statuses := []report.ProjectStatus{
		{
			Project:           models.Project{Name: "Website", Status: models.ProjectActive},
			TotalTasks:        4,
			CompletedTasks:    1,
			CompletionPercent: 25,
			MinutesLogged:     90,
			EstimatedHours:    24,
			DaysRemaining:     &ten,
			TimelineProgress:  33.333,
		},
		{Project: models.Project{Name: "Late", Status: models.ProjectOnHold}, DaysRemaining: &late},
		{Project: models.Project{Name: "Open", Status: models.ProjectPlanning}},
	}

	var buf bytes.Buffer
	require.NoError(t, ProjectStatusCSV(&buf, statuses))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, projectStatusHeaders, records[0])
	assert.Equal(t, []string{"Website", "active", "25.0%", "1", "4", "1.5h", "24.0h", "10 days", "33.3%"}, records[1])
	assert.Equal(t, "Overdue", records[2][7])
	assert.Equal(t, "", records[3][7])
}

func TestTaskStatsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TaskStatsCSV(&buf, report.TaskStats{TotalTasks: 8, OverdueTasks: 2, AvgEstimatedHours: 6.3, CompletionRate: 50}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Metric,Value\n"))
	assert.Contains(t, out, "Total Tasks,8\n")
	assert.Contains(t, out, "Overdue Tasks,2\n")
	assert.Contains(t, out, "Average Estimated Hours,6.3h\n")
	assert.Contains(t, out, "Completion Rate,50.0%\n")
}

func TestProductivityCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ProductivityCSV(&buf, []report.Productivity{
		{Project: models.Project{Name: "Web"}, MinutesLogged: 120, EstimatedHours: 8, ProductivityPercent: 25, TasksCompleted: 3},
	}))
	assert.Equal(t, "Project,Hours Logged,Estimated Hours,Productivity %,Tasks Completed\nWeb,2.0h,8.0h,25.0%,3\n", buf.String())
}

func sampleLayout(t *testing.T) timeline.Layout {
	t.Helper()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	est := 16.0
	tasks := []models.Task{
		{ID: "a", Title: "Ship, then celebrate", Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: &due, EstimatedHours: &est},
		{ID: "b", Title: "Someday", Status: models.StatusTodo, Priority: models.PriorityLow},
	}
	l, err := timeline.Build(tasks, timeline.Bounds{}, now)
	require.NoError(t, err)
	return l
}

func TestLayoutCSV(t *testing.T) {
	l := sampleLayout(t)

	var buf bytes.Buffer
	require.NoError(t, LayoutCSV(&buf, l))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, layoutHeaders, records[0])
	assert.Equal(t, "Ship, then celebrate", records[1][1])
	assert.Equal(t, "2024-01-20", records[1][5])
	assert.Equal(t, "16", records[1][6])
	assert.Equal(t, raw(l.Bars[0].Position.LeftPercent), records[1][7])
	assert.Equal(t, raw(l.Bars[0].Position.WidthPercent), records[1][8])

	// task without a due date keeps its row with zero position
	assert.Equal(t, []string{"b", "Someday", "", "todo", "low", "", "", "0", "0"}, records[2])
}

func TestLayoutCSVEmpty(t *testing.T) {
	l, err := timeline.Build(nil, timeline.Bounds{}, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, LayoutCSV(&buf, l))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{layoutHeaders}, records)
}

func TestLayoutJSON(t *testing.T) {
	l := sampleLayout(t)

	var buf bytes.Buffer
	require.NoError(t, LayoutJSON(&buf, l))

	var doc layoutDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, l.Window.Start.Format("2006-01-02"), doc.Window.Start)
	assert.Equal(t, l.TotalDays, doc.TotalDays)
	assert.Len(t, doc.Days, l.TotalDays)
	require.Len(t, doc.Bars, 2)
	assert.True(t, doc.Bars[0].Visible)
	assert.Equal(t, l.Bars[0].Position.LeftPercent, doc.Bars[0].LeftPercent)
	assert.False(t, doc.Bars[1].Visible)
	assert.Empty(t, doc.Bars[1].DueDate)
	assert.Empty(t, doc.Milestones)
	assert.NotContains(t, buf.String(), `"milestones"`)
}

func TestLayoutJSONMilestones(t *testing.T) {
	l := sampleLayout(t)
	target := l.Window.Start.AddDate(0, 0, 2)
	l.PlaceMilestones([]models.Milestone{{ID: "m1", Name: "Beta", TargetDate: target, Status: models.MilestonePending}})

	var buf bytes.Buffer
	require.NoError(t, LayoutJSON(&buf, l))

	var doc layoutDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Milestones, 1)
	assert.Equal(t, "m1", doc.Milestones[0].MilestoneID)
	assert.Equal(t, "pending", doc.Milestones[0].Status)
	assert.Equal(t, target.Format("2006-01-02"), doc.Milestones[0].TargetDate)
	assert.InDelta(t, 2.0/float64(l.TotalDays)*100, doc.Milestones[0].LeftPercent, 1e-9)
}
