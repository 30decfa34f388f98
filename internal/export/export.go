// Package export writes layouts and reports as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/report"
	"github.com/julianstephens/taskline/internal/timeline"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrNoData is returned when there is nothing to export.
var ErrNoData = errors.New("no data to export")

// ParseFormat accepts text, csv or json (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected text|csv|json)", s)
}

// WriteCSV writes a header row followed by rows. Every row must have len(headers) fields.
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	return writeCSV(w, headers, rows)
}

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for i, row := range rows {
		if len(row) != len(headers) {
			return fmt.Errorf("row %d has %d fields, want %d", i+1, len(row), len(headers))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hoursFromMinutes(min int) string {
	return fixed(float64(min)/60) + "h"
}

var projectStatusHeaders = []string{
	"Project Name", "Status", "Completion %", "Completed Tasks", "Total Tasks",
	"Hours Logged", "Estimated Hours", "Days Remaining", "Timeline Progress",
}

// ProjectStatusCSV writes one row per project status.
func ProjectStatusCSV(w io.Writer, statuses []report.ProjectStatus) error {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{
			s.Project.Name,
			string(s.Project.Status),
			fixed(s.CompletionPercent) + "%",
			strconv.Itoa(s.CompletedTasks),
			strconv.Itoa(s.TotalTasks),
			hoursFromMinutes(s.MinutesLogged),
			fixed(s.EstimatedHours) + "h",
			daysRemaining(s),
			fixed(s.TimelineProgress) + "%",
		})
	}
	return WriteCSV(w, projectStatusHeaders, rows)
}

func daysRemaining(s report.ProjectStatus) string {
	switch {
	case s.DaysRemaining == nil:
		return ""
	case *s.DaysRemaining < 0:
		return "Overdue"
	case *s.DaysRemaining == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", *s.DaysRemaining)
	}
}

// TaskStatsCSV writes task statistics as Metric/Value rows.
func TaskStatsCSV(w io.Writer, s report.TaskStats) error {
	rows := [][]string{
		{"Total Tasks", strconv.Itoa(s.TotalTasks)},
		{"Completed Tasks", strconv.Itoa(s.CompletedTasks)},
		{"Overdue Tasks", strconv.Itoa(s.OverdueTasks)},
		{"Average Estimated Hours", fixed(s.AvgEstimatedHours) + "h"},
		{"Average Time to Complete", fixed(s.AvgDaysToComplete) + " days"},
		{"Completion Rate", fixed(s.CompletionRate) + "%"},
	}
	return WriteCSV(w, []string{"Metric", "Value"}, rows)
}

// ProductivityCSV writes logged versus estimated hours per project.
func ProductivityCSV(w io.Writer, rows []report.Productivity) error {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{
			p.Project.Name,
			hoursFromMinutes(p.MinutesLogged),
			fixed(p.EstimatedHours) + "h",
			fixed(p.ProductivityPercent) + "%",
			strconv.Itoa(p.TasksCompleted),
		})
	}
	return WriteCSV(w, []string{"Project", "Hours Logged", "Estimated Hours", "Productivity %", "Tasks Completed"}, out)
}

var layoutHeaders = []string{
	"task_id", "title", "project_id", "status", "priority", "due_date", "estimated_hours",
	"left_percent", "width_percent",
}

// LayoutCSV writes one row per bar. Percentages are written unrounded. An empty
// layout produces the header row alone.
func LayoutCSV(w io.Writer, l timeline.Layout) error {
	rows := make([][]string, 0, len(l.Bars))
	for _, b := range l.Bars {
		due := ""
		if b.Task.DueDate != nil {
			due = b.Task.DueDate.Format(constants.DateFormat)
		}
		estimate := ""
		if b.Task.EstimatedHours != nil {
			estimate = raw(*b.Task.EstimatedHours)
		}
		rows = append(rows, []string{
			b.Task.ID, b.Task.Title, b.Task.ProjectID, string(b.Task.Status), string(b.Task.Priority),
			due, estimate, raw(b.Position.LeftPercent), raw(b.Position.WidthPercent),
		})
	}
	return writeCSV(w, layoutHeaders, rows)
}

type layoutDoc struct {
	Window     windowDoc   `json:"window"`
	TotalDays  int         `json:"total_days"`
	Days       []dayDoc    `json:"days"`
	Bars       []barDoc    `json:"bars"`
	Milestones []markerDoc `json:"milestones,omitempty"`
}

type windowDoc struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type dayDoc struct {
	Date      string `json:"date"`
	IsWeekend bool   `json:"is_weekend"`
	IsToday   bool   `json:"is_today"`
}

type barDoc struct {
	TaskID       string   `json:"task_id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	DueDate      string   `json:"due_date,omitempty"`
	Estimate     *float64 `json:"estimated_hours,omitempty"`
	LeftPercent  float64  `json:"left_percent"`
	WidthPercent float64  `json:"width_percent"`
	Visible      bool     `json:"visible"`
}

type markerDoc struct {
	MilestoneID string  `json:"milestone_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	TargetDate  string  `json:"target_date"`
	LeftPercent float64 `json:"left_percent"`
}

// LayoutJSON writes the layout with dates as YYYY-MM-DD and unrounded percentages.
func LayoutJSON(w io.Writer, l timeline.Layout) error {
	doc := layoutDoc{
		Window: windowDoc{
			Start: l.Window.Start.Format(constants.DateFormat),
			End:   l.Window.End.Format(constants.DateFormat),
		},
		TotalDays: l.TotalDays,
		Days:      make([]dayDoc, 0, len(l.Days)),
		Bars:      make([]barDoc, 0, len(l.Bars)),
	}
	for _, d := range l.Days {
		doc.Days = append(doc.Days, dayDoc{Date: d.Date.Format(constants.DateFormat), IsWeekend: d.IsWeekend, IsToday: d.IsToday})
	}
	for _, b := range l.Bars {
		bar := barDoc{
			TaskID:       b.Task.ID,
			Title:        b.Task.Title,
			Status:       string(b.Task.Status),
			Priority:     string(b.Task.Priority),
			Estimate:     b.Task.EstimatedHours,
			LeftPercent:  b.Position.LeftPercent,
			WidthPercent: b.Position.WidthPercent,
			Visible:      b.Position.Visible(),
		}
		if b.Task.DueDate != nil {
			bar.DueDate = b.Task.DueDate.Format(constants.DateFormat)
		}
		doc.Bars = append(doc.Bars, bar)
	}
	for _, m := range l.Markers {
		doc.Milestones = append(doc.Milestones, markerDoc{
			MilestoneID: m.Milestone.ID,
			Name:        m.Milestone.Name,
			Status:      string(m.Milestone.Status),
			TargetDate:  m.Milestone.TargetDate.Format(constants.DateFormat),
			LeftPercent: m.LeftPercent,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
