// Package report aggregates tasks, projects and logged time into status summaries.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/utils"
)

// ProjectStatus summarizes progress on one project.
type ProjectStatus struct {
	Project           models.Project
	TotalTasks        int
	CompletedTasks    int
	CompletionPercent float64
	MinutesLogged     int
	EstimatedHours    float64
	// DaysRemaining is nil when the project has no end date. Negative means overdue.
	DaysRemaining    *int
	TimelineProgress float64
}

// Overdue reports whether the project's end date has passed.
func (s ProjectStatus) Overdue() bool {
	return s.DaysRemaining != nil && *s.DaysRemaining < 0
}

// TaskStats summarizes a task list.
type TaskStats struct {
	TotalTasks        int
	CompletedTasks    int
	OverdueTasks      int
	AvgEstimatedHours float64
	AvgDaysToComplete float64
	CompletionRate    float64
}

// Productivity compares logged time against estimates for one project.
type Productivity struct {
	Project             models.Project
	MinutesLogged       int
	EstimatedHours      float64
	ProductivityPercent float64
	TasksCompleted      int
}

// minutesByTask sums closed entries per task. Running entries count up to now.
func minutesByTask(entries []models.TimeEntry, now time.Time) map[string]int {
	out := make(map[string]int)
	for _, e := range entries {
		if e.Running() {
			out[e.TaskID] += models.MinutesBetween(e.StartTime, now)
			continue
		}
		out[e.TaskID] += e.DurationMin
	}
	return out
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

// ProjectStatuses builds one status row per live project, ordered by name.
func ProjectStatuses(projects []models.Project, tasks []models.Task, entries []models.TimeEntry, now time.Time) []ProjectStatus {
	minutes := minutesByTask(entries, now)

	byProject := make(map[string][]models.Task)
	for _, t := range tasks {
		if t.DeletedAt != nil || t.ProjectID == "" {
			continue
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}

	var out []ProjectStatus
	for _, p := range projects {
		if p.DeletedAt != nil {
			continue
		}
		s := ProjectStatus{Project: p}
		for _, t := range byProject[p.ID] {
			s.TotalTasks++
			if t.Status == models.StatusCompleted {
				s.CompletedTasks++
			}
			if t.EstimatedHours != nil && *t.EstimatedHours > 0 {
				s.EstimatedHours += *t.EstimatedHours
			}
			s.MinutesLogged += minutes[t.ID]
		}
		s.CompletionPercent = percent(float64(s.CompletedTasks), float64(s.TotalTasks))

		if p.EndDate != nil {
			days := utils.DaysBetween(utils.StartOfDay(now), utils.StartOfDay(p.EndDate.In(now.Location())))
			s.DaysRemaining = &days
		}
		s.TimelineProgress = timelineProgress(p, now)
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Project.Name < out[j].Project.Name })
	return out
}

// timelineProgress is the share of the project's calendar span that has elapsed, in [0, 100].
func timelineProgress(p models.Project, now time.Time) float64 {
	if !p.HasSchedule() {
		return 0
	}
	start := utils.StartOfDay(p.StartDate.In(now.Location()))
	end := utils.StartOfDay(p.EndDate.In(now.Location()))
	today := utils.StartOfDay(now)

	total := utils.DaysBetween(start, end)
	if total <= 0 {
		if today.Before(start) {
			return 0
		}
		return 100
	}
	elapsed := utils.DaysBetween(start, today)
	return math.Max(0, math.Min(100, percent(float64(elapsed), float64(total))))
}

// Stats computes task statistics over live tasks.
func Stats(tasks []models.Task, now time.Time) TaskStats {
	var s TaskStats
	var estimateSum float64
	var estimated int
	var completeDays float64
	var completedWithDate int

	for _, t := range tasks {
		if t.DeletedAt != nil {
			continue
		}
		s.TotalTasks++
		if t.Status == models.StatusCompleted {
			s.CompletedTasks++
			if t.CompletedAt != nil && !t.CreatedAt.IsZero() {
				completeDays += t.CompletedAt.Sub(t.CreatedAt).Hours() / 24
				completedWithDate++
			}
		}
		if t.IsOverdue(now) {
			s.OverdueTasks++
		}
		if t.EstimatedHours != nil && *t.EstimatedHours > 0 {
			estimateSum += *t.EstimatedHours
			estimated++
		}
	}

	if estimated > 0 {
		s.AvgEstimatedHours = estimateSum / float64(estimated)
	}
	if completedWithDate > 0 {
		s.AvgDaysToComplete = completeDays / float64(completedWithDate)
	}
	s.CompletionRate = percent(float64(s.CompletedTasks), float64(s.TotalTasks))
	return s
}

// ProductivityByProject compares logged hours with estimates for each live project.
func ProductivityByProject(projects []models.Project, tasks []models.Task, entries []models.TimeEntry, now time.Time) []Productivity {
	statuses := ProjectStatuses(projects, tasks, entries, now)
	out := make([]Productivity, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Productivity{
			Project:             s.Project,
			MinutesLogged:       s.MinutesLogged,
			EstimatedHours:      s.EstimatedHours,
			ProductivityPercent: percent(float64(s.MinutesLogged)/60, s.EstimatedHours),
			TasksCompleted:      s.CompletedTasks,
		})
	}
	return out
}
