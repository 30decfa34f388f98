package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/utils"
)

type TaskListCmd struct {
	Project string `short:"p" help:"Only tasks of this project (name or ID)."`
	Status  string `short:"s" help:"Only tasks with this status."`
	Tag     string `help:"Only tasks carrying this tag."`
	All     bool   `short:"a" help:"Include completed tasks."`
	Overdue bool   `help:"Only overdue tasks."`
	Deleted bool   `help:"Include deleted tasks."`
	ShowIDs bool   `help:"Show task IDs."`
	Sort    string `help:"Sort order (due|priority|title)." enum:"due,priority,title" default:"due"`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var (
		tasks []models.Task
		err   error
	)
	if c.Deleted {
		tasks, err = ctx.Store.GetAllTasksIncludingDeleted()
	} else {
		tasks, err = ctx.Store.GetAllTasks()
	}
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	projects, err := ctx.Store.GetAllProjectsIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	var projectID string
	if c.Project != "" {
		p, err := cli.FindProject(projects, c.Project)
		if err != nil {
			return fmt.Errorf("failed to find project: %w", err)
		}
		projectID = p.ID
	}
	var status models.TaskStatus
	if c.Status != "" {
		if status, err = models.ParseTaskStatus(c.Status); err != nil {
			return err
		}
	}

	var tagged map[string]bool
	if c.Tag != "" {
		tag, err := ctx.Store.GetTagByName(c.Tag)
		if err != nil {
			return fmt.Errorf("failed to find tag: %w", err)
		}
		ids, err := ctx.Store.GetTaskIDsByTag(tag.ID)
		if err != nil {
			return fmt.Errorf("failed to load tagged tasks: %w", err)
		}
		tagged = make(map[string]bool, len(ids))
		for _, id := range ids {
			tagged[id] = true
		}
	}

	now := ctx.Now()
	var shown []models.Task
	for _, t := range tasks {
		switch {
		case projectID != "" && t.ProjectID != projectID:
			continue
		case status != "" && t.Status != status:
			continue
		case tagged != nil && !tagged[t.ID]:
			continue
		case status == "" && !c.All && !t.IsOpen():
			continue
		case c.Overdue && !t.IsOverdue(now):
			continue
		}
		shown = append(shown, t)
	}

	if len(shown) == 0 {
		ctx.Println("No tasks found")
		return nil
	}

	SortTasks(shown, c.Sort)

	ctx.Println("Tasks:")
	for _, t := range shown {
		ctx.Printf("  %s\n", c.formatTask(t, names, now))
	}
	return nil
}

func (c *TaskListCmd) formatTask(t models.Task, projects map[string]string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s%s", t.Status.Label(), priorityMarker(t.Priority), t.Title)

	var details []string
	if t.DueDate != nil {
		details = append(details, fmt.Sprintf("due %s, %s", t.DueDate.In(now.Location()).Format(constants.DateFormat), RelativeDue(*t.DueDate, now)))
	}
	if t.EstimatedHours != nil {
		details = append(details, humanize.FtoaWithDigits(*t.EstimatedHours, 1)+"h")
	}
	if name, ok := projects[t.ProjectID]; ok {
		details = append(details, name)
	}
	if t.DeletedAt != nil {
		details = append(details, "deleted")
	}
	if len(details) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(details, "; "))
	}
	if c.ShowIDs {
		fmt.Fprintf(&b, " [ID: %s]", t.ID)
	}
	return b.String()
}

func priorityMarker(p models.TaskPriority) string {
	switch p {
	case models.PriorityUrgent:
		return "!! "
	case models.PriorityHigh:
		return "! "
	}
	return ""
}

// RelativeDue describes a due date relative to now's calendar day, e.g. "tomorrow" or "3 days ago".
func RelativeDue(due, now time.Time) string {
	due = utils.StartOfDay(due.In(now.Location()))
	today := utils.StartOfDay(now)
	switch utils.DaysBetween(today, due) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	return humanize.RelTime(due, today, "ago", "from now")
}

// SortTasks orders tasks in place. "due" puts undated tasks last and breaks ties by
// descending priority.
func SortTasks(tasks []models.Task, by string) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch by {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "priority":
			if a.Priority.Rank() != b.Priority.Rank() {
				return a.Priority.Rank() > b.Priority.Rank()
			}
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Priority.Rank() > b.Priority.Rank()
	})
}
