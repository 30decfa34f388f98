package cli

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/storage"
)

// minPrefix is the shortest ID prefix accepted as a reference.
const minPrefix = 4

// FindTask resolves ref against tasks: an exact ID, a unique ID prefix, an exact title
// (case-insensitive), then the best fuzzy title match.
func FindTask(tasks []models.Task, ref string) (models.Task, error) {
	ids := make([]string, len(tasks))
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		titles[i] = t.Title
	}
	i, err := resolve(ids, titles, ref, "task")
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}

// FindProject resolves ref the same way as FindTask, matching on project names.
func FindProject(projects []models.Project, ref string) (models.Project, error) {
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		names[i] = p.Name
	}
	i, err := resolve(ids, names, ref, "project")
	if err != nil {
		return models.Project{}, err
	}
	return projects[i], nil
}

// FindMilestone resolves ref the same way as FindTask, matching on milestone names.
func FindMilestone(milestones []models.Milestone, ref string) (models.Milestone, error) {
	ids := make([]string, len(milestones))
	names := make([]string, len(milestones))
	for i, m := range milestones {
		ids[i] = m.ID
		names[i] = m.Name
	}
	i, err := resolve(ids, names, ref, "milestone")
	if err != nil {
		return models.Milestone{}, err
	}
	return milestones[i], nil
}

func resolve(ids, labels []string, ref, kind string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("%s reference cannot be empty", kind)
	}

	for i, id := range ids {
		if id == ref {
			return i, nil
		}
	}

	if len(ref) >= minPrefix {
		match := -1
		for i, id := range ids {
			if strings.HasPrefix(id, ref) {
				if match >= 0 {
					return -1, fmt.Errorf("ambiguous %s ID prefix %q", kind, ref)
				}
				match = i
			}
		}
		if match >= 0 {
			return match, nil
		}
	}

	exact := -1
	for i, l := range labels {
		if strings.EqualFold(l, ref) {
			if exact >= 0 {
				return -1, fmt.Errorf("more than one %s is named %q; use the ID", kind, ref)
			}
			exact = i
		}
	}
	if exact >= 0 {
		return exact, nil
	}

	matches := fuzzy.Find(ref, labels)
	switch {
	case len(matches) == 0:
		return -1, fmt.Errorf("%s %q: %w", kind, ref, storage.ErrNotFound)
	case len(matches) > 1 && matches[0].Score == matches[1].Score:
		var names []string
		for _, m := range matches {
			if m.Score != matches[0].Score {
				break
			}
			names = append(names, fmt.Sprintf("%q", m.Str))
		}
		return -1, fmt.Errorf("%s %q is ambiguous: matches %s", kind, ref, strings.Join(names, ", "))
	}
	return matches[0].Index, nil
}

// LookupTask loads the active tasks and resolves ref among them.
func (c *Context) LookupTask(ref string) (models.Task, error) {
	tasks, err := c.Store.GetAllTasks()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	return FindTask(tasks, ref)
}

// LookupProject loads the active projects and resolves ref among them.
func (c *Context) LookupProject(ref string) (models.Project, error) {
	projects, err := c.Store.GetAllProjects()
	if err != nil {
		return models.Project{}, fmt.Errorf("failed to load projects: %w", err)
	}
	return FindProject(projects, ref)
}

// LookupMilestone resolves ref among all milestones.
func (c *Context) LookupMilestone(ref string) (models.Milestone, error) {
	milestones, err := c.Store.GetAllMilestones()
	if err != nil {
		return models.Milestone{}, fmt.Errorf("failed to load milestones: %w", err)
	}
	return FindMilestone(milestones, ref)
}
