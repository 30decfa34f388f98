package milestones

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/cli"
	"github.com/julianstephens/taskline/internal/constants"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/validation"
)

type MilestoneAddCmd struct {
	Project     string `arg:"" help:"Project name or ID."`
	Name        string `arg:"" help:"Milestone name."`
	Target      string `short:"d" required:"" help:"Target date (YYYY-MM-DD, today, +Nd)."`
	Description string `short:"m" help:"Milestone description."`
}

func (c *MilestoneAddCmd) Run(ctx *cli.Context) error {
	project, err := ctx.LookupProject(c.Project)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}
	target, err := ctx.ParseDate(c.Target)
	if err != nil {
		return fmt.Errorf("invalid target date: %w", err)
	}

	m := models.Milestone{
		ID:          uuid.New().String(),
		ProjectID:   project.ID,
		Name:        c.Name,
		Description: c.Description,
		Status:      models.MilestonePending,
		CreatedAt:   ctx.Now(),
	}
	if target != nil {
		m.TargetDate = *target
	}
	if err := validation.ValidateMilestone(m); err != nil {
		return fmt.Errorf("invalid milestone: %w", err)
	}
	if project.HasSchedule() && (m.TargetDate.Before(*project.StartDate) || m.TargetDate.After(*project.EndDate)) {
		ctx.Warnf("milestone %q falls outside project %q (%s .. %s)", m.Name, project.Name,
			project.StartDate.Format(constants.DateFormat), project.EndDate.Format(constants.DateFormat))
	}

	if err := ctx.Store.AddMilestone(m); err != nil {
		return fmt.Errorf("failed to add milestone: %w", err)
	}
	ctx.Printf("Added milestone: %s on %s (ID: %s)\n", m.Name, m.TargetDate.Format(constants.DateFormat), m.ID)
	return nil
}

type MilestoneListCmd struct {
	Project string `short:"p" help:"Only milestones of this project (name or ID)."`
	ShowIDs bool   `help:"Show milestone IDs."`
}

func (c *MilestoneListCmd) Run(ctx *cli.Context) error {
	var (
		list []models.Milestone
		err  error
	)
	if c.Project != "" {
		project, perr := ctx.LookupProject(c.Project)
		if perr != nil {
			return fmt.Errorf("failed to find project: %w", perr)
		}
		list, err = ctx.Store.GetMilestonesByProject(project.ID)
	} else {
		list, err = ctx.Store.GetAllMilestones()
	}
	if err != nil {
		return fmt.Errorf("failed to load milestones: %w", err)
	}
	if len(list) == 0 {
		ctx.Println("No milestones found")
		return nil
	}

	projects, err := ctx.Store.GetAllProjectsIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	now := ctx.Now()
	ctx.Println("Milestones:")
	for _, m := range list {
		status := string(m.Status)
		if m.IsMissed(now) {
			status = "missed"
		}
		line := fmt.Sprintf("  [%s] %s - %s", status, m.TargetDate.In(ctx.Loc()).Format(constants.DateFormat), m.Name)
		if name, ok := names[m.ProjectID]; ok {
			line += fmt.Sprintf(" (%s)", name)
		}
		if c.ShowIDs {
			line += fmt.Sprintf(" [ID: %s]", m.ID)
		}
		ctx.Println(line)
	}
	return nil
}

type MilestoneDoneCmd struct {
	Milestone string `arg:"" help:"Milestone name or ID."`
}

func (c *MilestoneDoneCmd) Run(ctx *cli.Context) error {
	m, err := ctx.LookupMilestone(c.Milestone)
	if err != nil {
		return fmt.Errorf("failed to find milestone: %w", err)
	}
	if m.Status == models.MilestoneCompleted {
		ctx.Printf("Milestone already completed: %s\n", m.Name)
		return nil
	}
	m.Complete(ctx.Now())
	if err := ctx.Store.UpdateMilestone(m); err != nil {
		return fmt.Errorf("failed to update milestone: %w", err)
	}
	ctx.Printf("Milestone completed: %s\n", m.Name)
	return nil
}

type MilestoneDeleteCmd struct {
	Milestone string `arg:"" help:"Milestone name or ID."`
}

func (c *MilestoneDeleteCmd) Run(ctx *cli.Context) error {
	m, err := ctx.LookupMilestone(c.Milestone)
	if err != nil {
		return fmt.Errorf("failed to find milestone: %w", err)
	}
	if err := ctx.Store.DeleteMilestone(m.ID); err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	ctx.Printf("Deleted milestone: %s (ID: %s)\n", m.Name, m.ID)
	return nil
}
