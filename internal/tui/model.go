package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/taskline/internal/config"
	"github.com/julianstephens/taskline/internal/models"
	"github.com/julianstephens/taskline/internal/render"
	"github.com/julianstephens/taskline/internal/storage"
	"github.com/julianstephens/taskline/internal/timeline"
	"github.com/julianstephens/taskline/internal/tui/components/gantt"
	"github.com/julianstephens/taskline/internal/tui/components/tasklist"
	"github.com/julianstephens/taskline/internal/utils"
	"github.com/julianstephens/taskline/internal/validation"
)

type SessionState int

const (
	StateGantt SessionState = iota
	StateTasks
	StateAdding
	StateConfirmDelete
)

const (
	tabCount = 2
	panDays  = 7
)

type TaskFormModel struct {
	Title    string
	Due      string
	Estimate string
	Priority string
}

// Options wires the model to its data.
type Options struct {
	Store   storage.Provider
	Engine  *timeline.Engine
	Display config.DisplayConfig
	Now     func() time.Time
	// Load returns the tasks to chart, in row order. Nil means every live task.
	Load func() ([]models.Task, error)
	// LoadMilestones returns the milestones to mark on the chart. Nil means none.
	LoadMilestones func() ([]models.Milestone, error)
}

type Model struct {
	opts              Options
	state             SessionState
	previousState     SessionState
	keys              KeyMap
	help              help.Model
	ganttModel        gantt.Model
	taskList          tasklist.Model
	form              *huh.Form
	taskForm          *TaskFormModel
	tasks             []models.Task
	bounds            timeline.Bounds
	taskToDeleteID    string
	statusMessage     string
	errMessage        string
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(opts Options) Model {
	if opts.Engine == nil {
		opts.Engine, _ = timeline.New(timeline.DefaultOptions())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Load == nil {
		store := opts.Store
		opts.Load = store.GetAllTasks
	}
	if opts.Display.NameWidth == 0 {
		opts.Display = config.Default().Display
	}

	m := Model{
		opts:       opts,
		state:      StateGantt,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		ganttModel: gantt.New(render.New(render.FromConfig(opts.Display), nil), 0, 0),
		taskList:   tasklist.New(nil, 0, 0),
	}
	m.reload()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateGantt:
		keys = append(keys, m.keys.Earlier, m.keys.Later, m.keys.Today, m.keys.Add)
	case StateTasks:
		keys = append(keys, m.keys.Add, m.keys.Delete, m.keys.Done)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Reload}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateGantt:
		navigation = append(navigation, m.keys.Earlier, m.keys.Later, m.keys.Today, m.keys.Fit)
		actions = []key.Binding{m.keys.Add}
	case StateTasks:
		actions = []key.Binding{m.keys.Add, m.keys.Delete, m.keys.Done}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.ganttModel.Init()
}

// State reports which screen is active.
func (m Model) State() SessionState {
	return m.state
}

// Window returns the date range currently on screen.
func (m Model) Window() (timeline.Window, bool) {
	l, ok := m.ganttModel.Layout()
	return l.Window, ok
}

func (m Model) now() time.Time {
	return m.opts.Now()
}

// reload re-reads the tasks and rebuilds the layout for the current bounds.
func (m *Model) reload() {
	tasks, err := m.opts.Load()
	if err != nil {
		m.errMessage = fmt.Sprintf("failed to load tasks: %v", err)
		return
	}
	layout, err := m.opts.Engine.Build(tasks, m.bounds, m.now())
	if err != nil {
		m.errMessage = fmt.Sprintf("failed to lay out chart: %v", err)
		return
	}
	if m.opts.LoadMilestones != nil {
		milestones, err := m.opts.LoadMilestones()
		if err != nil {
			m.errMessage = fmt.Sprintf("failed to load milestones: %v", err)
			return
		}
		layout.PlaceMilestones(milestones)
	}
	m.errMessage = ""
	m.tasks = tasks
	m.ganttModel.SetLayout(layout)
	m.taskList.SetTasks(tasks)
	m.updateValidationStatus()
}

// finishAction refreshes the view after a store write. A failed write stays on the
// status line even though the reload itself succeeds.
func (m *Model) finishAction(err error) {
	m.reload()
	if err != nil {
		m.statusMessage = ""
		m.errMessage = err.Error()
	}
}

func (m *Model) pan(days int) {
	l, ok := m.ganttModel.Layout()
	if !ok {
		return
	}
	m.bounds = timeline.Shifted(l.Window, days)
	m.reload()
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	projects, err := m.opts.Store.GetAllProjectsIncludingDeleted()
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	result := validation.New().WithClock(m.opts.Now).ValidateTasks(m.tasks, projects)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) startAdding() tea.Cmd {
	m.previousState = m.state
	m.state = StateAdding
	m.taskForm = &TaskFormModel{Priority: string(models.PriorityMedium)}
	now := m.now()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.taskForm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD, today, +3d").
				Value(&m.taskForm.Due).
				Validate(func(s string) error {
					_, err := utils.ParseRelativeDate(strings.TrimSpace(s), now)
					return err
				}),
			huh.NewInput().
				Title("Estimate (hours)").
				Value(&m.taskForm.Estimate).
				Validate(func(s string) error {
					_, err := parseEstimate(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Priority").
				Options(huh.NewOptions("low", "medium", "high", "urgent")...).
				Value(&m.taskForm.Priority),
		),
	)
	return m.form.Init()
}

func parseEstimate(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("estimate must be a non-negative number of hours")
	}
	return &v, nil
}

// createTask stores a task built from the add form.
func (m *Model) createTask(f TaskFormModel) error {
	now := m.now()
	due, err := utils.ParseRelativeDate(strings.TrimSpace(f.Due), now)
	if err != nil {
		return err
	}
	estimate, err := parseEstimate(f.Estimate)
	if err != nil {
		return err
	}
	priority, err := models.ParseTaskPriority(f.Priority)
	if err != nil {
		return err
	}

	task := models.Task{
		ID:             uuid.New().String(),
		Title:          strings.TrimSpace(f.Title),
		DueDate:        due,
		EstimatedHours: estimate,
		Status:         models.StatusTodo,
		Priority:       priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if settings, err := m.opts.Store.GetSettings(); err == nil && settings.DefaultProject != "" {
		if p, err := m.opts.Store.GetProjectByName(settings.DefaultProject); err == nil {
			task.ProjectID = p.ID
		}
	}
	if err := validation.ValidateTask(task); err != nil {
		return err
	}
	if err := m.opts.Store.AddTask(task); err != nil {
		return err
	}
	m.statusMessage = "Added " + task.Title
	return nil
}

func (m *Model) toggleDone(id string) error {
	task, err := m.opts.Store.GetTask(id)
	if err != nil {
		return err
	}
	if task.Status == models.StatusCompleted {
		task.SetStatus(models.StatusTodo, m.now())
		m.statusMessage = "Reopened " + task.Title
	} else {
		task.SetStatus(models.StatusCompleted, m.now())
		m.statusMessage = "Completed " + task.Title
	}
	return m.opts.Store.UpdateTask(task)
}

func (m *Model) deleteTask(id string) error {
	if err := m.opts.Store.DeleteTask(id); err != nil {
		return err
	}
	m.statusMessage = "Task deleted"
	return nil
}
