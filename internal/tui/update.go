package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/taskline/internal/timeline"
	"github.com/julianstephens/taskline/internal/tui/components/tasklist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		// tabs, status line and help take one row each
		h := size.Height - 3
		if h < 1 {
			h = 1
		}
		m.ganttModel.SetSize(size.Width-2, h)
		m.taskList.SetSize(size.Width-2, h)
		if m.form != nil {
			m.form = m.form.WithWidth(size.Width)
		}
		return m, nil
	}

	switch m.state {
	case StateAdding:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		return m, m.startAdding()
	case tasklist.DeleteTaskMsg:
		m.previousState = m.state
		m.state = StateConfirmDelete
		m.taskToDeleteID = msg.ID
		return m, nil
	case tasklist.ToggleDoneMsg:
		m.finishAction(m.toggleDone(msg.ID))
		return m, nil

	case tea.KeyMsg:
		if m.state == StateTasks && m.taskList.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			m.statusMessage = ""
			m.reload()
			return m, nil
		}

		if m.state == StateGantt {
			switch {
			case key.Matches(msg, m.keys.Earlier):
				m.pan(-panDays)
				return m, nil
			case key.Matches(msg, m.keys.Later):
				m.pan(panDays)
				return m, nil
			case key.Matches(msg, m.keys.Today):
				m.bounds = m.opts.Engine.Around(m.now())
				m.reload()
				return m, nil
			case key.Matches(msg, m.keys.Fit):
				m.bounds = timeline.Bounds{}
				m.reload()
				return m, nil
			case key.Matches(msg, m.keys.Add):
				return m, m.startAdding()
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateGantt:
		m.ganttModel, cmd = m.ganttModel.Update(msg)
	case StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		err := m.createTask(*m.taskForm)
		m.closeForm()
		m.finishAction(err)
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.taskForm = nil
	m.state = m.previousState
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		err := m.deleteTask(m.taskToDeleteID)
		m.taskToDeleteID = ""
		m.state = m.previousState
		m.finishAction(err)
	case "n", "N", "esc", "q":
		m.taskToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}
