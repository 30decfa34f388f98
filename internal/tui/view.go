package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskline/internal/tui/components/tasklist"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateGantt:
		content = docStyle.Render(m.ganttModel.View())
	case StateTasks:
		content = docStyle.Render(m.taskList.View())
	case StateAdding:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= tabCount {
		active = m.previousState
	}
	var tabs []string
	for i, title := range []string{"Timeline", "Tasks"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.errMessage != "" {
		return dangerStyle.Render("Error: " + m.errMessage)
	}
	var parts []string
	if m.statusMessage != "" {
		parts = append(parts, m.statusMessage)
	}
	if overdue := tasklist.Overdue(m.tasks, m.now()); overdue != "" {
		parts = append(parts, overdue)
	}
	line := statusStyle.Render(strings.Join(parts, " · "))
	if m.validationWarning != "" {
		line += " " + warningStyle.Render(m.validationWarning)
	}
	return line
}

func (m Model) viewConfirmDelete() string {
	title := m.taskToDeleteID
	for _, t := range m.tasks {
		if t.ID == m.taskToDeleteID {
			title = t.Title
			break
		}
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+title+"\"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
