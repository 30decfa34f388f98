package gantt

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskline/internal/render"
	"github.com/julianstephens/taskline/internal/timeline"
)

var summaryStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	Italic(true)

// Model shows a rendered chart in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	chart    *render.Chart
	layout   *timeline.Layout
	width    int
	height   int
}

func New(chart *render.Chart, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		chart:    chart,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.layout == nil {
		return "Loading..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetLayout(l timeline.Layout) {
	m.layout = &l
	m.Render()
}

// Layout returns the layout on screen, if any.
func (m Model) Layout() (timeline.Layout, bool) {
	if m.layout == nil {
		return timeline.Layout{}, false
	}
	return *m.layout, true
}

func (m *Model) Render() {
	if m.layout == nil {
		m.viewport.SetContent("")
		return
	}
	content := m.chart.Render(*m.layout)
	if len(m.layout.VisibleBars()) > 0 {
		content += "\n" + summaryStyle.Render(render.Summary(*m.layout))
	}
	m.viewport.SetContent(content)
}
