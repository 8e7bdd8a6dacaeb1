package main

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// showMarkdown renders text as markdown in a fullscreen scrollable view
// and returns once the user dismisses it.
func showMarkdown(text string) error {
	p := tea.NewProgram(newPagerModel(text), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type pagerModel struct {
	raw      string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(raw string) pagerModel {
	return pagerModel{raw: raw}
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "home", "end", "j", "k", " ", "space":
			// Scrolling keys fall through to the viewport.
		default:
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-1)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 1
		}
		m.viewport.SetContent(renderMarkdown(m.raw, msg.Width))
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

var pagerHelpStyle = lipgloss.NewStyle().Faint(true)

func (m pagerModel) View() string {
	if !m.ready {
		return "rendering..."
	}
	return m.viewport.View() + "\n" + pagerHelpStyle.Render("↑/↓ scroll · any other key closes")
}

// renderMarkdown converts markdown to styled terminal output, falling
// back to the raw text when rendering fails.
func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
