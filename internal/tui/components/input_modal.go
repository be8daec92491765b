package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// InputModal is a simple text input modal
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal(placeholder string) InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "> "

	return InputModal{
		input: ti,
	}
}

// Show displays the modal with a title and an initial value
func (m *InputModal) Show(title, value string) {
	m.visible = true
	m.title = title
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, pickerKeys.Enter):
			m.Hide()
			return m, nil, true
		case keyMsg.String() == "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View(theme styles.Theme) string {
	if !m.visible {
		return ""
	}

	const modalWidth = 44

	m.input.TextStyle = theme.Title.UnsetBold()
	m.input.PlaceholderStyle = theme.Dim
	m.input.PromptStyle = theme.Accent

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Width(modalWidth).Render(m.title),
		"",
		lipgloss.NewStyle().Width(modalWidth).Render(m.input.View()),
		"",
		theme.HelpKey.Render("enter")+theme.HelpDesc.Render(" search  ")+
			theme.HelpKey.Render("esc")+theme.HelpDesc.Render(" cancel"),
	)

	return theme.Modal.Render(content)
}
