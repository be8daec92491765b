package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// GenrePicker is a modal list of movie genres
type GenrePicker struct {
	visible bool
	genres  []domain.Genre
	cursor  int
}

// NewGenrePicker creates a picker over the given genres
func NewGenrePicker(genres []domain.Genre) GenrePicker {
	return GenrePicker{genres: genres}
}

// Show displays the picker with the cursor on the given genre, if present
func (p *GenrePicker) Show(currentID int) {
	p.visible = true
	p.cursor = 0
	for i, g := range p.genres {
		if g.ID == currentID {
			p.cursor = i
			break
		}
	}
}

// Hide dismisses the picker
func (p *GenrePicker) Hide() {
	p.visible = false
}

// IsVisible returns whether the picker is shown
func (p GenrePicker) IsVisible() bool {
	return p.visible
}

// Selected returns the genre under the cursor
func (p GenrePicker) Selected() (domain.Genre, bool) {
	if p.cursor < 0 || p.cursor >= len(p.genres) {
		return domain.Genre{}, false
	}
	return p.genres[p.cursor], true
}

// Update handles key events, returns (picker, chosen)
func (p GenrePicker) Update(msg tea.KeyMsg) (GenrePicker, bool) {
	if !p.visible {
		return p, false
	}

	switch {
	case key.Matches(msg, pickerKeys.Down):
		if p.cursor < len(p.genres)-1 {
			p.cursor++
		}
	case key.Matches(msg, pickerKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, pickerKeys.Home):
		p.cursor = 0
	case key.Matches(msg, pickerKeys.End):
		p.cursor = len(p.genres) - 1
	case key.Matches(msg, pickerKeys.Enter):
		p.Hide()
		_, ok := p.Selected()
		return p, ok
	case key.Matches(msg, pickerKeys.Escape):
		p.Hide()
	}
	return p, false
}

// View renders the picker in two columns
func (p GenrePicker) View(theme styles.Theme) string {
	if !p.visible {
		return ""
	}

	const colWidth = 20
	half := (len(p.genres) + 1) / 2

	var left, right []string
	for i, g := range p.genres {
		style := theme.Normal
		if i == p.cursor {
			style = theme.Selected
		}
		cell := style.Render(styles.Pad(" "+g.Name, colWidth))
		if i < half {
			left = append(left, cell)
		} else {
			right = append(right, cell)
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(left, "\n"),
		"  ",
		strings.Join(right, "\n"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Browse by Genre"),
		"",
		body,
	)
	return theme.Modal.Render(content)
}
