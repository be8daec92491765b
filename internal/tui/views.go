package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateSearching:
		return m.renderModal(m.SearchModal.View(m.Theme))
	case StatePickingGenre:
		return m.renderModal(m.GenrePicker.View(m.Theme))
	}

	var content string
	if m.State == StateDetail {
		content = m.renderDetail()
	} else {
		content = m.renderListing()
	}

	contentHeight := m.Height - 1
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

func (m Model) renderModal(modal string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}

// renderListing renders the heading, the cards and the load-more control
func (m Model) renderListing() string {
	var b strings.Builder

	b.WriteString(m.Theme.Title.Render(styles.Truncate(m.Heading, m.Width)))
	b.WriteString("\n\n")

	switch {
	case m.Loading:
		b.WriteString(" " + RenderSpinner(m.Theme, m.SpinnerFrame) + m.Theme.Dim.Render(" Loading..."))
	case m.Message != nil:
		b.WriteString(" " + m.renderMessage(*m.Message))
	default:
		b.WriteString(m.List.View(m.Theme, true))
		if label := m.LoadMore.Label(); label != "" {
			b.WriteString("\n")
			b.WriteString(m.renderLoadMore(label))
		}
	}

	return b.String()
}

func (m Model) renderLoadMore(label string) string {
	if m.LoadMore == domain.LoadMoreAvailable {
		return " " + m.Theme.Button.Render(label) + m.Theme.Dim.Render("  press m")
	}
	return " " + m.Theme.Dim.Render(label)
}

func (m Model) renderMessage(msg domain.Message) string {
	if msg.Kind == domain.MessageError {
		return m.Theme.Error.Render(msg.Text)
	}
	return m.Theme.Dim.Render(msg.Text)
}

// renderDetail renders the detail view of one movie
func (m Model) renderDetail() string {
	switch {
	case m.DetailLoading:
		return " " + RenderSpinner(m.Theme, m.SpinnerFrame) + m.Theme.Dim.Render(" Loading movie...")
	case m.DetailMessage != nil:
		return " " + m.renderMessage(*m.DetailMessage)
	case m.Detail == nil:
		return ""
	}

	d := m.Detail
	width := max(min(m.Width-4, 100), 20)
	t := m.Theme

	var lines []string
	lines = append(lines, t.Title.Render(d.Item.Title))

	var meta []string
	if d.Released != "" {
		meta = append(meta, t.Subtitle.Render(d.Released))
	}
	meta = append(meta, components.RatingStyle(t, domain.ClassifyRating(d.Item.VoteAverage)).Render("★ "+d.Rating))
	lines = append(lines, strings.Join(meta, t.Dim.Render("  ·  ")))

	if len(d.Genres) > 0 {
		pills := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			pills[i] = t.Pill.Render(g)
		}
		lines = append(lines, "", strings.Join(pills, " "))
	}

	if d.Item.Overview != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Inherit(t.Normal).Render(d.Item.Overview))
	}

	if d.PosterURL != "" || d.BackdropURL != "" {
		lines = append(lines, "")
		if d.PosterURL != "" {
			lines = append(lines, t.Dim.Render("Poster:   ")+t.Accent.Render(d.PosterURL))
		}
		if d.BackdropURL != "" {
			lines = append(lines, t.Dim.Render("Backdrop: ")+t.Accent.Render(d.BackdropURL))
		}
	}

	icon := t.Unwatched.Render(styles.UnwatchedChar)
	if d.Watched {
		icon = t.Watched.Render(styles.WatchedChar)
	}
	lines = append(lines, "", icon+" "+t.Button.Render(domain.WatchlistButtonLabel(d.Watched)))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// RenderSpinner renders the spinner frame
func RenderSpinner(theme styles.Theme, frame int) string {
	return theme.Spinner.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}

func (m Model) renderFooter() string {
	t := m.Theme

	// Left side: status message
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = t.Error.Render(m.StatusMsg)
		} else {
			left = t.Dim.Render(m.StatusMsg)
		}
	}

	// Center: context hints
	var hints []string
	if m.State == StateDetail {
		hints = append(hints, hint(t, "w", "watchlist"))
		if m.Opener != nil {
			hints = append(hints, hint(t, "o", "poster"), hint(t, "b", "backdrop"))
		}
		hints = append(hints, hint(t, "esc", "back"))
	} else {
		hints = append(hints,
			hint(t, "w", "watchlist"),
			hint(t, "/", "search"),
			hint(t, "g", "genres"),
			hint(t, "W", "my list"),
		)
	}
	center := strings.Join(hints, "  ")

	// Right side: "? help" hint
	right := hint(t, "?", "help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(t styles.Theme, k, desc string) string {
	return t.HelpKey.Render(k) + t.HelpDesc.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      LISTINGS
  j/k        Up/down               p      Popular movies
  PgUp/PgDn  Scroll page           g      Browse by genre
  Home/G     First/last            /      Search
  Enter      Movie details         W      My watchlist
  Esc        Back                  m      Load more
                                   f      Filter loaded movies

ACTIONS                         OTHER
  w          Toggle watchlist      t      Toggle theme
  o          Open poster           q      Quit
  b          Open backdrop         ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		m.Theme.Modal.Render(help))
}
