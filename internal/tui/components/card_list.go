package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// CardList is a scrollable list of movie cards with fuzzy filtering
type CardList struct {
	cards  []domain.Card
	cursor int
	offset int

	width      int
	height     int
	maxVisible int

	filterInput  textinput.Model
	filterActive bool // Filter input has focus
	filterQuery  string
	filteredIdx  []int // Indexes into cards, nil when unfiltered
}

// NewCardList creates an empty card list
func NewCardList() CardList {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.Prompt = "/ "
	ti.CharLimit = 50
	return CardList{filterInput: ti}
}

// SetSize sets the list dimensions
func (c *CardList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
}

func (c *CardList) recalcMaxVisible() {
	h := c.height
	if c.filterActive || c.filterQuery != "" {
		h-- // Filter bar
	}
	c.maxVisible = max(h, 1)
	c.ensureVisible()
}

// SetCards replaces the list contents and resets the cursor
func (c *CardList) SetCards(cards []domain.Card) {
	c.cards = cards
	c.cursor = 0
	c.offset = 0
	c.refilter()
}

// AppendCards adds cards after the existing ones, keeping the cursor
func (c *CardList) AppendCards(cards []domain.Card) {
	cursor := c.cursor
	c.cards = append(c.cards, cards...)
	c.refilter()
	c.cursor = min(cursor, max(c.Len()-1, 0))
	c.ensureVisible()
}

// Clear removes all cards and any filter
func (c *CardList) Clear() {
	c.cards = nil
	c.cursor = 0
	c.offset = 0
	c.ClearFilter()
}

// SetWatched updates the watchlist icon of every card for id
func (c *CardList) SetWatched(id int, watched bool) bool {
	found := false
	for i := range c.cards {
		if c.cards[i].Item.ID == id {
			c.cards[i].Watched = watched
			found = true
		}
	}
	return found
}

// Cards returns every card in the list, ignoring the filter
func (c CardList) Cards() []domain.Card {
	return c.cards
}

// Len returns the number of visible cards
func (c CardList) Len() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.cards)
}

// Cursor returns the cursor position among visible cards
func (c CardList) Cursor() int {
	return c.cursor
}

// Selected returns the card under the cursor
func (c CardList) Selected() (domain.Card, bool) {
	if c.Len() == 0 {
		return domain.Card{}, false
	}
	return c.cards[c.mapIndex(c.cursor)], true
}

// AtEnd reports whether the cursor is on the last visible card
func (c CardList) AtEnd() bool {
	return c.Len() > 0 && c.cursor == c.Len()-1
}

// Navigation

func (c *CardList) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
		c.ensureVisible()
	}
}

func (c *CardList) MoveDown() {
	if c.cursor < c.Len()-1 {
		c.cursor++
		c.ensureVisible()
	}
}

func (c *CardList) PageUp() {
	c.cursor = max(c.cursor-c.maxVisible, 0)
	c.ensureVisible()
}

func (c *CardList) PageDown() {
	c.cursor = max(min(c.cursor+c.maxVisible, c.Len()-1), 0)
	c.ensureVisible()
}

func (c *CardList) Home() {
	c.cursor = 0
	c.ensureVisible()
}

func (c *CardList) End() {
	c.cursor = max(c.Len()-1, 0)
	c.ensureVisible()
}

func (c *CardList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// Filtering

// StartFilter focuses the filter input
func (c *CardList) StartFilter() {
	c.filterActive = true
	c.filterInput.SetValue(c.filterQuery)
	c.filterInput.CursorEnd()
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering reports whether the filter input has focus
func (c CardList) IsFiltering() bool {
	return c.filterActive
}

// FilterQuery returns the applied filter text
func (c CardList) FilterQuery() string {
	return c.filterQuery
}

// UpdateFilter feeds a message to the filter input.
// Enter keeps the filter applied; esc clears it.
func (c CardList) UpdateFilter(msg tea.Msg) (CardList, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			c.filterActive = false
			c.filterInput.Blur()
			c.recalcMaxVisible()
			return c, nil
		case "esc":
			c.ClearFilter()
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	c.applyFilter()
	return c, cmd
}

// ClearFilter removes the filter and shows every card
func (c *CardList) ClearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *CardList) applyFilter() {
	c.filterQuery = c.filterInput.Value()
	c.refilter()
	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

func (c *CardList) refilter() {
	if c.filterQuery == "" {
		c.filteredIdx = nil
		return
	}

	// Case-insensitive matching
	lowerTitles := make([]string, len(c.cards))
	for i, card := range c.cards {
		lowerTitles[i] = strings.ToLower(card.Item.Title)
	}

	matches := fuzzy.Find(strings.ToLower(c.filterQuery), lowerTitles)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}
}

func (c CardList) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

// View renders the visible window of cards
func (c CardList) View(theme styles.Theme, focused bool) string {
	var lines []string

	if c.filterActive {
		c.filterInput.PromptStyle = theme.Accent
		c.filterInput.TextStyle = theme.Normal
		lines = append(lines, c.filterInput.View())
	} else if c.filterQuery != "" {
		lines = append(lines, theme.Dim.Render("filter: ")+theme.Match.Render(c.filterQuery))
	}

	end := min(c.offset+c.maxVisible, c.Len())
	for i := c.offset; i < end; i++ {
		card := c.cards[c.mapIndex(i)]
		lines = append(lines, RenderCardRow(card, theme, focused && i == c.cursor, c.width))
	}

	if c.filteredIdx != nil && len(c.filteredIdx) == 0 {
		lines = append(lines, theme.Dim.Render("  No matches"))
	}

	return strings.Join(lines, "\n")
}

// RenderCardRow renders one card as a single line:
// watch icon, rating, title with year, then the overview.
func RenderCardRow(card domain.Card, theme styles.Theme, selected bool, width int) string {
	icon := theme.Unwatched.Render(styles.UnwatchedChar)
	if card.Watched {
		icon = theme.Watched.Render(styles.WatchedChar)
	}

	rating := RatingStyle(theme, card.RatingClass).Render(styles.Pad(card.Rating, 4))

	title := card.Item.Title
	if !card.Item.ReleaseDate.IsZero() {
		title += " (" + strconv.Itoa(card.Item.ReleaseDate.Year()) + ")"
	}

	rowStyle := theme.Normal
	if selected {
		rowStyle = theme.Selected
	}

	// Icon and rating take 7 cells with their separators
	textWidth := width - 7
	titleWidth := min(lipgloss.Width(title), max(textWidth*2/3, 10))
	text := rowStyle.Render(styles.Truncate(title, titleWidth))
	if rest := textWidth - titleWidth - 2; rest > 8 && card.Overview != "" {
		overviewStyle := theme.Dim
		if selected {
			overviewStyle = rowStyle
		}
		text = rowStyle.Render(styles.Pad(styles.Truncate(title, titleWidth), titleWidth)+"  ") +
			overviewStyle.Render(styles.Truncate(card.Overview, rest))
	}

	return " " + icon + " " + rating + " " + text
}

// RatingStyle returns the badge style for a rating bucket
func RatingStyle(theme styles.Theme, class domain.RatingClass) lipgloss.Style {
	switch class {
	case domain.RatingGood:
		return theme.RatingGood
	case domain.RatingMid:
		return theme.RatingMid
	default:
		return theme.RatingBad
	}
}
