package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/listing"
	"github.com/mmcdole/marquee/internal/preference"
	"github.com/mmcdole/marquee/internal/tui/components"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateDetail
	StateSearching
	StatePickingGenre
	StateHelp
)

// Vertical chrome: heading line, blank line and footer
const ChromeHeight = 3

const (
	tickInterval     = 100 * time.Millisecond
	statusTimeout    = 3 * time.Second
	errStatusTimeout = 5 * time.Second
)

// StartView selects what the application shows first.
// OpenMovie wins over Watchlist, then Search, then GenreID.
type StartView struct {
	OpenMovie bool
	MovieID   string // Raw id, may be empty or invalid
	GenreID   int
	Search    string
	Watchlist bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State     ApplicationState
	prevState ApplicationState // Restored when help closes
	Ready     bool

	// Services
	ctx        context.Context
	Controller *listing.Controller
	Prefs      *preference.Preferences
	Renderer   *ChannelRenderer
	Keys       KeyMap
	Theme      styles.Theme
	Opener     ImageOpener // Optional; image keys are ignored when nil

	// UI Components
	List        components.CardList
	SearchModal components.InputModal
	GenrePicker components.GenrePicker

	// Listing as last rendered
	Heading    string
	Loading    bool
	Message    *domain.Message
	LoadMore   domain.LoadMoreState
	listLoaded bool

	// Detail view as last rendered
	Detail        *domain.Detail
	DetailLoading bool
	DetailMessage *domain.Message

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	start StartView
}

// NewModel creates a new application model. Controller must render
// through renderer.
func NewModel(ctx context.Context, controller *listing.Controller, prefs *preference.Preferences, renderer *ChannelRenderer, start StartView) Model {
	m := Model{
		State:       StateBrowsing,
		ctx:         ctx,
		Controller:  controller,
		Prefs:       prefs,
		Renderer:    renderer,
		Keys:        DefaultKeyMap(),
		Theme:       styles.ForName(string(prefs.Theme())),
		List:        components.NewCardList(),
		SearchModal: components.NewInputModal("Search for a movie..."),
		GenrePicker: components.NewGenrePicker(domain.MovieGenres),
		start:       start,
	}
	if start.OpenMovie {
		m.State = StateDetail
		m.DetailLoading = true
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Renderer.Listen(),
		m.startCmd(),
		TickCmd(tickInterval),
	)
}

func (m Model) startCmd() tea.Cmd {
	switch {
	case m.start.OpenMovie:
		return OpenDetailCmd(m.ctx, m.Controller, m.start.MovieID)
	case m.start.Watchlist:
		return ShowWatchlistCmd(m.Controller)
	case m.start.Search != "":
		return SearchCmd(m.ctx, m.Controller, m.start.Search)
	case m.start.GenreID != 0:
		return ShowGenreCmd(m.ctx, m.Controller, m.start.GenreID)
	default:
		return ShowPopularCmd(m.ctx, m.Controller)
	}
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case renderedMsg:
		m.applyRender(msg.inner)
		return m, m.Renderer.Listen()

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case ThemeChangedMsg:
		m.Theme = styles.ForName(string(msg.Theme))
		m.StatusMsg = "Theme: " + string(msg.Theme)
		m.StatusIsErr = false
		return m, ClearStatusCmd(statusTimeout)

	case ErrMsg:
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		cmds = append(cmds, ClearStatusCmd(errStatusTimeout))
		return m, tea.Batch(cmds...)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		cmds = append(cmds, ClearStatusCmd(statusTimeout))
		return m, tea.Batch(cmds...)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// applyRender folds one renderer call into the model
func (m *Model) applyRender(msg tea.Msg) {
	switch msg := msg.(type) {
	case HeadingMsg:
		m.Heading = msg.Title

	case LoadingMsg:
		m.Loading = true
		m.Message = nil
		m.List.Clear()

	case CardsMsg:
		m.Loading = false
		m.Message = nil
		m.listLoaded = true
		if msg.Append {
			m.List.AppendCards(msg.Cards)
		} else {
			m.List.SetCards(msg.Cards)
		}

	case WatchStateMsg:
		m.List.SetWatched(msg.ID, msg.Watched)
		if m.Detail != nil && m.Detail.Item.ID == msg.ID {
			m.Detail.Watched = msg.Watched
		}

	case DetailMsg:
		detail := msg.Detail
		m.Detail = &detail
		m.DetailLoading = false
		m.DetailMessage = nil
		// Keep the listing icon in step with the detail view
		m.List.SetWatched(detail.Item.ID, detail.Watched)

	case InlineMsg:
		message := msg.Message
		if isDetailMessage(message) {
			m.Detail = nil
			m.DetailLoading = false
			m.DetailMessage = &message
			return
		}
		m.Loading = false
		m.listLoaded = true
		m.Message = &message
		m.List.Clear()

	case LoadMoreMsg:
		m.LoadMore = msg.State
	}
}

func isDetailMessage(msg domain.Message) bool {
	return msg == domain.MsgNotFound || msg == domain.MsgDetailFailed
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	// One line for the load-more control
	m.List.SetSize(m.Width, m.Height-ChromeHeight-1)
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.State {
	case StateHelp:
		// Any key closes help
		m.State = m.prevState
		return m, nil

	case StateSearching:
		var cmd tea.Cmd
		var submitted bool
		m.SearchModal, cmd, submitted = m.SearchModal.Update(msg)
		if submitted {
			m.State = StateBrowsing
			return m, SearchCmd(m.ctx, m.Controller, m.SearchModal.Value())
		}
		if !m.SearchModal.IsVisible() {
			m.State = StateBrowsing
		}
		return m, cmd

	case StatePickingGenre:
		var chosen bool
		m.GenrePicker, chosen = m.GenrePicker.Update(msg)
		if chosen {
			m.State = StateBrowsing
			genre, _ := m.GenrePicker.Selected()
			return m, ShowGenreCmd(m.ctx, m.Controller, genre.ID)
		}
		if !m.GenrePicker.IsVisible() {
			m.State = StateBrowsing
		}
		return m, nil

	case StateDetail:
		return m.handleDetailKey(msg)
	}

	if m.List.IsFiltering() {
		var cmd tea.Cmd
		m.List, cmd = m.List.UpdateFilter(msg)
		return m, cmd
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.Keys

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.prevState = m.State
		m.State = StateHelp

	case key.Matches(msg, keys.Up):
		m.List.MoveUp()
	case key.Matches(msg, keys.Down):
		m.List.MoveDown()
	case key.Matches(msg, keys.PageUp):
		m.List.PageUp()
	case key.Matches(msg, keys.PageDown):
		m.List.PageDown()
	case key.Matches(msg, keys.Home):
		m.List.Home()
	case key.Matches(msg, keys.End):
		m.List.End()

	case key.Matches(msg, keys.Enter):
		card, ok := m.List.Selected()
		if !ok {
			return m, nil
		}
		return m.openDetail(strconv.Itoa(card.Item.ID))

	case key.Matches(msg, keys.Back):
		if m.List.FilterQuery() != "" {
			m.List.ClearFilter()
		}

	case key.Matches(msg, keys.ToggleWatch):
		card, ok := m.List.Selected()
		if !ok {
			return m, nil
		}
		return m, ToggleWatchCmd(m.Controller, card.Item.ID)

	case key.Matches(msg, keys.LoadMore):
		if m.LoadMore == domain.LoadMoreAvailable {
			return m, LoadMoreCmd(m.ctx, m.Controller)
		}

	case key.Matches(msg, keys.Popular):
		return m, ShowPopularCmd(m.ctx, m.Controller)

	case key.Matches(msg, keys.Genres):
		m.GenrePicker.Show(m.Controller.Session().GenreID)
		m.State = StatePickingGenre

	case key.Matches(msg, keys.Search):
		m.SearchModal.Show("Search Movies", m.Controller.Session().Search)
		m.State = StateSearching

	case key.Matches(msg, keys.Watchlist):
		return m, ShowWatchlistCmd(m.Controller)

	case key.Matches(msg, keys.Filter):
		m.List.StartFilter()

	case key.Matches(msg, keys.ToggleTheme):
		return m, ToggleThemeCmd(m.Prefs)
	}

	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.Keys

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.prevState = m.State
		m.State = StateHelp

	case key.Matches(msg, keys.Back):
		m.Controller.CloseDetail()
		m.Detail = nil
		m.DetailLoading = false
		m.DetailMessage = nil
		m.State = StateBrowsing
		// Started on a detail view with nothing listed behind it
		if !m.listLoaded {
			return m, ShowPopularCmd(m.ctx, m.Controller)
		}

	case key.Matches(msg, keys.ToggleWatch), msg.String() == "enter":
		if m.Detail != nil {
			return m, ToggleDetailWatchCmd(m.Controller)
		}

	case key.Matches(msg, keys.OpenPoster):
		if m.Opener != nil && m.Detail != nil && m.Detail.PosterURL != "" {
			return m, OpenImageCmd(m.Opener, m.Detail.PosterURL, "poster")
		}

	case key.Matches(msg, keys.OpenBackdrop):
		if m.Opener != nil && m.Detail != nil && m.Detail.BackdropURL != "" {
			return m, OpenImageCmd(m.Opener, m.Detail.BackdropURL, "backdrop")
		}

	case key.Matches(msg, keys.ToggleTheme):
		return m, ToggleThemeCmd(m.Prefs)
	}

	return m, nil
}

func (m Model) openDetail(rawID string) (tea.Model, tea.Cmd) {
	m.State = StateDetail
	m.Detail = nil
	m.DetailMessage = nil
	m.DetailLoading = true
	return m, OpenDetailCmd(m.ctx, m.Controller, rawID)
}
