package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
)

// renderBuffer is the number of render messages queued before senders block
const renderBuffer = 64

// ChannelRenderer adapts domain.Renderer to a channel for Bubble Tea.
// Every render call becomes a tea.Msg drained by the model.
type ChannelRenderer struct {
	ch chan tea.Msg
}

var _ domain.Renderer = (*ChannelRenderer)(nil)

// NewChannelRenderer creates a new channel-based renderer.
func NewChannelRenderer() *ChannelRenderer {
	return &ChannelRenderer{ch: make(chan tea.Msg, renderBuffer)}
}

// Listen returns a command that waits for the next render message.
// Render messages must not be dropped, so sends block when the buffer is full.
func (r *ChannelRenderer) Listen() tea.Cmd {
	return func() tea.Msg {
		return renderedMsg{inner: <-r.ch}
	}
}

// renderedMsg wraps a render message so the model knows to listen again
type renderedMsg struct {
	inner tea.Msg
}

func (r *ChannelRenderer) RenderHeading(title string) {
	r.ch <- HeadingMsg{Title: title}
}

func (r *ChannelRenderer) RenderLoading() {
	r.ch <- LoadingMsg{}
}

func (r *ChannelRenderer) RenderCards(cards []domain.Card, appendMode bool) {
	r.ch <- CardsMsg{Cards: cards, Append: appendMode}
}

func (r *ChannelRenderer) RenderWatchState(id int, watched bool) {
	r.ch <- WatchStateMsg{ID: id, Watched: watched}
}

func (r *ChannelRenderer) RenderDetail(detail domain.Detail) {
	r.ch <- DetailMsg{Detail: detail}
}

func (r *ChannelRenderer) RenderMessage(msg domain.Message) {
	r.ch <- InlineMsg{Message: msg}
}

func (r *ChannelRenderer) RenderLoadMore(state domain.LoadMoreState) {
	r.ch <- LoadMoreMsg{State: state}
}
