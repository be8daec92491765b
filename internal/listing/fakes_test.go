package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// fakeGateway answers from canned pages and records every request
type fakeGateway struct {
	mu      sync.Mutex
	queries []domain.Query
	lookups []int
	pages   map[int]*domain.Page
	movies  map[int]*domain.Item
	err     error
	block   chan struct{} // When set, FetchPage waits for it to close
	started chan struct{} // Signalled when FetchPage is entered
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:  map[int]*domain.Page{},
		movies: map[int]*domain.Item{},
	}
}

func (g *fakeGateway) FetchPage(ctx context.Context, q domain.Query) (*domain.Page, error) {
	g.mu.Lock()
	g.queries = append(g.queries, q)
	block, started := g.block, g.started
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	page, ok := g.pages[q.Page]
	if !ok {
		return nil, fmt.Errorf("no page %d: %w", q.Page, domain.ErrUnavailable)
	}
	return page, nil
}

func (g *fakeGateway) LookupMovie(ctx context.Context, id int) (*domain.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups = append(g.lookups, id)
	if g.err != nil {
		return nil, g.err
	}
	item, ok := g.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", id, domain.ErrUnavailable)
	}
	return item, nil
}

func (g *fakeGateway) requestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queries)
}

// recordingRenderer keeps the last rendered state the way a screen would
type recordingRenderer struct {
	mu       sync.Mutex
	heading  string
	loading  bool
	cards    []domain.Card
	message  *domain.Message
	loadMore domain.LoadMoreState
	detail   *domain.Detail
	watch    map[int]bool
	calls    []string
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{watch: map[int]bool{}}
}

func (r *recordingRenderer) RenderHeading(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heading = title
	r.calls = append(r.calls, "heading")
}

func (r *recordingRenderer) RenderLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = true
	r.cards = nil
	r.message = nil
	r.calls = append(r.calls, "loading")
}

func (r *recordingRenderer) RenderCards(cards []domain.Card, appendMode bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.message = nil
	if appendMode {
		r.cards = append(r.cards, cards...)
	} else {
		r.cards = append([]domain.Card(nil), cards...)
	}
	r.calls = append(r.calls, "cards")
}

func (r *recordingRenderer) RenderWatchState(id int, watched bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watch[id] = watched
	r.calls = append(r.calls, "watch")
}

func (r *recordingRenderer) RenderDetail(detail domain.Detail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detail = &detail
	r.calls = append(r.calls, "detail")
}

func (r *recordingRenderer) RenderMessage(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.cards = nil
	r.message = &msg
	r.calls = append(r.calls, "message")
}

func (r *recordingRenderer) RenderLoadMore(state domain.LoadMoreState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadMore = state
	r.calls = append(r.calls, "loadmore")
}
