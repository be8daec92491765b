package listing

import (
	"context"
	"fmt"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/watchlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, gw *fakeGateway) (*Controller, *recordingRenderer, *watchlist.Store) {
	t.Helper()
	kv, err := store.New("")
	require.NoError(t, err)
	wl := watchlist.New(kv, nil)
	r := newRecordingRenderer()
	return NewController(gw, wl, r, Options{}, nil), r, wl
}

func testPage(page, total int, ids ...int) *domain.Page {
	p := &domain.Page{Page: page, TotalPages: total}
	for _, id := range ids {
		p.Results = append(p.Results, domain.Item{
			ID:          id,
			Title:       "Movie",
			PosterPath:  "/poster.jpg",
			VoteAverage: 6.4,
		})
	}
	return p
}

func TestCapTotalPages(t *testing.T) {
	tests := []struct {
		upstream int
		want     int
	}{
		{0, 0},
		{1, 1},
		{499, 499},
		{500, 500},
		{501, 500},
		{600, 500},
		{40000, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CapTotalPages(tt.upstream), "upstream %d", tt.upstream)
	}
}

func TestShowPopularFirstPageCapsTotal(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 600, 1, 2, 3)
	c, r, _ := newTestController(t, gw)

	require.NoError(t, c.LoadPage(context.Background(), domain.ModePopular, domain.Query{}, false))

	require.Len(t, gw.queries, 1)
	assert.Equal(t, domain.Query{Mode: domain.ModePopular, Page: 1}, gw.queries[0])

	s := c.Session()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 500, s.TotalPages)
	assert.False(t, s.Loading)
	assert.Len(t, s.Items, 3)

	assert.Equal(t, "Popular Movies", r.heading)
	assert.Len(t, r.cards, 3)
	assert.Equal(t, domain.LoadMoreAvailable, r.loadMore)
}

func TestCurrentPageFollowsEchoedPage(t *testing.T) {
	gw := newFakeGateway()
	// Upstream clamps the requested page 3 to 2
	gw.pages[3] = testPage(2, 2, 10)
	c, _, _ := newTestController(t, gw)

	require.NoError(t, c.LoadPage(context.Background(), domain.ModePopular, domain.Query{Page: 3}, false))
	assert.Equal(t, 2, c.Session().Page)
}

func TestLoadMoreAppendsWithoutDedupe(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 2, 1, 2)
	gw.pages[2] = testPage(2, 2, 2, 3)
	c, r, _ := newTestController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.ShowGenre(ctx, 28))
	assert.Equal(t, "Action Movies", r.heading)

	require.NoError(t, c.LoadMore(ctx))
	require.Len(t, gw.queries, 2)
	assert.Equal(t, domain.Query{Mode: domain.ModeGenre, GenreID: 28, Page: 2}, gw.queries[1])

	s := c.Session()
	assert.Equal(t, 2, s.Page)
	ids := []int{}
	for _, item := range s.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int{1, 2, 2, 3}, ids)
	assert.Len(t, r.cards, 4)
	assert.Equal(t, domain.LoadMoreExhausted, r.loadMore)
	assert.Equal(t, "No more results", r.loadMore.Label())

	// Exhausted listings do not request further pages
	require.NoError(t, c.LoadMore(ctx))
	assert.Len(t, gw.queries, 2)
}

func TestLoadingGuardDropsSecondCall(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 5, 1)
	gw.pages[2] = testPage(2, 5, 2)
	c, r, _ := newTestController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.ShowPopular(ctx))

	gw.mu.Lock()
	gw.block = make(chan struct{})
	gw.started = make(chan struct{}, 1)
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- c.LoadMore(ctx)
	}()
	<-gw.started

	before := c.Session()
	assert.True(t, before.Loading)
	assert.Equal(t, domain.LoadMoreHidden, r.loadMore)

	// Double-click on load more and filter switches while the first fetch is outstanding
	assert.ErrorIs(t, c.LoadMore(ctx), domain.ErrLoadInFlight)
	assert.ErrorIs(t, c.ShowGenre(ctx, 35), domain.ErrLoadInFlight)
	assert.ErrorIs(t, c.Search(ctx, "alien"), domain.ErrLoadInFlight)
	assert.Equal(t, 2, gw.requestCount())
	assert.Equal(t, before, c.Session())

	close(gw.block)
	require.NoError(t, <-done)

	s := c.Session()
	assert.False(t, s.Loading)
	assert.Equal(t, domain.ModePopular, s.Mode)
	assert.Equal(t, 2, s.Page, "only one page increment")
	assert.Len(t, s.Items, 2)
	assert.Equal(t, 2, gw.requestCount())
}

func TestFailedFetchKeepsPaginationState(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 3, 1, 2)
	c, r, _ := newTestController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.ShowPopular(ctx))

	gw.err = fmt.Errorf("API error: status 503: %w", domain.ErrUnavailable)
	err := c.LoadMore(ctx)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	s := c.Session()
	assert.False(t, s.Loading)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 3, s.TotalPages)

	require.NotNil(t, r.message)
	assert.Equal(t, domain.MsgLoadFailed, *r.message)
	assert.Empty(t, r.cards)
	assert.Equal(t, domain.LoadMoreHidden, r.loadMore)

	// The controller recovers once the gateway does
	gw.err = nil
	gw.pages[2] = testPage(2, 3, 3)
	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, 2, c.Session().Page)
}

func TestFreshLoadWithoutResultsShowsEmptyMessage(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 0)
	c, r, _ := newTestController(t, gw)

	require.NoError(t, c.Search(context.Background(), "zzzzzz"))
	assert.Equal(t, `Search Results for "zzzzzz"`, r.heading)
	require.NotNil(t, r.message)
	assert.Equal(t, "No movies found.", r.message.Text)
	assert.Equal(t, domain.LoadMoreExhausted, r.loadMore)
}

func TestBlankSearchIsIgnored(t *testing.T) {
	gw := newFakeGateway()
	c, _, _ := newTestController(t, gw)

	require.NoError(t, c.Search(context.Background(), "   "))
	assert.Zero(t, gw.requestCount())
}

func TestItemsWithoutPosterAreNotRendered(t *testing.T) {
	gw := newFakeGateway()
	page := testPage(1, 1, 1, 2)
	page.Results[1].PosterPath = ""
	gw.pages[1] = page
	c, r, _ := newTestController(t, gw)

	require.NoError(t, c.ShowPopular(context.Background()))
	require.Len(t, r.cards, 1)
	assert.Equal(t, 1, r.cards[0].Item.ID)
}

func TestShowWatchlistNeverCallsGateway(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 10, 1, 2)
	c, r, wl := newTestController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.ShowPopular(ctx))
	require.Equal(t, domain.LoadMoreAvailable, r.loadMore)
	_, ok := c.ActivateWatchlistIcon(2)
	require.True(t, ok)

	c.ShowWatchlist()
	assert.Equal(t, 1, gw.requestCount())
	assert.Equal(t, "My Watchlist", r.heading)
	assert.Equal(t, domain.LoadMoreHidden, r.loadMore)
	require.Len(t, r.cards, 1)
	assert.True(t, r.cards[0].Watched)
	assert.Equal(t, domain.ModeWatchlist, c.Session().Mode)

	// Load more is inert in watchlist mode
	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, 1, gw.requestCount())

	// Toggling from the watchlist view removes the entry
	_, ok = c.ActivateWatchlistIcon(2)
	require.True(t, ok)
	assert.False(t, wl.IsWatched(2))
	assert.False(t, r.watch[2])
}

func TestEmptyWatchlistShowsMessage(t *testing.T) {
	gw := newFakeGateway()
	c, r, _ := newTestController(t, gw)

	c.ShowWatchlist()
	require.NotNil(t, r.message)
	assert.Equal(t, domain.MsgNoResults, *r.message)
	assert.Equal(t, domain.LoadMoreHidden, r.loadMore)
	assert.Zero(t, gw.requestCount())
}

func TestActivateWatchlistIconDecoratesCards(t *testing.T) {
	gw := newFakeGateway()
	gw.pages[1] = testPage(1, 1, 42)
	c, r, wl := newTestController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.ShowPopular(ctx))
	assert.False(t, r.cards[0].Watched)

	result, ok := c.ActivateWatchlistIcon(42)
	require.True(t, ok)
	assert.Equal(t, watchlist.Added, result)
	assert.True(t, r.watch[42])
	assert.True(t, wl.IsWatched(42))

	// A reload picks the membership up as decoration
	require.NoError(t, c.ShowPopular(ctx))
	assert.True(t, r.cards[0].Watched)

	_, ok = c.ActivateWatchlistIcon(999)
	assert.False(t, ok)
}

func TestOpenDetailWithoutIdentity(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "-3", "0"} {
		gw := newFakeGateway()
		c, r, _ := newTestController(t, gw)

		err := c.OpenDetail(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrMovieNotFound)
		require.NotNil(t, r.message)
		assert.Equal(t, "Movie not found.", r.message.Text)
		assert.Empty(t, gw.lookups)
		assert.Zero(t, gw.requestCount())
	}
}

func TestOpenDetailAndToggle(t *testing.T) {
	gw := newFakeGateway()
	gw.movies[603] = &domain.Item{
		ID:           603,
		Title:        "The Matrix",
		PosterPath:   "/matrix.jpg",
		BackdropPath: "/matrix-bg.jpg",
		VoteAverage:  8.214,
		ReleaseDate:  domain.NewReleaseDate(1999, 3, 30),
		Genres:       []domain.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
	}
	c, r, wl := newTestController(t, gw)

	require.NoError(t, c.ActivateItem(context.Background(), 603))
	require.NotNil(t, r.detail)
	assert.Equal(t, "8.2", r.detail.Rating)
	assert.Equal(t, "Released: 1999-03-30", r.detail.Released)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", r.detail.PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/matrix-bg.jpg", r.detail.BackdropURL)
	assert.Equal(t, []string{"Action", "Science Fiction"}, r.detail.Genres)
	assert.False(t, r.detail.Watched)

	result, err := c.ToggleDetailWatch()
	require.NoError(t, err)
	assert.Equal(t, watchlist.Added, result)
	assert.True(t, r.detail.Watched)
	assert.True(t, wl.IsWatched(603))

	c.CloseDetail()
	_, err = c.ToggleDetailWatch()
	assert.Error(t, err)
}

func TestOpenDetailFailure(t *testing.T) {
	gw := newFakeGateway()
	c, r, _ := newTestController(t, gw)

	err := c.OpenDetail(context.Background(), "77")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	require.NotNil(t, r.message)
	assert.Equal(t, domain.MsgDetailFailed, *r.message)
}
