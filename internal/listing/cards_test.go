package listing

import (
	"strings"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTruncateOverview(t *testing.T) {
	short := "A short overview."
	assert.Equal(t, short, TruncateOverview(short, 150))

	long := strings.Repeat("a", 151)
	got := TruncateOverview(long, 150)
	assert.Equal(t, strings.Repeat("a", 150)+"...", got)

	// Counts runes, not bytes
	accented := strings.Repeat("é", 10)
	assert.Equal(t, strings.Repeat("é", 4)+"...", TruncateOverview(accented, 4))
}

func TestBuildCardsDecorations(t *testing.T) {
	items := []domain.Item{
		{ID: 1, PosterPath: "/a.jpg", VoteAverage: 7.0},
		{ID: 2, PosterPath: "/b.jpg", VoteAverage: 5.55},
		{ID: 3, PosterPath: "/c.jpg", VoteAverage: 4.99},
		{ID: 4, VoteAverage: 9},
	}
	watched := func(id int) bool { return id == 2 }

	cards := buildCards(items, watched, Options{}.withDefaults())
	assert.Len(t, cards, 3)

	assert.Equal(t, domain.RatingGood, cards[0].RatingClass)
	assert.Equal(t, "7.0", cards[0].Rating)
	assert.Equal(t, domain.RatingMid, cards[1].RatingClass)
	assert.True(t, cards[1].Watched)
	assert.Equal(t, domain.RatingBad, cards[2].RatingClass)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/c.jpg", cards[2].PosterURL)
}

func TestHeading(t *testing.T) {
	tests := []struct {
		q    domain.Query
		want string
	}{
		{domain.Query{Mode: domain.ModePopular}, "Popular Movies"},
		{domain.Query{Mode: domain.ModeGenre, GenreID: 27}, "Horror Movies"},
		{domain.Query{Mode: domain.ModeGenre, GenreID: 1}, "Genre Movies"},
		{domain.Query{Mode: domain.ModeSearch, Search: "dune"}, `Search Results for "dune"`},
		{domain.Query{Mode: domain.ModeWatchlist}, "My Watchlist"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Heading(tt.q))
	}
}

func TestOptionsImageURL(t *testing.T) {
	opts := Options{ImageBaseURL: "https://cdn.example/t/p"}.withDefaults()
	assert.Equal(t, "https://cdn.example/t/p/w500/x.jpg", opts.ImageURL(PosterSize, "/x.jpg"))
	assert.Equal(t, "", opts.ImageURL(PosterSize, ""))
}
