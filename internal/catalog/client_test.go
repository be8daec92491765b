package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryValues(t *testing.T) {
	tests := []struct {
		name string
		q    domain.Query
		want string
	}{
		{"popular default page", domain.Query{}, "page=1&popular=true"},
		{"popular page 3", domain.Query{Mode: domain.ModePopular, Page: 3}, "page=3&popular=true"},
		{"genre", domain.Query{Mode: domain.ModeGenre, GenreID: 28, Page: 2}, "genre=28&page=2"},
		{"search escapes", domain.Query{Mode: domain.ModeSearch, Search: "star wars & co", Page: 1}, "page=1&search=star+wars+%26+co"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryValues(tt.q).Encode())
		})
	}
}

func TestFetchPage(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Path, r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":2,"total_pages":600,"total_results":12000,"results":[
			{"id":1,"title":"One","overview":"o","poster_path":"/1.jpg","vote_average":7.1,"release_date":"2020-01-02","genre_ids":[28]},
			{"id":2,"title":"Two","overview":"t","poster_path":null,"vote_average":4,"release_date":""}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil, nil)
	page, err := c.FetchPage(context.Background(), domain.Query{Mode: domain.ModeGenre, GenreID: 28, Page: 2})
	require.NoError(t, err)

	assert.Equal(t, "genre=28&page=2", gotQuery)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 600, page.TotalPages)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "2020-01-02", page.Results[0].ReleaseDate.String())
	assert.Equal(t, []int{28}, page.Results[0].GenreIDs)
	assert.False(t, page.Results[1].HasPoster())
	assert.True(t, page.Results[1].ReleaseDate.IsZero())
}

func TestLookupMovie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get(ParamMovieID))
		w.Write([]byte(`{"id":42,"title":"Answer","genres":[{"id":878,"name":"Science Fiction"}]}`))
	}))
	defer srv.Close()

	item, err := NewClient(srv.URL, nil, nil).LookupMovie(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, item.ID)
	assert.Equal(t, []string{"Science Fiction"}, item.GenreNames())
}

func TestFailuresAreUniform(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusTooManyRequests} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"Failed to fetch data from TMDB"}`))
		}))

		_, err := NewClient(srv.URL, nil, nil).FetchPage(context.Background(), domain.Query{})
		assert.ErrorIs(t, err, domain.ErrUnavailable, "status %d", status)
		srv.Close()
	}
}

func TestMalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil, nil).FetchPage(context.Background(), domain.Query{})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil, nil).LookupMovie(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
