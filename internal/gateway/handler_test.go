package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUpstream records calls and answers from fixed data
type stubUpstream struct {
	mu      sync.Mutex
	queries []domain.Query
	lookups []int
	err     error
}

func (s *stubUpstream) FetchPage(ctx context.Context, q domain.Query) (*domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Page{
		Page:       q.PageOrFirst(),
		TotalPages: 600,
		Results:    []domain.Item{{ID: 1, Title: "One", PosterPath: "/1.jpg"}},
	}, nil
}

func (s *stubUpstream) LookupMovie(ctx context.Context, id int) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, id)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Item{ID: id, Title: "Lookup", Genres: []domain.Genre{{ID: 18, Name: "Drama"}}}, nil
}

func setupTestRouter(upstream domain.CatalogGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), CORS())
	NewHandler(upstream, 24*time.Hour, nil).RegisterRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	h.ServeHTTP(w, req)
	return w
}

func TestCatalogSelectorDispatch(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantQuery *domain.Query
		wantID    int
	}{
		{"no selector defaults to popular page 1", "/catalog", &domain.Query{Mode: domain.ModePopular, Page: 1}, 0},
		{"explicit popular", "/catalog?popular=true&page=3", &domain.Query{Mode: domain.ModePopular, Page: 3}, 0},
		{"genre", "/catalog?genre=28&page=2", &domain.Query{Mode: domain.ModeGenre, GenreID: 28, Page: 2}, 0},
		{"search", "/catalog?search=blade%20runner", &domain.Query{Mode: domain.ModeSearch, Search: "blade runner", Page: 1}, 0},
		{"search wins over genre", "/catalog?genre=28&search=heat", &domain.Query{Mode: domain.ModeSearch, Search: "heat", Page: 1}, 0},
		{"bad page means first", "/catalog?page=abc", &domain.Query{Mode: domain.ModePopular, Page: 1}, 0},
		{"lookup ignores page", "/catalog?movieId=603&page=9", nil, 603},
		{"legacy path", "/api/getMovies?genre=35", &domain.Query{Mode: domain.ModeGenre, GenreID: 35, Page: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &stubUpstream{}
			w := get(t, setupTestRouter(up), tt.target)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "s-maxage=86400", w.Header().Get("Cache-Control"))

			if tt.wantQuery != nil {
				require.Len(t, up.queries, 1)
				assert.Equal(t, *tt.wantQuery, up.queries[0])
				assert.Empty(t, up.lookups)
			} else {
				assert.Equal(t, []int{tt.wantID}, up.lookups)
				assert.Empty(t, up.queries)
			}
		})
	}
}

func TestCatalogPageEnvelope(t *testing.T) {
	w := get(t, setupTestRouter(&stubUpstream{}), "/catalog?popular=true&page=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(600), body["total_pages"])
	assert.Len(t, body["results"], 1)
}

func TestCatalogLookupIncludesGenres(t *testing.T) {
	w := get(t, setupTestRouter(&stubUpstream{}), "/catalog?movieId=42")
	require.Equal(t, http.StatusOK, w.Code)

	var item domain.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 42, item.ID)
	assert.Equal(t, []string{"Drama"}, item.GenreNames())
}

func TestCatalogFailureIsUniform(t *testing.T) {
	targets := []string{
		"/catalog",
		"/catalog?movieId=1",
		"/catalog?movieId=abc",
		"/catalog?genre=action",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			up := &stubUpstream{err: fmt.Errorf("%w: TMDB API error: status 404", domain.ErrUnavailable)}
			w := get(t, setupTestRouter(up), target)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Failed to fetch data from TMDB"}`, w.Body.String())
			assert.Empty(t, w.Header().Get("Cache-Control"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := setupTestRouter(&stubUpstream{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/catalog", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	r := setupTestRouter(&stubUpstream{})

	w := get(t, r, "/healthz")
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	id := "5f0b6f8e-2d7f-4c55-9b5e-1f6d3c1f1a00"
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	r.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestRecoveryReturnsGenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := get(t, r, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, upstreamErrorMessage, body["error"])
}

// rawUpstream hands back upstream bodies untouched
type rawUpstream struct {
	stubUpstream
	body []byte
}

func (s *rawUpstream) FetchPageRaw(ctx context.Context, q domain.Query) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	return s.body, nil
}

func (s *rawUpstream) LookupMovieRaw(ctx context.Context, id int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, id)
	if s.err != nil {
		return nil, s.err
	}
	return s.body, nil
}

func TestCatalogForwardsRawUpstreamBody(t *testing.T) {
	body := `{"page":2,"total_pages":9,"total_results":180,"results":[{"id":1,"title":"One","popularity":12.5}]}`
	up := &rawUpstream{body: []byte(body)}
	r := setupTestRouter(up)

	w := get(t, r, "/api/getMovies?genre=28&page=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "s-maxage=86400", w.Header().Get("Cache-Control"))
	require.Len(t, up.queries, 1)
	assert.Equal(t, domain.Query{Mode: domain.ModeGenre, GenreID: 28, Page: 2}, up.queries[0])

	w = get(t, r, "/catalog?movieId=603")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, w.Body.String())
	assert.Equal(t, []int{603}, up.lookups)
}

func TestCatalogRawFailureIsUniform(t *testing.T) {
	up := &rawUpstream{stubUpstream: stubUpstream{err: domain.ErrUnavailable}}
	r := setupTestRouter(up)

	w := get(t, r, "/catalog?search=matrix")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch data from TMDB"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Cache-Control"))
}
