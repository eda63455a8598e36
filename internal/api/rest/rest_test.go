package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayush84339/smart-movie-recommendor/internal/app/watchlist"
	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/omdb"
)

// memRepo is an in-memory watchlist.Repository.
type memRepo struct {
	entries []entry.Entry
}

func (r *memRepo) LoadAll(ctx context.Context) ([]entry.Entry, error) {
	return r.entries, nil
}

func (r *memRepo) SaveAll(ctx context.Context, entries []entry.Entry) error {
	r.entries = entries
	return nil
}

// fakeSearcher serves canned OMDb data.
type fakeSearcher struct {
	page    *omdb.SearchPage
	details map[string]entry.Entry
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, page int) (*omdb.SearchPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeSearcher) GetByID(ctx context.Context, id string) (*entry.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.details[id]; ok {
		return &e, nil
	}
	return nil, omdb.ErrNotFound
}

// fakeExtractor returns canned mood keywords.
type fakeExtractor struct {
	keywords []string
	err      error
}

func (f *fakeExtractor) Keywords(ctx context.Context, mood string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.keywords, nil
}

type fixture struct {
	router    http.Handler
	store     *watchlist.Store
	searcher  *fakeSearcher
	extractor *fakeExtractor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	searcher := &fakeSearcher{
		page: &omdb.SearchPage{
			Results: []omdb.SearchResult{
				{ID: "tt1375666", Title: "Inception", Year: "2010", Type: "movie"},
			},
			Total: 1,
		},
		details: map[string]entry.Entry{
			"tt1375666": {ID: "tt1375666", Title: "Inception", Year: "2010", DurationText: "148 min", RatingText: "8.8"},
		},
	}
	extractor := &fakeExtractor{keywords: []string{"heist", "dream"}}
	store := watchlist.New(context.Background(), &memRepo{}, searcher)

	return &fixture{
		router:    NewRouter(store, searcher, extractor),
		store:     store,
		searcher:  searcher,
		extractor: extractor,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seed(t *testing.T, f *fixture, entries ...entry.Entry) {
	t.Helper()
	for _, e := range entries {
		require.NoError(t, f.store.Add(context.Background(), e))
	}
}

func TestSearchEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/search?q=inception", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[searchResponse](t, rec)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "tt1375666", resp.Results[0].ID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSearchEndpoint_MissingQuery(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.searcher.err = errors.New("omdb down")

	rec := f.do(t, http.MethodGet, "/api/search?q=x", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDetailsEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/movies/tt1375666", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[entryJSON](t, rec)
	assert.Equal(t, "Inception", resp.Title)
	assert.Equal(t, 148, resp.Minutes)
}

func TestDetailsEndpoint_NotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/movies/tt0000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoodSearchEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/mood-search", gin.H{"mood": "clever and twisty"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[searchResponse](t, rec)
	assert.Equal(t, []string{"heist", "dream"}, resp.Keywords)
	assert.Len(t, resp.Results, 1)
}

func TestMoodSearchEndpoint_MissingMood(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/mood-search", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoodSearchEndpoint_ExtractionFailure(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = errors.New("quota exceeded")

	rec := f.do(t, http.MethodPost, "/api/mood-search", gin.H{"mood": "anything"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWatchlistAddAndList(t *testing.T) {
	f := newFixture(t)

	// Candidate without runtime: the store pulls full details.
	rec := f.do(t, http.MethodPost, "/api/watchlist", gin.H{"id": "tt1375666", "title": "Inception"})
	require.Equal(t, http.StatusCreated, rec.Code)

	list := decode[listResponse](t, f.do(t, http.MethodGet, "/api/watchlist", nil))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 148, list.Entries[0].Minutes)
	assert.Equal(t, 148, list.TotalMinutes)
	assert.InDelta(t, 8.8/148, list.Entries[0].Score, 1e-9)
}

func TestWatchlistAdd_DuplicateIsOK(t *testing.T) {
	f := newFixture(t)

	first := f.do(t, http.MethodPost, "/api/watchlist", gin.H{"id": "tt1375666"})
	second := f.do(t, http.MethodPost, "/api/watchlist", gin.H{"id": "tt1375666"})

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, f.store.Len())
}

func TestWatchlistAdd_MissingID(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/watchlist", gin.H{"title": "nameless"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistRemove(t *testing.T) {
	f := newFixture(t)
	seed(t, f, entry.Entry{ID: "tt1", DurationText: "90 min"})

	rec := f.do(t, http.MethodDelete, "/api/watchlist/tt1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, f.store.Len())

	// Removing again is still a 204.
	again := f.do(t, http.MethodDelete, "/api/watchlist/tt1", nil)
	assert.Equal(t, http.StatusNoContent, again.Code)
}

func TestPlanEndpoint(t *testing.T) {
	f := newFixture(t)
	seed(t, f,
		entry.Entry{ID: "ttA", Title: "A", RatingText: "8.5", DurationText: "120 min"},
		entry.Entry{ID: "ttB", Title: "B", RatingText: "7.0", DurationText: "180 min"},
		entry.Entry{ID: "ttC", Title: "C", RatingText: "9.0", DurationText: "90 min"},
	)

	rec := f.do(t, http.MethodPost, "/api/watchlist/plan", gin.H{"budget_minutes": 300})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[planResponse](t, rec)
	assert.Equal(t, 390, resp.TotalMinutes)
	assert.Equal(t, 210, resp.RemainingMinutes)
	assert.True(t, resp.Fits)
	require.Len(t, resp.DropList, 1)
	assert.Equal(t, "ttB", resp.DropList[0].ID)
	assert.NotEmpty(t, resp.PlanID)

	// Planning never mutates the store.
	assert.Equal(t, 3, f.store.Len())
}

func TestPlanEndpoint_EverythingFits(t *testing.T) {
	f := newFixture(t)
	seed(t, f, entry.Entry{ID: "ttA", RatingText: "8.5", DurationText: "120 min"})

	rec := f.do(t, http.MethodPost, "/api/watchlist/plan", gin.H{"budget_minutes": 500})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[planResponse](t, rec)
	assert.Empty(t, resp.DropList)
	assert.Equal(t, 120, resp.RemainingMinutes)
}

func TestPlanEndpoint_InvalidBudget(t *testing.T) {
	f := newFixture(t)

	for _, body := range []any{
		gin.H{"budget_minutes": 0},
		gin.H{"budget_minutes": -30},
		gin.H{"budget_minutes": "ninety"},
		gin.H{},
	} {
		rec := f.do(t, http.MethodPost, "/api/watchlist/plan", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
}

func TestApplyPlanEndpoint(t *testing.T) {
	f := newFixture(t)
	seed(t, f,
		entry.Entry{ID: "ttA", RatingText: "8.5", DurationText: "120 min"},
		entry.Entry{ID: "ttB", RatingText: "7.0", DurationText: "180 min"},
		entry.Entry{ID: "ttC", RatingText: "9.0", DurationText: "90 min"},
	)

	rec := f.do(t, http.MethodPost, "/api/watchlist/plan/apply", gin.H{"budget_minutes": 300})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[planResponse](t, rec)
	assert.True(t, resp.Applied)
	require.Len(t, resp.DropList, 1)

	assert.Equal(t, 2, f.store.Len())
	assert.False(t, f.store.Contains("ttB"))
	assert.Equal(t, 210, f.store.TotalMinutes())
}
