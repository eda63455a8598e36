// Package omdb provides a client for the OMDb API.
package omdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
)

// ErrNotFound is returned when OMDb has no match for a search or ID.
var ErrNotFound = errors.New("omdb: not found")

// Client is an OMDb API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration

	// Cache for full details, keyed by IMDb ID. Details are immutable
	// for our purposes, so entries are never evicted within a session.
	detailCache map[string]*entry.Entry
	cacheMu     sync.RWMutex
}

// Config represents OMDb client configuration.
type Config struct {
	APIKey  string
	BaseURL string
}

// SearchResult represents one row of an OMDb title search. It is
// served to API clients as-is, hence the JSON tags.
type SearchResult struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Type   string `json:"type"`
	Poster string `json:"poster,omitempty"`
}

// SearchPage represents one page of search results.
type SearchPage struct {
	Results []SearchResult
	Total   int
}

// searchResponse mirrors the OMDb search payload.
type searchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDBID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

// detailResponse mirrors the OMDb full-details payload, reduced to the
// fields this application consumes. Absent fields carry the "N/A"
// sentinel; normalization happens in the entry package.
type detailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Runtime    string `json:"Runtime"`
	IMDBRating string `json:"imdbRating"`
	IMDBID     string `json:"imdbID"`
	Poster     string `json:"Poster"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// New creates a new OMDb client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("omdb api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.omdbapi.com/"
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		maxRetries:  3,
		retryDelay:  time.Second,
		detailCache: make(map[string]*entry.Entry),
	}, nil
}

// Search searches OMDb movie titles. Page is 1-based; values below 1
// are treated as 1.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("s", query)
	params.Set("type", "movie")
	params.Set("page", strconv.Itoa(page))

	var response searchResponse
	if err := c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if response.Response == "False" {
		if response.Error == "Movie not found!" {
			return &SearchPage{Results: []SearchResult{}}, nil
		}
		return nil, errors.Newf("omdb error: %s", response.Error)
	}

	total, _ := strconv.Atoi(response.TotalResults)
	results := make([]SearchResult, 0, len(response.Search))
	for _, r := range response.Search {
		results = append(results, SearchResult{
			ID:     r.IMDBID,
			Title:  r.Title,
			Year:   r.Year,
			Type:   r.Type,
			Poster: r.Poster,
		})
	}

	return &SearchPage{Results: results, Total: total}, nil
}

// GetByID retrieves full details for an IMDb ID. Results are cached for
// the lifetime of the client.
func (c *Client) GetByID(ctx context.Context, id string) (*entry.Entry, error) {
	if id == "" {
		return nil, errors.New("imdb id is required")
	}

	c.cacheMu.RLock()
	cached, ok := c.detailCache[id]
	c.cacheMu.RUnlock()
	if ok {
		zlog.Debug().Str("id", id).Msg("omdb detail cache hit")
		e := *cached
		return &e, nil
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", id)
	params.Set("plot", "short")

	var response detailResponse
	if err := c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if response.Response == "False" {
		return nil, errors.WithDetail(ErrNotFound, response.Error)
	}

	e := &entry.Entry{
		ID:           response.IMDBID,
		Title:        response.Title,
		Year:         response.Year,
		Poster:       response.Poster,
		DurationText: response.Runtime,
		RatingText:   response.IMDBRating,
	}

	c.cacheMu.Lock()
	c.detailCache[id] = e
	c.cacheMu.Unlock()

	copied := *e
	return &copied, nil
}

// get performs one OMDb request with retries on transport errors.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	reqURL := c.baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			zlog.Debug().Int("attempt", attempt).Msg("retrying omdb request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = errors.Newf("omdb returned status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return errors.Newf("omdb returned status %d", resp.StatusCode)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(err, "failed to parse omdb response")
		}
		return nil
	}

	return errors.Wrap(lastErr, "omdb request failed")
}
