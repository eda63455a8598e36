// Package rest provides the JSON HTTP API.
package rest

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/aayush84339/smart-movie-recommendor/internal/app/watchlist"
	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
	"github.com/aayush84339/smart-movie-recommendor/internal/infra/omdb"
)

// Searcher defines the movie database operations the API needs.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (*omdb.SearchPage, error)
	GetByID(ctx context.Context, id string) (*entry.Entry, error)
}

// KeywordExtractor defines the mood extraction operation the API needs.
type KeywordExtractor interface {
	Keywords(ctx context.Context, mood string) ([]string, error)
}

// NewRouter builds the HTTP router with all services registered.
func NewRouter(store *watchlist.Store, searcher Searcher, extractor KeywordExtractor) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger())

	search := NewSearchService(searcher, extractor)
	wl := NewWatchlistService(store)

	api := router.Group("/api")
	{
		api.GET("/search", search.Search)
		api.GET("/movies/:id", search.Details)
		api.POST("/mood-search", search.MoodSearch)

		api.GET("/watchlist", wl.List)
		api.POST("/watchlist", wl.Add)
		api.DELETE("/watchlist/:id", wl.Remove)
		api.POST("/watchlist/plan", wl.Plan)
		api.POST("/watchlist/plan/apply", wl.ApplyPlan)
	}

	return router
}
