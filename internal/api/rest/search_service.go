package rest

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"github.com/aayush84339/smart-movie-recommendor/internal/infra/omdb"
)

// SearchService serves movie search and details endpoints.
type SearchService struct {
	searcher  Searcher
	extractor KeywordExtractor
}

// NewSearchService creates a new SearchService.
func NewSearchService(searcher Searcher, extractor KeywordExtractor) *SearchService {
	return &SearchService{searcher: searcher, extractor: extractor}
}

// searchResponse is the payload for /api/search and /api/mood-search.
type searchResponse struct {
	Keywords []string            `json:"keywords,omitempty"`
	Results  []omdb.SearchResult `json:"results"`
	Total    int                 `json:"total"`
}

// moodSearchRequest is the payload for /api/mood-search.
type moodSearchRequest struct {
	Mood string `json:"mood" binding:"required"`
}

// Search handles GET /api/search?q=...&page=N.
func (s *SearchService) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := s.searcher.Search(c.Request.Context(), query, page)
	if err != nil {
		zlog.Error().Err(err).Str("query", query).Msg("search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "movie search failed"})
		return
	}

	c.JSON(http.StatusOK, searchResponse{Results: result.Results, Total: result.Total})
}

// Details handles GET /api/movies/:id.
func (s *SearchService) Details(c *gin.Context) {
	id := c.Param("id")

	e, err := s.searcher.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
			return
		}
		zlog.Error().Err(err).Str("id", id).Msg("details lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "details lookup failed"})
		return
	}

	c.JSON(http.StatusOK, entryPayload(*e))
}

// MoodSearch handles POST /api/mood-search. The mood description is
// turned into keywords, and the first keyword drives an OMDb search so
// the caller gets results in one round trip.
func (s *SearchService) MoodSearch(c *gin.Context) {
	var req moodSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mood is required"})
		return
	}

	keywords, err := s.extractor.Keywords(c.Request.Context(), req.Mood)
	if err != nil {
		zlog.Error().Err(err).Msg("mood extraction failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "mood extraction failed"})
		return
	}

	result, err := s.searcher.Search(c.Request.Context(), keywords[0], 1)
	if err != nil {
		zlog.Error().Err(err).Str("keyword", keywords[0]).Msg("mood search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "movie search failed"})
		return
	}

	c.JSON(http.StatusOK, searchResponse{
		Keywords: keywords,
		Results:  result.Results,
		Total:    result.Total,
	})
}
