package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"

	"github.com/aayush84339/smart-movie-recommendor/internal/app/planner"
	"github.com/aayush84339/smart-movie-recommendor/internal/app/scoring"
	"github.com/aayush84339/smart-movie-recommendor/internal/app/watchlist"
	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
)

// WatchlistService serves watchlist state and budget planning endpoints.
type WatchlistService struct {
	store *watchlist.Store
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(store *watchlist.Store) *WatchlistService {
	return &WatchlistService{store: store}
}

// entryJSON is the wire form of a watchlist entry with derived fields.
type entryJSON struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Year         string  `json:"year,omitempty"`
	Poster       string  `json:"poster,omitempty"`
	DurationText string  `json:"duration_text"`
	RatingText   string  `json:"rating_text"`
	Minutes      int     `json:"minutes"`
	Score        float64 `json:"score"`
}

// listResponse is the payload for GET /api/watchlist.
type listResponse struct {
	Entries      []entryJSON `json:"entries"`
	Count        int         `json:"count"`
	TotalMinutes int         `json:"total_minutes"`
}

// addRequest is the payload for POST /api/watchlist. Everything besides
// the ID is optional; missing runtime triggers a details lookup.
type addRequest struct {
	ID           string `json:"id" binding:"required"`
	Title        string `json:"title"`
	Year         string `json:"year"`
	Poster       string `json:"poster"`
	DurationText string `json:"duration_text"`
	RatingText   string `json:"rating_text"`
}

// planRequest is the payload for the plan endpoints.
type planRequest struct {
	BudgetMinutes float64 `json:"budget_minutes"`
}

// planResponse is the payload for the plan endpoints.
type planResponse struct {
	PlanID           string      `json:"plan_id"`
	BudgetMinutes    float64     `json:"budget_minutes"`
	TotalMinutes     int         `json:"total_minutes"`
	RemainingMinutes int         `json:"remaining_minutes"`
	Fits             bool        `json:"fits"`
	DropList         []entryJSON `json:"drop_list"`
	Applied          bool        `json:"applied,omitempty"`
}

func entryPayload(e entry.Entry) entryJSON {
	return entryJSON{
		ID:           e.ID,
		Title:        e.Title,
		Year:         e.Year,
		Poster:       e.Poster,
		DurationText: e.DurationText,
		RatingText:   e.RatingText,
		Minutes:      e.Minutes(),
		Score:        scoring.Score(e),
	}
}

func planPayload(p planner.Plan, budget float64) planResponse {
	drops := make([]entryJSON, len(p.DropList))
	for i, e := range p.DropList {
		drops[i] = entryPayload(e)
	}
	return planResponse{
		PlanID:           p.ID,
		BudgetMinutes:    budget,
		TotalMinutes:     p.TotalMinutes,
		RemainingMinutes: p.RemainingMinutes,
		Fits:             p.Fits(budget),
		DropList:         drops,
	}
}

// List handles GET /api/watchlist.
func (s *WatchlistService) List(c *gin.Context) {
	scored := s.store.ListScored()

	entries := make([]entryJSON, len(scored))
	for i, se := range scored {
		entries[i] = entryPayload(se.Entry)
	}

	c.JSON(http.StatusOK, listResponse{
		Entries:      entries,
		Count:        len(entries),
		TotalMinutes: s.store.TotalMinutes(),
	})
}

// Add handles POST /api/watchlist.
func (s *WatchlistService) Add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	candidate := entry.Entry{
		ID:           req.ID,
		Title:        req.Title,
		Year:         req.Year,
		Poster:       req.Poster,
		DurationText: req.DurationText,
		RatingText:   req.RatingText,
	}

	already := s.store.Contains(req.ID)
	if err := s.store.Add(c.Request.Context(), candidate); err != nil {
		zlog.Error().Err(err).Str("id", req.ID).Msg("watchlist add failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"count": s.store.Len(), "total_minutes": s.store.TotalMinutes()})
}

// Remove handles DELETE /api/watchlist/:id. Removing an absent entry is
// not an error; the end state is the same.
func (s *WatchlistService) Remove(c *gin.Context) {
	s.store.Remove(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Plan handles POST /api/watchlist/plan. It suggests removals without
// touching the stored watchlist.
func (s *WatchlistService) Plan(c *gin.Context) {
	budget, ok := s.bindBudget(c)
	if !ok {
		return
	}

	plan := planner.Optimize(s.store.List(), budget)
	zlog.Info().
		Str("plan_id", plan.ID).
		Float64("budget_minutes", budget).
		Int("drops", len(plan.DropList)).
		Int("remaining_minutes", plan.RemainingMinutes).
		Msg("computed watchlist plan")

	c.JSON(http.StatusOK, planPayload(plan, budget))
}

// ApplyPlan handles POST /api/watchlist/plan/apply. It computes a plan
// and immediately removes the suggested entries from the store.
func (s *WatchlistService) ApplyPlan(c *gin.Context) {
	budget, ok := s.bindBudget(c)
	if !ok {
		return
	}

	plan := planner.Optimize(s.store.List(), budget)
	for _, e := range plan.DropList {
		s.store.Remove(c.Request.Context(), e.ID)
	}

	zlog.Info().
		Str("plan_id", plan.ID).
		Float64("budget_minutes", budget).
		Int("removed", len(plan.DropList)).
		Msg("applied watchlist plan")

	resp := planPayload(plan, budget)
	resp.Applied = true
	c.JSON(http.StatusOK, resp)
}

// bindBudget parses and validates the budget from the request body,
// writing the 400 response itself on failure.
func (s *WatchlistService) bindBudget(c *gin.Context) (float64, bool) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget_minutes must be a number"})
		return 0, false
	}
	if err := planner.ValidateBudget(req.BudgetMinutes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return req.BudgetMinutes, true
}
