package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

type SummaryReader interface {
	Summary(ctx context.Context) domain.Summary
}

type RecentReader interface {
	Recent(ctx context.Context, limit int) ([]domain.Result, error)
}

type ResultsHandler struct {
	Results SummaryReader
	// Archive is nil when no database is configured.
	Archive RecentReader
}

func NewResultsHandler(results SummaryReader, archive RecentReader) *ResultsHandler {
	return &ResultsHandler{Results: results, Archive: archive}
}

type resultsResponse struct {
	Summary domain.Summary  `json:"summary"`
	Total   int64           `json:"total"`
	Recent  []domain.Result `json:"recent,omitempty"`
}

func (h *ResultsHandler) GetResults(c *gin.Context) {
	summary := h.Results.Summary(c.Request.Context())
	resp := resultsResponse{Summary: summary, Total: summary.Total()}

	if h.Archive != nil {
		limit := defaultRecentLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxRecentLimit)
		}

		recent, err := h.Archive.Recent(c.Request.Context(), limit)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
			return
		}
		resp.Recent = recent
	}

	c.JSON(http.StatusOK, resp)
}
