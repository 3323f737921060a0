package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/models"
)

type AnalyticsHandler struct {
	service *app.Service
}

func NewAnalyticsHandler(service *app.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

func (h *AnalyticsHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Leaderboard()
	if err != nil {
		logger.Error.Printf("Failed to fetch leaderboard: %v", err)
		respondError(w, http.StatusInternalServerError, "Could not load leaderboard")
		return
	}
	if rows == nil {
		rows = []models.LeaderboardRow{}
	}

	respondJSON(w, http.StatusOK, rows)
}

func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.service.Store.FetchAnalyticsSummary()
	if err != nil {
		logger.Error.Printf("Analytics query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Analytics failed")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
