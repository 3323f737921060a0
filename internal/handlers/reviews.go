package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/metrics"
	"github.com/hackfair/domare/internal/models"
)

type ReviewHandler struct {
	service *app.Service
}

func NewReviewHandler(service *app.Service) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// HandleSubmit saves a judge's review. Resubmitting for the same project
// overwrites the previous score and feedback, there is no history.
func (h *ReviewHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "JudgeId and projectId are required")
		return
	}

	if err := h.service.ValidateJudgeAuth(r, req.JudgeID); err != nil {
		logger.Error.Printf("Auth failed for judge %s: %v", req.JudgeID, err)
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Scores.Validate(req.Score); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	review := models.Review{
		JudgeID:   req.JudgeID,
		ProjectID: req.ProjectID,
		Score:     req.Score,
		Feedback:  req.Feedback,
	}
	if err := h.service.Store.UpsertReview(&review); err != nil {
		logger.Error.Printf("Review upsert failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Could not save review")
		return
	}

	metrics.ReviewsTotal.WithLabelValues(req.JudgeID).Inc()
	metrics.ReviewScoreHistogram.Observe(float64(req.Score))

	respondMessage(w, http.StatusOK, "Review saved")
}
