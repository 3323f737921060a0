package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/models"
)

type JudgeHandler struct {
	service *app.Service
}

func NewJudgeHandler(service *app.Service) *JudgeHandler {
	return &JudgeHandler{
		service: service,
	}
}

type judgeID struct {
	ID string `json:"id"`
}

func (h *JudgeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.Store.ListJudgeIDs()
	if err != nil {
		logger.Error.Printf("Failed to list judges: %v", err)
		respondError(w, http.StatusInternalServerError, "Could not fetch judges")
		return
	}

	out := make([]judgeID, 0, len(ids))
	for _, id := range ids {
		out = append(out, judgeID{ID: id})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *JudgeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.CreateJudgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Id and password are required")
		return
	}

	if err := h.service.CreateJudge(req.ID, req.Password); err != nil {
		if errors.Is(err, app.ErrJudgeExists) {
			respondError(w, http.StatusBadRequest, "Judge already exists")
			return
		}
		logger.Error.Printf("Judge creation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Judge created")
}

func (h *JudgeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Invalid judge id")
		return
	}

	if err := h.service.DeleteJudge(r.Context(), id); err != nil {
		logger.Error.Printf("Judge deletion failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Judge deleted")
}

func (h *JudgeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateJudgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Id is required")
		return
	}

	if err := h.service.UpdateJudgePassword(req.ID, req.Password); err != nil {
		logger.Error.Printf("Judge password update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Password updated")
}

func (h *JudgeHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.JudgeLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Id and password are required")
		return
	}

	info, err := h.service.LoginJudge(r.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.Error.Printf("Judge login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (h *JudgeHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.AssignJudgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "JudgeId and eventId are required")
		return
	}

	if err := h.service.Store.AssignJudge(req.JudgeID, req.EventID); err != nil {
		logger.Error.Printf("Judge assignment failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Judge assigned")
}

func (h *JudgeHandler) HandleAssignedEvents(w http.ResponseWriter, r *http.Request) {
	judgeID := r.PathValue("judgeId")
	if judgeID == "" {
		respondError(w, http.StatusBadRequest, "Invalid judge id")
		return
	}

	if err := h.service.ValidateJudgeAuth(r, judgeID); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	events, err := h.service.Store.ListEventsForJudge(judgeID)
	if err != nil {
		logger.Error.Printf("Failed to list events for judge %s: %v", judgeID, err)
		respondError(w, http.StatusInternalServerError, "Could not fetch events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	respondJSON(w, http.StatusOK, events)
}
