package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/models"
)

type EventHandler struct {
	service *app.Service
}

func NewEventHandler(service *app.Service) *EventHandler {
	return &EventHandler{
		service: service,
	}
}

func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.Store.ListEvents()
	if err != nil {
		logger.Error.Printf("Failed to list events: %v", err)
		respondError(w, http.StatusInternalServerError, "Could not fetch events")
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	respondJSON(w, http.StatusOK, events)
}

func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Name and date are required")
		return
	}

	if err := h.service.Store.CreateEvent(req.Name, req.Date); err != nil {
		logger.Error.Printf("Event creation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Event created")
}

func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	var req models.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Name and date are required")
		return
	}

	if err := h.service.Store.UpdateEvent(id, req.Name, req.Date); err != nil {
		logger.Error.Printf("Event update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Event updated")
}

func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	if err := h.service.Store.DeleteEvent(id); err != nil {
		logger.Error.Printf("Event deletion failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Event deleted")
}
