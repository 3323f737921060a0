package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/models"
)

type StudentHandler struct {
	service *app.Service
}

func NewStudentHandler(service *app.Service) *StudentHandler {
	return &StudentHandler{
		service: service,
	}
}

func (h *StudentHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	profile, err := h.service.LoginStudent(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.Error.Printf("Student login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": profile,
	})
}

func (h *StudentHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	if err := h.service.RegisterStudent(req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, app.ErrDuplicateEmail) {
			respondError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		logger.Error.Printf("Student registration failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusCreated, "Student registered")
}

func (h *StudentHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Id and name are required")
		return
	}

	if err := h.service.UpdateStudentProfile(req.ID, req.Name, req.Password); err != nil {
		logger.Error.Printf("Profile update failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Profile updated")
}
