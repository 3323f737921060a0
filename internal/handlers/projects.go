package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hackfair/domare/internal/app"
	"github.com/hackfair/domare/internal/models"
)

type ProjectHandler struct {
	service *app.Service
}

func NewProjectHandler(service *app.Service) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.Store.ListProjects()
	if err != nil {
		logger.Error.Printf("Failed to list projects: %v", err)
		respondError(w, http.StatusInternalServerError, "Could not fetch projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	respondJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) HandleListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	projects, err := h.service.Store.ListProjectsByEvent(eventID)
	if err != nil {
		logger.Error.Printf("Failed to list projects for event %d: %v", eventID, err)
		respondError(w, http.StatusInternalServerError, "Could not fetch projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	respondJSON(w, http.StatusOK, projects)
}

// HandleListByStudent returns the student's projects with reviews embedded,
// for the feedback view.
func (h *ProjectHandler) HandleListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student id")
		return
	}

	projects, err := h.service.StudentProjects(studentID)
	if err != nil {
		logger.Error.Printf("Failed to fetch student %d projects: %v", studentID, err)
		respondError(w, http.StatusInternalServerError, "Could not fetch student projects")
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	detail, reviews, err := h.service.ProjectDetail(id)
	if err != nil {
		logger.Error.Printf("Failed to fetch project %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Could not fetch project details")
		return
	}
	if detail == nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"project": detail,
		"reviews": reviews,
	})
}

func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Title, event_id and user_id are required")
		return
	}

	if err := h.service.Store.CreateProject(req.Title, req.Description, req.EventID, req.UserID); err != nil {
		logger.Error.Printf("Project creation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Project added")
}

func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ValidateAdminAuth(r); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	if err := h.service.Store.DeleteProject(id); err != nil {
		logger.Error.Printf("Project deletion failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Project deleted")
}
