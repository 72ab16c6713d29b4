package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mwestby/projtrack/internal/auth"
	"github.com/mwestby/projtrack/internal/services"
	"github.com/rs/zerolog/log"
)

// ProjectHandler handles HTTP requests for project management.
type ProjectHandler struct {
	projects services.ProjectServiceProvider
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects services.ProjectServiceProvider) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProjectPayload defines the structure for project creation requests.
type CreateProjectPayload struct {
	Name string `json:"name" validate:"required"`
}

// UpdateProjectPayload defines the structure for project edit requests.
// An empty end date keeps the project "in progress".
type UpdateProjectPayload struct {
	Name    string `json:"name" validate:"required"`
	EndDate string `json:"endDate"`
}

// ListMine returns the authenticated user's projects (their profile listing).
func (h *ProjectHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	projects, err := h.projects.GetProjectsForUser(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list projects")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// ListForUser returns the projects of an arbitrary user.
func (h *ProjectHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	projects, err := h.projects.GetProjectsForUser(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to list projects for user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Create adds a new project owned by the authenticated user.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var payload CreateProjectPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	project, err := h.projects.CreateProject(payload.Name, user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create project")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Get returns a single project. Only the owner may view it.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := projectID(w, r)
	if !ok {
		return
	}

	project, err := h.projects.GetProjectByID(id)
	if err != nil {
		log.Warn().Err(err).Int64("project_id", id).Msg("Failed to get project")
		writeServiceError(w, err)
		return
	}
	if project.OwnerID != user.ID {
		http.Error(w, "You are not the owner of this resource", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Update replaces a project's name and end date. Only the owner may edit.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var payload UpdateProjectPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	project, err := h.projects.UpdateProject(id, payload.Name, payload.EndDate, user.ID)
	if err != nil {
		log.Warn().Err(err).Int64("project_id", id).Int64("user_id", user.ID).Msg("Failed to update project")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete removes a project. Only the owner may delete it.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := h.projects.DeleteProject(id, user.ID); err != nil {
		log.Warn().Err(err).Int64("project_id", id).Int64("user_id", user.ID).Msg("Failed to delete project")
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAll returns every project plus aggregate stats. Admin only.
func (h *ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.GetAllProjects()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list projects")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	inProgress := 0
	for _, p := range projects {
		if p.InProgress() {
			inProgress++
		}
	}
	percentage := 0.0
	if len(projects) > 0 {
		percentage = float64(inProgress) / float64(len(projects)) * 100.0
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects":          projects,
		"projectCount":      len(projects),
		"inProgress":        inProgress,
		"inProgressPercent": percentage,
	})
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
