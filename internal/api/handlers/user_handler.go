package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mwestby/projtrack/internal/auth"
	"github.com/mwestby/projtrack/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for registration, sessions and user pages.
type UserHandler struct {
	users    services.UserServiceProvider
	projects services.ProjectServiceProvider
	session  *auth.SessionManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, projects services.ProjectServiceProvider, session *auth.SessionManager) *UserHandler {
	return &UserHandler{users: users, projects: projects, session: session}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	if payload.Password != payload.ConfirmPassword {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(payload.Email, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and issues the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	user, err := h.users.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeServiceError(w, err)
		return
	}

	if err := h.session.Issue(w, user); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// GetMe returns the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Get returns a user's public page: the account plus their projects.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		writeServiceError(w, err)
		return
	}

	projects, err := h.projects.GetProjectsForUser(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to list projects for user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":     user,
		"projects": projects,
	})
}

// GetAll returns every user plus aggregate counts. Admin only.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	adminCount := 0
	for _, u := range users {
		if u.Admin {
			adminCount++
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":      users,
		"userCount":  len(users),
		"adminCount": adminCount,
	})
}
