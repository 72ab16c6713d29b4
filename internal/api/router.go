package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mwestby/projtrack/internal/api/handlers"
	"github.com/mwestby/projtrack/internal/auth"
	"github.com/mwestby/projtrack/internal/services"
	"github.com/mwestby/projtrack/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	session *auth.SessionManager,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	projectService services.ProjectServiceProvider,
	activityService services.ActivityServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Resolve the optional identity once per request.
	r.Use(session.CurrentUser)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, projectService, session)
	projectHandler := handlers.NewProjectHandler(projectService)
	activityHandler := handlers.NewActivityHandler(activityService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Easter egg carried over from the first version of the app.
	r.Get("/egg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("🥚"))
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Session endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Get("/auth/logout", userHandler.Logout)
		r.With(auth.RequireUser).Get("/auth/me", userHandler.GetMe)

		// Public user pages
		r.Get("/users/{id}", userHandler.Get)
		r.Get("/users/{id}/projects", projectHandler.ListForUser)

		// Project CRUD, owner-gated inside the services
		r.Route("/projects", func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/", projectHandler.ListMine)
			r.Post("/", projectHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Put("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
			})
		})

		// Aggregate listings and the live feed, admin-gated
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/users", userHandler.GetAll)
			r.Get("/projects", projectHandler.GetAll)
			r.Get("/activity", activityHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
