package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mwestby/projtrack/internal/api"
	"github.com/mwestby/projtrack/internal/auth"
	"github.com/mwestby/projtrack/internal/config"
	"github.com/mwestby/projtrack/internal/database"
	"github.com/mwestby/projtrack/internal/logger"
	"github.com/mwestby/projtrack/internal/services"
	"github.com/mwestby/projtrack/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the live activity feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	activityService := services.NewActivityService(db, hub)
	userService := services.NewUserService(db, activityService)
	projectService := services.NewProjectService(db, activityService)

	// Set up sessions
	session := auth.NewSessionManager(cfg.SessionSecret, cfg.IsProduction(), userService)

	// Set up router
	router := api.NewRouter(session, hub, userService, projectService, activityService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
