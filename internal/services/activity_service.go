package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mwestby/projtrack/internal/models"
	"github.com/mwestby/projtrack/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ActivityServiceProvider defines the interface for activity logging.
type ActivityServiceProvider interface {
	Record(activityType, level, message string, projectID *int64) error
	GetRecent(limit int) ([]models.Activity, error)
}

// ActivityService persists activity records and pushes them to the live feed.
type ActivityService struct {
	db  *sql.DB
	hub *websocket.Hub // may be nil (tests, CLI use)
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB, hub *websocket.Hub) *ActivityService {
	return &ActivityService{db: db, hub: hub}
}

// Record logs a new activity entry to the database and broadcasts it to
// connected feed clients.
func (s *ActivityService) Record(activityType, level, message string, projectID *int64) error {
	// Stamp the record here rather than relying on the column default, so
	// the broadcast payload and the stored row carry the same timestamp.
	activity := models.Activity{
		ID:        uuid.New().String(),
		Type:      activityType,
		Level:     level,
		Message:   message,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec("INSERT INTO activity (id, type, level, message, project_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		activity.ID, activity.Type, activity.Level, activity.Message, activity.ProjectID, activity.CreatedAt)
	if err != nil {
		return err
	}

	s.broadcast(activity)
	return nil
}

// GetRecent retrieves the most recent activity entries. Undecodable rows are
// skipped and logged.
func (s *ActivityService) GetRecent(limit int) ([]models.Activity, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, project_id, created_at FROM activity ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Level, &a.Message, &a.ProjectID, &a.CreatedAt); err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable activity row")
			continue
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (s *ActivityService) broadcast(activity models.Activity) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(websocket.Message{Action: "activity", Payload: activity})
	if err != nil {
		log.Error().Err(err).Msg("Error marshalling activity for broadcast")
		return
	}
	s.hub.Broadcast <- payload
}
