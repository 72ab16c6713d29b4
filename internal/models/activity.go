package models

import "time"

// Activity represents a loggable action in the system, e.g. a project being
// created or deleted. Shown to admins on the activity feed.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "project.create", "user.register"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	ProjectID *int64    `json:"projectId,omitempty"` // Nullable for non-project activity
	CreatedAt time.Time `json:"createdAt"`
}
