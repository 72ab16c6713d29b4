package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
}
