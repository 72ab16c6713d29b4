package models

// Project represents a tracked project owned by a user.
//
// Dates are stored as SQLite datetime text ("2006-01-02 15:04:05"). An empty
// EndDate means the project is still in progress.
type Project struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	OwnerID   int64  `json:"ownerId"`
}

// InProgress reports whether the project has no end date yet.
func (p Project) InProgress() bool {
	return p.EndDate == ""
}
