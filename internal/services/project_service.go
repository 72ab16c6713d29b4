package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mwestby/projtrack/internal/models"
	"github.com/rs/zerolog/log"
)

// Date layouts: the HTML datetime picker submits wireDateLayout, SQLite's
// DATETIME DEFAULT CURRENT_TIMESTAMP produces storeDateLayout.
const (
	wireDateLayout  = "2006-01-02T15:04:05"
	storeDateLayout = "2006-01-02 15:04:05"
)

// ProjectServiceProvider defines the interface for project services.
type ProjectServiceProvider interface {
	GetProjectByID(id int64) (models.Project, error)
	GetAllProjects() ([]models.Project, error)
	GetProjectsForUser(userID int64) ([]models.Project, error)
	CreateProject(name string, ownerID int64) (models.Project, error)
	UpdateProject(id int64, name, endDate string, actingUserID int64) (models.Project, error)
	DeleteProject(id int64, actingUserID int64) error
}

// ProjectService provides business logic for project management.
type ProjectService struct {
	db       *sql.DB
	activity ActivityServiceProvider
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *sql.DB, activity ActivityServiceProvider) *ProjectService {
	return &ProjectService{db: db, activity: activity}
}

// GetProjectByID retrieves a single project by its ID.
func (s *ProjectService) GetProjectByID(id int64) (models.Project, error) {
	var p models.Project
	row := s.db.QueryRow("SELECT id, name, start_date, end_date, owner_id FROM project WHERE id = ?", id)
	err := row.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
		}
		return models.Project{}, err
	}
	return p, nil
}

// GetAllProjects retrieves every project. Undecodable rows are skipped and
// logged, they never abort the listing.
func (s *ProjectService) GetAllProjects() ([]models.Project, error) {
	rows, err := s.db.Query("SELECT id, name, start_date, end_date, owner_id FROM project ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// GetProjectsForUser retrieves all projects owned by the given user. A user
// with no projects gets an empty list, not an error.
func (s *ProjectService) GetProjectsForUser(userID int64) ([]models.Project, error) {
	rows, err := s.db.Query("SELECT id, name, start_date, end_date, owner_id FROM project WHERE owner_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

// CreateProject inserts a new project owned by ownerID with an empty end date.
func (s *ProjectService) CreateProject(name string, ownerID int64) (models.Project, error) {
	if name == "" {
		return models.Project{}, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	res, err := s.db.Exec("INSERT INTO project (name, end_date, owner_id) VALUES (?, '', ?)", name, ownerID)
	if err != nil {
		return models.Project{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Project{}, err
	}

	project, err := s.GetProjectByID(id)
	if err != nil {
		return models.Project{}, err
	}

	s.logActivity("project.create", "info", fmt.Sprintf("Project %q created by user %d", name, ownerID), &id)
	return project, nil
}

// UpdateProject replaces a project's name and end date, keyed by project id.
// Only the owner may edit. A blank end date stays blank ("in progress"),
// otherwise the date is rewritten from the wire format to the storage format
// and a malformed date fails the operation.
func (s *ProjectService) UpdateProject(id int64, name, endDate string, actingUserID int64) (models.Project, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return models.Project{}, err
	}
	if project.OwnerID != actingUserID {
		return models.Project{}, fmt.Errorf("project %d: %w", id, ErrNotAuthorized)
	}

	normalized, err := normalizeEndDate(endDate)
	if err != nil {
		return models.Project{}, err
	}

	_, err = s.db.Exec("UPDATE project SET name = ?, end_date = ? WHERE id = ?", name, normalized, id)
	if err != nil {
		return models.Project{}, err
	}

	s.logActivity("project.update", "info", fmt.Sprintf("Project %d updated by user %d", id, actingUserID), &id)
	return s.GetProjectByID(id)
}

// DeleteProject removes a project. Only the owner may delete it; a non-owner
// gets ErrNotAuthorized and the project is left intact.
func (s *ProjectService) DeleteProject(id int64, actingUserID int64) error {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return err
	}
	if project.OwnerID != actingUserID {
		return fmt.Errorf("project %d: %w", id, ErrNotAuthorized)
	}

	if _, err := s.db.Exec("DELETE FROM project WHERE id = ?", id); err != nil {
		return err
	}

	s.logActivity("project.delete", "info", fmt.Sprintf("Project %q deleted by user %d", project.Name, actingUserID), nil)
	return nil
}

func (s *ProjectService) logActivity(activityType, level, message string, projectID *int64) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(activityType, level, message, projectID); err != nil {
		log.Error().Err(err).Str("type", activityType).Msg("Failed to record activity")
	}
}

// normalizeEndDate rewrites "2006-01-02T15:04:05" to "2006-01-02 15:04:05".
// Empty input is the "in progress" sentinel and passes through unchanged.
func normalizeEndDate(endDate string) (string, error) {
	if endDate == "" {
		return "", nil
	}
	t, err := time.Parse(wireDateLayout, endDate)
	if err != nil {
		return "", fmt.Errorf("%w: malformed end date %q", ErrValidation, endDate)
	}
	return t.Format(storeDateLayout), nil
}

func scanProjects(rows *sql.Rows) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.OwnerID); err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable project row")
			continue
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
