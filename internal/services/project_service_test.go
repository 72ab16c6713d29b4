package services

import (
	"errors"
	"testing"

	"github.com/mwestby/projtrack/internal/models"
)

func seedUser(t *testing.T, users *UserService, email string) models.User {
	t.Helper()
	user, err := users.CreateUser(email, "pw123")
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func TestCreateProject(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")

	project, err := projects.CreateProject("Website", alice.ID)
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if project.Name != "Website" {
		t.Fatalf("name mismatch: got %q", project.Name)
	}
	if project.OwnerID != alice.ID {
		t.Fatalf("owner mismatch: got %d want %d", project.OwnerID, alice.ID)
	}
	if !project.InProgress() {
		t.Fatalf("new project must have an empty end date, got %q", project.EndDate)
	}
	if project.StartDate == "" {
		t.Fatalf("expected a default start date")
	}
}

func TestCreateProject_EmptyName(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")

	if _, err := projects.CreateProject("", alice.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestGetProjectsForUser_Empty(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")

	list, err := projects.GetProjectsForUser(alice.ID)
	if err != nil {
		t.Fatalf("GetProjectsForUser error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list for user with no projects, got %d", len(list))
	}
}

func TestUpdateProject_DateHandling(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")
	project, err := projects.CreateProject("Website", alice.ID)
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}

	// Wire format gets rewritten to the storage format.
	updated, err := projects.UpdateProject(project.ID, "Website", "2020-01-01T10:00:00", alice.ID)
	if err != nil {
		t.Fatalf("UpdateProject error: %v", err)
	}
	if updated.EndDate != "2020-01-01 10:00:00" {
		t.Fatalf("end date not normalized: got %q want %q", updated.EndDate, "2020-01-01 10:00:00")
	}

	// Blank end date persists as blank ("in progress").
	updated, err = projects.UpdateProject(project.ID, "Website v2", "", alice.ID)
	if err != nil {
		t.Fatalf("UpdateProject error: %v", err)
	}
	if updated.EndDate != "" {
		t.Fatalf("blank end date must stay blank, got %q", updated.EndDate)
	}
	if updated.Name != "Website v2" {
		t.Fatalf("name not updated: got %q", updated.Name)
	}

	// A malformed date fails the operation instead of silently defaulting.
	if _, err := projects.UpdateProject(project.ID, "Website", "01/01/2020", alice.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for malformed date, got %v", err)
	}
}

func TestUpdateProject_NonOwner(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")

	project, err := projects.CreateProject("Website", alice.ID)
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}

	if _, err := projects.UpdateProject(project.ID, "Hijacked", "", bob.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	unchanged, err := projects.GetProjectByID(project.ID)
	if err != nil {
		t.Fatalf("GetProjectByID error: %v", err)
	}
	if unchanged.Name != "Website" {
		t.Fatalf("project must be left intact, got name %q", unchanged.Name)
	}
}

// The full scenario: alice registers and creates "Website", bob cannot delete
// it, alice can, and afterwards the project is gone.
func TestDeleteProject_OwnershipScenario(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")

	project, err := projects.CreateProject("Website", alice.ID)
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}

	list, err := projects.GetProjectsForUser(alice.ID)
	if err != nil {
		t.Fatalf("GetProjectsForUser error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Website" || !list[0].InProgress() {
		t.Fatalf("unexpected listing: %+v", list)
	}

	// Non-owner delete must fail and leave the project intact.
	if err := projects.DeleteProject(project.ID, bob.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := projects.GetProjectByID(project.ID); err != nil {
		t.Fatalf("project should still exist after failed delete: %v", err)
	}

	// Owner delete succeeds.
	if err := projects.DeleteProject(project.ID, alice.ID); err != nil {
		t.Fatalf("DeleteProject error: %v", err)
	}
	if _, err := projects.GetProjectByID(project.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a project that never existed is NotFound, not NotAuthorized.
	if err := projects.DeleteProject(9999, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}
}

func TestGetAllProjects(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")

	if _, err := projects.CreateProject("Website", alice.ID); err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if _, err := projects.CreateProject("Backend", bob.ID); err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}

	all, err := projects.GetAllProjects()
	if err != nil {
		t.Fatalf("GetAllProjects error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(all))
	}
}

func TestProjectListings_SkipUndecodableRow(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, nil)
	projects := NewProjectService(db, nil)

	alice := seedUser(t, users, "alice@example.com")
	if _, err := projects.CreateProject("Website", alice.ID); err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}

	// Foreign keys off just long enough to plant a row whose owner id
	// cannot be decoded as an integer.
	if _, err := db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		t.Fatalf("failed to disable foreign keys: %v", err)
	}
	if _, err := db.Exec("INSERT INTO project (name, end_date, owner_id) VALUES ('Broken', '', 'abc')"); err != nil {
		t.Fatalf("failed to seed broken row: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to re-enable foreign keys: %v", err)
	}

	all, err := projects.GetAllProjects()
	if err != nil {
		t.Fatalf("GetAllProjects error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the broken row to be skipped, got %d projects", len(all))
	}
	if all[0].Name != "Website" {
		t.Fatalf("wrong surviving row: %+v", all[0])
	}
}

func TestActivityRecording(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db, nil)
	users := NewUserService(db, activity)
	projects := NewProjectService(db, activity)

	alice := seedUser(t, users, "alice@example.com")
	project, err := projects.CreateProject("Website", alice.ID)
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if err := projects.DeleteProject(project.ID, alice.ID); err != nil {
		t.Fatalf("DeleteProject error: %v", err)
	}

	recent, err := activity.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent error: %v", err)
	}
	// user.register, project.create, project.delete
	if len(recent) != 3 {
		t.Fatalf("expected 3 activity entries, got %d", len(recent))
	}
	types := map[string]bool{}
	for _, a := range recent {
		types[a.Type] = true
	}
	for _, want := range []string{"user.register", "project.create", "project.delete"} {
		if !types[want] {
			t.Fatalf("missing activity type %q in %v", want, types)
		}
	}
}
