package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mwestby/projtrack/internal/models"
	"github.com/mwestby/projtrack/internal/security"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetAllUsers() ([]models.User, error)
	CreateUser(email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db       *sql.DB
	activity ActivityServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, activity ActivityServiceProvider) *UserService {
	return &UserService{db: db, activity: activity}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, admin, created_at FROM user WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, admin, created_at FROM user WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetAllUsers retrieves every user account. A row that fails to decode is
// skipped and logged, it never aborts the whole listing.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, email, password_hash, admin, created_at FROM user ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Admin, &user.CreatedAt); err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable user row")
			continue
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(email, password string) (models.User, error) {
	hashed, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO user (email, password_hash) VALUES (?, ?)", email, hashed)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, fmt.Errorf("%w: email already registered", ErrValidation)
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return models.User{}, err
	}

	if s.activity != nil {
		if err := s.activity.Record("user.register", "info", fmt.Sprintf("User %s registered", email), nil); err != nil {
			log.Error().Err(err).Str("email", email).Msg("Failed to record activity")
		}
	}
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
//
// An unknown email and a wrong password both come back as
// ErrInvalidCredentials so callers cannot tell registered emails apart.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
