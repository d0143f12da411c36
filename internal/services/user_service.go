package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Sandy853/TaskForge-AI/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned when signing up with a username that
	// already has an account.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// login failures so the caller cannot tell which occurred.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserNotFound is returned by lookups for usernames with no account.
	ErrUserNotFound = errors.New("user not found")
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(username, password string) (models.User, error)
	AuthenticateUser(username, password string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	UsernameExists(username string) (bool, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser creates a new user, hashing their password. The UNIQUE
// constraint on username is the authority for uniqueness: of two racing
// signups for the same name, exactly one insert succeeds.
func (s *UserService) CreateUser(username, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, password_hash) VALUES(?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// GetUserByUsername retrieves a single user, including the password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// UsernameExists reports whether an account exists for the username. Used
// by the auth middleware to resolve token subjects.
func (s *UserService) UsernameExists(username string) (bool, error) {
	_, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
