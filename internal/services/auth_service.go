package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"terriertaste/internal/models"
	"terriertaste/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Errors the handlers translate to HTTP statuses.
var (
	// ErrEmailTaken is returned when registration hits the email unique
	// constraint. It is distinct from other storage failures so the handler
	// can answer 409 instead of a generic 500.
	ErrEmailTaken = errors.New("an account with that email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// a caller cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when a session token is absent or does
	// not resolve to a user.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AuthService handles registration, login, session resolution and the
// per-user preference row.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	prefRepo    repositories.PreferenceRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, prefRepo repositories.PreferenceRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		prefRepo:    prefRepo,
	}
}

// AuthResult is what register and login hand back to the client: a fresh
// session token plus the user and their preferences.
type AuthResult struct {
	Token       string             `json:"token"`
	User        *models.User       `json:"user"`
	Preferences *models.Preference `json:"preferences"`
}

// Register creates a user with a bcrypt-hashed credential, ensures their
// default preferences exist, and opens a session. The email is lowercased
// before storage so uniqueness is case-insensitive.
func (s *AuthService) Register(name, email, password string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return s.openSession(user)
}

// Login authenticates by email+password and opens a new session.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(user)
}

// openSession ensures the preference row, issues an opaque uuid token and
// persists it.
func (s *AuthService) openSession(user *models.User) (*AuthResult, error) {
	if err := s.prefRepo.EnsureDefaults(user.ID); err != nil {
		return nil, fmt.Errorf("failed to ensure preferences: %w", err)
	}
	prefs, err := s.prefRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	session := &models.Session{
		ID:     uuid.New().String(),
		UserID: user.ID,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResult{Token: session.ID, User: user, Preferences: prefs}, nil
}

// Authenticate resolves an opaque session token to its user. Revoked or
// unknown tokens yield ErrUnauthenticated.
func (s *AuthService) Authenticate(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.sessionRepo.GetUserByToken(token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return user, nil
}

// Logout revokes the session token. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(token)
}

// Preferences returns the user's preference row, creating defaults first if
// the row is absent.
func (s *AuthService) Preferences(userID uint) (*models.Preference, error) {
	if err := s.prefRepo.EnsureDefaults(userID); err != nil {
		return nil, fmt.Errorf("failed to ensure preferences: %w", err)
	}
	return s.prefRepo.GetByUserID(userID)
}

// UpdatePreferences replaces the user's preference fields wholesale. The
// lists are serialized to JSON arrays; nil slices become "[]".
func (s *AuthService) UpdatePreferences(userID uint, dietaryPrefs, favoriteCuisines []string, homeLocation string) (*models.Preference, error) {
	pref := &models.Preference{
		UserID:           userID,
		DietaryPrefs:     marshalStringList(dietaryPrefs),
		FavoriteCuisines: marshalStringList(favoriteCuisines),
		HomeLocation:     homeLocation,
	}
	if err := s.prefRepo.Upsert(pref); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return s.prefRepo.GetByUserID(userID)
}

func marshalStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
