package repositories

import "terriertaste/internal/models"

// SessionRepository defines the interface for session token storage.
type SessionRepository interface {
	Create(session *models.Session) error
	// GetUserByToken resolves an opaque session token to its user.
	GetUserByToken(token string) (*models.User, error)
	Delete(token string) error
}
