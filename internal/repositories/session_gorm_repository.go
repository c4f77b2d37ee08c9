package repositories

import (
	"errors"
	"fmt"

	"terriertaste/internal/models"

	"gorm.io/gorm"
)

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// Create stores a new session token.
func (r *GORMSessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetUserByToken joins sessions to users and returns the session's owner.
func (r *GORMSessionRepository) GetUserByToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Table("users").
		Select("users.id, users.name, users.email, users.created_at").
		Joins("JOIN sessions ON sessions.user_id = users.id").
		Where("sessions.id = ?", token).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve session token: %w", err)
	}
	return &user, nil
}

// Delete revokes a session token. Deleting an unknown token is not an error.
func (r *GORMSessionRepository) Delete(token string) error {
	if err := r.db.Delete(&models.Session{}, "id = ?", token).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
