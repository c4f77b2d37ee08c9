package repositories

import (
	"errors"
	"fmt"

	"terriertaste/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPreferenceRepository is a GORM implementation of PreferenceRepository.
type GORMPreferenceRepository struct {
	db *gorm.DB
}

// NewGORMPreferenceRepository creates a new instance of GORMPreferenceRepository.
func NewGORMPreferenceRepository(db *gorm.DB) *GORMPreferenceRepository {
	return &GORMPreferenceRepository{
		db: db,
	}
}

// EnsureDefaults lazily creates the user's preference row. Expressed as a
// single INSERT ... ON CONFLICT DO NOTHING so concurrent callers cannot both
// insert.
func (r *GORMPreferenceRepository) EnsureDefaults(userID uint) error {
	pref := models.Preference{
		UserID:           userID,
		DietaryPrefs:     "[]",
		FavoriteCuisines: "[]",
		HomeLocation:     "",
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("failed to ensure default preferences for user %d: %w", userID, err)
	}
	return nil
}

// Upsert performs a full-replace write of the preference fields, keyed on the
// user_id unique constraint.
func (r *GORMPreferenceRepository) Upsert(pref *models.Preference) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dietary_prefs", "favorite_cuisines", "home_location"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to upsert preferences for user %d: %w", pref.UserID, err)
	}
	return nil
}

// GetByUserID retrieves the user's preference row.
func (r *GORMPreferenceRepository) GetByUserID(userID uint) (*models.Preference, error) {
	var pref models.Preference
	if err := r.db.First(&pref, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("preferences for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get preferences for user %d: %w", userID, err)
	}
	return &pref, nil
}
