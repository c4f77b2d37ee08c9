package repositories

import "terriertaste/internal/models"

// PreferenceRepository defines the interface for per-user preference storage.
// There is exactly one row per user; both writes are atomic upserts keyed on
// the user_id unique constraint.
type PreferenceRepository interface {
	// EnsureDefaults inserts an empty preference row for the user if none
	// exists yet, and leaves an existing row untouched.
	EnsureDefaults(userID uint) error
	// Upsert replaces the user's preference fields wholesale.
	Upsert(pref *models.Preference) error
	GetByUserID(userID uint) (*models.Preference, error)
}
