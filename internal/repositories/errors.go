package repositories

import "errors"

// Sentinel errors shared by all repository implementations. GORM-level errors
// are translated to these so services can branch without importing gorm.
var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint that
	// the caller is expected to handle (e.g. duplicate email on registration).
	ErrDuplicate = errors.New("record already exists")
)
