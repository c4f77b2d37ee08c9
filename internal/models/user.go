package models

import "time"

// User represents a registered account. Emails are stored lowercased and
// looked up case-insensitively by lowering the input first.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"` // Never serialized
	CreatedAt    time.Time `json:"created_at"`
}
