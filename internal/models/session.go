package models

import "time"

// Session maps an opaque bearer token to a user. The token is the primary
// key; logout deletes the row, which is what makes tokens revocable.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
