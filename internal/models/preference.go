package models

// Preference holds per-user dietary and cuisine settings, exactly one row
// per user. DietaryPrefs and FavoriteCuisines are JSON-serialized string
// arrays, defaulting to "[]".
type Preference struct {
	ID               uint   `json:"-" gorm:"primaryKey"`
	UserID           uint   `json:"-" gorm:"uniqueIndex;not null"`
	DietaryPrefs     string `json:"dietary_prefs" gorm:"type:text;default:'[]'"`
	FavoriteCuisines string `json:"favorite_cuisines" gorm:"type:text;default:'[]'"`
	HomeLocation     string `json:"home_location" gorm:"type:text;default:''"`

	User User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
