package models

import "time"

// Review is one rating+comment per (user, restaurant) pair, enforced by the
// composite unique index. Overwrites happen in place: the id and CreatedAt of
// the first submission survive later ones.
type Review struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_restaurant"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_reviews_user_restaurant"`
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      string    `json:"comment" gorm:"type:text;default:''"`
	CreatedAt    time.Time `json:"created_at"`

	User       User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Restaurant Restaurant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// RestaurantReview is a review joined with the reviewer's display name, for
// the per-restaurant review list.
type RestaurantReview struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	RestaurantID uint      `json:"restaurant_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	ReviewerName string    `json:"reviewer_name"`
}

// UserReview is a review joined with its restaurant's display fields, for the
// "my reviews" history view.
type UserReview struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	RestaurantID       uint      `json:"restaurant_id"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	CreatedAt          time.Time `json:"created_at"`
	RestaurantName     string    `json:"restaurant_name"`
	RestaurantCuisine  string    `json:"restaurant_cuisine"`
	RestaurantLocation string    `json:"restaurant_location"`
	RestaurantPrice    string    `json:"restaurant_price"`
}
