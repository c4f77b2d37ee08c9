package repositories

import (
	"errors"
	"fmt"

	"terriertaste/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// Upsert writes the review as INSERT ... ON CONFLICT(user_id, restaurant_id)
// DO UPDATE SET rating, comment. The existing row's id and created_at are
// untouched on conflict, and two concurrent submissions for the same pair
// cannot both insert.
func (r *GORMReviewRepository) Upsert(review *models.Review) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "restaurant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment"}),
	}).Create(review).Error
	if err != nil {
		return fmt.Errorf("failed to upsert review for user %d restaurant %d: %w", review.UserID, review.RestaurantID, err)
	}
	return nil
}

// GetByUserAndRestaurant returns the user's review for the restaurant, or
// (nil, nil) when the user has not reviewed it.
func (r *GORMReviewRepository) GetByUserAndRestaurant(userID, restaurantID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "user_id = ? AND restaurant_id = ?", userID, restaurantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review for user %d restaurant %d: %w", userID, restaurantID, err)
	}
	return &review, nil
}

// ListByRestaurant returns all reviews for a restaurant joined with the
// reviewer's display name, newest first.
func (r *GORMReviewRepository) ListByRestaurant(restaurantID uint) ([]models.RestaurantReview, error) {
	reviews := make([]models.RestaurantReview, 0)
	err := r.db.Table("reviews").
		Select("reviews.id, reviews.user_id, reviews.restaurant_id, reviews.rating, reviews.comment, reviews.created_at, users.name AS reviewer_name").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.restaurant_id = ?", restaurantID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for restaurant %d: %w", restaurantID, err)
	}
	return reviews, nil
}

// ListByUser returns the user's review history joined with each restaurant's
// display fields, newest first.
func (r *GORMReviewRepository) ListByUser(userID uint) ([]models.UserReview, error) {
	reviews := make([]models.UserReview, 0)
	err := r.db.Table("reviews").
		Select(`reviews.id, reviews.user_id, reviews.restaurant_id, reviews.rating, reviews.comment, reviews.created_at,
			restaurants.name AS restaurant_name,
			restaurants.cuisine AS restaurant_cuisine,
			restaurants.location AS restaurant_location,
			restaurants.price AS restaurant_price`).
		Joins("JOIN restaurants ON restaurants.id = reviews.restaurant_id").
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for user %d: %w", userID, err)
	}
	return reviews, nil
}
