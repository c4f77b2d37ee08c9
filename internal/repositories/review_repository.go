package repositories

import "terriertaste/internal/models"

// ReviewRepository defines the interface for the review ledger. At most one
// review exists per (user, restaurant); writes go through Upsert.
type ReviewRepository interface {
	// Upsert inserts the review, or, when one already exists for the same
	// (user, restaurant), overwrites its rating and comment in place. The
	// conflict resolution is a single atomic statement.
	Upsert(review *models.Review) error
	// GetByUserAndRestaurant returns the user's review for the restaurant, or
	// (nil, nil) when none exists.
	GetByUserAndRestaurant(userID, restaurantID uint) (*models.Review, error)
	// ListByRestaurant returns all reviews for a restaurant with the reviewer
	// name attached, newest first.
	ListByRestaurant(restaurantID uint) ([]models.RestaurantReview, error)
	// ListByUser returns all of a user's reviews with restaurant display
	// fields attached, newest first.
	ListByUser(userID uint) ([]models.UserReview, error)
}
