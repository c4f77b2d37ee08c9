package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"terriertaste/internal/models"
	"terriertaste/internal/repositories"

	"terriertaste/pkg/rabbitmq"
)

// ErrInvalidRating is returned before any write when the rating is outside
// [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ReviewService handles the review ledger: the upsert write path and the
// read views over it.
type ReviewService struct {
	reviewRepo     repositories.ReviewRepository
	restaurantRepo repositories.RestaurantRepository
	mqClient       *rabbitmq.Client
}

// NewReviewService creates a new ReviewService. mqClient may be nil; event
// publishing is then skipped.
func NewReviewService(reviewRepo repositories.ReviewRepository, restaurantRepo repositories.RestaurantRepository, mqClient *rabbitmq.Client) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
		mqClient:       mqClient,
	}
}

// SubmitReview validates the rating, then upserts the (user, restaurant)
// review: first submission inserts, later ones overwrite rating and comment
// in place. Repeated calls with the same inputs leave the ledger unchanged.
func (s *ReviewService) SubmitReview(userID, restaurantID uint, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	if _, err := s.restaurantRepo.GetByID(restaurantID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRestaurantNotFound
		}
		return fmt.Errorf("failed to look up restaurant: %w", err)
	}

	review := &models.Review{
		UserID:       userID,
		RestaurantID: restaurantID,
		Rating:       rating,
		Comment:      comment,
	}
	if err := s.reviewRepo.Upsert(review); err != nil {
		return err
	}

	s.publishEvent("review.submitted", map[string]interface{}{
		"restaurantId": restaurantID,
		"userId":       userID,
		"rating":       rating,
	})

	return nil
}

// ListRestaurantReviews returns a restaurant's reviews with reviewer names,
// newest first.
func (s *ReviewService) ListRestaurantReviews(restaurantID uint) ([]models.RestaurantReview, error) {
	return s.reviewRepo.ListByRestaurant(restaurantID)
}

// ListUserReviews returns the user's review history with restaurant display
// fields, newest first.
func (s *ReviewService) ListUserReviews(userID uint) ([]models.UserReview, error) {
	return s.reviewRepo.ListByUser(userID)
}

// GetUserReview returns the user's review for a restaurant, or (nil, nil)
// when they have not reviewed it.
func (s *ReviewService) GetUserReview(userID, restaurantID uint) (*models.Review, error) {
	return s.reviewRepo.GetByUserAndRestaurant(userID, restaurantID)
}

func (s *ReviewService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
