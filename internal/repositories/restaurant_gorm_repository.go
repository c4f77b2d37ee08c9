package repositories

import (
	"errors"
	"fmt"
	"strings"

	"terriertaste/internal/models"

	"gorm.io/gorm"
)

// GORMRestaurantRepository is a GORM implementation of RestaurantRepository.
type GORMRestaurantRepository struct {
	db *gorm.DB
}

// NewGORMRestaurantRepository creates a new instance of GORMRestaurantRepository.
func NewGORMRestaurantRepository(db *gorm.DB) *GORMRestaurantRepository {
	return &GORMRestaurantRepository{
		db: db,
	}
}

// listingColumns computes the per-row aggregates as scalar subqueries over
// reviews. Aggregates are never stored, so they cannot drift from the ledger;
// COALESCE normalizes "no reviews" to an average of 0.
const listingColumns = `restaurants.*,
	COALESCE((SELECT AVG(reviews.rating) FROM reviews WHERE reviews.restaurant_id = restaurants.id), 0) AS average_rating,
	(SELECT COUNT(*) FROM reviews WHERE reviews.restaurant_id = restaurants.id) AS review_count,
	(SELECT reviews.rating FROM reviews WHERE reviews.restaurant_id = restaurants.id AND reviews.user_id = ?) AS user_rating,
	(SELECT reviews.comment FROM reviews WHERE reviews.restaurant_id = restaurants.id AND reviews.user_id = ?) AS user_comment`

// List runs the listing query. Only supplied filters contribute predicates;
// they are AND-combined. With no viewer the user_* subqueries are probed with
// user id 0, which never exists, so they yield NULL.
func (r *GORMRestaurantRepository) List(filter RestaurantFilter, viewerID *uint) ([]models.RestaurantListing, error) {
	viewer := uint(0)
	if viewerID != nil {
		viewer = *viewerID
	}

	query := r.db.Model(&models.Restaurant{}).Select(listingColumns, viewer, viewer)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(restaurants.name) LIKE ? OR LOWER(restaurants.cuisine) LIKE ?", pattern, pattern)
	}
	if filter.Cuisine != "" {
		query = query.Where("restaurants.cuisine = ?", filter.Cuisine)
	}
	if filter.Price != "" {
		query = query.Where("restaurants.price = ?", filter.Price)
	}
	if filter.Location != "" {
		query = query.Where("restaurants.location = ?", filter.Location)
	}

	listings := make([]models.RestaurantListing, 0)
	err := query.
		Order("average_rating DESC, restaurants.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return listings, nil
}

// Create inserts a new restaurant.
func (r *GORMRestaurantRepository) Create(restaurant *models.Restaurant) error {
	if err := r.db.Create(restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("restaurant with place id: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// GetByID retrieves a single restaurant by its ID.
func (r *GORMRestaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get restaurant by ID %d: %w", id, err)
	}
	return &restaurant, nil
}

// GetByPlaceID retrieves a restaurant by its external place identifier.
func (r *GORMRestaurantRepository) GetByPlaceID(placeID string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "google_place_id = ?", placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant with place id %s: %w", placeID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get restaurant by place id %s: %w", placeID, err)
	}
	return &restaurant, nil
}

// GetByNameAndAddress retrieves a restaurant by exact (name, address). This
// weaker key is only used by the seeder, whose entries have no place id.
func (r *GORMRestaurantRepository) GetByNameAndAddress(name, address string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, "name = ? AND address = ?", name, address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant %q at %q: %w", name, address, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get restaurant %q at %q: %w", name, address, err)
	}
	return &restaurant, nil
}
