package repositories

import "terriertaste/internal/models"

// RestaurantFilter carries the optional listing criteria. Zero-valued string
// fields match everything; Limit and Offset are applied as given.
type RestaurantFilter struct {
	Search   string // case-insensitive substring over name OR cuisine
	Cuisine  string // exact match, as stored
	Price    string // exact match, as stored
	Location string // exact match, as stored
	Limit    int
	Offset   int
}

// RestaurantRepository defines the interface for catalog data access,
// including the listing query that joins in review aggregates.
type RestaurantRepository interface {
	// List returns every restaurant matching all supplied criteria, annotated
	// with average_rating, review_count and, when viewerID is non-nil, the
	// viewer's own rating and comment. Ordered by average rating descending,
	// then creation time descending.
	List(filter RestaurantFilter, viewerID *uint) ([]models.RestaurantListing, error)
	Create(restaurant *models.Restaurant) error
	GetByID(id uint) (*models.Restaurant, error)
	GetByPlaceID(placeID string) (*models.Restaurant, error)
	GetByNameAndAddress(name, address string) (*models.Restaurant, error)
}
