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

const (
	defaultListLimit = 50
)

// ErrRestaurantNotFound is returned when an operation references a
// restaurant id that does not exist.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantService handles catalog writes and the listing query.
type RestaurantService struct {
	restaurantRepo repositories.RestaurantRepository
	mqClient       *rabbitmq.Client
}

// NewRestaurantService creates a new RestaurantService. mqClient may be nil;
// event publishing is then skipped.
func NewRestaurantService(restaurantRepo repositories.RestaurantRepository, mqClient *rabbitmq.Client) *RestaurantService {
	return &RestaurantService{
		restaurantRepo: restaurantRepo,
		mqClient:       mqClient,
	}
}

// ListParams are the caller-supplied listing criteria before normalization.
type ListParams struct {
	Search   string
	Cuisine  string
	Price    string
	Location string
	Limit    int
	Offset   int
}

// ListRestaurants normalizes pagination (invalid or missing values fall back
// to limit 50, offset 0) and runs the listing query. viewerID may be nil.
func (s *RestaurantService) ListRestaurants(params ListParams, viewerID *uint) ([]models.RestaurantListing, error) {
	filter := repositories.RestaurantFilter{
		Search:   params.Search,
		Cuisine:  params.Cuisine,
		Price:    params.Price,
		Location: params.Location,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.restaurantRepo.List(filter, viewerID)
}

// AddRestaurantInput carries the fields of a user-submitted restaurant.
// Everything but Name is optional.
type AddRestaurantInput struct {
	Name          string
	Cuisine       string
	Price         string
	Location      string
	Address       string
	Lat           *float64
	Lng           *float64
	GooglePlaceID string
}

// AddRestaurant stores a new restaurant attributed to creatorID. When a
// non-empty place id is supplied and a restaurant with that id already
// exists, its id is returned with created=false and nothing is inserted:
// the same external place can never produce two catalog rows.
func (s *RestaurantService) AddRestaurant(creatorID uint, input AddRestaurantInput) (uint, bool, error) {
	if input.GooglePlaceID != "" {
		existing, err := s.restaurantRepo.GetByPlaceID(input.GooglePlaceID)
		if err == nil {
			return existing.ID, false, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return 0, false, fmt.Errorf("failed to check place id: %w", err)
		}
	}

	restaurant := &models.Restaurant{
		Name:      input.Name,
		Cuisine:   input.Cuisine,
		Price:     input.Price,
		Location:  input.Location,
		Address:   input.Address,
		Lat:       input.Lat,
		Lng:       input.Lng,
		CreatedBy: &creatorID,
	}
	if input.GooglePlaceID != "" {
		placeID := input.GooglePlaceID
		restaurant.GooglePlaceID = &placeID
	}

	if err := s.restaurantRepo.Create(restaurant); err != nil {
		return 0, false, err
	}

	s.publishEvent("restaurant.created", map[string]interface{}{
		"restaurantId": restaurant.ID,
		"name":         restaurant.Name,
		"createdBy":    creatorID,
	})

	return restaurant.ID, true, nil
}

// GetRestaurant retrieves a single restaurant.
func (s *RestaurantService) GetRestaurant(id uint) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

// publishEvent emits a catalog event. Publishing failures are logged and
// never fail the request.
func (s *RestaurantService) publishEvent(routingKey string, payload map[string]interface{}) {
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
