package handlers

import (
	"errors"
	"log"

	"terriertaste/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RestaurantHandler handles HTTP requests for the catalog, the listing query
// and the review ledger.
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	reviewService     *services.ReviewService
	validate          *validator.Validate
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(restaurantService *services.RestaurantService, reviewService *services.ReviewService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		reviewService:     reviewService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the restaurant and review routes. The listing is
// public but honors a valid bearer token via withViewer; everything that
// writes, and the viewer-scoped reads, go through requireAuth.
func (h *RestaurantHandler) RegisterRoutes(router fiber.Router, requireAuth, withViewer fiber.Handler) {
	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Get("/", withViewer, h.HandleList)
	restaurantRoutes.Post("/", requireAuth, h.HandleCreate)
	restaurantRoutes.Get("/user/me", requireAuth, h.HandleMyReviews)
	restaurantRoutes.Get("/:id/reviews", h.HandleListReviews)
	restaurantRoutes.Post("/:id/reviews", requireAuth, h.HandleSubmitReview)
	restaurantRoutes.Get("/:id/user-rating", requireAuth, h.HandleUserRating)
}

// HandleList runs the listing query. All filters are optional and combine
// with AND; limit/offset fall back to 50/0 on missing or invalid values.
func (h *RestaurantHandler) HandleList(c *fiber.Ctx) error {
	params := services.ListParams{
		Search:   c.Query("search"),
		Cuisine:  c.Query("cuisine"),
		Price:    c.Query("price"),
		Location: c.Query("location"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	}

	var viewerID *uint
	if viewer := viewerFromContext(c); viewer != nil {
		viewerID = &viewer.ID
	}

	restaurants, err := h.restaurantService.ListRestaurants(params, viewerID)
	if err != nil {
		log.Printf("Error listing restaurants: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to load restaurants right now.",
		})
	}

	return c.JSON(fiber.Map{
		"restaurants": restaurants,
	})
}

// CreateRestaurantRequest represents the request body for adding a spot.
type CreateRestaurantRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Cuisine       string   `json:"cuisine"`
	Price         string   `json:"price"`
	Location      string   `json:"location"`
	Address       string   `json:"address"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	GooglePlaceID string   `json:"googlePlaceId"`
}

// HandleCreate stores a new restaurant. When the supplied place id is
// already in the catalog, the existing id is returned and nothing is
// inserted.
func (h *RestaurantHandler) HandleCreate(c *fiber.Ctx) error {
	viewer := viewerFromContext(c)

	var req CreateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing restaurant request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	restaurantID, created, err := h.restaurantService.AddRestaurant(viewer.ID, services.AddRestaurantInput{
		Name:          req.Name,
		Cuisine:       req.Cuisine,
		Price:         req.Price,
		Location:      req.Location,
		Address:       req.Address,
		Lat:           req.Lat,
		Lng:           req.Lng,
		GooglePlaceID: req.GooglePlaceID,
	})
	if err != nil {
		log.Printf("Error adding restaurant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to save the restaurant right now.",
		})
	}

	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"restaurantId": restaurantID,
			"message":      "Restaurant already stored.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"restaurantId": restaurantID,
	})
}

// HandleListReviews returns a restaurant's reviews with reviewer names,
// newest first.
func (h *RestaurantHandler) HandleListReviews(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil || restaurantID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid restaurant id",
		})
	}

	reviews, err := h.reviewService.ListRestaurantReviews(uint(restaurantID))
	if err != nil {
		log.Printf("Error listing reviews for restaurant %d: %v", restaurantID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to load reviews right now.",
		})
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
	})
}

// SubmitReviewRequest represents the request body for a review submission.
// Comment is optional and defaults to the empty string.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// HandleSubmitReview upserts the viewer's review for a restaurant. An
// out-of-range rating fails with 400 before any write.
func (h *RestaurantHandler) HandleSubmitReview(c *fiber.Ctx) error {
	viewer := viewerFromContext(c)

	restaurantID, err := c.ParamsInt("id")
	if err != nil || restaurantID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid restaurant id",
		})
	}

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	err = h.reviewService.SubmitReview(viewer.ID, uint(restaurantID), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Rating must be between 1 and 5.",
			})
		}
		if errors.Is(err, services.ErrRestaurantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Restaurant not found.",
			})
		}
		log.Printf("Error saving review for restaurant %d: %v", restaurantID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to save the review right now.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review saved.",
	})
}

// HandleMyReviews returns the viewer's review history, newest first, joined
// with restaurant display fields.
func (h *RestaurantHandler) HandleMyReviews(c *fiber.Ctx) error {
	viewer := viewerFromContext(c)

	reviews, err := h.reviewService.ListUserReviews(viewer.ID)
	if err != nil {
		log.Printf("Error listing reviews for user %d: %v", viewer.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to load your reviews right now.",
		})
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
	})
}

// HandleUserRating returns the viewer's own review for a restaurant, or
// null when they have not reviewed it.
func (h *RestaurantHandler) HandleUserRating(c *fiber.Ctx) error {
	viewer := viewerFromContext(c)

	restaurantID, err := c.ParamsInt("id")
	if err != nil || restaurantID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid restaurant id",
		})
	}

	review, err := h.reviewService.GetUserReview(viewer.ID, uint(restaurantID))
	if err != nil {
		log.Printf("Error loading review for user %d restaurant %d: %v", viewer.ID, restaurantID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to load the review right now.",
		})
	}

	return c.JSON(fiber.Map{
		"review": review,
	})
}
