package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"terriertaste/internal/middleware"
	"terriertaste/internal/models"
	"terriertaste/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login, logout and
// per-user preferences.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the auth routes with the Fiber app. requireAuth
// guards the routes that need a signed-in user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/me", requireAuth, h.HandleMe)
	authRoutes.Put("/preferences", requireAuth, h.HandleUpdatePreferences)
}

// viewerFromContext returns the user the auth middleware resolved, or nil.
func viewerFromContext(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.ViewerKey).(*models.User)
	return user
}

// validationResponse turns validator errors into a field -> message map.
func validationResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration and opens a session.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	result, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "An account with that email already exists.",
			})
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to register right now.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid email or password.",
			})
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to sign in right now.",
		})
	}

	return c.JSON(result)
}

// HandleLogout revokes the bearer session. Always answers 204, even when no
// token was supplied.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if err := h.authService.Logout(token); err != nil {
			log.Printf("Error revoking session: %v", err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleMe returns the signed-in user and their preferences.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := viewerFromContext(c)

	prefs, err := h.authService.Preferences(user.ID)
	if err != nil {
		log.Printf("Error loading preferences for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to load profile right now.",
		})
	}

	return c.JSON(fiber.Map{
		"user":        user,
		"preferences": prefs,
	})
}

// PreferencesRequest represents the request body for a preference update.
// Absent fields fall back to empty values; the update is a full replace.
type PreferencesRequest struct {
	DietaryPrefs     []string `json:"dietaryPrefs"`
	FavoriteCuisines []string `json:"favoriteCuisines"`
	HomeLocation     string   `json:"homeLocation"`
}

// HandleUpdatePreferences replaces the signed-in user's preferences.
func (h *AuthHandler) HandleUpdatePreferences(c *fiber.Ctx) error {
	user := viewerFromContext(c)

	var req PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing preferences request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	prefs, err := h.authService.UpdatePreferences(user.ID, req.DietaryPrefs, req.FavoriteCuisines, req.HomeLocation)
	if err != nil {
		log.Printf("Error updating preferences for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Unable to save preferences right now.",
		})
	}

	return c.JSON(fiber.Map{
		"preferences": prefs,
	})
}
