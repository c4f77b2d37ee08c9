package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"terriertaste/internal/handlers"
	"terriertaste/internal/middleware"
	"terriertaste/internal/models"
	"terriertaste/internal/repositories"
	"terriertaste/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires the full stack (in-memory SQLite, no message broker) behind
// a Fiber app, mirroring main.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Session{}, &models.Preference{}, &models.Restaurant{}, &models.Review{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	prefRepo := repositories.NewGORMPreferenceRepository(db)
	restaurantRepo := repositories.NewGORMRestaurantRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)

	authService := services.NewAuthService(userRepo, sessionRepo, prefRepo)
	restaurantService := services.NewRestaurantService(restaurantRepo, nil)
	reviewService := services.NewReviewService(reviewRepo, restaurantRepo, nil)

	authHandler := handlers.NewAuthHandler(authService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, reviewService)

	app := fiber.New()
	api := app.Group("/api")

	requireAuth := middleware.AuthRequired(authService)
	withViewer := middleware.WithViewer(authService)

	authHandler.RegisterRoutes(api, requireAuth)
	restaurantHandler.RegisterRoutes(api, requireAuth, withViewer)

	return app
}

// doJSON performs a request with an optional bearer token and JSON body, and
// decodes the JSON response.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	decoded := make(map[string]interface{})
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("failed to decode response %s: %v", string(raw), err)
		}
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("registration of %s failed with status %d: %v", email, status, body)
	}
	return body["token"].(string)
}

// TestMain suppresses request logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	// Register
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Rhett",
		"email":    "Rhett@BU.edu",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "rhett@bu.edu", user["email"], "email stored lowercased")
	prefs := body["preferences"].(map[string]interface{})
	assert.Equal(t, "[]", prefs["dietary_prefs"])

	// Registering again with a different case variant of the same email is
	// a distinct "already exists" outcome, not a generic failure.
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Imposter",
		"email":    "RHETT@bu.edu",
		"password": "password456",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["message"], "already exists")

	// Login
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rhett@bu.edu",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	assert.NotEmpty(t, token)

	// Wrong password
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rhett@bu.edu",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Me
	status, body = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rhett@bu.edu", body["user"].(map[string]interface{})["email"])

	// Logout revokes the session; the token stops working immediately.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	status, _ = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPreferencesRoundTrip(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "Alice", "alice@example.com")

	status, body := doJSON(t, app, http.MethodPut, "/api/auth/preferences", token, map[string]interface{}{
		"dietaryPrefs":     []string{"vegetarian"},
		"favoriteCuisines": []string{"Thai", "Italian"},
		"homeLocation":     "Allston",
	})
	assert.Equal(t, http.StatusOK, status)
	prefs := body["preferences"].(map[string]interface{})
	assert.Equal(t, `["vegetarian"]`, prefs["dietary_prefs"])
	assert.Equal(t, `["Thai","Italian"]`, prefs["favorite_cuisines"])
	assert.Equal(t, "Allston", prefs["home_location"])

	// Full replace: omitted lists reset to empty.
	status, body = doJSON(t, app, http.MethodPut, "/api/auth/preferences", token, map[string]interface{}{
		"homeLocation": "Fenway",
	})
	assert.Equal(t, http.StatusOK, status)
	prefs = body["preferences"].(map[string]interface{})
	assert.Equal(t, "[]", prefs["dietary_prefs"])
	assert.Equal(t, "Fenway", prefs["home_location"])

	status, _ = doJSON(t, app, http.MethodPut, "/api/auth/preferences", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRestaurantAndReviewFlow(t *testing.T) {
	app := setupApp(t)

	tokenA := registerUser(t, app, "Alice", "alice@example.com")
	tokenB := registerUser(t, app, "Bob", "bob@example.com")

	// Writes require a session.
	status, _ := doJSON(t, app, http.MethodPost, "/api/restaurants", "", map[string]interface{}{"name": "Pho Basil"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Add a restaurant.
	status, body := doJSON(t, app, http.MethodPost, "/api/restaurants", tokenA, map[string]interface{}{
		"name":    "Pho Basil",
		"cuisine": "Vietnamese",
		"price":   "$$",
	})
	assert.Equal(t, http.StatusCreated, status)
	restaurantID := int(body["restaurantId"].(float64))
	assert.Greater(t, restaurantID, 0)

	reviewPath := fmt.Sprintf("/api/restaurants/%d/reviews", restaurantID)

	// Out-of-range rating fails validation and writes nothing.
	status, _ = doJSON(t, app, http.MethodPost, reviewPath, tokenA, map[string]interface{}{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/restaurants/", "", nil)
	assert.Equal(t, http.StatusOK, status)

	// Alice rates 5, Bob rates 3 (no comment).
	status, _ = doJSON(t, app, http.MethodPost, reviewPath, tokenA, map[string]interface{}{"rating": 5, "comment": "great"})
	assert.Equal(t, http.StatusCreated, status)
	status, _ = doJSON(t, app, http.MethodPost, reviewPath, tokenB, map[string]interface{}{"rating": 3})
	assert.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/restaurants/", tokenA, nil)
	assert.Equal(t, http.StatusOK, status)
	restaurants := body["restaurants"].([]interface{})
	assert.Len(t, restaurants, 1)
	row := restaurants[0].(map[string]interface{})
	assert.Equal(t, "Pho Basil", row["name"])
	assert.InDelta(t, 4.0, row["average_rating"].(float64), 0.0001)
	assert.Equal(t, float64(2), row["review_count"])
	assert.Equal(t, float64(5), row["user_rating"], "viewer's own rating rides along")
	assert.Equal(t, "great", row["user_comment"])

	// Alice resubmits: overwrite, not append.
	status, _ = doJSON(t, app, http.MethodPost, reviewPath, tokenA, map[string]interface{}{"rating": 4, "comment": "still great"})
	assert.Equal(t, http.StatusCreated, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/restaurants/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	row = body["restaurants"].([]interface{})[0].(map[string]interface{})
	assert.InDelta(t, 3.5, row["average_rating"].(float64), 0.0001)
	assert.Equal(t, float64(2), row["review_count"])
	assert.Nil(t, row["user_rating"], "no viewer, no user rating")

	// Review list carries reviewer names.
	status, body = doJSON(t, app, http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusOK, status)
	reviews := body["reviews"].([]interface{})
	assert.Len(t, reviews, 2)

	// Review history joins restaurant display fields.
	status, body = doJSON(t, app, http.MethodGet, "/api/restaurants/user/me", tokenA, nil)
	assert.Equal(t, http.StatusOK, status)
	mine := body["reviews"].([]interface{})
	assert.Len(t, mine, 1)
	entry := mine[0].(map[string]interface{})
	assert.Equal(t, "Pho Basil", entry["restaurant_name"])
	assert.Equal(t, "Vietnamese", entry["restaurant_cuisine"])
	assert.Equal(t, float64(4), entry["rating"])

	// The viewer's single-restaurant rating endpoint.
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/restaurants/%d/user-rating", restaurantID), tokenB, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(3), body["review"].(map[string]interface{})["rating"])

	// Reviewing a restaurant that does not exist.
	status, _ = doJSON(t, app, http.MethodPost, "/api/restaurants/9999/reviews", tokenA, map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRestaurantPlaceIDDedup(t *testing.T) {
	app := setupApp(t)
	tokenA := registerUser(t, app, "Alice", "alice@example.com")
	tokenB := registerUser(t, app, "Bob", "bob@example.com")

	payload := map[string]interface{}{
		"name":          "Neptune Oyster",
		"cuisine":       "Seafood",
		"googlePlaceId": "ChIJ-neptune-1",
	}

	status, body := doJSON(t, app, http.MethodPost, "/api/restaurants", tokenA, payload)
	assert.Equal(t, http.StatusCreated, status)
	firstID := body["restaurantId"].(float64)

	// A second submission of the same place, even by another user, returns
	// the stored id instead of inserting a duplicate.
	status, body = doJSON(t, app, http.MethodPost, "/api/restaurants", tokenB, payload)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, firstID, body["restaurantId"])
	assert.Equal(t, "Restaurant already stored.", body["message"])

	status, body = doJSON(t, app, http.MethodGet, "/api/restaurants/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["restaurants"].([]interface{}), 1)
}

func TestListingFilters(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "Alice", "alice@example.com")

	add := func(name, cuisine, price, location string) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/restaurants", token, map[string]interface{}{
			"name": name, "cuisine": cuisine, "price": price, "location": location,
		})
		assert.Equal(t, http.StatusCreated, status)
	}
	add("Giulia", "Italian", "$$$", "Cambridge")
	add("Pho Basil", "Vietnamese", "$$", "Allston")
	add("Sweet Basil", "Italian", "$$", "Needham")

	listNames := func(query string) []string {
		status, body := doJSON(t, app, http.MethodGet, "/api/restaurants/"+query, "", nil)
		assert.Equal(t, http.StatusOK, status)
		rows := body["restaurants"].([]interface{})
		names := make([]string, 0, len(rows))
		for _, raw := range rows {
			names = append(names, raw.(map[string]interface{})["name"].(string))
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Giulia", "Pho Basil", "Sweet Basil"}, listNames(""))
	assert.ElementsMatch(t, []string{"Pho Basil", "Sweet Basil"}, listNames("?search=basil"))
	assert.ElementsMatch(t, []string{"Sweet Basil"}, listNames("?cuisine=Italian&price=$$"))
	assert.ElementsMatch(t, []string{"Pho Basil"}, listNames("?location=Allston"))
	assert.Empty(t, listNames("?search=basil&cuisine=Seafood"))
	assert.Len(t, listNames("?limit=2"), 2)
}
