package services_test

import (
	"terriertaste/internal/models"
	"terriertaste/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSessionRepository is a mock implementation of repositories.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(session *models.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetUserByToken(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessionRepository) Delete(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

// MockPreferenceRepository is a mock implementation of repositories.PreferenceRepository.
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) EnsureDefaults(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockPreferenceRepository) Upsert(pref *models.Preference) error {
	args := m.Called(pref)
	return args.Error(0)
}

func (m *MockPreferenceRepository) GetByUserID(userID uint) (*models.Preference, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Preference), args.Error(1)
}

// MockRestaurantRepository is a mock implementation of repositories.RestaurantRepository.
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) List(filter repositories.RestaurantFilter, viewerID *uint) ([]models.RestaurantListing, error) {
	args := m.Called(filter, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RestaurantListing), args.Error(1)
}

func (m *MockRestaurantRepository) Create(restaurant *models.Restaurant) error {
	args := m.Called(restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByPlaceID(placeID string) (*models.Restaurant, error) {
	args := m.Called(placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByNameAndAddress(name, address string) (*models.Restaurant, error) {
	args := m.Called(name, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Restaurant), args.Error(1)
}

// MockReviewRepository is a mock implementation of repositories.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Upsert(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByUserAndRestaurant(userID, restaurantID uint) (*models.Review, error) {
	args := m.Called(userID, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByRestaurant(restaurantID uint) ([]models.RestaurantReview, error) {
	args := m.Called(restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RestaurantReview), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(userID uint) ([]models.UserReview, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserReview), args.Error(1)
}
