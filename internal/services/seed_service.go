package services

import (
	"errors"
	"fmt"
	"log"

	"terriertaste/internal/models"
	"terriertaste/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	curatorEmail    = "top20@terriertaste.dev"
	curatorName     = "Terrier Taste Rankings"
	curatorPassword = "terrier-top20"
	seedComment     = "Featured in Terrier Taste Top 20"
)

// seedEntry is one curated restaurant plus the curator's rating for it.
type seedEntry struct {
	Name     string
	Cuisine  string
	Price    string
	Location string
	Address  string
	Lat      float64
	Lng      float64
	Rating   int
}

// topBostonRestaurants is the curated "top 20" list. Entries carry no place
// id, so the seeder dedups by exact (name, address) instead.
var topBostonRestaurants = []seedEntry{
	{"O Ya", "Japanese", "$$$$", "Leather District", "9 East St, Boston, MA 02111", 42.3524, -71.0546, 5},
	{"Oleana", "Eastern Mediterranean", "$$$", "Cambridge", "134 Hampshire St, Cambridge, MA 02139", 42.3706, -71.0989, 5},
	{"Giulia", "Italian", "$$$", "Cambridge", "1682 Massachusetts Ave, Cambridge, MA 02138", 42.3823, -71.1237, 5},
	{"Sarma", "Middle Eastern", "$$$", "Somerville", "249 Pearl St, Somerville, MA 02145", 42.3792, -71.096, 5},
	{"Mamma Maria", "Italian", "$$$$", "North End", "3 N Square, Boston, MA 02113", 42.3633, -71.0541, 5},
	{"Neptune Oyster", "Seafood", "$$$", "North End", "63 Salem St, Boston, MA 02113", 42.3648, -71.0559, 5},
	{"Menton", "French", "$$$$", "Seaport", "354 Congress St, Boston, MA 02210", 42.3511, -71.0483, 5},
	{"Toro", "Spanish", "$$$", "South End", "1704 Washington St, Boston, MA 02118", 42.3388, -71.0756, 5},
	{"Tasting Counter", "Modern American", "$$$$", "Somerville", "14 Tyler St, Somerville, MA 02143", 42.3805, -71.0939, 5},
	{"Uni", "Japanese", "$$$$", "Back Bay", "370 Commonwealth Ave, Boston, MA 02215", 42.3495, -71.0867, 5},
	{"Craigie On Main", "New American", "$$$$", "Cambridge", "853 Main St, Cambridge, MA 02139", 42.3656, -71.1043, 5},
	{"Myers + Chang", "Asian Fusion", "$$", "South End", "1145 Washington St, Boston, MA 02118", 42.3431, -71.066, 4},
	{"Little Donkey", "Global Tapas", "$$$", "Cambridge", "505 Massachusetts Ave, Cambridge, MA 02139", 42.3645, -71.1031, 4},
	{"The Capital Grille", "Steakhouse", "$$$$", "Back Bay", "900 Boylston St, Boston, MA 02115", 42.3491, -71.0822, 4},
	{"Asta", "Modern American", "$$$", "Back Bay", "47 Massachusetts Ave, Boston, MA 02115", 42.3519, -71.0895, 4},
	{"Deuxave", "French", "$$$$", "Back Bay", "371 Commonwealth Ave, Boston, MA 02115", 42.3496, -71.089, 4},
	{"Bistro du Midi", "French", "$$$$", "Back Bay", "272 Boylston St, Boston, MA 02116", 42.3509, -71.0765, 4},
	{"Yvonne's", "New American", "$$$", "Downtown Crossing", "2 Winter Pl, Boston, MA 02108", 42.3554, -71.0613, 4},
	{"Row 34", "Seafood", "$$$", "Seaport", "383 Congress St, Boston, MA 02210", 42.351, -71.0426, 4},
	{"Pammy's", "Italian", "$$$", "Cambridge", "928 Massachusetts Ave, Cambridge, MA 02139", 42.3658, -71.1059, 4},
}

// SeedService populates the catalog and ledger with the curated list. Safe
// to run on every process start: re-running produces the same final state as
// running once.
type SeedService struct {
	userRepo       repositories.UserRepository
	prefRepo       repositories.PreferenceRepository
	restaurantRepo repositories.RestaurantRepository
	reviewRepo     repositories.ReviewRepository
}

// NewSeedService creates a new SeedService.
func NewSeedService(userRepo repositories.UserRepository, prefRepo repositories.PreferenceRepository, restaurantRepo repositories.RestaurantRepository, reviewRepo repositories.ReviewRepository) *SeedService {
	return &SeedService{
		userRepo:       userRepo,
		prefRepo:       prefRepo,
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
	}
}

// SeedTopRestaurants ensures the curator user exists, then inserts each
// curated restaurant absent from the catalog and upserts the curator's
// review for it. Editing the curated list and re-running updates existing
// seed reviews rather than duplicating them.
func (s *SeedService) SeedTopRestaurants() error {
	curator, err := s.ensureCurator()
	if err != nil {
		return err
	}

	for i := range topBostonRestaurants {
		entry := &topBostonRestaurants[i]

		restaurant, err := s.restaurantRepo.GetByNameAndAddress(entry.Name, entry.Address)
		if errors.Is(err, repositories.ErrNotFound) {
			lat, lng := entry.Lat, entry.Lng
			restaurant = &models.Restaurant{
				Name:      entry.Name,
				Cuisine:   entry.Cuisine,
				Price:     entry.Price,
				Location:  entry.Location,
				Address:   entry.Address,
				Lat:       &lat,
				Lng:       &lng,
				CreatedBy: &curator.ID,
			}
			if err := s.restaurantRepo.Create(restaurant); err != nil {
				return fmt.Errorf("failed to seed restaurant %q: %w", entry.Name, err)
			}
			log.Printf("Seeded restaurant: %s (ID: %d)", restaurant.Name, restaurant.ID)
		} else if err != nil {
			return fmt.Errorf("failed to look up seed restaurant %q: %w", entry.Name, err)
		}

		review := &models.Review{
			UserID:       curator.ID,
			RestaurantID: restaurant.ID,
			Rating:       entry.Rating,
			Comment:      seedComment,
		}
		if err := s.reviewRepo.Upsert(review); err != nil {
			return fmt.Errorf("failed to seed review for %q: %w", entry.Name, err)
		}
	}

	return nil
}

// ensureCurator looks the curator up by its fixed email and creates it with
// the fixed credential when absent.
func (s *SeedService) ensureCurator() (*models.User, error) {
	curator, err := s.userRepo.GetByEmail(curatorEmail)
	if errors.Is(err, repositories.ErrNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(curatorPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash curator password: %w", hashErr)
		}
		curator = &models.User{
			Name:         curatorName,
			Email:        curatorEmail,
			PasswordHash: string(hash),
		}
		if err := s.userRepo.Create(curator); err != nil {
			return nil, fmt.Errorf("failed to create curator user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up curator user: %w", err)
	}

	if err := s.prefRepo.EnsureDefaults(curator.ID); err != nil {
		return nil, err
	}
	return curator, nil
}
