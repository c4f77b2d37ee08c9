package models

import "time"

// Restaurant is a catalog entry. GooglePlaceID is unique when present and is
// the dedup key for user-added spots; seeded entries carry no place id and
// are deduped by (name, address) instead.
type Restaurant struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Cuisine       string    `json:"cuisine" gorm:"type:varchar(100);default:''"`
	Price         string    `json:"price" gorm:"type:varchar(10);default:''"`
	Location      string    `json:"location" gorm:"type:varchar(255);default:''"`
	Address       string    `json:"address" gorm:"type:varchar(255);default:''"`
	Lat           *float64  `json:"lat"`
	Lng           *float64  `json:"lng"`
	GooglePlaceID *string   `json:"google_place_id" gorm:"uniqueIndex;type:varchar(255)"`
	CreatedBy     *uint     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
}

// RestaurantListing is one row of the listing query: the restaurant columns
// plus aggregates computed from reviews on every read, and the viewer's own
// review fields (nil when there is no viewer or the viewer has not reviewed).
type RestaurantListing struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Cuisine       string    `json:"cuisine"`
	Price         string    `json:"price"`
	Location      string    `json:"location"`
	Address       string    `json:"address"`
	Lat           *float64  `json:"lat"`
	Lng           *float64  `json:"lng"`
	GooglePlaceID *string   `json:"google_place_id"`
	CreatedBy     *uint     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	UserRating    *int      `json:"user_rating"`
	UserComment   *string   `json:"user_comment"`
}
