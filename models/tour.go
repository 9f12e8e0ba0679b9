package models

import (
	"time"

	"github.com/google/uuid"
)

// Tour — лига/серия турниров.
type Tour struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Location — поле для гольфа, может относиться к нескольким турам.
type Location struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address,omitempty" db:"address"`
	City      *string   `json:"city,omitempty" db:"city"`
	State     *string   `json:"state,omitempty" db:"state"`
	ZipCode   *string   `json:"zip_code,omitempty" db:"zip_code"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Website   *string   `json:"website,omitempty" db:"website"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TourLocation struct {
	ID         int64     `json:"id" db:"id"`
	TourID     int64     `json:"tour_id" db:"tour_id"`
	LocationID int64     `json:"location_id" db:"location_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type UserTour struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	TourID   int64     `json:"tour_id" db:"tour_id"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`

	Tour *Tour `json:"tour,omitempty" db:"-"`
}
