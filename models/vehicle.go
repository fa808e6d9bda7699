package models

import (
	"time"
)

// DefaultVehicleCover is the sentinel cover for a vehicle with no photos.
const DefaultVehicleCover = "default-vehicle.png"

type Vehicle struct {
	ID       string `json:"id" gorm:"primaryKey;size:191"`
	UserID   string `json:"user_id" gorm:"not null;size:191;index:idx_vehicles_user_garage"`
	GarageID string `json:"garage_id" gorm:"not null;size:191;index:idx_vehicles_user_garage"`

	Make        string      `json:"make" gorm:"not null;size:100"`
	Model       string      `json:"model" gorm:"not null;size:100"`
	Year        int         `json:"year" gorm:"not null"`
	Description string      `json:"description" gorm:"size:2000"`
	Story       string      `json:"story" gorm:"size:5000"`
	Condition   string      `json:"condition" gorm:"size:50"`
	Tags        StringSlice `json:"tags" gorm:"type:json"`

	// Position orders vehicles inside a garage; the lowest position is the
	// "first" vehicle whose cover the garage inherits.
	Position int `json:"position" gorm:"not null;default:0"`

	// CoverPhoto holds the durable ref of one of this vehicle's own photos,
	// or the sentinel. Every recompute re-derives it from the photos table.
	CoverPhoto string `json:"cover_photo" gorm:"size:500;default:'default-vehicle.png'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   User   `json:"user" gorm:"foreignKey:UserID"`
	Garage Garage `json:"-" gorm:"foreignKey:GarageID"`
	Photos []Photo `json:"photos,omitempty" gorm:"foreignKey:VehicleID"`
	Likes  []VehicleLike `json:"likes,omitempty" gorm:"foreignKey:VehicleID"`
}

type VehicleLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	VehicleID string    `json:"vehicle_id" gorm:"not null;size:191;uniqueIndex:idx_vehicle_likes_pair"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_vehicle_likes_pair"`
	CreatedAt time.Time `json:"created_at"`
}
