package models

import (
	"time"
)

// Comment on a vehicle.
type Comment struct {
	ID        string `json:"id" gorm:"primaryKey;size:191"`
	VehicleID string `json:"vehicle_id" gorm:"not null;size:191;index"`
	UserID    string `json:"user_id" gorm:"not null;size:191"`
	Text      string `json:"text" gorm:"not null;size:2200"`

	CreatedAt time.Time `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}
