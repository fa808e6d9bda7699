package models

import (
	"time"
)

type Photo struct {
	ID        string `json:"id" gorm:"primaryKey;size:191"`
	UserID    string `json:"user_id" gorm:"not null;size:191"`
	VehicleID string `json:"vehicle_id" gorm:"not null;size:191;index"`

	// Photo is the durable ref returned by the storage collaborator.
	Photo   string `json:"photo" gorm:"not null;size:500"`
	Caption string `json:"caption" gorm:"size:2200"`

	CreatedAt time.Time `json:"created_at"`

	User  User        `json:"user" gorm:"foreignKey:UserID"`
	Likes []PhotoLike `json:"likes,omitempty" gorm:"foreignKey:PhotoID"`
}

type PhotoLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PhotoID   string    `json:"photo_id" gorm:"not null;size:191;uniqueIndex:idx_photo_likes_pair"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_photo_likes_pair"`
	CreatedAt time.Time `json:"created_at"`
}
