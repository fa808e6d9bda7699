package models

import (
	"time"
)

// Review of a garage. One review per (garage, user) pair, enforced by the
// unique index; a second submission from the same user is a conflict.
type Review struct {
	ID       string `json:"id" gorm:"primaryKey;size:191"`
	GarageID string `json:"garage_id" gorm:"not null;size:191;uniqueIndex:idx_reviews_garage_user"`
	UserID   string `json:"user_id" gorm:"not null;size:191;uniqueIndex:idx_reviews_garage_user"`

	Rating int    `json:"rating" gorm:"not null"`
	Review string `json:"review" gorm:"not null;size:2000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}
