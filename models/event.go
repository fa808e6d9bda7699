package models

import (
	"time"
)

const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

var EventCategories = []string{
	"Cars & Coffee",
	"Track Day",
	"Concours",
	"Auction",
	"Club Meetup",
	"Museum Exhibit",
	"Other",
}

type Event struct {
	ID               string `json:"id" gorm:"primaryKey;size:191"`
	CreatedByID      string `json:"created_by_id" gorm:"not null;size:191"`
	Title            string `json:"title" gorm:"not null;size:255"`
	ShortDescription string `json:"short_description" gorm:"not null;size:500"`
	FullDescription  string `json:"full_description" gorm:"size:5000"`
	Category         string `json:"category" gorm:"not null;size:50;default:'Other'"`
	Image            string `json:"image" gorm:"size:500"`

	StartDate time.Time `json:"start_date" gorm:"not null;index:idx_events_dates"`
	EndDate   time.Time `json:"end_date" gorm:"not null;index:idx_events_dates"`

	Address   string  `json:"address" gorm:"size:255"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Admin review workflow: pending until an admin approves or rejects.
	Status          string     `json:"status" gorm:"not null;size:20;default:'pending';index"`
	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"size:1000"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`

	CreatedBy User `json:"created_by" gorm:"foreignKey:CreatedByID"`
}

func IsValidEventCategory(category string) bool {
	for _, c := range EventCategories {
		if c == category {
			return true
		}
	}
	return false
}
