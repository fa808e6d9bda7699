package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password  string    `json:"-" gorm:"not null;size:255"`
	Role      string    `json:"role" gorm:"default:'user';size:20"`
	Bio       string    `json:"bio" gorm:"size:1000"`
	Location  string    `json:"location" gorm:"size:255"`
	Avatar    *string   `json:"avatar" gorm:"size:500"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Garage ownership is modelled from the garage side (garages.user_id,
	// unique), so a user's garage pointer can never dangle.
	Garage *Garage `json:"garage,omitempty" gorm:"foreignKey:UserID"`
}

// Follow is a single directed edge of the follow graph. Storing edges instead
// of mirrored id arrays keeps the relation symmetric by construction and makes
// follow/unfollow a one-row write.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:idx_follows_pair"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:idx_follows_pair"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"follower" gorm:"foreignKey:FollowerID"`
	Following User `json:"following" gorm:"foreignKey:FollowingID"`
}
