package models

import (
	"time"
)

// DefaultGarageCover is the sentinel cover shown for a garage whose first
// vehicle has no photos (or which has no vehicles at all).
const DefaultGarageCover = "default-garage-cover.jpg"

const DefaultRatingsAverage = 4.5

type Garage struct {
	ID          string `json:"id" gorm:"primaryKey;size:191"`
	UserID      string `json:"user_id" gorm:"uniqueIndex;not null;size:191"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:255"`
	Description string `json:"description" gorm:"size:2000"`

	// Structured location: optional geo point plus the free-text address it
	// was geocoded from.
	Address   string   `json:"address" gorm:"size:255"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Rating rollup, recomputed from the reviews table on every review write.
	RatingsAverage  float64 `json:"ratings_average" gorm:"default:4.5"`
	RatingsQuantity int     `json:"ratings_quantity" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User      `json:"user" gorm:"foreignKey:UserID"`
	Vehicles []Vehicle `json:"vehicles,omitempty" gorm:"foreignKey:GarageID"`
}

// EffectiveCover derives the garage cover from the loaded vehicle list. The
// cover is never stored on the garage row; it is always the cover of the
// vehicle with the lowest position, falling back to the sentinel when there
// are no vehicles or the first vehicle has no photos yet. Vehicles must be
// loaded ordered by position.
func (g *Garage) EffectiveCover() string {
	if len(g.Vehicles) == 0 {
		return DefaultGarageCover
	}
	if cover := g.Vehicles[0].CoverPhoto; cover != "" && cover != DefaultVehicleCover {
		return cover
	}
	return DefaultGarageCover
}
