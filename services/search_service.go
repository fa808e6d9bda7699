package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"garagehub-api/models"
)

// earthRadiusMiles is the spherical-earth approximation used to turn a
// search radius in miles into an angular radius in radians.
const earthRadiusMiles = 3963.2

// SearchService is the read-only discovery surface: text search over garages,
// vehicles and users, and geospatial radius search over garages and events.
type SearchService struct {
	db       *gorm.DB
	geocoder Geocoder
}

func NewSearchService(db *gorm.DB, geocoder Geocoder) *SearchService {
	return &SearchService{db: db, geocoder: geocoder}
}

type GlobalSearchResult struct {
	Garages []models.Garage `json:"garages"`
	Users   []models.User   `json:"users"`
}

const searchResultCap = 10

// GlobalSearch matches garages by name or transitively by the make/model of
// any of their vehicles, and active users by name. Case-insensitive substring
// match, each list independently capped.
func (s *SearchService) GlobalSearch(query string) (*GlobalSearchResult, error) {
	result := &GlobalSearchResult{Garages: []models.Garage{}, Users: []models.User{}}
	if query == "" {
		return result, nil
	}
	pattern := "%" + query + "%"

	var garageIDsFromVehicles []string
	err := s.db.Model(&models.Vehicle{}).
		Where("LOWER(make) LIKE LOWER(?) OR LOWER(model) LIKE LOWER(?)", pattern, pattern).
		Distinct().
		Pluck("garage_id", &garageIDsFromVehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}

	garageQuery := s.db.Preload("User").
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Limit(searchResultCap)
	if len(garageIDsFromVehicles) > 0 {
		garageQuery = garageQuery.Where("LOWER(name) LIKE LOWER(?) OR id IN ?", pattern, garageIDsFromVehicles)
	} else {
		garageQuery = garageQuery.Where("LOWER(name) LIKE LOWER(?)", pattern)
	}
	if err := garageQuery.Find(&result.Garages).Error; err != nil {
		return nil, fmt.Errorf("failed to search garages: %w", err)
	}

	err = s.db.
		Where("LOWER(name) LIKE LOWER(?) AND active = ?", pattern, true).
		Limit(searchResultCap).
		Find(&result.Users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	for i := range result.Garages {
		result.Garages[i].User.Password = ""
	}
	for i := range result.Users {
		result.Users[i].Password = ""
	}
	return result, nil
}

type NearbyResult struct {
	Garages []models.Garage `json:"garages"`
	Events  []models.Event  `json:"events"`
}

// SearchNearby geocodes the location text and returns every garage (of an
// active owner) and every approved, non-expired event whose stored point
// falls inside the spherical cap of the given radius.
func (s *SearchService) SearchNearby(ctx context.Context, location string, radiusMiles float64) (*NearbyResult, error) {
	if radiusMiles <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrInvalidOperation)
	}

	lng, lat, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}
	angularRadius := radiusMiles / earthRadiusMiles

	result := &NearbyResult{Garages: []models.Garage{}, Events: []models.Event{}}

	var garages []models.Garage
	err = s.db.
		Preload("User").
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Joins("JOIN users ON users.id = garages.user_id").
		Where("users.active = ? AND garages.latitude IS NOT NULL AND garages.longitude IS NOT NULL", true).
		Find(&garages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch garages: %w", err)
	}
	for i := range garages {
		g := &garages[i]
		if centralAngle(lat, lng, *g.Latitude, *g.Longitude) <= angularRadius {
			g.User.Password = ""
			result.Garages = append(result.Garages, *g)
		}
	}

	var events []models.Event
	err = s.db.
		Where("status = ? AND end_date >= ?", models.EventStatusApproved, time.Now()).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	for _, e := range events {
		if centralAngle(lat, lng, e.Latitude, e.Longitude) <= angularRadius {
			result.Events = append(result.Events, e)
		}
	}

	return result, nil
}

// centralAngle computes the haversine central angle in radians between two
// points, comparable directly against an angular radius.
func centralAngle(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
