package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"garagehub-api/models"
)

// GarageService owns the garage document and the root of the ownership
// hierarchy: garage deletion cascades through vehicles to photos in one
// transaction so readers never observe a partial cascade.
type GarageService struct {
	db       *gorm.DB
	geocoder Geocoder
	storage  Storage
}

func NewGarageService(db *gorm.DB, geocoder Geocoder, storage Storage) *GarageService {
	return &GarageService{db: db, geocoder: geocoder, storage: storage}
}

// GarageCard is the summary shape used by list views: the garage with its
// derived cover and vehicle count.
type GarageCard struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	OwnerID         string  `json:"owner_id"`
	OwnerName       string  `json:"owner_name"`
	OwnerLocation   string  `json:"owner_location"`
	VehicleCount    int     `json:"vehicle_count"`
	CoverPhoto      string  `json:"cover_photo"`
	RatingsAverage  float64 `json:"ratings_average"`
	RatingsQuantity int     `json:"ratings_quantity"`
}

type CreateGarageInput struct {
	Name        string
	Description string
	Address     string
}

// CreateGarage creates the caller's garage during onboarding. A user owns at
// most one garage; a second create is a conflict. The address is geocoded
// best-effort: a geocoder outage must not block onboarding, the garage just
// stays out of radius search until updated.
func (s *GarageService) CreateGarage(ctx context.Context, userID string, input CreateGarageInput) (*models.Garage, error) {
	var existing models.Garage
	if err := s.db.First(&existing, "user_id = ?", userID).Error; err == nil {
		return nil, fmt.Errorf("%w: user already has a garage", ErrConflict)
	}

	garage := models.Garage{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            input.Name,
		Description:     input.Description,
		Address:         input.Address,
		RatingsAverage:  models.DefaultRatingsAverage,
		RatingsQuantity: 0,
	}

	if input.Address != "" && s.geocoder != nil {
		if lng, lat, err := s.geocoder.Geocode(ctx, input.Address); err != nil {
			log.Printf("Warning: could not geocode garage address %q: %v", input.Address, err)
		} else {
			garage.Longitude = &lng
			garage.Latitude = &lat
		}
	}

	if err := s.db.Create(&garage).Error; err != nil {
		return nil, fmt.Errorf("failed to create garage: %w", err)
	}
	return &garage, nil
}

type UpdateGarageInput struct {
	Name        *string
	Description *string
	Address     *string
}

func (s *GarageService) UpdateGarage(ctx context.Context, userID, garageID string, input UpdateGarageInput) (*models.Garage, error) {
	var garage models.Garage
	if err := s.db.First(&garage, "id = ?", garageID).Error; err != nil {
		return nil, fmt.Errorf("%w: garage %s", ErrNotFound, garageID)
	}
	if garage.UserID != userID {
		return nil, fmt.Errorf("%w: you do not own this garage", ErrPermissionDenied)
	}

	if input.Name != nil {
		garage.Name = *input.Name
	}
	if input.Description != nil {
		garage.Description = *input.Description
	}
	if input.Address != nil {
		garage.Address = *input.Address
		garage.Latitude = nil
		garage.Longitude = nil
		if *input.Address != "" && s.geocoder != nil {
			if lng, lat, err := s.geocoder.Geocode(ctx, *input.Address); err != nil {
				log.Printf("Warning: could not geocode garage address %q: %v", *input.Address, err)
			} else {
				garage.Longitude = &lng
				garage.Latitude = &lat
			}
		}
	}

	if err := s.db.Save(&garage).Error; err != nil {
		return nil, fmt.Errorf("failed to update garage: %w", err)
	}
	return &garage, nil
}

// GetGarage returns a garage with owner and its vehicles in position order.
// NotFound when the garage is missing or its owner has been deactivated.
func (s *GarageService) GetGarage(garageID string) (*models.Garage, error) {
	var garage models.Garage
	err := s.db.
		Preload("User").
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Vehicles.Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&garage, "id = ?", garageID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: garage %s", ErrNotFound, garageID)
	}
	if !garage.User.Active {
		return nil, fmt.Errorf("%w: garage %s", ErrNotFound, garageID)
	}
	garage.User.Password = ""
	return &garage, nil
}

// GarageByOwner fetches a user's garage, if any.
func (s *GarageService) GarageByOwner(userID string) (*models.Garage, error) {
	var garage models.Garage
	err := s.db.
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&garage, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: no garage for user %s", ErrNotFound, userID)
	}
	return &garage, nil
}

// DeleteGarage removes the garage and its whole subtree: photos, likes,
// comments, vehicles and reviews go in a single transaction (children before
// parents), then the stored photo files are cleaned up best-effort.
func (s *GarageService) DeleteGarage(userID, garageID string, asAdmin bool) error {
	var garage models.Garage
	if err := s.db.First(&garage, "id = ?", garageID).Error; err != nil {
		return fmt.Errorf("%w: garage %s", ErrNotFound, garageID)
	}
	if !asAdmin && garage.UserID != userID {
		return fmt.Errorf("%w: you do not own this garage", ErrPermissionDenied)
	}

	var orphanedRefs []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var vehicleIDs []string
		if err := tx.Model(&models.Vehicle{}).Where("garage_id = ?", garageID).
			Pluck("id", &vehicleIDs).Error; err != nil {
			return err
		}

		if len(vehicleIDs) > 0 {
			if err := tx.Model(&models.Photo{}).Where("vehicle_id IN ?", vehicleIDs).
				Pluck("photo", &orphanedRefs).Error; err != nil {
				return err
			}

			if err := tx.Where("photo_id IN (?)",
				tx.Model(&models.Photo{}).Select("id").Where("vehicle_id IN ?", vehicleIDs),
			).Delete(&models.PhotoLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("vehicle_id IN ?", vehicleIDs).Delete(&models.Photo{}).Error; err != nil {
				return err
			}
			if err := tx.Where("vehicle_id IN ?", vehicleIDs).Delete(&models.VehicleLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("vehicle_id IN ?", vehicleIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("garage_id = ?", garageID).Delete(&models.Vehicle{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("garage_id = ?", garageID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Garage{}, "id = ?", garageID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete garage: %w", err)
	}

	s.cleanupFiles(orphanedRefs)
	return nil
}

// cleanupFiles deletes stored photo files after a cascade commit. An orphaned
// file is a cheaper failure mode than a stuck delete, so errors are logged
// and swallowed.
func (s *GarageService) cleanupFiles(refs []string) {
	if s.storage == nil {
		return
	}
	for _, ref := range refs {
		if err := s.storage.Delete(ref); err != nil {
			log.Printf("Warning: failed to delete stored file %s: %v", ref, err)
		}
	}
}

// FollowedGarages builds the caller's feed: garages of every active user the
// caller follows, each annotated with its derived cover. An empty following
// set returns an empty list without touching the garage table.
func (s *GarageService) FollowedGarages(userID string) ([]GarageCard, error) {
	var followingIDs []string
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Pluck("following_id", &followingIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch following ids: %w", err)
	}
	if len(followingIDs) == 0 {
		return []GarageCard{}, nil
	}

	var garages []models.Garage
	err := s.db.
		Preload("User").
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Joins("JOIN users ON users.id = garages.user_id").
		Where("garages.user_id IN ? AND users.active = ?", followingIDs, true).
		Find(&garages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followed garages: %w", err)
	}

	return toGarageCards(garages), nil
}

// FeaturedGarages draws a uniform random sample of garages owned by active
// users. Eligibility is decided before sampling so the sample is not biased
// toward garages with more vehicles.
func (s *GarageService) FeaturedGarages(limit int) ([]GarageCard, error) {
	if limit <= 0 {
		limit = 4
	}

	var eligibleIDs []string
	err := s.db.Model(&models.Garage{}).
		Joins("JOIN users ON users.id = garages.user_id").
		Where("users.active = ?", true).
		Pluck("garages.id", &eligibleIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch eligible garages: %w", err)
	}
	if len(eligibleIDs) == 0 {
		return []GarageCard{}, nil
	}

	rand.Shuffle(len(eligibleIDs), func(i, j int) {
		eligibleIDs[i], eligibleIDs[j] = eligibleIDs[j], eligibleIDs[i]
	})
	if len(eligibleIDs) > limit {
		eligibleIDs = eligibleIDs[:limit]
	}

	var garages []models.Garage
	err = s.db.
		Preload("User").
		Preload("Vehicles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id IN ?", eligibleIDs).
		Find(&garages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured garages: %w", err)
	}

	return toGarageCards(garages), nil
}

func toGarageCards(garages []models.Garage) []GarageCard {
	cards := make([]GarageCard, 0, len(garages))
	for i := range garages {
		g := &garages[i]
		cards = append(cards, GarageCard{
			ID:              g.ID,
			Name:            g.Name,
			Description:     g.Description,
			OwnerID:         g.UserID,
			OwnerName:       g.User.Name,
			OwnerLocation:   g.User.Location,
			VehicleCount:    len(g.Vehicles),
			CoverPhoto:      g.EffectiveCover(),
			RatingsAverage:  g.RatingsAverage,
			RatingsQuantity: g.RatingsQuantity,
		})
	}
	return cards
}
