package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"garagehub-api/models"
)

// VehicleService owns the middle level of the hierarchy. Vehicles are ordered
// inside their garage by an explicit position field; the first position is
// the one whose cover the garage inherits.
type VehicleService struct {
	db      *gorm.DB
	storage Storage
}

func NewVehicleService(db *gorm.DB, storage Storage) *VehicleService {
	return &VehicleService{db: db, storage: storage}
}

type CreateVehicleInput struct {
	Make        string
	Model       string
	Year        int
	Description string
	Story       string
	Condition   string
	Tags        []string
	PhotoRefs   []string
}

// CreateVehicle appends a vehicle to the caller's garage. Any uploaded photos
// are created with it and the first one becomes the vehicle cover.
func (s *VehicleService) CreateVehicle(userID, garageID string, input CreateVehicleInput) (*models.Vehicle, error) {
	var garage models.Garage
	if err := s.db.First(&garage, "id = ?", garageID).Error; err != nil {
		return nil, fmt.Errorf("%w: garage %s", ErrNotFound, garageID)
	}
	if garage.UserID != userID {
		return nil, fmt.Errorf("%w: you do not own this garage", ErrPermissionDenied)
	}

	vehicle := models.Vehicle{
		ID:          uuid.New().String(),
		UserID:      userID,
		GarageID:    garage.ID,
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		Description: input.Description,
		Story:       input.Story,
		Condition:   input.Condition,
		Tags:        models.StringSlice(input.Tags),
		CoverPhoto:  models.DefaultVehicleCover,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&models.Vehicle{}).Where("garage_id = ?", garage.ID).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return err
		}
		vehicle.Position = maxPos + 1

		if err := tx.Create(&vehicle).Error; err != nil {
			return err
		}

		for _, ref := range input.PhotoRefs {
			photo := models.Photo{
				ID:        uuid.New().String(),
				UserID:    userID,
				VehicleID: vehicle.ID,
				Photo:     ref,
			}
			if err := tx.Create(&photo).Error; err != nil {
				return err
			}
		}
		if len(input.PhotoRefs) > 0 {
			vehicle.CoverPhoto = input.PhotoRefs[0]
			if err := tx.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).
				Update("cover_photo", vehicle.CoverPhoto).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return &vehicle, nil
}

type UpdateVehicleInput struct {
	Make        *string
	Model       *string
	Year        *int
	Description *string
	Story       *string
	Condition   *string
	Tags        []string
}

func (s *VehicleService) UpdateVehicle(userID, vehicleID string, input UpdateVehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.ownedVehicle(userID, vehicleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Make != nil {
		updates["make"] = *input.Make
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Story != nil {
		updates["story"] = *input.Story
	}
	if input.Condition != nil {
		updates["condition"] = *input.Condition
	}
	if input.Tags != nil {
		updates["tags"] = models.StringSlice(input.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(vehicle).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update vehicle: %w", err)
		}
	}
	return vehicle, nil
}

// GetVehicle returns a vehicle with its photos in creation order.
func (s *VehicleService) GetVehicle(vehicleID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.
		Preload("User").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Likes").
		First(&vehicle, "id = ?", vehicleID).Error
	if err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	vehicle.User.Password = ""
	return &vehicle, nil
}

// SetCoverPhoto points the vehicle cover at one of its own photos. A ref that
// is not among the vehicle's photos is rejected, which is what keeps the
// cover invariant intact. The garage cover is derived on read and needs no
// update here.
func (s *VehicleService) SetCoverPhoto(userID, vehicleID, photoRef string) (*models.Vehicle, error) {
	vehicle, err := s.ownedVehicle(userID, vehicleID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Photo{}).
		Where("vehicle_id = ? AND photo = ?", vehicleID, photoRef).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to look up photo: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: photo %s does not belong to this vehicle", ErrNotFound, photoRef)
	}

	if err := s.db.Model(vehicle).Update("cover_photo", photoRef).Error; err != nil {
		return nil, fmt.Errorf("failed to set cover photo: %w", err)
	}
	vehicle.CoverPhoto = photoRef
	return vehicle, nil
}

// DeleteVehicle cascade-deletes the vehicle's photos, likes and comments with
// the vehicle row in one transaction, then cleans up stored files
// best-effort. The garage cover needs no patching: it is derived on read.
func (s *VehicleService) DeleteVehicle(userID, vehicleID string) error {
	vehicle, err := s.ownedVehicle(userID, vehicleID)
	if err != nil {
		return err
	}

	var orphanedRefs []string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Photo{}).Where("vehicle_id = ?", vehicle.ID).
			Pluck("photo", &orphanedRefs).Error; err != nil {
			return err
		}

		if err := tx.Where("photo_id IN (?)",
			tx.Model(&models.Photo{}).Select("id").Where("vehicle_id = ?", vehicle.ID),
		).Delete(&models.PhotoLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&models.VehicleLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vehicle{}, "id = ?", vehicle.ID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	for _, ref := range orphanedRefs {
		if s.storage == nil {
			break
		}
		if err := s.storage.Delete(ref); err != nil {
			log.Printf("Warning: failed to delete stored file %s: %v", ref, err)
		}
	}
	return nil
}

// ToggleLike flips the caller's like on a vehicle.
func (s *VehicleService) ToggleLike(userID, vehicleID string) (liked bool, err error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return false, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}

	res := s.db.Where("vehicle_id = ? AND user_id = ?", vehicleID, userID).Delete(&models.VehicleLike{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to toggle like: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.VehicleLike{VehicleID: vehicleID, UserID: userID}
	if err := s.db.Create(&like).Error; err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return true, nil
}

// LatestVehicles lists the most recently updated vehicles of active owners.
func (s *VehicleService) LatestVehicles(limit int) ([]models.Vehicle, error) {
	if limit <= 0 {
		limit = 8
	}
	var vehicles []models.Vehicle
	err := s.db.
		Preload("User").
		Joins("JOIN users ON users.id = vehicles.user_id").
		Where("users.active = ?", true).
		Order("vehicles.updated_at DESC").
		Limit(limit).
		Find(&vehicles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest vehicles: %w", err)
	}
	for i := range vehicles {
		vehicles[i].User.Password = ""
	}
	return vehicles, nil
}

func (s *VehicleService) ownedVehicle(userID, vehicleID string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	if vehicle.UserID != userID {
		return nil, fmt.Errorf("%w: you do not own this vehicle", ErrPermissionDenied)
	}
	return &vehicle, nil
}
