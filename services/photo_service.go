package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"garagehub-api/models"
)

// PhotoService owns the leaf level of the hierarchy and the vehicle cover
// recompute that photo writes trigger. Every recompute re-derives the cover
// from the live photo list instead of patching a delta, so interleaved
// add/delete/set-cover calls stay consistent.
type PhotoService struct {
	db      *gorm.DB
	storage Storage
}

func NewPhotoService(db *gorm.DB, storage Storage) *PhotoService {
	return &PhotoService{db: db, storage: storage}
}

// AddPhotos attaches already-stored photo refs to a vehicle. If the vehicle
// cover is still the sentinel, the first new photo wins it; an explicitly set
// cover is left alone.
func (s *PhotoService) AddPhotos(userID, vehicleID string, refs []string, caption string) ([]models.Photo, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no photos to add", ErrInvalidOperation)
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	if vehicle.UserID != userID {
		return nil, fmt.Errorf("%w: you do not own this vehicle", ErrPermissionDenied)
	}

	photos := make([]models.Photo, 0, len(refs))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, ref := range refs {
			photo := models.Photo{
				ID:        uuid.New().String(),
				UserID:    userID,
				VehicleID: vehicleID,
				Photo:     ref,
				Caption:   caption,
			}
			if err := tx.Create(&photo).Error; err != nil {
				return err
			}
			photos = append(photos, photo)
		}

		if vehicle.CoverPhoto == "" || vehicle.CoverPhoto == models.DefaultVehicleCover {
			if err := tx.Model(&models.Vehicle{}).Where("id = ?", vehicleID).
				Update("cover_photo", refs[0]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add photos: %w", err)
	}
	return photos, nil
}

// DeletePhoto removes a photo. When the deleted photo was the vehicle cover,
// the cover is re-derived from the remaining photos (oldest first) or reset
// to the sentinel. The stored file is deleted best-effort after the row
// delete commits.
func (s *PhotoService) DeletePhoto(userID, photoID string) error {
	var photo models.Photo
	if err := s.db.First(&photo, "id = ?", photoID).Error; err != nil {
		return fmt.Errorf("%w: photo %s", ErrNotFound, photoID)
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, "id = ?", photo.VehicleID).Error; err != nil {
		return fmt.Errorf("%w: vehicle %s", ErrNotFound, photo.VehicleID)
	}
	if vehicle.UserID != userID {
		return fmt.Errorf("%w: you do not own this photo", ErrPermissionDenied)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photo.ID).Delete(&models.PhotoLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Photo{}, "id = ?", photo.ID).Error; err != nil {
			return err
		}

		if vehicle.CoverPhoto != photo.Photo {
			return nil
		}

		// Full re-derivation: first remaining photo, else the sentinel.
		cover := models.DefaultVehicleCover
		var remaining models.Photo
		err := tx.Where("vehicle_id = ?", vehicle.ID).
			Order("created_at ASC, id ASC").
			First(&remaining).Error
		if err == nil {
			cover = remaining.Photo
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).
			Update("cover_photo", cover).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if s.storage != nil {
		if err := s.storage.Delete(photo.Photo); err != nil {
			log.Printf("Warning: failed to delete stored file %s: %v", photo.Photo, err)
		}
	}
	return nil
}

// UpdateCaption edits a photo's caption.
func (s *PhotoService) UpdateCaption(userID, photoID, caption string) (*models.Photo, error) {
	var photo models.Photo
	if err := s.db.First(&photo, "id = ?", photoID).Error; err != nil {
		return nil, fmt.Errorf("%w: photo %s", ErrNotFound, photoID)
	}
	if photo.UserID != userID {
		return nil, fmt.Errorf("%w: you do not own this photo", ErrPermissionDenied)
	}

	if err := s.db.Model(&photo).Update("caption", caption).Error; err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	photo.Caption = caption
	return &photo, nil
}

// ToggleLike flips the caller's like on a photo.
func (s *PhotoService) ToggleLike(userID, photoID string) (liked bool, err error) {
	var photo models.Photo
	if err := s.db.First(&photo, "id = ?", photoID).Error; err != nil {
		return false, fmt.Errorf("%w: photo %s", ErrNotFound, photoID)
	}

	res := s.db.Where("photo_id = ? AND user_id = ?", photoID, userID).Delete(&models.PhotoLike{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to toggle like: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.PhotoLike{PhotoID: photoID, UserID: userID}
	if err := s.db.Create(&like).Error; err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return true, nil
}

// FeedPhotos returns the newest photos from users the caller follows. An
// empty following set short-circuits to an empty list.
func (s *PhotoService) FeedPhotos(userID string, limit int) ([]models.Photo, error) {
	if limit <= 0 {
		limit = 50
	}

	var followingIDs []string
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Pluck("following_id", &followingIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch following ids: %w", err)
	}
	if len(followingIDs) == 0 {
		return []models.Photo{}, nil
	}

	var photos []models.Photo
	err := s.db.
		Preload("User").
		Where("user_id IN ?", followingIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed photos: %w", err)
	}
	for i := range photos {
		photos[i].User.Password = ""
	}
	return photos, nil
}
