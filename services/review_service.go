package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"garagehub-api/models"
)

// ReviewService owns reviews and the garage rating rollup. Every review write
// recomputes (average, quantity) from the live review set inside the same
// transaction, so concurrent review writes serialize on the garage row and
// the rollup never skips an update.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReview adds the caller's review of a garage. One review per
// (garage, user) pair; a second submission is a conflict, enforced by the
// unique index rather than a racy pre-check.
func (s *ReviewService) CreateReview(userID, garageID string, rating int, text string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidOperation)
	}

	var garage models.Garage
	if err := s.db.First(&garage, "id = ?", garageID).Error; err != nil {
		return nil, fmt.Errorf("%w: garage %s", ErrNotFound, garageID)
	}
	if garage.UserID == userID {
		return nil, fmt.Errorf("%w: cannot review your own garage", ErrInvalidOperation)
	}

	review := models.Review{
		ID:       uuid.New().String(),
		GarageID: garageID,
		UserID:   userID,
		Rating:   rating,
		Review:   text,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("%w: you have already reviewed this garage", ErrConflict)
			}
			return err
		}
		return s.recalcRatings(tx, garageID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview changes the caller's review and recomputes the rollup.
func (s *ReviewService) UpdateReview(userID, reviewID string, rating *int, text *string) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("%w: you do not own this review", ErrPermissionDenied)
	}

	if rating != nil {
		if *rating < 1 || *rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidOperation)
		}
		review.Rating = *rating
	}
	if text != nil {
		review.Review = *text
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return s.recalcRatings(tx, review.GarageID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return &review, nil
}

// DeleteReview removes a review (owner or admin) and recomputes the rollup.
func (s *ReviewService) DeleteReview(userID, reviewID string, asAdmin bool) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		return fmt.Errorf("%w: review %s", ErrNotFound, reviewID)
	}
	if !asAdmin && review.UserID != userID {
		return fmt.Errorf("%w: you do not own this review", ErrPermissionDenied)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Review{}, "id = ?", reviewID).Error; err != nil {
			return err
		}
		return s.recalcRatings(tx, review.GarageID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// GarageReviews lists a garage's reviews, newest first.
func (s *ReviewService) GarageReviews(garageID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.
		Preload("User").
		Where("garage_id = ?", garageID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	for i := range reviews {
		reviews[i].User.Password = ""
	}
	return reviews, nil
}

// recalcRatings aggregates the garage's live reviews and writes the rollup
// back. Zero reviews resets to the (4.5, 0) default rather than 0/NaN; the
// average is kept to one decimal.
func (s *ReviewService) recalcRatings(tx *gorm.DB, garageID string) error {
	var stats struct {
		Quantity int64           `gorm:"column:quantity"`
		Average  sql.NullFloat64 `gorm:"column:average"`
	}
	err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS quantity, AVG(rating) AS average").
		Where("garage_id = ?", garageID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	average := models.DefaultRatingsAverage
	if stats.Quantity > 0 && stats.Average.Valid {
		average = math.Round(stats.Average.Float64*10) / 10
	}

	return tx.Model(&models.Garage{}).Where("id = ?", garageID).
		Updates(map[string]interface{}{
			"ratings_average":  average,
			"ratings_quantity": stats.Quantity,
		}).Error
}

// isDuplicateKeyError matches unique-constraint violations across the MySQL
// and SQLite drivers.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
