package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"garagehub-api/models"
)

// FollowService owns the follow graph. The relation lives in a single edge
// table with a unique (follower, following) index, so both directions of the
// graph are views over the same rows and can never disagree.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow adds an edge from actor to target. Idempotent: following a user you
// already follow is a no-op, enforced by the unique index rather than a
// read-modify-write, so concurrent identical requests converge.
func (s *FollowService) Follow(actorID, targetID string) error {
	if actorID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidOperation)
	}

	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, targetID)
	}

	follow := models.Follow{
		FollowerID:  actorID,
		FollowingID: targetID,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes the edge if present. Idempotent.
func (s *FollowService) Unfollow(actorID, targetID string) error {
	if err := s.db.Where("follower_id = ? AND following_id = ?", actorID, targetID).
		Delete(&models.Follow{}).Error; err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

func (s *FollowService) IsFollowing(actorID, targetID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", actorID, targetID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow state: %w", err)
	}
	return count > 0, nil
}

// Followers returns the users following userID.
func (s *FollowService) Followers(userID string) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ? AND users.active = ?", userID, true).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch followers: %w", err)
	}
	return users, nil
}

// Following returns the users userID follows.
func (s *FollowService) Following(userID string) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ? AND users.active = ?", userID, true).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch following: %w", err)
	}
	return users, nil
}

// FollowingIDs returns just the followed user ids, for feed queries.
func (s *FollowService) FollowingIDs(userID string) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch following ids: %w", err)
	}
	return ids, nil
}
