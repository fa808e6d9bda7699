package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"garagehub-api/models"
)

// EventService owns community events and their admin review workflow. Events
// enter as pending and only become visible to search once approved.
type EventService struct {
	db       *gorm.DB
	geocoder Geocoder
}

func NewEventService(db *gorm.DB, geocoder Geocoder) *EventService {
	return &EventService{db: db, geocoder: geocoder}
}

type CreateEventInput struct {
	Title            string
	ShortDescription string
	FullDescription  string
	Category         string
	Image            string
	StartDate        time.Time
	EndDate          time.Time
	Address          string
}

// CreateEvent submits an event for review. The address must geocode: an
// event without coordinates would never show up in radius search, so a
// geocoder failure here is surfaced to the caller as retryable.
func (s *EventService) CreateEvent(ctx context.Context, userID string, input CreateEventInput) (*models.Event, error) {
	if input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: event end date is before its start date", ErrInvalidOperation)
	}
	if input.Category == "" {
		input.Category = "Other"
	}
	if !models.IsValidEventCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown event category %q", ErrInvalidOperation, input.Category)
	}

	lng, lat, err := s.geocoder.Geocode(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	event := models.Event{
		ID:               uuid.New().String(),
		CreatedByID:      userID,
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		FullDescription:  input.FullDescription,
		Category:         input.Category,
		Image:            input.Image,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		Address:          input.Address,
		Latitude:         lat,
		Longitude:        lng,
		Status:           models.EventStatusPending,
		SubmittedAt:      time.Now(),
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &event, nil
}

// UpcomingEvents lists approved events that have not ended yet.
func (s *EventService) UpcomingEvents(limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	var events []models.Event
	err := s.db.
		Where("status = ? AND end_date >= ?", models.EventStatusApproved, time.Now()).
		Order("start_date ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// PendingEvents lists events awaiting admin review.
func (s *EventService) PendingEvents() ([]models.Event, error) {
	var events []models.Event
	err := s.db.
		Preload("CreatedBy").
		Where("status = ?", models.EventStatusPending).
		Order("submitted_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending events: %w", err)
	}
	for i := range events {
		events[i].CreatedBy.Password = ""
	}
	return events, nil
}

// ReviewEvent moves a pending event to approved or rejected.
func (s *EventService) ReviewEvent(eventID string, approve bool, rejectionReason string) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	if event.Status != models.EventStatusPending {
		return nil, fmt.Errorf("%w: event has already been reviewed", ErrConflict)
	}

	now := time.Now()
	event.ReviewedAt = &now
	if approve {
		event.Status = models.EventStatusApproved
	} else {
		event.Status = models.EventStatusRejected
		event.RejectionReason = rejectionReason
	}

	if err := s.db.Save(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to review event: %w", err)
	}
	return &event, nil
}

// DeleteEvent removes an event (creator or admin).
func (s *EventService) DeleteEvent(userID, eventID string, asAdmin bool) error {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	if !asAdmin && event.CreatedByID != userID {
		return fmt.Errorf("%w: you did not submit this event", ErrPermissionDenied)
	}

	if err := s.db.Delete(&models.Event{}, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
