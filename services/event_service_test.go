package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagehub-api/models"
)

func TestCreateEventStartsPending(t *testing.T) {
	db := setupTestDB(t)
	geocoder := &fakeGeocoder{lng: -118.24, lat: 34.05}
	svc := NewEventService(db, geocoder)

	user := createTestUser(t, db, "Organizer")

	start := time.Now().Add(48 * time.Hour)
	event, err := svc.CreateEvent(context.Background(), user.ID, CreateEventInput{
		Title:            "Sunday Cars & Coffee",
		ShortDescription: "Coffee and classics",
		Category:         "Cars & Coffee",
		StartDate:        start,
		EndDate:          start.Add(3 * time.Hour),
		Address:          "Los Angeles, CA",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusPending, event.Status)
	assert.InDelta(t, 34.05, event.Latitude, 1e-9)
	assert.InDelta(t, -118.24, event.Longitude, 1e-9)
	assert.False(t, event.SubmittedAt.IsZero())
	assert.Equal(t, 1, geocoder.calls)
}

func TestCreateEventValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeGeocoder{})

	user := createTestUser(t, db, "Organizer")
	start := time.Now().Add(48 * time.Hour)

	_, err := svc.CreateEvent(context.Background(), user.ID, CreateEventInput{
		Title:     "Backwards",
		StartDate: start,
		EndDate:   start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = svc.CreateEvent(context.Background(), user.ID, CreateEventInput{
		Title:     "Bad Category",
		Category:  "Street Racing",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCreateEventRequiresGeocode(t *testing.T) {
	db := setupTestDB(t)
	geocoder := &fakeGeocoder{err: fmt.Errorf("%w: mapbox down", ErrGeocodingFailed)}
	svc := NewEventService(db, geocoder)

	user := createTestUser(t, db, "Organizer")
	start := time.Now().Add(48 * time.Hour)

	// Unlike garage creation, an event without coordinates is useless, so
	// the geocoder failure is surfaced.
	_, err := svc.CreateEvent(context.Background(), user.ID, CreateEventInput{
		Title:     "Nowhere Meet",
		StartDate: start,
		EndDate:   start.Add(time.Hour),
		Address:   "Nowhere",
	})
	assert.ErrorIs(t, err, ErrGeocodingFailed)

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReviewEventWorkflow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeGeocoder{lng: -118.24, lat: 34.05})

	user := createTestUser(t, db, "Organizer")
	start := time.Now().Add(48 * time.Hour)

	event, err := svc.CreateEvent(context.Background(), user.ID, CreateEventInput{
		Title:            "Sunday Meet",
		ShortDescription: "meet",
		StartDate:        start,
		EndDate:          start.Add(time.Hour),
		Address:          "Los Angeles, CA",
	})
	require.NoError(t, err)

	pending, err := svc.PendingEvents()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Empty(t, pending[0].CreatedBy.Password)

	approved, err := svc.ReviewEvent(event.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)

	// A decision is final.
	_, err = svc.ReviewEvent(event.ID, false, "changed our minds")
	assert.ErrorIs(t, err, ErrConflict)

	pending, err = svc.PendingEvents()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReviewEventRejection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeGeocoder{lng: -118.24, lat: 34.05})

	user := createTestUser(t, db, "Organizer")
	start := time.Now().Add(48 * time.Hour)

	event, err := svc.CreateEvent(context.Background(), user.ID, CreateEventInput{
		Title:            "Parking Lot Takeover",
		ShortDescription: "meet",
		StartDate:        start,
		EndDate:          start.Add(time.Hour),
		Address:          "Los Angeles, CA",
	})
	require.NoError(t, err)

	rejected, err := svc.ReviewEvent(event.ID, false, "venue not confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusRejected, rejected.Status)
	assert.Equal(t, "venue not confirmed", rejected.RejectionReason)
}

func TestUpcomingEventsOnlyApprovedFuture(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeGeocoder{})

	user := createTestUser(t, db, "Organizer")
	tomorrow := time.Now().Add(24 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)

	keep := createTestEvent(t, db, user, "Upcoming", models.EventStatusApproved, 0, 0, tomorrow)
	createTestEvent(t, db, user, "Unreviewed", models.EventStatusPending, 0, 0, tomorrow)
	createTestEvent(t, db, user, "Finished", models.EventStatusApproved, 0, 0, yesterday)
	createTestEvent(t, db, user, "Declined", models.EventStatusRejected, 0, 0, tomorrow)

	events, err := svc.UpcomingEvents(20)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, keep.ID, events[0].ID)
}

func TestDeleteEventPermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeGeocoder{})

	organizer := createTestUser(t, db, "Organizer")
	other := createTestUser(t, db, "Other")
	tomorrow := time.Now().Add(24 * time.Hour)

	event := createTestEvent(t, db, organizer, "Mine", models.EventStatusPending, 0, 0, tomorrow)

	err := svc.DeleteEvent(other.ID, event.ID, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.DeleteEvent(organizer.ID, event.ID, false))

	err = svc.DeleteEvent(organizer.ID, event.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
}
