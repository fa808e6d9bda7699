package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagehub-api/models"
)

func TestCreateGarage(t *testing.T) {
	db := setupTestDB(t)
	geocoder := &fakeGeocoder{lng: -118.24, lat: 34.05}
	svc := NewGarageService(db, geocoder, nil)

	owner := createTestUser(t, db, "Owner")

	garage, err := svc.CreateGarage(context.Background(), owner.ID, CreateGarageInput{
		Name:    "Canyon Carvers",
		Address: "Los Angeles, CA",
	})
	require.NoError(t, err)
	require.NotNil(t, garage.Latitude)
	require.NotNil(t, garage.Longitude)
	assert.InDelta(t, 34.05, *garage.Latitude, 1e-9)
	assert.InDelta(t, -118.24, *garage.Longitude, 1e-9)
	assert.Equal(t, models.DefaultRatingsAverage, garage.RatingsAverage)
	assert.Equal(t, 0, garage.RatingsQuantity)

	// One garage per user.
	_, err = svc.CreateGarage(context.Background(), owner.ID, CreateGarageInput{Name: "Second Garage"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateGarageGeocodeFailureIsNotFatal(t *testing.T) {
	db := setupTestDB(t)
	geocoder := &fakeGeocoder{err: fmt.Errorf("%w: mapbox down", ErrGeocodingFailed)}
	svc := NewGarageService(db, geocoder, nil)

	owner := createTestUser(t, db, "Owner")

	garage, err := svc.CreateGarage(context.Background(), owner.ID, CreateGarageInput{
		Name:    "Canyon Carvers",
		Address: "Los Angeles, CA",
	})
	require.NoError(t, err)
	assert.Nil(t, garage.Latitude)
	assert.Nil(t, garage.Longitude)
}

func TestGetGarageDerivedCoverFollowsFirstVehicle(t *testing.T) {
	db := setupTestDB(t)
	garageSvc := NewGarageService(db, &fakeGeocoder{}, nil)
	photoSvc := NewPhotoService(db, nil)

	owner := createTestUser(t, db, "Owner")
	garage := createTestGarage(t, db, owner, "Owner's Garage")

	// Empty garage shows the sentinel cover.
	got, err := garageSvc.GetGarage(garage.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGarageCover, got.EffectiveCover())

	first := createTestVehicle(t, db, owner, garage, 1)
	second := createTestVehicle(t, db, owner, garage, 2)

	// First vehicle without photos still yields the sentinel.
	got, err = garageSvc.GetGarage(garage.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGarageCover, got.EffectiveCover())

	// A photo on the second vehicle does not change the garage cover.
	_, err = photoSvc.AddPhotos(owner.ID, second.ID, []string{"second.jpg"}, "")
	require.NoError(t, err)
	got, err = garageSvc.GetGarage(garage.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGarageCover, got.EffectiveCover())

	// A photo on the first vehicle does.
	_, err = photoSvc.AddPhotos(owner.ID, first.ID, []string{"first.jpg"}, "")
	require.NoError(t, err)
	got, err = garageSvc.GetGarage(garage.ID)
	require.NoError(t, err)
	assert.Equal(t, "first.jpg", got.EffectiveCover())
}

func TestGetGarageHidesDeactivatedOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGarageService(db, &fakeGeocoder{}, nil)

	owner := createTestUser(t, db, "Owner")
	garage := createTestGarage(t, db, owner, "Owner's Garage")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", owner.ID).
		Update("active", false).Error)

	_, err := svc.GetGarage(garage.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGarageCascades(t *testing.T) {
	db := setupTestDB(t)
	storage := &fakeStorage{}
	garageSvc := NewGarageService(db, &fakeGeocoder{}, storage)
	photoSvc := NewPhotoService(db, storage)
	reviewSvc := NewReviewService(db)

	owner := createTestUser(t, db, "Owner")
	fan := createTestUser(t, db, "Fan")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := photoSvc.AddPhotos(owner.ID, vehicle.ID, []string{"a.jpg", "b.jpg"}, "")
	require.NoError(t, err)
	_, err = photoSvc.ToggleLike(fan.ID, photos[0].ID)
	require.NoError(t, err)
	_, err = reviewSvc.CreateReview(fan.ID, garage.ID, 5, "great collection")
	require.NoError(t, err)

	require.NoError(t, garageSvc.DeleteGarage(owner.ID, garage.ID, false))

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"garages", &models.Garage{}},
		{"vehicles", &models.Vehicle{}},
		{"photos", &models.Photo{}},
		{"photo likes", &models.PhotoLike{}},
		{"reviews", &models.Review{}},
	} {
		var count int64
		require.NoError(t, db.Model(probe.model).Count(&count).Error)
		assert.Equal(t, int64(0), count, "expected no %s after cascade", probe.name)
	}

	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, storage.deletedRefs())
}

func TestDeleteGaragePermissions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGarageService(db, &fakeGeocoder{}, nil)

	owner := createTestUser(t, db, "Owner")
	other := createTestUser(t, db, "Other")
	garage := createTestGarage(t, db, owner, "Owner's Garage")

	err := svc.DeleteGarage(other.ID, garage.ID, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admins may delete any garage.
	require.NoError(t, svc.DeleteGarage(other.ID, garage.ID, true))
}

func TestFollowedGarages(t *testing.T) {
	db := setupTestDB(t)
	garageSvc := NewGarageService(db, &fakeGeocoder{}, nil)
	followSvc := NewFollowService(db)

	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")
	carol := createTestUser(t, db, "Carol")
	createTestGarage(t, db, bob, "Bob's Garage")
	createTestGarage(t, db, carol, "Carol's Garage")

	// Nothing followed: the feed short-circuits to empty.
	feed, err := garageSvc.FollowedGarages(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, followSvc.Follow(alice.ID, bob.ID))
	require.NoError(t, followSvc.Follow(alice.ID, carol.ID))

	feed, err = garageSvc.FollowedGarages(alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	// Deactivating an owner drops their garage from the feed.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", carol.ID).
		Update("active", false).Error)

	feed, err = garageSvc.FollowedGarages(alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Bob's Garage", feed[0].Name)
	assert.Equal(t, models.DefaultGarageCover, feed[0].CoverPhoto)
}

func TestFeaturedGaragesExcludeInactiveOwners(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGarageService(db, &fakeGeocoder{}, nil)

	active := createTestUser(t, db, "Active")
	inactive := createTestUser(t, db, "Inactive")
	activeGarage := createTestGarage(t, db, active, "Active Garage")
	createTestGarage(t, db, inactive, "Hidden Garage")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", inactive.ID).
		Update("active", false).Error)

	// Eligibility is decided before sampling, so the hidden garage can never
	// appear no matter how the draw falls.
	for i := 0; i < 10; i++ {
		cards, err := svc.FeaturedGarages(4)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, activeGarage.ID, cards[0].ID)
	}
}

func TestFeaturedGaragesRespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewGarageService(db, &fakeGeocoder{}, nil)

	for i := 0; i < 6; i++ {
		owner := createTestUser(t, db, fmt.Sprintf("Owner %d", i))
		createTestGarage(t, db, owner, fmt.Sprintf("Garage %d", i))
	}

	cards, err := svc.FeaturedGarages(4)
	require.NoError(t, err)
	assert.Len(t, cards, 4)
}
