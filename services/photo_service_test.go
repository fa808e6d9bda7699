package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"garagehub-api/models"
)

func createTestVehicle(t *testing.T, db *gorm.DB, owner models.User, garage models.Garage, position int) models.Vehicle {
	t.Helper()

	vehicle := models.Vehicle{
		ID:         uuid.New().String(),
		UserID:     owner.ID,
		GarageID:   garage.ID,
		Make:       "Porsche",
		Model:      "911",
		Year:       1987,
		Position:   position,
		CoverPhoto: models.DefaultVehicleCover,
	}
	require.NoError(t, db.Create(&vehicle).Error)
	return vehicle
}

// backdatePhoto makes photo ordering deterministic in tests that create
// several photos within the same instant.
func backdatePhoto(t *testing.T, db *gorm.DB, photoID string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Photo{}).Where("id = ?", photoID).
		Update("created_at", at).Error)
}

func TestAddPhotosFirstUploadWinsCover(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, nil)

	owner := createTestUser(t, db, "Owner")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := svc.AddPhotos(owner.ID, vehicle.ID, []string{"front.jpg", "rear.jpg"}, "first shoot")
	require.NoError(t, err)
	require.Len(t, photos, 2)

	var got models.Vehicle
	require.NoError(t, db.First(&got, "id = ?", vehicle.ID).Error)
	assert.Equal(t, "front.jpg", got.CoverPhoto)

	// A later batch must not steal the cover.
	_, err = svc.AddPhotos(owner.ID, vehicle.ID, []string{"engine.jpg"}, "")
	require.NoError(t, err)

	require.NoError(t, db.First(&got, "id = ?", vehicle.ID).Error)
	assert.Equal(t, "front.jpg", got.CoverPhoto)
}

func TestAddPhotosKeepsExplicitCover(t *testing.T) {
	db := setupTestDB(t)
	photoSvc := NewPhotoService(db, nil)
	vehicleSvc := NewVehicleService(db, nil)

	owner := createTestUser(t, db, "Owner")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	_, err := photoSvc.AddPhotos(owner.ID, vehicle.ID, []string{"front.jpg", "rear.jpg"}, "")
	require.NoError(t, err)

	_, err = vehicleSvc.SetCoverPhoto(owner.ID, vehicle.ID, "rear.jpg")
	require.NoError(t, err)

	_, err = photoSvc.AddPhotos(owner.ID, vehicle.ID, []string{"interior.jpg"}, "")
	require.NoError(t, err)

	var got models.Vehicle
	require.NoError(t, db.First(&got, "id = ?", vehicle.ID).Error)
	assert.Equal(t, "rear.jpg", got.CoverPhoto)
}

func TestAddPhotosValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, nil)

	owner := createTestUser(t, db, "Owner")
	other := createTestUser(t, db, "Other")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	_, err := svc.AddPhotos(owner.ID, vehicle.ID, nil, "")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = svc.AddPhotos(other.ID, vehicle.ID, []string{"front.jpg"}, "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.AddPhotos(owner.ID, "no-such-vehicle", []string{"front.jpg"}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePhotoRederivesCover(t *testing.T) {
	db := setupTestDB(t)
	storage := &fakeStorage{}
	svc := NewPhotoService(db, storage)

	owner := createTestUser(t, db, "Owner")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := svc.AddPhotos(owner.ID, vehicle.ID, []string{"a.jpg", "b.jpg", "c.jpg"}, "")
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, p := range photos {
		backdatePhoto(t, db, p.ID, base.Add(time.Duration(i)*time.Minute))
	}

	// Deleting the cover promotes the oldest remaining photo.
	require.NoError(t, svc.DeletePhoto(owner.ID, photos[0].ID))

	var got models.Vehicle
	require.NoError(t, db.First(&got, "id = ?", vehicle.ID).Error)
	assert.Equal(t, "b.jpg", got.CoverPhoto)
	assert.Equal(t, []string{"a.jpg"}, storage.deletedRefs())

	// Deleting a non-cover photo leaves the cover alone.
	require.NoError(t, svc.DeletePhoto(owner.ID, photos[2].ID))
	require.NoError(t, db.First(&got, "id = ?", vehicle.ID).Error)
	assert.Equal(t, "b.jpg", got.CoverPhoto)

	// Deleting the last photo resets the cover to the sentinel.
	require.NoError(t, svc.DeletePhoto(owner.ID, photos[1].ID))
	require.NoError(t, db.First(&got, "id = ?", vehicle.ID).Error)
	assert.Equal(t, models.DefaultVehicleCover, got.CoverPhoto)
}

func TestDeletePhotoStorageFailureDoesNotFail(t *testing.T) {
	db := setupTestDB(t)
	storage := &fakeStorage{failOn: "a.jpg"}
	svc := NewPhotoService(db, storage)

	owner := createTestUser(t, db, "Owner")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := svc.AddPhotos(owner.ID, vehicle.ID, []string{"a.jpg"}, "")
	require.NoError(t, err)

	// Row delete succeeds even when the storage backend refuses the file.
	require.NoError(t, svc.DeletePhoto(owner.ID, photos[0].ID))

	var count int64
	require.NoError(t, db.Model(&models.Photo{}).Where("id = ?", photos[0].ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeletePhotoPermission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, nil)

	owner := createTestUser(t, db, "Owner")
	other := createTestUser(t, db, "Other")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := svc.AddPhotos(owner.ID, vehicle.ID, []string{"a.jpg"}, "")
	require.NoError(t, err)

	err = svc.DeletePhoto(other.ID, photos[0].ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestUpdateCaption(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, nil)

	owner := createTestUser(t, db, "Owner")
	other := createTestUser(t, db, "Other")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := svc.AddPhotos(owner.ID, vehicle.ID, []string{"a.jpg"}, "old")
	require.NoError(t, err)

	updated, err := svc.UpdateCaption(owner.ID, photos[0].ID, "sunset at the track")
	require.NoError(t, err)
	assert.Equal(t, "sunset at the track", updated.Caption)

	_, err = svc.UpdateCaption(other.ID, photos[0].ID, "nope")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestPhotoToggleLike(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPhotoService(db, nil)

	owner := createTestUser(t, db, "Owner")
	fan := createTestUser(t, db, "Fan")
	garage := createTestGarage(t, db, owner, "Owner's Garage")
	vehicle := createTestVehicle(t, db, owner, garage, 1)

	photos, err := svc.AddPhotos(owner.ID, vehicle.ID, []string{"a.jpg"}, "")
	require.NoError(t, err)

	liked, err := svc.ToggleLike(fan.ID, photos[0].ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.ToggleLike(fan.ID, photos[0].ID)
	require.NoError(t, err)
	assert.False(t, liked)

	var count int64
	require.NoError(t, db.Model(&models.PhotoLike{}).Where("photo_id = ?", photos[0].ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFeedPhotos(t *testing.T) {
	db := setupTestDB(t)
	photoSvc := NewPhotoService(db, nil)
	followSvc := NewFollowService(db)

	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")
	carol := createTestUser(t, db, "Carol")

	bobGarage := createTestGarage(t, db, bob, "Bob's Garage")
	bobVehicle := createTestVehicle(t, db, bob, bobGarage, 1)
	carolGarage := createTestGarage(t, db, carol, "Carol's Garage")
	carolVehicle := createTestVehicle(t, db, carol, carolGarage, 1)

	_, err := photoSvc.AddPhotos(bob.ID, bobVehicle.ID, []string{"bob.jpg"}, "")
	require.NoError(t, err)
	_, err = photoSvc.AddPhotos(carol.ID, carolVehicle.ID, []string{"carol.jpg"}, "")
	require.NoError(t, err)

	// No follows yet: the feed is empty, not global.
	feed, err := photoSvc.FeedPhotos(alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, followSvc.Follow(alice.ID, bob.ID))

	feed, err = photoSvc.FeedPhotos(alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "bob.jpg", feed[0].Photo)
	assert.Empty(t, feed[0].User.Password)
}
