package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"garagehub-api/models"
)

var testDBSeq int64

// setupTestDB creates an isolated in-memory database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Garage{},
		&models.Vehicle{},
		&models.VehicleLike{},
		&models.Photo{},
		&models.PhotoLike{},
		&models.Review{},
		&models.Event{},
		&models.Comment{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()),
		Password: "hashed",
		Role:     models.RoleUser,
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestGarage(t *testing.T, db *gorm.DB, owner models.User, name string) models.Garage {
	t.Helper()

	garage := models.Garage{
		ID:              uuid.New().String(),
		UserID:          owner.ID,
		Name:            name,
		RatingsAverage:  models.DefaultRatingsAverage,
		RatingsQuantity: 0,
	}
	require.NoError(t, db.Create(&garage).Error)
	return garage
}

// fakeGeocoder resolves every query to a fixed point, or fails.
type fakeGeocoder struct {
	lng, lat float64
	err      error
	calls    int
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (float64, float64, error) {
	g.calls++
	if g.err != nil {
		return 0, 0, g.err
	}
	return g.lng, g.lat, nil
}

// fakeStorage records saves and deletes in memory.
type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failOn  string
}

func (s *fakeStorage) Save(ref string, _ io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, ref)
	return nil
}

func (s *fakeStorage) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref == s.failOn {
		return fmt.Errorf("storage backend unavailable")
	}
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *fakeStorage) deletedRefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
