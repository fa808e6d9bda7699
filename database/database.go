package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"garagehub-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// The pair uniqueness of follows, likes and reviews comes from gorm
	// uniqueIndex tags; the self-follow check needs raw SQL.
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id != following_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add check constraint for follows: %v\n", err)
	}

	if err := db.Exec("ALTER TABLE reviews ADD CONSTRAINT ck_reviews_rating_range CHECK (rating BETWEEN 1 AND 5)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for reviews: %v\n", err)
	}

	return nil
}

// SeedData populates the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	users := []models.User{
		{
			ID:       uuid.New().String(),
			Name:     "John Doe",
			Email:    "john@example.com",
			Password: "$2a$10$dummy", // This should be properly hashed in real scenarios
			Location: "Los Angeles, CA",
			Active:   true,
		},
		{
			ID:       uuid.New().String(),
			Name:     "Jane Smith",
			Email:    "jane@example.com",
			Password: "$2a$10$dummy",
			Location: "Portland, OR",
			Active:   true,
		},
	}

	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", users[i].Email, err)
		}
	}

	garage := models.Garage{
		ID:              uuid.New().String(),
		UserID:          users[0].ID,
		Name:            "John's Classics",
		Description:     "Air-cooled survivors and one eternal project car.",
		Address:         "Los Angeles, CA",
		RatingsAverage:  models.DefaultRatingsAverage,
		RatingsQuantity: 0,
	}
	if err := db.Create(&garage).Error; err != nil {
		fmt.Printf("Warning: Could not create test garage: %v\n", err)
		return nil
	}

	vehicle := models.Vehicle{
		ID:         uuid.New().String(),
		UserID:     users[0].ID,
		GarageID:   garage.ID,
		Make:       "Porsche",
		Model:      "911 Carrera",
		Year:       1987,
		Condition:  "restored",
		Position:   1,
		CoverPhoto: models.DefaultVehicleCover,
	}
	if err := db.Create(&vehicle).Error; err != nil {
		fmt.Printf("Warning: Could not create test vehicle: %v\n", err)
	}

	fmt.Println("Database seeded with test data")
	return nil
}
