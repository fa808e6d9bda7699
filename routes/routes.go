package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"garagehub-api/config"
	"garagehub-api/controllers"
	"garagehub-api/middleware"
	"garagehub-api/services"
)

func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, geocoder services.Geocoder, storage services.Storage, emailService *services.EmailService) {
	// Services
	followService := services.NewFollowService(db)
	garageService := services.NewGarageService(db, geocoder, storage)
	vehicleService := services.NewVehicleService(db, storage)
	photoService := services.NewPhotoService(db, storage)
	reviewService := services.NewReviewService(db)
	eventService := services.NewEventService(db, geocoder)
	searchService := services.NewSearchService(db, geocoder)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService)
	userController := controllers.NewUserController(db, followService)
	garageController := controllers.NewGarageController(garageService)
	vehicleController := controllers.NewVehicleController(vehicleService, garageService, storage)
	photoController := controllers.NewPhotoController(photoService, storage)
	reviewController := controllers.NewReviewController(reviewService)
	eventController := controllers.NewEventController(eventService)
	commentController := controllers.NewCommentController(db)
	searchController := controllers.NewSearchController(searchService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Public discovery routes
	v1.GET("/garages/featured", garageController.GetFeatured)
	v1.GET("/garages/:id", garageController.GetGarage)
	v1.GET("/garages/:id/reviews", reviewController.GetGarageReviews)
	v1.GET("/vehicles/latest", vehicleController.GetLatest)
	v1.GET("/vehicles/:id", vehicleController.GetVehicle)
	v1.GET("/vehicles/:id/comments", commentController.GetVehicleComments)
	v1.GET("/events", eventController.GetEvents)
	v1.GET("/search", searchController.GlobalSearch)
	v1.GET("/search/nearby", searchController.SearchNearby)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.DELETE("/profile", userController.DeleteMe)
			users.GET("/:id", userController.GetUser)
			users.POST("/follow/:id", userController.FollowUser)
			users.DELETE("/follow/:id", userController.UnfollowUser)
			users.GET("/follow/:id", userController.IsFollowing)
			users.GET("/followers", userController.GetFollowers)
			users.GET("/following", userController.GetFollowing)
		}

		garages := protected.Group("/garages")
		{
			garages.POST("/", garageController.CreateMyGarage)
			garages.GET("/me", garageController.GetMyGarage)
			garages.GET("/feed", garageController.GetFeed)
			garages.PUT("/:id", garageController.UpdateGarage)
			garages.DELETE("/:id", garageController.DeleteGarage)
			garages.POST("/:id/reviews", reviewController.CreateReview)
		}

		vehicles := protected.Group("/vehicles")
		{
			vehicles.POST("/", vehicleController.CreateVehicle)
			vehicles.PUT("/:id", vehicleController.UpdateVehicle)
			vehicles.DELETE("/:id", vehicleController.DeleteVehicle)
			vehicles.PATCH("/:id/cover", vehicleController.SetCoverPhoto)
			vehicles.POST("/:id/like", vehicleController.ToggleLike)
			vehicles.POST("/:id/comments", commentController.CreateComment)
		}

		photos := protected.Group("/photos")
		{
			photos.POST("/", photoController.UploadPhotos)
			photos.GET("/feed", photoController.GetFeed)
			photos.PATCH("/:id", photoController.UpdatePhoto)
			photos.DELETE("/:id", photoController.DeletePhoto)
			photos.POST("/:id/like", photoController.ToggleLike)
		}

		reviews := protected.Group("/reviews")
		{
			reviews.PATCH("/:id", reviewController.UpdateReview)
			reviews.DELETE("/:id", reviewController.DeleteReview)
		}

		events := protected.Group("/events")
		{
			events.POST("/", eventController.CreateEvent)
			events.DELETE("/:id", eventController.DeleteEvent)
		}

		comments := protected.Group("/comments")
		{
			comments.DELETE("/:id", commentController.DeleteComment)
		}

		// Admin routes
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/events/pending", eventController.GetPendingEvents)
			admin.PATCH("/events/:id/review", eventController.ReviewEvent)
		}
	}
}
