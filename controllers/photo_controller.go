package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagehub-api/services"
	"garagehub-api/utils"
)

type PhotoController struct {
	photoService *services.PhotoService
	storage      services.Storage
}

func NewPhotoController(photoService *services.PhotoService, storage services.Storage) *PhotoController {
	return &PhotoController{photoService: photoService, storage: storage}
}

// UploadPhotos stores the uploaded files and attaches them to a vehicle.
func (pc *PhotoController) UploadPhotos(c *gin.Context) {
	userID := c.GetString("user_id")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	vehicleID := c.PostForm("vehicle_id")
	if vehicleID == "" {
		utils.SendValidationError(c, "Vehicle ID is required to upload photos")
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		utils.SendValidationError(c, "No photos were uploaded")
		return
	}

	refs, err := saveUploadedPhotos(pc.storage, userID, files)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	photos, err := pc.photoService.AddPhotos(userID, vehicleID, refs, c.PostForm("caption"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Photos uploaded successfully", photos)
}

type UpdatePhotoRequest struct {
	Caption string `json:"caption"`
}

func (pc *PhotoController) UpdatePhoto(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := pc.photoService.UpdateCaption(userID, c.Param("id"), req.Caption)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo": photo})
}

func (pc *PhotoController) DeletePhoto(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := pc.photoService.DeletePhoto(userID, c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (pc *PhotoController) ToggleLike(c *gin.Context) {
	userID := c.GetString("user_id")

	liked, err := pc.photoService.ToggleLike(userID, c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// GetFeed returns the newest photos from followed users.
func (pc *PhotoController) GetFeed(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	photos, err := pc.photoService.FeedPhotos(userID, limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos, "results": len(photos)})
}
