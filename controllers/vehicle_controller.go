package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagehub-api/services"
	"garagehub-api/utils"
)

type VehicleController struct {
	vehicleService *services.VehicleService
	garageService  *services.GarageService
	storage        services.Storage
}

func NewVehicleController(vehicleService *services.VehicleService, garageService *services.GarageService, storage services.Storage) *VehicleController {
	return &VehicleController{
		vehicleService: vehicleService,
		garageService:  garageService,
		storage:        storage,
	}
}

// CreateVehicle accepts a multipart form so a vehicle can be created with its
// first photos in one request; the first photo becomes the cover.
func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	userID := c.GetString("user_id")

	garage, err := vc.garageService.GarageByOwner(userID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "You must create a garage before adding a vehicle")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	year, err := strconv.Atoi(c.PostForm("year"))
	if err != nil || !utils.IsValidVehicleYear(year) {
		utils.SendValidationError(c, "A valid vehicle year is required")
		return
	}

	input := services.CreateVehicleInput{
		Make:        c.PostForm("make"),
		Model:       c.PostForm("model"),
		Year:        year,
		Description: c.PostForm("description"),
		Story:       c.PostForm("story"),
		Condition:   c.PostForm("condition"),
		Tags:        form.Value["tags"],
	}
	if input.Make == "" || input.Model == "" {
		utils.SendValidationError(c, "Vehicle make and model are required")
		return
	}

	if files := form.File["photos"]; len(files) > 0 {
		refs, err := saveUploadedPhotos(vc.storage, userID, files)
		if err != nil {
			utils.SendServiceError(c, err)
			return
		}
		input.PhotoRefs = refs
	}

	vehicle, err := vc.vehicleService.CreateVehicle(userID, garage.ID, input)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Vehicle created successfully", vehicle)
}

func (vc *VehicleController) GetVehicle(c *gin.Context) {
	vehicle, err := vc.vehicleService.GetVehicle(c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

type UpdateVehicleRequest struct {
	Make        *string  `json:"make"`
	Model       *string  `json:"model"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Story       *string  `json:"story"`
	Condition   *string  `json:"condition"`
	Tags        []string `json:"tags"`
}

func (vc *VehicleController) UpdateVehicle(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Year != nil && !utils.IsValidVehicleYear(*req.Year) {
		utils.SendValidationError(c, "A valid vehicle year is required")
		return
	}

	vehicle, err := vc.vehicleService.UpdateVehicle(userID, c.Param("id"), services.UpdateVehicleInput{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Description: req.Description,
		Story:       req.Story,
		Condition:   req.Condition,
		Tags:        req.Tags,
	})
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func (vc *VehicleController) DeleteVehicle(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := vc.vehicleService.DeleteVehicle(userID, c.Param("id")); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type SetCoverRequest struct {
	Photo string `json:"photo" binding:"required"`
}

func (vc *VehicleController) SetCoverPhoto(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SetCoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := vc.vehicleService.SetCoverPhoto(userID, c.Param("id"), req.Photo)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

func (vc *VehicleController) ToggleLike(c *gin.Context) {
	userID := c.GetString("user_id")

	liked, err := vc.vehicleService.ToggleLike(userID, c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (vc *VehicleController) GetLatest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	vehicles, err := vc.vehicleService.LatestVehicles(limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "results": len(vehicles)})
}
