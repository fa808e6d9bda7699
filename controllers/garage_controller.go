package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagehub-api/services"
	"garagehub-api/utils"
)

type GarageController struct {
	garageService *services.GarageService
}

func NewGarageController(garageService *services.GarageService) *GarageController {
	return &GarageController{garageService: garageService}
}

type CreateGarageRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
}

func (gc *GarageController) CreateMyGarage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateGarageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	garage, err := gc.garageService.CreateGarage(c.Request.Context(), userID, services.CreateGarageInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Garage created successfully", garage)
}

type UpdateGarageRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
}

func (gc *GarageController) UpdateGarage(c *gin.Context) {
	userID := c.GetString("user_id")
	garageID := c.Param("id")

	var req UpdateGarageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	garage, err := gc.garageService.UpdateGarage(c.Request.Context(), userID, garageID, services.UpdateGarageInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"garage": garage})
}

func (gc *GarageController) GetGarage(c *gin.Context) {
	garage, err := gc.garageService.GetGarage(c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"garage":      garage,
		"cover_photo": garage.EffectiveCover(),
	})
}

func (gc *GarageController) GetMyGarage(c *gin.Context) {
	garage, err := gc.garageService.GarageByOwner(c.GetString("user_id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"garage":      garage,
		"cover_photo": garage.EffectiveCover(),
	})
}

func (gc *GarageController) DeleteGarage(c *gin.Context) {
	userID := c.GetString("user_id")
	asAdmin := c.GetString("user_role") == "admin"

	if err := gc.garageService.DeleteGarage(userID, c.Param("id"), asAdmin); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFeed returns the garages of everyone the caller follows.
func (gc *GarageController) GetFeed(c *gin.Context) {
	cards, err := gc.garageService.FollowedGarages(c.GetString("user_id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"garages": cards, "results": len(cards)})
}

// GetFeatured returns a random sample of garages from active users.
func (gc *GarageController) GetFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))

	cards, err := gc.garageService.FeaturedGarages(limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"garages": cards, "results": len(cards)})
}
