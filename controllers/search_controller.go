package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"garagehub-api/services"
	"garagehub-api/utils"
)

type SearchController struct {
	searchService *services.SearchService
}

func NewSearchController(searchService *services.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

func (sc *SearchController) GlobalSearch(c *gin.Context) {
	result, err := sc.searchService.GlobalSearch(c.Query("q"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (sc *SearchController) SearchNearby(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		utils.SendValidationError(c, "Please provide a location")
		return
	}

	distance, err := strconv.ParseFloat(c.DefaultQuery("distance", "10"), 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid distance")
		return
	}

	result, err := sc.searchService.SearchNearby(c.Request.Context(), location, distance)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"garages": result.Garages,
		"events":  result.Events,
		"results": len(result.Garages) + len(result.Events),
	})
}
