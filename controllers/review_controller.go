package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garagehub-api/models"
	"garagehub-api/services"
	"garagehub-api/utils"
)

type ReviewController struct {
	reviewService *services.ReviewService
}

func NewReviewController(reviewService *services.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review" binding:"required"`
}

func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")
	garageID := c.Param("id")

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := rc.reviewService.CreateReview(userID, garageID, req.Rating, req.Review)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Review created successfully", review)
}

type UpdateReviewRequest struct {
	Rating *int    `json:"rating"`
	Review *string `json:"review"`
}

func (rc *ReviewController) UpdateReview(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := rc.reviewService.UpdateReview(userID, c.Param("id"), req.Rating, req.Review)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (rc *ReviewController) DeleteReview(c *gin.Context) {
	userID := c.GetString("user_id")
	asAdmin := c.GetString("user_role") == models.RoleAdmin

	if err := rc.reviewService.DeleteReview(userID, c.Param("id"), asAdmin); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (rc *ReviewController) GetGarageReviews(c *gin.Context) {
	reviews, err := rc.reviewService.GarageReviews(c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "results": len(reviews)})
}
