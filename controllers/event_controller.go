package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"garagehub-api/models"
	"garagehub-api/services"
	"garagehub-api/utils"
)

type EventController struct {
	eventService *services.EventService
}

func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

type CreateEventRequest struct {
	Title            string    `json:"title" binding:"required"`
	ShortDescription string    `json:"short_description" binding:"required"`
	FullDescription  string    `json:"full_description"`
	Category         string    `json:"category"`
	Image            string    `json:"image"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required"`
	Address          string    `json:"address" binding:"required"`
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.EndDate.Before(time.Now()) {
		utils.SendValidationError(c, "Event end date must be in the future")
		return
	}

	event, err := ec.eventService.CreateEvent(c.Request.Context(), userID, services.CreateEventInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		Category:         req.Category,
		Image:            req.Image,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Address:          req.Address,
	})
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Event submitted for review", event)
}

func (ec *EventController) GetEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, err := ec.eventService.UpcomingEvents(limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "results": len(events)})
}

func (ec *EventController) GetPendingEvents(c *gin.Context) {
	events, err := ec.eventService.PendingEvents()
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "results": len(events)})
}

type ReviewEventRequest struct {
	Approve         bool   `json:"approve"`
	RejectionReason string `json:"rejection_reason"`
}

func (ec *EventController) ReviewEvent(c *gin.Context) {
	var req ReviewEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := ec.eventService.ReviewEvent(c.Param("id"), req.Approve, req.RejectionReason)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	asAdmin := c.GetString("user_role") == models.RoleAdmin

	if err := ec.eventService.DeleteEvent(userID, c.Param("id"), asAdmin); err != nil {
		utils.SendServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
