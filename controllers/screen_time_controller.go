package controllers

import (
	"SafeTube/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var screenTimeService *services.ScreenTimeService

func SetScreenTimeService(service *services.ScreenTimeService) {
	screenTimeService = service
}

// GetScreenTime returns the child's rule together with the live status.
func GetScreenTime(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}

	rule, err := screenTimeService.GetRule(childID)
	if err != nil {
		respondError(c, err)
		return
	}
	status, err := screenTimeService.Status(childID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"rule": rule, "status": status}})
}

func UpdateScreenTimeRule(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	var input services.RuleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	rule, err := screenTimeService.UpdateRule(childID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rule})
}

func GrantExtraTime(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	var input struct {
		Minutes int `json:"minutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	remaining, err := screenTimeService.GrantExtra(childID, input.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"remaining_minutes": remaining}})
}

// PauseChild pauses a child. Without duration_minutes the pause lasts until resumed.
func PauseChild(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	var input struct {
		Reason          string `json:"reason"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.DurationMinutes < 0 {
		respondError(c, services.InvalidInput("duration_minutes must not be negative"))
		return
	}

	duration := time.Duration(input.DurationMinutes) * time.Minute
	if err := screenTimeService.Pause(childID, input.Reason, duration); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Child paused"})
}

func ResumeChild(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	if err := screenTimeService.Resume(childID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Child resumed"})
}

// PanicPause pauses every child of the parent at once.
func PanicPause(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	paused, err := screenTimeService.PanicPause(currentParentID(c), input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"paused": paused}})
}

func GetMyScreenTime(c *gin.Context) {
	status, err := screenTimeService.Status(currentChildID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": status})
}

// ReportUsage adds watched minutes reported by the child's device.
func ReportUsage(c *gin.Context) {
	var input struct {
		Minutes int `json:"minutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	remaining, err := screenTimeService.Increment(currentChildID(c), input.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"remaining_minutes": remaining}})
}
