package controllers

import (
	"SafeTube/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var parentService *services.ParentService
var childService *services.ChildService
var translationService *services.TranslationService

func SetParentService(service *services.ParentService) {
	parentService = service
}

func SetChildService(service *services.ChildService) {
	childService = service
}

func SetTranslationService(service *services.TranslationService) {
	translationService = service
}

func ReadParent(c *gin.Context) {
	parent, err := parentService.ReadParent(currentParentID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": parent})
}

func UpdateParent(c *gin.Context) {
	var input services.ParentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	parent, err := parentService.UpdateProfile(currentParentID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Parent updated successfully", "data": parent})
}

func UpdateParentDeviceToken(c *gin.Context) {
	var input struct {
		DeviceToken string `json:"device_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if err := parentService.UpdateDeviceToken(currentParentID(c), input.DeviceToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device token updated"})
}

func ListChildren(c *gin.Context) {
	children, err := parentService.ListChildren(currentParentID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": children})
}

func CreateChild(c *gin.Context) {
	var input services.ChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	child, err := childService.CreateChild(currentParentID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": child})
}

func UpdateChild(c *gin.Context) {
	childID, ok := uintParam(c, "child_id")
	if !ok {
		return
	}
	var input services.ChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	child, err := childService.UpdateChild(currentParentID(c), childID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Child updated successfully", "data": child})
}

func SetChildPIN(c *gin.Context) {
	childID, ok := uintParam(c, "child_id")
	if !ok {
		return
	}
	var input struct {
		PIN string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if err := childService.SetPIN(currentParentID(c), childID, input.PIN); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN updated"})
}

func DeleteChild(c *gin.Context) {
	childID, ok := uintParam(c, "child_id")
	if !ok {
		return
	}
	if err := childService.DeleteChild(currentParentID(c), childID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Child deleted successfully"})
}

func ListNotifications(c *gin.Context) {
	notifications, err := parentService.ListNotifications(currentParentID(c), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func MarkNotificationRead(c *gin.Context) {
	notificationID, ok := uintParam(c, "notification_id")
	if !ok {
		return
	}
	if err := parentService.MarkNotificationRead(currentParentID(c), notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// ChildActivity returns the child's activity log. ?hours= limits the window, 24 by default.
func ChildActivity(c *gin.Context) {
	childID, ok := uintParam(c, "child_id")
	if !ok {
		return
	}
	window := 24 * time.Hour
	if hours, err := time.ParseDuration(c.DefaultQuery("hours", "24") + "h"); err == nil && hours > 0 {
		window = hours
	}

	entries, err := parentService.ChildActivity(currentParentID(c), childID, time.Now().Add(-window))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
