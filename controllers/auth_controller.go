package controllers

import (
	"SafeTube/middlewares"
	"SafeTube/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

var authService *services.AuthService

func SetAuthService(service *services.AuthService) {
	authService = service
}

func LoginChild(c *gin.Context) {
	var input struct {
		ChildID  uint   `json:"child_id" binding:"required"`
		PIN      string `json:"pin" binding:"required"`
		DeviceID string `json:"device_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := authService.Login(input.ChildID, input.PIN, input.DeviceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func LogoutChild(c *gin.Context) {
	if err := authService.Logout(c.GetString(middlewares.KeyToken)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RegisterParent creates the parent account for the Firebase identity on the request.
func RegisterParent(c *gin.Context) {
	var input services.ParentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	parent, err := parentService.RegisterParent(c.GetString(middlewares.KeyFirebaseUID), c.GetString(middlewares.KeyEmail), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": parent})
}
