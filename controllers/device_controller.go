package controllers

import (
	"SafeTube/middlewares"
	"SafeTube/models"
	"SafeTube/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

var deviceService *services.DeviceService

func SetDeviceService(service *services.DeviceService) {
	deviceService = service
}

func RegisterDevice(c *gin.Context) {
	var input models.DeviceDescriptor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	device, err := deviceService.Register(currentChildID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": device})
}

// SyncProgress stores the playback position reported over HTTP. Devices that hold a socket
// send watch_progress frames instead.
func SyncProgress(c *gin.Context) {
	var input struct {
		VideoID         string `json:"video_id" binding:"required"`
		PositionSeconds int    `json:"position_seconds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	sync, err := deviceService.SyncProgress(currentChildID(c), c.GetString(middlewares.KeyDeviceID), input.VideoID, input.PositionSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sync})
}

func NowWatching(c *gin.Context) {
	sync, err := deviceService.NowWatching(currentChildID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sync})
}

func ListChildDevices(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	devices, err := deviceService.ListDevices(childID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": devices})
}

func RemoveChildDevice(c *gin.Context) {
	childID, ok := uintParam(c, "child_id")
	if !ok {
		return
	}
	if err := deviceService.RemoveDevice(currentParentID(c), childID, c.Param("device_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device removed"})
}

func ChildNowWatching(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	sync, err := deviceService.NowWatching(childID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sync})
}
