package controllers

import (
	"SafeTube/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

var contentSafetyService *services.ContentSafetyService

func SetContentSafetyService(service *services.ContentSafetyService) {
	contentSafetyService = service
}

func GetContentFilter(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	filter, err := contentSafetyService.GetFilter(childID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": filter})
}

func UpdateContentFilter(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	var input services.FilterUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	filter, err := contentSafetyService.UpdateFilter(childID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": filter})
}

func ListChildContent(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	lists, err := contentSafetyService.ListApproved(childID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lists})
}

func BlockContent(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	var input services.BlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	block, err := contentSafetyService.BlockContent(childID, currentParentID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": block})
}

func UnblockContent(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	blockID, ok := uintParam(c, "block_id")
	if !ok {
		return
	}
	if err := contentSafetyService.UnblockContent(childID, blockID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content unblocked"})
}

func ApproveChannel(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	var input struct {
		ChannelID    string `json:"channel_id" binding:"required"`
		ChannelTitle string `json:"channel_title"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	channel, err := contentSafetyService.ApproveChannel(childID, currentParentID(c), input.ChannelID, input.ChannelTitle, input.ThumbnailURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": channel})
}

func RemoveApprovedChannel(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	if err := contentSafetyService.RemoveApprovedChannel(childID, c.Param("channel_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Channel removed"})
}

func RemoveApprovedVideo(c *gin.Context) {
	childID, ok := ownedChildParam(c)
	if !ok {
		return
	}
	if err := contentSafetyService.RemoveApprovedVideo(childID, c.Param("video_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video removed"})
}

func SearchVideos(c *gin.Context) {
	result, err := contentSafetyService.SearchForChild(c.Request.Context(), currentChildID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// CheckVideo asks whether the child may play a video.
func CheckVideo(c *gin.Context) {
	decision, err := contentSafetyService.EvaluateVideo(c.Request.Context(), currentChildID(c), c.Param("video_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": decision})
}
