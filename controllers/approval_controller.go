package controllers

import (
	"SafeTube/models"
	"SafeTube/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

var approvalService *services.ApprovalService

func SetApprovalService(service *services.ApprovalService) {
	approvalService = service
}

func RequestApproval(c *gin.Context) {
	var input struct {
		models.ApprovalSubject
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := approvalService.Request(currentChildID(c), input.ApprovalSubject, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": request})
}

func ListMyRequests(c *gin.Context) {
	requests, err := approvalService.ListForChild(currentChildID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func ListPendingApprovals(c *gin.Context) {
	requests, err := approvalService.ListPending(currentParentID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func ReviewApproval(c *gin.Context) {
	requestID, ok := uintParam(c, "request_id")
	if !ok {
		return
	}
	var input struct {
		Decision string `json:"decision" binding:"required,oneof=approve reject"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := approvalService.Review(requestID, input.Decision, currentParentID(c), input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": request})
}

func QuickApprove(c *gin.Context) {
	requestID, ok := uintParam(c, "request_id")
	if !ok {
		return
	}
	request, err := approvalService.QuickApprove(requestID, currentParentID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": request})
}

func DismissApproval(c *gin.Context) {
	requestID, ok := uintParam(c, "request_id")
	if !ok {
		return
	}
	if err := approvalService.Dismiss(requestID, currentParentID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request dismissed"})
}
