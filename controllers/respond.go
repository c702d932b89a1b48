package controllers

import (
	"SafeTube/middlewares"
	"SafeTube/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respondError renders a service error as {"error", "code"} with the matching status.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	c.JSON(middlewares.StatusFor(kind), gin.H{"error": err.Error(), "code": kind})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": services.KindInvalidInput})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		respondError(c, services.InvalidInput("invalid %s", name))
		return 0, false
	}
	return uint(value), true
}

func currentParentID(c *gin.Context) uint {
	return c.GetUint(middlewares.KeyParentID)
}

func currentChildID(c *gin.Context) uint {
	return c.GetUint(middlewares.KeyChildID)
}

// ownedChildParam reads :child_id and checks that it belongs to the authenticated parent.
func ownedChildParam(c *gin.Context) (uint, bool) {
	childID, ok := uintParam(c, "child_id")
	if !ok {
		return 0, false
	}
	if _, err := parentService.OwnedChild(currentParentID(c), childID); err != nil {
		respondError(c, err)
		return 0, false
	}
	return childID, true
}
