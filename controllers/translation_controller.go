package controllers

import (
	"SafeTube/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetTranslations(c *gin.Context) {
	lang := c.DefaultQuery("lang", "en")

	if translationService == nil {
		respondError(c, services.ServiceUnavailable("translation service not initialized"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"translations": translationService.GetAllTranslations(lang),
	})
}
