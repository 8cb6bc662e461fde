package handler

import (
	"log"
	"net/http"

	"github.com/aman-churiwal/book-manager/internal/validation"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, errs *validation.ErrorSet) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "Validation failed",
		"details": errs,
	})
}

// respondInternalError logs the real failure and returns a generic message,
// so store details never leak to the client.
func respondInternalError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	log.Printf("[%s] ERROR: %v", requestID, err)

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "An unexpected error occurred",
	})
}
