package api

import "github.com/gin-gonic/gin"

// errorResponse is the single error body shape for every endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func respondErrorDetails(c *gin.Context, status int, msg, details string) {
	c.JSON(status, errorResponse{Error: msg, Details: details})
}
