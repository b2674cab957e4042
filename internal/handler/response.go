package handler

import (
	"github.com/gin-gonic/gin"
)

const (
	errTypeValidation = "validation_error"
	errTypeStorage    = "storage_error"
	errTypeRemote     = "remote_error"
	errTypeProcessing = "processing_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}
