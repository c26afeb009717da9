package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(statusCode, response)
}

func SendValidationError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message, nil)
}

// SendValidationDetails reports binding failures field by field.
func SendValidationDetails(c *gin.Context, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}
	if fields := FormatValidationErrors(err); len(fields) > 0 {
		response.Details = fields
	} else if err != nil {
		response.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, response)
}

func SendUnauthorized(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message, nil)
}

func SendForbidden(c *gin.Context, message string) {
	SendError(c, http.StatusForbidden, message, nil)
}

// SendInternalError logs err and keeps it out of the response body.
func SendInternalError(c *gin.Context, message string, err error) {
	logger.WithFields(logger.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error(message, ": ", err)
	SendError(c, http.StatusInternalServerError, message, nil)
}
