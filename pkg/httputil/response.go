package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zerofoodhero/api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK sends a success response
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// Created sends a resource-created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// Message sends a success response carrying only a message
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Status: "success", Message: msg})
}

// Error sends an error response, mapping AppError codes to HTTP statuses
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.HTTPStatus()
		message = appErr.Message
	} else if err != nil {
		message = err.Error()
	}

	c.JSON(status, Response{Status: "error", Message: message})
}

// BadRequest sends a 400 with the given message
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Status: "error", Message: message})
}
