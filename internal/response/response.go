// Package response defines the uniform JSON envelope used by every endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"byapar/internal/pagination"
)

// Envelope is the response wrapper shared by all endpoints.
type Envelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Data       interface{}      `json:"data,omitempty"`
	Error      string           `json:"error,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Paged writes a 200 success envelope with pagination metadata.
func Paged(c *gin.Context, message string, data interface{}, meta pagination.Meta) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data, Pagination: &meta})
}

// Fail writes an error envelope with the given HTTP status and the
// machine-readable error code.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{Success: false, Message: message, Error: code})
}

// ValidationFailed writes a 400 envelope carrying field-level errors.
func ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Error:   "INVALID_INPUT",
		Errors:  fieldErrors,
	})
}
