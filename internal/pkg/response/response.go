package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform success body for every endpoint.
type Envelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
}

// ErrorEnvelope is the uniform failure body for every endpoint.
type ErrorEnvelope struct {
	Success    bool        `json:"success"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Errors     interface{} `json:"errors,omitempty"`
	Timestamp  string      `json:"timestamp"`
	Path       string      `json:"path"`
}

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, Envelope{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    message,
		Data:       data,
	})
}

// Error aborts the request with the uniform failure envelope.
func Error(c *gin.Context, status int, message string, fieldErrors interface{}) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Errors:     fieldErrors,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.Path,
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message, nil)
}

// ValidationFailed sends a 400 with field-level detail.
func ValidationFailed(c *gin.Context, fieldErrors interface{}) {
	Error(c, http.StatusBadRequest, "Validation failed", fieldErrors)
}

// Unauthorized sends a 401 error response without leaking the internal cause.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized", nil)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not Found"
	}
	Error(c, http.StatusNotFound, message, nil)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
}

// InternalError sends a 500 with a generic message; the real error is left to
// the caller's logger, never echoed to the client.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Sorry, something went wrong there. Try again.", nil)
}
