package invoice

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error body every failing endpoint responds with.
type APIError struct {
	Details any    `json:"details,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, code, message string) *APIError {
	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func badRequest(message string) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", message)
}

func unauthorized(message string) *APIError {
	return newAPIError(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func notFound(message string) *APIError {
	return newAPIError(http.StatusNotFound, "NOT_FOUND", message)
}

func internal(message string) *APIError {
	if message == "" {
		message = "Internal Server Error"
	}

	return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func writeError(c *gin.Context, apiErr *APIError) {
	if apiErr == nil {
		apiErr = internal("")
	}

	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": apiErr,
	})
}
