package Controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError carries a stable machine-readable code alongside the HTTP status
// so callers can branch without parsing messages.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string { return e.Message }

func errValidation(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: message}
}

func errUnauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: "UNAUTHENTICATED", Message: message}
}

func errForbidden(message string) *APIError {
	return &APIError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: message}
}

func errNotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func errConflict(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Code: "CONFLICT", Message: message}
}

func errInternal(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: message}
}

func abortWithError(c *gin.Context, apiErr *APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
}
