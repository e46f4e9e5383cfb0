package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetcare/internal/service"
)

// statusFor maps service errors onto HTTP statuses. Unknown errors are
// treated as bad requests, matching the validation-style messages the
// services produce.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// queryParams flattens the request query into the filter parameter map the
// scope package consumes. Unrecognized keys are simply ignored downstream.
func queryParams(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
