package handler

import (
	"errors"
	"net/http"

	"github.com/Baaaki/backyard-marquee/internal/service"
	"github.com/Baaaki/backyard-marquee/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse writes the uniform {"error": message} body.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondError maps a service error to its status. Unclassified errors are
// logged and answered with fallback so internals never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstream):
		ErrorResponse(c, http.StatusInternalServerError, service.Message(err, fallback))
	default:
		logger.Log.Error("Unhandled internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}
