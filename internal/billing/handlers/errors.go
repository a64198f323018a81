// Package handlers provides the HTTP surface for the billing service,
// binding JSON requests, invoking the service layer, and translating
// domain errors into a uniform {error: {message, status}} body.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	e "github.com/biztime/backend/internal/billing/errors"
	"go.uber.org/zap"
)

type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// writeError classifies a failure and writes the uniform error
// envelope. Only two domain conditions are recognized: a missing
// resource (404) and a malformed request rejected at the edge (400).
// Everything else, including constraint violations the store raises,
// is a storage failure (500).
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errorBody{
			Message: "Not found!",
			Status:  http.StatusNotFound,
		}})
	case errors.Is(err, e.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{
			Message: err.Error(),
			Status:  http.StatusBadRequest,
		}})
	default:
		logger.Error("Internal server error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Message: "internal server error",
			Status:  http.StatusInternalServerError,
		}})
	}
}
