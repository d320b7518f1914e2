package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/services"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

var svc *services.ReviewService

// Init wires the review service into the handler package. Must be
// called once before any route is registered.
func Init(s *services.ReviewService) {
	svc = s
}

// respondError maps typed application errors to their status code and
// everything else to a 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}
