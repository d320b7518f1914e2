package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/services"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
	"github.com/pushp314/prompttutor-backend/pkg/logger"
)

// SubmitReview accepts one prompt, scores it and fans the result out to
// badges, leaderboard and the knowledge graph. Only one review runs at
// a time; overlapping submissions get a 409.
func SubmitReview(c *gin.Context) {
	var req services.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt and type are required"})
		return
	}

	outcome, err := svc.ProcessSubmission(c.Request.Context(), req)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			// Anything untyped at this point came from the scoring
			// collaborator.
			logger.Error().Err(err).Msg("Prompt evaluation failed")
			err = apperrors.ErrEvaluatorFailed
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// GetProfile returns the stored local profile.
func GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, svc.Profile())
}

// GetHistory returns the normalized submission log, oldest first.
func GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": svc.History.Entries()})
}
