package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
)

// GetBadges returns the full catalog with unlock status, in catalog
// order.
func GetBadges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"badges": svc.Badges.Statuses()})
}

// GetBadgesByCategory groups the catalog by category.
func GetBadgesByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, svc.Badges.ByCategory())
}

// GetUnlockedBadges returns earned badges with their unlock timestamps.
func GetUnlockedBadges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unlocked": svc.Badges.Unlocked()})
}

// GetBadgeProgress reports current/target progress for one badge.
// Badges with no countable progress return progress: null.
func GetBadgeProgress(c *gin.Context) {
	id := c.Param("id")
	statuses := svc.Badges.Statuses()
	found := false
	for _, s := range statuses {
		if s.ID == id {
			found = true
			break
		}
	}
	if !found {
		respondError(c, apperrors.NotFound("Badge not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badgeId":  id,
		"progress": svc.Badges.Progress(id, svc.History.Entries()),
	})
}
