package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/database"
	"github.com/pushp314/prompttutor-backend/internal/leaderboard"
	"github.com/pushp314/prompttutor-backend/internal/models"
	"github.com/pushp314/prompttutor-backend/internal/services"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
)

const leaderboardCacheTTL = 30 * time.Second

func queryOptions(c *gin.Context) leaderboard.QueryOptions {
	opts := leaderboard.QueryOptions{
		Continent: c.Query("continent"),
		Type:      models.PromptType(c.Query("type")),
		SortBy:    leaderboard.SortKey(c.DefaultQuery("sortBy", string(leaderboard.SortByScore))),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	return opts
}

// GetLeaderboard returns filtered, sorted entries. Responses are cached
// briefly in Redis and invalidated on every processed submission.
func GetLeaderboard(c *gin.Context) {
	opts := queryOptions(c)
	cacheKey := fmt.Sprintf("%sentries:%s:%s:%s:%d",
		services.LeaderboardCachePrefix, opts.Continent, opts.Type, opts.SortBy, opts.Limit)

	var entries []models.LeaderboardEntry
	if database.CacheGet(cacheKey, &entries) {
		c.JSON(http.StatusOK, gin.H{"entries": entries})
		return
	}

	entries = svc.Board.GetEntries(opts)
	database.CacheSet(cacheKey, entries, leaderboardCacheTTL)
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetRank returns a user's 1-based position under the given filters.
func GetRank(c *gin.Context) {
	userID := c.Param("userId")
	rank := svc.Board.GetRank(userID, queryOptions(c))
	if rank == 0 {
		respondError(c, apperrors.NotFound("User not on the leaderboard"))
		return
	}

	entry, _ := svc.Board.Entry(userID)
	c.JSON(http.StatusOK, gin.H{"rank": rank, "entry": entry})
}

// GetContinentStats returns the per-continent rollup. All continents
// are present even when empty.
func GetContinentStats(c *gin.Context) {
	c.JSON(http.StatusOK, svc.Board.ContinentStats())
}

// GetTypeStats returns the per-prompt-type rollup.
func GetTypeStats(c *gin.Context) {
	c.JSON(http.StatusOK, svc.Board.TypeStats())
}
