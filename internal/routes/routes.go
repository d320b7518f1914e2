package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/handlers"
	"github.com/pushp314/prompttutor-backend/internal/middleware"
)

// RegisterReviewRoutes mounts the submission pipeline.
func RegisterReviewRoutes(r gin.IRouter) {
	reviews := r.Group("/reviews")
	{
		reviews.POST("", middleware.ReviewRateLimit(), handlers.SubmitReview)
		reviews.GET("/history", handlers.GetHistory)
	}

	r.GET("/profile", handlers.GetProfile)
}

// RegisterBadgeRoutes mounts the badge catalog and progress queries.
func RegisterBadgeRoutes(r gin.IRouter) {
	badges := r.Group("/badges")
	{
		badges.GET("", handlers.GetBadges)
		badges.GET("/categories", handlers.GetBadgesByCategory)
		badges.GET("/unlocked", handlers.GetUnlockedBadges)
		badges.GET("/:id/progress", handlers.GetBadgeProgress)
	}
}

// RegisterLeaderboardRoutes mounts leaderboard queries and rollups.
func RegisterLeaderboardRoutes(r gin.IRouter) {
	lb := r.Group("/leaderboard")
	{
		lb.GET("", handlers.GetLeaderboard)
		lb.GET("/rank/:userId", handlers.GetRank)
		lb.GET("/stats/continents", handlers.GetContinentStats)
		lb.GET("/stats/types", handlers.GetTypeStats)
	}
}

// RegisterGraphRoutes mounts the knowledge graph surface.
func RegisterGraphRoutes(r gin.IRouter) {
	graph := r.Group("/graph")
	{
		graph.GET("", handlers.GetGraph)
		graph.POST("/import", handlers.ImportGraph)
		graph.GET("/nodes/:id/connections", handlers.GetConnectedNodes)
		graph.GET("/nodes/:id/recommendations", handlers.GetRecommendations)
		graph.GET("/types/:type", handlers.GetNodesByType)
	}
}

// RegisterDataRoutes mounts export/import/reset and the CSV audit log.
func RegisterDataRoutes(r gin.IRouter) {
	data := r.Group("/data")
	{
		data.GET("/export", handlers.ExportData)
		data.POST("/import", handlers.ImportData)
		data.POST("/reset", handlers.ResetData)
		data.GET("/history.csv", handlers.GetHistoryCSV)
	}
}
