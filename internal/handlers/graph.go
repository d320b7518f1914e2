package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/models"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
)

// GetGraph exports the full knowledge graph snapshot.
func GetGraph(c *gin.Context) {
	c.JSON(http.StatusOK, svc.Graph.Export())
}

// ImportGraph replaces the graph from a snapshot. Counters are
// recomputed from the highest imported ids so later inserts never
// collide.
func ImportGraph(c *gin.Context) {
	var snap models.GraphSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		respondError(c, apperrors.BadRequest("Invalid graph snapshot"))
		return
	}

	if err := svc.ImportGraph(snap); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nodes": svc.Graph.NodeCount(),
		"edges": svc.Graph.EdgeCount(),
	})
}

// GetConnectedNodes lists a node's direct neighbours in
// first-connection order.
func GetConnectedNodes(c *gin.Context) {
	id := c.Param("id")
	if _, ok := svc.Graph.Node(id); !ok {
		respondError(c, apperrors.NotFound("Node not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": svc.Graph.ConnectedNodes(id)})
}

// GetRecommendations returns scored second-degree nodes for one node.
func GetRecommendations(c *gin.Context) {
	id := c.Param("id")
	if _, ok := svc.Graph.Node(id); !ok {
		respondError(c, apperrors.NotFound("Node not found"))
		return
	}

	limit := 5
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": svc.Graph.Recommend(id, limit)})
}

// GetNodesByType lists nodes of one type in insertion order.
func GetNodesByType(c *gin.Context) {
	t := models.NodeType(c.Param("type"))
	c.JSON(http.StatusOK, gin.H{"nodes": svc.Graph.NodesByType(t)})
}
