package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pushp314/prompttutor-backend/internal/services"
	apperrors "github.com/pushp314/prompttutor-backend/pkg/errors"
)

// ExportData returns the full profile bundle for backup.
func ExportData(c *gin.Context) {
	c.JSON(http.StatusOK, svc.Export())
}

// ImportData replaces all state from a previously exported bundle.
func ImportData(c *gin.Context) {
	var bundle services.ExportBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		respondError(c, apperrors.BadRequest("Invalid export bundle"))
		return
	}

	if err := svc.Import(bundle); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Data imported"})
}

// ResetData wipes every stored key and all in-memory state.
func ResetData(c *gin.Context) {
	if err := svc.Reset(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All data reset"})
}

// GetHistoryCSV serves the append-only audit log as a CSV download.
func GetHistoryCSV(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="prompt-history.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(svc.History.CSV()))
}
