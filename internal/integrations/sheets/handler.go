package sheets

import (
	"net/http"

	"github.com/Josiascalt/tac-inventory-sys/internal/audit"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exporter *Exporter
	audits   *audit.Service
}

func NewExportHandler(exporter *Exporter, audits *audit.Service) *ExportHandler {
	return &ExportHandler{exporter: exporter, audits: audits}
}

func (h *ExportHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/audits")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/:sessionID/export", security.Authorize("admin"), h.ExportReport)
	}
}

func (h *ExportHandler) ExportReport(c *gin.Context) {
	sessionID := c.Param("sessionID")

	report, err := h.audits.BuildReport(sessionID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build audit report", "details": err.Error()})
		return
	}
	if report == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No audit data for this session"})
		return
	}

	if err := h.exporter.Export(report); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Export failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exported": sessionID, "rows": report.FoundCount + report.MissingCount})
}
