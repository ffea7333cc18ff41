package audit

import (
	"errors"
	"net/http"
	"time"

	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	service *Service
}

func NewAuditHandler(service *Service) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/audits")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("", security.Authorize("user"), h.ListSessions)
		protectedRoutes.GET("/:sessionID/report", security.Authorize("user"), h.GetReport)
		protectedRoutes.POST("/session", security.Authorize("auditor"), h.OpenSession)
		protectedRoutes.POST("/:sessionID/units", security.Authorize("auditor"), h.SaveUnit)
		protectedRoutes.POST("/:sessionID/complete", security.Authorize("auditor"), h.CompleteSession)
	}
}

type openSessionRequest struct {
	LocationID int          `json:"location_id" binding:"required"`
	Date       *models.Date `json:"date"`
}

// OpenSession derives the composite session identifier for the caller. The
// same auditor, location, and day always map to the same session, so opening
// twice resumes rather than forks.
func (h *AuditHandler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid session request", "details": err.Error()})
		return
	}

	auditorID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify auditor", "details": err.Error()})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = req.Date.Time
	}

	c.JSON(http.StatusOK, gin.H{"session_id": SessionID(date, req.LocationID, auditorID)})
}

func (h *AuditHandler) SaveUnit(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var unit UnitResult
	if err := c.ShouldBindJSON(&unit); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid unit result", "details": err.Error()})
		return
	}

	auditorID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify auditor", "details": err.Error()})
		return
	}

	if err := h.service.SaveUnitResult(sessionID, auditorID, unit, time.Now()); err != nil {
		var validationErr *custom_error.ValidationError
		if errors.As(err, &validationErr) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to save audit result", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "full_asset_id": unit.FullAssetID})
}

type completeSessionRequest struct {
	Units []UnitResult `json:"units" binding:"required"`
}

func (h *AuditHandler) CompleteSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var req completeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid completion payload", "details": err.Error()})
		return
	}

	auditorID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify auditor", "details": err.Error()})
		return
	}

	summary, err := h.service.CompleteSession(sessionID, auditorID, req.Units)
	if err != nil {
		var validationErr *custom_error.ValidationError
		if errors.As(err, &validationErr) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to complete audit session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AuditHandler) ListSessions(c *gin.Context) {
	sessionIDs, err := h.service.ListSessions()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list audit sessions", "details": err.Error()})
		return
	}
	if sessionIDs == nil {
		sessionIDs = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessionIDs})
}

func (h *AuditHandler) GetReport(c *gin.Context) {
	sessionID := c.Param("sessionID")

	report, err := h.service.BuildReport(sessionID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build audit report", "details": err.Error()})
		return
	}
	if report == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No audit data for this session"})
		return
	}

	c.JSON(http.StatusOK, report)
}
