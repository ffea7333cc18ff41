package notifications

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *Service
}

func NewNotificationHandler(service *Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/notifications")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("", security.Authorize("user"), h.ListDue)
		protectedRoutes.POST("/acknowledge", security.Authorize("user"), h.Acknowledge)
	}
}

func (h *NotificationHandler) ListDue(c *gin.Context) {
	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	horizonDays := DefaultHorizonDays
	if raw := c.Query("days"); raw != "" {
		horizonDays, err = strconv.Atoi(raw)
		if err != nil || horizonDays <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "days must be a positive number"})
			return
		}
	}

	notifications, err := h.service.ListDue(userID, horizonDays, time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

type acknowledgeRequest struct {
	FullAssetID string `json:"full_asset_id" binding:"required"`
}

func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid acknowledgement payload", "details": err.Error()})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	already, err := h.service.Acknowledge(req.FullAssetID, userID)
	if err != nil {
		var validationErr *custom_error.ValidationError
		if errors.As(err, &validationErr) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to save acknowledgement", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": req.FullAssetID, "already_acknowledged": already})
}
