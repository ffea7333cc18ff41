package verification

import (
	"net/http"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/rate_limiter"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
)

type VerifyHandler struct {
	resolver    *Resolver
	rateLimiter *rate_limiter.RateLimiter
}

func NewVerifyHandler(resolver *Resolver) *VerifyHandler {
	return &VerifyHandler{
		resolver:    resolver,
		rateLimiter: rate_limiter.NewRateLimiter(120, time.Minute),
	}
}

func (h *VerifyHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/verify-qr", security.Authorize("auditor"), h.VerifyQrCode)
	}
}

type verifyRequest struct {
	ScannedID  string `json:"scanned_id" binding:"required"`
	LocationID int    `json:"location_id" binding:"required"`
}

func (h *VerifyHandler) VerifyQrCode(c *gin.Context) {
	if !h.rateLimiter.IsAllowed(c.ClientIP()) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many scan requests, slow down"})
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No ID was scanned."})
		return
	}

	verdict, err := h.resolver.Resolve(req.ScannedID, req.LocationID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to verify QR code", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, verdict)
}
