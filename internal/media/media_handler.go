// Package media stores the photos auditors attach to revision results and
// serves them back as static files.
package media

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Upload limits. Audit photos come straight off phone cameras.
const maxUploadBytes = 10 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type MediaHandler struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

// NewMediaHandler reads MEDIA_DIR and MEDIA_BASE_URL from the environment and
// falls back to a local uploads directory served under /media.
func NewMediaHandler(log *zap.Logger) (*MediaHandler, error) {
	dir := os.Getenv("MEDIA_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create media directory %s: %w", dir, err)
	}

	baseURL := strings.TrimSuffix(os.Getenv("MEDIA_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "/media"
	}

	return &MediaHandler{dir: dir, baseURL: baseURL, log: log}, nil
}

func (h *MediaHandler) RegisterRoutes(router *gin.Engine) {
	router.Static("/media", h.dir)

	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/media/upload", security.Authorize("auditor"), h.Upload)
	}
}

// Upload accepts one multipart image under the "photo" field and returns the
// URL to store on the audit result.
func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No photo in request", "details": err.Error()})
		return
	}

	if file.Size > maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Photo exceeds the 10MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": "Only jpg, png and webp photos are accepted"})
		return
	}

	name := fmt.Sprintf("audit_%d%s", time.Now().UnixNano(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, name)); err != nil {
		h.log.Error("failed to store uploaded photo", zap.String("filename", name), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not store photo", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": h.baseURL + "/" + name})
}
