package locations

import (
	"net/http"
	"strconv"

	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
)

// EntryStore is the slice of the catalog the audit view needs.
type EntryStore interface {
	GetEntryDetailsInLocations(locationIDs []int) ([]catalog.FlatEntryDetail, error)
}

type LocationHandler struct {
	Repository *LocationRepository
	entries    EntryStore
}

func NewLocationHandler(r *LocationRepository, entries EntryStore) *LocationHandler {
	return &LocationHandler{Repository: r, entries: entries}
}

func (h *LocationHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("/locations")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("", security.Authorize("user"), h.GetLocations)
		protectedRoutes.GET("/:id", security.Authorize("user"), h.GetLocation)
		protectedRoutes.GET("/:id/audit-view", security.Authorize("auditor"), h.GetAuditView)
		protectedRoutes.POST("", security.Authorize("admin"), h.CreateLocation)
		protectedRoutes.PATCH("/:id", security.Authorize("admin"), h.UpdateLocation)
		protectedRoutes.DELETE("/:id", security.Authorize("admin"), h.RemoveLocation)
	}
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.Repository.GetLocations()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	location, err := h.Repository.GetLocation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location", "details": err.Error()})
		return
	}
	if location == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	c.JSON(http.StatusOK, location)
}

// GetAuditView returns the per-unit checklist for a location and everything
// below it in the tree.
func (h *LocationHandler) GetAuditView(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	location, err := h.Repository.GetLocation(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location", "details": err.Error()})
		return
	}
	if location == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	descendants, err := h.Repository.DescendantIDs(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not walk location tree", "details": err.Error()})
		return
	}

	details, err := h.entries.GetEntryDetailsInLocations(append([]int{id}, descendants...))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load location stock", "details": err.Error()})
		return
	}

	units := BuildAuditView(details)
	c.JSON(http.StatusOK, gin.H{
		"location": location,
		"units":    units,
		"total":    len(units),
	})
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	location, err := h.Repository.PersistLocation(req)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A location with this name already exists", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert location", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	location, err := h.Repository.UpdateLocation(id, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update location", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.Repository.RemoveLocation(id)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Location still has stock or children", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete location", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Location ID must be numeric"})
		return 0, false
	}
	return id, true
}
