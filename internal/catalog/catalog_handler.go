package catalog

import (
	"net/http"
	"strconv"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"github.com/gin-gonic/gin"
)

// Automation is the save hook run after every stock entry write. It returns
// the entry as it looks after allocation and depreciation have run.
type Automation interface {
	OnStockEntrySaved(stockEntryID int) (*models.StockEntry, error)
}

type CatalogHandler struct {
	masterRepo *MasterItemRepository
	stockRepo  *StockEntryRepository
	service    *Service
	automation Automation
}

func NewCatalogHandler(masterRepo *MasterItemRepository, stockRepo *StockEntryRepository, service *Service, automation Automation) *CatalogHandler {
	return &CatalogHandler{
		masterRepo: masterRepo,
		stockRepo:  stockRepo,
		service:    service,
		automation: automation,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.GET("/master-items", security.Authorize("user"), h.GetMasterItems)
		protectedRoutes.GET("/master-items/:id", security.Authorize("user"), h.GetMasterItem)
		protectedRoutes.POST("/master-items", security.Authorize("admin"), h.CreateMasterItem)
		protectedRoutes.PATCH("/master-items/:id", security.Authorize("admin"), h.UpdateMasterItem)

		protectedRoutes.GET("/stock-entries/:id", security.Authorize("user"), h.GetStockEntry)
		protectedRoutes.GET("/stock-entries/:id/details", security.Authorize("user"), h.GetStockEntryDetails)
		protectedRoutes.POST("/stock-entries", security.Authorize("admin"), h.CreateStockEntry)
		protectedRoutes.PATCH("/stock-entries/:id", security.Authorize("admin"), h.UpdateStockEntry)

		protectedRoutes.GET("/inventory", security.Authorize("user"), h.GetInventory)
		protectedRoutes.GET("/assets/:assetID", security.Authorize("user"), h.GetAssetDetails)
	}
}

func (h *CatalogHandler) GetMasterItems(c *gin.Context) {
	items, err := h.masterRepo.GetMasterItems()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list master items", "details": err.Error()})
		return
	}
	if items == nil {
		items = []models.MasterItem{}
	}

	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetMasterItem(c *gin.Context) {
	id, ok := numericParam(c, "id")
	if !ok {
		return
	}

	item, err := h.masterRepo.GetMasterItem(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get master item", "details": err.Error()})
		return
	}
	if item == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Master item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) CreateMasterItem(c *gin.Context) {
	var req models.MasterItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid master item payload", "details": err.Error()})
		return
	}

	item, err := h.masterRepo.PersistMasterItem(req)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "A master item with this base ID already exists", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert master item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) UpdateMasterItem(c *gin.Context) {
	id, ok := numericParam(c, "id")
	if !ok {
		return
	}

	var req models.MasterItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid master item payload", "details": err.Error()})
		return
	}

	item, err := h.masterRepo.UpdateMasterItem(id, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update master item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) GetStockEntry(c *gin.Context) {
	id, ok := numericParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.stockRepo.GetStockEntry(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get stock entry", "details": err.Error()})
		return
	}
	if entry == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Stock entry not found"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetStockEntryDetails returns the joined display projection (title, brand,
// location, formatted dates) instead of the raw row.
func (h *CatalogHandler) GetStockEntryDetails(c *gin.Context) {
	id, ok := numericParam(c, "id")
	if !ok {
		return
	}

	details, err := h.service.EntryDetails(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get stock entry details", "details": err.Error()})
		return
	}
	if details == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Stock entry not found"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// CreateStockEntry persists the batch and immediately runs the save hook, so
// the response already carries the allocated unit range and depreciation
// fields.
func (h *CatalogHandler) CreateStockEntry(c *gin.Context) {
	var req models.StockEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stock entry payload", "details": err.Error()})
		return
	}

	item, err := h.masterRepo.GetMasterItem(req.MasterItemID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not verify master item", "details": err.Error()})
		return
	}
	if item == nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Linked master item does not exist"})
		return
	}

	entry, err := h.stockRepo.PersistStockEntry(req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert stock entry", "details": err.Error()})
		return
	}

	entry, err = h.automation.OnStockEntrySaved(entry.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stock entry saved but automation failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *CatalogHandler) UpdateStockEntry(c *gin.Context) {
	id, ok := numericParam(c, "id")
	if !ok {
		return
	}

	var req models.StockEntryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stock entry payload", "details": err.Error()})
		return
	}

	if err := h.stockRepo.UpdateStockEntry(id, req); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update stock entry", "details": err.Error()})
		return
	}

	entry, err := h.automation.OnStockEntrySaved(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stock entry saved but automation failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetInventory returns the aggregated stock list. An empty result carries a
// reason so the client can tell an empty catalog from an empty location.
func (h *CatalogHandler) GetInventory(c *gin.Context) {
	filters := repository.NewQueryBuilder()
	if raw := c.Query("location_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "location_id must be numeric"})
			return
		}
		filters.AddCondition("location_id", id)
	}
	if status := c.Query("status"); status != "" {
		filters.AddCondition("status", status)
	}

	summaries, emptyReason, err := h.service.Summaries(filters, c.Query("search"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not build inventory view", "details": err.Error()})
		return
	}

	response := gin.H{"items": summaries}
	if emptyReason != "" {
		response["empty_reason"] = emptyReason
	}

	c.JSON(http.StatusOK, response)
}

func (h *CatalogHandler) GetAssetDetails(c *gin.Context) {
	details, err := h.service.AssetDetails(c.Param("assetID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not resolve asset", "details": err.Error()})
		return
	}
	if details == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No asset matches this ID"})
		return
	}

	c.JSON(http.StatusOK, details)
}

func numericParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": name + " must be numeric"})
		return 0, false
	}
	return value, true
}
