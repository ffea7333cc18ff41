// Package catalog owns the master item and stock entry records and the read
// views built on top of them.
package catalog

import (
	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/assetid"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// Empty-list reasons for the inventory view. An empty catalog and an empty
// filter result look the same to a client unless we say which one happened.
const (
	EmptyReasonNoMasterItems = "no_master_items"
	EmptyReasonNoMatches     = "no_matching_items"
	EmptyReasonNoStock       = "no_stock_in_location"
)

type MasterStore interface {
	GetMasterItems() ([]models.MasterItem, error)
	GetMasterItemsByIDs(ids []int) ([]models.MasterItem, error)
	SearchMasterItemIDs(term string) ([]int, error)
	GetMasterItemByBaseID(baseID string) (*models.MasterItem, error)
}

type EntryDetailStore interface {
	GetEntriesWithItems(conditions ...goqu.Expression) ([]FlatEntryDetail, error)
	GetStockEntriesByMasterItem(masterItemID int) ([]models.StockEntry, error)
	GetEntryDetail(entryID int) (*FlatEntryDetail, error)
	FindStockEntryIDByAssetID(fullAssetID string) (int, error)
}

type Service struct {
	masters MasterStore
	entries EntryDetailStore
	log     *zap.Logger
}

func NewService(masters MasterStore, entries EntryDetailStore, log *zap.Logger) *Service {
	return &Service{masters: masters, entries: entries, log: log}
}

// filterAliases maps request-level filter keys onto the joined query's
// column aliases.
var filterAliases = map[string]string{
	"location_id": "s.location_id",
	"status":      "s.depreciation_status",
}

// Summaries builds the inventory display list: one row per master item with
// its stock aggregated across entries. When the result is empty the second
// return value says why.
func (s *Service) Summaries(filters repository.QueryBuilder, search string) ([]InventorySummary, string, error) {
	items, err := s.filteredMasterItems(search)
	if err != nil {
		return nil, "", err
	}
	if len(items) == 0 {
		if search != "" {
			return []InventorySummary{}, EmptyReasonNoMatches, nil
		}
		return []InventorySummary{}, EmptyReasonNoMasterItems, nil
	}

	conditions := []goqu.Expression{}
	itemIDs := make([]int, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	conditions = append(conditions, goqu.Ex{"s.master_item_id": itemIDs})
	if filters != nil && filters.HasConditions() {
		conditions = append(conditions, filters.BuildConditions(filterAliases))
	}

	details, err := s.entries.GetEntriesWithItems(conditions...)
	if err != nil {
		return nil, "", err
	}

	itemsByID := make(map[int]models.MasterItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	order := []int{}
	byItem := map[int]*InventorySummary{}
	for _, detail := range details {
		summary, ok := byItem[detail.MasterItemID]
		if !ok {
			summary = &InventorySummary{
				MasterItem:        itemsByID[detail.MasterItemID],
				LocationBreakdown: map[string]int{},
				StatusBreakdown:   map[string]int{},
			}
			byItem[detail.MasterItemID] = summary
			order = append(order, detail.MasterItemID)
		}

		summary.TotalQuantity += detail.Quantity
		locationName := detail.LocationName
		if locationName == "" {
			locationName = "Unassigned"
		}
		summary.LocationBreakdown[locationName] += detail.Quantity
		if detail.DepreciationStatus != "" {
			summary.StatusBreakdown[detail.DepreciationStatus] += detail.Quantity
		}
	}

	if len(order) == 0 {
		return []InventorySummary{}, EmptyReasonNoStock, nil
	}

	summaries := make([]InventorySummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byItem[id])
	}

	return summaries, "", nil
}

// EntryDetails returns the display projection for one stock entry, or nil
// when the entry does not exist.
func (s *Service) EntryDetails(entryID int) (*AssetDetails, error) {
	detail, err := s.entries.GetEntryDetail(entryID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, nil
	}

	transformed := detail.TransformToDetails()
	return &transformed, nil
}

// AssetDetails resolves a full asset ID to the display projection behind the
// details modal. Returns nil when the ID does not map to any allocated unit.
func (s *Service) AssetDetails(fullAssetID string) (*AssetDetails, error) {
	baseID, unitNumber, err := assetid.Parse(fullAssetID)
	if err != nil {
		return nil, nil
	}

	item, err := s.masters.GetMasterItemByBaseID(baseID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	entries, err := s.entries.GetStockEntriesByMasterItem(item.ID)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if !entries[i].ContainsUnit(unitNumber) {
			continue
		}
		detail, err := s.entries.GetEntryDetail(entries[i].ID)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return nil, nil
		}
		transformed := detail.TransformToDetails()
		return &transformed, nil
	}

	return nil, nil
}

func (s *Service) filteredMasterItems(search string) ([]models.MasterItem, error) {
	if search == "" {
		return s.masters.GetMasterItems()
	}

	// A term shaped like a full asset ID can be resolved through the audit
	// log even when it matches no catalog text.
	if _, _, err := assetid.Parse(search); err == nil {
		if items, err := s.masterItemByAuditedAsset(search); err != nil || items != nil {
			return items, err
		}
	}

	ids, err := s.masters.SearchMasterItemIDs(search)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.masters.GetMasterItemsByIDs(ids)
}

func (s *Service) masterItemByAuditedAsset(fullAssetID string) ([]models.MasterItem, error) {
	entryID, err := s.entries.FindStockEntryIDByAssetID(fullAssetID)
	if err != nil {
		return nil, err
	}
	if entryID == 0 {
		return nil, nil
	}

	detail, err := s.entries.GetEntryDetail(entryID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, nil
	}

	return s.masters.GetMasterItemsByIDs([]int{detail.MasterItemID})
}
