package models

import (
	"github.com/shopspring/decimal"
)

// Depreciation status values stored on a stock entry.
const (
	DepreciationActive      = "Active"
	DepreciationDepreciated = "Depreciated"
)

// StockEntry is one purchased batch of units of a master item. StartingUnitID
// is nil until the allocator stamps it on first save; once set it is never
// overwritten.
type StockEntry struct {
	ID                  int             `json:"id" db:"id"`
	MasterItemID        int             `json:"master_item_id" db:"master_item_id"`
	Quantity            int             `json:"quantity" db:"quantity"`
	StartingUnitID      *int            `json:"starting_unit_id" db:"starting_unit_id"`
	PurchaseDate        *Date           `json:"purchase_date" db:"purchase_date"`
	LastCheckedDate     *Date           `json:"last_checked_date" db:"last_checked_date"`
	DepreciationEndDate *Date           `json:"depreciation_end_date" db:"depreciation_end_date"`
	DepreciationStatus  string          `json:"depreciation_status" db:"depreciation_status"`
	ItemPrice           decimal.Decimal `json:"item_price" db:"item_price"`
	LocationID          *int            `json:"location_id" db:"location_id"`
	CurrentStatus       string          `json:"current_status" db:"current_status"`
}

// Allocated reports whether the entry already owns a unit-ID range.
func (s *StockEntry) Allocated() bool {
	return s.StartingUnitID != nil
}

// ContainsUnit reports whether unitNumber falls inside this entry's
// [start, start+quantity) range.
func (s *StockEntry) ContainsUnit(unitNumber int) bool {
	if s.StartingUnitID == nil {
		return false
	}
	return unitNumber >= *s.StartingUnitID && unitNumber < *s.StartingUnitID+s.Quantity
}

type StockEntryRequest struct {
	MasterItemID  int             `json:"master_item_id" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required,gt=0"`
	PurchaseDate  *Date           `json:"purchase_date"`
	ItemPrice     decimal.Decimal `json:"item_price"`
	LocationID    *int            `json:"location_id"`
	CurrentStatus string          `json:"current_status"`
}

type StockEntryUpdateRequest struct {
	Quantity      *int             `json:"quantity" binding:"omitempty,gt=0"`
	PurchaseDate  *Date            `json:"purchase_date"`
	ItemPrice     *decimal.Decimal `json:"item_price"`
	LocationID    *int             `json:"location_id"`
	CurrentStatus *string          `json:"current_status"`
}
