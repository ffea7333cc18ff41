// Package automation holds the save-time logic for stock entries: one-shot
// unit-ID allocation from the master item's global counter, and the
// depreciation recalculation that runs on every save.
package automation

import (
	"time"

	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
)

// Allocate stamps entry with the next contiguous unit range from item's
// counter and advances the counter by the batch quantity. Returns false
// without touching anything when the entry already owns a range (allocation
// is write-once, so repeated saves are no-ops) or when quantity is not
// positive.
func Allocate(entry *models.StockEntry, item *models.MasterItem) bool {
	if entry.Allocated() {
		return false
	}
	if entry.Quantity <= 0 {
		return false
	}

	start := item.TotalUnitsCreated
	entry.StartingUnitID = &start
	item.TotalUnitsCreated = start + entry.Quantity

	return true
}

// Recompute stamps last_checked_date and, when both purchase date and usable
// life are known, recalculates the depreciation end date (calendar-year
// addition) and status. Missing inputs leave the prior depreciation fields
// untouched. Returns whether the depreciation fields were recalculated.
func Recompute(entry *models.StockEntry, item *models.MasterItem, now time.Time) bool {
	today := models.DateOf(now)
	entry.LastCheckedDate = &today

	if entry.PurchaseDate == nil || item.UsableLifeYears <= 0 {
		return false
	}

	end := models.DateOf(entry.PurchaseDate.AddDate(item.UsableLifeYears, 0, 0))
	entry.DepreciationEndDate = &end

	if now.After(end.Time) {
		entry.DepreciationStatus = models.DepreciationDepreciated
	} else {
		entry.DepreciationStatus = models.DepreciationActive
	}

	return true
}
