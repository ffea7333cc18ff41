// Package verification maps a scanned asset ID back to its owning stock
// entry and decides whether the unit belongs in the location being audited.
package verification

import (
	"fmt"

	"github.com/Josiascalt/tac-inventory-sys/pkg/assetid"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
)

// Verdict statuses. A business-logic miss is a successful response carrying
// an Unknown verdict, never a transport error, so the scanner UI can show a
// transient message and keep scanning.
const (
	StatusMatch            = "perfect_match"
	StatusLocationMismatch = "location_mismatch"
	StatusUnknown          = "unknown_item"
)

type Verdict struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func matchVerdict() Verdict {
	return Verdict{Status: StatusMatch}
}

func mismatchVerdict(actualLocationName string) Verdict {
	return Verdict{
		Status:  StatusLocationMismatch,
		Message: fmt.Sprintf("This item belongs in %s.", actualLocationName),
	}
}

func unknownVerdict(reason string) Verdict {
	return Verdict{Status: StatusUnknown, Message: reason}
}

// Store is the catalog surface the resolver needs. Lookups return nil (not
// an error) when nothing matches.
type Store interface {
	GetMasterItemByBaseID(baseID string) (*models.MasterItem, error)
	GetStockEntriesByMasterItem(masterItemID int) ([]models.StockEntry, error)
	GetLocation(id int) (*models.Location, error)
	DescendantLocationIDs(id int) ([]int, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve walks the derivation backwards: parse the scanned ID, find the
// master item by base ID, find the batch whose unit range contains the
// number, then compare the batch's location against the expected location
// and its descendants.
func (r *Resolver) Resolve(scannedID string, expectedLocationID int) (Verdict, error) {
	baseID, unitNumber, err := assetid.Parse(scannedID)
	if err != nil {
		return unknownVerdict("QR code format is invalid."), nil
	}

	item, err := r.store.GetMasterItemByBaseID(baseID)
	if err != nil {
		return Verdict{}, err
	}
	if item == nil {
		return unknownVerdict("No master item found with this Base ID."), nil
	}

	entries, err := r.store.GetStockEntriesByMasterItem(item.ID)
	if err != nil {
		return Verdict{}, err
	}
	if len(entries) == 0 {
		return unknownVerdict("No stock entries exist for this master item."), nil
	}

	var owner *models.StockEntry
	for i := range entries {
		if entries[i].ContainsUnit(unitNumber) {
			owner = &entries[i]
			break
		}
	}
	if owner == nil {
		return unknownVerdict("Could not find a stock entry for this asset unit."), nil
	}

	if owner.LocationID == nil {
		return unknownVerdict("This asset exists but has no location assigned."), nil
	}

	validIDs := map[int]bool{expectedLocationID: true}
	descendants, err := r.store.DescendantLocationIDs(expectedLocationID)
	if err != nil {
		return Verdict{}, err
	}
	for _, id := range descendants {
		validIDs[id] = true
	}

	if validIDs[*owner.LocationID] {
		return matchVerdict(), nil
	}

	actualName := fmt.Sprintf("location %d", *owner.LocationID)
	if location, err := r.store.GetLocation(*owner.LocationID); err == nil && location != nil {
		actualName = location.Name
	}

	return mismatchVerdict(actualName), nil
}
