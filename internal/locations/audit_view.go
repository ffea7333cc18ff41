package locations

import (
	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	"github.com/Josiascalt/tac-inventory-sys/pkg/assetid"
)

// AuditViewUnit is one expanded unit in the checklist the auditor's device
// renders for a location. Every unit starts pending.
type AuditViewUnit struct {
	StockEntryID int    `json:"stock_entry_id"`
	UnitIndex    int    `json:"unit_index"`
	FullAssetID  string `json:"full_asset_id"`
	Title        string `json:"title"`
	Brand        string `json:"brand"`
	LocationName string `json:"location_name"`
	ImageURL     string `json:"image_url"`
	State        string `json:"state"`
}

// BuildAuditView expands stock entries into one checklist line per physical
// unit. Entries that have not been through allocation yet have no printable
// IDs and are left out.
func BuildAuditView(details []catalog.FlatEntryDetail) []AuditViewUnit {
	units := []AuditViewUnit{}
	for _, detail := range details {
		if detail.StartingUnitID == nil {
			continue
		}
		for offset := 0; offset < detail.Quantity; offset++ {
			unitNumber := *detail.StartingUnitID + offset
			units = append(units, AuditViewUnit{
				StockEntryID: detail.StockEntryID,
				UnitIndex:    unitNumber,
				FullAssetID:  assetid.Derive(detail.BaseID, unitNumber),
				Title:        detail.Title,
				Brand:        detail.Brand,
				LocationName: detail.LocationName,
				ImageURL:     detail.ImageURL,
				State:        "pending",
			})
		}
	}
	return units
}
