package catalog

import (
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/shopspring/decimal"
)

// FlatEntryDetail is the scan target for the stock entry / master item /
// location join.
type FlatEntryDetail struct {
	StockEntryID        int             `db:"stock_entry_id"`
	MasterItemID        int             `db:"master_item_id"`
	Quantity            int             `db:"quantity"`
	StartingUnitID      *int            `db:"starting_unit_id"`
	PurchaseDate        *models.Date    `db:"purchase_date"`
	DepreciationEndDate *models.Date    `db:"depreciation_end_date"`
	DepreciationStatus  string          `db:"depreciation_status"`
	ItemPrice           decimal.Decimal `db:"item_price"`
	CurrentStatus       string          `db:"current_status"`
	BaseID              string          `db:"base_id"`
	Title               string          `db:"title"`
	Brand               string          `db:"brand"`
	ShortDescription    string          `db:"short_description"`
	UsableLifeYears     int             `db:"usable_life_years"`
	ImageURL            string          `db:"image_url"`
	LocationID          *int            `db:"location_id"`
	LocationName        string          `db:"location_name"`
}

// AssetDetails is the display projection behind the details modal: already
// formatted, with N/A fallbacks, so clients render it verbatim.
type AssetDetails struct {
	Title               string `json:"title"`
	Brand               string `json:"brand"`
	Description         string `json:"description"`
	Location            string `json:"location"`
	Price               string `json:"price"`
	PurchaseDate        string `json:"purchase_date"`
	UsableLife          int    `json:"usable_life"`
	DepreciationStatus  string `json:"dep_status"`
	DepreciationEndDate string `json:"dep_end_date"`
	ImageURL            string `json:"image_url"`
}

const notAvailable = "N/A"

func (d *FlatEntryDetail) TransformToDetails() AssetDetails {
	details := AssetDetails{
		Title:               orNA(d.Title),
		Brand:               orNA(d.Brand),
		Description:         orNA(d.ShortDescription),
		Location:            orNA(d.LocationName),
		Price:               d.ItemPrice.StringFixed(2),
		PurchaseDate:        notAvailable,
		UsableLife:          d.UsableLifeYears,
		DepreciationStatus:  d.DepreciationStatus,
		DepreciationEndDate: notAvailable,
		ImageURL:            d.ImageURL,
	}

	if d.PurchaseDate != nil {
		details.PurchaseDate = d.PurchaseDate.DisplayFormat()
	}
	if d.DepreciationEndDate != nil {
		details.DepreciationEndDate = d.DepreciationEndDate.DisplayFormat()
	}

	return details
}

func orNA(value string) string {
	if value == "" {
		return notAvailable
	}
	return value
}

// InventorySummary aggregates one master item's stock across entries for the
// inventory display view.
type InventorySummary struct {
	MasterItem        models.MasterItem `json:"master_item"`
	TotalQuantity     int               `json:"total_quantity"`
	LocationBreakdown map[string]int    `json:"location_breakdown"`
	StatusBreakdown   map[string]int    `json:"status_breakdown"`
}
