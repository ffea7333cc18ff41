package catalog

import (
	"fmt"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type StockEntryRepository struct {
	repository *repository.Repository
}

func NewStockEntryRepository(r *repository.Repository) *StockEntryRepository {
	return &StockEntryRepository{repository: r}
}

var stockEntryColumns = []interface{}{
	"id", "master_item_id", "quantity", "starting_unit_id",
	"purchase_date", "last_checked_date", "depreciation_end_date",
	"depreciation_status", "item_price", "location_id", "current_status",
}

func (r *StockEntryRepository) GetStockEntry(id int) (*models.StockEntry, error) {
	var entry models.StockEntry
	query := r.stockEntryQuery().Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&entry)
	if err != nil {
		return nil, fmt.Errorf("unable to select stock entry: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &entry, nil
}

func (r *StockEntryRepository) GetStockEntriesByMasterItem(masterItemID int) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	query := r.stockEntryQuery().
		Where(goqu.Ex{"master_item_id": masterItemID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("unable to select stock entries: %w", err)
	}

	return entries, nil
}

func (r *StockEntryRepository) PersistStockEntry(req models.StockEntryRequest) (*models.StockEntry, error) {
	var entryID int

	record := goqu.Record{
		"master_item_id": req.MasterItemID,
		"quantity":       req.Quantity,
		"item_price":     req.ItemPrice,
		"current_status": req.CurrentStatus,
	}
	if req.PurchaseDate != nil {
		record["purchase_date"] = *req.PurchaseDate
	}
	if req.LocationID != nil {
		record["location_id"] = *req.LocationID
	}

	query := r.repository.GoquDBWrapper.Insert("stock_entries").
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&entryID); err != nil {
		return nil, fmt.Errorf("failed to insert stock entry: %w", err)
	}

	return r.GetStockEntry(entryID)
}

func (r *StockEntryRepository) UpdateStockEntry(id int, req models.StockEntryUpdateRequest) error {
	updates := goqu.Record{}

	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.PurchaseDate != nil {
		updates["purchase_date"] = *req.PurchaseDate
	}
	if req.ItemPrice != nil {
		updates["item_price"] = *req.ItemPrice
	}
	if req.LocationID != nil {
		updates["location_id"] = *req.LocationID
	}
	if req.CurrentStatus != nil {
		updates["current_status"] = *req.CurrentStatus
	}
	if len(updates) == 0 {
		return nil
	}

	result, err := r.repository.GoquDBWrapper.Update("stock_entries").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update stock entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no stock entry found with id: %d", id)
	}

	return nil
}

// SetStartingUnitID performs the write-once stamp of an entry's unit range.
// The WHERE guard means a concurrent allocation that lost the race leaves the
// first value in place.
func (r *StockEntryRepository) SetStartingUnitID(tx *goqu.TxDatabase, entryID int, startingUnitID int) error {
	_, err := tx.Update("stock_entries").
		Set(goqu.Record{"starting_unit_id": startingUnitID}).
		Where(goqu.Ex{"id": entryID, "starting_unit_id": nil}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to stamp starting unit id on entry %d: %w", entryID, err)
	}

	return nil
}

func (r *StockEntryRepository) GetStockEntryForUpdate(tx *goqu.TxDatabase, id int) (*models.StockEntry, error) {
	var entry models.StockEntry
	query := tx.Select(stockEntryColumns...).
		From("stock_entries").
		Where(goqu.Ex{"id": id}).
		ForUpdate(goqu.Wait)

	found, err := query.Executor().ScanStruct(&entry)
	if err != nil {
		return nil, fmt.Errorf("unable to lock stock entry %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &entry, nil
}

// UpdateDepreciationFields persists the fields the depreciation engine owns.
func (r *StockEntryRepository) UpdateDepreciationFields(entry *models.StockEntry) error {
	updates := goqu.Record{}

	if entry.LastCheckedDate != nil {
		updates["last_checked_date"] = *entry.LastCheckedDate
	}
	if entry.DepreciationEndDate != nil {
		updates["depreciation_end_date"] = *entry.DepreciationEndDate
	}
	if entry.DepreciationStatus != "" {
		updates["depreciation_status"] = entry.DepreciationStatus
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := r.repository.GoquDBWrapper.Update("stock_entries").
		Set(updates).
		Where(goqu.Ex{"id": entry.ID}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update depreciation fields on entry %d: %w", entry.ID, err)
	}

	return nil
}

// GetEntriesWithItems returns the flat join used by notifications and the
// location audit view: every stock entry together with its master item
// attributes and location name.
func (r *StockEntryRepository) GetEntriesWithItems(conditions ...goqu.Expression) ([]FlatEntryDetail, error) {
	query := r.detailQuery()
	for _, condition := range conditions {
		query = query.Where(condition)
	}
	query = query.Order(goqu.I("s.id").Asc())

	var details []FlatEntryDetail
	if err := query.Executor().ScanStructs(&details); err != nil {
		return nil, fmt.Errorf("unable to select stock entry details: %w", err)
	}

	return details, nil
}

// GetEntryDetailsInLocations returns the joined details of every entry whose
// location falls in the given set.
func (r *StockEntryRepository) GetEntryDetailsInLocations(locationIDs []int) ([]FlatEntryDetail, error) {
	if len(locationIDs) == 0 {
		return []FlatEntryDetail{}, nil
	}
	return r.GetEntriesWithItems(goqu.Ex{"s.location_id": locationIDs})
}

// GetDepreciableEntries returns the joined details of every entry that has a
// depreciation end date, the candidate set for due notifications.
func (r *StockEntryRepository) GetDepreciableEntries() ([]FlatEntryDetail, error) {
	return r.GetEntriesWithItems(goqu.C("s.depreciation_end_date").IsNotNull())
}

// GetEntryDetail returns the joined projection for a single stock entry, or
// nil when the entry does not exist.
func (r *StockEntryRepository) GetEntryDetail(entryID int) (*FlatEntryDetail, error) {
	var detail FlatEntryDetail
	query := r.detailQuery().Where(goqu.Ex{"s.id": entryID})

	found, err := query.Executor().ScanStruct(&detail)
	if err != nil {
		return nil, fmt.Errorf("unable to select stock entry detail: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &detail, nil
}

// FindStockEntryIDByAssetID looks an exact full asset ID up through the audit
// log. The log is the only stored copy of derived IDs, so a unit that was
// never audited will not be found this way.
func (r *StockEntryRepository) FindStockEntryIDByAssetID(fullAssetID string) (int, error) {
	var entryID int
	query := r.repository.GoquDBWrapper.Select("stock_entry_id").
		From("audit_log").
		Where(goqu.Ex{"full_asset_id": fullAssetID}).
		Limit(1)

	found, err := query.Executor().ScanVal(&entryID)
	if err != nil {
		return 0, fmt.Errorf("unable to search audit log for asset id: %w", err)
	}
	if !found {
		return 0, nil
	}

	return entryID, nil
}

func (r *StockEntryRepository) detailQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		goqu.I("s.id").As("stock_entry_id"),
		goqu.I("s.master_item_id").As("master_item_id"),
		goqu.I("s.quantity").As("quantity"),
		goqu.I("s.starting_unit_id").As("starting_unit_id"),
		goqu.I("s.purchase_date").As("purchase_date"),
		goqu.I("s.depreciation_end_date").As("depreciation_end_date"),
		goqu.I("s.depreciation_status").As("depreciation_status"),
		goqu.I("s.item_price").As("item_price"),
		goqu.I("s.current_status").As("current_status"),
		goqu.I("m.base_id").As("base_id"),
		goqu.I("m.title").As("title"),
		goqu.I("m.brand").As("brand"),
		goqu.I("m.short_description").As("short_description"),
		goqu.I("m.usable_life_years").As("usable_life_years"),
		goqu.I("m.image_url").As("image_url"),
		goqu.I("l.id").As("location_id"),
		goqu.I("l.name").As("location_name"),
	).
		From(goqu.T("stock_entries").As("s")).
		LeftJoin(
			goqu.T("master_items").As("m"),
			goqu.On(goqu.Ex{"s.master_item_id": goqu.I("m.id")}),
		).
		LeftJoin(
			goqu.T("locations").As("l"),
			goqu.On(goqu.Ex{"s.location_id": goqu.I("l.id")}),
		)
}

func (r *StockEntryRepository) stockEntryQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(stockEntryColumns...).From("stock_entries")
}
