package catalog

import (
	"fmt"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type MasterItemRepository struct {
	repository *repository.Repository
}

func NewMasterItemRepository(r *repository.Repository) *MasterItemRepository {
	return &MasterItemRepository{repository: r}
}

func (r *MasterItemRepository) GetMasterItem(id int) (*models.MasterItem, error) {
	return r.fetchByCondition(goqu.Ex{"id": id})
}

// GetMasterItemByBaseID resolves the printed base ID back to its catalog
// entry. Returns nil without error when no entry carries the base ID.
func (r *MasterItemRepository) GetMasterItemByBaseID(baseID string) (*models.MasterItem, error) {
	return r.fetchByCondition(goqu.Ex{"base_id": baseID})
}

func (r *MasterItemRepository) GetMasterItems() ([]models.MasterItem, error) {
	var items []models.MasterItem
	query := r.masterItemQuery().Order(goqu.I("title").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select master items: %w", err)
	}

	return items, nil
}

func (r *MasterItemRepository) PersistMasterItem(req models.MasterItemRequest) (*models.MasterItem, error) {
	var itemID int

	query := r.repository.GoquDBWrapper.Insert("master_items").
		Rows(goqu.Record{
			"base_id":           req.BaseID,
			"title":             req.Title,
			"brand":             req.Brand,
			"short_description": req.ShortDescription,
			"usable_life_years": req.UsableLifeYears,
			"image_url":         req.ImageURL,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&itemID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Duplicate base ID for master item", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert master item: %w", err)
	}

	return r.GetMasterItem(itemID)
}

func (r *MasterItemRepository) UpdateMasterItem(id int, req models.MasterItemUpdateRequest) (*models.MasterItem, error) {
	updates := goqu.Record{}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.ShortDescription != nil {
		updates["short_description"] = *req.ShortDescription
	}
	if req.UsableLifeYears != nil {
		updates["usable_life_years"] = *req.UsableLifeYears
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if len(updates) == 0 {
		return r.GetMasterItem(id)
	}

	result, err := r.repository.GoquDBWrapper.Update("master_items").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()

	if err != nil {
		return nil, fmt.Errorf("failed to update master item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("no master item found with id: %d", id)
	}

	return r.GetMasterItem(id)
}

// GetMasterItemForUpdate reads a master item inside tx while holding a row
// lock. Concurrent unit allocations for the same item serialize here, which
// keeps the total_units_created counter race-free.
func (r *MasterItemRepository) GetMasterItemForUpdate(tx *goqu.TxDatabase, id int) (*models.MasterItem, error) {
	query := tx.Select(
		"id", "base_id", "title", "brand", "short_description",
		"usable_life_years", "total_units_created", "image_url",
	).
		From("master_items").
		Where(goqu.Ex{"id": id}).
		ForUpdate(goqu.Wait)

	var item models.MasterItem
	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to lock master item %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}

	return &item, nil
}

func (r *MasterItemRepository) SetTotalUnitsCreated(tx *goqu.TxDatabase, id int, total int) error {
	_, err := tx.Update("master_items").
		Set(goqu.Record{"total_units_created": total}).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to update unit counter for master item %d: %w", id, err)
	}

	return nil
}

// SearchMasterItemIDs matches the live-search term against title, brand,
// description and base ID.
func (r *MasterItemRepository) SearchMasterItemIDs(term string) ([]int, error) {
	var ids []int
	pattern := "%" + term + "%"

	query := r.repository.GoquDBWrapper.Select("id").
		From("master_items").
		Where(goqu.Or(
			goqu.I("title").ILike(pattern),
			goqu.I("brand").ILike(pattern),
			goqu.I("short_description").ILike(pattern),
			goqu.I("base_id").ILike(pattern),
		))

	if err := query.Executor().ScanVals(&ids); err != nil {
		return nil, fmt.Errorf("unable to search master items: %w", err)
	}

	return ids, nil
}

func (r *MasterItemRepository) GetMasterItemsByIDs(ids []int) ([]models.MasterItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var items []models.MasterItem
	query := r.masterItemQuery().
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("title").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select master items: %w", err)
	}

	return items, nil
}

func (r *MasterItemRepository) fetchByCondition(condition goqu.Expression) (*models.MasterItem, error) {
	var item models.MasterItem
	query := r.masterItemQuery().Where(condition)

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to select master item: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &item, nil
}

func (r *MasterItemRepository) masterItemQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id", "base_id", "title", "brand", "short_description",
		"usable_life_years", "total_units_created", "image_url",
	).From("master_items")
}
