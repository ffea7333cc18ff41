package locations

import (
	"fmt"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LocationRepository struct {
	Repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{Repository: r}
}

func (r *LocationRepository) GetLocations() ([]models.Location, error) {
	var locations = []models.Location{}
	query := r.Repository.GoquDBWrapper.Select("id", "name", "parent_id").
		From("locations").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to select locations: %w", err)
	}

	return locations, nil
}

func (r *LocationRepository) GetLocation(id int) (*models.Location, error) {
	var location models.Location
	query := r.Repository.GoquDBWrapper.Select("id", "name", "parent_id").
		From("locations").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&location)
	if err != nil {
		return nil, fmt.Errorf("unable to select location: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &location, nil
}

func (r *LocationRepository) PersistLocation(req models.LocationRequest) (*models.Location, error) {
	location := models.Location{Name: req.Name, ParentID: req.ParentID}

	record := goqu.Record{"name": req.Name}
	if req.ParentID != nil {
		record["parent_id"] = *req.ParentID
	}

	query := r.Repository.GoquDBWrapper.Insert("locations").
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&location.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Location could not be saved", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert location record: %w", err)
	}

	return &location, nil
}

func (r *LocationRepository) UpdateLocation(id int, req models.UpdateLocationRequest) (*models.Location, error) {
	updates := goqu.Record{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.Update("locations").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Returning("id", "name", "parent_id")

	var location models.Location
	found, err := query.Executor().ScanStruct(&location)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no location found with id: %d", id)
	}

	return &location, nil
}

func (r *LocationRepository) RemoveLocation(id int) error {
	result, err := r.Repository.GoquDBWrapper.Delete("locations").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Location is still referenced", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no location found with id: %d", id)
	}

	return nil
}

// DescendantIDs walks the location tree downwards and returns every ID below
// the given node, excluding the node itself.
func (r *LocationRepository) DescendantIDs(id int) ([]int, error) {
	var ids []int
	err := r.Repository.GoquDBWrapper.ScanVals(&ids, `
		WITH RECURSIVE subtree AS (
			SELECT id FROM locations WHERE parent_id = $1
			UNION ALL
			SELECT l.id FROM locations l JOIN subtree s ON l.parent_id = s.id
		)
		SELECT id FROM subtree`, id)

	if err != nil {
		return nil, fmt.Errorf("unable to walk location subtree: %w", err)
	}

	return ids, nil
}
