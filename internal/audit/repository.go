package audit

import (
	"fmt"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AuditRepository struct {
	repository *repository.Repository
}

func NewAuditRepository(r *repository.Repository) *AuditRepository {
	return &AuditRepository{repository: r}
}

var auditLogColumns = []interface{}{
	"id", "audit_session_id", "stock_entry_id", "unit_index", "full_asset_id",
	"is_found", "audit_condition", "revision_notes", "revision_photo_url",
	"auditor_id", "audit_timestamp",
}

// UpsertRow writes one unit's result. The unique key on
// (audit_session_id, stock_entry_id, unit_index) makes re-saving the same
// unit within a session an overwrite, so re-auditing a location on the same
// day replaces earlier results instead of duplicating them.
func (r *AuditRepository) UpsertRow(row models.AuditLogRow) error {
	_, err := r.repository.GoquDBWrapper.Insert("audit_log").
		Rows(goqu.Record{
			"audit_session_id":   row.AuditSessionID,
			"stock_entry_id":     row.StockEntryID,
			"unit_index":         row.UnitIndex,
			"full_asset_id":      row.FullAssetID,
			"is_found":           row.IsFound,
			"audit_condition":    row.AuditCondition,
			"revision_notes":     row.RevisionNotes,
			"revision_photo_url": row.RevisionPhotoURL,
			"auditor_id":         row.AuditorID,
			"audit_timestamp":    row.AuditTimestamp,
		}).
		OnConflict(goqu.DoUpdate(
			"audit_session_id, stock_entry_id, unit_index",
			goqu.Record{
				"full_asset_id":      row.FullAssetID,
				"is_found":           row.IsFound,
				"audit_condition":    row.AuditCondition,
				"revision_notes":     row.RevisionNotes,
				"revision_photo_url": row.RevisionPhotoURL,
				"auditor_id":         row.AuditorID,
				"audit_timestamp":    row.AuditTimestamp,
			},
		)).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to upsert audit log row for %s: %w", row.FullAssetID, err)
	}

	return nil
}

func (r *AuditRepository) GetSessionRows(sessionID string) ([]models.AuditLogRow, error) {
	var rows []models.AuditLogRow
	query := r.repository.GoquDBWrapper.Select(auditLogColumns...).
		From("audit_log").
		Where(goqu.Ex{"audit_session_id": sessionID}).
		Order(goqu.I("stock_entry_id").Asc(), goqu.I("unit_index").Asc())

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("unable to select audit session rows: %w", err)
	}

	return rows, nil
}

// ListSessionIDs returns distinct session identifiers, most recent activity
// first.
func (r *AuditRepository) ListSessionIDs() ([]string, error) {
	var sessionIDs []string
	query := r.repository.GoquDBWrapper.Select("audit_session_id").
		From("audit_log").
		GroupBy("audit_session_id").
		Order(goqu.MAX("audit_timestamp").Desc())

	if err := query.Executor().ScanVals(&sessionIDs); err != nil {
		return nil, fmt.Errorf("unable to list audit sessions: %w", err)
	}

	return sessionIDs, nil
}

// LastSeen returns the most recent sighting of an asset that was marked
// found strictly before the given time. Bounding the lookup by the session's
// own timestamp keeps a rebuilt report from citing sightings recorded after
// the unit went missing.
func (r *AuditRepository) LastSeen(fullAssetID string, before time.Time) (*models.AuditLogRow, error) {
	var row models.AuditLogRow
	query := r.repository.GoquDBWrapper.Select(auditLogColumns...).
		From("audit_log").
		Where(goqu.Ex{"full_asset_id": fullAssetID, "is_found": true}).
		Where(goqu.C("audit_timestamp").Lt(before)).
		Order(goqu.I("audit_timestamp").Desc()).
		Limit(1)

	found, err := query.Executor().ScanStruct(&row)
	if err != nil {
		return nil, fmt.Errorf("unable to look up last sighting of %s: %w", fullAssetID, err)
	}
	if !found {
		return nil, nil
	}

	return &row, nil
}

// LatestSessionTimestamp returns the newest audit timestamp in a session,
// used as the completion time shown on reports.
func (r *AuditRepository) LatestSessionTimestamp(sessionID string) (*time.Time, error) {
	var latest time.Time
	query := r.repository.GoquDBWrapper.Select(goqu.MAX("audit_timestamp")).
		From("audit_log").
		Where(goqu.Ex{"audit_session_id": sessionID})

	found, err := query.Executor().ScanVal(&latest)
	if err != nil {
		return nil, fmt.Errorf("unable to read session timestamp: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &latest, nil
}
