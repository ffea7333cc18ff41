package models

import "time"

// Conditions recorded against an audited unit.
const (
	ConditionOkay          = "Okay"
	ConditionNeedsRevision = "Needs Revision"
	ConditionNotFound      = "Not Found"
)

// AuditLogRow is one unit's result within one audit session. Rows are
// upserted on (AuditSessionID, StockEntryID, UnitIndex) and never deleted.
type AuditLogRow struct {
	ID               int       `json:"id" db:"id"`
	AuditSessionID   string    `json:"audit_session_id" db:"audit_session_id"`
	StockEntryID     int       `json:"stock_entry_id" db:"stock_entry_id"`
	UnitIndex        int       `json:"unit_index" db:"unit_index"`
	FullAssetID      string    `json:"full_asset_id" db:"full_asset_id"`
	IsFound          bool      `json:"is_found" db:"is_found"`
	AuditCondition   string    `json:"audit_condition" db:"audit_condition"`
	RevisionNotes    string    `json:"revision_notes" db:"revision_notes"`
	RevisionPhotoURL string    `json:"revision_photo_url" db:"revision_photo_url"`
	AuditorID        int       `json:"auditor_id" db:"auditor_id"`
	AuditTimestamp   time.Time `json:"audit_timestamp" db:"audit_timestamp"`
}

// Acknowledgement marks a depreciation notice as dismissed by one user.
type Acknowledgement struct {
	FullAssetID    string    `json:"full_asset_id" db:"full_asset_id"`
	UserID         int       `json:"user_id" db:"user_id"`
	AcknowledgedAt time.Time `json:"acknowledged_at" db:"acknowledged_at"`
}
