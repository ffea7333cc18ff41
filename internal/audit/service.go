// Package audit implements the physical audit workflow: per-unit results
// keyed by a composite session identifier, session completion checks, and
// the found/missing report.
package audit

import (
	"fmt"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"go.uber.org/zap"
)

// Store is the audit log surface the service writes and reads.
type Store interface {
	UpsertRow(row models.AuditLogRow) error
	GetSessionRows(sessionID string) ([]models.AuditLogRow, error)
	ListSessionIDs() ([]string, error)
	LastSeen(fullAssetID string, before time.Time) (*models.AuditLogRow, error)
	LatestSessionTimestamp(sessionID string) (*time.Time, error)
}

// EntryStore resolves a stock entry's joined attributes, used for the photo
// fallback and for report display fields.
type EntryStore interface {
	GetEntryDetail(entryID int) (*catalog.FlatEntryDetail, error)
}

type LocationStore interface {
	GetLocation(id int) (*models.Location, error)
}

type UserStore interface {
	GetUser(id int) (*models.User, error)
}

type Service struct {
	store     Store
	entries   EntryStore
	locations LocationStore
	users     UserStore
	log       *zap.Logger
}

func NewService(store Store, entries EntryStore, locations LocationStore, users UserStore, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		entries:   entries,
		locations: locations,
		users:     users,
		log:       log,
	}
}

// UnitResult is one unit's outcome as submitted by the auditor's device.
type UnitResult struct {
	StockEntryID int    `json:"stock_entry_id" binding:"required"`
	UnitIndex    int    `json:"unit_index"`
	FullAssetID  string `json:"full_asset_id" binding:"required"`
	State        string `json:"state" binding:"required"`
	Condition    string `json:"condition"`
	Notes        string `json:"notes"`
	PhotoURL     string `json:"photo_url"`
}

// Validate checks a single unit result without touching storage. It is the
// same check completion runs across the whole batch.
func (u *UnitResult) Validate() error {
	state, err := ParseUnitState(u.State)
	if err != nil {
		return custom_error.NewValidationError(u.FullAssetID, err.Error())
	}
	if !state.Terminal() {
		return custom_error.NewValidationError(u.FullAssetID, "unit has not been reviewed yet")
	}

	if state == StateFound {
		switch u.Condition {
		case models.ConditionOkay:
		case models.ConditionNeedsRevision:
			if u.Notes == "" {
				return custom_error.NewValidationError(u.FullAssetID, "a revision note is required for this condition")
			}
			if u.PhotoURL == "" {
				return custom_error.NewValidationError(u.FullAssetID, "a photo is required for this condition")
			}
		default:
			return custom_error.NewValidationError(u.FullAssetID, fmt.Sprintf("unknown condition %q", u.Condition))
		}
	}

	return nil
}

// SaveUnitResult validates and persists one unit's result into the session.
// A found unit in good condition with no photo inherits the master item's
// catalog image so every row renders with a picture.
func (s *Service) SaveUnitResult(sessionID string, auditorID int, unit UnitResult, now time.Time) error {
	if err := unit.Validate(); err != nil {
		return err
	}

	row := models.AuditLogRow{
		AuditSessionID: sessionID,
		StockEntryID:   unit.StockEntryID,
		UnitIndex:      unit.UnitIndex,
		FullAssetID:    unit.FullAssetID,
		AuditorID:      auditorID,
		AuditTimestamp: now,
	}

	if UnitState(unit.State) == StateNotFound {
		row.IsFound = false
		row.AuditCondition = models.ConditionNotFound
		row.RevisionNotes = unit.Notes
	} else {
		row.IsFound = true
		row.AuditCondition = unit.Condition
		row.RevisionNotes = unit.Notes
		row.RevisionPhotoURL = unit.PhotoURL

		if unit.Condition == models.ConditionOkay && unit.PhotoURL == "" {
			if detail, err := s.entries.GetEntryDetail(unit.StockEntryID); err == nil && detail != nil {
				row.RevisionPhotoURL = detail.ImageURL
			}
		}
	}

	return s.store.UpsertRow(row)
}

// CompletionSummary reports how a batch save went. Failed holds the asset IDs
// whose writes errored after validation had already passed.
type CompletionSummary struct {
	SessionID string   `json:"session_id"`
	Saved     int      `json:"saved"`
	Failed    []string `json:"failed,omitempty"`
}

// CompleteSession validates the entire batch first and writes nothing if any
// unit fails, so the auditor fixes the flagged unit and resubmits. After
// validation, writes proceed per unit and storage failures are collected
// rather than aborting the rest.
func (s *Service) CompleteSession(sessionID string, auditorID int, units []UnitResult) (CompletionSummary, error) {
	summary := CompletionSummary{SessionID: sessionID}

	if len(units) == 0 {
		return summary, custom_error.NewValidationError("", "an audit session needs at least one reviewed unit")
	}

	for i := range units {
		if err := units[i].Validate(); err != nil {
			return summary, err
		}
	}

	now := time.Now()
	for i := range units {
		if err := s.SaveUnitResult(sessionID, auditorID, units[i], now); err != nil {
			s.log.Error("failed to save audit unit",
				zap.String("session_id", sessionID),
				zap.String("full_asset_id", units[i].FullAssetID),
				zap.Error(err),
			)
			summary.Failed = append(summary.Failed, units[i].FullAssetID)
			continue
		}
		summary.Saved++
	}

	return summary, nil
}

// ReportUnit is one line of a session report, pre-formatted for display.
type ReportUnit struct {
	FullAssetID string `json:"full_asset_id"`
	Title       string `json:"title"`
	Condition   string `json:"condition"`
	Notes       string `json:"notes,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	LastSeen    string `json:"last_seen,omitempty"`
}

type Report struct {
	SessionID    string       `json:"session_id"`
	LocationName string       `json:"location_name"`
	AuditorName  string       `json:"auditor_name"`
	AuditDate    string       `json:"audit_date"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	FoundCount   int          `json:"found_count"`
	MissingCount int          `json:"missing_count"`
	Found        []ReportUnit `json:"found"`
	Missing      []ReportUnit `json:"missing"`
}

const lastSeenUnavailable = "Not available"

// BuildReport assembles the found/missing partition for a session. Missing
// units carry a last-seen hint resolved in order of preference: the most
// recent found sighting recorded before this session's timestamp, then the
// batch's purchase date, then a plain "Not available".
func (s *Service) BuildReport(sessionID string) (*Report, error) {
	rows, err := s.store.GetSessionRows(sessionID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	report := &Report{
		SessionID: sessionID,
		Found:     []ReportUnit{},
		Missing:   []ReportUnit{},
	}
	s.fillHeader(report, sessionID)

	var sessionTime *time.Time
	if completedAt, err := s.store.LatestSessionTimestamp(sessionID); err == nil {
		report.CompletedAt = completedAt
		sessionTime = completedAt
	}

	details := map[int]*catalog.FlatEntryDetail{}
	entryDetail := func(entryID int) *catalog.FlatEntryDetail {
		if detail, ok := details[entryID]; ok {
			return detail
		}
		detail, err := s.entries.GetEntryDetail(entryID)
		if err != nil {
			s.log.Warn("failed to resolve stock entry for report", zap.Int("stock_entry_id", entryID), zap.Error(err))
			detail = nil
		}
		details[entryID] = detail
		return detail
	}

	for _, row := range rows {
		unit := ReportUnit{
			FullAssetID: row.FullAssetID,
			Condition:   row.AuditCondition,
			Notes:       row.RevisionNotes,
			PhotoURL:    row.RevisionPhotoURL,
		}
		if detail := entryDetail(row.StockEntryID); detail != nil {
			unit.Title = detail.Title
		}

		if row.IsFound {
			report.Found = append(report.Found, unit)
			continue
		}

		unit.LastSeen = s.lastSeenHint(row.FullAssetID, sessionTime, entryDetail(row.StockEntryID))
		report.Missing = append(report.Missing, unit)
	}

	report.FoundCount = len(report.Found)
	report.MissingCount = len(report.Missing)

	return report, nil
}

// ListSessions returns all known session identifiers, newest first.
func (s *Service) ListSessions() ([]string, error) {
	return s.store.ListSessionIDs()
}

func (s *Service) fillHeader(report *Report, sessionID string) {
	key, err := ParseSessionID(sessionID)
	if err != nil {
		s.log.Warn("audit session ID is not in the composite format", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	report.AuditDate = key.Date.Format("02/01/2006")

	report.LocationName = fmt.Sprintf("location %d", key.LocationID)
	if location, err := s.locations.GetLocation(key.LocationID); err == nil && location != nil {
		report.LocationName = location.Name
	}

	report.AuditorName = fmt.Sprintf("auditor %d", key.AuditorID)
	if user, err := s.users.GetUser(key.AuditorID); err == nil && user != nil {
		report.AuditorName = user.Fullname
	}
}

// lastSeenHint only considers sightings older than the session's timestamp;
// a unit found again later must not rewrite the history of the session in
// which it was missing.
func (s *Service) lastSeenHint(fullAssetID string, sessionTime *time.Time, detail *catalog.FlatEntryDetail) string {
	if sessionTime != nil {
		sighting, err := s.store.LastSeen(fullAssetID, *sessionTime)
		if err != nil {
			s.log.Warn("failed to look up last sighting", zap.String("full_asset_id", fullAssetID), zap.Error(err))
		}
		if sighting != nil {
			return fmt.Sprintf("Last seen on %s", sighting.AuditTimestamp.Format("02/01/2006"))
		}
	}

	if detail != nil && detail.PurchaseDate != nil {
		return fmt.Sprintf("Not seen since purchase on %s", detail.PurchaseDate.DisplayFormat())
	}

	return lastSeenUnavailable
}
