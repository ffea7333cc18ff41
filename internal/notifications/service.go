// Package notifications surfaces stock that is depreciated or about to
// depreciate, and tracks per-user acknowledgements so a dismissed notice
// stays dismissed.
package notifications

import (
	"sort"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	"github.com/Josiascalt/tac-inventory-sys/pkg/assetid"
	custom_error "github.com/Josiascalt/tac-inventory-sys/pkg/errors"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"go.uber.org/zap"
)

// Notification statuses.
const (
	StatusDepreciated = "depreciated"
	StatusNearing     = "nearing_depreciation"
)

// DefaultHorizonDays is how far ahead the nearing window looks when the
// caller does not say.
const DefaultHorizonDays = 30

type Notification struct {
	FullAssetID string `json:"full_asset_id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	EndDate     string `json:"end_date"`
}

type EntryStore interface {
	GetDepreciableEntries() ([]catalog.FlatEntryDetail, error)
}

type AckStore interface {
	InsertAck(fullAssetID string, userID int) error
	ListAcks(userID int) ([]models.Acknowledgement, error)
	IsAcknowledged(fullAssetID string, userID int) (bool, error)
}

type Service struct {
	entries EntryStore
	acks    AckStore
	log     *zap.Logger

	// When set, an acknowledgement older than the batch's purchase date no
	// longer silences the notice: replacing the stock starts a new cycle.
	ResetOnNewCycle bool
}

func NewService(entries EntryStore, acks AckStore, log *zap.Logger, resetOnNewCycle bool) *Service {
	return &Service{
		entries:         entries,
		acks:            acks,
		log:             log,
		ResetOnNewCycle: resetOnNewCycle,
	}
}

// Classify buckets an end date relative to now: already past is depreciated,
// within the horizon is nearing, and anything further out produces no notice.
func Classify(endDate models.Date, now time.Time, horizonDays int) (string, bool) {
	if now.After(endDate.Time) {
		return StatusDepreciated, true
	}
	if !endDate.Time.After(now.AddDate(0, 0, horizonDays)) {
		return StatusNearing, true
	}
	return "", false
}

// ListDue expands every depreciable batch into per-unit notifications,
// classifies each against the horizon, and drops units the user has already
// acknowledged.
func (s *Service) ListDue(userID int, horizonDays int, now time.Time) ([]Notification, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	entries, err := s.entries.GetDepreciableEntries()
	if err != nil {
		return nil, err
	}

	acked, err := s.ackedAssets(userID)
	if err != nil {
		return nil, err
	}

	notifications := []Notification{}
	for _, entry := range entries {
		if entry.DepreciationEndDate == nil {
			continue
		}

		status, due := Classify(*entry.DepreciationEndDate, now, horizonDays)
		if !due {
			continue
		}

		if entry.StartingUnitID == nil {
			s.log.Warn("depreciable entry has no unit range yet", zap.Int("stock_entry_id", entry.StockEntryID))
			continue
		}

		for _, fullAssetID := range assetid.DeriveRange(entry.BaseID, *entry.StartingUnitID, entry.Quantity) {
			if s.ackSilences(acked, fullAssetID, entry.PurchaseDate) {
				continue
			}
			notifications = append(notifications, Notification{
				FullAssetID: fullAssetID,
				Title:       entry.Title,
				Location:    entry.LocationName,
				Status:      status,
				EndDate:     entry.DepreciationEndDate.DisplayFormat(),
			})
		}
	}

	// Depreciated units first, then by asset ID for a stable listing.
	sort.SliceStable(notifications, func(i, j int) bool {
		if notifications[i].Status != notifications[j].Status {
			return notifications[i].Status == StatusDepreciated
		}
		return notifications[i].FullAssetID < notifications[j].FullAssetID
	})

	return notifications, nil
}

// Acknowledge dismisses the notice for one asset on behalf of one user. The
// returned flag says whether the asset was already acknowledged, so a repeat
// click can be answered without pretending a new row was written.
func (s *Service) Acknowledge(fullAssetID string, userID int) (bool, error) {
	if _, _, err := assetid.Parse(fullAssetID); err != nil {
		return false, custom_error.NewValidationError(fullAssetID, "not a valid asset ID")
	}

	already, err := s.acks.IsAcknowledged(fullAssetID, userID)
	if err != nil {
		return false, err
	}
	if already {
		return true, nil
	}

	return false, s.acks.InsertAck(fullAssetID, userID)
}

func (s *Service) ackedAssets(userID int) (map[string]models.Acknowledgement, error) {
	acks, err := s.acks.ListAcks(userID)
	if err != nil {
		return nil, err
	}

	acked := make(map[string]models.Acknowledgement, len(acks))
	for _, ack := range acks {
		acked[ack.FullAssetID] = ack
	}
	return acked, nil
}

func (s *Service) ackSilences(acked map[string]models.Acknowledgement, fullAssetID string, purchaseDate *models.Date) bool {
	ack, ok := acked[fullAssetID]
	if !ok {
		return false
	}
	if !s.ResetOnNewCycle || purchaseDate == nil {
		return true
	}
	return !ack.AcknowledgedAt.Before(purchaseDate.Time)
}
