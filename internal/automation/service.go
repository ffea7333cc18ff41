package automation

import (
	"fmt"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// Service drives the save hook for stock entries. The catalog store calls
// OnStockEntrySaved after every persist; the service is what turns a bare
// batch row into numbered, depreciating asset units.
type Service struct {
	repo       *repository.Repository
	masterRepo *catalog.MasterItemRepository
	stockRepo  *catalog.StockEntryRepository
	log        *zap.Logger
}

func NewService(repo *repository.Repository, masterRepo *catalog.MasterItemRepository, stockRepo *catalog.StockEntryRepository, log *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		masterRepo: masterRepo,
		stockRepo:  stockRepo,
		log:        log,
	}
}

// OnStockEntrySaved runs the allocator and the depreciation engine against
// one stock entry. An entry without a linked master item is skipped entirely
// (logged, never an error).
func (s *Service) OnStockEntrySaved(stockEntryID int) (*models.StockEntry, error) {
	entry, err := s.stockRepo.GetStockEntry(stockEntryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("no stock entry found with id: %d", stockEntryID)
	}

	if entry.MasterItemID == 0 {
		s.log.Warn("stock entry has no linked master item, skipping automation",
			zap.Int("stock_entry_id", stockEntryID))
		return entry, nil
	}

	if err := s.allocate(entry); err != nil {
		return nil, err
	}

	if err := s.recompute(entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// allocate wraps the pure allocation in a transaction that locks the master
// item row, so two entries of the same item saved concurrently cannot read
// the same counter value and overlap their unit ranges.
func (s *Service) allocate(entry *models.StockEntry) error {
	if entry.Allocated() {
		return nil
	}

	return repository.WithTransaction(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		lockedEntry, err := s.stockRepo.GetStockEntryForUpdate(tx, entry.ID)
		if err != nil {
			return err
		}
		if lockedEntry == nil {
			return fmt.Errorf("stock entry %d disappeared during allocation", entry.ID)
		}

		item, err := s.masterRepo.GetMasterItemForUpdate(tx, lockedEntry.MasterItemID)
		if err != nil {
			return err
		}
		if item == nil {
			s.log.Warn("linked master item missing, skipping allocation",
				zap.Int("stock_entry_id", entry.ID),
				zap.Int("master_item_id", lockedEntry.MasterItemID))
			return nil
		}

		if !Allocate(lockedEntry, item) {
			// Another save already stamped the range.
			entry.StartingUnitID = lockedEntry.StartingUnitID
			return nil
		}

		if err := s.stockRepo.SetStartingUnitID(tx, lockedEntry.ID, *lockedEntry.StartingUnitID); err != nil {
			return err
		}
		if err := s.masterRepo.SetTotalUnitsCreated(tx, item.ID, item.TotalUnitsCreated); err != nil {
			return err
		}

		entry.StartingUnitID = lockedEntry.StartingUnitID
		return nil
	})
}

func (s *Service) recompute(entry *models.StockEntry) error {
	item, err := s.masterRepo.GetMasterItem(entry.MasterItemID)
	if err != nil {
		return err
	}
	if item == nil {
		s.log.Warn("linked master item missing, skipping depreciation",
			zap.Int("stock_entry_id", entry.ID))
		return nil
	}

	if !Recompute(entry, item, time.Now()) {
		s.log.Warn("depreciation inputs incomplete, prior fields left untouched",
			zap.Int("stock_entry_id", entry.ID),
			zap.Bool("has_purchase_date", entry.PurchaseDate != nil),
			zap.Int("usable_life_years", item.UsableLifeYears))
	}

	return s.stockRepo.UpdateDepreciationFields(entry)
}
