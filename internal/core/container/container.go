// Package container wires repositories, services and handlers together.
package container

import (
	"database/sql"
	"os"

	"github.com/Josiascalt/tac-inventory-sys/internal/audit"
	"github.com/Josiascalt/tac-inventory-sys/internal/automation"
	"github.com/Josiascalt/tac-inventory-sys/internal/catalog"
	"github.com/Josiascalt/tac-inventory-sys/internal/integrations/sheets"
	"github.com/Josiascalt/tac-inventory-sys/internal/locations"
	"github.com/Josiascalt/tac-inventory-sys/internal/media"
	"github.com/Josiascalt/tac-inventory-sys/internal/notifications"
	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/internal/users"
	"github.com/Josiascalt/tac-inventory-sys/internal/verification"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"
	"github.com/Josiascalt/tac-inventory-sys/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository          *repository.Repository
	Logger              *zap.Logger
	LoginHandler        *security.LoginHandler
	CatalogHandler      *catalog.CatalogHandler
	LocationHandler     *locations.LocationHandler
	VerifyHandler       *verification.VerifyHandler
	AuditHandler        *audit.AuditHandler
	NotificationHandler *notifications.NotificationHandler
	MediaHandler        *media.MediaHandler
	UserHandler         *users.UsersHandler

	// ExportHandler is nil when the spreadsheet integration is not configured.
	ExportHandler *sheets.ExportHandler
}

// verificationStore stitches the catalog and location repositories into the
// surface the QR resolver works against.
type verificationStore struct {
	masters   *catalog.MasterItemRepository
	stocks    *catalog.StockEntryRepository
	locations *locations.LocationRepository
}

func (s *verificationStore) GetMasterItemByBaseID(baseID string) (*models.MasterItem, error) {
	return s.masters.GetMasterItemByBaseID(baseID)
}

func (s *verificationStore) GetStockEntriesByMasterItem(masterItemID int) ([]models.StockEntry, error) {
	return s.stocks.GetStockEntriesByMasterItem(masterItemID)
}

func (s *verificationStore) GetLocation(id int) (*models.Location, error) {
	return s.locations.GetLocation(id)
}

func (s *verificationStore) DescendantLocationIDs(id int) ([]int, error) {
	return s.locations.DescendantIDs(id)
}

func NewAppContainer(db *sql.DB, log *zap.Logger) (*Container, error) {
	repo := repository.NewRepository(db)

	masterRepo := catalog.NewMasterItemRepository(repo)
	stockRepo := catalog.NewStockEntryRepository(repo)
	catalogService := catalog.NewService(masterRepo, stockRepo, log)
	automationService := automation.NewService(repo, masterRepo, stockRepo, log)
	catalogHandler := catalog.NewCatalogHandler(masterRepo, stockRepo, catalogService, automationService)

	locationRepo := locations.NewLocationRepository(repo)
	locationHandler := locations.NewLocationHandler(locationRepo, stockRepo)

	resolver := verification.NewResolver(&verificationStore{
		masters:   masterRepo,
		stocks:    stockRepo,
		locations: locationRepo,
	})
	verifyHandler := verification.NewVerifyHandler(resolver)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)
	loginHandler := security.NewLoginHandler(repo)

	auditRepo := audit.NewAuditRepository(repo)
	auditService := audit.NewService(auditRepo, stockRepo, locationRepo, userRepo, log)
	auditHandler := audit.NewAuditHandler(auditService)

	ackRepo := notifications.NewAckRepository(repo)
	notificationService := notifications.NewService(
		stockRepo,
		ackRepo,
		log,
		os.Getenv("ACK_RESET_ON_NEW_CYCLE") == "true",
	)
	notificationHandler := notifications.NewNotificationHandler(notificationService)

	mediaHandler, err := media.NewMediaHandler(log)
	if err != nil {
		return nil, err
	}

	var exportHandler *sheets.ExportHandler
	if os.Getenv("AUDIT_SPREADSHEET_ID") != "" {
		exporter, err := sheets.NewExporter(log)
		if err != nil {
			log.Warn("spreadsheet export disabled", zap.Error(err))
		} else {
			exportHandler = sheets.NewExportHandler(exporter, auditService)
		}
	}

	return &Container{
		Repository:          repo,
		Logger:              log,
		LoginHandler:        loginHandler,
		CatalogHandler:      catalogHandler,
		LocationHandler:     locationHandler,
		VerifyHandler:       verifyHandler,
		AuditHandler:        auditHandler,
		NotificationHandler: notificationHandler,
		MediaHandler:        mediaHandler,
		UserHandler:         userHandler,
		ExportHandler:       exportHandler,
	}, nil
}
