package notifications

import (
	"fmt"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AckRepository struct {
	repository *repository.Repository
}

func NewAckRepository(r *repository.Repository) *AckRepository {
	return &AckRepository{repository: r}
}

// InsertAck records that a user dismissed the notice for one asset.
// Re-acknowledging is a no-op; the original timestamp stands.
func (r *AckRepository) InsertAck(fullAssetID string, userID int) error {
	_, err := r.repository.GoquDBWrapper.Insert("ack_log").
		Rows(goqu.Record{"full_asset_id": fullAssetID, "user_id": userID}).
		OnConflict(goqu.DoNothing()).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to insert acknowledgement for %s: %w", fullAssetID, err)
	}

	return nil
}

func (r *AckRepository) ListAcks(userID int) ([]models.Acknowledgement, error) {
	var acks []models.Acknowledgement
	query := r.repository.GoquDBWrapper.Select("full_asset_id", "user_id", "acknowledged_at").
		From("ack_log").
		Where(goqu.Ex{"user_id": userID})

	if err := query.Executor().ScanStructs(&acks); err != nil {
		return nil, fmt.Errorf("unable to select acknowledgements: %w", err)
	}

	return acks, nil
}

func (r *AckRepository) IsAcknowledged(fullAssetID string, userID int) (bool, error) {
	var exists int
	query := r.repository.GoquDBWrapper.Select(goqu.L("1")).
		From("ack_log").
		Where(goqu.Ex{"full_asset_id": fullAssetID, "user_id": userID})

	found, err := query.Executor().ScanVal(&exists)
	if err != nil {
		return false, fmt.Errorf("unable to check acknowledgement: %w", err)
	}

	return found, nil
}
