package withdrawals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
)

// Repository exposes withdrawal persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a withdrawal repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) WithdrawalsRepository {
	return &Repository{db: tx}
}

// FindByID loads a withdrawal request by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	var withdrawal models.WithdrawalRequest
	if err := r.db.WithContext(ctx).First(&withdrawal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// DeleteLinkedWalletTransactions removes wallet ledger rows that reference
// the withdrawal under any of the three historical linkage shapes. Returns
// the number of rows removed.
func (r *Repository) DeleteLinkedWalletTransactions(ctx context.Context, withdrawalID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("source_id = ?", withdrawalID).
		Or("source_id = ? AND source_type = ?", withdrawalID, "withdrawal").
		Or("reference_id = ?", withdrawalID).
		Delete(&models.WalletTransaction{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes the withdrawal row itself.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.WithdrawalRequest{}, "id = ?", id).Error
}
