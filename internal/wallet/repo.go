package wallet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type listQuery struct {
	userID uuid.UUID
	limit  int
	cursor *pagination.Cursor
}

// Repository exposes wallet ledger reads for the admin transactions screen.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wallet repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns wallet transactions using cursor pagination, newest first,
// optionally scoped to one user.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.WalletTransaction, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransaction{})

	if opts.userID != uuid.Nil {
		query = query.Where("user_id = ?", opts.userID)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.WalletTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
