package scholar

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type listQuery struct {
	limit  int
	cursor *pagination.Cursor
}

// Repository exposes Green Scholar ledger persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a scholar repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SumPetWeight totals the weight of a collection's material lines whose name
// contains "pet", case-insensitively.
func (r *Repository) SumPetWeight(ctx context.Context, collectionID uuid.UUID) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.CollectionMaterial{}).
		Select("COALESCE(SUM(weight_kg), 0)").
		Where("collection_id = ?", collectionID).
		Where("LOWER(material_name) LIKE ?", "%pet%").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}

// InsertContribution inserts the ledger row, doing nothing when the unique
// source key already exists. Returns true when a row was actually written.
func (r *Repository) InsertContribution(ctx context.Context, row *models.ScholarTransaction) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "source_type"},
				{Name: "source_id"},
				{Name: "transaction_type"},
			},
			DoNothing: true,
		}).
		Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SumByType totals ledger amounts for one transaction type.
func (r *Repository) SumByType(ctx context.Context, txType enums.ScholarTransactionType) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.ScholarTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_type = ?", txType).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}

// List returns ledger entries using cursor pagination, newest first.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.ScholarTransaction, error) {
	query := r.db.WithContext(ctx).Model(&models.ScholarTransaction{})

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.ScholarTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
