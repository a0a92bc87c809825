package collections

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type listQuery struct {
	status enums.CollectionStatus
	limit  int
	cursor *pagination.Cursor
}

// Repository exposes collection persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a collection repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) CollectionsRepository {
	return &Repository{db: tx}
}

// FindByID loads a collection and its material lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.WithContext(ctx).
		Preload("Materials").
		First(&collection, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// Update persists all fields of the collection row.
func (r *Repository) Update(ctx context.Context, collection *models.Collection) error {
	return r.db.WithContext(ctx).Save(collection).Error
}

// CreateArchive inserts the soft-delete snapshot row.
func (r *Repository) CreateArchive(ctx context.Context, archived *models.DeletedCollection) error {
	return r.db.WithContext(ctx).Create(archived).Error
}

// Delete removes the collection row. Material lines go with it via the
// ON DELETE CASCADE foreign key.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Collection{}, "id = ?", id).Error
}

// PurgeArchiveBefore removes archive rows whose deletion timestamp is older
// than the cutoff, using the provided transaction when one is supplied.
func (r *Repository) PurgeArchiveBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Where("deleted_at < ?", cutoff).
		Delete(&models.DeletedCollection{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List returns collections using cursor pagination, optionally filtered by status.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Collection, error) {
	query := r.db.WithContext(ctx).Model(&models.Collection{}).Preload("Materials")

	if opts.status != "" {
		query = query.Where("status = ?", opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Collection
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
