package rewards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type listQuery struct {
	category   string
	activeOnly bool
	limit      int
	cursor     *pagination.Cursor
}

// Repository exposes reward catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reward repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new reward row.
func (r *Repository) Create(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if err := r.db.WithContext(ctx).Create(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

// FindByID loads a reward by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// Update persists all fields of the reward row.
func (r *Repository) Update(ctx context.Context, reward *models.Reward) error {
	return r.db.WithContext(ctx).Save(reward).Error
}

// Delete removes the reward row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Reward{}, "id = ?", id).Error
}

// List returns rewards using cursor pagination.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Reward, error) {
	query := r.db.WithContext(ctx).Model(&models.Reward{})

	if opts.category != "" {
		query = query.Where("category = ?", opts.category)
	}
	if opts.activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Reward
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
