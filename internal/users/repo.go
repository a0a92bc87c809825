package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	"github.com/mzansigreen/office-backend/pkg/pagination"
)

type listQuery struct {
	status enums.UserStatus
	limit  int
	cursor *pagination.Cursor
}

// Repository exposes user persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) UsersRepository {
	return &Repository{db: tx}
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists all fields of the user row.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindRoleByName loads a roles catalog row by canonical name.
func (r *Repository) FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns users using cursor pagination, optionally filtered by status.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if opts.status != "" {
		query = query.Where("status = ?", opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountRoleDrift counts users whose role column disagrees with their catalog row.
func (r *Repository) CountRoleDrift(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("users.role_id IS NULL OR roles.name IS DISTINCT FROM users.role::text").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
