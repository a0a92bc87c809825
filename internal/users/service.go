package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	pkgpagination "github.com/mzansigreen/office-backend/pkg/pagination"
	"github.com/mzansigreen/office-backend/pkg/security"
)

// UsersRepository is the persistence surface the service depends on.
type UsersRepository interface {
	WithTx(tx *gorm.DB) UsersRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error)
	List(ctx context.Context, opts listQuery) ([]models.User, error)
	CountRoleDrift(ctx context.Context) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ApproveResult carries the one-time plaintext credential back to the caller.
type ApproveResult struct {
	User         *models.User
	TempPassword string
}

// RoleResult reports the resolved catalog row after a role change.
type RoleResult struct {
	RoleID uuid.UUID  `json:"role_id"`
	Role   enums.Role `json:"role"`
}

// ListParams filters and pages the admin user listing.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult is one page of users plus the next cursor.
type ListResult struct {
	Items  []models.User `json:"items"`
	Cursor string        `json:"cursor,omitempty"`
}

// Service exposes the approval and role workflow.
type Service interface {
	Approve(ctx context.Context, userID uuid.UUID) (*ApproveResult, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, rawRole string) (*RoleResult, error)
	ForceRole(ctx context.Context, userID uuid.UUID, rawRole, rawStatus string) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	db          txRunner
	repo        UsersRepository
	passwordCfg config.PasswordConfig
}

// NewService builds the user workflow service.
func NewService(db txRunner, repo UsersRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{db: db, repo: repo, passwordCfg: passwordCfg}, nil
}

// Approve activates a pending account and issues a one-time temporary
// credential. Everything happens in one transaction: if the credential write
// fails the status change rolls back with it.
func (s *service) Approve(ctx context.Context, userID uuid.UUID) (*ApproveResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	tempPassword, err := security.NewTempPassword()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	passwordHash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temp password")
	}

	var approved *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		if !user.Status.AwaitingApproval() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "user is not awaiting approval")
		}

		now := time.Now().UTC()
		user.Status = enums.UserStatusActive
		user.IsApproved = true
		user.ApprovalDate = &now
		user.PasswordHash = passwordHash
		user.MustChangePassword = true

		if err := repo.Update(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		approved = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ApproveResult{User: approved, TempPassword: tempPassword}, nil
}

// UpdateRole resolves an alias-tolerant role name and writes the enum column
// and the catalog foreign key together.
func (s *service) UpdateRole(ctx context.Context, userID uuid.UUID, rawRole string) (*RoleResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	role, err := enums.ParseRole(rawRole)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	var result *RoleResult
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}

		catalog, err := repo.FindRoleByName(ctx, role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeDependency, "roles catalog row missing")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup role")
		}

		user.Role = role
		user.RoleID = &catalog.ID
		if err := repo.Update(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user role")
		}

		result = &RoleResult{RoleID: catalog.ID, Role: role}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForceRole is the recovery variant of UpdateRole: it additionally accepts a
// status override, still writing role and role_id in the same transaction.
func (s *service) ForceRole(ctx context.Context, userID uuid.UUID, rawRole, rawStatus string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	role, err := enums.ParseRole(rawRole)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	var status enums.UserStatus
	if rawStatus != "" {
		status, err = enums.ParseUserStatus(rawStatus)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}

		catalog, err := repo.FindRoleByName(ctx, role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeDependency, "roles catalog row missing")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup role")
		}

		user.Role = role
		user.RoleID = &catalog.ID
		if status != "" {
			user.Status = status
		}
		if err := repo.Update(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "force user role")
		}
		return nil
	})
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listQuery{
		limit: pkgpagination.LimitWithBuffer(params.Limit),
	}
	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, err := enums.ParseUserStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		query.status = status
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	return &ListResult{Items: rows, Cursor: nextCursor}, nil
}
