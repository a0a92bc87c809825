package rewards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	pkgpagination "github.com/mzansigreen/office-backend/pkg/pagination"
)

// RewardsRepository is the persistence surface the service depends on.
type RewardsRepository interface {
	Create(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reward, error)
	Update(ctx context.Context, reward *models.Reward) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, opts listQuery) ([]models.Reward, error)
}

// CreateInput holds the fields required to create a reward.
type CreateInput struct {
	Name           string
	Description    string
	PointsRequired int
	Category       string
	IsActive       *bool
}

// UpdateInput holds the optional fields of a reward update. Nil means leave
// the column alone.
type UpdateInput struct {
	Name           *string
	Description    *string
	PointsRequired *int
	Category       *string
	IsActive       *bool
}

// ListParams filters and pages the reward listing.
type ListParams struct {
	Category   string
	ActiveOnly bool
	Limit      int
	Cursor     string
}

// ListResult is one page of rewards plus the next cursor.
type ListResult struct {
	Items  []models.Reward `json:"items"`
	Cursor string          `json:"cursor,omitempty"`
}

// Service exposes reward catalog CRUD.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Reward, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Reward, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo RewardsRepository
}

// NewService builds the reward catalog service.
func NewService(repo RewardsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rewards repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Reward, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PointsRequired < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points_required cannot be negative")
	}

	reward := &models.Reward{
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		PointsRequired: input.PointsRequired,
		Category:       strings.TrimSpace(input.Category),
		IsActive:       true,
	}
	if input.IsActive != nil {
		reward.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, reward)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reward")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Reward, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reward id is required")
	}

	reward, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup reward")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		reward.Name = name
	}
	if input.Description != nil {
		reward.Description = strings.TrimSpace(*input.Description)
	}
	if input.PointsRequired != nil {
		if *input.PointsRequired < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "points_required cannot be negative")
		}
		reward.PointsRequired = *input.PointsRequired
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		reward.Category = category
	}
	if input.IsActive != nil {
		reward.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, reward); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reward")
	}
	return reward, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reward id is required")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup reward")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reward")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listQuery{
		category:   strings.TrimSpace(params.Category),
		activeOnly: params.ActiveOnly,
		limit:      pkgpagination.LimitWithBuffer(params.Limit),
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rewards")
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
