package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	pkgpagination "github.com/mzansigreen/office-backend/pkg/pagination"
)

// WalletRepository is the persistence surface the service depends on.
type WalletRepository interface {
	List(ctx context.Context, opts listQuery) ([]models.WalletTransaction, error)
}

// ListParams filters and pages the transactions listing.
type ListParams struct {
	UserID string
	Limit  int
	Cursor string
}

// ListResult is one page of wallet transactions plus the next cursor.
type ListResult struct {
	Items  []models.WalletTransaction `json:"items"`
	Cursor string                     `json:"cursor,omitempty"`
}

// Service exposes the admin transactions listing.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

type service struct {
	repo WalletRepository
}

// NewService builds the wallet listing service.
func NewService(repo WalletRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listQuery{limit: pkgpagination.LimitWithBuffer(params.Limit)}

	if params.UserID != "" {
		userID, err := uuid.Parse(params.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_id filter")
		}
		query.userID = userID
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet transactions")
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
