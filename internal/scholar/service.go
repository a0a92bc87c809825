package scholar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	pkgpagination "github.com/mzansigreen/office-backend/pkg/pagination"
)

const contributionSourceType = "collection"

// ScholarRepository is the persistence surface the service depends on.
type ScholarRepository interface {
	SumPetWeight(ctx context.Context, collectionID uuid.UUID) (decimal.Decimal, error)
	InsertContribution(ctx context.Context, row *models.ScholarTransaction) (bool, error)
	SumByType(ctx context.Context, txType enums.ScholarTransactionType) (decimal.Decimal, error)
	List(ctx context.Context, opts listQuery) ([]models.ScholarTransaction, error)
}

// ContributionResult reports what the contribution call did. Created is false
// both for zero PET weight and for an already-recorded source.
type ContributionResult struct {
	Created bool            `json:"created"`
	Amount  decimal.Decimal `json:"amount"`
}

// FundSummary is the admin fund screen payload.
type FundSummary struct {
	TotalContributions decimal.Decimal `json:"total_contributions"`
	TotalDistributions decimal.Decimal `json:"total_distributions"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	Balance            decimal.Decimal `json:"balance"`
}

// ListParams pages the ledger listing.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is one page of ledger entries plus the next cursor.
type ListResult struct {
	Items  []models.ScholarTransaction `json:"items"`
	Cursor string                      `json:"cursor,omitempty"`
}

// Service exposes the Green Scholar fund operations.
type Service interface {
	RecordPetContribution(ctx context.Context, collectionID uuid.UUID) (*ContributionResult, error)
	Fund(ctx context.Context, params ListParams) (*FundSummary, *ListResult, error)
}

type service struct {
	repo ScholarRepository
	rate decimal.Decimal
}

// NewService builds the fund service with the configured PET rate.
func NewService(repo ScholarRepository, cfg config.ScholarConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scholar repository required")
	}
	return &service{repo: repo, rate: cfg.PetRate()}, nil
}

// RecordPetContribution credits the fund for a collection's PET weight. The
// insert is idempotent on (source_type, source_id, transaction_type), so
// concurrent duplicate deliveries settle on exactly one ledger row.
func (s *service) RecordPetContribution(ctx context.Context, collectionID uuid.UUID) (*ContributionResult, error) {
	if collectionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection id is required")
	}

	weight, err := s.repo.SumPetWeight(ctx, collectionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum pet weight")
	}

	amount := weight.Mul(s.rate).Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return &ContributionResult{Created: false, Amount: decimal.Zero}, nil
	}

	sourceType := contributionSourceType
	sourceID := collectionID
	row := &models.ScholarTransaction{
		TransactionType: enums.ScholarTransactionTypePetContribution,
		Amount:          amount,
		SourceType:      &sourceType,
		SourceID:        &sourceID,
		Description:     fmt.Sprintf("PET contribution for collection %s", collectionID),
	}

	created, err := s.repo.InsertContribution(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert contribution")
	}

	return &ContributionResult{Created: created, Amount: amount}, nil
}

// Fund returns the running totals plus one page of ledger entries.
func (s *service) Fund(ctx context.Context, params ListParams) (*FundSummary, *ListResult, error) {
	contributions, err := s.repo.SumByType(ctx, enums.ScholarTransactionTypePetContribution)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum contributions")
	}
	distributions, err := s.repo.SumByType(ctx, enums.ScholarTransactionTypeDistribution)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum distributions")
	}
	expenses, err := s.repo.SumByType(ctx, enums.ScholarTransactionTypeExpense)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum expenses")
	}

	summary := &FundSummary{
		TotalContributions: contributions,
		TotalDistributions: distributions,
		TotalExpenses:      expenses,
		Balance:            contributions.Sub(distributions).Sub(expenses),
	}

	query := listQuery{limit: pkgpagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger")
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

	return summary, &ListResult{Items: rows, Cursor: nextCursor}, nil
}
