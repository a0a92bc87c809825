package withdrawals

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/logger"
)

// WithdrawalsRepository is the persistence surface the service depends on.
type WithdrawalsRepository interface {
	WithTx(tx *gorm.DB) WithdrawalsRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)
	DeleteLinkedWalletTransactions(ctx context.Context, withdrawalID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the withdrawal admin workflow.
type Service interface {
	Delete(ctx context.Context, withdrawalID uuid.UUID) error
}

type service struct {
	db   txRunner
	repo WithdrawalsRepository
	logg *logger.Logger
}

// NewService builds the withdrawal service.
func NewService(db txRunner, repo WithdrawalsRepository, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("withdrawals repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{db: db, repo: repo, logg: logg}, nil
}

// Delete removes a withdrawal and every wallet ledger row that references it,
// in one transaction. Wallet rows are linked under three historical shapes
// (source_id alone, source_id plus source_type, reference_id); all three are
// cleared so no orphan can survive.
func (s *service) Delete(ctx context.Context, withdrawalID uuid.UUID) error {
	if withdrawalID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "withdrawal id is required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, withdrawalID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup withdrawal")
		}

		removed, err := repo.DeleteLinkedWalletTransactions(ctx, withdrawalID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete linked wallet transactions")
		}

		if err := repo.Delete(ctx, withdrawalID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete withdrawal")
		}

		logCtx := s.logg.WithFields(ctx, map[string]any{
			"withdrawal_id":       withdrawalID.String(),
			"wallet_rows_removed": removed,
		})
		s.logg.Info(logCtx, "withdrawal cascade delete completed")
		return nil
	})
}
