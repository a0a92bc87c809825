package analytics

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
)

// UserStat is one row of the users-by-status aggregate.
type UserStat struct {
	Status enums.UserStatus `json:"status"`
	Count  int64            `json:"count"`
}

// CollectionStat is one row of the collections-by-status aggregate.
type CollectionStat struct {
	Status        enums.CollectionStatus `json:"status"`
	Count         int64                  `json:"count"`
	TotalWeightKg decimal.Decimal        `json:"total_weight_kg"`
}

// WithdrawalStat is one row of the withdrawals-by-status aggregate.
type WithdrawalStat struct {
	Status      enums.WithdrawalStatus `json:"status"`
	Count       int64                  `json:"count"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
}

// FundStat carries the scholar fund inflow and outflow totals.
type FundStat struct {
	Contributions decimal.Decimal `json:"contributions"`
	Outflows      decimal.Decimal `json:"outflows"`
	Balance       decimal.Decimal `json:"balance"`
}

// Repository runs the dashboard aggregate queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an analytics repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserCounts groups users by status.
func (r *Repository) UserCounts(ctx context.Context) ([]UserStat, error) {
	var rows []UserStat
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CollectionStats groups collections by status with total weight.
func (r *Repository) CollectionStats(ctx context.Context) ([]CollectionStat, error) {
	var rows []CollectionStat
	err := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_weight_kg), 0) AS total_weight_kg").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WithdrawalStats groups withdrawal requests by status with total amount.
func (r *Repository) WithdrawalStats(ctx context.Context) ([]WithdrawalStat, error) {
	var rows []WithdrawalStat
	err := r.db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FundStats totals the scholar ledger and nets the balance.
func (r *Repository) FundStats(ctx context.Context) (*FundStat, error) {
	var totals struct {
		Contributions decimal.NullDecimal
		Outflows      decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.ScholarTransaction{}).
		Select(
			"COALESCE(SUM(amount) FILTER (WHERE transaction_type = ?), 0) AS contributions, "+
				"COALESCE(SUM(amount) FILTER (WHERE transaction_type <> ?), 0) AS outflows",
			enums.ScholarTransactionTypePetContribution,
			enums.ScholarTransactionTypePetContribution,
		).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	contributions := decimal.Zero
	if totals.Contributions.Valid {
		contributions = totals.Contributions.Decimal
	}
	outflows := decimal.Zero
	if totals.Outflows.Valid {
		outflows = totals.Outflows.Decimal
	}

	return &FundStat{
		Contributions: contributions,
		Outflows:      outflows,
		Balance:       contributions.Sub(outflows),
	}, nil
}
