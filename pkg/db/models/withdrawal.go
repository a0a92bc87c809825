package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzansigreen/office-backend/pkg/enums"
)

// WithdrawalRequest is a monetary payout request raised from a user's wallet.
type WithdrawalRequest struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Amount       decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Status       enums.WithdrawalStatus `gorm:"column:status;type:withdrawal_status_enum;not null;default:'pending';index" json:"status"`
	PayoutMethod *string                `gorm:"column:payout_method" json:"payout_method,omitempty"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// WalletTransaction is a ledger entry against a user's points wallet. The
// three nullable linkage columns reflect how historical schema versions tied
// entries back to their source record; the withdrawal cascade clears all
// three shapes.
type WalletTransaction struct {
	ID              uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Amount          decimal.Decimal             `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	TransactionType enums.WalletTransactionType `gorm:"column:transaction_type;type:wallet_transaction_type_enum;not null" json:"transaction_type"`
	SourceID        *uuid.UUID                  `gorm:"column:source_id;type:uuid;index" json:"source_id,omitempty"`
	SourceType      *string                     `gorm:"column:source_type" json:"source_type,omitempty"`
	ReferenceID     *uuid.UUID                  `gorm:"column:reference_id;type:uuid;index" json:"reference_id,omitempty"`
	Description     string                      `gorm:"column:description" json:"description"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}
