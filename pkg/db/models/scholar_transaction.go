package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzansigreen/office-backend/pkg/enums"
)

// ScholarTransaction is one entry in the Green Scholar fund ledger. At most
// one pet_contribution may exist per source collection; the
// green_scholar_source_unique index backs that invariant.
type ScholarTransaction struct {
	ID              uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionType enums.ScholarTransactionType `gorm:"column:transaction_type;type:scholar_transaction_type_enum;not null" json:"transaction_type"`
	Amount          decimal.Decimal              `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	SourceType      *string                      `gorm:"column:source_type" json:"source_type,omitempty"`
	SourceID        *uuid.UUID                   `gorm:"column:source_id;type:uuid" json:"source_id,omitempty"`
	BeneficiaryID   *uuid.UUID                   `gorm:"column:beneficiary_id;type:uuid" json:"beneficiary_id,omitempty"`
	Description     string                       `gorm:"column:description" json:"description"`
	CreatedAt       time.Time                    `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName matches the dashboard's existing ledger table.
func (ScholarTransaction) TableName() string {
	return "green_scholar_transactions"
}
