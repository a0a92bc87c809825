package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzansigreen/office-backend/pkg/enums"
)

// Collection is a recorded pickup event. This is the single canonical table;
// the historical collections/unified_collections split is not carried over.
type Collection struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID    uuid.UUID              `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	CollectorID   *uuid.UUID             `gorm:"column:collector_id;type:uuid;index" json:"collector_id,omitempty"`
	Status        enums.CollectionStatus `gorm:"column:status;type:collection_status_enum;not null;default:'pending';index" json:"status"`
	TotalWeightKg decimal.Decimal        `gorm:"column:total_weight_kg;type:numeric(10,3);not null" json:"total_weight_kg"`
	TotalValue    decimal.Decimal        `gorm:"column:total_value;type:numeric(12,2);not null" json:"total_value"`
	AdminNotes    *string                `gorm:"column:admin_notes" json:"admin_notes,omitempty"`
	Materials     []CollectionMaterial   `gorm:"foreignKey:CollectionID" json:"materials,omitempty"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// CollectionMaterial is one weighed line item of a collection.
type CollectionMaterial struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CollectionID uuid.UUID       `gorm:"column:collection_id;type:uuid;not null;index" json:"collection_id"`
	MaterialName string          `gorm:"column:material_name;not null" json:"material_name"`
	WeightKg     decimal.Decimal `gorm:"column:weight_kg;type:numeric(10,3);not null" json:"weight_kg"`
	RatePerKg    decimal.Decimal `gorm:"column:rate_per_kg;type:numeric(10,2);not null" json:"rate_per_kg"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// DeletedCollection archives a soft-deleted collection. Columns mirror the
// source table; the materials snapshot rides along as JSON so the archive
// never lags a materials schema change.
type DeletedCollection struct {
	ID            uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID    uuid.UUID              `gorm:"column:customer_id;type:uuid;not null" json:"customer_id"`
	CollectorID   *uuid.UUID             `gorm:"column:collector_id;type:uuid" json:"collector_id,omitempty"`
	Status        enums.CollectionStatus `gorm:"column:status;type:collection_status_enum;not null" json:"status"`
	TotalWeightKg decimal.Decimal        `gorm:"column:total_weight_kg;type:numeric(10,3);not null" json:"total_weight_kg"`
	TotalValue    decimal.Decimal        `gorm:"column:total_value;type:numeric(12,2);not null" json:"total_value"`
	AdminNotes    *string                `gorm:"column:admin_notes" json:"admin_notes,omitempty"`
	Materials     json.RawMessage        `gorm:"column:materials;type:jsonb" json:"materials,omitempty"`
	SourceCreated time.Time              `gorm:"column:source_created_at;not null" json:"source_created_at"`
	DeletedBy     uuid.UUID              `gorm:"column:deleted_by;type:uuid;not null" json:"deleted_by"`
	Reason        string                 `gorm:"column:reason;not null" json:"reason"`
	DeletedAt     time.Time              `gorm:"column:deleted_at;autoCreateTime;index" json:"deleted_at"`
}

// TableName keeps the archive under the name the dashboard already queries.
func (DeletedCollection) TableName() string {
	return "deleted_transactions"
}
