package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// StockAdjustment is an append-only record linking a corrective stock move to
// the stock take or reconciliation line that produced it. Quantity is signed:
// positive for a count surplus, negative for shrinkage.
type StockAdjustment struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceType   DocumentType    `gorm:"type:varchar(30);not null"`
	SourceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceLineID uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID   uuid.UUID       `gorm:"type:uuid;not null"`
	LotRef       string          `gorm:"type:varchar(50)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason       string          `gorm:"type:varchar(255);not null"`
	MoveID       uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt    time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment creates a new stock adjustment record
func NewStockAdjustment(tenantID uuid.UUID, sourceType DocumentType, sourceID, sourceLineID, productID, warehouseID, locationID uuid.UUID, lotRef string, quantity, unitCost decimal.Decimal, reason string, moveID uuid.UUID) (*StockAdjustment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if sourceType != DocumentTypeStockTake && sourceType != DocumentTypeReconciliation {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Adjustments originate from stock takes or reconciliations")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if moveID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MOVE", "Adjustment must reference a stock move")
	}

	return &StockAdjustment{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SourceType:   sourceType,
		SourceID:     sourceID,
		SourceLineID: sourceLineID,
		ProductID:    productID,
		WarehouseID:  warehouseID,
		LocationID:   locationID,
		LotRef:       lotRef,
		Quantity:     quantity,
		UnitCost:     unitCost,
		Reason:       reason,
		MoveID:       moveID,
		CreatedAt:    time.Now(),
	}, nil
}

// IsSurplus returns true when the count found more than the system expected
func (a *StockAdjustment) IsSurplus() bool {
	return a.Quantity.IsPositive()
}
