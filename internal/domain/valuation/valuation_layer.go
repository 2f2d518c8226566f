package valuation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// CostMethod selects how outbound stock is costed for a tenant
type CostMethod string

const (
	// CostMethodFIFO drains receipt layers oldest-first at their own cost
	CostMethodFIFO CostMethod = "FIFO"
	// CostMethodAVCO keeps one blended layer per bucket at the moving average cost
	CostMethodAVCO CostMethod = "AVCO"
)

// IsValid checks if the method is a valid CostMethod
func (m CostMethod) IsValid() bool {
	return m == CostMethodFIFO || m == CostMethodAVCO
}

// String returns the string representation of CostMethod
func (m CostMethod) String() string {
	return string(m)
}

// Bucket scopes valuation layers to the granularity costing is tracked at:
// one product in one warehouse, optionally per lot.
type Bucket struct {
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index:idx_val_layer_bucket,priority:2"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index:idx_val_layer_bucket,priority:3"`
	LotRef      string    `gorm:"type:varchar(50);not null;default:''"`
}

// IsValid returns true if the bucket is fully specified
func (b Bucket) IsValid() bool {
	return b.ProductID != uuid.Nil && b.WarehouseID != uuid.Nil
}

// ValuationLayer is a per-receipt cost layer. Layers are created when a goods
// receipt completes and consumed by outbound shipments; RemainingQuantity only
// ever decreases and never goes negative. Under AVCO a single layer per bucket
// is rewritten with the blended cost instead.
type ValuationLayer struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_val_layer_bucket,priority:1"`
	Bucket            Bucket          `gorm:"embedded"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedAt        time.Time       `gorm:"type:timestamptz;not null;index"`
	SourceDocumentID  uuid.UUID       `gorm:"type:uuid"`
	CreatedAt         time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt         time.Time       `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (ValuationLayer) TableName() string {
	return "valuation_layers"
}

// NewValuationLayer creates a cost layer for a received quantity
func NewValuationLayer(tenantID uuid.UUID, bucket Bucket, quantity, unitCost decimal.Decimal, receivedAt time.Time, sourceDocumentID uuid.UUID) (*ValuationLayer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !bucket.IsValid() {
		return nil, shared.NewDomainError("INVALID_BUCKET", "Bucket must specify product and warehouse")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &ValuationLayer{
		ID:                uuid.New(),
		TenantID:          tenantID,
		Bucket:            bucket,
		UnitCost:          unitCost,
		ReceivedQuantity:  quantity,
		RemainingQuantity: quantity,
		ReceivedAt:        receivedAt,
		SourceDocumentID:  sourceDocumentID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Consume decrements the remaining quantity, capped at what the layer holds,
// and returns the quantity actually taken.
func (l *ValuationLayer) Consume(quantity decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(quantity, l.RemainingQuantity)
	l.RemainingQuantity = l.RemainingQuantity.Sub(taken)
	l.UpdatedAt = time.Now()
	return taken
}

// Blend merges an incoming receipt into this layer at the moving weighted
// average cost. Used only under AVCO.
func (l *ValuationLayer) Blend(quantity, unitCost decimal.Decimal) {
	oldQty := l.RemainingQuantity
	newQty := oldQty.Add(quantity)
	if oldQty.IsZero() {
		l.UnitCost = unitCost
	} else {
		totalValue := oldQty.Mul(l.UnitCost).Add(quantity.Mul(unitCost))
		l.UnitCost = totalValue.Div(newQty).Round(4)
	}
	l.RemainingQuantity = newQty
	l.ReceivedQuantity = l.ReceivedQuantity.Add(quantity)
	l.UpdatedAt = time.Now()
}

// IsExhausted returns true when nothing remains in the layer
func (l *ValuationLayer) IsExhausted() bool {
	return l.RemainingQuantity.LessThanOrEqual(decimal.Zero)
}

// RemainingValue returns RemainingQuantity * UnitCost
func (l *ValuationLayer) RemainingValue() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitCost)
}
