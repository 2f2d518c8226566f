package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Bucket is the composite key of an inventory level: the finest granularity
// at which on-hand quantity is tracked.
type Bucket struct {
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_level_bucket,priority:2"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_level_bucket,priority:3"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_level_bucket,priority:4"`
	LotRef      string    `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_level_bucket,priority:5"`
}

// IsValid returns true if the bucket is fully specified
func (b Bucket) IsValid() bool {
	return b.ProductID != uuid.Nil && b.WarehouseID != uuid.Nil && b.LocationID != uuid.Nil
}

// InventoryLevel is the materialized on-hand/reserved aggregate for one
// bucket. It is the aggregate root for quantity bookkeeping: OnHand always
// equals the signed sum of all stock moves touching the bucket, and
// Available() never goes negative. Rows are created lazily on first movement
// into a bucket and are never deleted, so audit continuity is preserved even
// when quantity returns to zero.
type InventoryLevel struct {
	shared.TenantAggregateRoot
	Bucket      Bucket          `gorm:"embedded"`
	OnHand      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock alert threshold
}

// TableName returns the table name for GORM
func (InventoryLevel) TableName() string {
	return "inventory_levels"
}

// NewInventoryLevel creates an empty level for a bucket
func NewInventoryLevel(tenantID uuid.UUID, bucket Bucket) (*InventoryLevel, error) {
	if !bucket.IsValid() {
		return nil, shared.NewDomainError("INVALID_BUCKET", "Bucket must specify product, warehouse and location")
	}

	return &InventoryLevel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Bucket:              bucket,
		OnHand:              decimal.Zero,
		Reserved:            decimal.Zero,
		MinQuantity:         decimal.Zero,
	}, nil
}

// Available returns the quantity free for new reservations
func (l *InventoryLevel) Available() decimal.Decimal {
	return l.OnHand.Sub(l.Reserved)
}

// ApplyInbound increases on-hand for a move into this bucket
func (l *InventoryLevel) ApplyInbound(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	l.OnHand = l.OnHand.Add(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// ApplyOutbound decreases on-hand for a move out of this bucket. When
// consumeReservation is true the quantity was previously reserved and the
// reservation is released in the same step (fulfillment); otherwise the
// unreserved portion of on-hand must cover the quantity.
func (l *InventoryLevel) ApplyOutbound(quantity decimal.Decimal, consumeReservation bool) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.OnHand.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	if consumeReservation {
		if l.Reserved.LessThan(quantity) {
			return shared.NewDomainError("INVALID_RESERVATION", "Reserved quantity does not cover the movement")
		}
		l.Reserved = l.Reserved.Sub(quantity)
	} else if l.Available().LessThan(quantity) {
		return shared.ErrInsufficientAvail
	}

	l.OnHand = l.OnHand.Sub(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	if l.IsBelowMinimum() {
		l.AddDomainEvent(NewLevelBelowMinimumEvent(l))
	}

	return nil
}

// Reserve holds quantity against available stock without moving it
func (l *InventoryLevel) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.Available().LessThan(quantity) {
		return shared.ErrInsufficientAvail
	}

	l.Reserved = l.Reserved.Add(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Release returns previously reserved quantity to available
func (l *InventoryLevel) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.Reserved.LessThan(quantity) {
		return shared.NewDomainError("INVALID_RESERVATION", "Cannot release more than reserved")
	}

	l.Reserved = l.Reserved.Sub(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetMinQuantity sets the low-stock alert threshold
func (l *InventoryLevel) SetMinQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}

	l.MinQuantity = quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// IsBelowMinimum returns true if on-hand dropped under the alert threshold
func (l *InventoryLevel) IsBelowMinimum() bool {
	return l.MinQuantity.GreaterThan(decimal.Zero) && l.OnHand.LessThan(l.MinQuantity)
}

// CanFulfill returns true if available stock covers the requested quantity
func (l *InventoryLevel) CanFulfill(quantity decimal.Decimal) bool {
	return l.Available().GreaterThanOrEqual(quantity)
}
