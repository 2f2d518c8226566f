package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Event type constants for inventory level events
const (
	EventTypeLevelBelowMinimum = "inventory.level.below_minimum"
)

// LevelBelowMinimumEvent is emitted when on-hand drops under the configured
// minimum for a bucket.
type LevelBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	LotRef      string          `json:"lot_ref,omitempty"`
	OnHand      decimal.Decimal `json:"on_hand"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewLevelBelowMinimumEvent creates a new LevelBelowMinimumEvent
func NewLevelBelowMinimumEvent(level *InventoryLevel) *LevelBelowMinimumEvent {
	return &LevelBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLevelBelowMinimum, "InventoryLevel", level.ID, level.TenantID),
		ProductID:       level.Bucket.ProductID,
		WarehouseID:     level.Bucket.WarehouseID,
		LocationID:      level.Bucket.LocationID,
		LotRef:          level.Bucket.LotRef,
		OnHand:          level.OnHand,
		MinQuantity:     level.MinQuantity,
	}
}
