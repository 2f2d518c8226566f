package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeGoodsReceipt = "GoodsReceipt"

// Event type constants
const (
	EventTypeGoodsReceiptCreated   = "inventory.receipt.created"
	EventTypeGoodsReceiptConfirmed = "inventory.receipt.confirmed"
	EventTypeGoodsReceiptCompleted = "inventory.receipt.completed"
	EventTypeGoodsReceiptCancelled = "inventory.receipt.cancelled"
)

// GoodsReceiptCreatedEvent is raised when a new goods receipt is created
type GoodsReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	SupplierRef   string    `json:"supplier_ref"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
}

// NewGoodsReceiptCreatedEvent creates a new GoodsReceiptCreatedEvent
func NewGoodsReceiptCreatedEvent(grn *GoodsReceipt) *GoodsReceiptCreatedEvent {
	return &GoodsReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptCreated, AggregateTypeGoodsReceipt, grn.ID, grn.TenantID),
		ReceiptID:       grn.ID,
		ReceiptNumber:   grn.ReceiptNumber,
		SupplierRef:     grn.SupplierRef,
		WarehouseID:     grn.WarehouseID,
	}
}

// EventType returns the event type name
func (e *GoodsReceiptCreatedEvent) EventType() string {
	return EventTypeGoodsReceiptCreated
}

// GoodsReceiptConfirmedEvent is raised when a goods receipt is confirmed
type GoodsReceiptConfirmedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewGoodsReceiptConfirmedEvent creates a new GoodsReceiptConfirmedEvent
func NewGoodsReceiptConfirmedEvent(grn *GoodsReceipt) *GoodsReceiptConfirmedEvent {
	return &GoodsReceiptConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptConfirmed, AggregateTypeGoodsReceipt, grn.ID, grn.TenantID),
		ReceiptID:       grn.ID,
		ReceiptNumber:   grn.ReceiptNumber,
		WarehouseID:     grn.WarehouseID,
		TotalQuantity:   grn.TotalQuantity(),
	}
}

// EventType returns the event type name
func (e *GoodsReceiptConfirmedEvent) EventType() string {
	return EventTypeGoodsReceiptConfirmed
}

// GoodsReceiptCompletedEvent is raised when a goods receipt is completed and
// its stock moves have been recorded in the ledger
type GoodsReceiptCompletedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID    `json:"receipt_id"`
	ReceiptNumber string       `json:"receipt_number"`
	SupplierRef   string       `json:"supplier_ref"`
	WarehouseID   uuid.UUID    `json:"warehouse_id"`
	LocationID    uuid.UUID    `json:"location_id"`
	Lines         []LineEffect `json:"lines"`
}

// NewGoodsReceiptCompletedEvent creates a new GoodsReceiptCompletedEvent
func NewGoodsReceiptCompletedEvent(grn *GoodsReceipt, lines []LineEffect) *GoodsReceiptCompletedEvent {
	return &GoodsReceiptCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptCompleted, AggregateTypeGoodsReceipt, grn.ID, grn.TenantID),
		ReceiptID:       grn.ID,
		ReceiptNumber:   grn.ReceiptNumber,
		SupplierRef:     grn.SupplierRef,
		WarehouseID:     grn.WarehouseID,
		LocationID:      grn.LocationID,
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *GoodsReceiptCompletedEvent) EventType() string {
	return EventTypeGoodsReceiptCompleted
}

// GoodsReceiptCancelledEvent is raised when a goods receipt is cancelled
type GoodsReceiptCancelledEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Reason        string    `json:"reason"`
}

// NewGoodsReceiptCancelledEvent creates a new GoodsReceiptCancelledEvent
func NewGoodsReceiptCancelledEvent(grn *GoodsReceipt) *GoodsReceiptCancelledEvent {
	return &GoodsReceiptCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptCancelled, AggregateTypeGoodsReceipt, grn.ID, grn.TenantID),
		ReceiptID:       grn.ID,
		ReceiptNumber:   grn.ReceiptNumber,
		Reason:          grn.CancelReason,
	}
}

// EventType returns the event type name
func (e *GoodsReceiptCancelledEvent) EventType() string {
	return EventTypeGoodsReceiptCancelled
}
