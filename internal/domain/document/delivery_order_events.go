package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDeliveryOrder = "DeliveryOrder"

// Event type constants
const (
	EventTypeDeliveryOrderCreated   = "inventory.delivery.created"
	EventTypeDeliveryOrderReserved  = "inventory.delivery.reserved"
	EventTypeDeliveryOrderCompleted = "inventory.delivery.completed"
	EventTypeDeliveryOrderCancelled = "inventory.delivery.cancelled"
)

// DeliveryOrderCreatedEvent is raised when a new delivery order is created
type DeliveryOrderCreatedEvent struct {
	shared.BaseDomainEvent
	DeliveryOrderID uuid.UUID `json:"delivery_order_id"`
	DeliveryNumber  string    `json:"delivery_number"`
	OrderRef        string    `json:"order_ref"`
	CustomerRef     string    `json:"customer_ref"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
}

// NewDeliveryOrderCreatedEvent creates a new DeliveryOrderCreatedEvent
func NewDeliveryOrderCreatedEvent(do *DeliveryOrder) *DeliveryOrderCreatedEvent {
	return &DeliveryOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderCreated, AggregateTypeDeliveryOrder, do.ID, do.TenantID),
		DeliveryOrderID: do.ID,
		DeliveryNumber:  do.DeliveryNumber,
		OrderRef:        do.OrderRef,
		CustomerRef:     do.CustomerRef,
		WarehouseID:     do.WarehouseID,
	}
}

// EventType returns the event type name
func (e *DeliveryOrderCreatedEvent) EventType() string {
	return EventTypeDeliveryOrderCreated
}

// DeliveryOrderReservedEvent is raised when stock has been reserved for
// every line of a delivery order
type DeliveryOrderReservedEvent struct {
	shared.BaseDomainEvent
	DeliveryOrderID uuid.UUID       `json:"delivery_order_id"`
	DeliveryNumber  string          `json:"delivery_number"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
}

// NewDeliveryOrderReservedEvent creates a new DeliveryOrderReservedEvent
func NewDeliveryOrderReservedEvent(do *DeliveryOrder) *DeliveryOrderReservedEvent {
	return &DeliveryOrderReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderReserved, AggregateTypeDeliveryOrder, do.ID, do.TenantID),
		DeliveryOrderID: do.ID,
		DeliveryNumber:  do.DeliveryNumber,
		WarehouseID:     do.WarehouseID,
		TotalQuantity:   do.TotalQuantity(),
	}
}

// EventType returns the event type name
func (e *DeliveryOrderReservedEvent) EventType() string {
	return EventTypeDeliveryOrderReserved
}

// DeliveryOrderCompletedEvent is raised when a delivery order is shipped and
// its outbound moves and cost of goods sold have been recorded
type DeliveryOrderCompletedEvent struct {
	shared.BaseDomainEvent
	DeliveryOrderID uuid.UUID       `json:"delivery_order_id"`
	DeliveryNumber  string          `json:"delivery_number"`
	OrderRef        string          `json:"order_ref"`
	CustomerRef     string          `json:"customer_ref"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	TotalCOGS       decimal.Decimal `json:"total_cogs"`
	Lines           []LineEffect    `json:"lines"`
}

// NewDeliveryOrderCompletedEvent creates a new DeliveryOrderCompletedEvent
func NewDeliveryOrderCompletedEvent(do *DeliveryOrder, totalCOGS decimal.Decimal, lines []LineEffect) *DeliveryOrderCompletedEvent {
	return &DeliveryOrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderCompleted, AggregateTypeDeliveryOrder, do.ID, do.TenantID),
		DeliveryOrderID: do.ID,
		DeliveryNumber:  do.DeliveryNumber,
		OrderRef:        do.OrderRef,
		CustomerRef:     do.CustomerRef,
		WarehouseID:     do.WarehouseID,
		TotalCOGS:       totalCOGS,
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *DeliveryOrderCompletedEvent) EventType() string {
	return EventTypeDeliveryOrderCompleted
}

// DeliveryOrderCancelledEvent is raised when a delivery order is cancelled
type DeliveryOrderCancelledEvent struct {
	shared.BaseDomainEvent
	DeliveryOrderID uuid.UUID `json:"delivery_order_id"`
	DeliveryNumber  string    `json:"delivery_number"`
	OrderRef        string    `json:"order_ref"`
	Reason          string    `json:"reason"`
}

// NewDeliveryOrderCancelledEvent creates a new DeliveryOrderCancelledEvent
func NewDeliveryOrderCancelledEvent(do *DeliveryOrder) *DeliveryOrderCancelledEvent {
	return &DeliveryOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryOrderCancelled, AggregateTypeDeliveryOrder, do.ID, do.TenantID),
		DeliveryOrderID: do.ID,
		DeliveryNumber:  do.DeliveryNumber,
		OrderRef:        do.OrderRef,
		Reason:          do.CancelReason,
	}
}

// EventType returns the event type name
func (e *DeliveryOrderCancelledEvent) EventType() string {
	return EventTypeDeliveryOrderCancelled
}
