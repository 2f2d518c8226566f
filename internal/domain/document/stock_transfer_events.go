package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockTransfer = "StockTransfer"

// Event type constants
const (
	EventTypeStockTransferCreated    = "inventory.transfer.created"
	EventTypeStockTransferDispatched = "inventory.transfer.dispatched"
	EventTypeStockTransferCompleted  = "inventory.transfer.completed"
)

// StockTransferCreatedEvent is raised when a new stock transfer is created
type StockTransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID `json:"transfer_id"`
	TransferNumber string    `json:"transfer_number"`
	SourceWhID     uuid.UUID `json:"source_warehouse_id"`
	DestWhID       uuid.UUID `json:"dest_warehouse_id"`
}

// NewStockTransferCreatedEvent creates a new StockTransferCreatedEvent
func NewStockTransferCreatedEvent(st *StockTransfer) *StockTransferCreatedEvent {
	return &StockTransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferCreated, AggregateTypeStockTransfer, st.ID, st.TenantID),
		TransferID:      st.ID,
		TransferNumber:  st.TransferNumber,
		SourceWhID:      st.SourceWhID,
		DestWhID:        st.DestWhID,
	}
}

// EventType returns the event type name
func (e *StockTransferCreatedEvent) EventType() string {
	return EventTypeStockTransferCreated
}

// StockTransferDispatchedEvent is raised when a transfer leaves its source
// location and the stock moves into transit
type StockTransferDispatchedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID       `json:"transfer_id"`
	TransferNumber string          `json:"transfer_number"`
	SourceWhID     uuid.UUID       `json:"source_warehouse_id"`
	DestWhID       uuid.UUID       `json:"dest_warehouse_id"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
}

// NewStockTransferDispatchedEvent creates a new StockTransferDispatchedEvent
func NewStockTransferDispatchedEvent(st *StockTransfer) *StockTransferDispatchedEvent {
	return &StockTransferDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferDispatched, AggregateTypeStockTransfer, st.ID, st.TenantID),
		TransferID:      st.ID,
		TransferNumber:  st.TransferNumber,
		SourceWhID:      st.SourceWhID,
		DestWhID:        st.DestWhID,
		TotalQuantity:   st.TotalQuantity(),
	}
}

// EventType returns the event type name
func (e *StockTransferDispatchedEvent) EventType() string {
	return EventTypeStockTransferDispatched
}

// StockTransferCompletedEvent is raised when a transfer has been received at
// its destination and both legs of the move are on the ledger
type StockTransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID     uuid.UUID    `json:"transfer_id"`
	TransferNumber string       `json:"transfer_number"`
	SourceWhID     uuid.UUID    `json:"source_warehouse_id"`
	SourceLocID    uuid.UUID    `json:"source_location_id"`
	DestWhID       uuid.UUID    `json:"dest_warehouse_id"`
	DestLocID      uuid.UUID    `json:"dest_location_id"`
	Lines          []LineEffect `json:"lines"`
}

// NewStockTransferCompletedEvent creates a new StockTransferCompletedEvent
func NewStockTransferCompletedEvent(st *StockTransfer, lines []LineEffect) *StockTransferCompletedEvent {
	return &StockTransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferCompleted, AggregateTypeStockTransfer, st.ID, st.TenantID),
		TransferID:      st.ID,
		TransferNumber:  st.TransferNumber,
		SourceWhID:      st.SourceWhID,
		SourceLocID:     st.SourceLocID,
		DestWhID:        st.DestWhID,
		DestLocID:       st.DestLocID,
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *StockTransferCompletedEvent) EventType() string {
	return EventTypeStockTransferCompleted
}
