package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockTake = "StockTake"

// Event type constants
const (
	EventTypeStockTakeCompleted = "inventory.stock_take.completed"
	EventTypeAdjustmentRecorded = "inventory.adjustment.recorded"
)

// StockTakeVariance describes one corrected bucket in a completed stock take
type StockTakeVariance struct {
	LineID          uuid.UUID       `json:"line_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	LocationID      uuid.UUID       `json:"location_id"`
	LotRef          string          `json:"lot_ref,omitempty"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Variance        decimal.Decimal `json:"variance"`
	MoveID          uuid.UUID       `json:"move_id,omitempty"`
}

// StockTakeCompletedEvent is raised when a stock take is finalized and its
// corrective moves are on the ledger
type StockTakeCompletedEvent struct {
	shared.BaseDomainEvent
	StockTakeID uuid.UUID           `json:"stock_take_id"`
	TakeNumber  string              `json:"take_number"`
	WarehouseID uuid.UUID           `json:"warehouse_id"`
	ApprovedBy  string              `json:"approved_by,omitempty"`
	Variances   []StockTakeVariance `json:"variances"`
}

// NewStockTakeCompletedEvent creates a new StockTakeCompletedEvent
func NewStockTakeCompletedEvent(st *StockTake, variances []StockTakeVariance) *StockTakeCompletedEvent {
	return &StockTakeCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTakeCompleted, AggregateTypeStockTake, st.ID, st.TenantID),
		StockTakeID:     st.ID,
		TakeNumber:      st.TakeNumber,
		WarehouseID:     st.WarehouseID,
		ApprovedBy:      st.ApprovedBy,
		Variances:       variances,
	}
}

// EventType returns the event type name
func (e *StockTakeCompletedEvent) EventType() string {
	return EventTypeStockTakeCompleted
}

// AdjustmentRecordedEvent is raised for each corrective stock adjustment
// produced by a stock take or reconciliation
type AdjustmentRecordedEvent struct {
	shared.BaseDomainEvent
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	SourceType   DocumentType    `json:"source_type"`
	SourceID     uuid.UUID       `json:"source_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	LotRef       string          `json:"lot_ref,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason"`
	MoveID       uuid.UUID       `json:"move_id"`
}

// NewAdjustmentRecordedEvent creates a new AdjustmentRecordedEvent
func NewAdjustmentRecordedEvent(adj *StockAdjustment) *AdjustmentRecordedEvent {
	return &AdjustmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentRecorded, AggregateTypeStockTake, adj.SourceID, adj.TenantID),
		AdjustmentID:    adj.ID,
		SourceType:      adj.SourceType,
		SourceID:        adj.SourceID,
		ProductID:       adj.ProductID,
		WarehouseID:     adj.WarehouseID,
		LocationID:      adj.LocationID,
		LotRef:          adj.LotRef,
		Quantity:        adj.Quantity,
		Reason:          adj.Reason,
		MoveID:          adj.MoveID,
	}
}

// EventType returns the event type name
func (e *AdjustmentRecordedEvent) EventType() string {
	return EventTypeAdjustmentRecorded
}
