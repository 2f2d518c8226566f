package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReturnAuthorization = "ReturnAuthorization"

// Event type constants
const (
	EventTypeReturnApproved = "inventory.rma.approved"
	EventTypeReturnRejected = "inventory.rma.rejected"
	EventTypeReturnReceived = "inventory.rma.received"
)

// ReturnApprovedEvent is raised when a return authorization is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID      uuid.UUID       `json:"return_id"`
	ReturnNumber  string          `json:"return_number"`
	CustomerRef   string          `json:"customer_ref"`
	ApprovedBy    string          `json:"approved_by"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(rma *ReturnAuthorization) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturnAuthorization, rma.ID, rma.TenantID),
		ReturnID:        rma.ID,
		ReturnNumber:    rma.ReturnNumber,
		CustomerRef:     rma.CustomerRef,
		ApprovedBy:      rma.ApprovedBy,
		TotalQuantity:   rma.TotalQuantity(),
	}
}

// EventType returns the event type name
func (e *ReturnApprovedEvent) EventType() string {
	return EventTypeReturnApproved
}

// ReturnRejectedEvent is raised when a return authorization is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	CustomerRef  string    `json:"customer_ref"`
	Reason       string    `json:"reason"`
}

// NewReturnRejectedEvent creates a new ReturnRejectedEvent
func NewReturnRejectedEvent(rma *ReturnAuthorization) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeReturnAuthorization, rma.ID, rma.TenantID),
		ReturnID:        rma.ID,
		ReturnNumber:    rma.ReturnNumber,
		CustomerRef:     rma.CustomerRef,
		Reason:          rma.RejectReason,
	}
}

// EventType returns the event type name
func (e *ReturnRejectedEvent) EventType() string {
	return EventTypeReturnRejected
}

// ReturnLineEffect extends a line effect with the disposition applied on receipt
type ReturnLineEffect struct {
	LineEffect
	Disposition ReturnDisposition `json:"disposition"`
}

// ReturnReceivedEvent is raised when an approved return has been physically
// received and its moves are on the ledger
type ReturnReceivedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID          `json:"return_id"`
	ReturnNumber string             `json:"return_number"`
	CustomerRef  string             `json:"customer_ref"`
	DeliveryRef  string             `json:"delivery_ref"`
	WarehouseID  uuid.UUID          `json:"warehouse_id"`
	Lines        []ReturnLineEffect `json:"lines"`
}

// NewReturnReceivedEvent creates a new ReturnReceivedEvent
func NewReturnReceivedEvent(rma *ReturnAuthorization, lines []ReturnLineEffect) *ReturnReceivedEvent {
	return &ReturnReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnReceived, AggregateTypeReturnAuthorization, rma.ID, rma.TenantID),
		ReturnID:        rma.ID,
		ReturnNumber:    rma.ReturnNumber,
		CustomerRef:     rma.CustomerRef,
		DeliveryRef:     rma.DeliveryRef,
		WarehouseID:     rma.WarehouseID,
		Lines:           lines,
	}
}

// EventType returns the event type name
func (e *ReturnReceivedEvent) EventType() string {
	return EventTypeReturnReceived
}
