package document

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReconciliation = "Reconciliation"

// Event type constants
const (
	EventTypeReconciliationReviewed = "inventory.reconciliation.reviewed"
	EventTypeReconciliationClosed   = "inventory.reconciliation.closed"
)

// ReconciliationVariance describes one valued variance on a reconciliation
type ReconciliationVariance struct {
	LineID          uuid.UUID       `json:"line_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	LocationID      uuid.UUID       `json:"location_id"`
	LotRef          string          `json:"lot_ref,omitempty"`
	Class           ABCClass        `json:"class"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Variance        decimal.Decimal `json:"variance"`
	VarianceValue   decimal.Decimal `json:"variance_value"`
	MoveID          uuid.UUID       `json:"move_id,omitempty"`
}

// ReconciliationReviewedEvent is raised when a reconciliation count has been
// reviewed and signed off
type ReconciliationReviewedEvent struct {
	shared.BaseDomainEvent
	ReconciliationID   uuid.UUID       `json:"reconciliation_id"`
	ReconNumber        string          `json:"recon_number"`
	WarehouseID        uuid.UUID       `json:"warehouse_id"`
	ReviewedBy         string          `json:"reviewed_by"`
	TotalVarianceValue decimal.Decimal `json:"total_variance_value"`
}

// NewReconciliationReviewedEvent creates a new ReconciliationReviewedEvent
func NewReconciliationReviewedEvent(r *Reconciliation) *ReconciliationReviewedEvent {
	return &ReconciliationReviewedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeReconciliationReviewed, AggregateTypeReconciliation, r.ID, r.TenantID),
		ReconciliationID:   r.ID,
		ReconNumber:        r.ReconNumber,
		WarehouseID:        r.WarehouseID,
		ReviewedBy:         r.ReviewedBy,
		TotalVarianceValue: r.TotalVarianceValue(),
	}
}

// EventType returns the event type name
func (e *ReconciliationReviewedEvent) EventType() string {
	return EventTypeReconciliationReviewed
}

// ReconciliationClosedEvent is raised when a reconciliation is closed and its
// corrective moves are on the ledger
type ReconciliationClosedEvent struct {
	shared.BaseDomainEvent
	ReconciliationID   uuid.UUID                `json:"reconciliation_id"`
	ReconNumber        string                   `json:"recon_number"`
	WarehouseID        uuid.UUID                `json:"warehouse_id"`
	ReviewedBy         string                   `json:"reviewed_by"`
	TotalVarianceValue decimal.Decimal          `json:"total_variance_value"`
	Variances          []ReconciliationVariance `json:"variances"`
}

// NewReconciliationClosedEvent creates a new ReconciliationClosedEvent
func NewReconciliationClosedEvent(r *Reconciliation, variances []ReconciliationVariance) *ReconciliationClosedEvent {
	return &ReconciliationClosedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeReconciliationClosed, AggregateTypeReconciliation, r.ID, r.TenantID),
		ReconciliationID:   r.ID,
		ReconNumber:        r.ReconNumber,
		WarehouseID:        r.WarehouseID,
		ReviewedBy:         r.ReviewedBy,
		TotalVarianceValue: r.TotalVarianceValue(),
		Variances:          variances,
	}
}

// EventType returns the event type name
func (e *ReconciliationClosedEvent) EventType() string {
	return EventTypeReconciliationClosed
}
