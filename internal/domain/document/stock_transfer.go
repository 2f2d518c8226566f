package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// StockTransferStatus represents the status of a stock transfer
type StockTransferStatus string

const (
	StockTransferStatusDraft     StockTransferStatus = "DRAFT"
	StockTransferStatusInTransit StockTransferStatus = "IN_TRANSIT"
	StockTransferStatusReceived  StockTransferStatus = "RECEIVED"
	StockTransferStatusCancelled StockTransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid StockTransferStatus
func (s StockTransferStatus) IsValid() bool {
	switch s {
	case StockTransferStatusDraft, StockTransferStatusInTransit, StockTransferStatusReceived, StockTransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of StockTransferStatus
func (s StockTransferStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s StockTransferStatus) CanTransitionTo(target StockTransferStatus) bool {
	switch s {
	case StockTransferStatusDraft:
		return target == StockTransferStatusInTransit || target == StockTransferStatusCancelled
	case StockTransferStatusInTransit:
		return target == StockTransferStatusReceived
	case StockTransferStatusReceived, StockTransferStatusCancelled:
		return false // Terminal states
	}
	return false
}

// StockTransferLine is a line item on a stock transfer
type StockTransferLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransferID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LotRef     string          `gorm:"type:varchar(50)"`
	CreatedAt  time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt  time.Time       `gorm:"type:timestamptz;not null"`
}

// NewStockTransferLine creates a new stock transfer line
func NewStockTransferLine(transferID, productID uuid.UUID, quantity decimal.Decimal, lotRef string) (*StockTransferLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &StockTransferLine{
		ID:         uuid.New(),
		TransferID: transferID,
		ProductID:  productID,
		Quantity:   quantity,
		LotRef:     lotRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// StockTransfer is the aggregate root for moving stock between locations.
// Dispatching moves stock from the source location into the In-Transit
// virtual location; receiving moves it from In-Transit into the destination.
// An in-transit transfer cannot be cancelled, only received.
type StockTransfer struct {
	shared.TenantAggregateRoot
	TransferNumber string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_trf_tenant_number,priority:2"`
	SourceWhID     uuid.UUID           `gorm:"type:uuid;not null"`
	SourceLocID    uuid.UUID           `gorm:"type:uuid;not null"`
	DestWhID       uuid.UUID           `gorm:"type:uuid;not null"`
	DestLocID      uuid.UUID           `gorm:"type:uuid;not null"`
	Status         StockTransferStatus `gorm:"type:varchar(20);not null"`
	Remark         string              `gorm:"type:varchar(255)"`
	DispatchedAt   *time.Time          `gorm:"type:timestamptz"`
	ReceivedAt     *time.Time          `gorm:"type:timestamptz"`
	CancelledAt    *time.Time          `gorm:"type:timestamptz"`
	CancelReason   string              `gorm:"type:varchar(255)"`
	Lines          []StockTransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (StockTransfer) TableName() string {
	return "stock_transfers"
}

// NewStockTransfer creates a new stock transfer in draft status
func NewStockTransfer(tenantID uuid.UUID, transferNumber string, sourceWhID, sourceLocID, destWhID, destLocID uuid.UUID) (*StockTransfer, error) {
	if transferNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Transfer number cannot be empty")
	}
	if sourceWhID == uuid.Nil || sourceLocID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source warehouse and location are required")
	}
	if destWhID == uuid.Nil || destLocID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "Destination warehouse and location are required")
	}
	if sourceWhID == destWhID && sourceLocID == destLocID {
		return nil, shared.NewDomainError("SAME_LOCATION", "Source and destination must differ")
	}

	st := &StockTransfer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TransferNumber:      transferNumber,
		SourceWhID:          sourceWhID,
		SourceLocID:         sourceLocID,
		DestWhID:            destWhID,
		DestLocID:           destLocID,
		Status:              StockTransferStatusDraft,
		Lines:               make([]StockTransferLine, 0),
	}

	st.AddDomainEvent(NewStockTransferCreatedEvent(st))

	return st, nil
}

// AddLine adds a line to the transfer. Only allowed in DRAFT status.
func (t *StockTransfer) AddLine(productID uuid.UUID, quantity decimal.Decimal, lotRef string) (*StockTransferLine, error) {
	if t.Status != StockTransferStatusDraft {
		return nil, shared.ErrInvalidTransition
	}

	line, err := NewStockTransferLine(t.ID, productID, quantity, lotRef)
	if err != nil {
		return nil, err
	}

	t.Lines = append(t.Lines, *line)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return line, nil
}

// Dispatch transitions the transfer from DRAFT to IN_TRANSIT. Source-side
// ledger moves into the in-transit location are recorded by the workflow
// service in the same transaction.
func (t *StockTransfer) Dispatch() error {
	if !t.Status.CanTransitionTo(StockTransferStatusInTransit) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot dispatch transfer in %s status", t.Status))
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot dispatch transfer without lines")
	}

	now := time.Now()
	t.Status = StockTransferStatusInTransit
	t.DispatchedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewStockTransferDispatchedEvent(t))

	return nil
}

// Receive transitions the transfer from IN_TRANSIT to RECEIVED
func (t *StockTransfer) Receive() error {
	if !t.Status.CanTransitionTo(StockTransferStatusReceived) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot receive transfer in %s status", t.Status))
	}

	now := time.Now()
	t.Status = StockTransferStatusReceived
	t.ReceivedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// Cancel cancels the transfer. Only a draft transfer can be cancelled; once
// dispatched the stock is in transit and must be received.
func (t *StockTransfer) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(StockTransferStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel transfer in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	t.Status = StockTransferStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	return nil
}

// IsTerminal returns true if the transfer is received or cancelled
func (t *StockTransfer) IsTerminal() bool {
	return t.Status == StockTransferStatusReceived || t.Status == StockTransferStatusCancelled
}

// TotalQuantity returns the sum of all line quantities
func (t *StockTransfer) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}
