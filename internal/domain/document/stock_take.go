package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// StockTakeStatus represents the status of a stock take
type StockTakeStatus string

const (
	StockTakeStatusDraft      StockTakeStatus = "DRAFT"
	StockTakeStatusInProgress StockTakeStatus = "IN_PROGRESS"
	StockTakeStatusCompleted  StockTakeStatus = "COMPLETED"
	StockTakeStatusCancelled  StockTakeStatus = "CANCELLED"
)

// IsValid checks if the status is a valid StockTakeStatus
func (s StockTakeStatus) IsValid() bool {
	switch s {
	case StockTakeStatusDraft, StockTakeStatusInProgress, StockTakeStatusCompleted, StockTakeStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of StockTakeStatus
func (s StockTakeStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s StockTakeStatus) CanTransitionTo(target StockTakeStatus) bool {
	switch s {
	case StockTakeStatusDraft:
		return target == StockTakeStatusInProgress || target == StockTakeStatusCancelled
	case StockTakeStatusInProgress:
		return target == StockTakeStatusCompleted || target == StockTakeStatusCancelled
	case StockTakeStatusCompleted, StockTakeStatusCancelled:
		return false // Terminal states
	}
	return false
}

// StockTakeLine is one counted bucket on a stock take. SystemQuantity is the
// on-hand quantity snapshotted when counting starts.
type StockTakeLine struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	StockTakeID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID        `gorm:"type:uuid;not null"`
	LocationID      uuid.UUID        `gorm:"type:uuid;not null"`
	LotRef          string           `gorm:"type:varchar(50)"`
	SystemQuantity  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CountedQuantity *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CountedBy       string           `gorm:"type:varchar(100)"`
	CountedAt       *time.Time       `gorm:"type:timestamptz"`
	CreatedAt       time.Time        `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time        `gorm:"type:timestamptz;not null"`
}

// NewStockTakeLine creates a new stock take line with a snapshotted system quantity
func NewStockTakeLine(stockTakeID, productID, locationID uuid.UUID, lotRef string, systemQuantity decimal.Decimal) (*StockTakeLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if systemQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "System quantity cannot be negative")
	}

	now := time.Now()
	return &StockTakeLine{
		ID:             uuid.New(),
		StockTakeID:    stockTakeID,
		ProductID:      productID,
		LocationID:     locationID,
		LotRef:         lotRef,
		SystemQuantity: systemQuantity,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsCounted returns true once a counted quantity has been recorded
func (l *StockTakeLine) IsCounted() bool {
	return l.CountedQuantity != nil
}

// Variance returns counted minus system quantity. Zero until counted.
func (l *StockTakeLine) Variance() decimal.Decimal {
	if l.CountedQuantity == nil {
		return decimal.Zero
	}
	return l.CountedQuantity.Sub(l.SystemQuantity)
}

// HasVariance returns true if the counted quantity differs from the system quantity
func (l *StockTakeLine) HasVariance() bool {
	return l.IsCounted() && !l.Variance().IsZero()
}

// StockTake is the aggregate root for a physical count of one warehouse.
// Finalizing records one corrective stock move per variance line so the
// ledger converges to the counted reality.
type StockTake struct {
	shared.TenantAggregateRoot
	TakeNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_stk_tenant_number,priority:2"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null"`
	Status       StockTakeStatus `gorm:"type:varchar(20);not null"`
	Remark       string          `gorm:"type:varchar(255)"`
	StartedAt    *time.Time      `gorm:"type:timestamptz"`
	CompletedAt  *time.Time      `gorm:"type:timestamptz"`
	CancelledAt  *time.Time      `gorm:"type:timestamptz"`
	CancelReason string          `gorm:"type:varchar(255)"`
	ApprovedBy   string          `gorm:"type:varchar(100)"`
	ApprovedAt   *time.Time      `gorm:"type:timestamptz"`
	Lines        []StockTakeLine `gorm:"foreignKey:StockTakeID;references:ID"`
}

// TableName returns the table name for GORM
func (StockTake) TableName() string {
	return "stock_takes"
}

// NewStockTake creates a new stock take in draft status
func NewStockTake(tenantID uuid.UUID, takeNumber string, warehouseID uuid.UUID) (*StockTake, error) {
	if takeNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Stock take number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	st := &StockTake{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TakeNumber:          takeNumber,
		WarehouseID:         warehouseID,
		Status:              StockTakeStatusDraft,
		Lines:               make([]StockTakeLine, 0),
	}

	return st, nil
}

// AddLine adds a bucket to count. Only allowed in DRAFT status.
func (s *StockTake) AddLine(productID, locationID uuid.UUID, lotRef string, systemQuantity decimal.Decimal) (*StockTakeLine, error) {
	if s.Status != StockTakeStatusDraft {
		return nil, shared.ErrInvalidTransition
	}

	for _, line := range s.Lines {
		if line.ProductID == productID && line.LocationID == locationID && line.LotRef == lotRef {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Bucket is already on this stock take")
		}
	}

	line, err := NewStockTakeLine(s.ID, productID, locationID, lotRef, systemQuantity)
	if err != nil {
		return nil, err
	}

	s.Lines = append(s.Lines, *line)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return line, nil
}

// Start transitions the stock take from DRAFT to IN_PROGRESS
func (s *StockTake) Start() error {
	if !s.Status.CanTransitionTo(StockTakeStatusInProgress) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot start stock take in %s status", s.Status))
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot start stock take without lines")
	}

	now := time.Now()
	s.Status = StockTakeStatusInProgress
	s.StartedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// RecordCount records the counted quantity for a line. Only allowed while counting.
func (s *StockTake) RecordCount(lineID uuid.UUID, counted decimal.Decimal, countedBy string) error {
	if s.Status != StockTakeStatusInProgress {
		return shared.ErrInvalidTransition
	}
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	for idx := range s.Lines {
		if s.Lines[idx].ID == lineID {
			now := time.Now()
			s.Lines[idx].CountedQuantity = &counted
			s.Lines[idx].CountedBy = countedBy
			s.Lines[idx].CountedAt = &now
			s.Lines[idx].UpdatedAt = now
			s.UpdatedAt = now
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Stock take line not found")
}

// Approve records sign-off of the count. Required before completion when any
// line variance exceeds the tenant's approval threshold.
func (s *StockTake) Approve(approvedBy string) error {
	if s.Status != StockTakeStatusInProgress {
		return shared.ErrInvalidTransition
	}
	if approvedBy == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}

	now := time.Now()
	s.ApprovedBy = approvedBy
	s.ApprovedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Complete finalizes the stock take. Every line must have been counted, and
// counts whose variance exceeds the threshold must be approved first.
// Corrective ledger moves are recorded by the workflow service in the same
// transaction.
func (s *StockTake) Complete(approvalThreshold decimal.Decimal) error {
	if !s.Status.CanTransitionTo(StockTakeStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot complete stock take in %s status", s.Status))
	}

	for _, line := range s.Lines {
		if !line.IsCounted() {
			return shared.NewDomainError("UNCOUNTED_LINE", fmt.Sprintf("Line %s has not been counted", line.ID))
		}
	}

	if s.RequiresApproval(approvalThreshold) && s.ApprovedAt == nil {
		return shared.NewDomainError("APPROVAL_REQUIRED", "Variance exceeds threshold and requires approval")
	}

	now := time.Now()
	s.Status = StockTakeStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// Cancel cancels the stock take. No ledger effects are produced.
func (s *StockTake) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(StockTakeStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel stock take in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	s.Status = StockTakeStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	return nil
}

// RequiresApproval returns true if any counted line's absolute variance
// exceeds the threshold
func (s *StockTake) RequiresApproval(threshold decimal.Decimal) bool {
	for _, line := range s.Lines {
		if line.Variance().Abs().GreaterThan(threshold) {
			return true
		}
	}
	return false
}

// VarianceLines returns the lines whose counted quantity differs from the system quantity
func (s *StockTake) VarianceLines() []StockTakeLine {
	var out []StockTakeLine
	for _, line := range s.Lines {
		if line.HasVariance() {
			out = append(out, line)
		}
	}
	return out
}

// IsTerminal returns true if the stock take is completed or cancelled
func (s *StockTake) IsTerminal() bool {
	return s.Status == StockTakeStatusCompleted || s.Status == StockTakeStatusCancelled
}
