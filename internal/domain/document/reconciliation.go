package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ReconciliationStatus represents the status of an inventory reconciliation
type ReconciliationStatus string

const (
	ReconciliationStatusOpen      ReconciliationStatus = "OPEN"
	ReconciliationStatusCounting  ReconciliationStatus = "COUNTING"
	ReconciliationStatusReviewed  ReconciliationStatus = "REVIEWED"
	ReconciliationStatusClosed    ReconciliationStatus = "CLOSED"
	ReconciliationStatusCancelled ReconciliationStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReconciliationStatus
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconciliationStatusOpen, ReconciliationStatusCounting, ReconciliationStatusReviewed,
		ReconciliationStatusClosed, ReconciliationStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReconciliationStatus
func (s ReconciliationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReconciliationStatus) CanTransitionTo(target ReconciliationStatus) bool {
	switch s {
	case ReconciliationStatusOpen:
		return target == ReconciliationStatusCounting || target == ReconciliationStatusCancelled
	case ReconciliationStatusCounting:
		return target == ReconciliationStatusReviewed || target == ReconciliationStatusCancelled
	case ReconciliationStatusReviewed:
		return target == ReconciliationStatusClosed || target == ReconciliationStatusCancelled
	case ReconciliationStatusClosed, ReconciliationStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ABCClass categorizes a reconciliation line by value contribution
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

// IsValid checks if the class is a valid ABCClass
func (c ABCClass) IsValid() bool {
	return c == ABCClassA || c == ABCClassB || c == ABCClassC
}

// ReconciliationLine is one bucket under reconciliation. Unlike a stock take
// line it carries the ABC class of the product so review can focus on
// high-value variances.
type ReconciliationLine struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ReconciliationID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null"`
	LocationID       uuid.UUID        `gorm:"type:uuid;not null"`
	LotRef           string           `gorm:"type:varchar(50)"`
	Class            ABCClass         `gorm:"type:varchar(1);not null;default:'C'"`
	SystemQuantity   decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CountedQuantity  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	UnitCost         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time        `gorm:"type:timestamptz;not null"`
	UpdatedAt        time.Time        `gorm:"type:timestamptz;not null"`
}

// NewReconciliationLine creates a new reconciliation line
func NewReconciliationLine(reconciliationID, productID, locationID uuid.UUID, lotRef string, class ABCClass, systemQuantity, unitCost decimal.Decimal) (*ReconciliationLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if !class.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLASS", "ABC class must be A, B or C")
	}
	if systemQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "System quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &ReconciliationLine{
		ID:               uuid.New(),
		ReconciliationID: reconciliationID,
		ProductID:        productID,
		LocationID:       locationID,
		LotRef:           lotRef,
		Class:            class,
		SystemQuantity:   systemQuantity,
		UnitCost:         unitCost,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsCounted returns true once a counted quantity has been recorded
func (l *ReconciliationLine) IsCounted() bool {
	return l.CountedQuantity != nil
}

// Variance returns counted minus system quantity. Zero until counted.
func (l *ReconciliationLine) Variance() decimal.Decimal {
	if l.CountedQuantity == nil {
		return decimal.Zero
	}
	return l.CountedQuantity.Sub(l.SystemQuantity)
}

// VarianceValue returns the variance valued at the line's unit cost
func (l *ReconciliationLine) VarianceValue() decimal.Decimal {
	return l.Variance().Mul(l.UnitCost)
}

// HasVariance returns true if the counted quantity differs from the system quantity
func (l *ReconciliationLine) HasVariance() bool {
	return l.IsCounted() && !l.Variance().IsZero()
}

// Reconciliation is the aggregate root for a cycle-count reconciliation, a
// reviewed sibling of the stock take. Counting records actual quantities,
// review signs off the valued variances, and closing writes the corrective
// moves to the ledger.
type Reconciliation struct {
	shared.TenantAggregateRoot
	ReconNumber  string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_rcn_tenant_number,priority:2"`
	WarehouseID  uuid.UUID            `gorm:"type:uuid;not null"`
	Status       ReconciliationStatus `gorm:"type:varchar(20);not null"`
	Remark       string               `gorm:"type:varchar(255)"`
	StartedAt    *time.Time           `gorm:"type:timestamptz"`
	ReviewedAt   *time.Time           `gorm:"type:timestamptz"`
	ReviewedBy   string               `gorm:"type:varchar(100)"`
	ClosedAt     *time.Time           `gorm:"type:timestamptz"`
	CancelledAt  *time.Time           `gorm:"type:timestamptz"`
	CancelReason string               `gorm:"type:varchar(255)"`
	Lines        []ReconciliationLine `gorm:"foreignKey:ReconciliationID;references:ID"`
}

// TableName returns the table name for GORM
func (Reconciliation) TableName() string {
	return "reconciliations"
}

// NewReconciliation creates a new reconciliation in open status
func NewReconciliation(tenantID uuid.UUID, reconNumber string, warehouseID uuid.UUID) (*Reconciliation, error) {
	if reconNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Reconciliation number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &Reconciliation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReconNumber:         reconNumber,
		WarehouseID:         warehouseID,
		Status:              ReconciliationStatusOpen,
		Lines:               make([]ReconciliationLine, 0),
	}, nil
}

// AddLine adds a bucket to reconcile. Only allowed in OPEN status.
func (r *Reconciliation) AddLine(productID, locationID uuid.UUID, lotRef string, class ABCClass, systemQuantity, unitCost decimal.Decimal) (*ReconciliationLine, error) {
	if r.Status != ReconciliationStatusOpen {
		return nil, shared.ErrInvalidTransition
	}

	for _, line := range r.Lines {
		if line.ProductID == productID && line.LocationID == locationID && line.LotRef == lotRef {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Bucket is already on this reconciliation")
		}
	}

	line, err := NewReconciliationLine(r.ID, productID, locationID, lotRef, class, systemQuantity, unitCost)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return line, nil
}

// StartCounting transitions the reconciliation from OPEN to COUNTING
func (r *Reconciliation) StartCounting() error {
	if !r.Status.CanTransitionTo(ReconciliationStatusCounting) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot start counting in %s status", r.Status))
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot start reconciliation without lines")
	}

	now := time.Now()
	r.Status = ReconciliationStatusCounting
	r.StartedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// RecordCount records the counted quantity for a line. Only allowed while counting.
func (r *Reconciliation) RecordCount(lineID uuid.UUID, counted decimal.Decimal) error {
	if r.Status != ReconciliationStatusCounting {
		return shared.ErrInvalidTransition
	}
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	for idx := range r.Lines {
		if r.Lines[idx].ID == lineID {
			now := time.Now()
			r.Lines[idx].CountedQuantity = &counted
			r.Lines[idx].UpdatedAt = now
			r.UpdatedAt = now
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Reconciliation line not found")
}

// Review transitions the reconciliation from COUNTING to REVIEWED. Every line
// must have been counted.
func (r *Reconciliation) Review(reviewedBy string) error {
	if !r.Status.CanTransitionTo(ReconciliationStatusReviewed) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot review reconciliation in %s status", r.Status))
	}
	if reviewedBy == "" {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer is required")
	}
	for _, line := range r.Lines {
		if !line.IsCounted() {
			return shared.NewDomainError("UNCOUNTED_LINE", fmt.Sprintf("Line %s has not been counted", line.ID))
		}
	}

	now := time.Now()
	r.Status = ReconciliationStatusReviewed
	r.ReviewedBy = reviewedBy
	r.ReviewedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Close finalizes the reconciliation. Corrective ledger moves for variance
// lines are recorded by the workflow service in the same transaction.
func (r *Reconciliation) Close() error {
	if !r.Status.CanTransitionTo(ReconciliationStatusClosed) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot close reconciliation in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReconciliationStatusClosed
	r.ClosedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Cancel cancels the reconciliation. No ledger effects are produced.
func (r *Reconciliation) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(ReconciliationStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel reconciliation in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	r.Status = ReconciliationStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// TotalVarianceValue returns the sum of valued variances across all lines
func (r *Reconciliation) TotalVarianceValue() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.VarianceValue())
	}
	return total
}

// VarianceLines returns the lines whose counted quantity differs from the system quantity
func (r *Reconciliation) VarianceLines() []ReconciliationLine {
	var out []ReconciliationLine
	for _, line := range r.Lines {
		if line.HasVariance() {
			out = append(out, line)
		}
	}
	return out
}

// IsTerminal returns true if the reconciliation is closed or cancelled
func (r *Reconciliation) IsTerminal() bool {
	return r.Status == ReconciliationStatusClosed || r.Status == ReconciliationStatusCancelled
}
