package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ReturnAuthorizationStatus represents the status of a return authorization
type ReturnAuthorizationStatus string

const (
	ReturnAuthorizationStatusRequested ReturnAuthorizationStatus = "REQUESTED"
	ReturnAuthorizationStatusApproved  ReturnAuthorizationStatus = "APPROVED"
	ReturnAuthorizationStatusRejected  ReturnAuthorizationStatus = "REJECTED"
	ReturnAuthorizationStatusReceived  ReturnAuthorizationStatus = "RECEIVED"
	ReturnAuthorizationStatusCancelled ReturnAuthorizationStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReturnAuthorizationStatus
func (s ReturnAuthorizationStatus) IsValid() bool {
	switch s {
	case ReturnAuthorizationStatusRequested, ReturnAuthorizationStatusApproved, ReturnAuthorizationStatusRejected,
		ReturnAuthorizationStatusReceived, ReturnAuthorizationStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReturnAuthorizationStatus
func (s ReturnAuthorizationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReturnAuthorizationStatus) CanTransitionTo(target ReturnAuthorizationStatus) bool {
	switch s {
	case ReturnAuthorizationStatusRequested:
		return target == ReturnAuthorizationStatusApproved || target == ReturnAuthorizationStatusRejected ||
			target == ReturnAuthorizationStatusCancelled
	case ReturnAuthorizationStatusApproved:
		return target == ReturnAuthorizationStatusReceived || target == ReturnAuthorizationStatusCancelled
	case ReturnAuthorizationStatusRejected, ReturnAuthorizationStatusReceived, ReturnAuthorizationStatusCancelled:
		return false // Terminal states
	}
	return false
}

// ReturnDisposition decides where a returned line ends up
type ReturnDisposition string

const (
	ReturnDispositionRestock    ReturnDisposition = "RESTOCK"
	ReturnDispositionQuarantine ReturnDisposition = "QUARANTINE"
	ReturnDispositionScrap      ReturnDisposition = "SCRAP"
)

// String returns the string representation of ReturnDisposition
func (d ReturnDisposition) String() string {
	return string(d)
}

// IsValid checks if the disposition is a valid ReturnDisposition
func (d ReturnDisposition) IsValid() bool {
	switch d {
	case ReturnDispositionRestock, ReturnDispositionQuarantine, ReturnDispositionScrap:
		return true
	}
	return false
}

// ReturnAuthorizationLine is a line item on a return authorization
type ReturnAuthorizationLine struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ReturnID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	LotRef      string            `gorm:"type:varchar(50)"`
	Disposition ReturnDisposition `gorm:"type:varchar(20);not null;default:'QUARANTINE'"`
	Reason      string            `gorm:"type:varchar(255)"`
	CreatedAt   time.Time         `gorm:"type:timestamptz;not null"`
	UpdatedAt   time.Time         `gorm:"type:timestamptz;not null"`
}

// NewReturnAuthorizationLine creates a new return authorization line
func NewReturnAuthorizationLine(returnID, productID uuid.UUID, quantity, unitCost decimal.Decimal, lotRef, reason string) (*ReturnAuthorizationLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &ReturnAuthorizationLine{
		ID:          uuid.New(),
		ReturnID:    returnID,
		ProductID:   productID,
		Quantity:    quantity,
		UnitCost:    unitCost,
		LotRef:      lotRef,
		Disposition: ReturnDispositionQuarantine,
		Reason:      reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ReturnAuthorization is the aggregate root for customer returns. Approval
// fixes the disposition of each line; receiving records Customer→location
// moves, restocked lines re-enter valuation at their original unit cost while
// scrap goes to the scrap location with no valuation layer.
type ReturnAuthorization struct {
	shared.TenantAggregateRoot
	ReturnNumber string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_rma_tenant_number,priority:2"`
	CustomerRef  string                    `gorm:"type:varchar(100)"`
	DeliveryRef  string                    `gorm:"type:varchar(100)"` // Original outbound document reference
	WarehouseID  uuid.UUID                 `gorm:"type:uuid;not null"`
	LocationID   uuid.UUID                 `gorm:"type:uuid;not null"` // Restock location for RESTOCK lines
	Status       ReturnAuthorizationStatus `gorm:"type:varchar(20);not null"`
	Remark       string                    `gorm:"type:varchar(255)"`
	ApprovedAt   *time.Time                `gorm:"type:timestamptz"`
	ApprovedBy   string                    `gorm:"type:varchar(100)"`
	RejectedAt   *time.Time                `gorm:"type:timestamptz"`
	RejectReason string                    `gorm:"type:varchar(255)"`
	ReceivedAt   *time.Time                `gorm:"type:timestamptz"`
	CancelledAt  *time.Time                `gorm:"type:timestamptz"`
	CancelReason string                    `gorm:"type:varchar(255)"`
	Lines        []ReturnAuthorizationLine `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (ReturnAuthorization) TableName() string {
	return "return_authorizations"
}

// NewReturnAuthorization creates a new return authorization in requested status
func NewReturnAuthorization(tenantID uuid.UUID, returnNumber, customerRef, deliveryRef string, warehouseID, locationID uuid.UUID) (*ReturnAuthorization, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Return number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Restock location ID cannot be empty")
	}

	return &ReturnAuthorization{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		CustomerRef:         customerRef,
		DeliveryRef:         deliveryRef,
		WarehouseID:         warehouseID,
		LocationID:          locationID,
		Status:              ReturnAuthorizationStatusRequested,
		Lines:               make([]ReturnAuthorizationLine, 0),
	}, nil
}

// AddLine adds a line to the return. Only allowed in REQUESTED status.
func (r *ReturnAuthorization) AddLine(productID uuid.UUID, quantity, unitCost decimal.Decimal, lotRef, reason string) (*ReturnAuthorizationLine, error) {
	if r.Status != ReturnAuthorizationStatusRequested {
		return nil, shared.ErrInvalidTransition
	}

	line, err := NewReturnAuthorizationLine(r.ID, productID, quantity, unitCost, lotRef, reason)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return line, nil
}

// Approve approves the return with a disposition per line. Lines missing from
// the map keep their default quarantine disposition.
func (r *ReturnAuthorization) Approve(approvedBy string, dispositions map[uuid.UUID]ReturnDisposition) error {
	if !r.Status.CanTransitionTo(ReturnAuthorizationStatusApproved) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}
	if approvedBy == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot approve return without lines")
	}

	now := time.Now()
	for idx := range r.Lines {
		line := &r.Lines[idx]
		if d, ok := dispositions[line.ID]; ok {
			if !d.IsValid() {
				return shared.NewDomainError("INVALID_DISPOSITION", fmt.Sprintf("Invalid disposition for line %s", line.ID))
			}
			line.Disposition = d
			line.UpdatedAt = now
		}
	}

	r.Status = ReturnAuthorizationStatusApproved
	r.ApprovedBy = approvedBy
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Reject rejects the return request
func (r *ReturnAuthorization) Reject(reason string) error {
	if !r.Status.CanTransitionTo(ReturnAuthorizationStatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reject return in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	now := time.Now()
	r.Status = ReturnAuthorizationStatusRejected
	r.RejectedAt = &now
	r.RejectReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Receive marks the approved return as physically received. Ledger moves per
// disposition are recorded by the workflow service in the same transaction.
func (r *ReturnAuthorization) Receive() error {
	if !r.Status.CanTransitionTo(ReturnAuthorizationStatusReceived) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot receive return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = ReturnAuthorizationStatusReceived
	r.ReceivedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Cancel cancels the return. Allowed in REQUESTED or APPROVED status.
func (r *ReturnAuthorization) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(ReturnAuthorizationStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel return in %s status", r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	r.Status = ReturnAuthorizationStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// RestockLines returns the lines approved for restocking
func (r *ReturnAuthorization) RestockLines() []ReturnAuthorizationLine {
	var out []ReturnAuthorizationLine
	for _, line := range r.Lines {
		if line.Disposition == ReturnDispositionRestock {
			out = append(out, line)
		}
	}
	return out
}

// IsTerminal returns true if the return is received, rejected or cancelled
func (r *ReturnAuthorization) IsTerminal() bool {
	switch r.Status {
	case ReturnAuthorizationStatusReceived, ReturnAuthorizationStatusRejected, ReturnAuthorizationStatusCancelled:
		return true
	}
	return false
}

// TotalQuantity returns the sum of all line quantities
func (r *ReturnAuthorization) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}
