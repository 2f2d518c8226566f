package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// GoodsReceiptStatus represents the status of a goods receipt note
type GoodsReceiptStatus string

const (
	GoodsReceiptStatusDraft     GoodsReceiptStatus = "DRAFT"
	GoodsReceiptStatusConfirmed GoodsReceiptStatus = "CONFIRMED"
	GoodsReceiptStatusCompleted GoodsReceiptStatus = "COMPLETED"
	GoodsReceiptStatusCancelled GoodsReceiptStatus = "CANCELLED"
)

// IsValid checks if the status is a valid GoodsReceiptStatus
func (s GoodsReceiptStatus) IsValid() bool {
	switch s {
	case GoodsReceiptStatusDraft, GoodsReceiptStatusConfirmed, GoodsReceiptStatusCompleted, GoodsReceiptStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of GoodsReceiptStatus
func (s GoodsReceiptStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s GoodsReceiptStatus) CanTransitionTo(target GoodsReceiptStatus) bool {
	switch s {
	case GoodsReceiptStatusDraft:
		return target == GoodsReceiptStatusConfirmed || target == GoodsReceiptStatusCancelled
	case GoodsReceiptStatusConfirmed:
		return target == GoodsReceiptStatusCompleted || target == GoodsReceiptStatusCancelled
	case GoodsReceiptStatusCompleted, GoodsReceiptStatusCancelled:
		return false // Terminal states
	}
	return false
}

// GoodsReceiptLine is a line item on a goods receipt note
type GoodsReceiptLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LotRef    string          `gorm:"type:varchar(50)"`
	Remark    string          `gorm:"type:varchar(255)"`
	CreatedAt time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time       `gorm:"type:timestamptz;not null"`
}

// NewGoodsReceiptLine creates a new goods receipt line
func NewGoodsReceiptLine(receiptID, productID uuid.UUID, quantity, unitCost decimal.Decimal, lotRef string) (*GoodsReceiptLine, error) {
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
	return &GoodsReceiptLine{
		ID:        uuid.New(),
		ReceiptID: receiptID,
		ProductID: productID,
		Quantity:  quantity,
		UnitCost:  unitCost,
		LotRef:    lotRef,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TotalCost returns Quantity * UnitCost
func (l *GoodsReceiptLine) TotalCost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// GoodsReceipt is the aggregate root for inbound stock from a supplier.
// Completing a confirmed receipt records one Supplier→location stock move and
// one valuation layer per line.
type GoodsReceipt struct {
	shared.TenantAggregateRoot
	ReceiptNumber string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_grn_tenant_number,priority:2"`
	SupplierRef   string             `gorm:"type:varchar(100)"`
	WarehouseID   uuid.UUID          `gorm:"type:uuid;not null"`
	LocationID    uuid.UUID          `gorm:"type:uuid;not null"` // Receiving location within the warehouse
	Status        GoodsReceiptStatus `gorm:"type:varchar(20);not null"`
	Remark        string             `gorm:"type:varchar(255)"`
	ConfirmedAt   *time.Time         `gorm:"type:timestamptz"`
	CompletedAt   *time.Time         `gorm:"type:timestamptz"`
	CancelledAt   *time.Time         `gorm:"type:timestamptz"`
	CancelReason  string             `gorm:"type:varchar(255)"`
	Lines         []GoodsReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a new goods receipt in draft status
func NewGoodsReceipt(tenantID uuid.UUID, receiptNumber, supplierRef string, warehouseID, locationID uuid.UUID) (*GoodsReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Receipt number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Receiving location ID cannot be empty")
	}

	grn := &GoodsReceipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceiptNumber:       receiptNumber,
		SupplierRef:         supplierRef,
		WarehouseID:         warehouseID,
		LocationID:          locationID,
		Status:              GoodsReceiptStatusDraft,
		Lines:               make([]GoodsReceiptLine, 0),
	}

	grn.AddDomainEvent(NewGoodsReceiptCreatedEvent(grn))

	return grn, nil
}

// AddLine adds a line to the receipt. Only allowed in DRAFT status.
func (g *GoodsReceipt) AddLine(productID uuid.UUID, quantity, unitCost decimal.Decimal, lotRef string) (*GoodsReceiptLine, error) {
	if g.Status != GoodsReceiptStatusDraft {
		return nil, shared.ErrInvalidTransition
	}

	line, err := NewGoodsReceiptLine(g.ID, productID, quantity, unitCost, lotRef)
	if err != nil {
		return nil, err
	}

	g.Lines = append(g.Lines, *line)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return line, nil
}

// RemoveLine removes a line from the receipt. Only allowed in DRAFT status.
func (g *GoodsReceipt) RemoveLine(lineID uuid.UUID) error {
	if g.Status != GoodsReceiptStatusDraft {
		return shared.ErrInvalidTransition
	}

	for i, line := range g.Lines {
		if line.ID == lineID {
			g.Lines = append(g.Lines[:i], g.Lines[i+1:]...)
			g.UpdatedAt = time.Now()
			g.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Receipt line not found")
}

// Confirm transitions the receipt from DRAFT to CONFIRMED
func (g *GoodsReceipt) Confirm() error {
	if !g.Status.CanTransitionTo(GoodsReceiptStatusConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot confirm receipt in %s status", g.Status))
	}
	if len(g.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm receipt without lines")
	}

	now := time.Now()
	g.Status = GoodsReceiptStatusConfirmed
	g.ConfirmedAt = &now
	g.UpdatedAt = now
	g.IncrementVersion()

	g.AddDomainEvent(NewGoodsReceiptConfirmedEvent(g))

	return nil
}

// Complete marks the receipt as completed. The ledger moves and valuation
// layers are recorded by the workflow service in the same transaction; the
// completion event carrying line effects is added there once move ids exist.
func (g *GoodsReceipt) Complete() error {
	if !g.Status.CanTransitionTo(GoodsReceiptStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot complete receipt in %s status", g.Status))
	}

	now := time.Now()
	g.Status = GoodsReceiptStatusCompleted
	g.CompletedAt = &now
	g.UpdatedAt = now
	g.IncrementVersion()

	return nil
}

// Cancel cancels the receipt. Allowed in DRAFT or CONFIRMED status; completed
// receipts are immutable and corrections go through return/adjustment flows.
func (g *GoodsReceipt) Cancel(reason string) error {
	if !g.Status.CanTransitionTo(GoodsReceiptStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel receipt in %s status", g.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	g.Status = GoodsReceiptStatusCancelled
	g.CancelledAt = &now
	g.CancelReason = reason
	g.UpdatedAt = now
	g.IncrementVersion()

	g.AddDomainEvent(NewGoodsReceiptCancelledEvent(g))

	return nil
}

// IsTerminal returns true if the receipt is completed or cancelled
func (g *GoodsReceipt) IsTerminal() bool {
	return g.Status == GoodsReceiptStatusCompleted || g.Status == GoodsReceiptStatusCancelled
}

// TotalQuantity returns the sum of all line quantities
func (g *GoodsReceipt) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range g.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}

// GetLine returns a line by its ID
func (g *GoodsReceipt) GetLine(lineID uuid.UUID) *GoodsReceiptLine {
	for idx := range g.Lines {
		if g.Lines[idx].ID == lineID {
			return &g.Lines[idx]
		}
	}
	return nil
}
