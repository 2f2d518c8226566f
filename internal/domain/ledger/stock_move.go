package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// DocumentRef identifies the document transition that produced a move.
type DocumentRef struct {
	DocumentType   string    `gorm:"type:varchar(30);not null;index:idx_stock_move_document,priority:1"`
	DocumentID     uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_move_document,priority:2"`
	DocumentNumber string    `gorm:"type:varchar(50);not null"`
	LineID         uuid.UUID `gorm:"type:uuid"`
}

// StockMove is an immutable record of a physical quantity moving between two
// locations. Moves are never updated or deleted; corrections are recorded as
// new moves in the opposite direction.
type StockMove struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_move_tenant_time,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_move_product"`
	Source      Location        `gorm:"embedded;embeddedPrefix:source_"`
	Destination Location        `gorm:"embedded;embeddedPrefix:dest_"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Always positive; direction is source→destination
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LotRef      string          `gorm:"type:varchar(50);index"`
	Document    DocumentRef     `gorm:"embedded;embeddedPrefix:doc_"`
	Reason      string          `gorm:"type:varchar(255)"`
	CreatedAt   time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_move_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMove) TableName() string {
	return "stock_moves"
}

// StockMoveInput carries the fields needed to record a move.
type StockMoveInput struct {
	TenantID    uuid.UUID
	ProductID   uuid.UUID
	Source      Location
	Destination Location
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	LotRef      string
	Document    DocumentRef
	Reason      string
}

// NewStockMove validates the input and creates an immutable move record.
func NewStockMove(in StockMoveInput) (*StockMove, error) {
	if in.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if in.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !in.Source.IsResolvable() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source location is not resolvable")
	}
	if !in.Destination.IsResolvable() {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Destination location is not resolvable")
	}
	if in.Source.Equal(in.Destination) {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination must differ")
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if in.Document.DocumentType == "" || in.Document.DocumentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_REF", "Document reference is required")
	}

	return &StockMove{
		ID:          uuid.New(),
		TenantID:    in.TenantID,
		ProductID:   in.ProductID,
		Source:      in.Source,
		Destination: in.Destination,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		LotRef:      in.LotRef,
		Document:    in.Document,
		Reason:      in.Reason,
		CreatedAt:   time.Now(),
	}, nil
}

// TotalCost returns Quantity * UnitCost
func (m *StockMove) TotalCost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// SignedQuantityFor returns the signed effect of this move on the given
// location: negative when the location is the source, positive when it is the
// destination, zero otherwise.
func (m *StockMove) SignedQuantityFor(loc Location) decimal.Decimal {
	switch {
	case m.Source.Equal(loc):
		return m.Quantity.Neg()
	case m.Destination.Equal(loc):
		return m.Quantity
	}
	return decimal.Zero
}

// Reverse builds the input for a correcting move in the opposite direction,
// referencing the correcting document.
func (m *StockMove) Reverse(doc DocumentRef, reason string) StockMoveInput {
	return StockMoveInput{
		TenantID:    m.TenantID,
		ProductID:   m.ProductID,
		Source:      m.Destination,
		Destination: m.Source,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		LotRef:      m.LotRef,
		Document:    doc,
		Reason:      reason,
	}
}
