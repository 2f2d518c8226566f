package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// DeliveryOrderStatus represents the status of a delivery order
type DeliveryOrderStatus string

const (
	DeliveryOrderStatusCreated   DeliveryOrderStatus = "CREATED"
	DeliveryOrderStatusReserved  DeliveryOrderStatus = "RESERVED"
	DeliveryOrderStatusPicked    DeliveryOrderStatus = "PICKED"
	DeliveryOrderStatusPacked    DeliveryOrderStatus = "PACKED"
	DeliveryOrderStatusShipped   DeliveryOrderStatus = "SHIPPED"
	DeliveryOrderStatusCancelled DeliveryOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DeliveryOrderStatus
func (s DeliveryOrderStatus) IsValid() bool {
	switch s {
	case DeliveryOrderStatusCreated, DeliveryOrderStatusReserved, DeliveryOrderStatusPicked,
		DeliveryOrderStatusPacked, DeliveryOrderStatusShipped, DeliveryOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DeliveryOrderStatus
func (s DeliveryOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DeliveryOrderStatus) CanTransitionTo(target DeliveryOrderStatus) bool {
	switch s {
	case DeliveryOrderStatusCreated:
		return target == DeliveryOrderStatusReserved || target == DeliveryOrderStatusCancelled
	case DeliveryOrderStatusReserved:
		return target == DeliveryOrderStatusPicked || target == DeliveryOrderStatusCancelled
	case DeliveryOrderStatusPicked:
		return target == DeliveryOrderStatusPacked || target == DeliveryOrderStatusCancelled
	case DeliveryOrderStatusPacked:
		return target == DeliveryOrderStatusShipped || target == DeliveryOrderStatusCancelled
	case DeliveryOrderStatusShipped, DeliveryOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DeliveryOrderLine is a line item on a delivery order
type DeliveryOrderLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DeliveryOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PickedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LotRef          string          `gorm:"type:varchar(50)"`
	CreatedAt       time.Time       `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time       `gorm:"type:timestamptz;not null"`
}

// NewDeliveryOrderLine creates a new delivery order line
func NewDeliveryOrderLine(deliveryOrderID, productID uuid.UUID, quantity decimal.Decimal, lotRef string) (*DeliveryOrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &DeliveryOrderLine{
		ID:              uuid.New(),
		DeliveryOrderID: deliveryOrderID,
		ProductID:       productID,
		Quantity:        quantity,
		PickedQuantity:  decimal.Zero,
		LotRef:          lotRef,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// DeliveryOrder is the aggregate root for outbound fulfilment. Reserving
// converts available stock to reserved; shipping consumes the reservation,
// records location→Customer moves and drains valuation layers for COGS.
type DeliveryOrder struct {
	shared.TenantAggregateRoot
	DeliveryNumber string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_do_tenant_number,priority:2"`
	OrderRef       string              `gorm:"type:varchar(100);index:idx_do_tenant_order,priority:2"`
	CustomerRef    string              `gorm:"type:varchar(100)"`
	WarehouseID    uuid.UUID           `gorm:"type:uuid;not null"`
	LocationID     uuid.UUID           `gorm:"type:uuid;not null"` // Picking location within the warehouse
	Status         DeliveryOrderStatus `gorm:"type:varchar(20);not null"`
	Remark         string              `gorm:"type:varchar(255)"`
	ReservedAt     *time.Time          `gorm:"type:timestamptz"`
	PickedAt       *time.Time          `gorm:"type:timestamptz"`
	PackedAt       *time.Time          `gorm:"type:timestamptz"`
	ShippedAt      *time.Time          `gorm:"type:timestamptz"`
	CancelledAt    *time.Time          `gorm:"type:timestamptz"`
	CancelReason   string              `gorm:"type:varchar(255)"`
	Lines          []DeliveryOrderLine `gorm:"foreignKey:DeliveryOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (DeliveryOrder) TableName() string {
	return "delivery_orders"
}

// NewDeliveryOrder creates a new delivery order in created status
func NewDeliveryOrder(tenantID uuid.UUID, deliveryNumber, orderRef, customerRef string, warehouseID, locationID uuid.UUID) (*DeliveryOrder, error) {
	if deliveryNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Delivery number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Picking location ID cannot be empty")
	}

	do := &DeliveryOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DeliveryNumber:      deliveryNumber,
		OrderRef:            orderRef,
		CustomerRef:         customerRef,
		WarehouseID:         warehouseID,
		LocationID:          locationID,
		Status:              DeliveryOrderStatusCreated,
		Lines:               make([]DeliveryOrderLine, 0),
	}

	do.AddDomainEvent(NewDeliveryOrderCreatedEvent(do))

	return do, nil
}

// AddLine adds a line to the delivery order. Only allowed in CREATED status.
func (d *DeliveryOrder) AddLine(productID uuid.UUID, quantity decimal.Decimal, lotRef string) (*DeliveryOrderLine, error) {
	if d.Status != DeliveryOrderStatusCreated {
		return nil, shared.ErrInvalidTransition
	}

	line, err := NewDeliveryOrderLine(d.ID, productID, quantity, lotRef)
	if err != nil {
		return nil, err
	}

	d.Lines = append(d.Lines, *line)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return line, nil
}

// Reserve transitions the delivery order from CREATED to RESERVED. The
// workflow service moves each line quantity from available to reserved on
// the corresponding inventory level before calling this.
func (d *DeliveryOrder) Reserve() error {
	if !d.Status.CanTransitionTo(DeliveryOrderStatusReserved) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot reserve delivery order in %s status", d.Status))
	}
	if len(d.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot reserve delivery order without lines")
	}

	now := time.Now()
	d.Status = DeliveryOrderStatusReserved
	d.ReservedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDeliveryOrderReservedEvent(d))

	return nil
}

// Pick records picked quantities per line and transitions to PICKED.
// Every line must be picked in full; short picks require amending the order
// before picking.
func (d *DeliveryOrder) Pick(picks map[uuid.UUID]decimal.Decimal) error {
	if !d.Status.CanTransitionTo(DeliveryOrderStatusPicked) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot pick delivery order in %s status", d.Status))
	}

	now := time.Now()
	for idx := range d.Lines {
		line := &d.Lines[idx]
		picked, ok := picks[line.ID]
		if !ok {
			return shared.NewDomainError("INCOMPLETE_PICK", fmt.Sprintf("Missing pick for line %s", line.ID))
		}
		if !picked.Equal(line.Quantity) {
			return shared.NewDomainError("INCOMPLETE_PICK", fmt.Sprintf("Line %s picked %s of %s", line.ID, picked, line.Quantity))
		}
		line.PickedQuantity = picked
		line.UpdatedAt = now
	}

	d.Status = DeliveryOrderStatusPicked
	d.PickedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// Pack transitions the delivery order from PICKED to PACKED
func (d *DeliveryOrder) Pack() error {
	if !d.Status.CanTransitionTo(DeliveryOrderStatusPacked) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot pack delivery order in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DeliveryOrderStatusPacked
	d.PackedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// Ship marks the delivery order as shipped. Ledger moves and COGS are
// recorded by the workflow service in the same transaction.
func (d *DeliveryOrder) Ship() error {
	if !d.Status.CanTransitionTo(DeliveryOrderStatusShipped) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot ship delivery order in %s status", d.Status))
	}

	now := time.Now()
	d.Status = DeliveryOrderStatusShipped
	d.ShippedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	return nil
}

// Cancel cancels the delivery order. Reservations held by the order are
// released by the workflow service in the same transaction.
func (d *DeliveryOrder) Cancel(reason string) error {
	if !d.Status.CanTransitionTo(DeliveryOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel delivery order in %s status", d.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	d.Status = DeliveryOrderStatusCancelled
	d.CancelledAt = &now
	d.CancelReason = reason
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDeliveryOrderCancelledEvent(d))

	return nil
}

// HoldsReservation returns true while stock is reserved for this order
func (d *DeliveryOrder) HoldsReservation() bool {
	switch d.Status {
	case DeliveryOrderStatusReserved, DeliveryOrderStatusPicked, DeliveryOrderStatusPacked:
		return true
	}
	return false
}

// IsTerminal returns true if the delivery order is shipped or cancelled
func (d *DeliveryOrder) IsTerminal() bool {
	return d.Status == DeliveryOrderStatusShipped || d.Status == DeliveryOrderStatusCancelled
}

// TotalQuantity returns the sum of all line quantities
func (d *DeliveryOrder) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Quantity)
	}
	return total
}

// GetLine returns a line by its ID
func (d *DeliveryOrder) GetLine(lineID uuid.UUID) *DeliveryOrderLine {
	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			return &d.Lines[idx]
		}
	}
	return nil
}
