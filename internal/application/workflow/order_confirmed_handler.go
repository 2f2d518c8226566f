package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
)

// EventTypeOrderConfirmed is published by the upstream order system when a
// sales order is ready for fulfilment
const EventTypeOrderConfirmed = "order.confirmed"

// OrderConfirmedEvent is the inbound contract consumed from the order system
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderRef    string               `json:"order_ref"`
	CustomerRef string               `json:"customer_ref"`
	WarehouseID uuid.UUID            `json:"warehouse_id"`
	LocationID  uuid.UUID            `json:"location_id"`
	Lines       []OrderConfirmedLine `json:"lines"`
}

// OrderConfirmedLine is one ordered line to fulfil
type OrderConfirmedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	LotRef    string          `json:"lot_ref,omitempty"`
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderConfirmedHandler creates and reserves a delivery order when an
// upstream order is confirmed. Creation claims the order reference, so
// redelivered events (the transport is at-least-once) resolve to the already
// created document instead of a duplicate, and the reservation carries its
// own claim so a redelivery after a partial failure retries just the
// reservation.
type OrderConfirmedHandler struct {
	deliveries *DeliveryOrderService
	logger     *zap.Logger
}

// NewOrderConfirmedHandler creates a new order confirmed handler
func NewOrderConfirmedHandler(deliveries *DeliveryOrderService, logger *zap.Logger) *OrderConfirmedHandler {
	return &OrderConfirmedHandler{deliveries: deliveries, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderConfirmedHandler) EventTypes() []string {
	return []string{EventTypeOrderConfirmed}
}

// Handle creates the delivery order for the confirmed order and reserves its
// stock
func (h *OrderConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*OrderConfirmedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, EventTypeOrderConfirmed)
	}
	if confirmed.OrderRef == "" {
		return shared.NewDomainError("INVALID_ORDER_REF", "Order confirmed event carries no order reference")
	}

	req := CreateDeliveryOrderRequest{
		OrderRef:    confirmed.OrderRef,
		CustomerRef: confirmed.CustomerRef,
		WarehouseID: confirmed.WarehouseID,
		LocationID:  confirmed.LocationID,
		Lines:       make([]DeliveryOrderLineRequest, 0, len(confirmed.Lines)),
	}
	for _, line := range confirmed.Lines {
		req.Lines = append(req.Lines, DeliveryOrderLineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			LotRef:    line.LotRef,
		})
	}

	dto, err := h.deliveries.Create(ctx, confirmed.TenantID(), req)
	if err != nil {
		return err
	}

	if dto.Replayed {
		h.logger.Debug("order already has a delivery order",
			zap.String("order_ref", confirmed.OrderRef),
			zap.String("delivery_number", dto.DeliveryNumber))
	}

	if _, err := h.deliveries.Reserve(ctx, confirmed.TenantID(), dto.ID); err != nil {
		return err
	}

	return nil
}

// Ensure OrderConfirmedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderConfirmedHandler)(nil)
