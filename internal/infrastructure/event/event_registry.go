package event

import (
	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/inventory"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Goods receipt events
	serializer.Register(document.EventTypeGoodsReceiptCreated, &document.GoodsReceiptCreatedEvent{})
	serializer.Register(document.EventTypeGoodsReceiptConfirmed, &document.GoodsReceiptConfirmedEvent{})
	serializer.Register(document.EventTypeGoodsReceiptCompleted, &document.GoodsReceiptCompletedEvent{})
	serializer.Register(document.EventTypeGoodsReceiptCancelled, &document.GoodsReceiptCancelledEvent{})

	// Delivery order events
	serializer.Register(document.EventTypeDeliveryOrderCreated, &document.DeliveryOrderCreatedEvent{})
	serializer.Register(document.EventTypeDeliveryOrderReserved, &document.DeliveryOrderReservedEvent{})
	serializer.Register(document.EventTypeDeliveryOrderCompleted, &document.DeliveryOrderCompletedEvent{})
	serializer.Register(document.EventTypeDeliveryOrderCancelled, &document.DeliveryOrderCancelledEvent{})

	// Stock transfer events
	serializer.Register(document.EventTypeStockTransferCreated, &document.StockTransferCreatedEvent{})
	serializer.Register(document.EventTypeStockTransferDispatched, &document.StockTransferDispatchedEvent{})
	serializer.Register(document.EventTypeStockTransferCompleted, &document.StockTransferCompletedEvent{})

	// Stock take and adjustment events
	serializer.Register(document.EventTypeStockTakeCompleted, &document.StockTakeCompletedEvent{})
	serializer.Register(document.EventTypeAdjustmentRecorded, &document.AdjustmentRecordedEvent{})

	// Reconciliation events
	serializer.Register(document.EventTypeReconciliationReviewed, &document.ReconciliationReviewedEvent{})
	serializer.Register(document.EventTypeReconciliationClosed, &document.ReconciliationClosedEvent{})

	// Return authorization events
	serializer.Register(document.EventTypeReturnApproved, &document.ReturnApprovedEvent{})
	serializer.Register(document.EventTypeReturnRejected, &document.ReturnRejectedEvent{})
	serializer.Register(document.EventTypeReturnReceived, &document.ReturnReceivedEvent{})

	// Inventory level events
	serializer.Register(inventory.EventTypeLevelBelowMinimum, &inventory.LevelBelowMinimumEvent{})
}
