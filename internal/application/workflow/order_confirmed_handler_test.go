package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/shared"
)

func TestOrderConfirmedHandler_Handle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	newEvent := func(orderRef string, qty decimal.Decimal) *OrderConfirmedEvent {
		return &OrderConfirmedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, "SalesOrder", uuid.New(), tenantID),
			OrderRef:        orderRef,
			CustomerRef:     "CUST-1",
			WarehouseID:     warehouseID,
			LocationID:      locationID,
			Lines:           []OrderConfirmedLine{{ProductID: productID, Quantity: qty}},
		}
	}

	t.Run("creates and reserves the delivery order", func(t *testing.T) {
		scope := newMemScope()
		scope.store.seedStock(tenantID, productID, warehouseID, locationID, "",
			decimal.NewFromInt(10), decimal.NewFromInt(4), time.Now().Add(-time.Hour))

		svc := NewDeliveryOrderService(scope, testConfig(), testLogger())
		handler := NewOrderConfirmedHandler(svc, testLogger())

		require.NoError(t, handler.Handle(ctx, newEvent("SO-5001", decimal.NewFromInt(6))))

		require.Len(t, scope.store.deliveries, 1)
		for _, do := range scope.store.deliveries {
			assert.Equal(t, document.DeliveryOrderStatusReserved, do.Status)
			assert.Equal(t, "SO-5001", do.OrderRef)
		}
		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		require.NotNil(t, level)
		assert.True(t, level.Reserved.Equal(decimal.NewFromInt(6)), "reserved was %s", level.Reserved)
	})

	t.Run("redelivered event does not duplicate the order or the hold", func(t *testing.T) {
		scope := newMemScope()
		scope.store.seedStock(tenantID, productID, warehouseID, locationID, "",
			decimal.NewFromInt(10), decimal.NewFromInt(4), time.Now().Add(-time.Hour))

		svc := NewDeliveryOrderService(scope, testConfig(), testLogger())
		handler := NewOrderConfirmedHandler(svc, testLogger())

		require.NoError(t, handler.Handle(ctx, newEvent("SO-5002", decimal.NewFromInt(6))))
		require.NoError(t, handler.Handle(ctx, newEvent("SO-5002", decimal.NewFromInt(6))))

		assert.Len(t, scope.store.deliveries, 1)
		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		assert.True(t, level.Reserved.Equal(decimal.NewFromInt(6)))
	})

	t.Run("insufficient stock fails the delivery without leaving an order reserved", func(t *testing.T) {
		scope := newMemScope()
		scope.store.seedStock(tenantID, productID, warehouseID, locationID, "",
			decimal.NewFromInt(2), decimal.NewFromInt(4), time.Now().Add(-time.Hour))

		svc := NewDeliveryOrderService(scope, testConfig(), testLogger())
		handler := NewOrderConfirmedHandler(svc, testLogger())

		err := handler.Handle(ctx, newEvent("SO-5003", decimal.NewFromInt(6)))
		assert.ErrorIs(t, err, shared.ErrInsufficientAvail)

		for _, do := range scope.store.deliveries {
			assert.Equal(t, document.DeliveryOrderStatusCreated, do.Status)
		}
		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		assert.True(t, level.Reserved.IsZero())
	})

	t.Run("rejects an event without an order reference", func(t *testing.T) {
		scope := newMemScope()
		svc := NewDeliveryOrderService(scope, testConfig(), testLogger())
		handler := NewOrderConfirmedHandler(svc, testLogger())

		assert.Error(t, handler.Handle(ctx, newEvent("", decimal.NewFromInt(1))))
		assert.Empty(t, scope.store.deliveries)
	})
}
