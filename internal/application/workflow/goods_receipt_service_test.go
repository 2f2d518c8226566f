package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/document"
	"github.com/wms/backend/internal/domain/ledger"
	"github.com/wms/backend/internal/domain/numbering"
	"github.com/wms/backend/internal/domain/valuation"
)

func TestGoodsReceiptService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	t.Run("creates draft receipt with allocated number", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		dto, err := svc.Create(ctx, tenantID, CreateGoodsReceiptRequest{
			SupplierRef: "PO-1001",
			WarehouseID: warehouseID,
			LocationID:  locationID,
			Lines: []GoodsReceiptLineRequest{
				{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromFloat(2.5)},
			},
		})
		require.NoError(t, err)

		period := numbering.PeriodFor(time.Now())
		assert.Equal(t, fmt.Sprintf("GRN-%s-00001", period), dto.ReceiptNumber)
		assert.Equal(t, document.GoodsReceiptStatusDraft.String(), dto.Status)
		assert.Len(t, dto.Lines, 1)
		assert.False(t, dto.Replayed)
	})

	t.Run("allocates sequential numbers per tenant", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		req := CreateGoodsReceiptRequest{
			WarehouseID: warehouseID,
			LocationID:  locationID,
			Lines:       []GoodsReceiptLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)}},
		}
		first, err := svc.Create(ctx, tenantID, req)
		require.NoError(t, err)
		second, err := svc.Create(ctx, tenantID, req)
		require.NoError(t, err)
		other, err := svc.Create(ctx, uuid.New(), req)
		require.NoError(t, err)

		period := numbering.PeriodFor(time.Now())
		assert.Equal(t, fmt.Sprintf("GRN-%s-00001", period), first.ReceiptNumber)
		assert.Equal(t, fmt.Sprintf("GRN-%s-00002", period), second.ReceiptNumber)
		assert.Equal(t, fmt.Sprintf("GRN-%s-00001", period), other.ReceiptNumber)
	})

	t.Run("replays creation for the same idempotency key", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		req := CreateGoodsReceiptRequest{
			IdempotencyKey: "client-key-7",
			WarehouseID:    warehouseID,
			LocationID:     locationID,
			Lines:          []GoodsReceiptLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(3)}},
		}
		first, err := svc.Create(ctx, tenantID, req)
		require.NoError(t, err)

		replay, err := svc.Create(ctx, tenantID, req)
		require.NoError(t, err)
		assert.True(t, replay.Replayed)
		assert.Equal(t, first.ID, replay.ID)
		assert.Equal(t, first.ReceiptNumber, replay.ReceiptNumber)
		assert.Len(t, scope.store.receipts, 1)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		_, err := svc.Create(ctx, tenantID, CreateGoodsReceiptRequest{
			WarehouseID: warehouseID,
			LocationID:  locationID,
			Lines:       []GoodsReceiptLineRequest{{ProductID: productID, Quantity: decimal.Zero, UnitCost: decimal.NewFromInt(1)}},
		})
		assert.Error(t, err)
		assert.Empty(t, scope.store.receipts)
	})
}

func TestGoodsReceiptService_Complete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	create := func(t *testing.T, svc *GoodsReceiptService, lines []GoodsReceiptLineRequest) *GoodsReceiptDTO {
		t.Helper()
		dto, err := svc.Create(ctx, tenantID, CreateGoodsReceiptRequest{
			SupplierRef: "PO-2002",
			WarehouseID: warehouseID,
			LocationID:  locationID,
			Lines:       lines,
		})
		require.NoError(t, err)
		return dto
	}

	t.Run("posts ledger, level and valuation effects", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		dto := create(t, svc, []GoodsReceiptLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromFloat(2.5), LotRef: "LOT-A"},
		})

		_, err := svc.Confirm(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		completed, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, document.GoodsReceiptStatusCompleted.String(), completed.Status)
		require.NotNil(t, completed.CompletedAt)

		require.Len(t, scope.store.moves, 1)
		move := scope.store.moves[0]
		assert.Equal(t, ledger.LocationKindSupplier, move.Source.Kind)
		assert.Equal(t, ledger.LocationKindInternal, move.Destination.Kind)
		assert.Equal(t, warehouseID, move.Destination.WarehouseID)
		assert.True(t, move.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, move.UnitCost.Equal(decimal.NewFromFloat(2.5)))
		assert.Equal(t, document.DocumentTypeGoodsReceipt.String(), move.Document.DocumentType)
		assert.Equal(t, dto.ReceiptNumber, move.Document.DocumentNumber)

		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, "LOT-A"))]
		require.NotNil(t, level)
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)))
		assert.True(t, level.Reserved.IsZero())

		require.Len(t, scope.store.layers, 1)
		layer := scope.store.layers[0]
		assert.True(t, layer.RemainingQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, layer.UnitCost.Equal(decimal.NewFromFloat(2.5)))

		assert.True(t, scope.store.hasEvent(document.EventTypeGoodsReceiptCompleted))
	})

	t.Run("replay does not double post", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		dto := create(t, svc, []GoodsReceiptLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(8)},
		})
		_, err := svc.Confirm(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		_, err = svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		replay, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.True(t, replay.Replayed)
		assert.Equal(t, document.GoodsReceiptStatusCompleted.String(), replay.Status)
		assert.Len(t, scope.store.moves, 1)
		assert.Len(t, scope.store.layers, 1)

		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		require.NotNil(t, level)
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(4)))
	})

	t.Run("cannot complete a draft receipt", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		dto := create(t, svc, []GoodsReceiptLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1)},
		})

		_, err := svc.Complete(ctx, tenantID, dto.ID)
		assert.Error(t, err)
		assert.Empty(t, scope.store.moves)
	})

	t.Run("avco blends a second receipt into one layer", func(t *testing.T) {
		scope := newMemScope()
		cfg := testConfig()
		cfg.DefaultCostMethod = valuation.CostMethodAVCO
		svc := NewGoodsReceiptService(scope, cfg, testLogger())

		first := create(t, svc, []GoodsReceiptLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(10)},
		})
		_, err := svc.Confirm(ctx, tenantID, first.ID)
		require.NoError(t, err)
		_, err = svc.Complete(ctx, tenantID, first.ID)
		require.NoError(t, err)

		second := create(t, svc, []GoodsReceiptLineRequest{
			{ProductID: productID, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(20)},
		})
		_, err = svc.Confirm(ctx, tenantID, second.ID)
		require.NoError(t, err)
		_, err = svc.Complete(ctx, tenantID, second.ID)
		require.NoError(t, err)

		require.Len(t, scope.store.layers, 1)
		layer := scope.store.layers[0]
		assert.True(t, layer.RemainingQuantity.Equal(decimal.NewFromInt(20)))
		assert.True(t, layer.UnitCost.Equal(decimal.NewFromInt(15)), "blended cost was %s", layer.UnitCost)
	})
}

func TestGoodsReceiptService_Cancel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("cancels a confirmed receipt without ledger effects", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		dto, err := svc.Create(ctx, tenantID, CreateGoodsReceiptRequest{
			WarehouseID: uuid.New(),
			LocationID:  uuid.New(),
			Lines:       []GoodsReceiptLineRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		cancelled, err := svc.Cancel(ctx, tenantID, dto.ID, "supplier shipment lost")
		require.NoError(t, err)
		assert.Equal(t, document.GoodsReceiptStatusCancelled.String(), cancelled.Status)
		assert.Empty(t, scope.store.moves)
		assert.True(t, scope.store.hasEvent(document.EventTypeGoodsReceiptCancelled))
	})

	t.Run("completed receipts are immutable", func(t *testing.T) {
		scope := newMemScope()
		svc := NewGoodsReceiptService(scope, testConfig(), testLogger())

		dto, err := svc.Create(ctx, tenantID, CreateGoodsReceiptRequest{
			WarehouseID: uuid.New(),
			LocationID:  uuid.New(),
			Lines:       []GoodsReceiptLineRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(2), UnitCost: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		_, err = svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, tenantID, dto.ID, "too late")
		assert.Error(t, err)
	})
}
