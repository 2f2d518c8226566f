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
	"github.com/wms/backend/internal/domain/ledger"
)

func TestStockTakeService_Counting(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	t.Run("create snapshots the system quantity per line", func(t *testing.T) {
		scope := newMemScope()
		scope.store.seedStock(tenantID, productID, warehouseID, locationID, "",
			decimal.NewFromInt(12), decimal.NewFromInt(4), time.Now())

		svc := NewStockTakeService(scope, testConfig(), testLogger())
		dto, err := svc.Create(ctx, tenantID, CreateStockTakeRequest{
			WarehouseID: warehouseID,
			Lines:       []StockTakeLineRequest{{ProductID: productID, LocationID: locationID}},
		})
		require.NoError(t, err)
		assert.Equal(t, document.StockTakeStatusDraft.String(), dto.Status)
		require.Len(t, dto.Lines, 1)
		assert.True(t, dto.Lines[0].SystemQuantity.Equal(decimal.NewFromInt(12)))
	})

	t.Run("complete requires every line counted", func(t *testing.T) {
		scope := newMemScope()
		scope.store.seedStock(tenantID, productID, warehouseID, locationID, "",
			decimal.NewFromInt(12), decimal.NewFromInt(4), time.Now())

		svc := NewStockTakeService(scope, testConfig(), testLogger())
		dto, err := svc.Create(ctx, tenantID, CreateStockTakeRequest{
			WarehouseID: warehouseID,
			Lines:       []StockTakeLineRequest{{ProductID: productID, LocationID: locationID}},
		})
		require.NoError(t, err)
		_, err = svc.Start(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		_, err = svc.Complete(ctx, tenantID, dto.ID)
		assert.Error(t, err)
	})
}

func TestStockTakeService_Complete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	warehouseID := uuid.New()
	locationID := uuid.New()
	productID := uuid.New()

	// threshold of 5 units so small variances post without sign-off
	cfg := func() Config {
		c := testConfig()
		c.VarianceApprovalThreshold = decimal.NewFromInt(5)
		return c
	}

	setup := func(t *testing.T, scope *memScope, svc *StockTakeService, counted decimal.Decimal) *StockTakeDTO {
		t.Helper()
		scope.store.seedStock(tenantID, productID, warehouseID, locationID, "",
			decimal.NewFromInt(10), decimal.NewFromInt(4), time.Now())

		dto, err := svc.Create(ctx, tenantID, CreateStockTakeRequest{
			WarehouseID: warehouseID,
			Lines:       []StockTakeLineRequest{{ProductID: productID, LocationID: locationID}},
		})
		require.NoError(t, err)
		_, err = svc.Start(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		_, err = svc.RecordCount(ctx, tenantID, dto.ID, CountRequest{
			LineID:    dto.Lines[0].ID,
			Counted:   counted,
			CountedBy: "annika",
		})
		require.NoError(t, err)
		return dto
	}

	t.Run("shrinkage posts an outbound correction", func(t *testing.T) {
		scope := newMemScope()
		svc := NewStockTakeService(scope, cfg(), testLogger())
		dto := setup(t, scope, svc, decimal.NewFromInt(8))

		completed, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, document.StockTakeStatusCompleted.String(), completed.Status)

		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(8)))

		require.Len(t, scope.store.moves, 1)
		move := scope.store.moves[0]
		assert.Equal(t, ledger.LocationKindInternal, move.Source.Kind)
		assert.Equal(t, ledger.LocationKindAdjustment, move.Destination.Kind)
		assert.True(t, move.Quantity.Equal(decimal.NewFromInt(2)))

		require.Len(t, scope.store.adjustments, 1)
		assert.True(t, scope.store.hasEvent(document.EventTypeStockTakeCompleted))
		assert.True(t, scope.store.hasEvent(document.EventTypeAdjustmentRecorded))
	})

	t.Run("surplus posts inbound at the current unit cost", func(t *testing.T) {
		scope := newMemScope()
		svc := NewStockTakeService(scope, cfg(), testLogger())
		dto := setup(t, scope, svc, decimal.NewFromInt(13))

		_, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(13)))

		require.Len(t, scope.store.moves, 1)
		move := scope.store.moves[0]
		assert.Equal(t, ledger.LocationKindAdjustment, move.Source.Kind)
		assert.Equal(t, ledger.LocationKindInternal, move.Destination.Kind)
		assert.True(t, move.Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, move.UnitCost.Equal(decimal.NewFromInt(4)))
	})

	t.Run("variance beyond the threshold needs approval first", func(t *testing.T) {
		scope := newMemScope()
		svc := NewStockTakeService(scope, cfg(), testLogger())
		dto := setup(t, scope, svc, decimal.NewFromInt(2))

		_, err := svc.Complete(ctx, tenantID, dto.ID)
		require.Error(t, err)
		assert.Empty(t, scope.store.moves)

		_, err = svc.Approve(ctx, tenantID, dto.ID, ApproveRequest{ApprovedBy: "warehouse-manager"})
		require.NoError(t, err)

		completed, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, document.StockTakeStatusCompleted.String(), completed.Status)
		require.Len(t, scope.store.moves, 1)
		assert.True(t, scope.store.moves[0].Quantity.Equal(decimal.NewFromInt(8)))
	})

	t.Run("zero variance completes without corrections", func(t *testing.T) {
		scope := newMemScope()
		svc := NewStockTakeService(scope, cfg(), testLogger())
		dto := setup(t, scope, svc, decimal.NewFromInt(10))

		completed, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.Equal(t, document.StockTakeStatusCompleted.String(), completed.Status)
		assert.Empty(t, scope.store.moves)
		assert.Empty(t, scope.store.adjustments)
		assert.True(t, scope.store.hasEvent(document.EventTypeStockTakeCompleted))
	})

	t.Run("complete replay does not repost corrections", func(t *testing.T) {
		scope := newMemScope()
		svc := NewStockTakeService(scope, cfg(), testLogger())
		dto := setup(t, scope, svc, decimal.NewFromInt(9))

		_, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)

		replay, err := svc.Complete(ctx, tenantID, dto.ID)
		require.NoError(t, err)
		assert.True(t, replay.Replayed)
		assert.Len(t, scope.store.moves, 1)
		assert.Len(t, scope.store.adjustments, 1)

		level := scope.store.levels[levelKey(tenantID, bucketOf(productID, warehouseID, locationID, ""))]
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(9)))
	})
}
