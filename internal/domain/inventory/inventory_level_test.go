package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/shared"
)

func newTestLevel(t *testing.T) *InventoryLevel {
	t.Helper()
	level, err := NewInventoryLevel(uuid.New(), Bucket{
		ProductID:   uuid.New(),
		WarehouseID: uuid.New(),
		LocationID:  uuid.New(),
	})
	require.NoError(t, err)
	return level
}

func TestNewInventoryLevel(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		level := newTestLevel(t)
		assert.True(t, level.OnHand.IsZero())
		assert.True(t, level.Reserved.IsZero())
		assert.True(t, level.Available().IsZero())
	})

	t.Run("rejects a partial bucket", func(t *testing.T) {
		_, err := NewInventoryLevel(uuid.New(), Bucket{ProductID: uuid.New()})
		assert.Error(t, err)
	})
}

func TestInventoryLevel_Reservations(t *testing.T) {
	t.Run("reserve holds available stock", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))

		require.NoError(t, level.Reserve(decimal.NewFromInt(6)))
		assert.True(t, level.Available().Equal(decimal.NewFromInt(4)))

		err := level.Reserve(decimal.NewFromInt(5))
		assert.ErrorIs(t, err, shared.ErrInsufficientAvail)
	})

	t.Run("release returns the hold", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))
		require.NoError(t, level.Reserve(decimal.NewFromInt(6)))

		require.NoError(t, level.Release(decimal.NewFromInt(6)))
		assert.True(t, level.Available().Equal(decimal.NewFromInt(10)))
	})

	t.Run("cannot release more than reserved", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))
		require.NoError(t, level.Reserve(decimal.NewFromInt(2)))

		assert.Error(t, level.Release(decimal.NewFromInt(3)))
	})
}

func TestInventoryLevel_ApplyOutbound(t *testing.T) {
	t.Run("fulfillment consumes the reservation", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))
		require.NoError(t, level.Reserve(decimal.NewFromInt(6)))

		require.NoError(t, level.ApplyOutbound(decimal.NewFromInt(6), true))
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(4)))
		assert.True(t, level.Reserved.IsZero())
	})

	t.Run("fulfillment without a matching hold fails", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))

		assert.Error(t, level.ApplyOutbound(decimal.NewFromInt(3), true))
	})

	t.Run("unreserved outbound respects existing holds", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))
		require.NoError(t, level.Reserve(decimal.NewFromInt(8)))

		err := level.ApplyOutbound(decimal.NewFromInt(3), false)
		assert.ErrorIs(t, err, shared.ErrInsufficientAvail)
	})

	t.Run("on hand can never go negative", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(2)))

		err := level.ApplyOutbound(decimal.NewFromInt(3), false)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("dropping under the threshold emits a low stock event", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))
		require.NoError(t, level.SetMinQuantity(decimal.NewFromInt(5)))

		require.NoError(t, level.ApplyOutbound(decimal.NewFromInt(6), false))
		events := level.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeLevelBelowMinimum, events[0].EventType())
	})

	t.Run("no event while on hand stays at or above the threshold", func(t *testing.T) {
		level := newTestLevel(t)
		require.NoError(t, level.ApplyInbound(decimal.NewFromInt(10)))
		require.NoError(t, level.SetMinQuantity(decimal.NewFromInt(5)))

		require.NoError(t, level.ApplyOutbound(decimal.NewFromInt(5), false))
		assert.Empty(t, level.GetDomainEvents())
	})
}
