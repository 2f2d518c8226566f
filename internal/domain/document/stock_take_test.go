package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedTake(t *testing.T, systemQty decimal.Decimal) (*StockTake, *StockTakeLine) {
	t.Helper()
	st, err := NewStockTake(uuid.New(), "ST-2026-00001", uuid.New())
	require.NoError(t, err)
	line, err := st.AddLine(uuid.New(), uuid.New(), "", systemQty)
	require.NoError(t, err)
	require.NoError(t, st.Start())
	st.ClearDomainEvents()
	return st, line
}

func TestStockTake_RecordCount(t *testing.T) {
	t.Run("counting only while in progress", func(t *testing.T) {
		st, err := NewStockTake(uuid.New(), "ST-2026-00002", uuid.New())
		require.NoError(t, err)
		line, err := st.AddLine(uuid.New(), uuid.New(), "", decimal.NewFromInt(5))
		require.NoError(t, err)

		assert.Error(t, st.RecordCount(line.ID, decimal.NewFromInt(5), "counter"))
	})

	t.Run("variance is counted minus system", func(t *testing.T) {
		st, line := newStartedTake(t, decimal.NewFromInt(10))
		require.NoError(t, st.RecordCount(line.ID, decimal.NewFromInt(7), "counter"))

		recorded := st.Lines[0]
		assert.True(t, recorded.IsCounted())
		assert.True(t, recorded.Variance().Equal(decimal.NewFromInt(-3)))
		assert.True(t, recorded.HasVariance())
	})

	t.Run("negative counts are rejected", func(t *testing.T) {
		st, line := newStartedTake(t, decimal.NewFromInt(10))
		assert.Error(t, st.RecordCount(line.ID, decimal.NewFromInt(-1), "counter"))
	})
}

func TestStockTake_Complete(t *testing.T) {
	t.Run("requires every line counted", func(t *testing.T) {
		st, _ := newStartedTake(t, decimal.NewFromInt(10))
		assert.Error(t, st.Complete(decimal.NewFromInt(100)))
	})

	t.Run("variance above the threshold requires approval", func(t *testing.T) {
		st, line := newStartedTake(t, decimal.NewFromInt(10))
		require.NoError(t, st.RecordCount(line.ID, decimal.NewFromInt(2), "counter"))

		assert.True(t, st.RequiresApproval(decimal.NewFromInt(5)))
		assert.Error(t, st.Complete(decimal.NewFromInt(5)))

		require.NoError(t, st.Approve("manager"))
		require.NoError(t, st.Complete(decimal.NewFromInt(5)))
		assert.Equal(t, StockTakeStatusCompleted, st.Status)
	})

	t.Run("variance within the threshold completes unattended", func(t *testing.T) {
		st, line := newStartedTake(t, decimal.NewFromInt(10))
		require.NoError(t, st.RecordCount(line.ID, decimal.NewFromInt(8), "counter"))

		assert.False(t, st.RequiresApproval(decimal.NewFromInt(5)))
		require.NoError(t, st.Complete(decimal.NewFromInt(5)))
	})

	t.Run("a zero threshold gates any variance", func(t *testing.T) {
		st, line := newStartedTake(t, decimal.NewFromInt(10))
		require.NoError(t, st.RecordCount(line.ID, decimal.NewFromInt(9), "counter"))

		assert.True(t, st.RequiresApproval(decimal.Zero))
		assert.Error(t, st.Complete(decimal.Zero))
	})

	t.Run("variance lines excludes clean counts", func(t *testing.T) {
		st, err := NewStockTake(uuid.New(), "ST-2026-00003", uuid.New())
		require.NoError(t, err)
		clean, err := st.AddLine(uuid.New(), uuid.New(), "", decimal.NewFromInt(5))
		require.NoError(t, err)
		short, err := st.AddLine(uuid.New(), uuid.New(), "", decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, st.Start())

		require.NoError(t, st.RecordCount(clean.ID, decimal.NewFromInt(5), "counter"))
		require.NoError(t, st.RecordCount(short.ID, decimal.NewFromInt(3), "counter"))

		lines := st.VarianceLines()
		require.Len(t, lines, 1)
		assert.Equal(t, short.ID, lines[0].ID)
	})
}
