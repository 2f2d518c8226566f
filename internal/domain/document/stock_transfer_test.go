package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftTransfer(t *testing.T) *StockTransfer {
	t.Helper()
	st, err := NewStockTransfer(uuid.New(), "TRF-2026-00001", uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	st.ClearDomainEvents()
	return st
}

func TestNewStockTransfer(t *testing.T) {
	t.Run("source and destination must differ", func(t *testing.T) {
		whID := uuid.New()
		locID := uuid.New()
		_, err := NewStockTransfer(uuid.New(), "TRF-2026-00002", whID, locID, whID, locID)
		assert.Error(t, err)
	})

	t.Run("moving between locations of one warehouse is allowed", func(t *testing.T) {
		whID := uuid.New()
		_, err := NewStockTransfer(uuid.New(), "TRF-2026-00003", whID, uuid.New(), whID, uuid.New())
		assert.NoError(t, err)
	})
}

func TestStockTransfer_Lifecycle(t *testing.T) {
	t.Run("cannot dispatch without lines", func(t *testing.T) {
		st := newDraftTransfer(t)
		assert.Error(t, st.Dispatch())
	})

	t.Run("dispatch then receive", func(t *testing.T) {
		st := newDraftTransfer(t)
		_, err := st.AddLine(uuid.New(), decimal.NewFromInt(4), "")
		require.NoError(t, err)

		require.NoError(t, st.Dispatch())
		require.NotNil(t, st.DispatchedAt)
		require.NoError(t, st.Receive())
		assert.True(t, st.IsTerminal())
	})

	t.Run("in-transit stock must be received, not cancelled", func(t *testing.T) {
		st := newDraftTransfer(t)
		_, err := st.AddLine(uuid.New(), decimal.NewFromInt(4), "")
		require.NoError(t, err)
		require.NoError(t, st.Dispatch())

		assert.Error(t, st.Cancel("driver turned back"))
	})

	t.Run("draft transfers can be cancelled", func(t *testing.T) {
		st := newDraftTransfer(t)
		require.NoError(t, st.Cancel("duplicate request"))
		assert.True(t, st.IsTerminal())
		assert.Error(t, st.Dispatch())
	})

	t.Run("lines freeze after dispatch", func(t *testing.T) {
		st := newDraftTransfer(t)
		_, err := st.AddLine(uuid.New(), decimal.NewFromInt(4), "")
		require.NoError(t, err)
		require.NoError(t, st.Dispatch())

		_, err = st.AddLine(uuid.New(), decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}
