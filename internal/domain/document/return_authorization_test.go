package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestedReturn(t *testing.T) (*ReturnAuthorization, *ReturnAuthorizationLine) {
	t.Helper()
	rma, err := NewReturnAuthorization(uuid.New(), "RMA-2026-00001", "CUST-1", "DO-2026-00007", uuid.New(), uuid.New())
	require.NoError(t, err)
	line, err := rma.AddLine(uuid.New(), decimal.NewFromInt(2), decimal.NewFromInt(9), "", "wrong size")
	require.NoError(t, err)
	rma.ClearDomainEvents()
	return rma, line
}

func TestReturnDisposition(t *testing.T) {
	assert.Equal(t, "RESTOCK", ReturnDispositionRestock.String())
	assert.Equal(t, "QUARANTINE", ReturnDispositionQuarantine.String())
	assert.Equal(t, "SCRAP", ReturnDispositionScrap.String())
	assert.True(t, ReturnDispositionScrap.IsValid())
	assert.False(t, ReturnDisposition("DESTROY").IsValid())
}

func TestReturnAuthorization_Approve(t *testing.T) {
	t.Run("lines default to quarantine", func(t *testing.T) {
		rma, line := newRequestedReturn(t)
		assert.Equal(t, ReturnDispositionQuarantine, line.Disposition)

		require.NoError(t, rma.Approve("support-agent", nil))
		assert.Equal(t, ReturnAuthorizationStatusApproved, rma.Status)
		assert.Equal(t, ReturnDispositionQuarantine, rma.Lines[0].Disposition)
	})

	t.Run("dispositions override per line", func(t *testing.T) {
		rma, line := newRequestedReturn(t)
		require.NoError(t, rma.Approve("support-agent", map[uuid.UUID]ReturnDisposition{
			line.ID: ReturnDispositionRestock,
		}))
		assert.Equal(t, ReturnDispositionRestock, rma.Lines[0].Disposition)
		require.Len(t, rma.RestockLines(), 1)
	})

	t.Run("rejects an unknown disposition", func(t *testing.T) {
		rma, line := newRequestedReturn(t)
		err := rma.Approve("support-agent", map[uuid.UUID]ReturnDisposition{
			line.ID: ReturnDisposition("DESTROY"),
		})
		assert.Error(t, err)
		assert.Equal(t, ReturnAuthorizationStatusRequested, rma.Status)
	})

	t.Run("requires an approver and at least one line", func(t *testing.T) {
		rma, _ := newRequestedReturn(t)
		assert.Error(t, rma.Approve("", nil))

		empty, err := NewReturnAuthorization(uuid.New(), "RMA-2026-00002", "", "", uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.Error(t, empty.Approve("support-agent", nil))
	})
}

func TestReturnAuthorization_Lifecycle(t *testing.T) {
	t.Run("receive only after approval", func(t *testing.T) {
		rma, _ := newRequestedReturn(t)
		assert.Error(t, rma.Receive())

		require.NoError(t, rma.Approve("support-agent", nil))
		require.NoError(t, rma.Receive())
		assert.True(t, rma.IsTerminal())
	})

	t.Run("rejection is terminal", func(t *testing.T) {
		rma, _ := newRequestedReturn(t)
		require.NoError(t, rma.Reject("outside the return window"))
		assert.True(t, rma.IsTerminal())
		assert.Error(t, rma.Receive())
		assert.Error(t, rma.Cancel("late cancel"))
	})

	t.Run("approved returns can still be cancelled", func(t *testing.T) {
		rma, _ := newRequestedReturn(t)
		require.NoError(t, rma.Approve("support-agent", nil))
		require.NoError(t, rma.Cancel("customer kept the item"))
		assert.Equal(t, ReturnAuthorizationStatusCancelled, rma.Status)
	})

	t.Run("lines freeze after approval", func(t *testing.T) {
		rma, _ := newRequestedReturn(t)
		require.NoError(t, rma.Approve("support-agent", nil))
		_, err := rma.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(1), "", "changed mind")
		assert.Error(t, err)
	})
}
