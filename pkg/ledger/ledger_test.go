package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestBalanceRoundTrip(t *testing.T) {
	l := openTestLedger(t)

	bal, err := l.GetBalance("alice")
	require.NoError(t, err)
	require.Equal(t, int64(0), bal)

	require.NoError(t, l.AdjustBalance("alice", 100))
	require.NoError(t, l.AdjustBalance("alice", -30))

	bal, err = l.GetBalance("alice")
	require.NoError(t, err)
	require.Equal(t, int64(70), bal)
}

func TestProofUsedOnlyOnce(t *testing.T) {
	l := openTestLedger(t)

	used, err := l.IsProofUsed("proof-1")
	require.NoError(t, err)
	require.False(t, used)

	require.NoError(t, l.MarkProofUsed("proof-1"))

	used, err = l.IsProofUsed("proof-1")
	require.NoError(t, err)
	require.True(t, used)

	require.Error(t, l.MarkProofUsed("proof-1"))
}
