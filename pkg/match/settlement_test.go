package match

import (
	"context"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/require"
	"github.com/vctt94/matcharena/pkg/oracle"
)

// spyOracle records every outbound transfer instead of just reporting
// success, so settlement tests can assert exact destinations/amounts.
type spyOracle struct {
	sent []spySend
}

type spySend struct {
	destination string
	amount      int64
}

var _ oracle.Oracle = (*spyOracle)(nil)

func (o *spyOracle) VerifyInbound(ctx context.Context, proofRef string, expectedAmount int64) (oracle.VerifyResult, error) {
	return oracle.VerifyResult{Received: expectedAmount}, nil
}

func (o *spyOracle) SendOutbound(ctx context.Context, destination string, amount int64) (oracle.SendResult, error) {
	o.sent = append(o.sent, spySend{destination: destination, amount: amount})
	return oracle.SendResult{Ref: "spy"}, nil
}

// Numbers pinned to spec's scenario 9 (mid-game disconnect): with
// stake=100, payout=190 (1.90*stake) and house receives 10 (0.10*stake).
func TestSettleWinnerTakesPotMinusHouseCut(t *testing.T) {
	o := &spyOracle{}
	out := settle(context.Background(), slog.Disabled, o, "house", 100, 0, false, [2]string{"alice", "bob"})

	require.Equal(t, int64(200), out.Pot)
	require.Equal(t, int64(10), out.HouseCut)
	require.Equal(t, int64(190), out.Payout)
	require.ElementsMatch(t, []spySend{
		{destination: "alice", amount: 190},
		{destination: "house", amount: 10},
	}, o.sent)
}

func TestSettleDrawRefundsBothStakes(t *testing.T) {
	o := &spyOracle{}
	out := settle(context.Background(), slog.Disabled, o, "house", 100, -1, true, [2]string{"alice", "bob"})

	require.Equal(t, int64(190), out.Payout)
	require.ElementsMatch(t, []spySend{
		{destination: "alice", amount: 100},
		{destination: "bob", amount: 100},
	}, o.sent)
}

func TestSettleCancelRefundsBothStakesEvenWithoutDrawFlag(t *testing.T) {
	o := &spyOracle{}
	settle(context.Background(), slog.Disabled, o, "house", 50, -1, false, [2]string{"alice", "bob"})

	require.ElementsMatch(t, []spySend{
		{destination: "alice", amount: 50},
		{destination: "bob", amount: 50},
	}, o.sent)
}

func TestSettleSkipsEmptyAccounts(t *testing.T) {
	o := &spyOracle{}
	settle(context.Background(), slog.Disabled, o, "", 100, 0, false, [2]string{"alice", ""})

	require.ElementsMatch(t, []spySend{
		{destination: "alice", amount: 190},
	}, o.sent)
}
