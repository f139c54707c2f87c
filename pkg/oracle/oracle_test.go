package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestOracleRejectsReplay(t *testing.T) {
	o := NewTestOracle()
	ctx := context.Background()

	_, err := o.VerifyInbound(ctx, "proof-1", 100)
	require.NoError(t, err)

	_, err = o.VerifyInbound(ctx, "proof-1", 100)
	require.Error(t, err)
}

func TestTestOracleSendAlwaysSucceeds(t *testing.T) {
	o := NewTestOracle()
	res, err := o.SendOutbound(context.Background(), "dest", 50)
	require.NoError(t, err)
	require.NotEmpty(t, res.Ref)
}
