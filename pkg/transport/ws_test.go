package transport

import (
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/require"
	"github.com/vctt94/matcharena/pkg/ledger"
	"github.com/vctt94/matcharena/pkg/match"
	"github.com/vctt94/matcharena/pkg/oracle"
)

func testTransport(t *testing.T) (*Transport, *match.Session) {
	t.Helper()
	lg, err := ledger.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { lg.Close() })
	server := match.NewServer(lg, oracle.NewTestOracle(), "house", "escrow", true, slog.Disabled)
	tr := New(server, "escrow", slog.Disabled)
	session := server.Sessions.Create("sess1")
	return tr, session
}

func TestDispatchRegisterEmitsRegistered(t *testing.T) {
	tr, session := testTransport(t)
	tr.dispatch(session, envelope{Event: "register", Payload: []byte(`{"account":"alice"}`)})

	ob := <-session.Send
	require.Equal(t, "registered", ob.Event)
	payload := ob.Payload.(match.RegisteredPayload)
	require.Equal(t, "alice", payload.Account)
}

func TestDispatchMalformedPayloadSendsErrorMsg(t *testing.T) {
	tr, session := testTransport(t)
	tr.dispatch(session, envelope{Event: "register", Payload: []byte(`not json`)})

	ob := <-session.Send
	require.Equal(t, "error_msg", ob.Event)
}

func TestDispatchUnknownEventSendsErrorMsg(t *testing.T) {
	tr, session := testTransport(t)
	tr.dispatch(session, envelope{Event: "nonsense"})

	ob := <-session.Send
	require.Equal(t, "error_msg", ob.Event)
	payload := ob.Payload.(match.ErrorMsgPayload)
	require.Contains(t, payload.Msg, "invalid-action")
}

func TestDispatchGetLobbyBeforeRegisterWorks(t *testing.T) {
	tr, session := testTransport(t)
	tr.dispatch(session, envelope{Event: "get_lobby"})

	ob := <-session.Send
	require.Equal(t, "lobby_update", ob.Event)
	payload := ob.Payload.(match.LobbyUpdatePayload)
	require.Equal(t, 1, payload.OnlineCount)
}
