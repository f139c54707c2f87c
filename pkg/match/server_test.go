package match

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerRegisterRejectsEmptyAccountAndDuplicate(t *testing.T) {
	server := testServer(t)
	session := server.Sessions.Create("s1")

	_, err := server.Register(session, RegisterRequest{Account: ""})
	require.Error(t, err)

	payload, err := server.Register(session, RegisterRequest{Account: "alice"})
	require.NoError(t, err)
	require.Equal(t, "alice", payload.Account)
	require.Equal(t, "escrow", payload.EscrowAddress)
	require.True(t, payload.TestMode)

	_, err = server.Register(session, RegisterRequest{Account: "alice-again"})
	require.Error(t, err)
}

func TestServerFindMatchPairsTwoSeekersAndStartsRoom(t *testing.T) {
	server := testServer(t)
	a := server.Sessions.Create("a")
	b := server.Sessions.Create("b")
	_, err := server.Register(a, RegisterRequest{Account: "alice"})
	require.NoError(t, err)
	_, err = server.Register(b, RegisterRequest{Account: "bob"})
	require.NoError(t, err)

	start, waiting, err := server.FindMatch(a, FindMatchRequest{GameType: GameTicTacToe, BetAmount: 100, Proof: "proof-a"})
	require.NoError(t, err)
	require.Nil(t, start)
	require.NotNil(t, waiting)

	start, waiting, err = server.FindMatch(b, FindMatchRequest{GameType: GameTicTacToe, BetAmount: 100, Proof: "proof-b"})
	require.NoError(t, err)
	require.Nil(t, waiting)
	require.NotNil(t, start)
	require.NotEmpty(t, start.RoomID)
	require.Equal(t, int64(100), start.BetAmount)

	require.Equal(t, start.RoomID, a.RoomID())
	require.Equal(t, start.RoomID, b.RoomID())

	// Both seats received game_start and an initial game_state.
	ob := <-a.Send
	require.Equal(t, "game_start", ob.Event)
	ob = <-a.Send
	require.Equal(t, "game_state", ob.Event)
}

func TestServerFindMatchRejectsUnregistered(t *testing.T) {
	server := testServer(t)
	session := server.Sessions.Create("s1")
	_, _, err := server.FindMatch(session, FindMatchRequest{GameType: GameChess, BetAmount: 10, Proof: "p"})
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindRegisterFirst, merr.Kind)
}

func TestServerGameActionRejectsWhenNotInARoom(t *testing.T) {
	server := testServer(t)
	session := server.Sessions.Create("s1")
	server.Register(session, RegisterRequest{Account: "alice"})

	err := server.GameAction(session, GameActionRequest{Action: []byte(`{"cell":0}`)})
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindNoRoom, merr.Kind)
}

// TestServerFindMatchRejectsReusedProof pins P4: a proof already
// consumed by one find_match is rejected on a second use, via the
// ledger's durable used-proof table rather than the oracle's own
// bookkeeping.
func TestServerFindMatchRejectsReusedProof(t *testing.T) {
	server := testServer(t)
	a := server.Sessions.Create("a")
	b := server.Sessions.Create("b")
	c := server.Sessions.Create("c")
	require.NoError(t, firstErr(server.Register(a, RegisterRequest{Account: "alice"})))
	require.NoError(t, firstErr(server.Register(b, RegisterRequest{Account: "bob"})))
	require.NoError(t, firstErr(server.Register(c, RegisterRequest{Account: "carol"})))

	_, waiting, err := server.FindMatch(a, FindMatchRequest{GameType: GameTicTacToe, BetAmount: 100, Proof: "proof-reused"})
	require.NoError(t, err)
	require.NotNil(t, waiting)

	_, _, err = server.FindMatch(b, FindMatchRequest{GameType: GameTicTacToe, BetAmount: 100, Proof: "proof-b"})
	require.NoError(t, err)

	_, _, err = server.FindMatch(c, FindMatchRequest{GameType: GameTicTacToe, BetAmount: 100, Proof: "proof-reused"})
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindProofReplay, merr.Kind)
}

func firstErr(_ any, err error) error { return err }

func TestServerGetLobbyReflectsQueueAndOnlineCount(t *testing.T) {
	server := testServer(t)
	a := server.Sessions.Create("a")
	server.Register(a, RegisterRequest{Account: "alice"})
	_, _, err := server.FindMatch(a, FindMatchRequest{GameType: GameGomoku, BetAmount: 25, Proof: "p"})
	require.NoError(t, err)

	lobby := server.GetLobby()
	require.Len(t, lobby.Waiting, 1)
	require.Equal(t, "alice", lobby.Waiting[0].Username)
	require.Equal(t, 1, lobby.OnlineCount)
}
