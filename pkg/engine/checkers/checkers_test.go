package checkers

import (
	"testing"

	"github.com/vctt94/matcharena/pkg/engine"

	"github.com/stretchr/testify/require"
)

func TestMandatoryCaptureRejectsQuietMove(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	for i := range e.board {
		e.board[i] = Empty
	}
	e.current = 0
	// Seat 0 man at (2,1) can jump a seat-1 man at (3,2) landing (4,3).
	e.board[sq(2, 1)] = Seat0Man
	e.board[sq(3, 2)] = Seat1Man
	// A second seat-1 man elsewhere so seat 1 still has a legal reply.
	e.board[sq(5, 4)] = Seat1Man

	// A legal-looking quiet move elsewhere is rejected: capture is
	// mandatory when available.
	e.board[sq(0, 1)] = Seat0Man
	_, err := e.Apply(0, Action{From: sq(0, 1), To: sq(1, 2)})
	require.Error(t, err)
	var rej *engine.Reject
	require.ErrorAs(t, err, &rej)
	require.Equal(t, engine.RejectMustCapture, rej.Kind)
}

func TestMultiJumpMustContinueFromLanding(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	for i := range e.board {
		e.board[i] = Empty
	}
	e.current = 0
	e.board[sq(2, 1)] = Seat0Man
	e.board[sq(3, 2)] = Seat1Man
	e.board[sq(5, 4)] = Seat1Man // second capture available from (4,3)

	o, err := e.Apply(0, Action{From: sq(2, 1), To: sq(4, 3)})
	require.NoError(t, err)
	require.True(t, o.ExtraTurn)
	require.Equal(t, sq(4, 3), e.mustJumpFrom)

	// Any move not starting from the landing square is rejected.
	e.board[sq(0, 1)] = Seat0Man
	_, err = e.Apply(0, Action{From: sq(0, 1), To: sq(1, 2)})
	require.Error(t, err)

	o2, err := e.Apply(0, Action{From: sq(4, 3), To: sq(6, 5)})
	require.NoError(t, err)
	require.Equal(t, -1, e.mustJumpFrom)
	_ = o2
}
