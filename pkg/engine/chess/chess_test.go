package chess

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vctt94/matcharena/pkg/engine"
)

func clearBoard(e *Engine) {
	for i := range e.board {
		e.board[i] = Empty
	}
	e.rights = castleRights{true, true, true, true}
	e.enPassant = -1
}

func TestCastleDeniedThroughAttackedSquare(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	clearBoard(e)
	e.current = 0

	e.board[sq(0, 4)] = King               // white king e1
	e.board[sq(0, 7)] = Rook               // white rook h1
	e.board[sq(0, 0)] = Rook               // white rook a1
	e.board[sq(7, 5)] = -Rook              // black rook f8, attacks f1
	e.board[sq(7, 4)] = -King              // black king e8, to keep the position sane

	_, err := e.Apply(0, Action{From: sq(0, 4), To: sq(0, 6)}) // O-O
	require.Error(t, err)
}

func TestCastleAllowedWhenSafe(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	clearBoard(e)
	e.current = 0

	e.board[sq(0, 4)] = King
	e.board[sq(0, 7)] = Rook
	e.board[sq(7, 4)] = -King

	o, err := e.Apply(0, Action{From: sq(0, 4), To: sq(0, 6)})
	require.NoError(t, err)
	require.False(t, o.GameOver)
	require.Equal(t, Rook, e.board[sq(0, 5)])
	require.Equal(t, King, e.board[sq(0, 6)])
	require.Equal(t, Empty, e.board[sq(0, 7)])
}

func TestQueensideCastleDeniedThroughAttackedSquare(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	clearBoard(e)
	e.current = 0

	e.board[sq(0, 4)] = King   // white king e1
	e.board[sq(0, 0)] = Rook   // white rook a1
	e.board[sq(7, 3)] = -Rook  // black rook d8, attacks d1 (the king's path, not b1)
	e.board[sq(7, 4)] = -King  // black king e8

	_, err := e.Apply(0, Action{From: sq(0, 4), To: sq(0, 2)}) // O-O-O
	require.Error(t, err)
}

func TestQueensideCastleAllowedWithOnlyRookPathSquareAttacked(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	clearBoard(e)
	e.current = 0

	e.board[sq(0, 4)] = King   // white king e1
	e.board[sq(0, 0)] = Rook   // white rook a1
	e.board[sq(7, 1)] = -Rook  // black rook b8, attacks b1 — on the rook's path, not the king's
	e.board[sq(7, 4)] = -King  // black king e8

	o, err := e.Apply(0, Action{From: sq(0, 4), To: sq(0, 2)}) // O-O-O
	require.NoError(t, err)
	require.False(t, o.GameOver)
	require.Equal(t, Rook, e.board[sq(0, 3)])
	require.Equal(t, King, e.board[sq(0, 2)])
	require.Equal(t, Empty, e.board[sq(0, 0)])
}

func TestEnPassantCapture(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	clearBoard(e)
	e.current = 1

	e.board[sq(0, 4)] = King
	e.board[sq(7, 4)] = -King
	e.board[sq(4, 3)] = Pawn   // white pawn on d5
	e.board[sq(6, 4)] = -Pawn  // black pawn on e7

	// Black advances e7-e5 two squares, setting the en passant target.
	_, err := e.Apply(1, Action{From: sq(6, 4), To: sq(4, 4)})
	require.NoError(t, err)
	require.Equal(t, sq(5, 4), e.enPassant)

	// White captures en passant: d5xe6.
	_, err = e.Apply(0, Action{From: sq(4, 3), To: sq(5, 4)})
	require.NoError(t, err)
	require.Equal(t, Empty, e.board[sq(4, 4)])
	require.Equal(t, Pawn, e.board[sq(5, 4)])
}

func TestNoMoveAfterResign(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	e.current = 0
	o, err := e.Apply(0, Action{Resign: true})
	require.NoError(t, err)
	require.True(t, o.GameOver)
	require.Equal(t, 1, o.Winner)
	require.True(t, e.IsOver())

	_, err = e.Apply(1, Action{From: sq(6, 4), To: sq(5, 4)})
	var rej *engine.Reject
	require.ErrorAs(t, err, &rej)
	require.Equal(t, engine.RejectGameOver, rej.Kind)
}
