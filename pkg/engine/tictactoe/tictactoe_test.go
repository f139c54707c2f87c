package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImmediateWin(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(Options{GridSize: 3}))
	e.current = 0 // force seating for a deterministic scenario

	moves := []struct {
		seat, cell int
	}{
		{0, 0}, {1, 3}, {0, 1}, {1, 4}, {0, 2},
	}
	var out = struct {
		GameOver bool
		Winner   int
	}{}
	for i, m := range moves {
		o, err := e.Apply(m.seat, Action{Cell: m.cell})
		require.NoError(t, err, "move %d", i)
		out.GameOver = o.GameOver
		out.Winner = o.Winner
	}
	require.True(t, out.GameOver)
	require.Equal(t, 0, out.Winner)
}

func TestRejectOccupiedAndOutOfTurn(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(Options{GridSize: 3}))
	e.current = 0

	_, err := e.Apply(1, Action{Cell: 0})
	require.Error(t, err)

	_, err = e.Apply(0, Action{Cell: 0})
	require.NoError(t, err)
	_, err = e.Apply(1, Action{Cell: 0})
	require.Error(t, err)
}

func TestDrawWhenBoardFull(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(Options{GridSize: 3}))
	e.current = 0
	// A known drawn sequence on a 3x3 board.
	seq := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}
	var lastOut = struct {
		GameOver, Draw bool
	}{}
	for i, cell := range seq {
		seat := i % 2
		o, err := e.Apply(seat, Action{Cell: cell})
		require.NoError(t, err)
		lastOut.GameOver = o.GameOver
		lastOut.Draw = o.Draw
	}
	require.True(t, lastOut.GameOver)
	require.True(t, lastOut.Draw)
}

func TestNoMovesAfterGameOver(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(Options{GridSize: 3}))
	e.current = 0
	for _, m := range []struct{ seat, cell int }{
		{0, 0}, {1, 3}, {0, 1}, {1, 4}, {0, 2},
	} {
		_, err := e.Apply(m.seat, Action{Cell: m.cell})
		require.NoError(t, err)
	}
	require.True(t, e.IsOver())
	_, err := e.Apply(1, Action{Cell: 5})
	require.Error(t, err)
}
