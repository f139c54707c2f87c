package gomoku

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func cell(row, col int) int { return row*Size + col }

func TestDiagonalWinLengthFive(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	e.current = 0

	seat0Cells := []int{cell(7, 7), cell(8, 8), cell(9, 9), cell(10, 10), cell(11, 11)}
	seat1Cells := []int{cell(0, 0), cell(0, 1), cell(0, 2), cell(0, 3)}

	var last Action
	var outGameOver bool
	var winCells []int
	for i := 0; i < len(seat0Cells); i++ {
		o, err := e.Apply(0, Action{Cell: seat0Cells[i]})
		require.NoError(t, err)
		outGameOver = o.GameOver
		if i < len(seat1Cells) {
			_, err := e.Apply(1, Action{Cell: seat1Cells[i]})
			require.NoError(t, err)
		}
		last = Action{Cell: seat0Cells[i]}
	}
	_ = last

	v := e.View(0).(View)
	winCells = v.WinningCells
	require.True(t, outGameOver)
	require.Equal(t, 0, v.Winner)
	require.Len(t, winCells, WinLength)
}

func TestRejectsOutOfBounds(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	e.current = 0
	_, err := e.Apply(0, Action{Cell: -1})
	require.Error(t, err)
	_, err = e.Apply(0, Action{Cell: Size * Size})
	require.Error(t, err)
}
