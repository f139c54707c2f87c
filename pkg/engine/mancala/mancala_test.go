package mancala

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtraTurnOnStoreLanding(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	e.current = 0

	// Pit 2 holds 4 seeds initially; sowing lands the last seed in
	// seat 0's own store (pit 6: 2->3->4->5->6).
	o, err := e.Apply(0, Action{Pit: 2})
	require.NoError(t, err)
	require.True(t, o.ExtraTurn)
	require.Equal(t, 0, e.CurrentSeat())
}

func TestCaptureMovesOppositePlusLanding(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	e.current = 0
	// Empty pit 1 for seat 0, leave pit 11 (opposite of 1 is 11) with
	// seeds so a single seed landing in pit 1 triggers a capture.
	e.pits[1] = 0
	e.pits[11] = 5
	e.pits[0] = 1 // one seed, sowing lands exactly in pit 1

	_, err := e.Apply(0, Action{Pit: 0})
	require.NoError(t, err)

	require.Equal(t, 0, e.pits[1])
	require.Equal(t, 0, e.pits[11])
	require.Equal(t, 6, e.pits[Store0]) // opposite(5) + landing(1)
}

func TestPitSumInvariant(t *testing.T) {
	e := New()
	require.NoError(t, e.Init(nil))
	total := 0
	for _, v := range e.pits {
		total += v
	}
	require.Equal(t, 48, total)
}
