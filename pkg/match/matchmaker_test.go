package match

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchmakerSeekPairsOpposite(t *testing.T) {
	m := NewMatchmaker()
	a := newSession("a")
	b := newSession("b")
	key := QueueKey{GameType: GameChess, Stake: 100}

	other, ok := m.Seek(a, key, "proof-a")
	require.False(t, ok)
	require.Nil(t, other)

	other, ok = m.Seek(b, key, "proof-b")
	require.True(t, ok)
	require.Equal(t, a, other.Session)

	require.Empty(t, m.Snapshot())
}

func TestMatchmakerCancelRemovesOwnEntryOnly(t *testing.T) {
	m := NewMatchmaker()
	a := newSession("a")
	b := newSession("b")
	m.Seek(a, QueueKey{GameType: GameChess, Stake: 100}, "p1")
	m.Seek(b, QueueKey{GameType: GameGomoku, Stake: 50}, "p2")

	entry, ok := m.Cancel(a)
	require.True(t, ok)
	require.Equal(t, a, entry.Session)
	require.Len(t, m.Snapshot(), 1)

	_, ok = m.Cancel(a)
	require.False(t, ok)
}

// TestMatchmakerAcceptIsAtomic is the concurrency property (P3): two
// goroutines racing to accept the same open entry must see exactly
// one success.
func TestMatchmakerAcceptIsAtomic(t *testing.T) {
	m := NewMatchmaker()
	seeker := newSession("seeker")
	entry, _ := m.Seek(seeker, QueueKey{GameType: GameCheckers, Stake: 200}, "p0")
	_ = entry

	snap := m.Snapshot()
	require.Len(t, snap, 1)
	openID := snap[0].ID

	const racers = 16
	var wg sync.WaitGroup
	successes := make([]bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			requester := newSession("racer")
			_, err := m.Accept(requester, openID)
			successes[i] = err == nil
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range successes {
		if ok {
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Empty(t, m.Snapshot())
}

func TestMatchmakerAcceptRejectsOwnEntry(t *testing.T) {
	m := NewMatchmaker()
	a := newSession("a")
	m.Seek(a, QueueKey{GameType: GameDominoes, Stake: 10}, "p")
	snap := m.Snapshot()
	require.Len(t, snap, 1)

	_, err := m.Accept(a, snap[0].ID)
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindCannotAcceptOwn, merr.Kind)
}
