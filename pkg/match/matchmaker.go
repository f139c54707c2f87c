package match

import (
	"fmt"
	"sync"
	"time"
)

// QueueKey identifies an open bet slot: two seekers match only if all
// three fields agree (§4.2).
type QueueKey struct {
	GameType GameType
	Stake    int64
	GridSize int
}

// QueueEntry is one seeker waiting in the matchmaker.
type QueueEntry struct {
	ID        string
	Key       QueueKey
	Session   *Session
	Proof     string
	CreatedAt time.Time
}

// Matchmaker maintains open-bet entries keyed by (game, stake,
// variant). All three operations mutate it under a single logical
// lock (§4.2), so a losing concurrent Accept always observes either a
// populated or already-removed map entry, never a half-updated one.
type Matchmaker struct {
	mu      sync.Mutex
	byKey   map[QueueKey]*QueueEntry
	byID    map[string]*QueueEntry
	counter int
}

func NewMatchmaker() *Matchmaker {
	return &Matchmaker{
		byKey: make(map[QueueKey]*QueueEntry),
		byID:  make(map[string]*QueueEntry),
	}
}

// Seek either matches an existing open entry for key and returns the
// pair (existing entry first, as "other"), or stores a new entry and
// returns ok=false. An entry already owned by session is replaced by
// the new seek (re-seeking the same key doesn't self-match).
func (m *Matchmaker) Seek(session *Session, key QueueKey, proof string) (other *QueueEntry, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, found := m.byKey[key]; found && existing.Session != session {
		delete(m.byKey, key)
		delete(m.byID, existing.ID)
		return existing, true
	}
	if existing, found := m.byKey[key]; found {
		delete(m.byID, existing.ID) // session's own entry, replaced below
	}

	m.counter++
	entry := &QueueEntry{
		ID:        fmt.Sprintf("entry_%d", m.counter),
		Key:       key,
		Session:   session,
		Proof:     proof,
		CreatedAt: time.Now(),
	}
	m.byKey[key] = entry
	m.byID[entry.ID] = entry
	return nil, false
}

// Accept looks up openID and, if it exists and isn't owned by
// requester, removes it atomically and returns it. Two concurrent
// Accepts of the same entry: exactly one observes found=true (P3).
func (m *Matchmaker) Accept(requester *Session, openID string) (entry *QueueEntry, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.byID[openID]
	if !found {
		return nil, NewError(KindBetTaken, "bet no longer open")
	}
	if e.Session == requester {
		return nil, NewError(KindCannotAcceptOwn, "")
	}
	delete(m.byID, openID)
	if m.byKey[e.Key] == e {
		delete(m.byKey, e.Key)
	}
	return e, nil
}

// Cancel removes requester's own open entry, if any.
func (m *Matchmaker) Cancel(requester *Session) (*QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.byID {
		if e.Session == requester {
			delete(m.byID, id)
			if m.byKey[e.Key] == e {
				delete(m.byKey, e.Key)
			}
			return e, true
		}
	}
	return nil, false
}

// Snapshot returns every open entry, for lobby_update.
func (m *Matchmaker) Snapshot() []*QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*QueueEntry, 0, len(m.byID))
	for _, e := range m.byID {
		out = append(out, e)
	}
	return out
}
