package match

import "sync"

// Outbound is anything the session layer can hand to a transport to
// deliver to one client: an event name and its JSON-able payload.
// pkg/transport owns actually framing and writing it.
type Outbound struct {
	Event   string
	Payload any
}

// Session is per-connection state: identity and the room it's
// currently bound to, if any (I1: a session is bound to at most one
// room at a time). Send is the connection's outbound channel, buffered
// so a slow reader never blocks the room actor that's broadcasting to
// it (grounded on the teacher's per-player notification channel in
// pkg/server/notifications.go).
type Session struct {
	ID          string
	AccountID   string
	DisplayName string

	mu     sync.Mutex
	roomID string

	Send chan Outbound
}

func newSession(id string) *Session {
	return &Session{
		ID:   id,
		Send: make(chan Outbound, 32),
	}
}

func (s *Session) Registered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.AccountID != ""
}

func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

func (s *Session) bindRoom(roomID string) {
	s.mu.Lock()
	s.roomID = roomID
	s.mu.Unlock()
}

func (s *Session) unbindRoom() {
	s.mu.Lock()
	s.roomID = ""
	s.mu.Unlock()
}

func (s *Session) emit(event string, payload any) {
	select {
	case s.Send <- Outbound{Event: event, Payload: payload}:
	default:
		// Slow/dead reader: drop rather than block the caller, which
		// may be a room actor mid-broadcast.
	}
}

// SessionManager owns the process-wide session table, guarded by its
// own critical section (§5: "the session table ... is globally shared
// mutable state; each is guarded by its own critical section").
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

func (m *SessionManager) Create(id string) *Session {
	s := newSession(id)
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
