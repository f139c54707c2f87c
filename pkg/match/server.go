package match

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/vctt94/matcharena/pkg/engine/checkers"
	"github.com/vctt94/matcharena/pkg/engine/chess"
	"github.com/vctt94/matcharena/pkg/engine/dominoes"
	"github.com/vctt94/matcharena/pkg/engine/gomoku"
	"github.com/vctt94/matcharena/pkg/engine/mancala"
	"github.com/vctt94/matcharena/pkg/engine/tictactoe"
	"github.com/vctt94/matcharena/pkg/ledger"
	"github.com/vctt94/matcharena/pkg/oracle"
)

// Server is the top-level orchestration object: one per process. It
// wires the session table, matchmaker, room registry, ledger and
// payment oracle together and implements every client event of §4.4.
// It owns no game rules itself — those live in pkg/engine and are
// driven one room at a time by each Room's own actor goroutine.
type Server struct {
	Sessions      *SessionManager
	Matcher       *Matchmaker
	registry      *RoomRegistry
	Ledger        *ledger.Ledger
	Oracle        oracle.Oracle
	HouseAccount  string
	EscrowAddress string
	TestMode      bool

	log slog.Logger
	ctx context.Context
}

func NewServer(lg *ledger.Ledger, o oracle.Oracle, houseAccount, escrowAddress string, testMode bool, log slog.Logger) *Server {
	return &Server{
		Sessions:      NewSessionManager(),
		Matcher:       NewMatchmaker(),
		registry:      NewRoomRegistry(),
		Ledger:        lg,
		Oracle:        o,
		HouseAccount:  houseAccount,
		EscrowAddress: escrowAddress,
		TestMode:      testMode,
		log:           log,
		ctx:           context.Background(),
	}
}

func (s *Server) oracleCtx() context.Context { return s.ctx }

// Register binds the connection's session to an account identity
// (§4.4 "register"). A session may register only once; re-registering
// is rejected rather than silently rebinding.
func (s *Server) Register(session *Session, req RegisterRequest) (*RegisteredPayload, error) {
	if req.Account == "" {
		return nil, NewError(KindInvalidAccount, "account is required")
	}
	if session.Registered() {
		return nil, NewError(KindInvalidAccount, "session already registered")
	}
	session.mu.Lock()
	session.AccountID = req.Account
	session.DisplayName = req.DisplayName
	if session.DisplayName == "" {
		session.DisplayName = req.Account
	}
	session.mu.Unlock()

	if _, err := s.Ledger.GetBalance(req.Account); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &RegisteredPayload{
		Account:       req.Account,
		DisplayName:   session.DisplayName,
		EscrowAddress: s.EscrowAddress,
		TestMode:      s.TestMode,
	}, nil
}

// FindMatch enqueues session in the matchmaker, or immediately pairs
// it with a waiting opposite entry and starts a room (§4.2, §4.4).
func (s *Server) FindMatch(session *Session, req FindMatchRequest) (*GameStartPayload, *WaitingPayload, error) {
	if !session.Registered() {
		return nil, nil, NewError(KindRegisterFirst, "")
	}
	if req.BetAmount <= 0 {
		return nil, nil, NewError(KindInvalidBetAmount, "betAmount must be positive")
	}
	if req.Proof == "" {
		return nil, nil, NewError(KindMissingProof, "")
	}

	if err := s.checkAndConsumeProof(req.Proof, req.BetAmount); err != nil {
		return nil, nil, err
	}

	variant := Variant{GridSize: req.GridSize}
	key := QueueKey{GameType: req.GameType, Stake: req.BetAmount, GridSize: req.GridSize}
	other, matched := s.Matcher.Seek(session, key, req.Proof)
	if !matched {
		return nil, &WaitingPayload{Msg: "searching for an opponent", BetAmount: req.BetAmount, GameType: req.GameType}, nil
	}

	payload, err := s.startRoom(req.GameType, req.BetAmount, variant, other.Session, session)
	if err != nil {
		return nil, nil, err
	}
	return payload, nil, nil
}

// CancelSearch removes session's own open entry, if any, and outside
// test mode refunds its stake through the oracle (§4.4
// "cancel_search").
func (s *Server) CancelSearch(session *Session) (*SearchCancelledPayload, error) {
	if entry, ok := s.Matcher.Cancel(session); ok && !s.TestMode {
		if _, err := s.Oracle.SendOutbound(s.ctx, session.AccountID, entry.Key.Stake); err != nil {
			s.log.Errorf("cancel_search: refund to %s failed: %v", session.AccountID, err)
		}
	}
	return &SearchCancelledPayload{}, nil
}

// AcceptBet pairs requester directly with the named open entry,
// bypassing the keyed Seek path (§4.4 "accept_bet").
func (s *Server) AcceptBet(requester *Session, req AcceptBetRequest) (*GameStartPayload, error) {
	if !requester.Registered() {
		return nil, NewError(KindRegisterFirst, "")
	}
	if req.Proof == "" {
		return nil, NewError(KindMissingProof, "")
	}

	entry, err := s.Matcher.Accept(requester, req.BetID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAndConsumeProof(req.Proof, entry.Key.Stake); err != nil {
		return nil, err
	}
	variant := Variant{GridSize: entry.Key.GridSize}
	return s.startRoom(entry.Key.GameType, entry.Key.Stake, variant, entry.Session, requester)
}

// checkAndConsumeProof enforces P4 (proof uniqueness) against the
// ledger's durable used-proof table, not just whatever bookkeeping
// the oracle happens to keep on its own. A proof already recorded as
// used is rejected before ever reaching the oracle; only once the
// oracle confirms the funds does the proof get marked used, so a
// failed verification leaves it available for retry.
func (s *Server) checkAndConsumeProof(proofRef string, expectedAmount int64) error {
	used, err := s.Ledger.IsProofUsed(proofRef)
	if err != nil {
		return fmt.Errorf("check proof: %w", err)
	}
	if used {
		return NewError(KindProofReplay, "proof already used")
	}
	if _, err := s.Oracle.VerifyInbound(s.ctx, proofRef, expectedAmount); err != nil {
		return NewError(KindProofInsufficient, err.Error())
	}
	if err := s.Ledger.MarkProofUsed(proofRef); err != nil {
		return fmt.Errorf("mark proof used: %w", err)
	}
	return nil
}

func (s *Server) startRoom(gameType GameType, betAmount int64, variant Variant, a, b *Session) (*GameStartPayload, error) {
	eng, err := newEngine(gameType, variant)
	if err != nil {
		return nil, err
	}
	seats := [2]*Session{a, b}
	room := s.registry.create(s, gameType, betAmount, seats, eng)

	a.bindRoom(room.ID)
	b.bindRoom(room.ID)

	players := [2]PlayerInfo{
		{Username: a.DisplayName, Wallet: a.AccountID},
		{Username: b.DisplayName, Wallet: b.AccountID},
	}

	for seat, sess := range seats {
		sess.emit("game_start", GameStartPayload{
			RoomID:      room.ID,
			GameType:    gameType,
			BetAmount:   betAmount,
			PlayerIndex: seat,
			Players:     players,
		})
		sess.emit("game_state", eng.View(seat))
	}

	return &GameStartPayload{
		RoomID:      room.ID,
		GameType:    gameType,
		BetAmount:   betAmount,
		PlayerIndex: 0,
		Players:     players,
	}, nil
}

// GameAction resolves session's seat in its bound room and applies
// the decoded action through that room's actor (§4.3, §4.4
// "game_action").
func (s *Server) GameAction(session *Session, req GameActionRequest) error {
	roomID := session.RoomID()
	if roomID == "" {
		return NewError(KindNoRoom, "")
	}
	room, ok := s.registry.get(roomID)
	if !ok {
		return NewError(KindNoRoom, "")
	}

	seat := seatOf(room, session)
	if seat == -1 {
		return NewError(KindNoRoom, "")
	}

	action, err := decodeAction(room.GameType, req.Action)
	if err != nil {
		s.log.Debugf("game_action decode failed for %s: %v; full payload: %s", room.GameType, err, spew.Sdump(req.Action))
		return NewError(KindInvalidAction, err.Error())
	}

	_, err = room.ApplyMove(seat, action)
	return err
}

// Disconnect tells session's bound room, if any, that the connection
// dropped, and removes any open entry it still had, refunding its
// stake through the oracle outside test mode (§4.4 "disconnect").
func (s *Server) Disconnect(session *Session) {
	if roomID := session.RoomID(); roomID != "" {
		if room, ok := s.registry.get(roomID); ok {
			if seat := seatOf(room, session); seat != -1 {
				room.Disconnect(seat)
			}
		}
	}
	if entry, ok := s.Matcher.Cancel(session); ok && !s.TestMode {
		if _, err := s.Oracle.SendOutbound(s.ctx, session.AccountID, entry.Key.Stake); err != nil {
			s.log.Errorf("disconnect: refund to %s failed: %v", session.AccountID, err)
		}
	}
	s.Sessions.Remove(session.ID)
}

func seatOf(room *Room, session *Session) int {
	for i, sess := range room.Seats {
		if sess == session {
			return i
		}
	}
	return -1
}

// GetLobby returns every currently-open bet plus a summary of active
// games and the online session count (§4.4 "get_lobby").
func (s *Server) GetLobby() *LobbyUpdatePayload {
	entries := s.Matcher.Snapshot()
	waiting := make([]LobbyWaitingEntry, 0, len(entries))
	for _, e := range entries {
		waiting = append(waiting, LobbyWaitingEntry{
			ID:        e.ID,
			GameType:  e.Key.GameType,
			BetAmount: e.Key.Stake,
			Username:  e.Session.DisplayName,
			Wallet:    e.Session.AccountID,
			GridSize:  e.Key.GridSize,
		})
	}

	rooms := s.registry.snapshot()
	active := make([]LobbyActiveGame, 0, len(rooms))
	for _, r := range rooms {
		if r.IsFinished() {
			continue
		}
		active = append(active, LobbyActiveGame{GameType: r.GameType, BetAmount: r.Stake, Players: 2})
	}

	return &LobbyUpdatePayload{
		Waiting:     waiting,
		ActiveGames: active,
		OnlineCount: s.Sessions.Count(),
	}
}

// decodeAction unmarshals a raw game_action payload into the concrete
// Action type the room's engine expects.
func decodeAction(gameType GameType, raw json.RawMessage) (any, error) {
	switch gameType {
	case GameTicTacToe:
		var a tictactoe.Action
		err := json.Unmarshal(raw, &a)
		return a, err
	case GameGomoku:
		var a gomoku.Action
		err := json.Unmarshal(raw, &a)
		return a, err
	case GameMancala:
		var a mancala.Action
		err := json.Unmarshal(raw, &a)
		return a, err
	case GameCheckers:
		var a checkers.Action
		err := json.Unmarshal(raw, &a)
		return a, err
	case GameChess:
		var a chess.Action
		err := json.Unmarshal(raw, &a)
		return a, err
	case GameDominoes:
		var a dominoes.Action
		err := json.Unmarshal(raw, &a)
		return a, err
	default:
		return nil, fmt.Errorf("unknown game type %q", gameType)
	}
}
