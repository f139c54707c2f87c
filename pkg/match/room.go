package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/vctt94/matcharena/pkg/engine"
	"github.com/vctt94/matcharena/pkg/statemachine"
)

// RoomStateFn is a room lifecycle state following Rob Pike's pattern:
// the same shape the teacher pack's poker.Game/Player use for their
// phase machines, narrowed to the two phases a match room actually has.
type RoomStateFn = statemachine.StateFn[Room]

// roomStatePlaying is the only state the machine sits in while the
// engine is live. It has no self-detected exit condition: every ending
// path (engine game-over, timeout fallback, disconnect) is a distinct
// trigger recognized by the caller, so the room is force-transitioned
// via finish -> SetState, the same way poker.Player.playerStateLeft is
// forced by an external "left the table" event rather than discovered
// by polling.
func roomStatePlaying(r *Room, callback func(stateName string, event statemachine.StateEvent)) RoomStateFn {
	if callback != nil {
		callback("PLAYING", statemachine.StateEntered)
	}
	return roomStatePlaying
}

// roomStateFinished's entry work IS the settlement/teardown pipeline.
// Centralizing it here means every ending path drives exactly one
// transition instead of three copies of "mark finished, settle,
// schedule teardown".
func roomStateFinished(r *Room, callback func(stateName string, event statemachine.StateEvent)) RoomStateFn {
	r.mu.Lock()
	r.snapOver = true
	r.mu.Unlock()

	if callback != nil {
		callback("FINISHED", statemachine.StateEntered)
	}

	r.runSettlement(r.finishWinner, r.finishDraw, r.finishReason)
	r.scheduleTeardown(r.finishGrace)
	return nil // terminal: the room is tearing down
}

// Room is the actor Design Notes §9 describes: a single goroutine
// draining a mailbox of closures, so every apply/timer-fire/disconnect
// /teardown event touching this room's engine and timer handle is
// strictly serialized. The timer handle itself never leaves this
// goroutine (P6: at most one live timer per room).
type Room struct {
	ID       string
	GameType GameType
	Stake    int64
	Seats    [2]*Session

	server *Server
	log    slog.Logger

	mailbox chan func()

	// Owned exclusively by the actor goroutine; never touched from
	// outside a mailbox closure.
	eng          engine.Engine
	stateMachine *statemachine.StateMachine[Room]
	over         bool
	timer        *time.Timer

	// Staged by finish() just before forcing the FINISHED transition;
	// read back by roomStateFinished's entry work.
	finishWinner int
	finishDraw   bool
	finishReason string
	finishGrace  time.Duration

	mu       sync.RWMutex // guards the handful of fields read from outside the actor (lobby snapshots), plus closed below
	snapOver bool
	closed   bool // set by teardown before it closes mailbox; checked by send
}

// send enqueues fn on the mailbox, unless teardown has already closed
// it. Every producer outside the actor goroutine (ApplyMove,
// Disconnect, armed timers, scheduled teardown itself) goes through
// this instead of sending on r.mailbox directly: a goroutine that
// resolved a *Room via the registry just before teardown ran would
// otherwise race close(r.mailbox) and panic on a send to a closed
// channel. Reports whether the send happened.
func (r *Room) send(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.mailbox <- fn
	return true
}

func newRoom(server *Server, id string, gameType GameType, stake int64, seats [2]*Session, eng engine.Engine) *Room {
	r := &Room{
		ID:       id,
		GameType: gameType,
		Stake:    stake,
		Seats:    seats,
		server:   server,
		log:      server.log,
		mailbox:  make(chan func(), 64),
		eng:      eng,
	}
	r.stateMachine = statemachine.NewStateMachine(r, roomStatePlaying)
	go r.loop()
	return r
}

// finish drives the room from PLAYING to FINISHED. Idempotent: the
// first caller to reach it wins, so a timer fire racing a disconnect
// can't double-settle.
func (r *Room) finish(winnerSeat int, draw bool, reason string, grace time.Duration) {
	if r.over {
		return
	}
	r.over = true
	r.finishWinner = winnerSeat
	r.finishDraw = draw
	r.finishReason = reason
	r.finishGrace = grace
	r.stateMachine.SetState(roomStateFinished)
}

func (r *Room) loop() {
	for fn := range r.mailbox {
		fn()
	}
}

type applyResult struct {
	outcome engine.Outcome
	err     error
}

// ApplyMove runs action for seat through the room's mailbox and
// returns the engine's verdict. A rejection is returned only to the
// caller (§7); it is never broadcast.
func (r *Room) ApplyMove(seat int, action any) (engine.Outcome, error) {
	reply := make(chan applyResult, 1)
	if !r.send(func() { reply <- r.handleApply(seat, action) }) {
		return engine.Outcome{}, NewError(KindNoRoom, "room already closed")
	}
	res := <-reply
	return res.outcome, res.err
}

// Disconnect notifies the room that seat's connection dropped. A no-op
// if the room has already torn down.
func (r *Room) Disconnect(seat int) {
	r.send(func() { r.handleDisconnect(seat) })
}

func (r *Room) handleApply(seat int, action any) applyResult {
	outcome, err := r.eng.Apply(seat, action)
	if err != nil {
		return applyResult{outcome: outcome, err: err}
	}

	r.cancelTimer()
	r.broadcastState()

	if outcome.GameOver {
		r.finish(outcome.Winner, outcome.Draw, "", 5*time.Second)
	} else if !outcome.RoundOver {
		r.armTimer()
	}
	// RoundOver (dominoes, mid-match): timer stays disarmed until
	// next_round is applied, per §4.3.

	return applyResult{outcome: outcome}
}

func (r *Room) handleDisconnect(seat int) {
	if r.over {
		return
	}
	r.cancelTimer()
	winner := engine.OtherSeat(seat)
	r.finish(winner, false, "Opponent disconnected", 3*time.Second)
}

// IsFinished is safe to call from outside the actor (lobby listing).
func (r *Room) IsFinished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapOver
}

func (r *Room) cancelTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) armTimer() {
	if r.over {
		return
	}
	if !hasTimer(r.GameType) {
		return
	}
	if r.eng.IsRoundOver() {
		return
	}
	dur := timerDeadline(r.GameType)
	r.timer = time.AfterFunc(dur, func() {
		r.send(func() { r.handleTimerFire() })
	})
}

func (r *Room) handleTimerFire() {
	// Lost-race guard: a real move may have beaten the timer into the
	// mailbox and already ended the game.
	if r.over || r.eng.IsOver() {
		return
	}
	seat := r.eng.CurrentSeat()
	action := r.eng.AutoFallback(seat)
	if action == nil {
		return
	}
	outcome, err := r.eng.Apply(seat, action)
	if err != nil {
		r.log.Warnf("room %s: autoFallback produced a rejected action: %v", r.ID, err)
		return
	}

	r.timer = nil
	r.broadcastState()

	if outcome.GameOver {
		r.finish(outcome.Winner, outcome.Draw, "", 5*time.Second)
		return
	}
	if !outcome.RoundOver {
		r.armTimer()
	}
}

func (r *Room) broadcastState() {
	for seat, s := range r.Seats {
		if s == nil {
			continue
		}
		s.emit("game_state", r.eng.View(seat))
	}
}

func (r *Room) runSettlement(winnerSeat int, draw bool, reason string) {
	accounts := [2]string{}
	for i, s := range r.Seats {
		if s != nil {
			accounts[i] = s.AccountID
		}
	}
	outcome := settle(r.server.oracleCtx(), r.log, r.server.Oracle, r.server.HouseAccount, r.Stake, winnerSeat, draw, accounts)

	// The external oracle transfer is the money movement of record;
	// the local ledger only keeps an informational running balance for
	// balance_update (spec's "informational" payload, §6), sent after
	// game_over.
	var balanceUpdate *BalanceUpdatePayload
	if !draw && winnerSeat >= 0 {
		if winner := r.Seats[winnerSeat]; winner != nil {
			if err := r.server.Ledger.AdjustBalance(winner.AccountID, outcome.Payout); err != nil {
				r.log.Errorf("room %s: ledger credit failed: %v", r.ID, err)
			} else if bal, err := r.server.Ledger.GetBalance(winner.AccountID); err == nil {
				balanceUpdate = &BalanceUpdatePayload{Balance: bal}
			}
		}
	}

	for _, s := range r.Seats {
		if s == nil {
			continue
		}
		payload := GameOverPayload{
			IsDraw: draw,
			Reason: reason,
		}
		if !draw && winnerSeat >= 0 {
			if r.Seats[winnerSeat] != nil {
				payload.Winner = r.Seats[winnerSeat].DisplayName
				payload.WinnerWallet = r.Seats[winnerSeat].AccountID
			}
			payload.Payout = outcome.Payout
		} else {
			payload.Payout = r.Stake
		}
		s.emit("game_over", payload)
	}
	if balanceUpdate != nil {
		r.Seats[winnerSeat].emit("balance_update", *balanceUpdate)
	}
}

func (r *Room) scheduleTeardown(grace time.Duration) {
	time.AfterFunc(grace, func() {
		r.send(func() { r.teardown() })
	})
}

// teardown unbinds both seats and drops the room from the registry,
// then closes the mailbox. Setting closed under the same mutex send
// checks, before the close, is what makes the close safe: any send
// racing this either completes first (and is then drained normally by
// loop before it exits) or observes closed and never reaches the
// channel at all.
func (r *Room) teardown() {
	for _, s := range r.Seats {
		if s != nil {
			s.unbindRoom()
		}
	}
	r.server.registry.remove(r.ID)

	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	close(r.mailbox)
}

// RoomRegistry owns all live rooms, guarded by its own critical
// section (§5).
type RoomRegistry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	counter int
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]*Room)}
}

func (rr *RoomRegistry) create(server *Server, gameType GameType, stake int64, seats [2]*Session, eng engine.Engine) *Room {
	rr.mu.Lock()
	rr.counter++
	id := fmt.Sprintf("room_%d", rr.counter)
	rr.mu.Unlock()

	room := newRoom(server, id, gameType, stake, seats, eng)

	rr.mu.Lock()
	rr.rooms[id] = room
	rr.mu.Unlock()
	return room
}

func (rr *RoomRegistry) get(id string) (*Room, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	r, ok := rr.rooms[id]
	return r, ok
}

func (rr *RoomRegistry) remove(id string) {
	rr.mu.Lock()
	delete(rr.rooms, id)
	rr.mu.Unlock()
}

func (rr *RoomRegistry) snapshot() []*Room {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	out := make([]*Room, 0, len(rr.rooms))
	for _, r := range rr.rooms {
		out = append(out, r)
	}
	return out
}
