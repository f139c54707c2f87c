// Package mancala implements kalah: 14 pits (0-5 seat 0, 6 seat 0's
// store, 7-12 seat 1, 13 seat 1's store), 4 seeds per playing pit at
// the start, sow/capture/extra-turn rules per the American kalah
// ruleset this spec follows.
package mancala

import "github.com/vctt94/matcharena/pkg/engine"

const (
	NumPits     = 14
	SeedsPerPit = 4
	Store0      = 6
	Store1      = 13
)

// Action sows the seeds of one pit.
type Action struct {
	Pit int
}

// View is the projection returned by View (identical for both seats;
// mancala has no hidden information).
type View struct {
	Pits        [NumPits]int
	CurrentSeat int
	GameOver    bool
	Winner      int
	Draw        bool
	ExtraTurn   bool
}

// Engine implements engine.Engine for mancala.
type Engine struct {
	pits      [NumPits]int
	current   int
	lastMover int
	over      bool
	winner    int
	draw      bool
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func (e *Engine) Init(options any) error {
	for i := 0; i < NumPits; i++ {
		if i == Store0 || i == Store1 {
			e.pits[i] = 0
		} else {
			e.pits[i] = SeedsPerPit
		}
	}
	e.current = 0
	e.winner = -1
	return nil
}

func ownPits(seat int) (start, end, store int) {
	if seat == 0 {
		return 0, 5, Store0
	}
	return 7, 12, Store1
}

func opponentStore(seat int) int {
	if seat == 0 {
		return Store1
	}
	return Store0
}

func oppositePit(pit int) int {
	return 12 - pit
}

func (e *Engine) Apply(seat int, action any) (engine.Outcome, error) {
	if e.over {
		return engine.Outcome{}, engine.NewReject(engine.RejectGameOver, "")
	}
	if seat != e.current {
		return engine.Outcome{}, engine.NewReject(engine.RejectNotYourTurn, "")
	}
	act, ok := action.(Action)
	if !ok {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "expected mancala.Action")
	}
	start, end, _ := ownPits(seat)
	if act.Pit < start || act.Pit > end {
		return engine.Outcome{}, engine.NewReject(engine.RejectOutOfRange, "")
	}
	if e.pits[act.Pit] == 0 {
		return engine.Outcome{}, engine.NewReject(engine.RejectIllegalMove, "empty pit")
	}

	e.lastMover = seat
	seeds := e.pits[act.Pit]
	e.pits[act.Pit] = 0
	skip := opponentStore(seat)

	pit := act.Pit
	for seeds > 0 {
		pit = (pit + 1) % NumPits
		if pit == skip {
			continue
		}
		e.pits[pit]++
		seeds--
	}
	landed := pit

	_, ownStoreMin, ownStore := ownPits(seat)
	_ = ownStoreMin

	extraTurn := landed == ownStore

	if !extraTurn {
		ownStart, ownEnd, _ := ownPits(seat)
		if landed >= ownStart && landed <= ownEnd && e.pits[landed] == 1 {
			opp := oppositePit(landed)
			if e.pits[opp] > 0 {
				captured := e.pits[opp] + 1
				e.pits[opp] = 0
				e.pits[landed] = 0
				e.pits[ownStore] += captured
			}
		}
	}

	if out, done := e.checkTermination(); done {
		return out, nil
	}

	if extraTurn {
		return engine.Outcome{ExtraTurn: true}, nil
	}
	e.current = engine.OtherSeat(e.current)
	return engine.Outcome{}, nil
}

// checkTermination sweeps a side's remaining seeds into its store once
// the other side is empty, per the rule: when either side empties, the
// other side's remaining seeds go to its own store.
func (e *Engine) checkTermination() (engine.Outcome, bool) {
	side0Empty := true
	for i := 0; i <= 5; i++ {
		if e.pits[i] != 0 {
			side0Empty = false
			break
		}
	}
	side1Empty := true
	for i := 7; i <= 12; i++ {
		if e.pits[i] != 0 {
			side1Empty = false
			break
		}
	}
	if !side0Empty && !side1Empty {
		return engine.Outcome{}, false
	}

	for i := 0; i <= 5; i++ {
		e.pits[Store0] += e.pits[i]
		e.pits[i] = 0
	}
	for i := 7; i <= 12; i++ {
		e.pits[Store1] += e.pits[i]
		e.pits[i] = 0
	}

	e.over = true
	switch {
	case e.pits[Store0] > e.pits[Store1]:
		e.winner = 0
	case e.pits[Store1] > e.pits[Store0]:
		e.winner = 1
	default:
		// Tie: the spec's source gives it to the last mover.
		e.winner = e.lastMover
	}
	if e.pits[Store0] == e.pits[Store1] {
		e.draw = false // tie-break always yields a winner, never a draw
	}
	return engine.Outcome{GameOver: true, Winner: e.winner}, true
}

func (e *Engine) View(seat int) any {
	return View{
		Pits:        e.pits,
		CurrentSeat: e.current,
		GameOver:    e.over,
		Winner:      e.winner,
		Draw:        e.draw,
	}
}

// AutoFallback sows the first non-empty own pit.
func (e *Engine) AutoFallback(seat int) any {
	start, end, _ := ownPits(seat)
	for p := start; p <= end; p++ {
		if e.pits[p] > 0 {
			return Action{Pit: p}
		}
	}
	return nil
}

func (e *Engine) CurrentSeat() int  { return e.current }
func (e *Engine) IsOver() bool      { return e.over }
func (e *Engine) IsRoundOver() bool { return e.over }
