// Package dominoes implements draw-mode double-six dominoes, first to
// 50 points across rounds: standard block rules, mandatory drawing
// while the boneyard holds tiles, and blocked-round scoring by pip
// total.
package dominoes

import (
	"math/rand"

	"github.com/vctt94/matcharena/pkg/engine"
)

const WinScore = 50

// Tile is an unordered pip pair.
type Tile struct {
	A, B int
}

func (t Tile) isDouble() bool { return t.A == t.B }

// Side names the end of the board a tile is played against.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideNone  Side = "none"
)

// Action is one of Play, Draw, Pass, or NextRound.
type Action struct {
	Kind      string // "play", "draw", "pass", "next_round"
	TileIndex int    // index into the acting seat's hand, for "play"
	Side      Side
}

type placed struct {
	Tile    Tile
	Flipped bool
}

// View is the projection returned by View. OpponentTileCount is
// present so neither seat's own-tile view leaks the other's hand.
type View struct {
	Hand              []Tile
	OpponentTileCount int
	Board             []placed
	LeftEnd, RightEnd int
	BoneyardCount     int
	CurrentSeat       int
	RoundOver         bool
	GameOver          bool
	Winner            int
	Scores            [2]int
	ConsecutivePasses int
}

// Engine implements engine.Engine for dominoes.
type Engine struct {
	hands             [2][]Tile
	boneyard          []Tile
	board             []placed
	leftEnd, rightEnd int
	current           int
	scores            [2]int
	consecPasses      int
	roundOver         bool
	over              bool
	winner            int
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func fullSet() []Tile {
	var tiles []Tile
	for a := 0; a <= 6; a++ {
		for b := a; b <= 6; b++ {
			tiles = append(tiles, Tile{A: a, B: b})
		}
	}
	return tiles
}

func (e *Engine) Init(options any) error {
	e.winner = -1
	e.startRound(0)
	return nil
}

// startRound deals a fresh hand and boneyard and picks the opening
// seat: the holder of the highest double, or seat 0 if neither hand
// holds one.
func (e *Engine) startRound(preferredOpener int) {
	deck := fullSet()
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	e.hands[0] = append([]Tile{}, deck[0:7]...)
	e.hands[1] = append([]Tile{}, deck[7:14]...)
	e.boneyard = append([]Tile{}, deck[14:]...)
	e.board = nil
	e.leftEnd, e.rightEnd = -1, -1
	e.consecPasses = 0
	e.roundOver = false

	opener := -1
	highest := -1
	for seat := 0; seat < 2; seat++ {
		for _, t := range e.hands[seat] {
			if t.isDouble() && t.A > highest {
				highest = t.A
				opener = seat
			}
		}
	}
	if opener == -1 {
		opener = 0
	}
	e.current = opener
}

func (e *Engine) Apply(seat int, action any) (engine.Outcome, error) {
	if e.over {
		return engine.Outcome{}, engine.NewReject(engine.RejectGameOver, "")
	}
	act, ok := action.(Action)
	if !ok {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "expected dominoes.Action")
	}

	if act.Kind == "next_round" {
		if !e.roundOver || e.over {
			return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "no round to start")
		}
		e.startRound(e.current)
		return engine.Outcome{}, nil
	}

	if seat != e.current {
		return engine.Outcome{}, engine.NewReject(engine.RejectNotYourTurn, "")
	}
	if e.roundOver {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "round over, call next_round")
	}

	switch act.Kind {
	case "draw":
		return e.applyDraw(seat)
	case "pass":
		return e.applyPass(seat)
	case "play":
		return e.applyPlay(seat, act)
	default:
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "unknown action kind")
	}
}

func (e *Engine) applyDraw(seat int) (engine.Outcome, error) {
	if len(e.boneyard) == 0 {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "boneyard empty, must pass")
	}
	tile := e.boneyard[len(e.boneyard)-1]
	e.boneyard = e.boneyard[:len(e.boneyard)-1]
	e.hands[seat] = append(e.hands[seat], tile)
	e.consecPasses = 0
	return engine.Outcome{ExtraTurn: true}, nil
}

func (e *Engine) applyPass(seat int) (engine.Outcome, error) {
	if len(e.boneyard) != 0 {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "must draw while boneyard has tiles")
	}
	if e.hasPlayable(seat) {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "playable tile available")
	}
	e.consecPasses++
	if e.consecPasses >= 2 {
		return e.finishBlockedRound()
	}
	e.current = engine.OtherSeat(e.current)
	return engine.Outcome{}, nil
}

func (e *Engine) hasPlayable(seat int) bool {
	for _, t := range e.hands[seat] {
		if e.matchesEither(t) {
			return true
		}
	}
	return false
}

func (e *Engine) matchesEither(t Tile) bool {
	if len(e.board) == 0 {
		return true
	}
	return t.A == e.leftEnd || t.B == e.leftEnd || t.A == e.rightEnd || t.B == e.rightEnd
}

func (e *Engine) applyPlay(seat int, act Action) (engine.Outcome, error) {
	hand := e.hands[seat]
	if act.TileIndex < 0 || act.TileIndex >= len(hand) {
		return engine.Outcome{}, engine.NewReject(engine.RejectOutOfRange, "")
	}
	tile := hand[act.TileIndex]

	if len(e.board) == 0 {
		e.board = append(e.board, placed{Tile: tile})
		e.leftEnd, e.rightEnd = tile.A, tile.B
		e.removeFromHand(seat, act.TileIndex)
		return e.afterPlay(seat)
	}

	matchesLeft := tile.A == e.leftEnd || tile.B == e.leftEnd
	matchesRight := tile.A == e.rightEnd || tile.B == e.rightEnd

	side := act.Side
	if side == SideNone || side == "" {
		switch {
		case matchesLeft && !matchesRight:
			side = SideLeft
		case matchesRight && !matchesLeft:
			side = SideRight
		default:
			return engine.Outcome{}, engine.NewReject(engine.RejectIllegalMove, "ambiguous side, specify left or right")
		}
	}

	switch side {
	case SideLeft:
		if !matchesLeft {
			return engine.Outcome{}, engine.NewReject(engine.RejectIllegalMove, "tile does not match left end")
		}
		pip := tile.A
		if tile.A == e.leftEnd {
			pip = tile.B
		}
		e.board = append([]placed{{Tile: tile}}, e.board...)
		e.leftEnd = pip
	case SideRight:
		if !matchesRight {
			return engine.Outcome{}, engine.NewReject(engine.RejectIllegalMove, "tile does not match right end")
		}
		pip := tile.A
		if tile.A == e.rightEnd {
			pip = tile.B
		}
		e.board = append(e.board, placed{Tile: tile})
		e.rightEnd = pip
	default:
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "side must be left or right")
	}

	e.removeFromHand(seat, act.TileIndex)
	return e.afterPlay(seat)
}

func (e *Engine) removeFromHand(seat, idx int) {
	hand := e.hands[seat]
	e.hands[seat] = append(hand[:idx], hand[idx+1:]...)
}

func (e *Engine) afterPlay(seat int) (engine.Outcome, error) {
	e.consecPasses = 0
	if len(e.hands[seat]) == 0 {
		return e.finishRoundEmptyHand(seat)
	}
	e.current = engine.OtherSeat(e.current)
	return engine.Outcome{}, nil
}

func pipTotal(tiles []Tile) int {
	total := 0
	for _, t := range tiles {
		total += t.A + t.B
	}
	return total
}

// finishRoundEmptyHand scores the round for the seat that emptied its
// hand: the opponent's remaining pip total.
func (e *Engine) finishRoundEmptyHand(seat int) (engine.Outcome, error) {
	opp := engine.OtherSeat(seat)
	points := pipTotal(e.hands[opp])
	e.scores[seat] += points
	e.roundOver = true
	return e.checkMatchOver(seat)
}

// finishBlockedRound scores the lower pip total's holder the
// difference between the two totals; a tie scores nothing.
func (e *Engine) finishBlockedRound() (engine.Outcome, error) {
	total0 := pipTotal(e.hands[0])
	total1 := pipTotal(e.hands[1])
	e.roundOver = true

	var scorer int
	switch {
	case total0 < total1:
		scorer = 0
		e.scores[0] += total1 - total0
	case total1 < total0:
		scorer = 1
		e.scores[1] += total0 - total1
	default:
		return engine.Outcome{RoundOver: true}, nil
	}
	return e.checkMatchOver(scorer)
}

func (e *Engine) checkMatchOver(lastScorer int) (engine.Outcome, error) {
	if e.scores[0] >= WinScore || e.scores[1] >= WinScore {
		e.over = true
		if e.scores[0] > e.scores[1] {
			e.winner = 0
		} else if e.scores[1] > e.scores[0] {
			e.winner = 1
		} else {
			e.winner = lastScorer
		}
		return engine.Outcome{GameOver: true, RoundOver: true, Winner: e.winner}, nil
	}
	return engine.Outcome{RoundOver: true}, nil
}

func (e *Engine) View(seat int) any {
	opp := engine.OtherSeat(seat)
	board := make([]placed, len(e.board))
	copy(board, e.board)
	return View{
		Hand:              append([]Tile{}, e.hands[seat]...),
		OpponentTileCount: len(e.hands[opp]),
		Board:             board,
		LeftEnd:           e.leftEnd,
		RightEnd:          e.rightEnd,
		BoneyardCount:     len(e.boneyard),
		CurrentSeat:       e.current,
		RoundOver:         e.roundOver,
		GameOver:          e.over,
		Winner:            e.winner,
		Scores:            e.scores,
		ConsecutivePasses: e.consecPasses,
	}
}

// AutoFallback: draw if the boneyard still has tiles and no playable
// tile is in hand; play the first playable tile; else pass.
func (e *Engine) AutoFallback(seat int) any {
	if e.hasPlayable(seat) {
		for i, t := range e.hands[seat] {
			if e.matchesEither(t) {
				side := SideLeft
				if t.A != e.leftEnd && t.B != e.leftEnd {
					side = SideRight
				}
				return Action{Kind: "play", TileIndex: i, Side: side}
			}
		}
	}
	if len(e.boneyard) > 0 {
		return Action{Kind: "draw"}
	}
	return Action{Kind: "pass"}
}

func (e *Engine) CurrentSeat() int  { return e.current }
func (e *Engine) IsOver() bool      { return e.over }
func (e *Engine) IsRoundOver() bool { return e.roundOver }
