// Package checkers implements American checkers on an 8x8 board: dark
// squares only, men move diagonally forward one square, kings move
// diagonally any direction, captures are mandatory, and a capturing
// piece that lands with a further capture available must continue the
// jump before the turn passes.
package checkers

import "github.com/vctt94/matcharena/pkg/engine"

const BoardSize = 8

// Piece kinds, zero value means empty.
const (
	Empty = iota
	Seat0Man
	Seat0King
	Seat1Man
	Seat1King
)

// Action moves a piece from one square to another. Square indices are
// row-major (0..63); only dark squares ((row+col) odd) are ever
// occupied.
type Action struct {
	From, To int
}

// View is the projection returned by View.
type View struct {
	Board         [BoardSize * BoardSize]int
	CurrentSeat   int
	GameOver      bool
	Winner        int
	MustJumpFrom  int // -1 if no multi-jump is pending
}

// Engine implements engine.Engine for checkers.
type Engine struct {
	board        [BoardSize * BoardSize]int
	current      int
	over         bool
	winner       int
	mustJumpFrom int
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func sq(row, col int) int { return row*BoardSize + col }

func (e *Engine) Init(options any) error {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if (row+col)%2 == 0 {
				continue // light square, never occupied
			}
			switch {
			case row < 3:
				e.board[sq(row, col)] = Seat0Man
			case row > 4:
				e.board[sq(row, col)] = Seat1Man
			}
		}
	}
	e.current = 0
	e.winner = -1
	e.mustJumpFrom = -1
	return nil
}

func seatOwns(piece, seat int) bool {
	if seat == 0 {
		return piece == Seat0Man || piece == Seat0King
	}
	return piece == Seat1Man || piece == Seat1King
}

func isKing(piece int) bool { return piece == Seat0King || piece == Seat1King }

func opponentOwns(piece, seat int) bool {
	return piece != Empty && !seatOwns(piece, seat)
}

func inBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// forwardDir returns the row delta a man of this seat advances along.
func forwardDir(seat int) int {
	if seat == 0 {
		return 1
	}
	return -1
}

type jump struct {
	from, over, to int
}

// capturesFrom lists every single-jump capture available from square
// for the piece sitting there (assumed to belong to seat).
func (e *Engine) capturesFrom(seat, square int) []jump {
	piece := e.board[square]
	row, col := square/BoardSize, square%BoardSize
	var dirs [][2]int
	if isKing(piece) {
		dirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	} else {
		d := forwardDir(seat)
		dirs = [][2]int{{d, 1}, {d, -1}}
	}
	var out []jump
	for _, d := range dirs {
		midRow, midCol := row+d[0], col+d[1]
		landRow, landCol := row+2*d[0], col+2*d[1]
		if !inBounds(landRow, landCol) {
			continue
		}
		mid := sq(midRow, midCol)
		land := sq(landRow, landCol)
		if opponentOwns(e.board[mid], seat) && e.board[land] == Empty {
			out = append(out, jump{from: square, over: mid, to: land})
		}
	}
	return out
}

// anyCaptureAvailable reports whether seat has any legal capture
// anywhere on the board (mandatory-capture check).
func (e *Engine) anyCaptureAvailable(seat int) bool {
	for i := 0; i < len(e.board); i++ {
		if seatOwns(e.board[i], seat) && len(e.capturesFrom(seat, i)) > 0 {
			return true
		}
	}
	return false
}

// simpleMovesFrom lists non-capturing moves for the piece at square.
func (e *Engine) simpleMovesFrom(seat, square int) []int {
	piece := e.board[square]
	row, col := square/BoardSize, square%BoardSize
	var dirs [][2]int
	if isKing(piece) {
		dirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	} else {
		d := forwardDir(seat)
		dirs = [][2]int{{d, 1}, {d, -1}}
	}
	var out []int
	for _, d := range dirs {
		r, c := row+d[0], col+d[1]
		if inBounds(r, c) && e.board[sq(r, c)] == Empty {
			out = append(out, sq(r, c))
		}
	}
	return out
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
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "expected checkers.Action")
	}

	if e.mustJumpFrom >= 0 && act.From != e.mustJumpFrom {
		return engine.Outcome{}, engine.NewReject(engine.RejectMustContinue, "")
	}
	if !seatOwns(e.board[act.From], seat) {
		return engine.Outcome{}, engine.NewReject(engine.RejectWrongPiece, "")
	}

	captures := e.capturesFrom(seat, act.From)
	var taken *jump
	for i := range captures {
		if captures[i].to == act.To {
			taken = &captures[i]
			break
		}
	}

	if taken == nil {
		// Not a capture move. Reject if any capture is mandatory,
		// either from this piece or anywhere on the board.
		if e.mustJumpFrom >= 0 {
			return engine.Outcome{}, engine.NewReject(engine.RejectMustContinue, "")
		}
		if e.anyCaptureAvailable(seat) {
			return engine.Outcome{}, engine.NewReject(engine.RejectMustCapture, "")
		}
		moves := e.simpleMovesFrom(seat, act.From)
		legal := false
		for _, m := range moves {
			if m == act.To {
				legal = true
				break
			}
		}
		if !legal {
			return engine.Outcome{}, engine.NewReject(engine.RejectIllegalMove, "")
		}
		e.board[act.To] = e.board[act.From]
		e.board[act.From] = Empty
		e.maybePromote(act.To, seat)
		e.mustJumpFrom = -1
		return e.finishTurn(seat)
	}

	// Execute the capture.
	e.board[taken.to] = e.board[taken.from]
	e.board[taken.from] = Empty
	e.board[taken.over] = Empty
	promoted := e.maybePromote(taken.to, seat)

	if !promoted && len(e.capturesFrom(seat, taken.to)) > 0 {
		e.mustJumpFrom = taken.to
		return engine.Outcome{ExtraTurn: true}, nil
	}
	if promoted {
		// Promotion ends multi-jumping immediately, per the rules.
		e.mustJumpFrom = -1
		return e.finishTurn(seat)
	}
	e.mustJumpFrom = -1
	return e.finishTurn(seat)
}

// maybePromote kings a man that reached the opposite back rank and
// reports whether a promotion happened.
func (e *Engine) maybePromote(square, seat int) bool {
	row := square / BoardSize
	if seat == 0 && row == BoardSize-1 && e.board[square] == Seat0Man {
		e.board[square] = Seat0King
		return true
	}
	if seat == 1 && row == 0 && e.board[square] == Seat1Man {
		e.board[square] = Seat1King
		return true
	}
	return false
}

func (e *Engine) finishTurn(seat int) (engine.Outcome, error) {
	opp := engine.OtherSeat(seat)
	if !e.hasAnyMove(opp) {
		e.over = true
		e.winner = seat
		return engine.Outcome{GameOver: true, Winner: seat}, nil
	}
	e.current = opp
	return engine.Outcome{}, nil
}

func (e *Engine) hasAnyMove(seat int) bool {
	for i := 0; i < len(e.board); i++ {
		if !seatOwns(e.board[i], seat) {
			continue
		}
		if len(e.capturesFrom(seat, i)) > 0 || len(e.simpleMovesFrom(seat, i)) > 0 {
			return true
		}
	}
	return false
}

func (e *Engine) View(seat int) any {
	return View{
		Board:        e.board,
		CurrentSeat:  e.current,
		GameOver:     e.over,
		Winner:       e.winner,
		MustJumpFrom: e.mustJumpFrom,
	}
}

// AutoFallback continues a pending jump if any, else takes the first
// available jump, else the first available non-jump move.
func (e *Engine) AutoFallback(seat int) any {
	if e.mustJumpFrom >= 0 {
		if caps := e.capturesFrom(seat, e.mustJumpFrom); len(caps) > 0 {
			return Action{From: caps[0].from, To: caps[0].to}
		}
	}
	for i := 0; i < len(e.board); i++ {
		if !seatOwns(e.board[i], seat) {
			continue
		}
		if caps := e.capturesFrom(seat, i); len(caps) > 0 {
			return Action{From: caps[0].from, To: caps[0].to}
		}
	}
	for i := 0; i < len(e.board); i++ {
		if !seatOwns(e.board[i], seat) {
			continue
		}
		if moves := e.simpleMovesFrom(seat, i); len(moves) > 0 {
			return Action{From: i, To: moves[0]}
		}
	}
	return nil
}

func (e *Engine) CurrentSeat() int  { return e.current }
func (e *Engine) IsOver() bool      { return e.over }
func (e *Engine) IsRoundOver() bool { return e.over }
