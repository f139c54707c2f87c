// Package chess implements full chess rules: piece movement with
// pseudo-legal generation filtered by try-then-undo king-in-check
// testing, castling, en passant, and promotion. Threefold repetition
// and the fifty-move rule are not enforced as terminations, per the
// latitude this spec's source leaves implementers.
package chess

import "github.com/vctt94/matcharena/pkg/engine"

// Piece encoding: positive values are seat 0 (white), negative are
// seat 1 (black); magnitude identifies the piece kind.
type Piece int

const (
	Empty  Piece = 0
	Pawn   Piece = 1
	Knight Piece = 2
	Bishop Piece = 3
	Rook   Piece = 4
	Queen  Piece = 5
	King   Piece = 6
)

func seatOf(p Piece) int {
	if p > 0 {
		return 0
	}
	return 1
}

func kindOf(p Piece) Piece {
	if p < 0 {
		return -p
	}
	return p
}

func pieceFor(seat int, kind Piece) Piece {
	if seat == 1 {
		return -kind
	}
	return kind
}

func sq(row, col int) int { return row*8 + col }
func inBounds(r, c int) bool { return r >= 0 && r < 8 && c >= 0 && c < 8 }

// Action is a chess move, or a resignation.
type Action struct {
	From, To  int
	Promotion string // "Q","R","B","N"; empty defaults to Q
	Resign    bool
}

// View is the projection returned by View.
type View struct {
	Board        [64]Piece
	CurrentSeat  int
	GameOver     bool
	Winner       int
	Draw         bool
	InCheck      bool
	Resigned     bool
}

type castleRights struct {
	whiteKingside, whiteQueenside bool
	blackKingside, blackQueenside bool
}

// Engine implements engine.Engine for chess.
type Engine struct {
	board       [64]Piece
	current     int
	rights      castleRights
	enPassant   int // target square behind a just-advanced pawn, or -1
	over        bool
	winner      int
	draw        bool
	resigned    bool
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func (e *Engine) Init(options any) error {
	back := [8]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for c := 0; c < 8; c++ {
		e.board[sq(0, c)] = back[c]
		e.board[sq(1, c)] = Pawn
		e.board[sq(6, c)] = -Pawn
		e.board[sq(7, c)] = -back[c]
	}
	e.current = 0
	e.winner = -1
	e.enPassant = -1
	e.rights = castleRights{true, true, true, true}
	return nil
}

type move struct {
	From, To    int
	Promotion   Piece
	IsCastle    bool
	RookFrom    int
	RookTo      int
	IsEnPassant bool
	CapturedSq  int
}

func (e *Engine) pieceAt(sqr int) Piece { return e.board[sqr] }

// Apply attempts to play action for seat.
func (e *Engine) Apply(seat int, action any) (engine.Outcome, error) {
	if e.over {
		return engine.Outcome{}, engine.NewReject(engine.RejectGameOver, "")
	}
	if seat != e.current {
		return engine.Outcome{}, engine.NewReject(engine.RejectNotYourTurn, "")
	}
	act, ok := action.(Action)
	if !ok {
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "expected chess.Action")
	}
	if act.Resign {
		e.over = true
		e.winner = engine.OtherSeat(seat)
		e.resigned = true
		return engine.Outcome{GameOver: true, Winner: e.winner}, nil
	}

	legal := e.legalMoves(seat)
	var chosen *move
	for i := range legal {
		if legal[i].From == act.From && legal[i].To == act.To {
			chosen = &legal[i]
			break
		}
	}
	if chosen == nil {
		if e.pieceAt(act.From) == Empty || seatOf(e.pieceAt(act.From)) != seat {
			return engine.Outcome{}, engine.NewReject(engine.RejectWrongPiece, "")
		}
		return engine.Outcome{}, engine.NewReject(engine.RejectIllegalMove, "")
	}

	promo := promotionPiece(act.Promotion)
	if chosen.Promotion != 0 {
		chosen.Promotion = promo
	}
	e.commit(*chosen, seat)

	opp := engine.OtherSeat(seat)
	oppMoves := e.legalMoves(opp)
	oppInCheck := e.kingInCheck(opp)

	if len(oppMoves) == 0 {
		e.over = true
		if oppInCheck {
			e.winner = seat // checkmate
			return engine.Outcome{GameOver: true, Winner: seat}, nil
		}
		e.winner = -1 // stalemate
		e.draw = true
		return engine.Outcome{GameOver: true, Draw: true, Winner: -1}, nil
	}

	e.current = opp
	return engine.Outcome{}, nil
}

func promotionPiece(s string) Piece {
	switch s {
	case "R":
		return Rook
	case "B":
		return Bishop
	case "N":
		return Knight
	default:
		return Queen
	}
}

// commit applies a validated move to the board and updates castling
// rights / en passant target.
func (e *Engine) commit(m move, seat int) {
	moving := e.board[m.From]
	e.board[m.From] = Empty

	if m.IsEnPassant {
		e.board[m.CapturedSq] = Empty
	}

	if m.Promotion != 0 {
		e.board[m.To] = pieceFor(seat, m.Promotion)
	} else {
		e.board[m.To] = moving
	}

	if m.IsCastle {
		rook := e.board[m.RookFrom]
		e.board[m.RookFrom] = Empty
		e.board[m.RookTo] = rook
	}

	// En passant target is set only immediately after a two-square
	// pawn advance, cleared on every other move.
	e.enPassant = -1
	if kindOf(moving) == Pawn {
		fromRow, toRow := m.From/8, m.To/8
		if abs(toRow-fromRow) == 2 {
			e.enPassant = (m.From + m.To) / 2
		}
	}

	e.updateCastlingRights(m.From, m.To)
}

func (e *Engine) updateCastlingRights(from, to int) {
	switch from {
	case sq(0, 4):
		e.rights.whiteKingside, e.rights.whiteQueenside = false, false
	case sq(7, 4):
		e.rights.blackKingside, e.rights.blackQueenside = false, false
	case sq(0, 0):
		e.rights.whiteQueenside = false
	case sq(0, 7):
		e.rights.whiteKingside = false
	case sq(7, 0):
		e.rights.blackQueenside = false
	case sq(7, 7):
		e.rights.blackKingside = false
	}
	switch to {
	case sq(0, 0):
		e.rights.whiteQueenside = false
	case sq(0, 7):
		e.rights.whiteKingside = false
	case sq(7, 0):
		e.rights.blackQueenside = false
	case sq(7, 7):
		e.rights.blackKingside = false
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// legalMoves returns every move available to seat: pseudo-legal moves
// filtered by playing each speculatively against a scratch copy of the
// engine and rejecting any that leave the mover's own king in check.
func (e *Engine) legalMoves(seat int) []move {
	pseudo := e.pseudoMoves(seat)
	var out []move
	for _, m := range pseudo {
		scratch := *e
		scratch.commit(m, seat)
		if !scratch.kingInCheck(seat) {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) kingSquare(seat int) int {
	want := pieceFor(seat, King)
	for i, p := range e.board {
		if p == want {
			return i
		}
	}
	return -1
}

func (e *Engine) kingInCheck(seat int) bool {
	ks := e.kingSquare(seat)
	if ks < 0 {
		return false
	}
	return e.squareAttackedBy(ks, engine.OtherSeat(seat))
}

var knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var kingOffsets = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

func (e *Engine) squareAttackedBy(target int, bySeat int) bool {
	row, col := target/8, target%8

	// Pawns: a pawn attacks diagonally forward from its own side, so
	// we look backward from target along the opponent's forward
	// direction.
	pawnDir := 1
	if bySeat == 1 {
		pawnDir = -1
	}
	for _, dc := range []int{-1, 1} {
		r, c := row-pawnDir, col+dc
		if inBounds(r, c) && e.board[sq(r, c)] == pieceFor(bySeat, Pawn) {
			return true
		}
	}

	for _, o := range knightOffsets {
		r, c := row+o[0], col+o[1]
		if inBounds(r, c) && e.board[sq(r, c)] == pieceFor(bySeat, Knight) {
			return true
		}
	}
	for _, o := range kingOffsets {
		r, c := row+o[0], col+o[1]
		if inBounds(r, c) && e.board[sq(r, c)] == pieceFor(bySeat, King) {
			return true
		}
	}
	for _, d := range bishopDirs {
		if e.slideAttacks(row, col, d, bySeat, Bishop, Queen) {
			return true
		}
	}
	for _, d := range rookDirs {
		if e.slideAttacks(row, col, d, bySeat, Rook, Queen) {
			return true
		}
	}
	return false
}

func (e *Engine) slideAttacks(row, col int, d [2]int, bySeat int, kind1, kind2 Piece) bool {
	r, c := row+d[0], col+d[1]
	for inBounds(r, c) {
		p := e.board[sq(r, c)]
		if p != Empty {
			if seatOf(p) == bySeat && (kindOf(p) == kind1 || kindOf(p) == kind2) {
				return true
			}
			return false
		}
		r += d[0]
		c += d[1]
	}
	return false
}

// pseudoMoves generates every move a piece could physically make,
// without checking whether it leaves the mover's own king in check.
func (e *Engine) pseudoMoves(seat int) []move {
	var out []move
	for i, p := range e.board {
		if p == Empty || seatOf(p) != seat {
			continue
		}
		row, col := i/8, i%8
		switch kindOf(p) {
		case Pawn:
			out = append(out, e.pawnMoves(seat, row, col, i)...)
		case Knight:
			for _, o := range knightOffsets {
				e.addSimple(&out, seat, i, row+o[0], col+o[1])
			}
		case King:
			for _, o := range kingOffsets {
				e.addSimple(&out, seat, i, row+o[0], col+o[1])
			}
			out = append(out, e.castleMoves(seat, i)...)
		case Bishop:
			e.addSliding(&out, seat, i, row, col, bishopDirs[:])
		case Rook:
			e.addSliding(&out, seat, i, row, col, rookDirs[:])
		case Queen:
			e.addSliding(&out, seat, i, row, col, bishopDirs[:])
			e.addSliding(&out, seat, i, row, col, rookDirs[:])
		}
	}
	return out
}

func (e *Engine) addSimple(out *[]move, seat, from, r, c int) {
	if !inBounds(r, c) {
		return
	}
	to := sq(r, c)
	target := e.board[to]
	if target != Empty && seatOf(target) == seat {
		return
	}
	*out = append(*out, move{From: from, To: to})
}

func (e *Engine) addSliding(out *[]move, seat, from, row, col int, dirs [][2]int) {
	for _, d := range dirs {
		r, c := row+d[0], col+d[1]
		for inBounds(r, c) {
			to := sq(r, c)
			target := e.board[to]
			if target == Empty {
				*out = append(*out, move{From: from, To: to})
				r += d[0]
				c += d[1]
				continue
			}
			if seatOf(target) != seat {
				*out = append(*out, move{From: from, To: to})
			}
			break
		}
	}
}

func (e *Engine) pawnMoves(seat, row, col, from int) []move {
	var out []move
	dir := 1
	startRow := 1
	promoRow := 7
	if seat == 1 {
		dir = -1
		startRow = 6
		promoRow = 0
	}

	oneRow := row + dir
	if inBounds(oneRow, col) && e.board[sq(oneRow, col)] == Empty {
		out = append(out, e.pawnAdvance(from, sq(oneRow, col), oneRow, promoRow)...)
		if row == startRow {
			twoRow := row + 2*dir
			if e.board[sq(twoRow, col)] == Empty {
				out = append(out, move{From: from, To: sq(twoRow, col)})
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		r, c := row+dir, col+dc
		if !inBounds(r, c) {
			continue
		}
		to := sq(r, c)
		target := e.board[to]
		if target != Empty && seatOf(target) != seat {
			out = append(out, e.pawnAdvance(from, to, r, promoRow)...)
		} else if to == e.enPassant && target == Empty {
			capturedSq := sq(row, c)
			out = append(out, move{From: from, To: to, IsEnPassant: true, CapturedSq: capturedSq})
		}
	}
	return out
}

func (e *Engine) pawnAdvance(from, to, toRow, promoRow int) []move {
	if toRow == promoRow {
		return []move{
			{From: from, To: to, Promotion: Queen},
			{From: from, To: to, Promotion: Rook},
			{From: from, To: to, Promotion: Bishop},
			{From: from, To: to, Promotion: Knight},
		}
	}
	return []move{{From: from, To: to}}
}

// castleMoves checks the three preconditions: rights intact, squares
// between empty, and the king neither in check now nor passing
// through or landing on an attacked square.
func (e *Engine) castleMoves(seat, kingSq int) []move {
	var out []move
	opp := engine.OtherSeat(seat)
	if e.kingInCheck(seat) {
		return out
	}

	type side struct {
		right           bool
		rookFrom        int
		between         []int
		kingTo, rookTo  int
	}

	var sides []side
	if seat == 0 {
		sides = []side{
			{e.rights.whiteKingside, sq(0, 7), []int{sq(0, 5), sq(0, 6)}, sq(0, 6), sq(0, 5)},
			{e.rights.whiteQueenside, sq(0, 0), []int{sq(0, 1), sq(0, 2), sq(0, 3)}, sq(0, 2), sq(0, 3)},
		}
	} else {
		sides = []side{
			{e.rights.blackKingside, sq(7, 7), []int{sq(7, 5), sq(7, 6)}, sq(7, 6), sq(7, 5)},
			{e.rights.blackQueenside, sq(7, 0), []int{sq(7, 1), sq(7, 2), sq(7, 3)}, sq(7, 2), sq(7, 3)},
		}
	}

	for _, s := range sides {
		if !s.right {
			continue
		}
		if e.board[s.rookFrom] != pieceFor(seat, Rook) {
			continue
		}
		clear := true
		for _, b := range s.between {
			if e.board[b] != Empty {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		// King must not pass through or land on an attacked square.
		// Queenside has three empty squares but the king only
		// traverses the two nearest it (the b-file square is crossed
		// only by the rook, so an attack on it does not matter).
		passSquares := s.between
		if len(passSquares) == 3 {
			passSquares = passSquares[1:]
		}
		safe := true
		for _, p := range passSquares {
			if e.squareAttackedBy(p, opp) {
				safe = false
				break
			}
		}
		if !safe {
			continue
		}
		out = append(out, move{
			From: kingSq, To: s.kingTo, IsCastle: true,
			RookFrom: s.rookFrom, RookTo: s.rookTo,
		})
	}
	return out
}

func (e *Engine) View(seat int) any {
	return View{
		Board:       e.board,
		CurrentSeat: e.current,
		GameOver:    e.over,
		Winner:      e.winner,
		Draw:        e.draw,
		InCheck:     e.kingInCheck(e.current),
		Resigned:    e.resigned,
	}
}

// AutoFallback plays the first legal move from the lowest-indexed
// piece of the side to move.
func (e *Engine) AutoFallback(seat int) any {
	legal := e.legalMoves(seat)
	if len(legal) == 0 {
		return nil
	}
	m := legal[0]
	promo := ""
	switch m.Promotion {
	case Queen:
		promo = "Q"
	case Rook:
		promo = "R"
	case Bishop:
		promo = "B"
	case Knight:
		promo = "N"
	}
	return Action{From: m.From, To: m.To, Promotion: promo}
}

func (e *Engine) CurrentSeat() int  { return e.current }
func (e *Engine) IsOver() bool      { return e.over }
func (e *Engine) IsRoundOver() bool { return e.over }
