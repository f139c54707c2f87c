// Package gomoku implements "morpion": a fixed 15x15 board, five in a
// row to win, no opening restrictions or swap rule.
package gomoku

import (
	"github.com/vctt94/matcharena/pkg/engine"
)

const (
	Size      = 15
	WinLength = 5
)

// Action places a stone.
type Action struct {
	Cell int // row-major index into the 15x15 grid
}

// View is the projection returned by View.
type View struct {
	Board        []int // -1 empty, 0/1 seat owner, row-major
	CurrentSeat  int
	GameOver     bool
	Winner       int
	Draw         bool
	WinningCells []int
	LastMove     int
}

// Engine implements engine.Engine for gomoku.
type Engine struct {
	board     [Size * Size]int
	current   int
	moveCount int
	over      bool
	winner    int
	draw      bool
	winCells  []int
	lastMove  int
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func (e *Engine) Init(options any) error {
	for i := range e.board {
		e.board[i] = -1
	}
	e.winner = -1
	e.lastMove = -1
	e.current = 0
	return nil
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
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "expected gomoku.Action")
	}
	if act.Cell < 0 || act.Cell >= len(e.board) {
		return engine.Outcome{}, engine.NewReject(engine.RejectOutOfRange, "")
	}
	if e.board[act.Cell] != -1 {
		return engine.Outcome{}, engine.NewReject(engine.RejectOccupied, "")
	}

	e.board[act.Cell] = seat
	e.moveCount++
	e.lastMove = act.Cell

	if cells, won := e.checkWinFrom(act.Cell); won {
		e.over = true
		e.winner = seat
		e.winCells = cells
		return engine.Outcome{GameOver: true, Winner: seat}, nil
	}
	if e.moveCount == len(e.board) {
		e.over = true
		e.draw = true
		e.winner = -1
		return engine.Outcome{GameOver: true, Draw: true, Winner: -1}, nil
	}

	e.current = engine.OtherSeat(e.current)
	return engine.Outcome{}, nil
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (e *Engine) checkWinFrom(cell int) ([]int, bool) {
	row, col := cell/Size, cell%Size
	seat := e.board[cell]

	for _, d := range directions {
		line := []int{cell}
		for step := 1; step < WinLength; step++ {
			r, c := row+d[0]*step, col+d[1]*step
			if !inBounds(r, c) || e.board[r*Size+c] != seat {
				break
			}
			line = append(line, r*Size+c)
		}
		for step := 1; step < WinLength; step++ {
			r, c := row-d[0]*step, col-d[1]*step
			if !inBounds(r, c) || e.board[r*Size+c] != seat {
				break
			}
			line = append(line, r*Size+c)
		}
		if len(line) >= WinLength {
			return line[:WinLength], true
		}
	}
	return nil, false
}

func inBounds(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}

func (e *Engine) View(seat int) any {
	board := make([]int, len(e.board))
	copy(board, e.board[:])
	return View{
		Board:        board,
		CurrentSeat:  e.current,
		GameOver:     e.over,
		Winner:       e.winner,
		Draw:         e.draw,
		WinningCells: e.winCells,
		LastMove:     e.lastMove,
	}
}

// AutoFallback: center if empty, else a cell adjacent to the last
// move, else the first empty cell.
func (e *Engine) AutoFallback(seat int) any {
	center := (Size / 2) * Size + Size/2
	if e.board[center] == -1 {
		return Action{Cell: center}
	}
	if e.lastMove >= 0 {
		row, col := e.lastMove/Size, e.lastMove%Size
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := row+dr, col+dc
				if inBounds(r, c) && e.board[r*Size+c] == -1 {
					return Action{Cell: r*Size + c}
				}
			}
		}
	}
	for i, v := range e.board {
		if v == -1 {
			return Action{Cell: i}
		}
	}
	return nil
}

func (e *Engine) CurrentSeat() int  { return e.current }
func (e *Engine) IsOver() bool      { return e.over }
func (e *Engine) IsRoundOver() bool { return e.over }
