// Package tictactoe implements the grid-variant tic-tac-toe engine:
// square boards of size 3, 5, or 7, win length 3 on the 3x3 board and
// 4 on the larger ones.
package tictactoe

import (
	"math/rand"

	"github.com/vctt94/matcharena/pkg/engine"
)

// Options configures Init.
type Options struct {
	GridSize int // 3, 5, or 7
}

// Action is the sole tic-tac-toe action.
type Action struct {
	Cell int // row-major index into the N*N grid
}

// View is the projection returned by View.
type View struct {
	GridSize     int
	Board        []int // -1 empty, 0/1 seat owner, row-major
	CurrentSeat  int
	GameOver     bool
	Winner       int // -1 if draw or not over
	Draw         bool
	WinningCells []int
}

// Engine implements engine.Engine for grid tic-tac-toe.
type Engine struct {
	size      int
	winLength int
	board     []int // -1 empty
	current   int
	moveCount int
	over      bool
	winner    int
	draw      bool
	winCells  []int
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine { return &Engine{} }

func (e *Engine) Init(options any) error {
	size := 3
	if opt, ok := options.(Options); ok && opt.GridSize > 0 {
		size = opt.GridSize
	}
	if size != 3 && size != 5 && size != 7 {
		return engine.NewReject(engine.RejectInvalidAction, "grid size must be 3, 5, or 7")
	}
	e.size = size
	if size == 3 {
		e.winLength = 3
	} else {
		e.winLength = 4
	}
	e.board = make([]int, size*size)
	for i := range e.board {
		e.board[i] = -1
	}
	e.winner = -1
	e.current = rand.Intn(2)
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
		return engine.Outcome{}, engine.NewReject(engine.RejectInvalidAction, "expected tictactoe.Action")
	}
	if act.Cell < 0 || act.Cell >= len(e.board) {
		return engine.Outcome{}, engine.NewReject(engine.RejectOutOfRange, "")
	}
	if e.board[act.Cell] != -1 {
		return engine.Outcome{}, engine.NewReject(engine.RejectOccupied, "")
	}

	e.board[act.Cell] = seat
	e.moveCount++

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

// checkWinFrom scans the four lines through the last-placed cell,
// since any new win must pass through it.
func (e *Engine) checkWinFrom(cell int) ([]int, bool) {
	row, col := cell/e.size, cell%e.size
	seat := e.board[cell]

	for _, d := range directions {
		line := []int{cell}
		for step := 1; step < e.winLength; step++ {
			r, c := row+d[0]*step, col+d[1]*step
			if !e.inBounds(r, c) || e.board[r*e.size+c] != seat {
				break
			}
			line = append(line, r*e.size+c)
		}
		for step := 1; step < e.winLength; step++ {
			r, c := row-d[0]*step, col-d[1]*step
			if !e.inBounds(r, c) || e.board[r*e.size+c] != seat {
				break
			}
			line = append(line, r*e.size+c)
		}
		if len(line) >= e.winLength {
			return line[:e.winLength], true
		}
	}
	return nil, false
}

func (e *Engine) inBounds(r, c int) bool {
	return r >= 0 && r < e.size && c >= 0 && c < e.size
}

func (e *Engine) View(seat int) any {
	board := make([]int, len(e.board))
	copy(board, e.board)
	return View{
		GridSize:     e.size,
		Board:        board,
		CurrentSeat:  e.current,
		GameOver:     e.over,
		Winner:       e.winner,
		Draw:         e.draw,
		WinningCells: e.winCells,
	}
}

// AutoFallback picks the first empty cell.
func (e *Engine) AutoFallback(seat int) any {
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
