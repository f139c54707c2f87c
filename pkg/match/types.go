package match

import (
	"time"

	"github.com/vctt94/matcharena/pkg/engine"
	"github.com/vctt94/matcharena/pkg/engine/checkers"
	"github.com/vctt94/matcharena/pkg/engine/chess"
	"github.com/vctt94/matcharena/pkg/engine/dominoes"
	"github.com/vctt94/matcharena/pkg/engine/gomoku"
	"github.com/vctt94/matcharena/pkg/engine/mancala"
	"github.com/vctt94/matcharena/pkg/engine/tictactoe"
)

// GameType names one of the six supported games.
type GameType string

const (
	GameTicTacToe GameType = "tictactoe"
	GameGomoku    GameType = "gomoku"
	GameMancala   GameType = "mancala"
	GameCheckers  GameType = "checkers"
	GameChess     GameType = "chess"
	GameDominoes  GameType = "dominoes"
)

// turnBudget is the per-turn nominal deadline for each game (§4.3).
// Tic-tac-toe has none, on every grid size.
var turnBudget = map[GameType]time.Duration{
	GameDominoes: 15 * time.Second,
	GameMancala:  20 * time.Second,
	GameCheckers: 30 * time.Second,
	GameGomoku:   30 * time.Second,
	GameChess:    60 * time.Second,
}

// schedulerSlack is added to the nominal budget before the scheduler
// fires, per §4.3 ("slack for network").
const schedulerSlack = 500 * time.Millisecond

func hasTimer(g GameType) bool {
	_, ok := turnBudget[g]
	return ok
}

func timerDeadline(g GameType) time.Duration {
	return turnBudget[g] + schedulerSlack
}

// Variant carries the per-game options a find_match/accept_bet request
// may specify. Only GridSize is used today (tic-tac-toe).
type Variant struct {
	GridSize int
}

// newEngine constructs a fresh, initialized engine instance for
// gameType with the given variant options.
func newEngine(gameType GameType, variant Variant) (engine.Engine, error) {
	switch gameType {
	case GameTicTacToe:
		e := tictactoe.New()
		size := variant.GridSize
		if size == 0 {
			size = 3
		}
		if err := e.Init(tictactoe.Options{GridSize: size}); err != nil {
			return nil, err
		}
		return e, nil
	case GameGomoku:
		e := gomoku.New()
		if err := e.Init(nil); err != nil {
			return nil, err
		}
		return e, nil
	case GameMancala:
		e := mancala.New()
		if err := e.Init(nil); err != nil {
			return nil, err
		}
		return e, nil
	case GameCheckers:
		e := checkers.New()
		if err := e.Init(nil); err != nil {
			return nil, err
		}
		return e, nil
	case GameChess:
		e := chess.New()
		if err := e.Init(nil); err != nil {
			return nil, err
		}
		return e, nil
	case GameDominoes:
		e := dominoes.New()
		if err := e.Init(nil); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, NewError(KindUnknownGameType, string(gameType))
	}
}
