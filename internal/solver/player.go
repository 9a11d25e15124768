package solver

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sweepmind/minesweeper-agent/internal/knowledge"
	"github.com/sweepmind/minesweeper-agent/internal/mines"
)

var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.WarnLevel)
}

// Move is a single turn of a game, as chosen by the agent and resolved
// by the board.
type Move struct {
	Cell     knowledge.Cell `json:"cell"`
	Random   bool           `json:"random"`
	Count    int            `json:"count"`
	Exploded bool           `json:"exploded"`
}

// Outcome summarizes one finished game.
type Outcome struct {
	Won         bool          `json:"won"`
	Moves       int           `json:"moves"`
	SafeMoves   int           `json:"safe_moves"`
	RandomMoves int           `json:"random_moves"`
	Playtime    time.Duration `json:"playtime"`
	FatalMove   *Move         `json:"fatal_move,omitempty"`
}

/*
A Player drives one game of minesweeper: it asks the agent for a move
(deduced-safe when available, random otherwise), resolves it against
the board, and feeds the revealed count back into the agent. Only
(cell, count) pairs cross the board/agent boundary.
*/
type Player struct {
	board *mines.Board
	agent *knowledge.Agent

	moves   int
	safe    int
	random  int
	started time.Time
}

func NewPlayer(board *mines.Board, rnd *rand.Rand) *Player {
	return &Player{
		board: board,
		agent: knowledge.NewAgent(board.Width, board.Height, rnd),
	}
}

func (p *Player) Agent() *knowledge.Agent {
	return p.agent
}

func (p *Player) Board() *mines.Board {
	return p.board
}

// Done reports whether the game has ended one way or the other.
func (p *Player) Done() bool {
	return p.board.Won() || p.board.Lost()
}

/*
Step plays a single move. It returns nil when the game is over or when
no move is available (every remaining cell is a proven mine, which on a
truthful board coincides with a win).
*/
func (p *Player) Step() (*Move, error) {
	if p.Done() {
		return nil, nil
	}
	if p.started.IsZero() {
		p.started = time.Now()
	}

	cell, ok := p.agent.SafeMove()
	random := false
	if !ok {
		cell, ok = p.agent.RandomMove()
		random = true
	}
	if !ok {
		return nil, nil
	}

	count, exploded, err := p.board.Reveal(cell)
	if err != nil {
		return nil, fmt.Errorf("unable to reveal %v: %w", cell, err)
	}

	move := &Move{Cell: cell, Random: random, Count: count, Exploded: exploded}

	p.moves++
	if random {
		p.random++
		Log.WithField("cell", cell).Debug("no safe move, guessing")
	} else {
		p.safe++
	}

	if exploded {
		return move, nil
	}

	if err := p.agent.Observe(cell, count); err != nil {
		return nil, fmt.Errorf("agent rejected observation %v = %d: %w", cell, count, err)
	}
	return move, nil
}

// Outcome snapshots the game progress so far.
func (p *Player) Outcome() *Outcome {
	var playtime time.Duration
	if !p.started.IsZero() {
		playtime = time.Since(p.started)
	}
	return &Outcome{
		Won:         p.board.Won(),
		Moves:       p.moves,
		SafeMoves:   p.safe,
		RandomMoves: p.random,
		Playtime:    playtime,
	}
}

// Play runs the game to completion and reports its outcome.
func (p *Player) Play() (*Outcome, error) {
	p.started = time.Now()
	var fatal *Move
	for {
		move, err := p.Step()
		if err != nil {
			return nil, err
		}
		if move == nil {
			break
		}
		if move.Exploded {
			fatal = move
			break
		}
	}
	outcome := p.Outcome()
	outcome.FatalMove = fatal
	Log.WithFields(logrus.Fields{
		"board": p.board.String(), "won": outcome.Won,
		"moves": outcome.Moves, "random": outcome.RandomMoves,
	}).Info("game finished")
	return outcome, nil
}
