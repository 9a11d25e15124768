package knowledge

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.WarnLevel)
}

/*
An Agent accumulates (cell, neighbor mine count) observations reported
by a board and derives cells that are provably safe or provably mined.
It performs no guessing beyond RandomMove and never inspects the true
mine layout: everything it knows comes in through Observe.
*/
type Agent struct {
	width, height int

	movesMade set[Cell]
	mines     set[Cell]
	safes     set[Cell]

	// Active sentences in insertion order. Resolved and vacuous
	// sentences are pruned after every propagation run.
	knowledge []*Sentence

	rnd *rand.Rand
}

func NewAgent(width, height int, rnd *rand.Rand) *Agent {
	return &Agent{
		width:     width,
		height:    height,
		movesMade: make(set[Cell]),
		mines:     make(set[Cell]),
		safes:     make(set[Cell]),
		rnd:       rnd,
	}
}

func (a *Agent) inBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < a.height && 0 <= c.Col && c.Col < a.width
}

// neighbors returns the up-to-8 cells adjacent to c, clipped at the
// grid edges.
func (a *Agent) neighbors(c Cell) []Cell {
	result := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: c.Row + dr, Col: c.Col + dc}
			if a.inBounds(n) {
				result = append(result, n)
			}
		}
	}
	return result
}

/*
Observe records that cell was revealed safely with the given number of
mines among its neighbors, then derives every fact that follows.

The contract checks run before any state is touched, so a rejected
observation cannot leave the knowledge base half-updated. Observing the
same cell twice is reported with [ErrCellObserved] and is otherwise a
no-op.
*/
func (a *Agent) Observe(cell Cell, count int) error {
	if !a.inBounds(cell) {
		return ErrOutOfBounds
	}
	if a.movesMade.has(cell) {
		return ErrCellObserved
	}
	if a.mines.has(cell) {
		return ErrKnownMine
	}

	neighbors := a.neighbors(cell)
	if count < 0 || count > len(neighbors) {
		return ErrBadMineCount
	}

	// Restrict the new sentence to undetermined neighbors. Known mines
	// are discounted from the count; revealed and known-safe neighbors
	// carry no information.
	unknown := make(set[Cell])
	adjusted := count
	for _, n := range neighbors {
		switch {
		case a.mines.has(n):
			adjusted--
		case a.safes.has(n) || a.movesMade.has(n):
		default:
			unknown.add(n)
		}
	}
	if adjusted < 0 || adjusted > len(unknown) {
		// The board contradicts facts we have already proven.
		return ErrBadMineCount
	}

	a.movesMade.add(cell)
	a.markSafe(cell)

	if len(unknown) > 0 {
		a.insert(newSentence(unknown, adjusted))
	}

	a.propagate()
	a.prune()

	Log.WithFields(logrus.Fields{
		"cell": cell, "count": count,
		"mines": len(a.mines), "safes": len(a.safes),
		"sentences": len(a.knowledge),
	}).Debug("observation absorbed")

	return nil
}

// markMine records a proven mine and purges it from every sentence.
func (a *Agent) markMine(cell Cell) {
	a.mines.add(cell)
	for _, s := range a.knowledge {
		s.MarkMine(cell)
	}
	Log.Debugf("proved mine at %v", cell)
}

// markSafe records a proven safe cell and purges it from every sentence.
func (a *Agent) markSafe(cell Cell) {
	a.safes.add(cell)
	for _, s := range a.knowledge {
		s.MarkSafe(cell)
	}
}

// insert appends a sentence unless an equal one is already present.
func (a *Agent) insert(s *Sentence) bool {
	for _, k := range a.knowledge {
		if k.Equal(s) {
			return false
		}
	}
	a.knowledge = append(a.knowledge, s)
	return true
}

type fact struct {
	cell Cell
	mine bool
}

/*
propagate runs deduction to a fixed point. Each pass resolves trivial
sentences into facts, applies those facts to every sentence, and
synthesizes new sentences with the subset rule; the loop stops once a
full pass changes nothing.

Termination is guaranteed: every pass that keeps the loop alive either
proves a new cell (bounded by the grid) or inserts a sentence not seen
before (bounded because duplicates are rejected).
*/
func (a *Agent) propagate() {
	var facts deque.Deque[fact]

	for changed := true; changed; {
		changed = false

		// Trivially resolved sentences become facts. Collect first,
		// apply after: marking mutates the very sets being read.
		for _, s := range a.knowledge {
			for _, c := range s.KnownMines() {
				facts.PushBack(fact{c, true})
			}
			for _, c := range s.KnownSafes() {
				facts.PushBack(fact{c, false})
			}
		}
		for facts.Len() > 0 {
			f := facts.PopFront()
			if f.mine && !a.mines.has(f.cell) {
				a.markMine(f.cell)
				changed = true
			} else if !f.mine && !a.safes.has(f.cell) {
				a.markSafe(f.cell)
				changed = true
			}
		}

		// Subset rule: when every cell of sub lies within super, the
		// cells exclusive to super account for exactly the difference
		// of the counts. Iterate over a snapshot so sentences derived
		// mid-pass do not feed back into the same comparison.
		snapshot := a.knowledge
		for _, sub := range snapshot {
			if sub.Len() == 0 {
				continue
			}
			for _, super := range snapshot {
				if sub == super || super.Len() == 0 {
					continue
				}
				if !sub.cells.subsetOf(super.cells) {
					continue
				}
				cells := super.cells.diff(sub.cells)
				count := super.count - sub.count
				if len(cells) == 0 || count < 0 || count > len(cells) {
					continue
				}
				if a.insert(newSentence(cells, count)) {
					changed = true
				}
			}
		}
	}
}

// prune drops sentences that no longer range over any cell.
func (a *Agent) prune() {
	kept := a.knowledge[:0]
	for _, s := range a.knowledge {
		if s.Len() > 0 {
			kept = append(kept, s)
		}
	}
	a.knowledge = kept
}

/*
SafeMove returns a cell proven safe that has not been played yet. The
grid is scanned in row-major order, so among several candidates the one
with the lowest row, then column, is always picked.
*/
func (a *Agent) SafeMove() (Cell, bool) {
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width; col++ {
			c := Cell{Row: row, Col: col}
			if a.safes.has(c) && !a.movesMade.has(c) {
				return c, true
			}
		}
	}
	return Cell{}, false
}

/*
RandomMove returns a uniformly random cell among those not yet played
and not proven to be mines. Nothing guarantees the cell is safe; it is
the agent's only recourse when deduction stalls.
*/
func (a *Agent) RandomMove() (Cell, bool) {
	options := make([]Cell, 0, a.width*a.height)
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width; col++ {
			c := Cell{Row: row, Col: col}
			if !a.movesMade.has(c) && !a.mines.has(c) {
				options = append(options, c)
			}
		}
	}
	if len(options) == 0 {
		return Cell{}, false
	}
	return options[a.rnd.IntN(len(options))], true
}

// Mines returns a copy of the set of cells proven to be mines.
func (a *Agent) Mines() []Cell {
	return a.mines.items()
}

// Safes returns a copy of the set of cells proven safe.
func (a *Agent) Safes() []Cell {
	return a.safes.items()
}

// MovesMade returns a copy of the set of cells already played.
func (a *Agent) MovesMade() []Cell {
	return a.movesMade.items()
}

// SentenceCount reports the size of the active knowledge base.
func (a *Agent) SentenceCount() int {
	return len(a.knowledge)
}
