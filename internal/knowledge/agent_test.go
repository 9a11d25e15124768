package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(width, height int) *Agent {
	return NewAgent(width, height, rand.New(rand.NewPCG(1, 2)))
}

func TestObserveBuildsSentence(t *testing.T) {
	a := newTestAgent(3, 3)

	require.NoError(t, a.Observe(Cell{0, 0}, 2))

	// (0,0) is recorded and safe, its three neighbors form a sentence
	assert.ElementsMatch(t, []Cell{{0, 0}}, a.MovesMade())
	assert.Contains(t, a.Safes(), Cell{0, 0})
	require.Equal(t, 1, a.SentenceCount())
	assert.ElementsMatch(
		t, []Cell{{0, 1}, {1, 0}, {1, 1}}, a.knowledge[0].Cells(),
	)
	assert.Equal(t, 2, a.knowledge[0].Count())
}

func TestObserveZeroCountProvesNeighborsSafe(t *testing.T) {
	a := newTestAgent(3, 3)

	require.NoError(t, a.Observe(Cell{0, 0}, 0))

	assert.ElementsMatch(
		t, []Cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, a.Safes(),
	)
	// fully resolved sentences are discarded
	assert.Equal(t, 0, a.SentenceCount())
}

func TestObserveFullCountProvesNeighborsMined(t *testing.T) {
	a := newTestAgent(3, 3)

	require.NoError(t, a.Observe(Cell{0, 0}, 3))

	assert.ElementsMatch(t, []Cell{{0, 1}, {1, 0}, {1, 1}}, a.Mines())
	assert.Equal(t, 0, a.SentenceCount())
}

func TestObserveDiscountsKnownMines(t *testing.T) {
	a := newTestAgent(3, 3)

	// corner observation proves (0,1), (1,0) and (1,1) to be mines
	require.NoError(t, a.Observe(Cell{0, 0}, 3))
	require.ElementsMatch(t, []Cell{{0, 1}, {1, 0}, {1, 1}}, a.Mines())

	// (1,2) touches two of them: the fresh sentence must range over the
	// three undetermined neighbors only, with count 3 - 2 = 1
	require.NoError(t, a.Observe(Cell{1, 2}, 3))
	require.Equal(t, 1, a.SentenceCount())
	assert.ElementsMatch(
		t, []Cell{{0, 2}, {2, 1}, {2, 2}}, a.knowledge[0].Cells(),
	)
	assert.Equal(t, 1, a.knowledge[0].Count())
}

func TestObserveContractViolations(t *testing.T) {
	a := newTestAgent(3, 3)
	require.NoError(t, a.Observe(Cell{1, 1}, 1))

	tests := []struct {
		name  string
		cell  Cell
		count int
		want  error
	}{
		{"out of bounds", Cell{3, 0}, 0, ErrOutOfBounds},
		{"negative row", Cell{-1, 0}, 0, ErrOutOfBounds},
		{"already observed", Cell{1, 1}, 1, ErrCellObserved},
		{"negative count", Cell{0, 0}, -1, ErrBadMineCount},
		{"count exceeds neighbors", Cell{0, 0}, 4, ErrBadMineCount},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			movesBefore := len(a.MovesMade())
			sentencesBefore := a.SentenceCount()

			err := a.Observe(test.cell, test.count)

			assert.ErrorIs(t, err, test.want)
			assert.Equal(t, movesBefore, len(a.MovesMade()))
			assert.Equal(t, sentencesBefore, a.SentenceCount())
		})
	}
}

func TestObserveRejectsContradictingCount(t *testing.T) {
	a := newTestAgent(3, 3)

	// all three neighbors of the corner proven safe
	require.NoError(t, a.Observe(Cell{0, 0}, 0))

	// a count of 2 for (0,2) is impossible: (0,1) and (1,1) are safe
	// and (1,2) is its only undetermined neighbor
	err := a.Observe(Cell{0, 2}, 2)
	assert.ErrorIs(t, err, ErrBadMineCount)
}

func TestSubsetRuleSynthesis(t *testing.T) {
	a := newTestAgent(3, 3)
	c1, c2, c3 := Cell{0, 0}, Cell{0, 1}, Cell{0, 2}

	a.knowledge = append(
		a.knowledge,
		NewSentence([]Cell{c1, c2}, 1),
		NewSentence([]Cell{c1, c2, c3}, 2),
	)

	a.propagate()
	a.prune()

	// B - A = {c3} with count 2 - 1 = 1, so c3 must be a mine
	assert.ElementsMatch(t, []Cell{c3}, a.Mines())
	for _, s := range a.knowledge {
		assert.NotContains(t, s.Cells(), c3)
	}
}

func TestPropagationReachesFixedPoint(t *testing.T) {
	a := newTestAgent(3, 3)
	c1, c2, c3 := Cell{2, 0}, Cell{2, 1}, Cell{2, 2}

	// chained resolution: subtracting A from B leaves {c3} = 0, which
	// must propagate back into C and expose c1 as the only mine there
	a.knowledge = append(
		a.knowledge,
		NewSentence([]Cell{c1, c2}, 1),
		NewSentence([]Cell{c1, c2, c3}, 1),
		NewSentence([]Cell{c1, c3}, 1),
	)

	a.propagate()
	a.prune()

	assert.Contains(t, a.Safes(), c3)
	assert.ElementsMatch(t, []Cell{c1}, a.Mines())
	assert.Contains(t, a.Safes(), c2)
	assert.Equal(t, 0, a.SentenceCount())
}

func TestDuplicateSentencesNeverInserted(t *testing.T) {
	a := newTestAgent(5, 5)

	s := NewSentence([]Cell{{4, 0}, {4, 1}}, 1)
	assert.True(t, a.insert(s))
	assert.False(t, a.insert(NewSentence([]Cell{{4, 1}, {4, 0}}, 1)))
	assert.Equal(t, 1, a.SentenceCount())
}

// single mine at (0,3) on a 1x4 strip, resolved step by step
func TestEndToEndStrip(t *testing.T) {
	a := newTestAgent(4, 1)

	require.NoError(t, a.Observe(Cell{0, 0}, 0))
	assert.Contains(t, a.Safes(), Cell{0, 1})
	assert.Empty(t, a.Mines())

	require.NoError(t, a.Observe(Cell{0, 1}, 0))
	assert.Contains(t, a.Safes(), Cell{0, 2})
	assert.Empty(t, a.Mines())
	assert.NotContains(t, a.Safes(), Cell{0, 3})

	// (0,2) touches (0,1), already safe, and (0,3)
	require.NoError(t, a.Observe(Cell{0, 2}, 1))
	assert.ElementsMatch(t, []Cell{{0, 3}}, a.Mines())
}

// feed a full 8x8 game worth of observations and check the global
// invariants after every single one
func TestInvariantsAcrossFullGame(t *testing.T) {
	const width, height = 8, 8

	mineAt := map[Cell]bool{
		{0, 4}: true, {1, 1}: true, {3, 6}: true, {4, 2}: true,
		{5, 5}: true, {6, 0}: true, {7, 3}: true, {7, 7}: true,
	}
	neighborCount := func(c Cell) int {
		count := 0
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				n := Cell{c.Row + dr, c.Col + dc}
				if 0 <= n.Row && n.Row < height &&
					0 <= n.Col && n.Col < width && mineAt[n] {
					count++
				}
			}
		}
		return count
	}

	a := newTestAgent(width, height)
	knownMines, knownSafes := 0, 0

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			cell := Cell{row, col}
			if mineAt[cell] || a.movesMade.has(cell) {
				continue
			}

			require.NoError(t, a.Observe(cell, neighborCount(cell)))

			for _, s := range a.knowledge {
				assert.GreaterOrEqual(t, s.Count(), 0)
				assert.LessOrEqual(t, s.Count(), s.Len())
			}
			for _, m := range a.Mines() {
				assert.True(t, mineAt[m], "deduced a mine at safe cell %v", m)
				assert.NotContains(t, a.Safes(), m)
			}
			for _, s := range a.Safes() {
				assert.False(t, mineAt[s], "deduced safe at mine cell %v", s)
			}

			// mines and safes only ever grow
			assert.GreaterOrEqual(t, len(a.Mines()), knownMines)
			assert.GreaterOrEqual(t, len(a.Safes()), knownSafes)
			knownMines, knownSafes = len(a.Mines()), len(a.Safes())

			// bounded knowledge: no duplicate pile-up
			assert.LessOrEqual(t, a.SentenceCount(), width*height)
		}
	}

	// every safe cell observed: all mines must have been deduced
	assert.Equal(t, len(mineAt), len(a.Mines()))
}

func TestSafeMovePicksLowestRowMajor(t *testing.T) {
	a := newTestAgent(4, 4)

	a.safes.add(Cell{2, 3})
	a.safes.add(Cell{1, 2})
	a.safes.add(Cell{1, 0})

	move, ok := a.SafeMove()
	require.True(t, ok)
	assert.Equal(t, Cell{1, 0}, move)

	a.movesMade.add(Cell{1, 0})
	move, ok = a.SafeMove()
	require.True(t, ok)
	assert.Equal(t, Cell{1, 2}, move)
}

func TestSafeMoveAbsent(t *testing.T) {
	a := newTestAgent(2, 2)
	_, ok := a.SafeMove()
	assert.False(t, ok)

	a.safes.add(Cell{0, 0})
	a.movesMade.add(Cell{0, 0})
	_, ok = a.SafeMove()
	assert.False(t, ok)
}

func TestRandomMoveAvoidsMinesAndMovesMade(t *testing.T) {
	a := newTestAgent(3, 3)
	a.mines.add(Cell{0, 0})
	a.mines.add(Cell{1, 1})
	a.movesMade.add(Cell{2, 2})
	a.movesMade.add(Cell{0, 2})

	for i := 0; i < 500; i++ {
		move, ok := a.RandomMove()
		require.True(t, ok)
		assert.False(t, a.mines.has(move), "drew a known mine %v", move)
		assert.False(t, a.movesMade.has(move), "drew a played cell %v", move)
	}
}

func TestRandomMoveAbsentWhenExhausted(t *testing.T) {
	a := newTestAgent(2, 1)
	a.movesMade.add(Cell{0, 0})
	a.mines.add(Cell{0, 1})

	_, ok := a.RandomMove()
	assert.False(t, ok)
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := newTestAgent(3, 3)
	require.NoError(t, a.Observe(Cell{0, 0}, 0))

	safes := a.Safes()
	require.NotEmpty(t, safes)
	for i := range safes {
		safes[i] = Cell{99, 99}
	}
	assert.NotContains(t, a.Safes(), Cell{99, 99})
}
