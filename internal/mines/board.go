package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sweepmind/minesweeper-agent/internal/knowledge"
)

/*
A Board holds the true mine layout and answers neighbor-count queries.
It is the authoritative side of the game: the deduction agent never
reads it directly, it only receives the counts the driver passes along
after each reveal.
*/
type Board struct {
	GameParams
	grid     []bool
	revealed []bool
	opened   int
	exploded int // index of the fatal cell, -1 until the game is lost
}

// NewBoard places MineCount mines uniformly at random.
func NewBoard(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := newEmptyBoard(params)
	placed := 0
	for placed < params.MineCount {
		i := r.IntN(len(b.grid))
		if !b.grid[i] {
			b.grid[i] = true
			placed++
		}
	}
	return b, nil
}

// NewBoardWithMines places mines at the given cells, for replays and
// deterministic tests.
func NewBoardWithMines(params GameParams, cells []knowledge.Cell) (*Board, error) {
	params.MineCount = len(cells)
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := newEmptyBoard(params)
	for _, c := range cells {
		if !b.inBounds(c) {
			return nil, fmt.Errorf("mine cell %v out of bounds", c)
		}
		if b.grid[b.index(c)] {
			return nil, fmt.Errorf("duplicate mine cell %v", c)
		}
		b.grid[b.index(c)] = true
	}
	return b, nil
}

func newEmptyBoard(params GameParams) *Board {
	size := params.Width * params.Height
	return &Board{
		GameParams: params,
		grid:       make([]bool, size),
		revealed:   make([]bool, size),
		exploded:   -1,
	}
}

func (b Board) index(c knowledge.Cell) int {
	return c.Row*b.Width + c.Col
}

func (b Board) inBounds(c knowledge.Cell) bool {
	return 0 <= c.Row && c.Row < b.Height && 0 <= c.Col && c.Col < b.Width
}

func (b Board) MineAt(c knowledge.Cell) bool {
	return b.grid[b.index(c)]
}

// NeighborMineCount counts mines among the up-to-8 neighbors of c.
func (b Board) NeighborMineCount(c knowledge.Cell) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := knowledge.Cell{Row: c.Row + dr, Col: c.Col + dc}
			if b.inBounds(n) && b.grid[b.index(n)] {
				count++
			}
		}
	}
	return count
}

/*
Reveal opens a cell. On a mine it returns exploded = true and the game
is lost; otherwise it returns the neighbor mine count to be fed into
the agent. Revealing is not idempotent by contract: the driver must
reveal each cell at most once.
*/
func (b *Board) Reveal(c knowledge.Cell) (count int, exploded bool, err error) {
	if !b.inBounds(c) {
		return 0, false, fmt.Errorf("cell %v out of bounds", c)
	}
	i := b.index(c)
	if b.revealed[i] {
		return 0, false, fmt.Errorf("cell %v already revealed", c)
	}
	b.revealed[i] = true
	if b.grid[i] {
		b.exploded = i
		return 0, true, nil
	}
	b.opened++
	return b.NeighborMineCount(c), false, nil
}

// Lost reports whether a mine has been revealed.
func (b Board) Lost() bool {
	return b.exploded >= 0
}

// Won reports whether every safe cell has been revealed.
func (b Board) Won() bool {
	return !b.Lost() && b.opened == b.Width*b.Height-b.MineCount
}

// Mines lists the true mine cells. Display and post-game audit only.
func (b Board) Mines() []knowledge.Cell {
	result := make([]knowledge.Cell, 0, b.MineCount)
	for i, mine := range b.grid {
		if mine {
			result = append(result, b.cellAt(i))
		}
	}
	return result
}

func (b Board) cellAt(i int) knowledge.Cell {
	return knowledge.Cell{Row: i / b.Width, Col: i % b.Width}
}

// Render prints the ground truth, marking the exploded cell if any.
func (b Board) Render() string {
	var sb strings.Builder
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			i := row*b.Width + col
			var ch string
			switch {
			case i == b.exploded:
				ch = "X "
			case b.grid[i]:
				ch = "* "
			default:
				ch = "- "
			}
			fmt.Fprint(&sb, ch)
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

/*
RenderView prints the board as the player saw it: revealed cells show
their neighbor counts, cells in flagged are marked, everything else is
hidden.
*/
func (b Board) RenderView(flagged []knowledge.Cell) string {
	marks := make(map[knowledge.Cell]bool, len(flagged))
	for _, c := range flagged {
		marks[c] = true
	}
	var sb strings.Builder
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			c := knowledge.Cell{Row: row, Col: col}
			i := b.index(c)
			var ch string
			switch {
			case i == b.exploded:
				ch = "X "
			case b.revealed[i]:
				ch = fmt.Sprintf("%d ", b.NeighborMineCount(c))
			case marks[c]:
				ch = "* "
			default:
				ch = ". "
			}
			fmt.Fprint(&sb, ch)
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

func (b Board) String() string {
	return fmt.Sprintf("%dx%d(%d)", b.Width, b.Height, b.MineCount)
}
