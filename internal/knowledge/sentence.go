package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

/*
A Sentence is a single unit of knowledge about the board: exactly
`count` of `cells` are mines. Cells whose status becomes known are
removed in place, so a sentence always ranges over undetermined cells
only and 0 <= count <= len(cells) holds throughout its lifetime.
*/
type Sentence struct {
	cells set[Cell]
	count int
}

func newSentence(cells set[Cell], count int) *Sentence {
	return &Sentence{cells: cells, count: count}
}

// NewSentence builds a sentence over a copy of cells.
func NewSentence(cells []Cell, count int) *Sentence {
	s := &Sentence{cells: make(set[Cell], len(cells)), count: count}
	for _, c := range cells {
		s.cells.add(c)
	}
	return s
}

func (s Sentence) Len() int {
	return len(s.cells)
}

func (s Sentence) Count() int {
	return s.count
}

func (s Sentence) Cells() []Cell {
	return s.cells.items()
}

// KnownMines returns every cell of the sentence when all of them must
// be mines, i.e. when the count equals the number of remaining cells.
func (s Sentence) KnownMines() []Cell {
	if s.count > 0 && s.count == len(s.cells) {
		return s.cells.items()
	}
	return nil
}

// KnownSafes returns every cell of the sentence when none of them can
// be a mine, i.e. when the count is zero.
func (s Sentence) KnownSafes() []Cell {
	if s.count == 0 {
		return s.cells.items()
	}
	return nil
}

// MarkMine removes a cell known to be a mine, discounting it from the
// sentence's mine count. No-op if the cell is not part of the sentence.
func (s *Sentence) MarkMine(cell Cell) {
	if s.cells.has(cell) {
		s.cells.del(cell)
		s.count--
	}
}

// MarkSafe removes a cell known to be safe. The mine count is
// unaffected. No-op if the cell is not part of the sentence.
func (s *Sentence) MarkSafe(cell Cell) {
	if s.cells.has(cell) {
		s.cells.del(cell)
	}
}

// Equal reports whether both sentences range over the same cells with
// the same count. Used to keep the knowledge base free of duplicates.
func (s Sentence) Equal(other *Sentence) bool {
	return s.count == other.count && s.cells.equal(other.cells)
}

func (s Sentence) String() string {
	cells := s.cells.items()
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(parts, " "), s.count)
}
