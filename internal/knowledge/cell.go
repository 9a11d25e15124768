package knowledge

import "fmt"

// Cell identifies a single square of the board. Cells compare by value,
// so they can key maps and sets directly.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}
