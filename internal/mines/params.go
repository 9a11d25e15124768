package mines

import (
	"fmt"
	"strings"
)

type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid board dimensions %dx%d", p.Width, p.Height)
	}
	if p.MineCount < 0 || p.MineCount >= p.Width*p.Height {
		return fmt.Errorf(
			"invalid mine count %d for a %dx%d board",
			p.MineCount, p.Width, p.Height,
		)
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
