package solver

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweepmind/minesweeper-agent/internal/mines"
)

type BatchParams struct {
	Game    mines.GameParams
	Games   int
	Seed    uint64
	Workers int
}

// Stats aggregates the outcomes of a batch.
type Stats struct {
	Games       int           `json:"games"`
	Wins        int           `json:"wins"`
	WinRate     float64       `json:"win_rate"`
	AvgMoves    float64       `json:"avg_moves"`
	RandomMoves int           `json:"random_moves"`
	Playtime    time.Duration `json:"playtime"`
}

func Aggregate(outcomes []Outcome) *Stats {
	stats := &Stats{Games: len(outcomes)}
	totalMoves := 0
	for _, o := range outcomes {
		if o.Won {
			stats.Wins++
		}
		totalMoves += o.Moves
		stats.RandomMoves += o.RandomMoves
		stats.Playtime += o.Playtime
	}
	if stats.Games > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Games)
		stats.AvgMoves = float64(totalMoves) / float64(stats.Games)
	}
	return stats
}

/*
RunBatch plays params.Games independent games in parallel. Game i uses
a PCG source seeded with (params.Seed, i), so a batch is reproducible
regardless of worker count or scheduling.
*/
func RunBatch(ctx context.Context, params BatchParams) (*Stats, []Outcome, error) {
	workers := params.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	outcomes := make([]Outcome, params.Games)
	for i := 0; i < params.Games; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewPCG(params.Seed, uint64(i)))
			board, err := mines.NewBoard(params.Game, rnd)
			if err != nil {
				return err
			}
			outcome, err := NewPlayer(board, rnd).Play()
			if err != nil {
				return err
			}
			outcomes[i] = *outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return Aggregate(outcomes), outcomes, nil
}
