package solver

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweepmind/minesweeper-agent/internal/knowledge"
	"github.com/sweepmind/minesweeper-agent/internal/mines"
)

func TestPlayWinsMinelessBoard(t *testing.T) {
	board, err := mines.NewBoardWithMines(mines.GameParams{Width: 4, Height: 4}, nil)
	require.NoError(t, err)

	outcome, err := NewPlayer(board, rand.New(rand.NewPCG(1, 2))).Play()
	require.NoError(t, err)

	assert.True(t, outcome.Won)
	assert.Equal(t, 16, outcome.Moves)
	assert.Nil(t, outcome.FatalMove)
	// the first move is a guess, everything after it is deduced
	assert.Equal(t, 1, outcome.RandomMoves)
	assert.Equal(t, 15, outcome.SafeMoves)
}

func TestPlayStopsOnFirstMine(t *testing.T) {
	// a 1x2 board with a mine forces a 50/50 guess; whichever cell the
	// agent picks, the game ends after at most two moves
	board, err := mines.NewBoardWithMines(
		mines.GameParams{Width: 2, Height: 1},
		[]knowledge.Cell{{Row: 0, Col: 1}},
	)
	require.NoError(t, err)

	outcome, err := NewPlayer(board, rand.New(rand.NewPCG(1, 2))).Play()
	require.NoError(t, err)

	if outcome.Won {
		assert.Nil(t, outcome.FatalMove)
		assert.Equal(t, 1, outcome.Moves)
	} else {
		require.NotNil(t, outcome.FatalMove)
		assert.Equal(t, knowledge.Cell{Row: 0, Col: 1}, outcome.FatalMove.Cell)
		assert.True(t, outcome.FatalMove.Exploded)
	}
}

func TestStepAfterGameOver(t *testing.T) {
	board, err := mines.NewBoardWithMines(mines.GameParams{Width: 1, Height: 1}, nil)
	require.NoError(t, err)

	player := NewPlayer(board, rand.New(rand.NewPCG(1, 2)))

	move, err := player.Step()
	require.NoError(t, err)
	require.NotNil(t, move)
	assert.True(t, player.Done())

	move, err = player.Step()
	require.NoError(t, err)
	assert.Nil(t, move)
}

// play many seeded games and check the properties every finished game
// must satisfy, win or lose
func TestPlayProperties(t *testing.T) {
	params := mines.GameParams{Width: 5, Height: 5, MineCount: 3}

	for seed := uint64(1); seed <= 50; seed++ {
		rnd := rand.New(rand.NewPCG(seed, 0))
		board, err := mines.NewBoard(params, rnd)
		require.NoError(t, err)

		player := NewPlayer(board, rnd)
		outcome, err := player.Play()
		require.NoError(t, err, "seed %d", seed)

		assert.Equal(
			t, outcome.Moves, outcome.SafeMoves+outcome.RandomMoves,
			"seed %d", seed,
		)
		assert.Equal(t, outcome.Won, board.Won(), "seed %d", seed)

		if outcome.Won {
			assert.Nil(t, outcome.FatalMove, "seed %d", seed)
			assert.Equal(
				t, params.Width*params.Height-params.MineCount,
				outcome.Moves, "seed %d", seed,
			)
		} else {
			require.NotNil(t, outcome.FatalMove, "seed %d", seed)
			assert.True(
				t, board.MineAt(outcome.FatalMove.Cell),
				"seed %d: fatal move %v was not a mine",
				seed, outcome.FatalMove.Cell,
			)
			// safe moves are never wrong: only guesses explode
			assert.True(t, outcome.FatalMove.Random, "seed %d", seed)
		}

		// everything the agent deduced must agree with the board
		for _, m := range player.Agent().Mines() {
			assert.True(t, board.MineAt(m), "seed %d: false mine %v", seed, m)
		}
		for _, s := range player.Agent().Safes() {
			assert.False(t, board.MineAt(s), "seed %d: false safe %v", seed, s)
		}
	}
}

func TestAggregate(t *testing.T) {
	outcomes := []Outcome{
		{Won: true, Moves: 22, RandomMoves: 2},
		{Won: false, Moves: 10, RandomMoves: 4},
		{Won: true, Moves: 22, RandomMoves: 1},
		{Won: false, Moves: 6, RandomMoves: 3},
	}

	stats := Aggregate(outcomes)

	assert.Equal(t, 4, stats.Games)
	assert.Equal(t, 2, stats.Wins)
	assert.InDelta(t, 0.5, stats.WinRate, 1e-9)
	assert.InDelta(t, 15.0, stats.AvgMoves, 1e-9)
	assert.Equal(t, 10, stats.RandomMoves)
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0, stats.Games)
	assert.Zero(t, stats.WinRate)
	assert.Zero(t, stats.AvgMoves)
}

func TestRunBatchIsReproducible(t *testing.T) {
	params := BatchParams{
		Game:    mines.GameParams{Width: 5, Height: 5, MineCount: 3},
		Games:   20,
		Seed:    42,
		Workers: 4,
	}

	first, firstOutcomes, err := RunBatch(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, firstOutcomes, params.Games)

	// different worker count, same seed: identical games
	params.Workers = 1
	second, secondOutcomes, err := RunBatch(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, first.Wins, second.Wins)
	assert.Equal(t, first.AvgMoves, second.AvgMoves)
	assert.Equal(t, first.RandomMoves, second.RandomMoves)
	for i := range firstOutcomes {
		assert.Equal(t, firstOutcomes[i].Won, secondOutcomes[i].Won, "game %d", i)
		assert.Equal(t, firstOutcomes[i].Moves, secondOutcomes[i].Moves, "game %d", i)
	}
}

func TestRunBatchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := RunBatch(ctx, BatchParams{
		Game:  mines.GameParams{Width: 16, Height: 16, MineCount: 40},
		Games: 1000,
		Seed:  1,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatchRejectsBadGameParams(t *testing.T) {
	_, _, err := RunBatch(context.Background(), BatchParams{
		Game:  mines.GameParams{Width: 0, Height: 0, MineCount: 1},
		Games: 1,
		Seed:  1,
	})
	assert.Error(t, err)
}
