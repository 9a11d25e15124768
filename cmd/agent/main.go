package main

import (
	"context"
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/sweepmind/minesweeper-agent/internal/knowledge"
	"github.com/sweepmind/minesweeper-agent/internal/mines"
	"github.com/sweepmind/minesweeper-agent/internal/solver"
)

var (
	log = logrus.New()

	width     int
	height    int
	mineCount int
	games     int
	workers   int
	seed      uint64
	logFile   string
	verbose   bool
)

func init() {
	flag.IntVar(&width, "width", 9, "board width")
	flag.IntVar(&height, "height", 9, "board height")
	flag.IntVar(&mineCount, "mines", 10, "number of mines")
	flag.IntVar(&games, "games", 1, "number of games to play")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "parallel games")
	flag.Uint64Var(&seed, "seed", 0, "rng seed (0 picks a random one)")
	flag.StringVar(&logFile, "log-file", "", "also log to a rotating file")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
}

func setupLogging() {
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		knowledge.Log.SetLevel(logrus.DebugLevel)
		solver.Log.SetLevel(logrus.InfoLevel)
	}
	if logFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logrus.DebugLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			log.Fatal("unable to create log file hook: ", err)
		}
		log.AddHook(hook)
		solver.Log.AddHook(hook)
	}
}

func playOne(params mines.GameParams) error {
	rnd := rand.New(rand.NewPCG(seed, 0))
	board, err := mines.NewBoard(params, rnd)
	if err != nil {
		return err
	}

	player := solver.NewPlayer(board, rnd)
	outcome, err := player.Play()
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"won":    outcome.Won,
		"moves":  outcome.Moves,
		"safe":   outcome.SafeMoves,
		"random": outcome.RandomMoves,
	}).Info("game over")

	fmt.Println("final view (deduced mines marked *):")
	fmt.Print(board.RenderView(player.Agent().Mines()))
	fmt.Println("truth:")
	fmt.Print(board.Render())
	return nil
}

func playBatch(ctx context.Context, params mines.GameParams) error {
	stats, _, err := solver.RunBatch(ctx, solver.BatchParams{
		Game:    params,
		Games:   games,
		Seed:    seed,
		Workers: workers,
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"games":    stats.Games,
		"wins":     stats.Wins,
		"winRate":  fmt.Sprintf("%.1f%%", stats.WinRate*100),
		"avgMoves": fmt.Sprintf("%.1f", stats.AvgMoves),
		"guesses":  stats.RandomMoves,
		"playtime": stats.Playtime.String(),
	}).Info("batch finished")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()
	setupLogging()

	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}

	params := mines.GameParams{Width: width, Height: height, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		log.Fatal(err)
	}

	log.WithFields(logrus.Fields{
		"board": params.Seed(), "games": games, "seed": seed,
	}).Info("starting")

	var err error
	if games == 1 {
		err = playOne(params)
	} else {
		err = playBatch(ctx, params)
	}
	if err != nil {
		log.Fatal(err)
	}
}
