package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sweepmind/minesweeper-agent/internal/config"
	"github.com/sweepmind/minesweeper-agent/internal/middleware"
	"github.com/sweepmind/minesweeper-agent/internal/mines"
	"github.com/sweepmind/minesweeper-agent/internal/repository"
	"github.com/sweepmind/minesweeper-agent/internal/solver"
)

// maxGamesPerRequest bounds synchronous batch work per request.
const maxGamesPerRequest = 1000

type RunHandler struct {
	logger  *slog.Logger
	repo    *repository.Queries
	decoder *schema.Decoder
}

func NewRunHandler(logger *slog.Logger, db *pgxpool.Pool) *RunHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &RunHandler{
		logger:  logger,
		repo:    repository.New(db),
		decoder: decoder,
	}
}

type RunRequest struct {
	Width     int    `schema:"width,required"`
	Height    int    `schema:"height,required"`
	MineCount int    `schema:"mine_count,required"`
	Games     int    `schema:"games"`
	Seed      uint64 `schema:"seed"`
	Workers   int    `schema:"workers"`
}

func (h RunHandler) parseRunRequest(query url.Values) (*solver.BatchParams, error) {
	var req RunRequest
	if err := h.decoder.Decode(&req, query); err != nil {
		return nil, err
	}
	if req.Games <= 0 {
		req.Games = 1
	}
	if req.Games > maxGamesPerRequest {
		return nil, fmt.Errorf("games must not exceed %d", maxGamesPerRequest)
	}
	if req.Workers <= 0 {
		req.Workers = runtime.NumCPU()
	}
	params := &solver.BatchParams{
		Game: mines.GameParams{
			Width:     req.Width,
			Height:    req.Height,
			MineCount: req.MineCount,
		},
		Games:   req.Games,
		Seed:    req.Seed,
		Workers: req.Workers,
	}
	if err := params.Game.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

type RunResponse struct {
	Stats *solver.Stats `json:"stats"`
	Runs  []int64       `json:"run_ids"`
}

// Submit plays a batch of games and archives every outcome. Runs made
// by a logged-in account are attributed to it.
func (h RunHandler) Submit(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseRunRequest(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	stats, outcomes, err := solver.RunBatch(r.Context(), *params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("batch failed", "error", err)
		return
	}

	var accountId *int64
	if claims, ok := r.Context().Value(middleware.CtxAccountClaims).(*config.AccountClaims); ok {
		accountId = &claims.AccountId
	}

	runIds := make([]int64, 0, len(outcomes))
	for i, outcome := range outcomes {
		run, err := h.repo.CreateAgentRun(r.Context(), repository.CreateAgentRunParams{
			AccountId:   accountId,
			Width:       params.Game.Width,
			Height:      params.Game.Height,
			MineCount:   params.Game.MineCount,
			Seed:        int64(params.Seed),
			Stream:      int64(i),
			Won:         outcome.Won,
			Moves:       outcome.Moves,
			SafeMoves:   outcome.SafeMoves,
			RandomMoves: outcome.RandomMoves,
			PlaytimeMs:  float64(outcome.Playtime.Microseconds()) / 1000,
		})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.Error("unable to archive run", "error", err)
			return
		}
		runIds = append(runIds, run.AgentRunId)
	}

	sendJSONOrLog(w, h.logger, RunResponse{Stats: stats, Runs: runIds})
}

func (h RunHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	runId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	run, err := h.repo.FetchAgentRun(r.Context(), runId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch run from db", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, run)
}

func (h RunHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter repository.LeaderboardFilter
	if username := query.Get("username"); username != "" {
		filter.Username = &username
	}
	if seed := query.Get("board"); seed != "" {
		params, err := mines.ParseSeed(seed)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, h.logger, wrapError(err))
			return
		}
		filter.GameParams = params
	}

	leaderboard, err := h.repo.GetLeaderboard(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch leaderboard", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, leaderboard)
}
