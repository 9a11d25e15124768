package handlers

import (
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"

	"github.com/sweepmind/minesweeper-agent/internal/config"
	"github.com/sweepmind/minesweeper-agent/internal/mines"
	"github.com/sweepmind/minesweeper-agent/internal/solver"
)

type WatchHandler struct {
	logger  *slog.Logger
	ws      *config.WebSocket
	decoder *schema.Decoder
}

func NewWatchHandler(logger *slog.Logger, ws *config.WebSocket) *WatchHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &WatchHandler{
		logger:  logger,
		ws:      ws,
		decoder: decoder,
	}
}

type WatchRequest struct {
	Width     int    `schema:"width,required"`
	Height    int    `schema:"height,required"`
	MineCount int    `schema:"mine_count,required"`
	Seed      uint64 `schema:"seed"`
}

type WatchEvent struct {
	Move    *solver.Move    `json:"move,omitempty"`
	View    string          `json:"view,omitempty"`
	Outcome *solver.Outcome `json:"outcome,omitempty"`
}

/*
Watch streams a single live game over a websocket: one event per move
with the player's view of the board, then a final event carrying the
outcome and the true layout.
*/
func (h WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	var req WatchRequest
	if err := h.decoder.Decode(&req, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	params := mines.GameParams{
		Width:     req.Width,
		Height:    req.Height,
		MineCount: req.MineCount,
	}
	// seed=0 means "surprise me"
	seed := req.Seed
	if seed == 0 {
		seed = new(maphash.Hash).Sum64()
	}
	rnd := rand.New(rand.NewPCG(seed, 0))
	board, err := mines.NewBoard(params, rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	player := solver.NewPlayer(board, rnd)
	for {
		move, err := player.Step()
		if err != nil {
			h.logger.Error("game aborted", "error", err)
			return
		}
		if move == nil {
			break
		}
		event := WatchEvent{
			Move: move,
			View: board.RenderView(player.Agent().Mines()),
		}
		if err := conn.WriteJSON(event); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.logger.Warn("write failed", "error", err)
			}
			return
		}
		if move.Exploded {
			break
		}
	}

	final := WatchEvent{
		View:    board.Render(),
		Outcome: player.Outcome(),
	}
	if err := conn.WriteJSON(final); err != nil {
		h.logger.Warn("write failed", "error", err)
	}
}
