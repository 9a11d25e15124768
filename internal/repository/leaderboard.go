package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sweepmind/minesweeper-agent/internal/mines"
)

// LeaderboardRow ranks winning runs: the fewer guesses the agent
// needed, the stronger the run.
type LeaderboardRow struct {
	AgentRunId  int64   `json:"agent_run_id"`
	Username    *string `json:"username"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	MineCount   int     `json:"mine_count"`
	Moves       int     `json:"moves"`
	RandomMoves int     `json:"random_moves"`
	PlaytimeMs  float64 `json:"playtime_ms"`
}

type LeaderboardFilter struct {
	Username   *string
	GameParams *mines.GameParams
}

func (f LeaderboardFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mineCount"] = f.GameParams.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetLeaderboard(
	ctx context.Context, filter LeaderboardFilter,
) ([]LeaderboardRow, error) {
	query := `
	SELECT
		agent_run_id,
		username,
		width,
		height,
		mine_count,
		moves,
		random_moves,
		playtime_ms
	FROM agent_run
		LEFT OUTER JOIN account USING (account_id)
	WHERE won = true
	`
	where, args := filter.WhereClause()
	if where != "" {
		query += " AND " + where
	}
	query += `
	ORDER BY random_moves ASC, playtime_ms ASC
	LIMIT 50`

	rows, _ := q.db.Query(ctx, query, args)
	return pgx.CollectRows(rows, pgx.RowToStructByName[LeaderboardRow])
}
