package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AgentRun is one archived game played by the deduction agent.
type AgentRun struct {
	AgentRunId  int64              `json:"agent_run_id"`
	AccountId   *int64             `json:"account_id,omitempty"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	MineCount   int                `json:"mine_count"`
	Seed        int64              `json:"seed"`
	Stream      int64              `json:"stream"`
	Won         bool               `json:"won"`
	Moves       int                `json:"moves"`
	SafeMoves   int                `json:"safe_moves"`
	RandomMoves int                `json:"random_moves"`
	PlaytimeMs  float64            `json:"playtime_ms"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type CreateAgentRunParams struct {
	AccountId   *int64
	Width       int
	Height      int
	MineCount   int
	Seed        int64
	Stream      int64
	Won         bool
	Moves       int
	SafeMoves   int
	RandomMoves int
	PlaytimeMs  float64
}

func (p CreateAgentRunParams) Args() pgx.NamedArgs {
	args := pgx.NamedArgs{
		"width":        p.Width,
		"height":       p.Height,
		"mine_count":   p.MineCount,
		"seed":         p.Seed,
		"stream":       p.Stream,
		"won":          p.Won,
		"moves":        p.Moves,
		"safe_moves":   p.SafeMoves,
		"random_moves": p.RandomMoves,
		"playtime_ms":  p.PlaytimeMs,
	}
	if p.AccountId != nil {
		args["account_id"] = *p.AccountId
	} else {
		args["account_id"] = nil
	}
	return args
}

func (q *Queries) CreateAgentRun(
	ctx context.Context, params CreateAgentRunParams,
) (*AgentRun, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO agent_run (
			account_id, width, height, mine_count, seed, stream,
			won, moves, safe_moves, random_moves, playtime_ms
		)
		VALUES (
			@account_id, @width, @height, @mine_count, @seed, @stream,
			@won, @moves, @safe_moves, @random_moves, @playtime_ms
		)
		RETURNING *;`,
		params.Args(),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentRun])
}

func (q *Queries) FetchAgentRun(ctx context.Context, agentRunId int64) (*AgentRun, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM agent_run WHERE agent_run_id = $1", agentRunId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentRun])
}
