package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	qb "github.com/riskibarqy/pool-league/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context, filter game.Filter) ([]game.Game, error) {
	if filter.FixtureIDs != nil && len(filter.FixtureIDs) == 0 {
		return []game.Game{}, nil
	}

	query, args, err := qb.Select(gameSelectColumns...).From("games").
		Where(gameConditions(filter)...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func gameConditions(filter game.Filter) []qb.Condition {
	conds := make([]qb.Condition, 0, 3)
	if filter.FixtureID != nil {
		conds = append(conds, qb.Eq("fixture_id", *filter.FixtureID))
	}
	if filter.FixtureIDs != nil {
		conds = append(conds, qb.Any("fixture_id", pq.Array(filter.FixtureIDs)))
	}
	if filter.PlayerID != nil {
		conds = append(conds, qb.Or(
			qb.Eq("winner_id", *filter.PlayerID),
			qb.Eq("loser_id", *filter.PlayerID),
		))
	}
	return conds
}

func insertGames(ctx context.Context, q sqlx.QueryerContext, games []game.Game) ([]game.Game, error) {
	if len(games) == 0 {
		return []game.Game{}, nil
	}

	rows := make([]gameInsertModel, 0, len(games))
	for _, g := range games {
		rows = append(rows, gameInsertFrom(g))
	}
	query, args, err := qb.InsertRows("games", rows, gameSelectColumns...)
	if err != nil {
		return nil, fmt.Errorf("build insert games query: %w", err)
	}

	var inserted []gameTableModel
	if err := sqlx.SelectContext(ctx, q, &inserted, query, args...); err != nil {
		return nil, fmt.Errorf("insert games: %w", err)
	}

	out := make([]game.Game, 0, len(inserted))
	for _, row := range inserted {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}
