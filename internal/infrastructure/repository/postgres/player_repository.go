package postgres

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	qb "github.com/riskibarqy/pool-league/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (player.Player, error) {
	insertModel := playerInsertModel{
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		Phone:              p.Phone,
		Rating:             p.Rating,
		GamesPlayed:        p.GamesPlayed,
		EmailNotifications: p.EmailNotifications,
		MatchReminders:     p.MatchReminders,
	}
	query, args, err := qb.InsertModel("players", insertModel, playerSelectColumns...)
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}
	return playerFromRow(row), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	return selectPlayersByIDs(ctx, r.db, playerIDs, qb.NoLock)
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("last_name", "first_name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) Update(ctx context.Context, playerID int64, patch player.Patch) (player.Player, bool, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, playerID)
	}

	var row playerTableModel
	found, err := updatePlayer(ctx, r.db, playerID, patch, &row)
	if err != nil || !found {
		return player.Player{}, found, err
	}
	return playerFromRow(row), true, nil
}

// selectPlayersByIDs returns the distinct players in ascending id order.
// With lock set the rows stay locked until q's transaction ends.
func selectPlayersByIDs(ctx context.Context, q sqlx.QueryerContext, playerIDs []int64, lock qb.LockMode) ([]player.Player, error) {
	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Any("id", pq.Array(ids))).
		OrderBy("id").
		Lock(lock).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

// updatePlayer writes patch and scans the updated row into dest.
func updatePlayer(ctx context.Context, q sqlx.QueryerContext, playerID int64, patch player.Patch, dest *playerTableModel) (bool, error) {
	b := qb.Update("players")
	if patch.FirstName != nil {
		b.Set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		b.Set("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		b.Set("email", *patch.Email)
	}
	if patch.Phone != nil {
		b.Set("phone", *patch.Phone)
	}
	if patch.Rating != nil {
		b.Set("rating", *patch.Rating)
	}
	if patch.GamesPlayed != nil {
		b.Set("games_played", *patch.GamesPlayed)
	}
	if patch.EmailNotifications != nil {
		b.Set("email_notifications", *patch.EmailNotifications)
	}
	if patch.MatchReminders != nil {
		b.Set("match_reminders", *patch.MatchReminders)
	}
	b.SetExpr("updated_at", "NOW()")

	query, args, err := b.Where(qb.Eq("id", playerID)).
		Returning(playerSelectColumns...).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update player query: %w", err)
	}

	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("update player: %w", err)
	}
	return true, nil
}
