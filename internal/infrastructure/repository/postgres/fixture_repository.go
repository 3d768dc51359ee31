package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	qb "github.com/riskibarqy/pool-league/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	return getFixture(ctx, r.db, fixtureID, false)
}

func (r *FixtureRepository) List(ctx context.Context, filter fixture.Filter) ([]fixture.Fixture, error) {
	return selectFixtures(ctx, r.db, fixtureConditions(filter))
}

func (r *FixtureRepository) Create(ctx context.Context, f fixture.Fixture) (fixture.Fixture, error) {
	return insertFixture(ctx, r.db, f)
}

func (r *FixtureRepository) Update(ctx context.Context, fixtureID int64, patch fixture.Patch) (fixture.Fixture, bool, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, fixtureID)
	}

	var row fixtureTableModel
	found, err := updateFixture(ctx, r.db, fixtureID, patch, &row)
	if err != nil || !found {
		return fixture.Fixture{}, found, err
	}
	return fixtureFromRow(row), true, nil
}

func fixtureConditions(filter fixture.Filter) []qb.Condition {
	conds := make([]qb.Condition, 0, 6)
	if filter.SessionID != nil {
		conds = append(conds, qb.Eq("session_id", *filter.SessionID))
	}
	if filter.DivisionID != nil {
		conds = append(conds, qb.Eq("division_id", *filter.DivisionID))
	}
	if filter.PlayerID != nil {
		conds = append(conds, qb.Or(
			qb.Eq("player1_id", *filter.PlayerID),
			qb.Eq("player2_id", *filter.PlayerID),
		))
	}
	if filter.Completed != nil {
		conds = append(conds, qb.Eq("completed", *filter.Completed))
	}
	if filter.From != nil {
		conds = append(conds, qb.Gte("scheduled_date", filter.From.UTC()))
	}
	if filter.To != nil {
		conds = append(conds, qb.Lt("scheduled_date", filter.To.UTC()))
	}
	return conds
}

// pendingForPlayers matches incomplete fixtures involving any of playerIDs.
func pendingForPlayers(playerIDs []int64) []qb.Condition {
	return []qb.Condition{
		qb.Eq("completed", false),
		qb.Or(
			qb.Any("player1_id", pq.Array(playerIDs)),
			qb.Any("player2_id", pq.Array(playerIDs)),
		),
	}
}

func selectFixtures(ctx context.Context, q sqlx.QueryerContext, conds []qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(conds...).
		OrderBy("scheduled_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}

func getFixture(ctx context.Context, q sqlx.QueryerContext, fixtureID int64, lock bool) (fixture.Fixture, bool, error) {
	b := qb.Select(fixtureSelectColumns...).From("fixtures").Where(qb.Eq("id", fixtureID))
	if lock {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}
	return fixtureFromRow(row), true, nil
}

func updateFixture(ctx context.Context, q sqlx.QueryerContext, fixtureID int64, patch fixture.Patch, dest *fixtureTableModel) (bool, error) {
	b := qb.Update("fixtures")
	if patch.Player1Rating != nil {
		b.Set("player1_rating", *patch.Player1Rating)
	}
	if patch.Player2Rating != nil {
		b.Set("player2_rating", *patch.Player2Rating)
	}
	if patch.ScheduledDate != nil {
		b.Set("scheduled_date", patch.ScheduledDate.UTC())
	}
	if patch.Completed != nil {
		b.Set("completed", *patch.Completed)
	}
	if patch.ReminderSent != nil {
		b.Set("reminder_sent", *patch.ReminderSent)
	}
	if patch.WinnerID != nil {
		b.Set("winner_id", *patch.WinnerID)
	}
	if patch.LoserID != nil {
		b.Set("loser_id", *patch.LoserID)
	}
	b.SetExpr("updated_at", "NOW()")

	query, args, err := b.Where(qb.Eq("id", fixtureID)).
		Returning(fixtureSelectColumns...).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update fixture query: %w", err)
	}

	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("update fixture: %w", err)
	}
	return true, nil
}

func insertFixture(ctx context.Context, q sqlx.QueryerContext, f fixture.Fixture) (fixture.Fixture, error) {
	query, args, err := qb.InsertModel("fixtures", fixtureInsertFrom(f), fixtureSelectColumns...)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("build insert fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		return fixture.Fixture{}, fmt.Errorf("insert fixture: %w", err)
	}
	return fixtureFromRow(row), nil
}

// replacePendingFixtures deletes the pending fixtures of a session and
// inserts fixtures in one round trip each. Completed rows are untouched.
func replacePendingFixtures(ctx context.Context, q sqlx.ExtContext, sessionID int64, fixtures []fixture.Fixture) ([]fixture.Fixture, error) {
	deleteQuery, deleteArgs, err := qb.DeleteFrom("fixtures").
		Where(
			qb.Eq("session_id", sessionID),
			qb.Eq("completed", false),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build delete pending fixtures query: %w", err)
	}
	if _, err := q.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("delete pending fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(fixtures))
	if len(fixtures) == 0 {
		return out, nil
	}

	rows := make([]fixtureInsertModel, 0, len(fixtures))
	for _, f := range fixtures {
		f.SessionID = sessionID
		rows = append(rows, fixtureInsertFrom(f))
	}
	query, args, err := qb.InsertRows("fixtures", rows, fixtureSelectColumns...)
	if err != nil {
		return nil, fmt.Errorf("build insert fixtures query: %w", err)
	}

	var inserted []fixtureTableModel
	if err := sqlx.SelectContext(ctx, q, &inserted, query, args...); err != nil {
		return nil, fmt.Errorf("insert fixtures: %w", err)
	}
	for _, row := range inserted {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}
