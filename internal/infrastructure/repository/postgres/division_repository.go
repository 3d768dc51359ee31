package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	qb "github.com/riskibarqy/pool-league/internal/platform/querybuilder"
)

type DivisionRepository struct {
	db *sqlx.DB
}

func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

func (r *DivisionRepository) Create(ctx context.Context, d division.Division) (division.Division, error) {
	query, args, err := qb.InsertModel("divisions", divisionInsertModel{
		Name:      d.Name,
		DayOfWeek: int(d.DayOfWeek),
		Active:    d.Active,
	}, divisionSelectColumns...)
	if err != nil {
		return division.Division{}, fmt.Errorf("build insert division query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return division.Division{}, fmt.Errorf("insert division: %w", err)
	}
	return divisionFromRow(row), nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, divisionID int64) (division.Division, bool, error) {
	query, args, err := qb.Select(divisionSelectColumns...).From("divisions").
		Where(qb.Eq("id", divisionID)).
		ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build get division query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("get division: %w", err)
	}
	return divisionFromRow(row), true, nil
}

func (r *DivisionRepository) List(ctx context.Context, activeOnly bool) ([]division.Division, error) {
	b := qb.Select(divisionSelectColumns...).From("divisions").OrderBy("day_of_week", "name", "id")
	if activeOnly {
		b.Where(qb.Eq("active", true))
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list divisions query: %w", err)
	}

	var rows []divisionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}

	out := make([]division.Division, 0, len(rows))
	for _, row := range rows {
		out = append(out, divisionFromRow(row))
	}
	return out, nil
}

func (r *DivisionRepository) Update(ctx context.Context, divisionID int64, patch division.Patch) (division.Division, bool, error) {
	b := qb.Update("divisions")
	if patch.Name != nil {
		b.Set("name", *patch.Name)
	}
	if patch.DayOfWeek != nil {
		b.Set("day_of_week", int(*patch.DayOfWeek))
	}
	if patch.Active != nil {
		b.Set("active", *patch.Active)
	}
	if !b.HasSets() {
		return r.GetByID(ctx, divisionID)
	}

	query, args, err := b.Where(qb.Eq("id", divisionID)).
		Returning(divisionSelectColumns...).
		ToSQL()
	if err != nil {
		return division.Division{}, false, fmt.Errorf("build update division query: %w", err)
	}

	var row divisionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return division.Division{}, false, nil
		}
		return division.Division{}, false, fmt.Errorf("update division: %w", err)
	}
	return divisionFromRow(row), true, nil
}

func (r *DivisionRepository) AddPlayer(ctx context.Context, divisionID, playerID int64) error {
	query, args, err := qb.InsertInto("division_players").
		Columns("division_id", "player_id").
		Values(divisionID, playerID).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert division player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: division=%d player=%d", division.ErrDuplicateMember, divisionID, playerID)
		}
		return fmt.Errorf("insert division player: %w", err)
	}
	return nil
}

func (r *DivisionRepository) RemovePlayer(ctx context.Context, divisionID, playerID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("division_players").
		Where(
			qb.Eq("division_id", divisionID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete division player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete division player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete division player rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *DivisionRepository) ListPlayerIDs(ctx context.Context, divisionID int64) ([]int64, error) {
	query, args, err := qb.Select("player_id").From("division_players").
		Where(qb.Eq("division_id", divisionID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list division players query: %w", err)
	}

	out := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list division players: %w", err)
	}
	return out, nil
}

func (r *DivisionRepository) ListDivisionIDsByPlayer(ctx context.Context, playerID int64) ([]int64, error) {
	query, args, err := qb.Select("division_id").From("division_players").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("division_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player divisions query: %w", err)
	}

	out := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list player divisions: %w", err)
	}
	return out, nil
}
