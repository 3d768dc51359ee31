package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	qb "github.com/riskibarqy/pool-league/internal/platform/querybuilder"
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	query, args, err := qb.InsertModel("sessions", sessionInsertModel{
		Name:      s.Name,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		MatchTime: s.MatchTime,
		Active:    s.Active,
	}, sessionSelectColumns...)
	if err != nil {
		return session.Session{}, fmt.Errorf("build insert session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return session.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sessionFromRow(row), nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (session.Session, bool, error) {
	query, args, err := qb.Select(sessionSelectColumns...).From("sessions").
		Where(qb.Eq("id", sessionID)).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build get session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	return sessionFromRow(row), true, nil
}

func (r *SessionRepository) List(ctx context.Context, activeOnly bool) ([]session.Session, error) {
	b := qb.Select(sessionSelectColumns...).From("sessions").OrderBy("start_date DESC", "id DESC")
	if activeOnly {
		b.Where(qb.Eq("active", true))
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sessions query: %w", err)
	}

	var rows []sessionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, sessionFromRow(row))
	}
	return out, nil
}

func (r *SessionRepository) Update(ctx context.Context, sessionID int64, patch session.Patch) (session.Session, bool, error) {
	b := qb.Update("sessions")
	if patch.Name != nil {
		b.Set("name", *patch.Name)
	}
	if patch.StartDate != nil {
		b.Set("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		b.Set("end_date", *patch.EndDate)
	}
	if patch.MatchTime != nil {
		b.Set("match_time", *patch.MatchTime)
	}
	if patch.Active != nil {
		b.Set("active", *patch.Active)
	}
	if !b.HasSets() {
		return r.GetByID(ctx, sessionID)
	}

	query, args, err := b.Where(qb.Eq("id", sessionID)).
		Returning(sessionSelectColumns...).
		ToSQL()
	if err != nil {
		return session.Session{}, false, fmt.Errorf("build update session query: %w", err)
	}

	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("update session: %w", err)
	}
	return sessionFromRow(row), true, nil
}
