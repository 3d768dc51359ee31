package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/riskibarqy/pool-league/internal/domain/session"
)

type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(_ context.Context, s session.Session) (session.Session, error) {
	r.store.write(func(a *arena) {
		a.seq.session++
		s.ID = a.seq.session
		a.sessions[s.ID] = s
	})
	return s, nil
}

func (r *SessionRepository) GetByID(_ context.Context, sessionID int64) (session.Session, bool, error) {
	var (
		out    session.Session
		exists bool
	)
	r.store.read(func(a *arena) {
		out, exists = a.sessions[sessionID]
	})
	return out, exists, nil
}

// List orders sessions by start date, newest first.
func (r *SessionRepository) List(_ context.Context, activeOnly bool) ([]session.Session, error) {
	var out []session.Session
	r.store.read(func(a *arena) {
		out = make([]session.Session, 0, len(a.sessions))
		for _, s := range a.sessions {
			if activeOnly && !s.Active {
				continue
			}
			out = append(out, s)
		}
	})
	slices.SortFunc(out, func(x, y session.Session) int {
		if c := y.StartDate.Compare(x.StartDate); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return out, nil
}

func (r *SessionRepository) Update(_ context.Context, sessionID int64, patch session.Patch) (session.Session, bool, error) {
	var (
		out    session.Session
		exists bool
	)
	r.store.write(func(a *arena) {
		out, exists = a.sessions[sessionID]
		if !exists {
			return
		}
		out = patch.Apply(out)
		a.sessions[sessionID] = out
	})
	return out, exists, nil
}
