// Package cache decorates read-mostly repositories with a TTL cache.
// Writes through a decorator invalidate the keys they can affect.
package cache

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	basecache "github.com/riskibarqy/pool-league/internal/platform/cache"
)

type DivisionRepository struct {
	next    division.Repository
	lists   *basecache.Store[[]division.Division]
	byID    *basecache.Store[cachedDivisionByID]
	members *basecache.Store[[]int64]
}

type cachedDivisionByID struct {
	value  division.Division
	exists bool
}

func NewDivisionRepository(next division.Repository, ttl time.Duration) *DivisionRepository {
	return &DivisionRepository{
		next:    next,
		lists:   basecache.NewStore[[]division.Division](ttl),
		byID:    basecache.NewStore[cachedDivisionByID](ttl),
		members: basecache.NewStore[[]int64](ttl),
	}
}

func (r *DivisionRepository) Create(ctx context.Context, d division.Division) (division.Division, error) {
	out, err := r.next.Create(ctx, d)
	if err != nil {
		return division.Division{}, err
	}
	r.lists.DeletePrefix(ctx, "division:list:")
	return out, nil
}

func (r *DivisionRepository) GetByID(ctx context.Context, divisionID int64) (division.Division, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, divisionKey(divisionID), func(ctx context.Context) (cachedDivisionByID, error) {
		item, exists, err := r.next.GetByID(ctx, divisionID)
		if err != nil {
			return cachedDivisionByID{}, err
		}
		return cachedDivisionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return division.Division{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *DivisionRepository) List(ctx context.Context, activeOnly bool) ([]division.Division, error) {
	key := "division:list:" + strconv.FormatBool(activeOnly)
	items, err := r.lists.GetOrLoad(ctx, key, func(ctx context.Context) ([]division.Division, error) {
		return r.next.List(ctx, activeOnly)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *DivisionRepository) Update(ctx context.Context, divisionID int64, patch division.Patch) (division.Division, bool, error) {
	out, exists, err := r.next.Update(ctx, divisionID, patch)
	if err != nil {
		return division.Division{}, false, err
	}
	r.byID.Delete(ctx, divisionKey(divisionID))
	r.lists.DeletePrefix(ctx, "division:list:")
	return out, exists, nil
}

func (r *DivisionRepository) AddPlayer(ctx context.Context, divisionID, playerID int64) error {
	if err := r.next.AddPlayer(ctx, divisionID, playerID); err != nil {
		return err
	}
	r.invalidateMembership(ctx, divisionID, playerID)
	return nil
}

func (r *DivisionRepository) RemovePlayer(ctx context.Context, divisionID, playerID int64) (bool, error) {
	removed, err := r.next.RemovePlayer(ctx, divisionID, playerID)
	if err != nil {
		return false, err
	}
	r.invalidateMembership(ctx, divisionID, playerID)
	return removed, nil
}

func (r *DivisionRepository) ListPlayerIDs(ctx context.Context, divisionID int64) ([]int64, error) {
	ids, err := r.members.GetOrLoad(ctx, rosterKey(divisionID), func(ctx context.Context) ([]int64, error) {
		return r.next.ListPlayerIDs(ctx, divisionID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(ids), nil
}

func (r *DivisionRepository) ListDivisionIDsByPlayer(ctx context.Context, playerID int64) ([]int64, error) {
	ids, err := r.members.GetOrLoad(ctx, playerDivisionsKey(playerID), func(ctx context.Context) ([]int64, error) {
		return r.next.ListDivisionIDsByPlayer(ctx, playerID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(ids), nil
}

func (r *DivisionRepository) invalidateMembership(ctx context.Context, divisionID, playerID int64) {
	r.members.Delete(ctx, rosterKey(divisionID))
	r.members.Delete(ctx, playerDivisionsKey(playerID))
}

func divisionKey(id int64) string {
	return "division:id:" + strconv.FormatInt(id, 10)
}

func rosterKey(divisionID int64) string {
	return "division:roster:" + strconv.FormatInt(divisionID, 10)
}

func playerDivisionsKey(playerID int64) string {
	return "division:player:" + strconv.FormatInt(playerID, 10)
}

type SessionRepository struct {
	next  session.Repository
	lists *basecache.Store[[]session.Session]
	byID  *basecache.Store[cachedSessionByID]
}

type cachedSessionByID struct {
	value  session.Session
	exists bool
}

func NewSessionRepository(next session.Repository, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		next:  next,
		lists: basecache.NewStore[[]session.Session](ttl),
		byID:  basecache.NewStore[cachedSessionByID](ttl),
	}
}

func (r *SessionRepository) Create(ctx context.Context, s session.Session) (session.Session, error) {
	out, err := r.next.Create(ctx, s)
	if err != nil {
		return session.Session{}, err
	}
	r.lists.DeletePrefix(ctx, "session:list:")
	return out, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (session.Session, bool, error) {
	key := "session:id:" + strconv.FormatInt(sessionID, 10)
	cached, err := r.byID.GetOrLoad(ctx, key, func(ctx context.Context) (cachedSessionByID, error) {
		item, exists, err := r.next.GetByID(ctx, sessionID)
		if err != nil {
			return cachedSessionByID{}, err
		}
		return cachedSessionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return session.Session{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *SessionRepository) List(ctx context.Context, activeOnly bool) ([]session.Session, error) {
	key := "session:list:" + strconv.FormatBool(activeOnly)
	items, err := r.lists.GetOrLoad(ctx, key, func(ctx context.Context) ([]session.Session, error) {
		return r.next.List(ctx, activeOnly)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *SessionRepository) Update(ctx context.Context, sessionID int64, patch session.Patch) (session.Session, bool, error) {
	out, exists, err := r.next.Update(ctx, sessionID, patch)
	if err != nil {
		return session.Session{}, false, err
	}
	r.byID.Delete(ctx, "session:id:"+strconv.FormatInt(sessionID, 10))
	r.lists.DeletePrefix(ctx, "session:list:")
	return out, exists, nil
}
