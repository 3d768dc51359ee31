package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/pool-league/internal/domain/division"
)

type DivisionRepository struct {
	store *Store
}

func NewDivisionRepository(store *Store) *DivisionRepository {
	return &DivisionRepository{store: store}
}

func (r *DivisionRepository) Create(_ context.Context, d division.Division) (division.Division, error) {
	r.store.write(func(a *arena) {
		a.seq.division++
		d.ID = a.seq.division
		a.divisions[d.ID] = d
	})
	return d, nil
}

func (r *DivisionRepository) GetByID(_ context.Context, divisionID int64) (division.Division, bool, error) {
	var (
		out    division.Division
		exists bool
	)
	r.store.read(func(a *arena) {
		out, exists = a.divisions[divisionID]
	})
	return out, exists, nil
}

func (r *DivisionRepository) List(_ context.Context, activeOnly bool) ([]division.Division, error) {
	var out []division.Division
	r.store.read(func(a *arena) {
		out = make([]division.Division, 0, len(a.divisions))
		for _, d := range a.divisions {
			if activeOnly && !d.Active {
				continue
			}
			out = append(out, d)
		}
	})
	slices.SortFunc(out, func(x, y division.Division) int {
		return cmp.Compare(x.ID, y.ID)
	})
	return out, nil
}

func (r *DivisionRepository) Update(_ context.Context, divisionID int64, patch division.Patch) (division.Division, bool, error) {
	var (
		out    division.Division
		exists bool
	)
	r.store.write(func(a *arena) {
		out, exists = a.divisions[divisionID]
		if !exists {
			return
		}
		out = patch.Apply(out)
		a.divisions[divisionID] = out
	})
	return out, exists, nil
}

func (r *DivisionRepository) AddPlayer(_ context.Context, divisionID, playerID int64) error {
	var err error
	r.store.write(func(a *arena) {
		set, ok := a.members[divisionID]
		if !ok {
			set = make(map[int64]struct{})
			a.members[divisionID] = set
		}
		if _, dup := set[playerID]; dup {
			err = fmt.Errorf("%w: division=%d player=%d", division.ErrDuplicateMember, divisionID, playerID)
			return
		}
		set[playerID] = struct{}{}
	})
	return err
}

func (r *DivisionRepository) RemovePlayer(_ context.Context, divisionID, playerID int64) (bool, error) {
	removed := false
	r.store.write(func(a *arena) {
		set := a.members[divisionID]
		if _, ok := set[playerID]; ok {
			delete(set, playerID)
			removed = true
		}
	})
	return removed, nil
}

func (r *DivisionRepository) ListPlayerIDs(_ context.Context, divisionID int64) ([]int64, error) {
	var out []int64
	r.store.read(func(a *arena) {
		out = make([]int64, 0, len(a.members[divisionID]))
		for id := range a.members[divisionID] {
			out = append(out, id)
		}
	})
	slices.Sort(out)
	return out, nil
}

func (r *DivisionRepository) ListDivisionIDsByPlayer(_ context.Context, playerID int64) ([]int64, error) {
	var out []int64
	r.store.read(func(a *arena) {
		for divisionID, set := range a.members {
			if _, ok := set[playerID]; ok {
				out = append(out, divisionID)
			}
		}
	})
	slices.Sort(out)
	return out, nil
}
