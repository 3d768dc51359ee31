package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
)

type FixtureRepository struct {
	store *Store
}

func NewFixtureRepository(store *Store) *FixtureRepository {
	return &FixtureRepository{store: store}
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	var (
		out    fixture.Fixture
		exists bool
	)
	r.store.read(func(a *arena) {
		out, exists = a.fixtures[fixtureID]
	})
	return out, exists, nil
}

func (r *FixtureRepository) List(_ context.Context, filter fixture.Filter) ([]fixture.Fixture, error) {
	var out []fixture.Fixture
	r.store.read(func(a *arena) {
		out = filterFixtures(a, filter.Match)
	})
	return out, nil
}

func (r *FixtureRepository) Create(_ context.Context, f fixture.Fixture) (fixture.Fixture, error) {
	r.store.write(func(a *arena) {
		f = insertFixture(a, f, r.store.timestamp())
	})
	return f, nil
}

func (r *FixtureRepository) Update(_ context.Context, fixtureID int64, patch fixture.Patch) (fixture.Fixture, bool, error) {
	var (
		out    fixture.Fixture
		exists bool
	)
	r.store.write(func(a *arena) {
		out, exists = a.fixtures[fixtureID]
		if !exists {
			return
		}
		out = patch.Apply(out)
		out.UpdatedAt = r.store.timestamp()
		a.fixtures[fixtureID] = out
	})
	return out, exists, nil
}

func insertFixture(a *arena, f fixture.Fixture, now time.Time) fixture.Fixture {
	a.seq.fixture++
	f.ID = a.seq.fixture
	f.CreatedAt = now
	f.UpdatedAt = now
	a.fixtures[f.ID] = f
	return f
}

// filterFixtures returns matches ordered by scheduled date, then id.
func filterFixtures(a *arena, match func(fixture.Fixture) bool) []fixture.Fixture {
	out := make([]fixture.Fixture, 0)
	for _, fx := range a.fixtures {
		if match(fx) {
			out = append(out, fx)
		}
	}
	slices.SortFunc(out, func(x, y fixture.Fixture) int {
		if c := x.ScheduledDate.Compare(y.ScheduledDate); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return out
}
