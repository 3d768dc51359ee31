package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

// LedgerStore runs units of work under the store's write lock against a
// private copy of the ledger tables, published only when fn succeeds.
// fn must not call other repositories of the same Store.
type LedgerStore struct {
	store *Store
}

func NewLedgerStore(store *Store) *LedgerStore {
	return &LedgerStore{store: store}
}

func (l *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := l.store.data.ledgerCopy()
	if err := fn(ctx, &ledgerTx{data: work, now: l.store.timestamp}); err != nil {
		return err
	}
	l.store.data = work
	return nil
}

type ledgerTx struct {
	data *arena
	now  func() time.Time
}

// The store lock already serializes units of work, so the lock methods are plain reads.

func (t *ledgerTx) LockFixture(_ context.Context, fixtureID int64) (fixture.Fixture, []player.Player, bool, error) {
	fx, ok := t.data.fixtures[fixtureID]
	if !ok {
		return fixture.Fixture{}, nil, false, nil
	}
	return fx, playersByIDs(t.data, []int64{fx.Player1ID, fx.Player2ID}), true, nil
}

func (t *ledgerTx) SharePlayers(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	return playersByIDs(t.data, playerIDs), nil
}

func (t *ledgerTx) ListPendingFixturesByPlayers(_ context.Context, playerIDs []int64) ([]fixture.Fixture, error) {
	return filterFixtures(t.data, func(fx fixture.Fixture) bool {
		if fx.Completed {
			return false
		}
		return slices.ContainsFunc(playerIDs, fx.Involves)
	}), nil
}

func (t *ledgerTx) ListPendingFixturesBySession(_ context.Context, sessionID int64) ([]fixture.Fixture, error) {
	return filterFixtures(t.data, func(fx fixture.Fixture) bool {
		return fx.SessionID == sessionID && !fx.Completed
	}), nil
}

func (t *ledgerTx) ReplacePendingFixtures(_ context.Context, sessionID int64, fixtures []fixture.Fixture) ([]fixture.Fixture, error) {
	for id, fx := range t.data.fixtures {
		if fx.SessionID == sessionID && !fx.Completed {
			delete(t.data.fixtures, id)
		}
	}
	now := t.now()
	out := make([]fixture.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		fx.SessionID = sessionID
		out = append(out, insertFixture(t.data, fx, now))
	}
	return out, nil
}

func (t *ledgerTx) InsertFixture(_ context.Context, f fixture.Fixture) (fixture.Fixture, error) {
	return insertFixture(t.data, f, t.now()), nil
}

func (t *ledgerTx) InsertGames(_ context.Context, games []game.Game) ([]game.Game, error) {
	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		t.data.seq.game++
		g.ID = t.data.seq.game
		t.data.games[g.ID] = g
		out = append(out, g)
	}
	return out, nil
}

func (t *ledgerTx) PatchPlayer(_ context.Context, playerID int64, patch player.Patch) error {
	p, ok := t.data.players[playerID]
	if !ok {
		return fmt.Errorf("patch player %d: %w", playerID, ledger.ErrRowMissing)
	}
	p = patch.Apply(p)
	p.UpdatedAt = t.now()
	t.data.players[playerID] = p
	return nil
}

func (t *ledgerTx) PatchFixture(_ context.Context, fixtureID int64, patch fixture.Patch) error {
	fx, ok := t.data.fixtures[fixtureID]
	if !ok {
		return fmt.Errorf("patch fixture %d: %w", fixtureID, ledger.ErrRowMissing)
	}
	fx = patch.Apply(fx)
	fx.UpdatedAt = t.now()
	t.data.fixtures[fixtureID] = fx
	return nil
}
