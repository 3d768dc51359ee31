package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	qb "github.com/riskibarqy/pool-league/internal/platform/querybuilder"
)

const maxLedgerAttempts = 3

// LedgerStore runs a unit of work inside one database transaction.
//
// Lock order is players before fixtures, players in ascending id order.
// Result recording locks its two players FOR UPDATE and scheduling locks
// every affected player FOR SHARE, so any transaction writing a pending
// fixture already holds a lock on that fixture's players. Deadlocks and
// serialization failures that still slip through are retried.
type LedgerStore struct {
	db *sqlx.DB
}

func NewLedgerStore(db *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (l *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxLedgerAttempts; attempt++ {
		err = l.runTx(ctx, fn)
		if !isRetryableTx(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (l *LedgerStore) runTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &ledgerTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sqlx.Tx
}

// LockFixture reads the fixture without a lock to learn its players, locks
// them, then locks the fixture row itself. A fixture's players never
// change, but the row may be gone by then if a reschedule dropped it.
func (t *ledgerTx) LockFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, []player.Player, bool, error) {
	fx, exists, err := getFixture(ctx, t.tx, fixtureID, false)
	if err != nil || !exists {
		return fixture.Fixture{}, nil, false, err
	}

	players, err := selectPlayersByIDs(ctx, t.tx, []int64{fx.Player1ID, fx.Player2ID}, qb.LockForUpdate)
	if err != nil {
		return fixture.Fixture{}, nil, false, err
	}

	fx, exists, err = getFixture(ctx, t.tx, fixtureID, true)
	if err != nil || !exists {
		return fixture.Fixture{}, nil, false, err
	}
	return fx, players, true, nil
}

func (t *ledgerTx) SharePlayers(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	return selectPlayersByIDs(ctx, t.tx, playerIDs, qb.LockForShare)
}

func (t *ledgerTx) ListPendingFixturesByPlayers(ctx context.Context, playerIDs []int64) ([]fixture.Fixture, error) {
	if len(playerIDs) == 0 {
		return []fixture.Fixture{}, nil
	}
	return selectFixtures(ctx, t.tx, pendingForPlayers(playerIDs))
}

func (t *ledgerTx) ListPendingFixturesBySession(ctx context.Context, sessionID int64) ([]fixture.Fixture, error) {
	return selectFixtures(ctx, t.tx, []qb.Condition{
		qb.Eq("session_id", sessionID),
		qb.Eq("completed", false),
	})
}

func (t *ledgerTx) ReplacePendingFixtures(ctx context.Context, sessionID int64, fixtures []fixture.Fixture) ([]fixture.Fixture, error) {
	return replacePendingFixtures(ctx, t.tx, sessionID, fixtures)
}

func (t *ledgerTx) InsertFixture(ctx context.Context, f fixture.Fixture) (fixture.Fixture, error) {
	return insertFixture(ctx, t.tx, f)
}

func (t *ledgerTx) InsertGames(ctx context.Context, games []game.Game) ([]game.Game, error) {
	return insertGames(ctx, t.tx, games)
}

func (t *ledgerTx) PatchPlayer(ctx context.Context, playerID int64, patch player.Patch) error {
	var row playerTableModel
	found, err := updatePlayer(ctx, t.tx, playerID, patch, &row)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("patch player %d: %w", playerID, ledger.ErrRowMissing)
	}
	return nil
}

func (t *ledgerTx) PatchFixture(ctx context.Context, fixtureID int64, patch fixture.Patch) error {
	var row fixtureTableModel
	found, err := updateFixture(ctx, t.tx, fixtureID, patch, &row)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("patch fixture %d: %w", fixtureID, ledger.ErrRowMissing)
	}
	return nil
}
