// Package ledger defines the transactional boundary for every write that
// reads player ratings: recording results, scheduling and one-off fixtures.
//
// Everything done through a Tx inside one WithinTx call commits or rolls back
// together. Implementations lock player rows before fixture rows, so a
// rating read under a lock stays equal to every pending snapshot written in
// the same unit of work.
package ledger

import (
	"context"
	"errors"

	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/player"
)

// ErrRowMissing is returned when a patch targets a row that does not exist.
var ErrRowMissing = errors.New("ledger row missing")

// Store runs fn in a single atomic unit of work. A non-nil error from fn
// rolls everything back. fn may run more than once when the backend asks
// for a retry, so it must not leak state between attempts.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the read-modify-write surface available inside a unit of work.
type Tx interface {
	// LockFixture loads a fixture with its two players and holds all three
	// until the unit of work ends. The players are locked first.
	LockFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, []player.Player, bool, error)
	// SharePlayers loads players in ascending id order and blocks rating
	// writes to them until the unit of work ends.
	SharePlayers(ctx context.Context, playerIDs []int64) ([]player.Player, error)
	ListPendingFixturesByPlayers(ctx context.Context, playerIDs []int64) ([]fixture.Fixture, error)
	ListPendingFixturesBySession(ctx context.Context, sessionID int64) ([]fixture.Fixture, error)
	// ReplacePendingFixtures drops every pending fixture of the session and
	// stores fixtures in their place. Completed fixtures are kept.
	ReplacePendingFixtures(ctx context.Context, sessionID int64, fixtures []fixture.Fixture) ([]fixture.Fixture, error)
	InsertFixture(ctx context.Context, f fixture.Fixture) (fixture.Fixture, error)
	InsertGames(ctx context.Context, games []game.Game) ([]game.Game, error)
	PatchPlayer(ctx context.Context, playerID int64, patch player.Patch) error
	PatchFixture(ctx context.Context, fixtureID int64, patch fixture.Patch) error
}
