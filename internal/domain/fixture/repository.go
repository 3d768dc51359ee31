package fixture

import "context"

// Repository exposes fixture persistence outside the ledger. Writes that
// snapshot player ratings go through ledger.Tx instead.
type Repository interface {
	GetByID(ctx context.Context, fixtureID int64) (Fixture, bool, error)
	List(ctx context.Context, filter Filter) ([]Fixture, error)
	Create(ctx context.Context, f Fixture) (Fixture, error)
	Update(ctx context.Context, fixtureID int64, patch Patch) (Fixture, bool, error)
}
