package game

import "context"

// Repository exposes read access to the game ledger. Writes go through ledger.Tx.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Game, error)
}
