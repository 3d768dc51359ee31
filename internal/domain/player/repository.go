package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p Player) (Player, error)
	GetByID(ctx context.Context, playerID int64) (Player, bool, error)
	ListByIDs(ctx context.Context, playerIDs []int64) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
	Update(ctx context.Context, playerID int64, patch Patch) (Player, bool, error)
}
