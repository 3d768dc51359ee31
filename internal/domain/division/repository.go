package division

import (
	"context"
	"errors"
)

// ErrDuplicateMember is returned when a player is already in the division.
var ErrDuplicateMember = errors.New("player already in division")

// Repository describes division and membership persistence.
type Repository interface {
	Create(ctx context.Context, d Division) (Division, error)
	GetByID(ctx context.Context, divisionID int64) (Division, bool, error)
	List(ctx context.Context, activeOnly bool) ([]Division, error)
	Update(ctx context.Context, divisionID int64, patch Patch) (Division, bool, error)
	AddPlayer(ctx context.Context, divisionID, playerID int64) error
	// RemovePlayer reports whether a membership was deleted.
	RemovePlayer(ctx context.Context, divisionID, playerID int64) (bool, error)
	// ListPlayerIDs returns the roster ordered by player id.
	ListPlayerIDs(ctx context.Context, divisionID int64) ([]int64, error)
	ListDivisionIDsByPlayer(ctx context.Context, playerID int64) ([]int64, error)
}
