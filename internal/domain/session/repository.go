package session

import "context"

// Repository describes session persistence.
type Repository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, sessionID int64) (Session, bool, error)
	List(ctx context.Context, activeOnly bool) ([]Session, error)
	Update(ctx context.Context, sessionID int64, patch Patch) (Session, bool, error)
}
