package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/riskibarqy/pool-league/internal/domain/game"
)

type GameRepository struct {
	store *Store
}

func NewGameRepository(store *Store) *GameRepository {
	return &GameRepository{store: store}
}

// List returns games in the order they were recorded.
func (r *GameRepository) List(_ context.Context, filter game.Filter) ([]game.Game, error) {
	var out []game.Game
	r.store.read(func(a *arena) {
		out = make([]game.Game, 0)
		for _, g := range a.games {
			if filter.Match(g) {
				out = append(out, g)
			}
		}
	})
	slices.SortFunc(out, func(x, y game.Game) int {
		return cmp.Compare(x.ID, y.ID)
	})
	return out, nil
}
