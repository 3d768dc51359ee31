package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/riskibarqy/pool-league/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) (player.Player, error) {
	r.store.write(func(a *arena) {
		a.seq.player++
		p.ID = a.seq.player
		p.CreatedAt = r.store.timestamp()
		p.UpdatedAt = p.CreatedAt
		a.players[p.ID] = p
	})
	return p, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID int64) (player.Player, bool, error) {
	var (
		out    player.Player
		exists bool
	)
	r.store.read(func(a *arena) {
		out, exists = a.players[playerID]
	})
	return out, exists, nil
}

// ListByIDs returns the players that exist, ordered by id.
func (r *PlayerRepository) ListByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	var out []player.Player
	r.store.read(func(a *arena) {
		out = playersByIDs(a, playerIDs)
	})
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	var out []player.Player
	r.store.read(func(a *arena) {
		out = make([]player.Player, 0, len(a.players))
		for _, p := range a.players {
			out = append(out, p)
		}
	})
	sortPlayers(out)
	return out, nil
}

func (r *PlayerRepository) Update(_ context.Context, playerID int64, patch player.Patch) (player.Player, bool, error) {
	var (
		out    player.Player
		exists bool
	)
	r.store.write(func(a *arena) {
		out, exists = a.players[playerID]
		if !exists {
			return
		}
		out = patch.Apply(out)
		out.UpdatedAt = r.store.timestamp()
		a.players[playerID] = out
	})
	return out, exists, nil
}

func playersByIDs(a *arena, playerIDs []int64) []player.Player {
	out := make([]player.Player, 0, len(playerIDs))
	seen := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := a.players[id]; ok {
			out = append(out, p)
		}
	}
	sortPlayers(out)
	return out
}

func sortPlayers(items []player.Player) {
	slices.SortFunc(items, func(x, y player.Player) int {
		return cmp.Compare(x.ID, y.ID)
	})
}
