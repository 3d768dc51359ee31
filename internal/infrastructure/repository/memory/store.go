// Package memory keeps the whole league in one process-local arena.
//
// Every repository in this package is a view over the same Store, so a
// ledger unit of work sees and replaces exactly the data the repositories
// read.
package memory

import (
	"maps"
	"sync"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
)

type sequences struct {
	player   int64
	division int64
	session  int64
	fixture  int64
	game     int64
}

type arena struct {
	players   map[int64]player.Player
	divisions map[int64]division.Division
	// members maps a division id to the set of its player ids.
	members  map[int64]map[int64]struct{}
	sessions map[int64]session.Session
	fixtures map[int64]fixture.Fixture
	games    map[int64]game.Game
	seq      sequences
}

func newArena() *arena {
	return &arena{
		players:   make(map[int64]player.Player),
		divisions: make(map[int64]division.Division),
		members:   make(map[int64]map[int64]struct{}),
		sessions:  make(map[int64]session.Session),
		fixtures:  make(map[int64]fixture.Fixture),
		games:     make(map[int64]game.Game),
	}
}

// ledgerCopy shares the tables a ledger unit of work never writes and
// copies the ones it does.
func (a *arena) ledgerCopy() *arena {
	out := *a
	out.players = maps.Clone(a.players)
	out.fixtures = maps.Clone(a.fixtures)
	out.games = maps.Clone(a.games)
	return &out
}

// Store guards the arena with a single lock.
type Store struct {
	mu   sync.RWMutex
	data *arena
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{data: newArena(), now: time.Now}
}

func (s *Store) read(fn func(a *arena)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(a *arena)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}
