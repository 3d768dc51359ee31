package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
)

// league is a memory-backed set of repositories shared by service tests.
type league struct {
	store     *memory.Store
	players   *memory.PlayerRepository
	divisions *memory.DivisionRepository
	sessions  *memory.SessionRepository
	fixtures  *memory.FixtureRepository
	games     *memory.GameRepository
	ledger    *memory.LedgerStore
	rules     competition.Rules
	logger    *logging.Logger
}

func newLeague(t *testing.T) *league {
	t.Helper()
	store := memory.NewStore()
	return &league{
		store:     store,
		players:   memory.NewPlayerRepository(store),
		divisions: memory.NewDivisionRepository(store),
		sessions:  memory.NewSessionRepository(store),
		fixtures:  memory.NewFixtureRepository(store),
		games:     memory.NewGameRepository(store),
		ledger:    memory.NewLedgerStore(store),
		rules:     competition.DefaultRules(),
		logger:    logging.NewNop(),
	}
}

func (l *league) addPlayer(t *testing.T, first string, rating int) player.Player {
	t.Helper()
	p, err := l.players.Create(context.Background(), player.Player{
		FirstName:          first,
		LastName:           "Test",
		Email:              first + "@example.com",
		Rating:             rating,
		EmailNotifications: true,
		MatchReminders:     true,
	})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p
}

func (l *league) addDivision(t *testing.T, name string, active bool, members ...player.Player) division.Division {
	t.Helper()
	ctx := context.Background()
	d, err := l.divisions.Create(ctx, division.Division{Name: name, DayOfWeek: time.Tuesday, Active: active})
	if err != nil {
		t.Fatalf("create division: %v", err)
	}
	for _, p := range members {
		if err := l.divisions.AddPlayer(ctx, d.ID, p.ID); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	return d
}

func (l *league) addSession(t *testing.T, start time.Time) session.Session {
	t.Helper()
	s, err := l.sessions.Create(context.Background(), session.Session{
		Name:      "Spring",
		StartDate: start,
		EndDate:   start.AddDate(0, 3, 0),
		MatchTime: "19:30",
		Active:    true,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func (l *league) scheduleService() *ScheduleService {
	return NewScheduleService(l.sessions, l.divisions, l.players, l.ledger, l.rules, nil, l.logger)
}

type recordingInvalidator struct {
	mu     sync.Mutex
	scopes [][2]int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, sessionID, divisionID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, [2]int64{sessionID, divisionID})
}
