package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/platform/cache"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
)

type StandingsService struct {
	sessionRepo  session.Repository
	divisionRepo division.Repository
	fixtureRepo  fixture.Repository
	gameRepo     game.Repository
	rules        competition.Rules
	// cache is optional; nil always recomputes.
	cache   *cache.Store[[]competition.Standing]
	metrics *metrics.Manager
}

func NewStandingsService(
	sessionRepo session.Repository,
	divisionRepo division.Repository,
	fixtureRepo fixture.Repository,
	gameRepo game.Repository,
	rules competition.Rules,
	tableCache *cache.Store[[]competition.Standing],
	metricsManager *metrics.Manager,
) *StandingsService {
	return &StandingsService{
		sessionRepo:  sessionRepo,
		divisionRepo: divisionRepo,
		fixtureRepo:  fixtureRepo,
		gameRepo:     gameRepo,
		rules:        rules,
		cache:        tableCache,
		metrics:      metricsManager,
	}
}

// Get returns the ranked table of one division in one session.
func (s *StandingsService) Get(ctx context.Context, sessionID, divisionID int64) ([]competition.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Get", sessionAttr(sessionID), divisionAttr(divisionID))
	defer span.End()

	if err := s.ensureScope(ctx, sessionID, divisionID); err != nil {
		return nil, err
	}

	if s.cache == nil {
		return s.loadTable(ctx, sessionID, divisionID)
	}

	key := standingsKey(sessionID, divisionID)
	if rows, ok := s.cache.Get(ctx, key); ok {
		s.metrics.RecordStandingsCache(true)
		return append([]competition.Standing(nil), rows...), nil
	}
	s.metrics.RecordStandingsCache(false)

	rows, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]competition.Standing, error) {
		return s.loadTable(ctx, sessionID, divisionID)
	})
	if err != nil {
		return nil, err
	}
	return append([]competition.Standing(nil), rows...), nil
}

// Points returns the raw points map of one division in one session.
func (s *StandingsService) Points(ctx context.Context, sessionID, divisionID int64) (map[int64]int, error) {
	if err := s.ensureScope(ctx, sessionID, divisionID); err != nil {
		return nil, err
	}

	fixtures, games, err := s.completedScope(ctx, sessionID, divisionID)
	if err != nil {
		return nil, err
	}
	return s.rules.ScoreStandings(fixtures, games), nil
}

// Invalidate drops the cached table of one scope.
func (s *StandingsService) Invalidate(ctx context.Context, sessionID, divisionID int64) {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.Delete(ctx, standingsKey(sessionID, divisionID))
}

func (s *StandingsService) ensureScope(ctx context.Context, sessionID, divisionID int64) error {
	if sessionID <= 0 || divisionID <= 0 {
		return fmt.Errorf("%w: session id and division id are required", ErrInvalidInput)
	}

	_, exists, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: session=%d", ErrNotFound, sessionID)
	}

	_, exists, err = s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		return fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: division=%d", ErrNotFound, divisionID)
	}
	return nil
}

func (s *StandingsService) loadTable(ctx context.Context, sessionID, divisionID int64) ([]competition.Standing, error) {
	fixtures, games, err := s.completedScope(ctx, sessionID, divisionID)
	if err != nil {
		return nil, err
	}
	return s.rules.BuildTable(fixtures, games), nil
}

func (s *StandingsService) completedScope(ctx context.Context, sessionID, divisionID int64) ([]fixture.Fixture, []game.Game, error) {
	completed := true
	fixtures, err := s.fixtureRepo.List(ctx, fixture.Filter{
		SessionID:  &sessionID,
		DivisionID: &divisionID,
		Completed:  &completed,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list completed fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return fixtures, []game.Game{}, nil
	}

	ids := make([]int64, 0, len(fixtures))
	for _, fx := range fixtures {
		ids = append(ids, fx.ID)
	}
	games, err := s.gameRepo.List(ctx, game.Filter{FixtureIDs: ids})
	if err != nil {
		return nil, nil, fmt.Errorf("list fixture games: %w", err)
	}
	return fixtures, games, nil
}

func standingsKey(sessionID, divisionID int64) string {
	return "standings:" + strconv.FormatInt(sessionID, 10) + ":" + strconv.FormatInt(divisionID, 10)
}
