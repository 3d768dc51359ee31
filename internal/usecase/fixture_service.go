package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
)

type FixtureService struct {
	fixtureRepo  fixture.Repository
	sessionRepo  session.Repository
	divisionRepo division.Repository
	ledger       ledger.Store
	rules        competition.Rules
}

func NewFixtureService(
	fixtureRepo fixture.Repository,
	sessionRepo session.Repository,
	divisionRepo division.Repository,
	ledgerStore ledger.Store,
	rules competition.Rules,
) *FixtureService {
	return &FixtureService{
		fixtureRepo:  fixtureRepo,
		sessionRepo:  sessionRepo,
		divisionRepo: divisionRepo,
		ledger:       ledgerStore,
		rules:        rules,
	}
}

type CreateFixtureInput struct {
	SessionID     int64
	DivisionID    int64
	Player1ID     int64
	Player2ID     int64
	ScheduledDate time.Time
}

func (s *FixtureService) Get(ctx context.Context, fixtureID int64) (fixture.Fixture, error) {
	if fixtureID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureID)
	}
	return fx, nil
}

func (s *FixtureService) List(ctx context.Context, filter fixture.Filter) ([]fixture.Fixture, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	items, err := s.fixtureRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	return items, nil
}

// Create stores a one-off pending fixture outside the round robin, with
// snapshots and weights taken from the players' ratings under a share lock.
func (s *FixtureService) Create(ctx context.Context, input CreateFixtureInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Create")
	defer span.End()

	if input.Player1ID == input.Player2ID {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture players must differ", ErrInvalidInput)
	}
	if input.ScheduledDate.IsZero() {
		return fixture.Fixture{}, fmt.Errorf("%w: scheduled date is required", ErrInvalidInput)
	}

	if _, exists, err := s.sessionRepo.GetByID(ctx, input.SessionID); err != nil {
		return fixture.Fixture{}, fmt.Errorf("get session: %w", err)
	} else if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: session=%d", ErrNotFound, input.SessionID)
	}
	if _, exists, err := s.divisionRepo.GetByID(ctx, input.DivisionID); err != nil {
		return fixture.Fixture{}, fmt.Errorf("get division: %w", err)
	} else if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: division=%d", ErrNotFound, input.DivisionID)
	}

	var out fixture.Fixture
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		players, err := tx.SharePlayers(ctx, []int64{input.Player1ID, input.Player2ID})
		if err != nil {
			return fmt.Errorf("share fixture players: %w", err)
		}
		byID := make(map[int64]player.Player, len(players))
		for _, p := range players {
			byID[p.ID] = p
		}
		home, okHome := byID[input.Player1ID]
		away, okAway := byID[input.Player2ID]
		if !okHome || !okAway {
			return fmt.Errorf("%w: fixture players %d and %d", ErrNotFound, input.Player1ID, input.Player2ID)
		}

		fx := s.rules.NewFixture(home, away, input.ScheduledDate.UTC(), input.SessionID, input.DivisionID)
		if err := fx.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		out, err = tx.InsertFixture(ctx, fx)
		if err != nil {
			return fmt.Errorf("create fixture: %w", err)
		}
		return nil
	})
	if err != nil {
		return fixture.Fixture{}, err
	}
	return out, nil
}
