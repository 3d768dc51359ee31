package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
)

// StandingsInvalidator drops cached standings after a fixture completes.
type StandingsInvalidator interface {
	Invalidate(ctx context.Context, sessionID, divisionID int64)
}

type ResultService struct {
	ledger    ledger.Store
	rules     competition.Rules
	standings StandingsInvalidator
	metrics   *metrics.Manager
	logger    *logging.Logger
	now       func() time.Time
}

func NewResultService(
	ledgerStore ledger.Store,
	rules competition.Rules,
	standings StandingsInvalidator,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		ledger:    ledgerStore,
		rules:     rules,
		standings: standings,
		metrics:   metricsManager,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordedResult is what one completed fixture changed.
type RecordedResult struct {
	Fixture fixture.Fixture
	Games   []game.Game
	Players []player.Player
	// Propagated counts pending fixtures whose rating snapshots moved.
	Propagated int
}

// RecordResults applies games to a pending fixture in one ledger unit of
// work: games are stored, both ratings move, the new ratings reach every
// other pending fixture of both players, and the fixture completes.
func (s *ResultService) RecordResults(ctx context.Context, fixtureID int64, inputs []competition.GameInput) (RecordedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.RecordResults", fixtureAttr(fixtureID))
	defer span.End()

	if fixtureID <= 0 {
		return RecordedResult{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	var out RecordedResult
	err := s.ledger.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		fx, locked, exists, err := tx.LockFixture(ctx, fixtureID)
		if err != nil {
			return fmt.Errorf("lock fixture: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureID)
		}
		if fx.Completed {
			return fmt.Errorf("%w: %w: fixture=%d", ErrConflict, competition.ErrFixtureCompleted, fixtureID)
		}

		home, away, err := fixtureSides(fx, locked)
		if err != nil {
			return err
		}

		outcome, err := s.rules.RecordResults(fx, home, away, inputs, s.now().UTC())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		games, err := tx.InsertGames(ctx, outcome.Games)
		if err != nil {
			return fmt.Errorf("insert games: %w", err)
		}
		for _, p := range []player.Player{outcome.Home, outcome.Away} {
			if err := tx.PatchPlayer(ctx, p.ID, outcome.PlayerPatches[p.ID]); err != nil {
				return fmt.Errorf("patch player rating: %w", err)
			}
		}

		pending, err := tx.ListPendingFixturesByPlayers(ctx, []int64{home.ID, away.ID})
		if err != nil {
			return fmt.Errorf("list pending fixtures: %w", err)
		}
		others := pending[:0:0]
		for _, p := range pending {
			if p.ID != fx.ID {
				others = append(others, p)
			}
		}
		updates := competition.PropagateRatings(others, outcome.Ratings())
		for _, u := range updates {
			if err := tx.PatchFixture(ctx, u.FixtureID, u.Patch); err != nil {
				return fmt.Errorf("propagate rating snapshot: %w", err)
			}
		}

		if err := tx.PatchFixture(ctx, fx.ID, outcome.FixturePatch); err != nil {
			return fmt.Errorf("complete fixture: %w", err)
		}

		out = RecordedResult{
			Fixture:    outcome.Fixture,
			Games:      games,
			Players:    []player.Player{outcome.Home, outcome.Away},
			Propagated: len(updates),
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordResultError(resultErrorReason(err))
		return RecordedResult{}, err
	}

	if s.standings != nil {
		s.standings.Invalidate(ctx, out.Fixture.SessionID, out.Fixture.DivisionID)
	}

	deltas := make([]int, 0, len(out.Games)*2)
	for _, g := range out.Games {
		deltas = append(deltas, g.WinnerRatingChange, g.LoserRatingChange)
	}
	s.metrics.RecordFixtureCompleted(len(out.Games), deltas)
	s.logger.InfoContext(ctx, "fixture completed",
		"fixture_id", out.Fixture.ID,
		"winner_id", *out.Fixture.WinnerID,
		"games", len(out.Games),
		"propagated", out.Propagated,
	)

	return out, nil
}

func fixtureSides(fx fixture.Fixture, locked []player.Player) (player.Player, player.Player, error) {
	var home, away player.Player
	for _, p := range locked {
		switch p.ID {
		case fx.Player1ID:
			home = p
		case fx.Player2ID:
			away = p
		}
	}
	if home.ID == 0 || away.ID == 0 {
		return player.Player{}, player.Player{}, fmt.Errorf("%w: players of fixture=%d", ErrNotFound, fx.ID)
	}
	return home, away, nil
}

func resultErrorReason(err error) string {
	switch {
	case errors.Is(err, competition.ErrFixtureCompleted):
		return "fixture_completed"
	case errors.Is(err, competition.ErrNoGames):
		return "no_games"
	case errors.Is(err, competition.ErrPlayerNotInFixture):
		return "player_not_in_fixture"
	case errors.Is(err, competition.ErrInvalidBallsRemaining):
		return "invalid_balls_remaining"
	case errors.Is(err, competition.ErrUndecidedResult):
		return "undecided"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
