package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
)

const defaultRosterLoaders = 4

type ScheduleService struct {
	sessionRepo  session.Repository
	divisionRepo division.Repository
	playerRepo   player.Repository
	ledger       ledger.Store
	rules        competition.Rules
	metrics      *metrics.Manager
	logger       *logging.Logger
}

func NewScheduleService(
	sessionRepo session.Repository,
	divisionRepo division.Repository,
	playerRepo player.Repository,
	ledgerStore ledger.Store,
	rules competition.Rules,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		sessionRepo:  sessionRepo,
		divisionRepo: divisionRepo,
		playerRepo:   playerRepo,
		ledger:       ledgerStore,
		rules:        rules,
		metrics:      metricsManager,
		logger:       logger,
	}
}

type ScheduleSessionInput struct {
	SessionID int64
	// StartDate defaults to the session start when zero.
	StartDate time.Time
	Double    bool
}

type DivisionSchedule struct {
	DivisionID int64
	Players    int
	Fixtures   int
}

type divisionRoster struct {
	division  division.Division
	playerIDs []int64
}

// ScheduleSession rebuilds the pending fixtures of a session: every pending
// fixture is dropped, including those of divisions that are now inactive
// or too small, and each active division gets a fresh round robin. Ratings
// are read under a share lock in the same unit of work that stores the
// snapshots.
func (s *ScheduleService) ScheduleSession(ctx context.Context, input ScheduleSessionInput) ([]DivisionSchedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.ScheduleSession", sessionAttr(input.SessionID))
	defer span.End()

	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	start := scheduleStart(sess, input.StartDate)

	divisions, err := s.divisionRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active divisions: %w", err)
	}

	rosters, err := s.loadRosters(ctx, divisions)
	if err != nil {
		return nil, err
	}

	members := make([]int64, 0)
	for _, r := range rosters {
		members = append(members, r.playerIDs...)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no players in any active division", ErrNotFound)
	}

	var (
		out     []DivisionSchedule
		dropped int
	)
	err = s.ledger.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		pending, err := tx.ListPendingFixturesBySession(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("list pending fixtures: %w", err)
		}

		ids := slices.Clone(members)
		for _, fx := range pending {
			ids = append(ids, fx.Player1ID, fx.Player2ID)
		}
		locked, err := tx.SharePlayers(ctx, ids)
		if err != nil {
			return fmt.Errorf("share roster players: %w", err)
		}
		byID := make(map[int64]player.Player, len(locked))
		for _, p := range locked {
			byID[p.ID] = p
		}

		fixtures := make([]fixture.Fixture, 0)
		out = make([]DivisionSchedule, 0, len(rosters))
		for _, r := range rosters {
			players := make([]player.Player, 0, len(r.playerIDs))
			for _, id := range r.playerIDs {
				if p, ok := byID[id]; ok {
					players = append(players, p)
				}
			}
			sortPlayersByID(players)
			fixtures = append(fixtures, s.rules.Schedule(players, start, sess.ID, r.division.ID, input.Double)...)
			out = append(out, DivisionSchedule{DivisionID: r.division.ID, Players: len(players)})
		}

		stored, err := tx.ReplacePendingFixtures(ctx, sess.ID, fixtures)
		if err != nil {
			return fmt.Errorf("replace pending fixtures: %w", err)
		}
		perDivision := make(map[int64]int, len(out))
		for _, fx := range stored {
			perDivision[fx.DivisionID]++
		}
		for i := range out {
			out[i].Fixtures = perDivision[out[i].DivisionID]
		}
		dropped = len(pending)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range out {
		if item.Fixtures > 0 {
			s.metrics.RecordFixturesScheduled(item.DivisionID, item.Fixtures)
		}
		s.logger.InfoContext(ctx, "division scheduled",
			"session_id", sess.ID,
			"division_id", item.DivisionID,
			"players", item.Players,
			"fixtures", item.Fixtures,
			"double", input.Double,
		)
	}
	s.logger.InfoContext(ctx, "session pending fixtures replaced", "session_id", sess.ID, "dropped", dropped)

	return out, nil
}

// PreviewDivision returns the fixtures ScheduleSession would create for one
// division without storing them.
func (s *ScheduleService) PreviewDivision(ctx context.Context, input ScheduleSessionInput, divisionID int64) ([]fixture.Fixture, error) {
	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	d, exists, err := s.divisionRepo.GetByID(ctx, divisionID)
	if err != nil {
		return nil, fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: division=%d", ErrNotFound, divisionID)
	}

	players, err := loadRoster(ctx, s.divisionRepo, s.playerRepo, d.ID)
	if err != nil {
		return nil, err
	}
	return s.rules.Schedule(players, scheduleStart(sess, input.StartDate), sess.ID, d.ID, input.Double), nil
}

func (s *ScheduleService) getSession(ctx context.Context, sessionID int64) (session.Session, error) {
	if sessionID <= 0 {
		return session.Session{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	sess, exists, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return session.Session{}, fmt.Errorf("%w: session=%d", ErrNotFound, sessionID)
	}
	return sess, nil
}

// loadRosters reads division memberships concurrently. Ratings are read
// later under a lock.
func (s *ScheduleService) loadRosters(ctx context.Context, divisions []division.Division) ([]divisionRoster, error) {
	p := pool.NewWithResults[divisionRoster]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(defaultRosterLoaders)
	for _, d := range divisions {
		p.Go(func(ctx context.Context) (divisionRoster, error) {
			ids, err := s.divisionRepo.ListPlayerIDs(ctx, d.ID)
			if err != nil {
				return divisionRoster{}, fmt.Errorf("list division player ids: %w", err)
			}
			return divisionRoster{division: d, playerIDs: ids}, nil
		})
	}

	rosters, err := p.Wait()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rosters, func(a, b divisionRoster) int {
		return cmp.Compare(a.division.ID, b.division.ID)
	})
	return rosters, nil
}

func sortPlayersByID(players []player.Player) {
	slices.SortFunc(players, func(a, b player.Player) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// scheduleStart places the first round on the requested (or session) date
// at the session's match time.
func scheduleStart(sess session.Session, requested time.Time) time.Time {
	day := requested
	if day.IsZero() {
		day = sess.StartDate
	}
	day = day.UTC()

	clock, err := time.Parse("15:04", sess.MatchTime)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}
