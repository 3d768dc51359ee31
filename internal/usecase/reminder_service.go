package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/platform/id"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
)

const defaultReminderWorkers = 4

// Reminder tells one player about today's fixture.
type Reminder struct {
	// IdempotencyKey is stable per fixture and player.
	IdempotencyKey string
	FixtureID      int64
	PlayerID       int64
	PlayerName     string
	Email          string
	OpponentName   string
	OpponentRating int
	// Weight is the race length of the reminded player; OpponentWeight the other side's.
	Weight         int
	OpponentWeight int
	MatchDate      time.Time
	MatchTime      string
}

// Notifier delivers reminders. Implementations must be safe for concurrent use.
type Notifier interface {
	SendReminder(ctx context.Context, reminder Reminder) error
}

type ReminderReport struct {
	Fixtures int
	Sent     int
	Skipped  int
	Failed   int
	Marked   int
}

type ReminderService struct {
	fixtureRepo fixture.Repository
	playerRepo  player.Repository
	sessionRepo session.Repository
	notifier    Notifier
	workers     int
	metrics     *metrics.Manager
	logger      *logging.Logger
}

func NewReminderService(
	fixtureRepo fixture.Repository,
	playerRepo player.Repository,
	sessionRepo session.Repository,
	notifier Notifier,
	workers int,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *ReminderService {
	if workers <= 0 {
		workers = defaultReminderWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReminderService{
		fixtureRepo: fixtureRepo,
		playerRepo:  playerRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		workers:     workers,
		metrics:     metricsManager,
		logger:      logger,
	}
}

type reminderJob struct {
	fixtureID int64
	reminder  Reminder
}

// SendDue reminds both players of every pending fixture scheduled on now's
// UTC calendar day that has not been reminded yet. A fixture is marked reminded
// once none of its sends failed; players who opted out are skipped.
func (s *ReminderService) SendDue(ctx context.Context, now time.Time) (ReminderReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReminderService.SendDue")
	defer span.End()

	if s.notifier == nil {
		return ReminderReport{}, fmt.Errorf("%w: reminder notifier is not configured", ErrDependencyUnavailable)
	}

	from, to := reminderWindow(now)
	pending := false
	due, err := s.fixtureRepo.List(ctx, fixture.Filter{Completed: &pending, From: &from, To: &to})
	if err != nil {
		return ReminderReport{}, fmt.Errorf("list due fixtures: %w", err)
	}

	fixtures := due[:0:0]
	for _, fx := range due {
		if !fx.ReminderSent {
			fixtures = append(fixtures, fx)
		}
	}
	report := ReminderReport{Fixtures: len(fixtures)}
	if len(fixtures) == 0 {
		return report, nil
	}

	jobs, skipped, err := s.buildJobs(ctx, fixtures)
	if err != nil {
		return ReminderReport{}, err
	}
	report.Skipped = skipped
	for i := 0; i < skipped; i++ {
		s.metrics.RecordReminder("skipped")
	}

	failedFixtures, sent, failed, err := s.dispatch(ctx, jobs)
	if err != nil {
		return ReminderReport{}, err
	}
	report.Sent = sent
	report.Failed = failed

	reminded := true
	for _, fx := range fixtures {
		if failedFixtures[fx.ID] {
			continue
		}
		if _, _, err := s.fixtureRepo.Update(ctx, fx.ID, fixture.Patch{ReminderSent: &reminded}); err != nil {
			return report, fmt.Errorf("mark fixture reminded: %w", err)
		}
		report.Marked++
	}

	s.logger.InfoContext(ctx, "match reminders processed",
		"date", from.Format(time.DateOnly),
		"fixtures", report.Fixtures,
		"sent", report.Sent,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (s *ReminderService) buildJobs(ctx context.Context, fixtures []fixture.Fixture) ([]reminderJob, int, error) {
	playerIDs := make([]int64, 0, len(fixtures)*2)
	for _, fx := range fixtures {
		playerIDs = append(playerIDs, fx.Player1ID, fx.Player2ID)
	}
	players, err := s.playerRepo.ListByIDs(ctx, playerIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("list reminder players: %w", err)
	}
	byID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	matchTimes := make(map[int64]string)
	jobs := make([]reminderJob, 0, len(fixtures)*2)
	skipped := 0
	for _, fx := range fixtures {
		matchTime, ok := matchTimes[fx.SessionID]
		if !ok {
			sess, exists, err := s.sessionRepo.GetByID(ctx, fx.SessionID)
			if err != nil {
				return nil, 0, fmt.Errorf("get fixture session: %w", err)
			}
			if exists {
				matchTime = sess.MatchTime
			}
			matchTimes[fx.SessionID] = matchTime
		}

		for _, side := range []int64{fx.Player1ID, fx.Player2ID} {
			me, okMe := byID[side]
			opponentID, _ := fx.Opponent(side)
			opponent, okOpponent := byID[opponentID]
			if !okMe || !okOpponent || !me.WantsReminders() {
				skipped++
				continue
			}
			jobs = append(jobs, reminderJob{
				fixtureID: fx.ID,
				reminder: Reminder{
					IdempotencyKey: id.Deterministic("reminder", strconv.FormatInt(fx.ID, 10), strconv.FormatInt(me.ID, 10)),
					FixtureID:      fx.ID,
					PlayerID:       me.ID,
					PlayerName:     me.DisplayName(),
					Email:          me.Email,
					OpponentName:   opponent.DisplayName(),
					OpponentRating: fx.RatingOf(opponentID),
					Weight:         fx.WeightOf(me.ID),
					OpponentWeight: fx.WeightOf(opponentID),
					MatchDate:      fx.ScheduledDate,
					MatchTime:      matchTime,
				},
			})
		}
	}
	return jobs, skipped, nil
}

func (s *ReminderService) dispatch(ctx context.Context, jobs []reminderJob) (map[int64]bool, int, int, error) {
	failedFixtures := make(map[int64]bool)
	if len(jobs) == 0 {
		return failedFixtures, 0, 0, nil
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("create reminder worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		mu      sync.Mutex
		sent    int
		failed  int
		workers sync.WaitGroup
	)
	for _, job := range jobs {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			sendErr := s.notifier.SendReminder(ctx, job.reminder)

			mu.Lock()
			defer mu.Unlock()
			if sendErr != nil {
				failed++
				failedFixtures[job.fixtureID] = true
				s.metrics.RecordReminder("failed")
				s.logger.WarnContext(ctx, "send match reminder failed",
					"fixture_id", job.fixtureID,
					"player_id", job.reminder.PlayerID,
					"error", sendErr,
				)
				return
			}
			sent++
			s.metrics.RecordReminder("sent")
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, 0, 0, fmt.Errorf("submit reminder to worker pool: %w", err)
		}
	}
	workers.Wait()

	return failedFixtures, sent, failed, nil
}

// reminderWindow is the UTC day containing now. Fixture times are stored
// in UTC, so the caller's zone must not shift the day.
func reminderWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}
