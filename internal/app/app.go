package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pool-league/external/notifier"
	"github.com/riskibarqy/pool-league/internal/config"
	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/domain/ledger"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/infrastructure/auth"
	cacherepo "github.com/riskibarqy/pool-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pool-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pool-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pool-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/pool-league/internal/platform/cache"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
	"github.com/riskibarqy/pool-league/internal/platform/resilience"
	"github.com/riskibarqy/pool-league/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App is the assembled service: the HTTP server plus the optional
// in-process reminder scheduler.
type App struct {
	Server    *http.Server
	Scheduler *usecase.ReminderScheduler
	closers   []func() error
}

// Close releases storage handles. It does not stop the server.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type repositories struct {
	players   player.Repository
	divisions division.Repository
	sessions  session.Repository
	fixtures  fixture.Repository
	games     game.Repository
	ledger    ledger.Store
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	rules, err := config.LoadRules(cfg.LeagueRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load league rules: %w", err)
	}
	if rules.BaseSwing != competition.CanonicalBaseSwing {
		logger.Warn("league rules override the rating base swing",
			"base_swing", rules.BaseSwing,
			"canonical", competition.CanonicalBaseSwing,
		)
	}

	var metricsManager *metrics.Manager
	if cfg.MetricsEnabled {
		metricsManager = metrics.NewManager(metrics.WithRuntimeCollectors())
	}

	out := &App{}
	repos, err := openRepositories(ctx, cfg, logger, out)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	if cfg.CacheEnabled {
		repos.divisions = cacherepo.NewDivisionRepository(repos.divisions, cfg.CacheTTL)
		repos.sessions = cacherepo.NewSessionRepository(repos.sessions, cfg.CacheTTL)
	}

	var standingsCache *cache.Store[[]competition.Standing]
	if cfg.CacheEnabled {
		standingsCache = cache.NewStore[[]competition.Standing](cfg.CacheTTL)
	}

	var reminderNotifier usecase.Notifier
	breakerCfg := resilience.CircuitBreakerConfig{
		Enabled:          cfg.NotifierCircuitEnabled,
		FailureThreshold: cfg.NotifierCircuitFailureCount,
		OpenTimeout:      cfg.NotifierCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.NotifierCircuitHalfOpenMaxReq,
	}
	if cfg.NotifierEnabled {
		webhook, err := notifier.NewWebhook(notifier.WebhookConfig{
			HTTPClient:     &http.Client{Timeout: cfg.NotifierTimeout},
			BaseURL:        cfg.NotifierBaseURL,
			Token:          cfg.NotifierToken,
			Sender:         cfg.NotifierSender,
			Timeout:        cfg.NotifierTimeout,
			RatePerSecond:  cfg.NotifierRatePerSecond,
			CircuitBreaker: breakerCfg,
			Metrics:        metricsManager,
			Logger:         logger.Named("notifier"),
		})
		if err != nil {
			_ = out.Close()
			return nil, fmt.Errorf("build notifier: %w", err)
		}
		reminderNotifier = webhook
		logger.Info("notifier configured", breakerCfg.LogFields("notifier")...)
	}

	usecaseLogger := logger.Named("usecase")
	standingsSvc := usecase.NewStandingsService(repos.sessions, repos.divisions, repos.fixtures, repos.games, rules, standingsCache, metricsManager)
	reminderSvc := usecase.NewReminderService(repos.fixtures, repos.players, repos.sessions, reminderNotifier, cfg.ReminderWorkers, metricsManager, usecaseLogger)

	handler := httpapi.NewHandler(httpapi.Services{
		Players:   usecase.NewPlayerService(repos.players, rules),
		Divisions: usecase.NewDivisionService(repos.divisions, repos.players),
		Sessions:  usecase.NewSessionService(repos.sessions),
		Schedule:  usecase.NewScheduleService(repos.sessions, repos.divisions, repos.players, repos.ledger, rules, metricsManager, usecaseLogger),
		Fixtures:  usecase.NewFixtureService(repos.fixtures, repos.sessions, repos.divisions, repos.ledger, rules),
		Results:   usecase.NewResultService(repos.ledger, rules, standingsSvc, metricsManager, usecaseLogger),
		Games:     usecase.NewGameService(repos.games),
		Standings: standingsSvc,
		Reminders: reminderSvc,
	}, rules, logger)

	var verifier httpapi.TokenVerifier
	if cfg.AuthJWTSecret != "" {
		verifier = auth.NewJWTVerifier(cfg.AuthJWTSecret, cfg.AuthJWTIssuer)
	} else {
		logger.Warn("AUTH_JWT_SECRET is empty; admin routes will answer 503")
	}

	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Verifier:         verifier,
		Logger:           logger.Named("http"),
		Metrics:          metricsManager,
		SwaggerEnabled:   cfg.SwaggerEnabled,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		InternalJobToken: cfg.InternalJobToken,
	})

	out.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	if cfg.ReminderEnabled {
		out.Scheduler = usecase.NewReminderScheduler(reminderSvc, cfg.ReminderHour, usecaseLogger)
	}

	logger.Info("app assembled",
		"storage", cfg.StorageDriver,
		"cache", cfg.CacheEnabled,
		"metrics", cfg.MetricsEnabled,
		"notifier", cfg.NotifierEnabled,
		"reminders", cfg.ReminderEnabled,
	)
	return out, nil
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger, a *App) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg.DBURL, cfg.ServiceName)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)
		return repositories{
			players:   postgres.NewPlayerRepository(db),
			divisions: postgres.NewDivisionRepository(db),
			sessions:  postgres.NewSessionRepository(db),
			fixtures:  postgres.NewFixtureRepository(db),
			games:     postgres.NewGameRepository(db),
			ledger:    postgres.NewLedgerStore(db),
		}, nil
	default:
		store := memory.NewStore()
		if cfg.SeedDemoData {
			memory.SeedDemo(store, time.Now())
			logger.Info("demo league seeded")
		}
		return repositories{
			players:   memory.NewPlayerRepository(store),
			divisions: memory.NewDivisionRepository(store),
			sessions:  memory.NewSessionRepository(store),
			fixtures:  memory.NewFixtureRepository(store),
			games:     memory.NewGameRepository(store),
			ledger:    memory.NewLedgerStore(store),
		}, nil
	}
}

func openPostgres(ctx context.Context, dbURL, applicationName string) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(dbURL, applicationName),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
