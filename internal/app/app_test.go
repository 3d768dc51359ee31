package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/pool-league/internal/config"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		ServiceName:        "pool-league-api",
		HTTPAddr:           ":0",
		StorageDriver:      config.StorageMemory,
		SeedDemoData:       true,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		AuthJWTSecret:      "secret",
		MetricsEnabled:     true,
		ReminderWorkers:    2,
		ReminderHour:       8,
	}
}

func TestNew_MemoryStorageServesSeededLeague(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if a.Scheduler != nil {
		t.Fatalf("scheduler must stay off unless reminders are enabled")
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list players status=%d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Lindqvist") {
		t.Fatalf("expected seeded players, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", rec.Code)
	}
}

func TestNew_RemindersNeedNotifier(t *testing.T) {
	cfg := memoryConfig()
	cfg.ReminderEnabled = true
	cfg.NotifierEnabled = true
	cfg.NotifierBaseURL = "http://relay.local"
	cfg.NotifierTimeout = time.Second
	cfg.NotifierRatePerSecond = 5

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.Scheduler == nil {
		t.Fatalf("expected reminder scheduler")
	}

	cfg.NotifierBaseURL = "ftp://relay.local"
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected invalid notifier url to fail")
	}
}

func TestNew_RejectsBadRulesFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.LeagueRulesPath = t.TempDir() + "/missing.yaml"
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected missing rules file to fail")
	}
}
