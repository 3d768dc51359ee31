// Package notifier delivers match reminders to an HTTP mail relay.
package notifier

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
	"github.com/riskibarqy/pool-league/internal/platform/resilience"
	"github.com/riskibarqy/pool-league/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const remindersPath = "/v1/messages"

var errRelayTransient = crerr.New("mail relay transient failure")

var circuitStates = []string{
	string(resilience.CircuitStateClosed),
	string(resilience.CircuitStateOpen),
	string(resilience.CircuitStateHalfOpen),
}

type WebhookConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Sender         string
	Timeout        time.Duration
	RatePerSecond  float64
	CircuitBreaker resilience.CircuitBreakerConfig
	Metrics        *metrics.Manager
	Logger         *logging.Logger
}

// Webhook posts one JSON message per reminder. It is safe for concurrent use.
type Webhook struct {
	client  *http.Client
	baseURL string
	token   string
	sender  string
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewWebhook(cfg WebhookConfig) (*Webhook, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid NOTIFIER_BASE_URL")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}

	breaker := resilience.NewFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		m := cfg.Metrics
		m.SetNotifierCircuitState(string(resilience.CircuitStateClosed), circuitStates...)
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			m.SetNotifierCircuitState(string(to), circuitStates...)
			logger.Warn("notifier circuit changed state", "from", string(from), "to", string(to))
		})
	}

	return &Webhook{
		client:  client,
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		sender:  strings.TrimSpace(cfg.Sender),
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		logger:  logger,
	}, nil
}

type messagePayload struct {
	From           string `json:"from,omitempty"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Text           string `json:"text"`
	FixtureID      int64  `json:"fixture_id"`
	PlayerID       int64  `json:"player_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (w *Webhook) SendReminder(ctx context.Context, reminder usecase.Reminder) error {
	if strings.TrimSpace(reminder.Email) == "" {
		return crerr.Newf("reminder for player=%d has no email", reminder.PlayerID)
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return crerr.Wrap(err, "wait for notifier rate limit")
	}

	err := w.breaker.Execute(func() error {
		return w.post(ctx, reminder)
	}, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		w.logger.WarnContext(ctx, "notifier circuit breaker rejected reminder", "fixture_id", reminder.FixtureID)
		return fmt.Errorf("%w: mail relay is temporarily unavailable: %v", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func (w *Webhook) post(ctx context.Context, reminder usecase.Reminder) error {
	body, err := sonic.Marshal(messagePayload{
		From:           w.sender,
		To:             reminder.Email,
		Subject:        reminderSubject(reminder),
		Text:           renderReminderText(reminder),
		FixtureID:      reminder.FixtureID,
		PlayerID:       reminder.PlayerID,
		IdempotencyKey: reminder.IdempotencyKey,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal reminder payload")
	}

	target := w.baseURL + remindersPath
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notifier.url", target),
			attribute.Int64("notifier.fixture_id", reminder.FixtureID),
			attribute.Int64("notifier.player_id", reminder.PlayerID),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create notifier request")
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}
	if reminder.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", reminder.IdempotencyKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post reminder url=%s: %v", errRelayTransient, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: post reminder status=%d body=%s", errRelayTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return crerr.Newf("post reminder status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	w.logger.DebugContext(ctx, "match reminder delivered",
		"fixture_id", reminder.FixtureID,
		"player_id", reminder.PlayerID,
		"idempotency_key", reminder.IdempotencyKey,
	)
	return nil
}

func reminderSubject(r usecase.Reminder) string {
	return "Match tonight vs " + r.OpponentName
}

func renderReminderText(r usecase.Reminder) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Hi ")
	_, _ = buf.WriteString(r.PlayerName)
	_, _ = buf.WriteString(",\n\nYou play ")
	_, _ = buf.WriteString(r.OpponentName)
	_, _ = buf.WriteString(" (rating ")
	_, _ = buf.WriteString(strconv.Itoa(r.OpponentRating))
	_, _ = buf.WriteString(") on ")
	_, _ = buf.WriteString(r.MatchDate.Format("Monday 2 January"))
	if r.MatchTime != "" {
		_, _ = buf.WriteString(" at ")
		_, _ = buf.WriteString(r.MatchTime)
	}
	_, _ = buf.WriteString(".\nRace to ")
	_, _ = buf.WriteString(strconv.Itoa(r.Weight))
	_, _ = buf.WriteString(", your opponent races to ")
	_, _ = buf.WriteString(strconv.Itoa(r.OpponentWeight))
	_, _ = buf.WriteString(".\n")

	return buf.String()
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errRelayTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
