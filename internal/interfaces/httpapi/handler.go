package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

const dateLayout = "2006-01-02"

// Services bundles the use cases the HTTP layer calls into.
type Services struct {
	Players   *usecase.PlayerService
	Divisions *usecase.DivisionService
	Sessions  *usecase.SessionService
	Schedule  *usecase.ScheduleService
	Fixtures  *usecase.FixtureService
	Results   *usecase.ResultService
	Games     *usecase.GameService
	Standings *usecase.StandingsService
	Reminders *usecase.ReminderService
}

type Handler struct {
	playerService    *usecase.PlayerService
	divisionService  *usecase.DivisionService
	sessionService   *usecase.SessionService
	scheduleService  *usecase.ScheduleService
	fixtureService   *usecase.FixtureService
	resultService    *usecase.ResultService
	gameService      *usecase.GameService
	standingsService *usecase.StandingsService
	reminderService  *usecase.ReminderService
	rules            competition.Rules
	logger           *logging.Logger
	validator        *validator.Validate
	now              func() time.Time
}

func NewHandler(services Services, rules competition.Rules, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:    services.Players,
		divisionService:  services.Divisions,
		sessionService:   services.Sessions,
		scheduleService:  services.Schedule,
		fixtureService:   services.Fixtures,
		resultService:    services.Results,
		gameService:      services.Games,
		standingsService: services.Standings,
		reminderService:  services.Reminders,
		rules:            rules,
		logger:           logger.Named("httpapi"),
		validator:        validator.New(),
		now:              time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetHandicap reports the race lengths for two ratings.
func (h *Handler) GetHandicap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHandicap")
	defer span.End()

	ratingA, err := requiredQueryInt(r, "rating_a")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	ratingB, err := requiredQueryInt(r, "rating_b")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if ratingA < 0 || ratingB < 0 {
		writeError(ctx, w, fmt.Errorf("%w: ratings must be >= 0", usecase.ErrInvalidInput))
		return
	}

	weightA, weightB := h.rules.MatchWeight(ratingA, ratingB)
	writeSuccess(ctx, w, http.StatusOK, handicapDTO{
		RatingA: ratingA,
		RatingB: ratingB,
		WeightA: weightA,
		WeightB: weightB,
	})
}

func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}

func queryID(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, key)
	}
	return &v, nil
}

func requiredQueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", usecase.ErrInvalidInput, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return &v, nil
}

// queryTime accepts RFC3339 timestamps or plain dates (midnight UTC).
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := parseDateOrTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD or RFC3339", usecase.ErrInvalidInput, key)
	}
	return &v, nil
}

func parseDateOrTime(raw string) (time.Time, error) {
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return v.UTC(), nil
	}
	return time.Parse(dateLayout, raw)
}

func parseOptionalDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	v, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput)
	}
	return v, nil
}
