package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/infrastructure/auth"
	"github.com/riskibarqy/pool-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
	"github.com/riskibarqy/pool-league/internal/usecase"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testJobToken = "job-token"
)

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type apiHarness struct {
	router http.Handler
	token  string
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	store := memory.NewStore()
	players := memory.NewPlayerRepository(store)
	divisions := memory.NewDivisionRepository(store)
	sessions := memory.NewSessionRepository(store)
	fixtures := memory.NewFixtureRepository(store)
	games := memory.NewGameRepository(store)
	ledgerStore := memory.NewLedgerStore(store)
	rules := competition.DefaultRules()
	logger := logging.NewNop()
	metricsManager := metrics.NewManager()

	standings := usecase.NewStandingsService(sessions, divisions, fixtures, games, rules, nil, metricsManager)
	handler := NewHandler(Services{
		Players:   usecase.NewPlayerService(players, rules),
		Divisions: usecase.NewDivisionService(divisions, players),
		Sessions:  usecase.NewSessionService(sessions),
		Schedule:  usecase.NewScheduleService(sessions, divisions, players, ledgerStore, rules, metricsManager, logger),
		Fixtures:  usecase.NewFixtureService(fixtures, sessions, divisions, ledgerStore, rules),
		Results:   usecase.NewResultService(ledgerStore, rules, standings, metricsManager, logger),
		Games:     usecase.NewGameService(games),
		Standings: standings,
		Reminders: usecase.NewReminderService(fixtures, players, sessions, nil, 1, metricsManager, logger),
	}, rules, logger)

	token, err := auth.IssueToken(testSecret, "", "admin-1", time.Hour, time.Now())
	require.NoError(t, err)

	return &apiHarness{
		router: NewRouter(handler, RouterConfig{
			Verifier:         auth.NewJWTVerifier(testSecret, ""),
			Logger:           logger,
			Metrics:          metricsManager,
			SwaggerEnabled:   true,
			CORSOrigins:      []string{"*"},
			InternalJobToken: testJobToken,
		}),
		token:  token,
	}
}

func (h *apiHarness) do(t *testing.T, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Nil(t, env.Error, rec.Body.String())
	return env.Data
}

func errorReason(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope[any]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.NotNil(t, env.Error)
	require.NotEmpty(t, env.Error.Errors)
	return env.Error.Errors[0].Reason
}

func TestLeagueNightFlow(t *testing.T) {
	t.Parallel()
	api := newAPIHarness(t)

	rec := api.do(t, http.MethodPost, "/v1/players", `{"first_name":"Ava","last_name":"L"}`, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/v1/players", `{"first_name":"Ava","last_name":"L","email":"ava@example.com"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ava := decodeData[playerAdminDTO](t, rec)
	require.Equal(t, 600, ava.Rating)
	require.Equal(t, "ava@example.com", ava.Email)

	rec = api.do(t, http.MethodPost, "/v1/players", `{"first_name":"Ben","last_name":"O"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ben := decodeData[playerAdminDTO](t, rec)

	rec = api.do(t, http.MethodPost, "/v1/divisions", `{"name":"Tuesday Open","day_of_week":2}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	div := decodeData[divisionDTO](t, rec)
	require.Equal(t, "Tuesday", div.DayName)

	for _, id := range []int64{ava.ID, ben.ID} {
		rec = api.do(t, http.MethodPost, pathf("/v1/divisions/%d/players", div.ID), jsonf(`{"player_id":%d}`, id), true)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodPost, "/v1/sessions", `{"name":"Spring","start_date":"2026-03-03","end_date":"2026-05-26","match_time":"19:30"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decodeData[sessionDTO](t, rec)

	rec = api.do(t, http.MethodPost, pathf("/v1/sessions/%d/schedule", sess.ID), `{}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	scheduled := decodeData[[]divisionScheduleDTO](t, rec)
	require.Equal(t, []divisionScheduleDTO{{DivisionID: div.ID, Players: 2, Fixtures: 2}}, scheduled)

	rec = api.do(t, http.MethodGet, pathf("/v1/fixtures?session_id=%d&completed=false", sess.ID), "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fixtures := decodeData[[]fixtureDTO](t, rec)
	require.Len(t, fixtures, 2)
	fx := fixtures[0]
	require.Equal(t, 8, fx.Player1Weight)
	require.Equal(t, 8, fx.Player2Weight)

	rec = api.do(t, http.MethodPost, pathf("/v1/fixtures/%d/results", fx.ID), jsonf(`{"games":[{"winner_id":%d,"loser_id":%d,"balls_remaining":3}]}`, ava.ID, ben.ID), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	recorded := decodeData[recordedResultDTO](t, rec)
	require.True(t, recorded.Fixture.Completed)
	require.Len(t, recorded.Games, 1)
	require.Positive(t, recorded.Games[0].WinnerRatingChange)

	rec = api.do(t, http.MethodPost, pathf("/v1/fixtures/%d/results", fx.ID), jsonf(`{"games":[{"winner_id":%d,"loser_id":%d,"balls_remaining":1}]}`, ben.ID, ava.ID), true)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, pathf("/v1/sessions/%d/standings?division_id=%d", sess.ID, div.ID), "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	table := decodeData[[]standingDTO](t, rec)
	require.NotEmpty(t, table)
	require.Equal(t, ava.ID, table[0].PlayerID)
	require.Equal(t, 3, table[0].Points)
	require.Equal(t, 1, table[0].GameDifference)

	rec = api.do(t, http.MethodGet, pathf("/v1/games?fixture_id=%d", fx.ID), "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeData[[]gameDTO](t, rec), 1)

	rec = api.do(t, http.MethodGet, pathf("/v1/sessions/%d/schedule.xlsx", sess.ID), "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestPublicPlayerHidesContactDetails(t *testing.T) {
	t.Parallel()
	api := newAPIHarness(t)

	rec := api.do(t, http.MethodPost, "/v1/players", `{"first_name":"Ava","last_name":"L","email":"ava@example.com","phone":"555"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/v1/players/1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "ava@example.com")
	require.NotContains(t, rec.Body.String(), "555")
}

func TestRequestValidation(t *testing.T) {
	t.Parallel()
	api := newAPIHarness(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		authorized bool
		wantStatus int
		wantReason string
	}{
		{name: "unknown field", method: http.MethodPost, path: "/v1/players", body: `{"first_name":"A","last_name":"B","rating":900}`, authorized: true, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "bad email", method: http.MethodPost, path: "/v1/players", body: `{"first_name":"A","last_name":"B","email":"nope"}`, authorized: true, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "day out of range", method: http.MethodPost, path: "/v1/divisions", body: `{"name":"X","day_of_week":7}`, authorized: true, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "bad match time", method: http.MethodPost, path: "/v1/sessions", body: `{"name":"S","start_date":"2026-03-03","end_date":"2026-05-26","match_time":"7pm"}`, authorized: true, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "empty games", method: http.MethodPost, path: "/v1/fixtures/1/results", body: `{"games":[]}`, authorized: true, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "non numeric id", method: http.MethodGet, path: "/v1/players/abc", wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "missing player", method: http.MethodGet, path: "/v1/players/42", wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{name: "standings need a division", method: http.MethodGet, path: "/v1/sessions/1/standings", wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "bad from", method: http.MethodGet, path: "/v1/fixtures?from=yesterday", wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "bad bearer", method: http.MethodPost, path: "/v1/sessions", body: `{}`, wantStatus: http.StatusUnauthorized, wantReason: "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body, tt.authorized)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			require.Equal(t, tt.wantReason, errorReason(t, rec))
		})
	}
}

func TestScheduleSession_LegsDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantFixtures int
	}{
		{name: "empty body plays both legs", body: `{}`, wantFixtures: 12},
		{name: "start date only plays both legs", body: `{"start_date":"2026-03-10"}`, wantFixtures: 12},
		{name: "explicit double", body: `{"double":true}`, wantFixtures: 12},
		{name: "single leg on request", body: `{"double":false}`, wantFixtures: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := newAPIHarness(t)

			rec := api.do(t, http.MethodPost, "/v1/divisions", `{"name":"Open","day_of_week":2}`, true)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			div := decodeData[divisionDTO](t, rec)
			for _, name := range []string{"Ava", "Ben", "Cal", "Dee"} {
				rec = api.do(t, http.MethodPost, "/v1/players", jsonf(`{"first_name":%q,"last_name":"L"}`, name), true)
				require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
				p := decodeData[playerAdminDTO](t, rec)
				rec = api.do(t, http.MethodPost, pathf("/v1/divisions/%d/players", div.ID), jsonf(`{"player_id":%d}`, p.ID), true)
				require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			}
			rec = api.do(t, http.MethodPost, "/v1/sessions", `{"name":"Spring","start_date":"2026-03-03","end_date":"2026-05-26","match_time":"19:30"}`, true)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			sess := decodeData[sessionDTO](t, rec)

			rec = api.do(t, http.MethodPost, pathf("/v1/sessions/%d/schedule", sess.ID), tt.body, true)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Equal(t, []divisionScheduleDTO{{DivisionID: div.ID, Players: 4, Fixtures: tt.wantFixtures}}, decodeData[[]divisionScheduleDTO](t, rec))
		})
	}
}

func TestGetHandicap(t *testing.T) {
	t.Parallel()
	api := newAPIHarness(t)

	rec := api.do(t, http.MethodGet, "/v1/handicap?rating_a=600&rating_b=700", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, handicapDTO{RatingA: 600, RatingB: 700, WeightA: 7, WeightB: 8}, decodeData[handicapDTO](t, rec))

	rec = api.do(t, http.MethodGet, "/v1/handicap?rating_a=600", "", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminderJobRoute(t *testing.T) {
	t.Parallel()
	api := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reminders", nil)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reminders", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
}

func TestSystemRoutes(t *testing.T) {
	t.Parallel()
	api := newAPIHarness(t)

	rec := api.do(t, http.MethodGet, "/healthz", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/openapi.yaml", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "openapi:"))
	require.Equal(t, docsCacheControl, rec.Header().Get("Cache-Control"))

	rec = api.do(t, http.MethodGet, "/docs", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `url: "/openapi.yaml"`)

	rec = api.do(t, http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "GET /healthz")
}
