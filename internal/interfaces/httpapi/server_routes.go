package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pool-league/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsManager *metrics.Manager, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsManager != nil {
		mux.Handle("GET /metrics", metricsManager.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)

	mux.HandleFunc("GET /v1/divisions", handler.ListDivisions)
	mux.HandleFunc("GET /v1/divisions/{divisionID}", handler.GetDivision)
	mux.HandleFunc("GET /v1/divisions/{divisionID}/players", handler.ListDivisionPlayers)

	mux.HandleFunc("GET /v1/sessions", handler.ListSessions)
	mux.HandleFunc("GET /v1/sessions/{sessionID}", handler.GetSession)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/sessions/{sessionID}/schedule.xlsx", handler.ExportSchedule)

	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/games", handler.ListGames)

	mux.HandleFunc("GET /v1/handicap", handler.GetHandicap)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedSessionRoutes(mux, handler, verifier)
	registerAuthorizedFixtureRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/reminders", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReminderJob)))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.CreatePlayer)))
	mux.Handle("PATCH /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayer)))
	mux.Handle("POST /v1/divisions", RequireAuth(verifier, http.HandlerFunc(handler.CreateDivision)))
	mux.Handle("PATCH /v1/divisions/{divisionID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateDivision)))
	mux.Handle("POST /v1/divisions/{divisionID}/players", RequireAuth(verifier, http.HandlerFunc(handler.AddDivisionPlayer)))
	mux.Handle("DELETE /v1/divisions/{divisionID}/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveDivisionPlayer)))
}

func registerAuthorizedSessionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/sessions", RequireAuth(verifier, http.HandlerFunc(handler.CreateSession)))
	mux.Handle("PATCH /v1/sessions/{sessionID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateSession)))
	mux.Handle("POST /v1/sessions/{sessionID}/schedule", RequireAuth(verifier, http.HandlerFunc(handler.ScheduleSession)))
}

func registerAuthorizedFixtureRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/fixtures", RequireAuth(verifier, http.HandlerFunc(handler.CreateFixture)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/results", RequireAuth(verifier, http.HandlerFunc(handler.RecordResults)))
}
