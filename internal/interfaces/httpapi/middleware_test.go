package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "configured origin", allowed: []string{"https://league.example.com"}, method: http.MethodGet, origin: "https://league.example.com", wantStatus: http.StatusOK, wantOrigin: "https://league.example.com"},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://league.example.com", wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "unknown origin", allowed: []string{"https://league.example.com"}, method: http.MethodGet, origin: "https://elsewhere.example.com", wantStatus: http.StatusOK, wantOrigin: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(tt.method, "/v1/fixtures", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"/healthz":               false,
		" /healthz ":             false,
		"/livez":                 false,
		"/metrics":               false,
		"/v1/players":            true,
		"/v1/standings":          true,
		"/v1/fixtures/3/results": true,
		"/docs":                  true,
	} {
		if got := shouldTraceRequest(path); got != want {
			t.Fatalf("shouldTraceRequest(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"httpapi.Handler.RecordResults": true,
		"httpapi.Handler.GetStandings":  true,
		"httpapi.Handler.SwaggerUI":     false,
		"httpapi.Handler.Healthz":       false,
		"httpapi.RequestLogging":        false,
	} {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q) = %v, want %v", name, got, want)
		}
	}
}
