package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/pool-league/internal/domain/user"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

type stubVerifier struct {
	principal user.Principal
	err       error
	gotToken  string
}

func (s *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	s.gotToken = token
	return s.principal, s.err
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantToken  string
	}{
		{name: "missing header", header: "", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic abc", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer   ", verifier: &stubVerifier{}, wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", verifier: &stubVerifier{err: fmt.Errorf("%w: expired", usecase.ErrUnauthorized)}, wantStatus: http.StatusUnauthorized, wantToken: "bad"},
		{name: "not an admin", header: "Bearer t", verifier: &stubVerifier{err: usecase.ErrForbidden}, wantStatus: http.StatusForbidden, wantToken: "t"},
		{name: "verified but not admin", header: "Bearer v", verifier: &stubVerifier{principal: user.Principal{UserID: "u2", Role: "viewer"}}, wantStatus: http.StatusForbidden, wantToken: "v"},
		{name: "admin", header: "bearer good", verifier: &stubVerifier{principal: user.Principal{UserID: "u1", Role: user.RoleAdmin}}, wantStatus: http.StatusNoContent, wantToken: "good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen user.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = principalFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/players", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAuth(tt.verifier, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.verifier.gotToken != tt.wantToken {
				t.Fatalf("verifier token=%q want=%q", tt.verifier.gotToken, tt.wantToken)
			}
			if tt.wantStatus == http.StatusNoContent && seen.UserID != "u1" {
				t.Fatalf("principal not propagated, got %+v", seen)
			}
		})
	}
}

func TestRequireAuth_NilVerifier(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next must not run")
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/players", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()

	RequireAuth(nil, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "not configured", configured: "", provided: "x", wantStatus: http.StatusServiceUnavailable},
		{name: "missing", configured: "secret", provided: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong", configured: "secret", provided: "secreT", wantStatus: http.StatusUnauthorized},
		{name: "match", configured: "secret", provided: "secret", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reminders", nil)
			if tt.provided != "" {
				req.Header.Set("X-Internal-Job-Token", tt.provided)
			}
			rec := httptest.NewRecorder()

			RequireInternalJobToken(tt.configured, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	req := httptest.NewRequest(http.MethodGet, "/v1/players", nil)
	rec := httptest.NewRecorder()

	recoverPanic(nopLogger(), next).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
