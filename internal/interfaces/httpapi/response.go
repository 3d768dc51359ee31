package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

// Responses follow the Google JSON style guide envelope.
const (
	googleAPIVersion = "2.0"
	errorDomain      = "pool-league"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var (
	errConflict     = mappedError{http.StatusConflict, "conflict", "ALREADY_EXISTS"}
	errInvalidInput = mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}
	errBadResult    = mappedError{http.StatusBadRequest, "invalidResult", "INVALID_ARGUMENT"}
	errNotFound     = mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}
	errUnauth       = mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}
	errForbidden    = mappedError{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}
	errUnavailable  = mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}
	errInternal     = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}
)

// errorMappings is checked in order; the first sentinel found in the chain wins.
var errorMappings = []struct {
	target error
	mapped mappedError
}{
	{competition.ErrFixtureCompleted, errConflict},
	{usecase.ErrConflict, errConflict},
	{usecase.ErrInvalidInput, errInvalidInput},
	{competition.ErrNoGames, errBadResult},
	{competition.ErrPlayerNotInFixture, errBadResult},
	{competition.ErrInvalidBallsRemaining, errBadResult},
	{competition.ErrUndecidedResult, errBadResult},
	{usecase.ErrNotFound, errNotFound},
	{usecase.ErrUnauthorized, errUnauth},
	{usecase.ErrForbidden, errForbidden},
	{usecase.ErrDependencyUnavailable, errUnavailable},
}

func mapError(err error) mappedError {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.mapped
		}
	}
	return errInternal
}

func writeJSON(_ context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError never leaks the text of unmapped errors.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := err.Error()
	if mapped == errInternal {
		message = "internal server error"
	}
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeError(ctx, w, errors.New("internal server error"))
}
