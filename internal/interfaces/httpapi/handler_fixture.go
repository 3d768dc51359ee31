package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/competition"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/game"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	var (
		filter fixture.Filter
		err    error
	)
	if filter.SessionID, err = queryID(r, "session_id"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.DivisionID, err = queryID(r, "division_id"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.PlayerID, err = queryID(r, "player_id"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.Completed, err = queryBool(r, "completed"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.From, err = queryTime(r, "from"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.fixtureService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(items))
}

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	fixtureID, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.fixtureService.Get(ctx, fixtureID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) CreateFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFixture")
	defer span.End()

	var req createFixtureRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)

	item, err := h.fixtureService.Create(ctx, usecase.CreateFixtureInput{
		SessionID:     req.SessionID,
		DivisionID:    req.DivisionID,
		Player1ID:     req.Player1ID,
		Player2ID:     req.Player2ID,
		ScheduledDate: scheduledAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create fixture failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "fixture created", "fixture_id", item.ID, "actor", actorID(ctx))
	writeSuccess(ctx, w, http.StatusCreated, fixtureToDTO(item))
}

// RecordResults completes a fixture with its games.
func (h *Handler) RecordResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordResults")
	defer span.End()

	fixtureID, err := pathID(r, "fixtureID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordResultsRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	inputs := make([]competition.GameInput, 0, len(req.Games))
	for _, g := range req.Games {
		inputs = append(inputs, competition.GameInput{
			WinnerID:       g.WinnerID,
			LoserID:        g.LoserID,
			BallsRemaining: g.BallsRemaining,
		})
	}

	result, err := h.resultService.RecordResults(ctx, fixtureID, inputs)
	if err != nil {
		h.logger.WarnContext(ctx, "record results failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "results recorded",
		"fixture_id", fixtureID,
		"games", len(result.Games),
		"propagated", result.Propagated,
		"actor", actorID(ctx),
	)
	writeSuccess(ctx, w, http.StatusOK, recordedResultToDTO(result))
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	var (
		filter game.Filter
		err    error
	)
	if filter.FixtureID, err = queryID(r, "fixture_id"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.PlayerID, err = queryID(r, "player_id"); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.gameService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gamesToDTO(items))
}
