package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/domain/fixture"
	"github.com/riskibarqy/pool-league/internal/domain/player"
	"github.com/riskibarqy/pool-league/internal/domain/session"
	"github.com/riskibarqy/pool-league/internal/infrastructure/export"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSessions")
	defer span.End()

	active, err := queryBool(r, "active")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.sessionService.List(ctx, active != nil && *active)
	if err != nil {
		h.logger.ErrorContext(ctx, "list sessions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]sessionDTO, 0, len(items))
	for _, item := range items {
		if active != nil && item.Active != *active {
			continue
		}
		out = append(out, sessionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.sessionService.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	var req createSessionRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startDate, _ := time.Parse(dateLayout, req.StartDate)
	endDate, _ := time.Parse(dateLayout, req.EndDate)
	item, err := h.sessionService.Create(ctx, usecase.CreateSessionInput{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		MatchTime: req.MatchTime,
		Active:    req.Active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "session created", "session_id", item.ID, "actor", actorID(ctx))
	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(item))
}

func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSession")
	defer span.End()

	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateSessionRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	patch := session.Patch{Name: req.Name, MatchTime: req.MatchTime, Active: req.Active}
	if req.StartDate != nil {
		v, _ := time.Parse(dateLayout, *req.StartDate)
		patch.StartDate = &v
	}
	if req.EndDate != nil {
		v, _ := time.Parse(dateLayout, *req.EndDate)
		patch.EndDate = &v
	}

	item, err := h.sessionService.Update(ctx, sessionID, patch)
	if err != nil {
		h.logger.WarnContext(ctx, "update session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(item))
}

// ScheduleSession regenerates the pending round robin of every active division.
func (h *Handler) ScheduleSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleSession")
	defer span.End()

	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req scheduleSessionRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	schedules, err := h.scheduleService.ScheduleSession(ctx, usecase.ScheduleSessionInput{
		SessionID: sessionID,
		StartDate: startDate,
		Double:    req.double(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "schedule session failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]divisionScheduleDTO, 0, len(schedules))
	for _, item := range schedules {
		out = append(out, divisionScheduleDTO{
			DivisionID: item.DivisionID,
			Players:    item.Players,
			Fixtures:   item.Fixtures,
		})
	}
	h.logger.InfoContext(ctx, "session scheduled", "session_id", sessionID, "divisions", len(out), "actor", actorID(ctx))
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	divisionID, err := queryID(r, "division_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if divisionID == nil {
		writeError(ctx, w, fmt.Errorf("%w: division_id is required", usecase.ErrInvalidInput))
		return
	}

	table, err := h.standingsService.Get(ctx, sessionID, *divisionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "session_id", sessionID, "division_id", *divisionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]standingDTO, 0, len(table))
	for _, row := range table {
		out = append(out, standingToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// ExportSchedule streams the session's fixtures as a workbook, one sheet per division.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportSchedule")
	defer span.End()

	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	divisionID, err := queryID(r, "division_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sess, err := h.sessionService.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var divisions []division.Division
	if divisionID != nil {
		item, err := h.divisionService.Get(ctx, *divisionID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		divisions = []division.Division{item}
	} else {
		divisions, err = h.divisionService.List(ctx, false)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	fixtures, err := h.fixtureService.List(ctx, fixture.Filter{SessionID: &sessionID, DivisionID: divisionID})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	players, err := h.playerService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerByID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}

	byDivision := make(map[int64][]fixture.Fixture, len(divisions))
	for _, fx := range fixtures {
		byDivision[fx.DivisionID] = append(byDivision[fx.DivisionID], fx)
	}
	sheets := make([]export.ScheduleSheet, 0, len(divisions))
	for _, d := range divisions {
		if divisionID == nil && len(byDivision[d.ID]) == 0 {
			continue
		}
		sheets = append(sheets, export.ScheduleSheet{
			Name:     d.Name,
			Fixtures: byDivision[d.ID],
			Players:  playerByID,
		})
	}
	if len(sheets) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: session=%d has no fixtures", usecase.ErrNotFound, sessionID))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSchedule(&buf, sheets); err != nil {
		h.logger.ErrorContext(ctx, "export schedule failed", "session_id", sessionID, "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="session-%d-%s.xlsx"`, sess.ID, sess.StartDate.Format(dateLayout)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(ctx, "write schedule export failed", "session_id", sessionID, "error", err)
	}
}
