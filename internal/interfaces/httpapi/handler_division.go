package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/pool-league/internal/domain/division"
	"github.com/riskibarqy/pool-league/internal/usecase"
)

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisions")
	defer span.End()

	active, err := queryBool(r, "active")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.divisionService.List(ctx, active != nil && *active)
	if err != nil {
		h.logger.ErrorContext(ctx, "list divisions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]divisionDTO, 0, len(items))
	for _, item := range items {
		if active != nil && item.Active != *active {
			continue
		}
		out = append(out, divisionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDivision")
	defer span.End()

	divisionID, err := pathID(r, "divisionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.divisionService.Get(ctx, divisionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, divisionToDTO(item))
}

func (h *Handler) ListDivisionPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisionPlayers")
	defer span.End()

	divisionID, err := pathID(r, "divisionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.divisionService.ListPlayers(ctx, divisionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list division players failed", "division_id", divisionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) CreateDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateDivision")
	defer span.End()

	var req createDivisionRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.divisionService.Create(ctx, usecase.CreateDivisionInput{
		Name:      req.Name,
		DayOfWeek: time.Weekday(*req.DayOfWeek),
		Active:    req.Active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create division failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "division created", "division_id", item.ID, "actor", actorID(ctx))
	writeSuccess(ctx, w, http.StatusCreated, divisionToDTO(item))
}

func (h *Handler) UpdateDivision(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateDivision")
	defer span.End()

	divisionID, err := pathID(r, "divisionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateDivisionRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	patch := division.Patch{Name: req.Name, Active: req.Active}
	if req.DayOfWeek != nil {
		day := time.Weekday(*req.DayOfWeek)
		patch.DayOfWeek = &day
	}

	item, err := h.divisionService.Update(ctx, divisionID, patch)
	if err != nil {
		h.logger.WarnContext(ctx, "update division failed", "division_id", divisionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, divisionToDTO(item))
}

func (h *Handler) AddDivisionPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddDivisionPlayer")
	defer span.End()

	divisionID, err := pathID(r, "divisionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addDivisionPlayerRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.divisionService.AddPlayer(ctx, divisionID, req.PlayerID); err != nil {
		h.logger.WarnContext(ctx, "add division player failed", "division_id", divisionID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]int64{
		"division_id": divisionID,
		"player_id":   req.PlayerID,
	})
}

func (h *Handler) RemoveDivisionPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveDivisionPlayer")
	defer span.End()

	divisionID, err := pathID(r, "divisionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.divisionService.RemovePlayer(ctx, divisionID, playerID); err != nil {
		h.logger.WarnContext(ctx, "remove division player failed", "division_id", divisionID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
