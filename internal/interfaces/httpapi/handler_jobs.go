package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/riskibarqy/pool-league/internal/usecase"
)

const maxJobBodyBytes = 4 << 10

// RunReminderJob sends today's match reminders. An optional {"date": "YYYY-MM-DD"}
// body replays another day.
func (h *Handler) RunReminderJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReminderJob")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxJobBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err))
		return
	}
	var req reminderJobRequest
	if len(bytes.TrimSpace(body)) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err := h.decodeJSON(ctx, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	day := h.now().UTC()
	if req.Date != "" {
		parsed, err := parseOptionalDate(req.Date)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		day = parsed
	}

	report, err := h.reminderService.SendDue(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "reminder job failed", "date", day.Format(dateLayout), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reminderReportDTO{
		Date:     day.Format(time.DateOnly),
		Fixtures: report.Fixtures,
		Sent:     report.Sent,
		Skipped:  report.Skipped,
		Failed:   report.Failed,
		Marked:   report.Marked,
	})
}
