package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type activityPageDTO struct {
	Logs       []activityLogDTO `json:"logs"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	HasMore    bool             `json:"hasMore"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ServerTime(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ServerTime")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.clockService.Now())
}

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	items, err := h.sportService.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list sports failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]sportDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toSportDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActivityLogs")
	defer span.End()

	page, err := parseQueryInt(r, "page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := parseQueryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.activityLogService.List(ctx, usecase.ListActivityInput{
		Page:   page,
		Limit:  limit,
		Filter: r.URL.Query().Get("filter"),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list activity logs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	logs := make([]activityLogDTO, 0, len(result.Logs))
	for _, entry := range result.Logs {
		logs = append(logs, toActivityLogDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, activityPageDTO{
		Logs:       logs,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		HasMore:    result.HasMore,
	})
}
