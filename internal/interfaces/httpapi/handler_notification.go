package httpapi

import (
	"net/http"
)

type notifyMatchRequest struct {
	MatchID string `json:"matchId" validate:"required"`
}

func (h *Handler) SendMatchReminder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendMatchReminder")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req notifyMatchRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.notificationService.SendReminder(ctx, principal, req.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "send match reminder failed", "match_id", req.MatchID, "sent_to", result.SentTo, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SendMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendMatchResult")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req notifyMatchRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.notificationService.SendResult(ctx, principal, req.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "send match result failed", "match_id", req.MatchID, "sent_to", result.SentTo, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
