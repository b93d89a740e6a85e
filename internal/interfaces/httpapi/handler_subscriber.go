package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type subscribeRequest struct {
	Email  string   `json:"email" validate:"required,email,max=254"`
	Sports []string `json:"sports" validate:"omitempty,max=20,dive,required,max=100"`
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Subscribe")
	defer span.End()

	var req subscribeRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.subscriberService.Subscribe(ctx, usecase.SubscribeInput{
		Email:  req.Email,
		Sports: req.Sports,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "subscribe failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toSubscriberDTO(item))
}

// ListSubscribers serves a single lookup when ?email= is given and the full
// list to admins otherwise.
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubscribers")
	defer span.End()

	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		item, err := h.subscriberService.GetByEmail(ctx, email)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, toSubscriberDTO(item))
		return
	}

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !principal.IsAdmin() {
		writeError(ctx, w, fmt.Errorf("%w: only admins can list subscribers", usecase.ErrForbidden))
		return
	}

	items, err := h.subscriberService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list subscribers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]subscriberDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toSubscriberDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Unsubscribe")
	defer span.End()

	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if err := h.subscriberService.Unsubscribe(ctx, email); err != nil {
		h.logger.WarnContext(ctx, "unsubscribe failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"email": strings.ToLower(email)})
}
