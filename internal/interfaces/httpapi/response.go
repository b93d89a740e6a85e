package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "sport-alerts"
)

// envelope follows the Google JSON style guide: data on success, error
// otherwise, never both.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorKind struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalKind = errorKind{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorKinds is checked in order; the first sentinel matched by errors.Is wins.
var errorKinds = []struct {
	target error
	kind   errorKind
}{
	{usecase.ErrInvalidInput, errorKind{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, errorKind{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, errorKind{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, errorKind{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}},
	{usecase.ErrInvalidState, errorKind{http.StatusConflict, "invalidState", "FAILED_PRECONDITION"}},
	{usecase.ErrRateLimited, errorKind{http.StatusTooManyRequests, "rateLimitExceeded", "RESOURCE_EXHAUSTED"}},
	{usecase.ErrNotification, errorKind{http.StatusBadGateway, "notificationFailed", "UNAVAILABLE"}},
	{usecase.ErrDependencyUnavailable, errorKind{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func classifyError(err error) errorKind {
	for _, candidate := range errorKinds {
		if errors.Is(err, candidate.target) {
			return candidate.kind
		}
	}
	return internalKind
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	_, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError renders err with the status of its sentinel. Unclassified
// errors are reported as a bare internal error so driver text never leaks.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	_, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	kind := classifyError(err)
	message := err.Error()
	if kind == internalKind {
		message = "internal server error"
	}
	writeFailure(w, kind, message)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	_, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeFailure(w, internalKind, "internal server error")
}

func writeFailure(w http.ResponseWriter, kind errorKind, message string) {
	writeJSON(w, kind.HTTPStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    kind.HTTPStatus,
			Message: message,
			Status:  kind.Status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: kind.Reason, Message: message}},
		},
	})
}
