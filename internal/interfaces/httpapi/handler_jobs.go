package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

type internalJobRequest struct {
	DispatchID string `json:"dispatch_id"`
	Reschedule bool   `json:"reschedule"`
}

type jobRunner func(ctx context.Context, input usecase.JobRunInput) (usecase.JobRunResult, error)

func (h *Handler) RunSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	h.runInternalJob(ctx, w, r, usecase.JobSweep, h.jobOrchestrator.RunSweep)
}

func (h *Handler) RunReminderCheckJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReminderCheckJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	h.runInternalJob(ctx, w, r, usecase.JobCheckReminders, h.jobOrchestrator.RunReminderCheck)
}

func (h *Handler) RunBootstrapJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBootstrapJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}
	h.runInternalJob(ctx, w, r, usecase.JobBootstrap, h.jobOrchestrator.Bootstrap)
}

func (h *Handler) runInternalJob(ctx context.Context, w http.ResponseWriter, r *http.Request, jobName string, run jobRunner) {
	req, err := decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := run(ctx, usecase.JobRunInput{
		DispatchID: req.DispatchID,
		Reschedule: req.Reschedule,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run internal job failed", "job_name", jobName, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "internal job completed",
		"job_name", jobName,
		"dispatch_id", result.DispatchID,
		"queued", result.QueuedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

// decodeInternalJobRequest accepts an empty body so schedulers can POST without a payload.
func decodeInternalJobRequest(r *http.Request) (internalJobRequest, error) {
	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()

	var req internalJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobRequest{}, nil
		}
		return internalJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
