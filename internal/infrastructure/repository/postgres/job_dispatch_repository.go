package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/sport-alerts/internal/platform/querybuilder"
)

// Mirrors jobscheduler.Dispatch.Apply: a queued event keeps the first
// queued_at and never moves a finished row back to queued.
const jobDispatchConflict = `ON CONFLICT (dispatch_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    status = CASE
        WHEN EXCLUDED.status = 'queued' AND job_dispatches.status IN ('completed', 'failed') THEN job_dispatches.status
        ELSE EXCLUDED.status
    END,
    queued_at = COALESCE(job_dispatches.queued_at, EXCLUDED.queued_at),
    run_after = COALESCE(EXCLUDED.run_after, job_dispatches.run_after),
    finished_at = COALESCE(EXCLUDED.finished_at, job_dispatches.finished_at),
    checked = CASE WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.checked ELSE job_dispatches.checked END,
    transitions = CASE WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.transitions ELSE job_dispatches.transitions END,
    reminders_sent = CASE WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.reminders_sent ELSE job_dispatches.reminders_sent END,
    recipients = CASE WHEN EXCLUDED.status = 'completed' THEN EXCLUDED.recipients ELSE job_dispatches.recipients END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        WHEN EXCLUDED.status = 'completed' THEN NULL
        ELSE job_dispatches.last_error
    END,
    trace_id = COALESCE(EXCLUDED.trace_id, job_dispatches.trace_id),
    updated_at = NOW()`

type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) Record(ctx context.Context, event jobscheduler.DispatchEvent) error {
	event, err := event.Normalize(time.Now())
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("job_dispatches", dispatchRow(event), jobDispatchConflict)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record job dispatch dispatch_id=%s status=%s: %w", event.DispatchID, event.Status, err)
	}
	return nil
}

func dispatchRow(event jobscheduler.DispatchEvent) jobDispatchInsertModel {
	at := event.OccurredAt
	row := jobDispatchInsertModel{
		DispatchID: event.DispatchID,
		JobName:    event.JobName,
		Status:     string(event.Status),
		RunAfter:   event.RunAfter,
		LastError:  optionalString(event.ErrorMessage),
		TraceID:    optionalString(event.TraceID),
	}

	switch event.Status {
	case jobscheduler.StatusQueued:
		row.QueuedAt = &at
	default:
		row.FinishedAt = &at
	}
	if event.Summary != nil {
		row.Checked = event.Summary.Checked
		row.Transitions = event.Summary.Transitions
		row.RemindersSent = event.Summary.RemindersSent
		row.Recipients = event.Summary.Recipients
	}
	return row
}
