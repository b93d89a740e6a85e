package jobscheduler

import (
	"fmt"
	"strings"
	"time"
)

type DispatchStatus string

const (
	// StatusQueued means the run was handed to the job queue and has not executed yet.
	StatusQueued    DispatchStatus = "queued"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

func (s DispatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SweepSummary is what a completed sweep or reminder check did.
type SweepSummary struct {
	Checked       int
	Transitions   int
	RemindersSent int
	Recipients    int
}

// DispatchEvent is one step in the life of a scheduled run. Events with the
// same DispatchID fold into a single ledger row.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	Status       DispatchStatus
	RunAfter     *time.Time
	Summary      *SweepSummary
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
}

// Normalize trims identifiers, checks the status and defaults OccurredAt to now.
func (e DispatchEvent) Normalize(now time.Time) (DispatchEvent, error) {
	e.DispatchID = strings.TrimSpace(e.DispatchID)
	if e.DispatchID == "" {
		return DispatchEvent{}, fmt.Errorf("dispatch id is required")
	}
	e.JobName = strings.TrimSpace(e.JobName)
	if e.JobName == "" {
		return DispatchEvent{}, fmt.Errorf("job name is required for dispatch %s", e.DispatchID)
	}
	switch e.Status {
	case StatusQueued, StatusCompleted, StatusFailed:
	default:
		return DispatchEvent{}, fmt.Errorf("unknown dispatch status %q", e.Status)
	}
	if e.Status != StatusFailed {
		e.ErrorMessage = ""
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	e.OccurredAt = e.OccurredAt.UTC()
	return e, nil
}

// Dispatch is the folded ledger row for one dispatch id.
type Dispatch struct {
	DispatchID string
	JobName    string
	Status     DispatchStatus
	QueuedAt   *time.Time
	RunAfter   *time.Time
	FinishedAt *time.Time
	Summary    SweepSummary
	LastError  string
	TraceID    string
}

// Apply folds event into d. A queued event never reopens a finished dispatch.
func (d Dispatch) Apply(event DispatchEvent) Dispatch {
	d.DispatchID = event.DispatchID
	d.JobName = event.JobName
	if event.TraceID != "" {
		d.TraceID = event.TraceID
	}

	at := event.OccurredAt
	switch event.Status {
	case StatusQueued:
		if d.QueuedAt == nil {
			d.QueuedAt = &at
		}
		if event.RunAfter != nil {
			d.RunAfter = event.RunAfter
		}
		if d.Status.Terminal() {
			return d
		}
	case StatusCompleted:
		d.FinishedAt = &at
		d.LastError = ""
		if event.Summary != nil {
			d.Summary = *event.Summary
		}
	case StatusFailed:
		d.FinishedAt = &at
		d.LastError = event.ErrorMessage
	}
	d.Status = event.Status
	return d
}
