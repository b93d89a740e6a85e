package jobscheduler

import (
	"testing"
	"time"
)

func TestDispatchEvent_Normalize(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.December, 25, 9, 0, 0, 0, time.FixedZone("ICT", 7*3600))

	got, err := DispatchEvent{DispatchID: " d-1 ", JobName: "match-sweep", Status: StatusCompleted, ErrorMessage: "stale"}.Normalize(now)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.DispatchID != "d-1" || got.ErrorMessage != "" {
		t.Fatalf("unexpected normalized event: %+v", got)
	}
	if !got.OccurredAt.Equal(now) || got.OccurredAt.Location() != time.UTC {
		t.Fatalf("unexpected occurredAt: got=%v want=%v in UTC", got.OccurredAt, now)
	}

	invalid := []DispatchEvent{
		{JobName: "match-sweep", Status: StatusQueued},
		{DispatchID: "d-1", Status: StatusQueued},
		{DispatchID: "d-1", JobName: "match-sweep", Status: "sent"},
	}
	for _, event := range invalid {
		if _, err := event.Normalize(now); err == nil {
			t.Fatalf("expected error for %+v", event)
		}
	}
}

func TestDispatch_Apply(t *testing.T) {
	t.Parallel()

	queuedAt := time.Date(2025, time.December, 25, 2, 0, 0, 0, time.UTC)
	runAfter := queuedAt.Add(5 * time.Minute)
	finishedAt := runAfter.Add(3 * time.Second)

	var d Dispatch
	d = d.Apply(DispatchEvent{DispatchID: "d-1", JobName: "match-sweep", Status: StatusQueued, RunAfter: &runAfter, OccurredAt: queuedAt})
	if d.Status != StatusQueued || d.QueuedAt == nil || !d.RunAfter.Equal(runAfter) {
		t.Fatalf("unexpected queued dispatch: %+v", d)
	}

	d = d.Apply(DispatchEvent{DispatchID: "d-1", JobName: "match-sweep", Status: StatusFailed, ErrorMessage: "db down", OccurredAt: finishedAt})
	if d.Status != StatusFailed || d.LastError != "db down" {
		t.Fatalf("unexpected failed dispatch: %+v", d)
	}

	d = d.Apply(DispatchEvent{
		DispatchID: "d-1",
		JobName:    "match-sweep",
		Status:     StatusCompleted,
		Summary:    &SweepSummary{Checked: 4, Transitions: 1, RemindersSent: 1, Recipients: 12},
		OccurredAt: finishedAt.Add(time.Minute),
	})
	if d.Status != StatusCompleted || d.LastError != "" || d.Summary.Recipients != 12 {
		t.Fatalf("unexpected completed dispatch: %+v", d)
	}

	d = d.Apply(DispatchEvent{DispatchID: "d-1", JobName: "match-sweep", Status: StatusQueued, OccurredAt: finishedAt.Add(2 * time.Minute)})
	if d.Status != StatusCompleted {
		t.Fatalf("queued event reopened finished dispatch: got=%s want=%s", d.Status, StatusCompleted)
	}
	if !d.QueuedAt.Equal(queuedAt) {
		t.Fatalf("queuedAt overwritten: got=%v want=%v", d.QueuedAt, queuedAt)
	}
}
