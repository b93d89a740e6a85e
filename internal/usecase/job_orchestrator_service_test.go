package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/jobscheduler"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	jobschedulermock "github.com/riskibarqy/sport-alerts/internal/mocks/domain/jobscheduler"
	matchmock "github.com/riskibarqy/sport-alerts/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
)

type enqueuedJob struct {
	path    string
	delay   time.Duration
	dedupID string
}

type recordingJobQueue struct {
	jobs []enqueuedJob
	err  error
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, dedupID string) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, enqueuedJob{path: path, delay: delay, dedupID: dedupID})
	return nil
}

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("match-sweep", "kku:sports/all 2025", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}

	want := "match-sweep-kku-sports-all-2025-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}

func TestJobOrchestratorService_RunSweep_ReschedulesAndRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := matchmock.NewRepository(t)
	dispatches := jobschedulermock.NewRepository(t)
	queue := &recordingJobQueue{}
	sweeper := NewSweepService(matches, nil, SweepConfig{}, nil)
	now := time.Date(2025, time.December, 25, 2, 3, 0, 0, time.UTC)
	sweeper.now = fixedClock(now)

	service := NewJobOrchestratorService(sweeper, queue, dispatches, JobOrchestratorConfig{SweepInterval: 5 * time.Minute}, nil)
	service.now = fixedClock(now)

	matches.
		On("List", ctxIs(ctx), match.ListFilter{ExcludeCompleted: true}).
		Return([]match.Match{}, nil).
		Once()
	dispatches.
		On("Record", ctxIs(ctx), mock.MatchedBy(func(e jobscheduler.DispatchEvent) bool {
			return e.JobName == JobSweep &&
				e.Status == jobscheduler.StatusQueued &&
				e.RunAfter != nil && e.RunAfter.Equal(now.Add(5*time.Minute))
		})).
		Return(nil).
		Once()
	dispatches.
		On("Record", ctxIs(ctx), mock.MatchedBy(func(e jobscheduler.DispatchEvent) bool {
			return e.DispatchID == "qstash-123" &&
				e.Status == jobscheduler.StatusCompleted &&
				e.Summary != nil && e.Summary.Checked == 0 && e.Summary.Transitions == 0
		})).
		Return(nil).
		Once()

	got, err := service.RunSweep(ctx, JobRunInput{DispatchID: "qstash-123", Reschedule: true})
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if got.DispatchID != "qstash-123" || got.Sweep == nil {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(queue.jobs) != 1 {
		t.Fatalf("unexpected queued jobs: got=%d want=1", len(queue.jobs))
	}
	if queue.jobs[0].path != JobPathSweep || queue.jobs[0].delay != 5*time.Minute {
		t.Fatalf("unexpected queued job: %+v", queue.jobs[0])
	}
	if queue.jobs[0].dedupID != "match-sweep-all-20251225T020500Z" {
		t.Fatalf("unexpected dedup id: got=%s", queue.jobs[0].dedupID)
	}
}

func TestJobOrchestratorService_RunReminderCheck_RecordsFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matches := matchmock.NewRepository(t)
	dispatches := jobschedulermock.NewRepository(t)
	sweeper := NewSweepService(matches, nil, SweepConfig{}, nil)
	service := NewJobOrchestratorService(sweeper, nil, dispatches, JobOrchestratorConfig{}, nil)

	matches.
		On("List", ctxIs(ctx), match.ListFilter{ExcludeCompleted: true}).
		Return(nil, errors.New("db down")).
		Once()
	dispatches.
		On("Record", ctxIs(ctx), mock.MatchedBy(func(e jobscheduler.DispatchEvent) bool {
			return e.JobName == JobCheckReminders &&
				e.Status == jobscheduler.StatusFailed &&
				strings.Contains(e.ErrorMessage, "db down") &&
				strings.HasPrefix(e.DispatchID, "manual-check-reminders-")
		})).
		Return(nil).
		Once()

	if _, err := service.RunReminderCheck(ctx, JobRunInput{}); err == nil {
		t.Fatalf("expected reminder check failure")
	}
}

func TestJobOrchestratorService_Bootstrap_EnqueueFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := &recordingJobQueue{err: errors.New("qstash unavailable")}
	service := NewJobOrchestratorService(NewSweepService(matchmock.NewRepository(t), nil, SweepConfig{}, nil), queue, nil, JobOrchestratorConfig{}, nil)

	if _, err := service.Bootstrap(ctx, JobRunInput{}); err == nil {
		t.Fatalf("expected bootstrap failure")
	}
}

func TestJobOrchestratorService_Bootstrap_QueuesImmediateSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	queue := &recordingJobQueue{}
	service := NewJobOrchestratorService(NewSweepService(matchmock.NewRepository(t), nil, SweepConfig{}, nil), queue, nil, JobOrchestratorConfig{}, nil)

	got, err := service.Bootstrap(ctx, JobRunInput{DispatchID: "boot-1"})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if got.QueuedCount != 1 || len(queue.jobs) != 1 || queue.jobs[0].delay != 0 {
		t.Fatalf("unexpected bootstrap result: %+v queued=%+v", got, queue.jobs)
	}
}
