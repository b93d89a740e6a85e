package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/jobscheduler"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

const (
	JobSweep          = "match-sweep"
	JobCheckReminders = "check-reminders"
	JobBootstrap      = "bootstrap"

	// JobPathSweep is the internal endpoint the job queue calls back.
	JobPathSweep = "/v1/internal/jobs/sweep"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	SweepInterval time.Duration
}

type JobRunInput struct {
	DispatchID string
	// Reschedule enqueues the next sweep after SweepInterval, keeping the chain alive.
	Reschedule bool
}

type JobRunResult struct {
	Mode             string       `json:"mode"`
	DispatchID       string       `json:"dispatchId"`
	Sweep            *SweepResult `json:"sweep,omitempty"`
	QueuedCount      int          `json:"queuedCount"`
	QueuedOperations []string     `json:"queuedOperations"`
}

// JobOrchestratorService runs sweeps on behalf of the external scheduler and
// records every dispatch.
type JobOrchestratorService struct {
	sweeper      *SweepService
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	sweeper *SweepService,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}

	return &JobOrchestratorService{
		sweeper:      sweeper,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// RunSweep evaluates statuses and sends due reminders.
func (s *JobOrchestratorService) RunSweep(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunSweep")
	defer span.End()

	return s.runJob(ctx, JobSweep, input, s.sweeper.Run)
}

// RunReminderCheck only sends due reminders.
func (s *JobOrchestratorService) RunReminderCheck(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RunReminderCheck")
	defer span.End()

	return s.runJob(ctx, JobCheckReminders, input, s.sweeper.CheckReminders)
}

// Bootstrap starts the self-rescheduling sweep chain with an immediate sweep.
func (s *JobOrchestratorService) Bootstrap(ctx context.Context, input JobRunInput) (JobRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.Bootstrap")
	defer span.End()

	now := s.now().UTC()
	dispatchID := s.dispatchIDFor(JobBootstrap, input.DispatchID, now)
	result := JobRunResult{
		Mode:             JobBootstrap,
		DispatchID:       dispatchID,
		QueuedOperations: make([]string, 0, 1),
	}

	if err := s.enqueueSweep(ctx, 0, now); err != nil {
		s.recordDispatchEvent(ctx, failedEvent(JobBootstrap, dispatchID, err, now))
		return JobRunResult{}, err
	}
	result.QueuedCount++
	result.QueuedOperations = append(result.QueuedOperations, JobSweep)

	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		JobName:    JobBootstrap,
		Status:     jobscheduler.StatusCompleted,
		OccurredAt: now,
	})
	return result, nil
}

func (s *JobOrchestratorService) runJob(
	ctx context.Context,
	jobName string,
	input JobRunInput,
	run func(context.Context) (SweepResult, error),
) (JobRunResult, error) {
	now := s.now().UTC()
	dispatchID := s.dispatchIDFor(jobName, input.DispatchID, now)

	sweep, err := run(ctx)
	if err != nil {
		s.recordDispatchEvent(ctx, failedEvent(jobName, dispatchID, err, now))
		s.logger.WarnContext(ctx, "internal job failed", "job_name", jobName, "dispatch_id", dispatchID, "error", err)
		return JobRunResult{}, err
	}

	result := JobRunResult{
		Mode:             jobName,
		DispatchID:       dispatchID,
		Sweep:            &sweep,
		QueuedOperations: make([]string, 0, 1),
	}
	if input.Reschedule {
		if err := s.enqueueSweep(ctx, s.cfg.SweepInterval, now); err != nil {
			s.logger.WarnContext(ctx, "reschedule sweep failed", "dispatch_id", dispatchID, "error", err)
		} else {
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, JobSweep)
		}
	}

	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dispatchID,
		JobName:    jobName,
		Status:     jobscheduler.StatusCompleted,
		Summary: &jobscheduler.SweepSummary{
			Checked:       sweep.Checked,
			Transitions:   len(sweep.Transitions),
			RemindersSent: sweep.RemindersSent,
			Recipients:    sweep.Recipients,
		},
		OccurredAt: now,
	})
	return result, nil
}

// enqueueSweep hands the next sweep to the job queue. The dispatch id doubles
// as the queue deduplication id, so one slot is enqueued at most once.
func (s *JobOrchestratorService) enqueueSweep(ctx context.Context, delay time.Duration, now time.Time) error {
	runAfter := now.Add(delay)
	dedupID := dedupKey(JobSweep, "all", runAfter, s.cfg.SweepInterval)
	payload := map[string]any{
		"dispatch_id": dedupID,
		"reschedule":  true,
	}
	if err := s.queue.Enqueue(ctx, JobPathSweep, payload, delay, dedupID); err != nil {
		s.recordDispatchEvent(ctx, failedEvent(JobSweep, dedupID, err, now))
		return fmt.Errorf("enqueue %s: %w", JobSweep, err)
	}
	s.recordDispatchEvent(ctx, jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		JobName:    JobSweep,
		Status:     jobscheduler.StatusQueued,
		RunAfter:   &runAfter,
		OccurredAt: now,
	})
	return nil
}

func failedEvent(jobName, dispatchID string, err error, at time.Time) jobscheduler.DispatchEvent {
	return jobscheduler.DispatchEvent{
		DispatchID:   dispatchID,
		JobName:      jobName,
		Status:       jobscheduler.StatusFailed,
		ErrorMessage: err.Error(),
		OccurredAt:   at,
	}
}

func (s *JobOrchestratorService) dispatchIDFor(jobName, provided string, now time.Time) string {
	if provided = strings.TrimSpace(provided); provided != "" {
		return provided
	}
	return "manual-" + sanitizeDedupSegment(jobName) + "-" + now.UTC().Format("20060102T150405.000000000Z")
}

func dedupKey(prefix, target string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	target = sanitizeDedupSegment(target)
	return prefix + "-" + target + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil {
		return
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		event.TraceID = sc.TraceID().String()
	}
	if err := s.dispatchRepo.Record(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}
