package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	internalJobTokenHeader = "X-Internal-Job-Token"
	sweepPath              = "/v1/internal/jobs/sweep"
)

type Config struct {
	CronSpec         string
	TargetBaseURL    string
	InternalJobToken string
	Timeout          time.Duration
}

// Scheduler posts the sweep job to the API on a cron spec. Overlapping runs
// are skipped, so a slow sweep never stacks up behind itself.
type Scheduler struct {
	cron    *cron.Cron
	client  *http.Client
	target  string
	token   string
	timeout time.Duration
	logger  *logging.Logger
}

func New(cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	target := strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/")
	if target == "" {
		return nil, crerr.New("scheduler target base url is required")
	}
	if strings.TrimSpace(cfg.InternalJobToken) == "" {
		return nil, crerr.New("scheduler internal job token is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	cronLogger := cronLogAdapter{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		client:  &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		target:  target + sweepPath,
		token:   strings.TrimSpace(cfg.InternalJobToken),
		timeout: timeout,
		logger:  logger,
	}

	spec := strings.TrimSpace(cfg.CronSpec)
	if _, err := s.cron.AddFunc(spec, func() { _ = s.Trigger(context.Background()) }); err != nil {
		return nil, crerr.Wrapf(err, "invalid cron spec %q", spec)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("scheduler started", "target", s.target)
	s.cron.Start()
}

// Stop waits for a running trigger to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", "error", ctx.Err())
	}
	s.logger.Info("scheduler stopped")
}

// Trigger posts one sweep job. The dispatch id is unique per trigger so the
// API records each run separately.
func (s *Scheduler) Trigger(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	dispatchID := "cron-" + uuid.NewString()
	body := fmt.Sprintf(`{"dispatch_id":%q}`, dispatchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.target, strings.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "build sweep request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(internalJobTokenHeader, s.token)

	started := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.ErrorContext(ctx, "sweep trigger failed", "dispatch_id", dispatchID, "error", err)
		return crerr.Wrap(err, "post sweep job")
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= http.StatusMultipleChoices {
		s.logger.ErrorContext(ctx, "sweep trigger rejected",
			"dispatch_id", dispatchID,
			"status", resp.StatusCode,
			"body", string(payload),
		)
		return crerr.Newf("sweep job returned status %d", resp.StatusCode)
	}

	s.logger.InfoContext(ctx, "sweep triggered",
		"dispatch_id", dispatchID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
