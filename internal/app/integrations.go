package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/sport-alerts/external/cloudinary"
	"github.com/riskibarqy/sport-alerts/external/jobqueue"
	"github.com/riskibarqy/sport-alerts/external/resend"
	"github.com/riskibarqy/sport-alerts/internal/config"
	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/mail"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/ratelimit"
	"github.com/riskibarqy/sport-alerts/internal/platform/resilience"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

func circuitConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureCount,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReq,
	}
}

func newMailSender(cfg config.Config, logger *logging.Logger) (*mail.Sender, error) {
	renderer, err := mail.NewRenderer(cfg.SiteName)
	if err != nil {
		return nil, fmt.Errorf("build mail renderer: %w", err)
	}

	var transport mail.Transport
	switch cfg.EmailProvider {
	case config.EmailProviderResend:
		client, err := resend.NewClient(resend.ClientConfig{
			BaseURL:        cfg.ResendBaseURL,
			APIKey:         cfg.ResendAPIKey,
			Timeout:        cfg.ResendTimeout,
			MaxRetries:     cfg.ResendMaxRetries,
			Logger:         logger,
			CircuitBreaker: circuitConfig(cfg.ResendCircuit),
		})
		if err != nil {
			return nil, fmt.Errorf("build resend client: %w", err)
		}
		transport = mail.NewResendTransport(client)
	case config.EmailProviderSMTP:
		smtp, err := mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.SMTPTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("build smtp transport: %w", err)
		}
		transport = smtp
	default:
		transport = mail.NewLogTransport(logger)
	}

	logger.Info("email transport ready", "provider", cfg.EmailProvider, "from", cfg.FromEmail)
	return mail.NewSender(renderer, transport, cfg.FromEmail, logger)
}

// newImageStore returns nil when Cloudinary is disabled; banner uploads then
// fail with a dependency error while listing keeps working.
func newImageStore(cfg config.Config, logger *logging.Logger) (banner.ImageStore, error) {
	if !cfg.CloudinaryEnabled {
		logger.Info("cloudinary disabled", "reason", "CLOUDINARY_ENABLED=false")
		return nil, nil
	}
	client, err := cloudinary.NewClient(cloudinary.ClientConfig{
		BaseURL:        cfg.CloudinaryBaseURL,
		CloudName:      cfg.CloudinaryCloudName,
		APIKey:         cfg.CloudinaryAPIKey,
		APISecret:      cfg.CloudinaryAPISecret,
		Folder:         cfg.CloudinaryFolder,
		Timeout:        cfg.CloudinaryTimeout,
		Logger:         logger,
		CircuitBreaker: circuitConfig(cfg.CloudinaryCircuit),
	})
	if err != nil {
		return nil, fmt.Errorf("build cloudinary client: %w", err)
	}
	return client, nil
}

func newJobQueue(cfg config.Config, logger *logging.Logger) (usecase.JobQueue, error) {
	if !cfg.QStashEnabled {
		logger.Info("qstash disabled", "reason", "QSTASH_ENABLED=false")
		return usecase.NewNoopJobQueue(), nil
	}
	publisher, err := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker:   circuitConfig(cfg.QStashCircuit),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build qstash publisher: %w", err)
	}
	return publisher, nil
}

// newRateLimiter returns a nil limiter when limiting is disabled. The close
// func is always non-nil.
func newRateLimiter(ctx context.Context, cfg config.Config, logger *logging.Logger) (*ratelimit.Limiter, func() error, error) {
	noop := func() error { return nil }
	if !cfg.RateLimitEnabled {
		logger.Info("rate limiting disabled", "reason", "RATE_LIMIT_ENABLED=false")
		return nil, noop, nil
	}
	if cfg.RateLimitStore == config.RateLimitStoreRedis {
		store, err := ratelimit.NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("build redis rate limit store: %w", err)
		}
		logger.Info("rate limiting enabled", "store", cfg.RateLimitStore)
		return ratelimit.NewLimiter(store), store.Close, nil
	}
	logger.Info("rate limiting enabled", "store", cfg.RateLimitStore)
	return ratelimit.NewLimiter(ratelimit.NewMemoryStore()), noop, nil
}
