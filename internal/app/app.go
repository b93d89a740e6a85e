package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/config"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/account/session"
	"github.com/riskibarqy/sport-alerts/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
	"github.com/riskibarqy/sport-alerts/internal/platform/password"
	"github.com/riskibarqy/sport-alerts/internal/platform/ratelimit"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

// NewHTTPServer wires storage, integrations and services behind the HTTP
// router. The returned close func releases the database and rate limit store.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	ids := idgen.NewUUIDGenerator()
	hasher := password.NewBcryptHasher(cfg.BcryptCost)

	admin, err := bootstrapAdmin(cfg, hasher, ids)
	if err != nil {
		return nil, nil, err
	}
	if admin.PasswordHash == "" {
		logger.Warn("admin bootstrap skipped", "reason", "ADMIN_PASSWORD empty", "username", cfg.AdminUsername)
	}

	repos, err := newRepositories(ctx, cfg, admin, logger)
	if err != nil {
		return nil, nil, err
	}
	limiter, closeLimiter, err := newRateLimiter(ctx, cfg, logger)
	if err != nil {
		_ = repos.close()
		return nil, nil, err
	}
	closeAll := func() error {
		return errors.Join(closeLimiter(), repos.close())
	}

	handler, sessions, err := newHandler(cfg, repos, hasher, ids, logger)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	var rateLimiter httpapi.RateLimiter
	if limiter != nil {
		rateLimiter = limiter
	}
	clientIPs, err := httpapi.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		_ = closeAll()
		return nil, nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	router := httpapi.NewRouter(handler, sessions, rateLimiter, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ClientIPResolver:   clientIPs,
		InternalJobToken:   cfg.InternalJobToken,
		RateLimits: httpapi.RateLimitRules{
			General: rateRule("general", cfg.RateLimitGeneral),
			Auth:    rateRule("auth", cfg.RateLimitAuth),
			Upload:  rateRule("upload", cfg.RateLimitUpload),
		},
	}, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, closeAll, nil
}

func newHandler(
	cfg config.Config,
	repos repositories,
	hasher *password.BcryptHasher,
	ids *idgen.UUIDGenerator,
	logger *logging.Logger,
) (*httpapi.Handler, *session.Manager, error) {
	sender, err := newMailSender(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	images, err := newImageStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	queue, err := newJobQueue(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := session.NewManager(session.Config{
		Secret:        cfg.SessionSecret,
		Issuer:        cfg.SessionIssuer,
		TTL:           cfg.SessionTTL,
		CacheTTL:      cfg.SessionCacheTTL,
		CacheMaxItems: cfg.SessionCacheMaxItems,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build session manager: %w", err)
	}

	activitySvc := usecase.NewActivityLogService(repos.activity, ids, logger)
	notificationSvc := usecase.NewNotificationService(
		repos.matches,
		repos.subscribers,
		sender,
		activitySvc,
		usecase.NotificationConfig{
			BatchSize: cfg.NotificationBatchSize,
			Workers:   cfg.NotificationWorkers,
		},
		logger,
	)
	matchSvc := usecase.NewMatchService(repos.matches, notificationSvc, activitySvc, ids, logger)
	sweepSvc := usecase.NewSweepService(repos.matches, notificationSvc, usecase.SweepConfig{
		Concurrency: cfg.SweepConcurrency,
	}, logger)
	jobSvc := usecase.NewJobOrchestratorService(sweepSvc, queue, repos.dispatches, usecase.JobOrchestratorConfig{
		SweepInterval: cfg.SweepInterval,
	}, logger)
	subscriberSvc := usecase.NewSubscriberService(repos.subscribers, sender, activitySvc, ids, logger)
	bannerSvc := usecase.NewBannerService(repos.banners, images, activitySvc, ids, logger)
	authSvc := usecase.NewAuthService(repos.users, hasher, sessions, activitySvc, logger)
	userSvc := usecase.NewUserService(repos.users, hasher, activitySvc, ids, usecase.UserServiceConfig{
		ProtectedUsername: cfg.AdminUsername,
	}, logger)
	sportSvc := usecase.NewSportService(repos.sports)

	handler := httpapi.NewHandler(
		matchSvc,
		notificationSvc,
		sweepSvc,
		jobSvc,
		subscriberSvc,
		bannerSvc,
		authSvc,
		userSvc,
		activitySvc,
		sportSvc,
		usecase.NewClockService(),
		logger,
	)
	return handler, sessions, nil
}

// bootstrapAdmin returns the first admin account, or a zero user when no
// password is configured.
func bootstrapAdmin(cfg config.Config, hasher *password.BcryptHasher, ids *idgen.UUIDGenerator) (user.User, error) {
	if cfg.AdminPassword == "" {
		return user.User{}, nil
	}
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return user.User{}, fmt.Errorf("hash admin password: %w", err)
	}
	adminID, err := ids.NewID()
	if err != nil {
		return user.User{}, fmt.Errorf("generate admin id: %w", err)
	}
	now := time.Now().UTC()
	return user.User{
		ID:           adminID,
		Username:     cfg.AdminUsername,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func rateRule(name string, r config.RateRule) ratelimit.Rule {
	return ratelimit.Rule{Name: name, Limit: r.Limit, Window: r.Window}
}
