package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sport-alerts/internal/config"
	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/domain/jobscheduler"
	"github.com/riskibarqy/sport-alerts/internal/domain/match"
	"github.com/riskibarqy/sport-alerts/internal/domain/sport"
	"github.com/riskibarqy/sport-alerts/internal/domain/subscriber"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	cacherepo "github.com/riskibarqy/sport-alerts/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sport-alerts/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/sport-alerts/internal/platform/cache"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

type repositories struct {
	matches     match.Repository
	subscribers subscriber.Repository
	banners     banner.Repository
	users       user.Repository
	activity    activitylog.Repository
	dispatches  jobscheduler.Repository
	sports      sport.Repository
	close       func() error
}

// newRepositories builds the storage layer for cfg.StorageDriver. admin is
// seeded on an empty users table when it carries a password hash.
func newRepositories(ctx context.Context, cfg config.Config, admin user.User, logger *logging.Logger) (repositories, error) {
	var (
		repos repositories
		err   error
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		repos, err = newPostgresRepositories(ctx, cfg, admin)
	default:
		repos = newMemoryRepositories(admin)
	}
	if err != nil {
		return repositories{}, err
	}

	if cfg.CacheEnabled {
		repos.sports = cacherepo.NewSportRepository(repos.sports, basecache.NewStore[[]sport.Sport](cfg.CacheTTL, 0))
		repos.banners = cacherepo.NewBannerRepository(repos.banners, basecache.NewStore[[]banner.Banner](cfg.CacheTTL, 0))
	}

	logger.Info("storage ready",
		"driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"cache_ttl", cfg.CacheTTL.String(),
	)
	return repos, nil
}

func newMemoryRepositories(admin user.User) repositories {
	var seedUsers []user.User
	if admin.PasswordHash != "" {
		seedUsers = append(seedUsers, admin)
	}
	return repositories{
		matches:     memory.NewMatchRepository(),
		subscribers: memory.NewSubscriberRepository(),
		banners:     memory.NewBannerRepository(),
		users:       memory.NewUserRepository(seedUsers...),
		activity:    memory.NewActivityLogRepository(),
		dispatches:  memory.NewJobDispatchRepository(),
		sports:      memory.NewSportRepository(memory.SeedSports()),
		close:       func() error { return nil },
	}
}

func newPostgresRepositories(ctx context.Context, cfg config.Config, admin user.User) (repositories, error) {
	db, err := postgres.Open(ctx, postgres.OpenConfig{
		URL:                   cfg.DBURL,
		DisablePreparedBinary: cfg.DBDisablePreparedBinary,
	})
	if err != nil {
		return repositories{}, err
	}
	if err := postgres.BootstrapSeed(ctx, db, admin); err != nil {
		_ = db.Close()
		return repositories{}, err
	}

	return postgresRepositories(db), nil
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		matches:     postgres.NewMatchRepository(db),
		subscribers: postgres.NewSubscriberRepository(db),
		banners:     postgres.NewBannerRepository(db),
		users:       postgres.NewUserRepository(db),
		activity:    postgres.NewActivityLogRepository(db),
		dispatches:  postgres.NewJobDispatchRepository(db),
		sports:      postgres.NewSportRepository(db),
		close:       db.Close,
	}
}
