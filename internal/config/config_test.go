package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", "token-123")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.BetterStackEnabled {
		t.Fatalf("expected BetterStackEnabled=true")
	}
	if cfg.BetterStackEndpoint != "s1765114.eu-fsn-3.betterstackdata.com" {
		t.Fatalf("unexpected BetterStackEndpoint: %q", cfg.BetterStackEndpoint)
	}
	if cfg.BetterStackToken != "token-123" {
		t.Fatalf("unexpected BetterStackToken")
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel.String())
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "sport-alerts-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "sport-alerts-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8 ,173.245.48.0/20, ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1] != "173.245.48.0/20" {
		t.Fatalf("unexpected trusted proxies: got=%v", cfg.TrustedProxies)
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_QStashConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.QStashEnabled {
			t.Fatalf("expected QStashEnabled=false by default")
		}
		if cfg.SweepInterval != 5*time.Minute {
			t.Fatalf("unexpected default sweep interval: %s", cfg.SweepInterval)
		}
	})

	t.Run("enabled requires token and target and internal token", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "")
		t.Setenv("QSTASH_TARGET_BASE_URL", "")
		t.Setenv("INTERNAL_JOB_TOKEN", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when QSTASH_ENABLED=true without required env")
		}
	})

	t.Run("enabled with required values", func(t *testing.T) {
		t.Setenv("QSTASH_ENABLED", "true")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "https://sport-alerts.fly.dev")
		t.Setenv("INTERNAL_JOB_TOKEN", "internal-job-token")
		t.Setenv("QSTASH_RETRIES", "2")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.QStashEnabled {
			t.Fatalf("expected QStashEnabled=true")
		}
		if cfg.QStashRetries != 2 {
			t.Fatalf("unexpected qstash retries: %d", cfg.QStashRetries)
		}
		if cfg.InternalJobToken != "internal-job-token" {
			t.Fatalf("unexpected internal job token: %q", cfg.InternalJobToken)
		}
	})
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("memory by default", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StorageMemory {
			t.Fatalf("unexpected storage driver: got=%q want=%q", cfg.StorageDriver, StorageMemory)
		}
	})

	t.Run("postgres requires DB_URL", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DB_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for postgres without DB_URL")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})
}

func TestLoad_SessionSecret(t *testing.T) {
	t.Run("dev falls back to a local secret", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SESSION_SECRET", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SessionSecret == "" {
			t.Fatalf("expected non-empty dev session secret")
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("unexpected session ttl: got=%s want=%s", cfg.SessionTTL, 24*time.Hour)
		}
		if cfg.BcryptCost != 12 {
			t.Fatalf("unexpected bcrypt cost: got=%d want=12", cfg.BcryptCost)
		}
	})

	t.Run("prod requires SESSION_SECRET", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SESSION_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for prod without SESSION_SECRET")
		}
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("BCRYPT_COST", "3")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for BCRYPT_COST=3")
		}
	})
}

func TestLoad_RateLimitConfig(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.RateLimitEnabled || cfg.RateLimitStore != RateLimitStoreMemory {
			t.Fatalf("unexpected rate limit defaults: enabled=%v store=%q", cfg.RateLimitEnabled, cfg.RateLimitStore)
		}
		if cfg.RateLimitGeneral != (RateRule{Limit: 100, Window: 15 * time.Minute}) {
			t.Fatalf("unexpected general rule: %+v", cfg.RateLimitGeneral)
		}
		if cfg.RateLimitAuth != (RateRule{Limit: 5, Window: 15 * time.Minute}) {
			t.Fatalf("unexpected auth rule: %+v", cfg.RateLimitAuth)
		}
		if cfg.RateLimitUpload != (RateRule{Limit: 10, Window: time.Hour}) {
			t.Fatalf("unexpected upload rule: %+v", cfg.RateLimitUpload)
		}
	})

	t.Run("redis store requires REDIS_URL", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_STORE", "redis")
		t.Setenv("REDIS_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for redis store without REDIS_URL")
		}
	})

	t.Run("zero limit rejected", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_AUTH_LIMIT", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for RATE_LIMIT_AUTH_LIMIT=0")
		}
	})
}

func TestLoad_EmailProvider(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("log by default", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.EmailProvider != EmailProviderLog {
			t.Fatalf("unexpected email provider: got=%q want=%q", cfg.EmailProvider, EmailProviderLog)
		}
	})

	t.Run("resend requires api key", func(t *testing.T) {
		t.Setenv("EMAIL_PROVIDER", "resend")
		t.Setenv("RESEND_API_KEY", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for resend without RESEND_API_KEY")
		}
	})

	t.Run("smtp requires host", func(t *testing.T) {
		t.Setenv("EMAIL_PROVIDER", "smtp")
		t.Setenv("SMTP_HOST", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for smtp without SMTP_HOST")
		}
	})

	t.Run("smtp with host", func(t *testing.T) {
		t.Setenv("EMAIL_PROVIDER", "SMTP")
		t.Setenv("SMTP_HOST", "smtp.gmail.com")
		t.Setenv("SMTP_PORT", "465")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.EmailProvider != EmailProviderSMTP || cfg.SMTPPort != 465 {
			t.Fatalf("unexpected smtp config: provider=%q port=%d", cfg.EmailProvider, cfg.SMTPPort)
		}
	})
}

func TestLoad_CloudinaryRequiresCredentialsWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CLOUDINARY_ENABLED", "true")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CLOUDINARY_ENABLED=true without credentials")
	}
}

func TestLoad_CircuitDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RESEND_CIRCUIT_FAILURE_COUNT", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ResendCircuit.FailureCount != 9 {
		t.Fatalf("unexpected resend failure count: got=%d want=9", cfg.ResendCircuit.FailureCount)
	}
	if !cfg.CloudinaryCircuit.Enabled || cfg.CloudinaryCircuit.OpenTimeout != 15*time.Second {
		t.Fatalf("unexpected cloudinary circuit: %+v", cfg.CloudinaryCircuit)
	}
}

func TestLoadScheduler(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("requires internal job token", func(t *testing.T) {
		t.Setenv("INTERNAL_JOB_TOKEN", "")
		if _, err := LoadScheduler(); err == nil {
			t.Fatalf("expected error without INTERNAL_JOB_TOKEN")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
		t.Setenv("SCHEDULER_TARGET_BASE_URL", "https://alerts.example.com/")
		cfg, err := LoadScheduler()
		if err != nil {
			t.Fatalf("load scheduler config: %v", err)
		}
		if cfg.CronSpec != "@every 5m" {
			t.Fatalf("unexpected cron spec: got=%q want=%q", cfg.CronSpec, "@every 5m")
		}
		if cfg.TargetBaseURL != "https://alerts.example.com" {
			t.Fatalf("unexpected target base url: %q", cfg.TargetBaseURL)
		}
		if !cfg.RunOnStart || cfg.Timeout != 2*time.Minute {
			t.Fatalf("unexpected scheduler defaults: %+v", cfg)
		}
	})
}
