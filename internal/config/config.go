package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"

	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
	EmailProviderLog    = "log"
)

// CircuitConfig mirrors resilience.CircuitBreakerConfig for one outbound client.
type CircuitConfig struct {
	Enabled        bool
	FailureCount   int
	OpenTimeout    time.Duration
	HalfOpenMaxReq int
}

// RateRule is one sliding window: Limit hits per Window.
type RateRule struct {
	Limit  int
	Window time.Duration
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	TrustedProxies     []string
	PprofEnabled       bool
	PprofAddr          string

	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	SessionSecret        string
	SessionIssuer        string
	SessionTTL           time.Duration
	SessionCacheTTL      time.Duration
	SessionCacheMaxItems int
	BcryptCost           int
	AdminUsername        string
	AdminPassword        string

	RateLimitEnabled bool
	RateLimitStore   string
	RedisURL         string
	RateLimitGeneral RateRule
	RateLimitAuth    RateRule
	RateLimitUpload  RateRule

	EmailProvider         string
	FromEmail             string
	SiteName              string
	ResendBaseURL         string
	ResendAPIKey          string
	ResendTimeout         time.Duration
	ResendMaxRetries      int
	ResendCircuit         CircuitConfig
	SMTPHost              string
	SMTPPort              int
	SMTPUsername          string
	SMTPPassword          string
	SMTPTimeout           time.Duration
	NotificationBatchSize int
	NotificationWorkers   int

	CloudinaryEnabled   bool
	CloudinaryBaseURL   string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	CloudinaryTimeout   time.Duration
	CloudinaryCircuit   CircuitConfig

	InternalJobToken    string
	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int
	QStashCircuit       CircuitConfig
	SweepInterval       time.Duration
	SweepConcurrency    int

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "sport-alerts-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TrustedProxies:     splitCSV(getEnv("TRUSTED_PROXIES", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}
	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAuth(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadRateLimit(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadEmail(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadCloudinary(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadJobs(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	var err error

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.StorageDriver == StoragePostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"); err != nil {
		return err
	}

	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "60s"); err != nil {
		return err
	}
	return nil
}

func loadAuth(cfg *Config) error {
	var err error

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", ""))
	if cfg.SessionSecret == "" {
		if cfg.AppEnv == EnvProd {
			return fmt.Errorf("SESSION_SECRET is required when APP_ENV=prod")
		}
		cfg.SessionSecret = "dev-only-session-secret"
	}
	cfg.SessionIssuer = strings.TrimSpace(getEnv("SESSION_ISSUER", "sport-alerts"))
	if cfg.SessionTTL, err = getEnvAsPositiveDuration("SESSION_TTL", "24h"); err != nil {
		return err
	}
	if cfg.SessionCacheTTL, err = getEnvAsPositiveDuration("SESSION_CACHE_TTL", "1m"); err != nil {
		return err
	}
	if cfg.SessionCacheMaxItems, err = getEnvAsPositiveInt("SESSION_CACHE_MAX_ITEMS", 10000); err != nil {
		return err
	}

	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		return fmt.Errorf("parse BCRYPT_COST: %w", err)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	cfg.AdminUsername = strings.TrimSpace(getEnv("ADMIN_USERNAME", "admin"))
	if cfg.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME cannot be empty")
	}
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")
	return nil
}

func loadRateLimit(cfg *Config) error {
	var err error

	if cfg.RateLimitEnabled, err = getEnvAsBool("RATE_LIMIT_ENABLED", "true"); err != nil {
		return err
	}
	cfg.RateLimitStore = strings.ToLower(strings.TrimSpace(getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory)))
	switch cfg.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return fmt.Errorf("invalid RATE_LIMIT_STORE %q: valid values are %s, %s", cfg.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis)
	}
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))
	if cfg.RateLimitEnabled && cfg.RateLimitStore == RateLimitStoreRedis && cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when RATE_LIMIT_STORE=redis")
	}

	if cfg.RateLimitGeneral, err = loadRateRule("RATE_LIMIT_GENERAL", 100, "15m"); err != nil {
		return err
	}
	if cfg.RateLimitAuth, err = loadRateRule("RATE_LIMIT_AUTH", 5, "15m"); err != nil {
		return err
	}
	if cfg.RateLimitUpload, err = loadRateRule("RATE_LIMIT_UPLOAD", 10, "1h"); err != nil {
		return err
	}
	return nil
}

func loadRateRule(prefix string, limit int, window string) (RateRule, error) {
	var (
		rule RateRule
		err  error
	)
	if rule.Limit, err = getEnvAsPositiveInt(prefix+"_LIMIT", limit); err != nil {
		return RateRule{}, err
	}
	if rule.Window, err = getEnvAsPositiveDuration(prefix+"_WINDOW", window); err != nil {
		return RateRule{}, err
	}
	return rule, nil
}

func loadEmail(cfg *Config) error {
	var err error

	cfg.EmailProvider = strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", EmailProviderLog)))
	cfg.FromEmail = strings.TrimSpace(getEnv("FROM_EMAIL", "EN Sport Alerts <noreply@ensport.local>"))
	cfg.SiteName = strings.TrimSpace(getEnv("SITE_NAME", "EN Sport Alerts"))

	cfg.ResendBaseURL = strings.TrimSpace(getEnv("RESEND_BASE_URL", "https://api.resend.com"))
	cfg.ResendAPIKey = strings.TrimSpace(getEnv("RESEND_API_KEY", ""))
	if cfg.ResendTimeout, err = getEnvAsPositiveDuration("RESEND_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.ResendMaxRetries, err = getEnvAsInt("RESEND_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse RESEND_MAX_RETRIES: %w", err)
	}
	if cfg.ResendMaxRetries < 0 {
		return fmt.Errorf("RESEND_MAX_RETRIES must be >= 0")
	}
	if cfg.ResendCircuit, err = loadCircuit("RESEND"); err != nil {
		return err
	}

	cfg.SMTPHost = strings.TrimSpace(getEnv("SMTP_HOST", ""))
	if cfg.SMTPPort, err = getEnvAsPositiveInt("SMTP_PORT", 587); err != nil {
		return err
	}
	cfg.SMTPUsername = strings.TrimSpace(getEnv("SMTP_USERNAME", ""))
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	if cfg.SMTPTimeout, err = getEnvAsPositiveDuration("SMTP_TIMEOUT", "10s"); err != nil {
		return err
	}

	switch cfg.EmailProvider {
	case EmailProviderResend:
		if cfg.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
		}
	case EmailProviderSMTP:
		if cfg.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when EMAIL_PROVIDER=smtp")
		}
	case EmailProviderLog:
	default:
		return fmt.Errorf("invalid EMAIL_PROVIDER %q: valid values are %s, %s, %s", cfg.EmailProvider, EmailProviderResend, EmailProviderSMTP, EmailProviderLog)
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("FROM_EMAIL cannot be empty")
	}

	if cfg.NotificationBatchSize, err = getEnvAsPositiveInt("NOTIFICATION_BATCH_SIZE", 50); err != nil {
		return err
	}
	if cfg.NotificationWorkers, err = getEnvAsPositiveInt("NOTIFICATION_WORKERS", 4); err != nil {
		return err
	}
	return nil
}

func loadCloudinary(cfg *Config) error {
	var err error

	if cfg.CloudinaryEnabled, err = getEnvAsBool("CLOUDINARY_ENABLED", "false"); err != nil {
		return err
	}
	cfg.CloudinaryBaseURL = strings.TrimSpace(getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"))
	cfg.CloudinaryCloudName = strings.TrimSpace(getEnv("CLOUDINARY_CLOUD_NAME", ""))
	cfg.CloudinaryAPIKey = strings.TrimSpace(getEnv("CLOUDINARY_API_KEY", ""))
	cfg.CloudinaryAPISecret = strings.TrimSpace(getEnv("CLOUDINARY_API_SECRET", ""))
	cfg.CloudinaryFolder = strings.TrimSpace(getEnv("CLOUDINARY_FOLDER", "KKUENSPORT/Banner"))
	if cfg.CloudinaryTimeout, err = getEnvAsPositiveDuration("CLOUDINARY_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.CloudinaryCircuit, err = loadCircuit("CLOUDINARY"); err != nil {
		return err
	}
	if cfg.CloudinaryEnabled && (cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "") {
		return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when CLOUDINARY_ENABLED=true")
	}
	return nil
}

func loadJobs(cfg *Config) error {
	var err error

	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if cfg.QStashEnabled, err = getEnvAsBool("QSTASH_ENABLED", "false"); err != nil {
		return err
	}
	cfg.QStashBaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	cfg.QStashToken = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	cfg.QStashTargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	if cfg.QStashRetries, err = getEnvAsInt("QSTASH_RETRIES", 3); err != nil {
		return fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if cfg.QStashRetries < 0 {
		return fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if cfg.QStashCircuit, err = loadCircuit("QSTASH"); err != nil {
		return err
	}
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	if cfg.SweepInterval, err = getEnvAsPositiveDuration("SWEEP_INTERVAL", "5m"); err != nil {
		return err
	}
	if cfg.SweepConcurrency, err = getEnvAsPositiveInt("SWEEP_CONCURRENCY", 4); err != nil {
		return err
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.UptraceCaptureRequestBody, err = getEnvAsBool("UPTRACE_CAPTURE_REQUEST_BODY", "false"); err != nil {
		return err
	}
	if cfg.UptraceRequestBodyMaxBytes, err = getEnvAsPositiveInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192); err != nil {
		return err
	}

	if cfg.BetterStackEnabled, err = getEnvAsBool("BETTERSTACK_ENABLED", "false"); err != nil {
		return err
	}
	cfg.BetterStackEndpoint = strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if cfg.BetterStackEnabled && cfg.BetterStackEndpoint == "" {
		return fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	cfg.BetterStackToken = strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", ""))
	if cfg.BetterStackTimeout, err = getEnvAsPositiveDuration("BETTERSTACK_TIMEOUT", "3s"); err != nil {
		return err
	}
	cfg.BetterStackMinLevel = logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

func loadCircuit(prefix string) (CircuitConfig, error) {
	var (
		out CircuitConfig
		err error
	)
	if out.Enabled, err = getEnvAsBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return CircuitConfig{}, err
	}
	if out.FailureCount, err = getEnvAsPositiveInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return CircuitConfig{}, err
	}
	if out.OpenTimeout, err = getEnvAsPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return CircuitConfig{}, err
	}
	if out.HalfOpenMaxReq, err = getEnvAsPositiveInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return CircuitConfig{}, err
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsPositiveInt(key string, fallback int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

// SchedulerConfig drives cmd/scheduler, which triggers internal job endpoints
// on a cron spec for deployments without QStash.
type SchedulerConfig struct {
	AppEnv           string
	LogLevel         logging.Level
	CronSpec         string
	TargetBaseURL    string
	InternalJobToken string
	Timeout          time.Duration
	RunOnStart       bool
}

func LoadScheduler() (SchedulerConfig, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return SchedulerConfig{}, err
	}

	cfg := SchedulerConfig{
		AppEnv:           appEnv,
		LogLevel:         logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CronSpec:         strings.TrimSpace(getEnv("SCHEDULER_CRON_SPEC", "@every 5m")),
		TargetBaseURL:    strings.TrimRight(strings.TrimSpace(getEnv("SCHEDULER_TARGET_BASE_URL", "http://localhost:8080")), "/"),
		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	if cfg.InternalJobToken == "" {
		return SchedulerConfig{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required for the scheduler")
	}
	if cfg.TargetBaseURL == "" {
		return SchedulerConfig{}, fmt.Errorf("SCHEDULER_TARGET_BASE_URL cannot be empty")
	}
	if cfg.Timeout, err = getEnvAsPositiveDuration("SCHEDULER_TIMEOUT", "2m"); err != nil {
		return SchedulerConfig{}, err
	}
	if cfg.RunOnStart, err = getEnvAsBool("SCHEDULER_RUN_ON_START", "true"); err != nil {
		return SchedulerConfig{}, err
	}
	return cfg, nil
}
