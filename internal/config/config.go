package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
	StoreDriverNone     = "none"
)

// ProviderConfig configures one API-Sports adapter.
type ProviderConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level
	LogFormat      logging.Format

	StoreDriver             string
	DBURL                   string
	DBMaxOpenConns          int
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	CORSAllowedOrigins []string
	InternalJobToken   string

	Football                     ProviderConfig
	Basketball                   ProviderConfig
	ProviderTimeout              time.Duration
	ProviderMaxRetries           int
	ProviderCircuitEnabled       bool
	ProviderCircuitFailureCount  int
	ProviderCircuitOpenTimeout   time.Duration
	ProviderCircuitHalfOpenMaxReq int
	ProviderTimezone             *time.Location

	MatchBlacklist   string
	BlacklistRefresh time.Duration
	BigLeagues       []string

	StuckMaxLive           time.Duration
	MatchRetention         time.Duration
	GradingInterMatchDelay time.Duration

	SchedulerEnabled     bool
	JobSyncLiveInterval  time.Duration
	JobSyncTodayInterval time.Duration
	JobGradeInterval     time.Duration
	JobFixStuckHour      uint
	JobFixStuckMinute    uint
	JobWorkers           int
	// JobTimeout bounds one scheduled run. Zero leaves runs unbounded.
	JobTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LiveBoardTTL  time.Duration

	MetricsEnabled bool
	MetricsAddr    string

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
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

	logFormat, err := logging.ParseFormat(getEnv("APP_LOG_FORMAT", string(logging.FormatJSON)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		LogFormat:          logFormat,
		ServiceName:        getEnv("APP_SERVICE_NAME", "matchday-engine"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		MatchBlacklist:     strings.TrimSpace(getEnv("MATCH_BLACKLIST", "")),
		BigLeagues:         splitCSV(getEnv("BIG_LEAGUES", "")),
		RedisAddr:          strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		MetricsAddr:        strings.TrimSpace(getEnv("METRICS_ADDR", ":9090")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.StoreDriver, err = parseStoreDriver(getEnv("STORE_DRIVER", ""), cfg.DBURL); err != nil {
		return Config{}, err
	}
	if cfg.StoreDriver == StoreDriverPostgres && cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
	}
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.Football, err = loadProvider("FOOTBALL", "https://v3.football.api-sports.io"); err != nil {
		return Config{}, err
	}
	if cfg.Basketball, err = loadProvider("BASKETBALL", "https://v1.basketball.api-sports.io"); err != nil {
		return Config{}, err
	}
	if cfg.ProviderTimeout, err = getEnvAsDuration("PROVIDER_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ProviderMaxRetries, err = getEnvAsInt("PROVIDER_MAX_RETRIES", 0); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_MAX_RETRIES: %w", err)
	}
	if cfg.ProviderMaxRetries < 0 {
		return Config{}, fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0")
	}
	if cfg.ProviderCircuitEnabled, err = getEnvAsBool("PROVIDER_CIRCUIT_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.ProviderCircuitFailureCount, err = getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ProviderCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.ProviderCircuitOpenTimeout, err = getEnvAsDuration("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ProviderCircuitHalfOpenMaxReq, err = getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.ProviderCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	tz := strings.TrimSpace(getEnv("PROVIDER_TIMEZONE", "UTC"))
	if cfg.ProviderTimezone, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_TIMEZONE: %w", err)
	}

	if cfg.BlacklistRefresh, err = getEnvAsDuration("BLACKLIST_REFRESH", "5m"); err != nil {
		return Config{}, err
	}
	if cfg.StuckMaxLive, err = getEnvAsDuration("STUCK_MAX_HOURS_LIVE", "4h"); err != nil {
		return Config{}, err
	}
	if cfg.MatchRetention, err = getEnvAsDuration("MATCH_RETENTION", "720h"); err != nil {
		return Config{}, err
	}
	if cfg.GradingInterMatchDelay, err = getEnvAsNonNegativeDuration("GRADING_INTER_MATCH_DELAY", "1s"); err != nil {
		return Config{}, err
	}

	if cfg.SchedulerEnabled, err = getEnvAsBool("SCHEDULER_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.JobSyncLiveInterval, err = getEnvAsDuration("JOB_SYNC_LIVE_INTERVAL", "1m"); err != nil {
		return Config{}, err
	}
	if cfg.JobSyncTodayInterval, err = getEnvAsDuration("JOB_SYNC_TODAY_INTERVAL", "15m"); err != nil {
		return Config{}, err
	}
	if cfg.JobGradeInterval, err = getEnvAsDuration("JOB_GRADE_INTERVAL", "2m"); err != nil {
		return Config{}, err
	}
	if cfg.JobFixStuckHour, cfg.JobFixStuckMinute, err = parseClock(getEnv("JOB_FIX_STUCK_AT", "03:00")); err != nil {
		return Config{}, fmt.Errorf("parse JOB_FIX_STUCK_AT: %w", err)
	}
	if cfg.JobWorkers, err = getEnvAsInt("JOB_WORKERS", 4); err != nil {
		return Config{}, fmt.Errorf("parse JOB_WORKERS: %w", err)
	}
	if cfg.JobWorkers < 1 {
		return Config{}, fmt.Errorf("JOB_WORKERS must be >= 1")
	}
	if cfg.JobTimeout, err = getEnvAsNonNegativeDuration("JOB_TIMEOUT", "10m"); err != nil {
		return Config{}, err
	}

	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.LiveBoardTTL, err = getEnvAsDuration("LIVEBOARD_TTL", "2m"); err != nil {
		return Config{}, err
	}

	if cfg.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled && cfg.MetricsAddr == "" {
		return Config{}, fmt.Errorf("METRICS_ADDR is required when METRICS_ENABLED=true")
	}
	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadProvider(prefix, defaultBaseURL string) (ProviderConfig, error) {
	enabled, err := getEnvAsBool(prefix+"_ENABLED", true)
	if err != nil {
		return ProviderConfig{}, err
	}
	out := ProviderConfig{
		Enabled: enabled,
		BaseURL: strings.TrimSpace(getEnv(prefix+"_BASE_URL", defaultBaseURL)),
		APIKey:  strings.TrimSpace(getEnv(prefix+"_API_KEY", "")),
	}
	if out.Enabled && out.APIKey == "" {
		return ProviderConfig{}, fmt.Errorf("%s_API_KEY is required when %s_ENABLED=true", prefix, prefix)
	}
	return out, nil
}

func parseStoreDriver(raw, dbURL string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		if dbURL != "" {
			return StoreDriverPostgres, nil
		}
		return StoreDriverNone, nil
	}
	switch value {
	case StoreDriverPostgres, StoreDriverMemory, StoreDriverNone:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s, %s", raw, StoreDriverPostgres, StoreDriverMemory, StoreDriverNone)
	}
}

// parseClock reads a 24h "HH:MM" wall-clock time.
func parseClock(raw string) (uint, uint, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, err
	}
	return uint(t.Hour()), uint(t.Minute()), nil
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

func getEnvAsBool(key string, fallback bool) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := getEnvAsNonNegativeDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func getEnvAsNonNegativeDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
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
