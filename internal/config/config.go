package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	API      APIConfig
	Session  SessionConfig
	Console  ConsoleConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig locates the remote ticket API.
type APIConfig struct {
	BaseURL string
}

// SessionBackend names where visitor sessions are persisted.
type SessionBackend string

const (
	SessionBackendMemory   SessionBackend = "memory"
	SessionBackendRedis    SessionBackend = "redis"
	SessionBackendPostgres SessionBackend = "postgres"
)

// SessionConfig configures the session store and its cookie.
type SessionConfig struct {
	Backend      SessionBackend
	CookieName   string
	CookieSecure bool
	TTLMinutes   int
	Secret       string
}

// ConsoleConfig tunes dashboard behavior.
type ConsoleConfig struct {
	PageSize             int
	FilterResetsPage     bool
	WorkspaceIdleMinutes int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" or "console".
	Format  string
	Service string
}

// AuditConfig toggles the audit subscriber.
type AuditConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	backend := SessionBackend(strings.ToLower(getEnv("SESSION_BACKEND", string(SessionBackendMemory))))
	switch backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendPostgres:
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		API: APIConfig{
			BaseURL: baseURL,
		},
		Session: SessionConfig{
			Backend:      backend,
			CookieName:   getEnv("SESSION_COOKIE_NAME", "console_sid"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 24*60),
			Secret:       getEnv("SESSION_SECRET", "dev-secret"),
		},
		Console: ConsoleConfig{
			PageSize:             getEnvAsInt("CONSOLE_PAGE_SIZE", 5),
			FilterResetsPage:     getEnvAsBool("CONSOLE_FILTER_RESETS_PAGE", true),
			WorkspaceIdleMinutes: getEnvAsInt("WORKSPACE_IDLE_MINUTES", 60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  strings.ToLower(getEnv("LOG_FORMAT", "json")),
			Service: getEnv("APP_NAME", "ticket-console"),
		},
		Audit: AuditConfig{
			Enabled: getEnvAsBool("AUDIT_ENABLED", true),
		},
	}

	if cfg.Session.Backend == SessionBackendPostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("SESSION_BACKEND=postgres requires POSTGRES_DSN")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns how long a stored session survives without being saved again.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// WorkspaceIdle returns the idle period after which view state is dropped.
func (c ConsoleConfig) WorkspaceIdle() time.Duration {
	if c.WorkspaceIdleMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.WorkspaceIdleMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
