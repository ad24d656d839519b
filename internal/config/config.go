package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	APIKey      string `validate:"required"` // API key for authentication
	LogLevel    string `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string
	ServiceName string
	Version     string
	Environment string

	// EnvSchemaVersion is the layout version declared by the .env file
	EnvSchemaVersion string

	// Persistence
	StorageBackend    string `validate:"oneof=file postgres"`
	DataDir           string `validate:"required_if=StorageBackend file"`
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBSSLMode         string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// RedisURL selects the Redis pending-authorization store when set
	RedisURL string `validate:"omitempty,url"`

	// osu! OAuth client
	OsuClientID     string
	OsuClientSecret string `validate:"required_with=OsuClientID"`
	OsuRedirectURI  string `validate:"required_with=OsuClientID"`
	OsuAuthURL      string `validate:"omitempty,url"`
	OsuTokenURL     string `validate:"omitempty,url"`
	OsuAPIBaseURL   string `validate:"omitempty,url"`
	OsuTrackBaseURL string `validate:"omitempty,url"`
	OsuHTTPTimeout  time.Duration

	AuthCallbackTimeout time.Duration `validate:"gt=0"`
	AuthRetryGrace      time.Duration `validate:"gt=0"`

	ScopePolicyPath string
	TrustedProxies  []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Secrets first so a local .env can't shadow them unless they are absent
	loadAWSSecretsIntoEnv()

	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:      getEnv("API_KEY", ""),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),

		EnvSchemaVersion: getEnv("ENV_SCHEMA_VERSION", ""),

		StorageBackend:    getEnv("STORAGE_BACKEND", StorageBackendFile),
		DataDir:           getEnv("DATA_DIR", DefaultDataDir),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", DefaultDBName),
		DBSSLMode:         getEnv("DB_SSLMODE", DefaultDBSSLMode),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		RedisURL: getEnv("REDIS_URL", ""),

		OsuClientID:     getEnv("OSU_CLIENT_ID", ""),
		OsuClientSecret: getEnv("OSU_CLIENT_SECRET", ""),
		OsuRedirectURI:  getEnv("OSU_REDIRECT_URI", ""),
		OsuAuthURL:      getEnv("OSU_AUTH_URL", ""),
		OsuTokenURL:     getEnv("OSU_TOKEN_URL", ""),
		OsuAPIBaseURL:   getEnv("OSU_API_BASE_URL", ""),
		OsuTrackBaseURL: getEnv("OSUTRACK_BASE_URL", ""),
		OsuHTTPTimeout:  getEnvAsDuration("OSU_HTTP_TIMEOUT", DefaultOsuHTTPTimeout),

		AuthCallbackTimeout: getEnvAsDuration("AUTH_CALLBACK_TIMEOUT", DefaultAuthTimeout),
		AuthRetryGrace:      getEnvAsDuration("AUTH_RETRY_GRACE", DefaultAuthRetryGrace),

		ScopePolicyPath: getEnv("SCOPE_POLICY_PATH", ConfigPathScopePolicy),
		TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// Validate checks the loaded values before the server starts
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// OAuthConfigured reports whether an osu! OAuth client is registered
func (c *Config) OAuthConfigured() bool {
	return c.OsuClientID != "" && c.OsuClientSecret != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection URL. Credentials are
// escaped so passwords may contain URL delimiters.
func (c *Config) GetDBConnString() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = DefaultDBSSLMode
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
