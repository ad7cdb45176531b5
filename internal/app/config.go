package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/inspect-backend/internal/data/db"
	"github.com/yungbote/inspect-backend/internal/observability"
)

type Config struct {
	Port    string
	LogMode string

	DB db.Config

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr string
	CacheTTL  time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	LinkFetchTitles    bool
	LinkFetchTimeout   time.Duration
	LinkFetchUserAgent string

	InsightCycleCheck bool

	Metrics     observability.MetricsConfig
	MetricsAddr string
	Otel        observability.OtelConfig

	CORSOrigins []string
}

const devJWTSecret = "defaultsecret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_mode", "development")
	v.SetDefault("db_driver", db.DriverPostgres)
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_user", "postgres")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_name", "inspect")
	v.SetDefault("postgres_sslmode", "disable")
	v.SetDefault("sqlite_path", "inspect.db")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("jwt_secret_key", devJWTSecret)
	v.SetDefault("access_token_ttl", "24h")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", "10m")
	v.SetDefault("rate_limit_rps", 10)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("link_fetch_titles", false)
	v.SetDefault("link_fetch_timeout", "5s")
	v.SetDefault("link_fetch_user_agent", "")
	v.SetDefault("insight_cycle_check", true)
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("metrics_latency_threshold", 0.5)
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_service_name", "inspect")
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_insecure", false)
	v.SetDefault("otel_sample_ratio", 1.0)
	v.SetDefault("app_version", "dev")
	v.SetDefault("cors_origins", "")
}

// LoadConfig reads .env (when present), an optional YAML file and the
// environment. Environment variables win over the file.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	var err error
	cfg := Config{
		Port:    strings.TrimSpace(v.GetString("port")),
		LogMode: strings.TrimSpace(v.GetString("log_mode")),
		DB: db.Config{
			Driver:       strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
			Host:         v.GetString("postgres_host"),
			Port:         v.GetString("postgres_port"),
			User:         v.GetString("postgres_user"),
			Password:     v.GetString("postgres_password"),
			Name:         v.GetString("postgres_name"),
			SSLMode:      v.GetString("postgres_sslmode"),
			SQLitePath:   v.GetString("sqlite_path"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
		},
		JWTSecretKey:       v.GetString("jwt_secret_key"),
		RedisAddr:          strings.TrimSpace(v.GetString("redis_addr")),
		RateLimitRPS:       v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		LinkFetchTitles:    v.GetBool("link_fetch_titles"),
		LinkFetchUserAgent: strings.TrimSpace(v.GetString("link_fetch_user_agent")),
		InsightCycleCheck:  v.GetBool("insight_cycle_check"),
		MetricsAddr:        strings.TrimSpace(v.GetString("metrics_addr")),
		CORSOrigins:        splitList(v.GetString("cors_origins")),
	}

	if cfg.AccessTokenTTL, err = durationSetting(v, "access_token_ttl"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationSetting(v, "cache_ttl"); err != nil {
		return Config{}, err
	}
	if cfg.LinkFetchTimeout, err = durationSetting(v, "link_fetch_timeout"); err != nil {
		return Config{}, err
	}

	cfg.Metrics = observability.MetricsConfig{
		Enabled:          v.GetBool("metrics_enabled"),
		LatencyThreshold: v.GetFloat64("metrics_latency_threshold"),
	}
	cfg.Otel = observability.OtelConfig{
		Enabled:     v.GetBool("otel_enabled"),
		ServiceName: v.GetString("otel_service_name"),
		Environment: cfg.LogMode,
		Version:     v.GetString("app_version"),
		Endpoint:    strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint")),
		Headers:     v.GetString("otel_exporter_otlp_headers"),
		Insecure:    v.GetBool("otel_exporter_otlp_insecure"),
		SampleRatio: v.GetFloat64("otel_sample_ratio"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.LogMode == "production" && c.JWTSecretKey == devJWTSecret {
		return errors.New("JWT_SECRET_KEY must be set in production")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	return nil
}

func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// durationSetting accepts Go durations ("90s", "24h") or a bare number of
// seconds.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("%s must not be negative", strings.ToUpper(key))
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(key), raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", strings.ToUpper(key))
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
