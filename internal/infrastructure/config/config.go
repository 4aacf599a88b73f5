package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "FSYNC"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	Provider  ProviderConfig
	Catalog   CatalogConfig
	Webhook   WebhookConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	TrustedProxies  []string
}

// DatabaseConfig holds the audit log database settings.
// The service runs without a database when Enabled is false.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings for webhook de-duplication
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TelemetryConfig holds OpenTelemetry and profiling configuration
type TelemetryConfig struct {
	Enabled           bool    // Export traces
	MetricsEnabled    bool    // Export metrics
	LogsEnabled       bool    // Bridge zap logs to OTLP
	CollectorEndpoint string  // OTLP gRPC endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // Plain-text gRPC (development only)
	MetricsInterval   time.Duration

	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration

	ProfilingEnabled bool
	PyroscopeAddress string
}

// ProviderConfig holds the fulfillment API settings
type ProviderConfig struct {
	BaseURL           string
	BearerToken       string
	Timeout           time.Duration
	OrderPageSize     int
	InventoryPageSize int
}

// CatalogConfig holds the catalog API settings
type CatalogConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// WebhookConfig holds inbound webhook settings
type WebhookConfig struct {
	Secret       string
	MaxBodySize  int64
	DedupEnabled bool
	DedupTTL     time.Duration
}

// SyncConfig holds synchronizer settings
type SyncConfig struct {
	SKUPrefix          string
	OrderBatchSize     int
	ImportWindowMonths int
	ZeroPricePolicy    string
	Language           string
	TrackingName       string
	TrackingURL        string
	AuditEnabled       bool
}

// Domain converts the settings into the synchronizer configuration
func (s SyncConfig) Domain() fulfillment.SyncConfig {
	return fulfillment.SyncConfig{
		SKUPrefix:          s.SKUPrefix,
		OrderBatchSize:     s.OrderBatchSize,
		ImportWindowMonths: s.ImportWindowMonths,
		ZeroPricePolicy:    fulfillment.ZeroPricePolicy(s.ZeroPricePolicy),
		Language:           s.Language,
		TrackingName:       s.TrackingName,
		TrackingURL:        s.TrackingURL,
	}
}

// SchedulerConfig holds the periodic import trigger settings
type SchedulerConfig struct {
	Enabled     bool
	Interval    time.Duration
	RunOnStart  bool
	JobTimeout  time.Duration
	HistorySize int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FSYNC_ prefix (e.g., FSYNC_PROVIDER_BEARER_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true need an explicit viper default,
	// otherwise an absent key reads as false.
	v.SetDefault("webhook.dedup_enabled", true)
	v.SetDefault("sync.audit_enabled", true)
	v.SetDefault("scheduler.run_on_start", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:  v.GetInt("http.max_header_bytes"),
			TrustedProxies:  v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("database.enabled"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("redis.enabled"),
			Host:      v.GetString("redis.host"),
			Port:      v.GetInt("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeAddress:  v.GetString("telemetry.pyroscope_address"),
		},
		Provider: ProviderConfig{
			BaseURL:           v.GetString("provider.base_url"),
			BearerToken:       v.GetString("provider.bearer_token"),
			Timeout:           v.GetDuration("provider.timeout"),
			OrderPageSize:     v.GetInt("provider.order_page_size"),
			InventoryPageSize: v.GetInt("provider.inventory_page_size"),
		},
		Catalog: CatalogConfig{
			BaseURL: v.GetString("catalog.base_url"),
			APIKey:  v.GetString("catalog.api_key"),
			Timeout: v.GetDuration("catalog.timeout"),
		},
		Webhook: WebhookConfig{
			Secret:       v.GetString("webhook.secret"),
			MaxBodySize:  v.GetInt64("webhook.max_body_size"),
			DedupEnabled: v.GetBool("webhook.dedup_enabled"),
			DedupTTL:     v.GetDuration("webhook.dedup_ttl"),
		},
		Sync: SyncConfig{
			SKUPrefix:          v.GetString("sync.sku_prefix"),
			OrderBatchSize:     v.GetInt("sync.order_batch_size"),
			ImportWindowMonths: v.GetInt("sync.import_window_months"),
			ZeroPricePolicy:    v.GetString("sync.zero_price_policy"),
			Language:           v.GetString("sync.language"),
			TrackingName:       v.GetString("sync.tracking_name"),
			TrackingURL:        v.GetString("sync.tracking_url"),
			AuditEnabled:       v.GetBool("sync.audit_enabled"),
		},
		Scheduler: SchedulerConfig{
			Enabled:     v.GetBool("scheduler.enabled"),
			Interval:    v.GetDuration("scheduler.interval"),
			RunOnStart:  v.GetBool("scheduler.run_on_start"),
			JobTimeout:  v.GetDuration("scheduler.job_timeout"),
			HistorySize: v.GetInt("scheduler.history_size"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fulfillment-sync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Bulk imports run inside the request; leave room for a full window.
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 5 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "fulfillment_sync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.PyroscopeAddress == "" {
		cfg.Telemetry.PyroscopeAddress = "http://localhost:4040"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Provider.OrderPageSize == 0 {
		cfg.Provider.OrderPageSize = fulfillment.DefaultOrderPageSize
	}
	if cfg.Provider.InventoryPageSize == 0 {
		cfg.Provider.InventoryPageSize = fulfillment.DefaultInventoryPageSize
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 30 * time.Second
	}
	if cfg.Webhook.MaxBodySize == 0 {
		cfg.Webhook.MaxBodySize = 5 << 20
	}
	if cfg.Webhook.DedupTTL == 0 {
		cfg.Webhook.DedupTTL = 24 * time.Hour
	}
	if cfg.Sync.OrderBatchSize == 0 {
		cfg.Sync.OrderBatchSize = fulfillment.DefaultOrderBatchSize
	}
	if cfg.Sync.ImportWindowMonths == 0 {
		cfg.Sync.ImportWindowMonths = fulfillment.DefaultImportWindowMonths
	}
	if cfg.Sync.ZeroPricePolicy == "" {
		cfg.Sync.ZeroPricePolicy = string(fulfillment.ZeroPricePolicyImport)
	}
	if cfg.Sync.Language == "" {
		cfg.Sync.Language = fulfillment.DefaultLanguage
	}
	if cfg.Sync.TrackingName == "" {
		cfg.Sync.TrackingName = fulfillment.DefaultTrackingName
	}
	if cfg.Sync.TrackingURL == "" {
		cfg.Sync.TrackingURL = fulfillment.DefaultTrackingURL
	}
	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = 24 * time.Hour
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Scheduler.HistorySize == 0 {
		cfg.Scheduler.HistorySize = 50
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Sync.OrderBatchSize < 0 {
		return fmt.Errorf("sync.order_batch_size must be positive")
	}
	if c.Sync.ImportWindowMonths < 0 {
		return fmt.Errorf("sync.import_window_months must be positive")
	}
	if !fulfillment.ZeroPricePolicy(c.Sync.ZeroPricePolicy).IsValid() {
		return fmt.Errorf("sync.zero_price_policy must be %q or %q, got %q",
			fulfillment.ZeroPricePolicyImport, fulfillment.ZeroPricePolicySkip, c.Sync.ZeroPricePolicy)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler.interval must be at least 1m, got %s", c.Scheduler.Interval)
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if c.Webhook.Secret == "" {
			return fmt.Errorf("webhook.secret is required in production")
		}
		if c.Provider.BearerToken == "" {
			return fmt.Errorf("provider.bearer_token is required in production")
		}
		if c.Catalog.APIKey == "" {
			return fmt.Errorf("catalog.api_key is required in production")
		}
		if c.Sync.SKUPrefix == "" {
			return fmt.Errorf("sync.sku_prefix is required in production")
		}
		if c.Database.Enabled && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
