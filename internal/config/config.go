// Package config provides configuration management for the Lit Up API server
// and admin tooling. Configuration can be loaded from YAML files and
// environment variables. The edge function does not use this package: its
// runtime offers no environment configuration, so its few settings are
// compiled in.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Media    MediaConfig    `mapstructure:"media"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Edge     EdgeConfig     `mapstructure:"edge"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins are the CORS origins permitted to call the API.
	// "*" allows any origin, matching the original deployment.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database settings.
// Supports DynamoDB (production) and SQLite (local development).
type DatabaseConfig struct {
	// Driver specifies the database driver: "dynamodb" or "sqlite".
	Driver string `mapstructure:"driver"`

	// DynamoDB settings (used when Driver is "dynamodb")
	Region          string `mapstructure:"region"`
	MusicTable      string `mapstructure:"music_table"`
	ConfigTable     string `mapstructure:"config_table"`
	Endpoint        string `mapstructure:"endpoint"` // DynamoDB Local override
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// SQLite settings (used when Driver is "sqlite")
	Path            string `mapstructure:"path"`
	JournalMode     string `mapstructure:"journal_mode"`
	BusyTimeout     int    `mapstructure:"busy_timeout"`
	SynchronousMode string `mapstructure:"synchronous_mode"`
}

// IsEmbedded returns true if using an embedded database (SQLite).
func (c DatabaseConfig) IsEmbedded() bool {
	return c.Driver == "sqlite"
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Enabled     bool          `mapstructure:"enabled"`
}

// Addr returns the Redis address in host:port format.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds app-config response caching settings.
type CacheConfig struct {
	// Enabled determines whether playlist builds are cached.
	Enabled bool `mapstructure:"enabled"`

	// TTL is how long a cached playlist build stays valid.
	TTL time.Duration `mapstructure:"ttl"`
}

// MediaConfig holds settings for the site media bucket.
type MediaConfig struct {
	// Region and Bucket locate the S3 bucket the CDN serves media from.
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`

	// Endpoint overrides the S3 endpoint for local development.
	Endpoint string `mapstructure:"endpoint"`

	// SongsPrefix and AlbumArtPrefix are the object key prefixes for audio
	// and cover images, mirrored in the served URL paths.
	SongsPrefix    string `mapstructure:"songs_prefix"`
	AlbumArtPrefix string `mapstructure:"album_art_prefix"`
}

// IngestConfig holds media ingest settings.
type IngestConfig struct {
	// Enabled determines whether the background ingest loop runs.
	Enabled bool `mapstructure:"enabled"`

	// Interval is how often new songs are picked up.
	Interval time.Duration `mapstructure:"interval"`

	// FetchTimeout bounds one origin download.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// LockTTL bounds how long one replica may hold a song's ingest lock.
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// EdgeConfig holds the parameter names shared with the edge function.
// The admin CLI writes these parameters; the edge function reads them.
type EdgeConfig struct {
	Region              string `mapstructure:"region"`
	AuthUsernameParam   string `mapstructure:"auth_username_param"`
	AuthPasswordParam   string `mapstructure:"auth_password_param"`
	ActiveVersionsParam string `mapstructure:"active_versions_param"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled determines if metrics collection is active.
	Enabled bool `mapstructure:"enabled"`

	// Port is the port for the metrics HTTP server.
	Port int `mapstructure:"port"`

	// Path is the URL path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values.
// Environment variables are prefixed with LITUP_ and use _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("LITUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/litup")
	}

	// Config file not found is acceptable - defaults and env vars suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "dynamodb")
	v.SetDefault("database.region", "us-east-1")
	v.SetDefault("database.music_table", "lit-up-dev-music")
	v.SetDefault("database.config_table", "lit-up-dev-configs")
	// SQLite defaults
	v.SetDefault("database.path", "./data/litup.db")
	v.SetDefault("database.journal_mode", "WAL")
	v.SetDefault("database.busy_timeout", 5000)
	v.SetDefault("database.synchronous_mode", "NORMAL")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.enabled", false)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)

	// Media defaults
	v.SetDefault("media.region", "us-east-1")
	v.SetDefault("media.bucket", "lit-up-dev-site")
	v.SetDefault("media.songs_prefix", "songs/")
	v.SetDefault("media.album_art_prefix", "album_art/")

	// Ingest defaults
	v.SetDefault("ingest.enabled", true)
	v.SetDefault("ingest.interval", time.Minute)
	v.SetDefault("ingest.fetch_timeout", 2*time.Minute)
	v.SetDefault("ingest.lock_ttl", 5*time.Minute)

	// Edge parameter defaults
	v.SetDefault("edge.region", "us-east-1")
	v.SetDefault("edge.auth_username_param", "/lit-up/prod/edge-auth-username")
	v.SetDefault("edge.auth_password_param", "/lit-up/prod/edge-auth-password")
	v.SetDefault("edge.active_versions_param", "/lit-up/prod/active-versions")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9091)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	validDrivers := map[string]bool{"dynamodb": true, "sqlite": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be 'dynamodb' or 'sqlite'")
	}

	if c.Database.Driver == "dynamodb" {
		if c.Database.Region == "" {
			return fmt.Errorf("database.region is required for dynamodb driver")
		}
		if c.Database.MusicTable == "" || c.Database.ConfigTable == "" {
			return fmt.Errorf("database.music_table and database.config_table are required for dynamodb driver")
		}
	} else if c.Database.Driver == "sqlite" {
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite driver")
		}
	}

	if c.Media.Bucket == "" {
		return fmt.Errorf("media.bucket is required")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
