package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/viper"

	"github.com/couchcryptid/seismic-dashboard-service/internal/adapter/sqlstore"
)

// Config holds all service settings, populated from environment variables
// and an optional config file named by CONFIG_FILE.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Database configuration.
	DBDriver       string
	DatabaseURL    string
	DBMaxOpenConns int
	DBQueryTimeout time.Duration
	AllDataLimit   int

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Query audit trail configuration.
	AuditEnabled      bool
	KafkaBrokers      []string
	KafkaAuditTopic   string
	KafkaWriteTimeout time.Duration
}

// Load reads configuration, applying defaults where unset. Environment
// variables take precedence over the config file. SHUTDOWN_TIMEOUT is read
// from the environment only.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := sharedcfg.EnvOrDefault("CONFIG_FILE", ""); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read CONFIG_FILE %s: %w", path, err)
		}
	}

	p := parser{v: v}
	cfg := &Config{
		HTTPAddr:        v.GetString("http_addr"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		ShutdownTimeout: shutdownTimeout,

		DBDriver:       strings.ToLower(v.GetString("db_driver")),
		DatabaseURL:    v.GetString("database_url"),
		DBMaxOpenConns: p.positiveInt("db_max_open_conns"),
		DBQueryTimeout: p.duration("db_query_timeout"),
		AllDataLimit:   p.positiveInt("all_data_limit"),

		MapboxToken:     v.GetString("mapbox_token"),
		MapboxTimeout:   p.duration("mapbox_timeout"),
		MapboxCacheSize: p.positiveInt("mapbox_cache_size"),

		AuditEnabled:      p.bool("audit_enabled"),
		KafkaBrokers:      sharedcfg.ParseBrokers(v.GetString("kafka_brokers")),
		KafkaAuditTopic:   v.GetString("kafka_audit_topic"),
		KafkaWriteTimeout: p.duration("kafka_write_timeout"),
	}

	cfg.MapboxEnabled = cfg.MapboxToken != ""
	if v.IsSet("mapbox_enabled") {
		cfg.MapboxEnabled = p.bool("mapbox_enabled")
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("db_driver", sqlstore.DriverSQLite)
	v.SetDefault("database_url", "data/earthquakes.db")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_query_timeout", "30s")
	v.SetDefault("all_data_limit", 1000)

	v.SetDefault("mapbox_timeout", "5s")
	v.SetDefault("mapbox_cache_size", 1000)

	v.SetDefault("audit_enabled", false)
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_audit_topic", "earthquake-query-audit")
	v.SetDefault("kafka_write_timeout", "5s")
}

// Validate checks that all configuration values are usable. Errors name the
// environment variable to fix.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error (got %q)", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, text (got %q)", c.LogFormat)
	}
	switch c.DBDriver {
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be one of: postgres, sqlite (got %q)", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if c.AuditEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required when AUDIT_ENABLED is true")
		}
		if c.KafkaAuditTopic == "" {
			return errors.New("KAFKA_AUDIT_TOPIC is required when AUDIT_ENABLED is true")
		}
	}
	return nil
}

// parser collects the first conversion error so Load can report it once.
type parser struct {
	v   *viper.Viper
	err error
}

func envName(key string) string { return strings.ToUpper(key) }

func (p *parser) duration(key string) time.Duration {
	s := p.v.GetString(key)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		p.fail(fmt.Errorf("invalid %s %q: must be a positive duration", envName(key), s))
		return 0
	}
	return d
}

func (p *parser) positiveInt(key string) int {
	s := p.v.GetString(key)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		p.fail(fmt.Errorf("invalid %s %q: must be a positive integer", envName(key), s))
		return 0
	}
	return n
}

func (p *parser) bool(key string) bool {
	s := p.v.GetString(key)
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(fmt.Errorf("invalid %s %q: must be true or false", envName(key), s))
		return false
	}
	return b
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}
