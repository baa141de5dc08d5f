// Package config assembles runtime configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pihooks/internal/buildprops"
)

// Switch store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the daemon configuration.
type Config struct {
	Addr          string            `yaml:"addr"`
	JWTSigningKey string            `yaml:"jwt_signing_key"`
	Resources     Resources         `yaml:"resources"`
	Profiles      ProfilesConfig    `yaml:"profiles"`
	Build         buildprops.Values `yaml:"build"`
	Switches      SwitchesConfig    `yaml:"switches"`
	Audit         AuditConfig       `yaml:"audit"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// Resources are the device-specific strings consulted by the override rules.
type Resources struct {
	StockFingerprint string `yaml:"stock_fingerprint"`
	MediaSpoofModel  string `yaml:"media_spoof_model"`
}

type ProfilesConfig struct {
	Dir      string `yaml:"dir"`
	Flagship string `yaml:"flagship"`
	Legacy   string `yaml:"legacy"`
}

type SwitchesConfig struct {
	Backend  string            `yaml:"backend"`
	Seed     map[string]string `yaml:"seed"`
	Redis    RedisConfig       `yaml:"redis"`
	Postgres PostgresConfig    `yaml:"postgres"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	Hash         string        `yaml:"hash"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuditConfig struct {
	KafkaBrokers []string `yaml:"kafka_brokers"`
	Topic        string   `yaml:"topic"`
	QueueSize    int      `yaml:"queue_size"`
}

type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Addr: ":8090",
		Switches: SwitchesConfig{
			Backend: BackendMemory,
			Redis: RedisConfig{
				Hash:         "pihooks:switches",
				PoolSize:     10,
				MinIdleConns: 2,
				DialTimeout:  5 * time.Second,
				ReadTimeout:  3 * time.Second,
				WriteTimeout: 3 * time.Second,
			},
			Postgres: PostgresConfig{
				MaxOpenConns:    10,
				MaxIdleConns:    2,
				ConnMaxLifetime: 30 * time.Minute,
			},
		},
		Audit: AuditConfig{
			Topic:     "pihooks.audit",
			QueueSize: 256,
		},
		Logging: LoggingConfig{
			Format: "json",
			Level:  "info",
		},
	}
}

// FromEnv builds the config from defaults, the file named by PIHOOKS_CONFIG
// and PIHOOKS_* variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PIHOOKS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a YAML file over the defaults without consulting the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Addr, "PIHOOKS_ADDR")
	setString(&c.JWTSigningKey, "PIHOOKS_JWT_SIGNING_KEY")
	setString(&c.Resources.StockFingerprint, "PIHOOKS_STOCK_FINGERPRINT")
	setString(&c.Resources.MediaSpoofModel, "PIHOOKS_MEDIA_SPOOF_MODEL")
	setString(&c.Profiles.Dir, "PIHOOKS_PROFILES_DIR")
	setString(&c.Profiles.Flagship, "PIHOOKS_FLAGSHIP_PROFILE")
	setString(&c.Profiles.Legacy, "PIHOOKS_LEGACY_PROFILE")
	setString(&c.Switches.Backend, "PIHOOKS_SWITCHES_BACKEND")
	setString(&c.Switches.Redis.URL, "PIHOOKS_REDIS_URL")
	setString(&c.Switches.Postgres.DSN, "PIHOOKS_POSTGRES_DSN")
	setString(&c.Audit.Topic, "PIHOOKS_AUDIT_TOPIC")
	setString(&c.Logging.Format, "PIHOOKS_LOG_FORMAT")
	setString(&c.Logging.Level, "PIHOOKS_LOG_LEVEL")

	if v := getenv("PIHOOKS_AUDIT_KAFKA_BROKERS"); v != "" {
		c.Audit.KafkaBrokers = splitList(v)
	}
	if v := getenv("PIHOOKS_AUDIT_QUEUE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PIHOOKS_AUDIT_QUEUE_SIZE: %w", err)
		}
		c.Audit.QueueSize = n
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects configurations the daemon cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	switch c.Switches.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Switches.Redis.URL == "" {
			return fmt.Errorf("switches.redis.url is required for the redis backend")
		}
	case BackendPostgres:
		if c.Switches.Postgres.DSN == "" {
			return fmt.Errorf("switches.postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown switches backend %q", c.Switches.Backend)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Audit.QueueSize < 0 {
		return fmt.Errorf("audit.queue_size must not be negative")
	}
	return nil
}
