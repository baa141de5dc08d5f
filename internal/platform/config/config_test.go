package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) writeFile(body string) string {
	path := filepath.Join(s.T().TempDir(), "pihooks.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg := Default()
	s.Equal(":8090", cfg.Addr)
	s.Equal(BackendMemory, cfg.Switches.Backend)
	s.Equal("pihooks.audit", cfg.Audit.Topic)
	s.NoError(cfg.Validate())
}

func (s *ConfigSuite) TestLoadFile() {
	path := s.writeFile(`
addr: ":9000"
resources:
  stock_fingerprint: "oneplus/stock/fp:14/UKQ1/1:user/release-keys"
  media_spoof_model: "SM-S918B"
profiles:
  dir: /etc/pihooks/profiles
build:
  manufacturer: OnePlus
  model: CPH2449
  first_api_level: 33
switches:
  backend: redis
  redis:
    url: redis://localhost:6379/0
    read_timeout: 250ms
`)

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(":9000", cfg.Addr)
	s.Equal("SM-S918B", cfg.Resources.MediaSpoofModel)
	s.Equal("/etc/pihooks/profiles", cfg.Profiles.Dir)
	s.Equal("OnePlus", cfg.Build.Manufacturer)
	s.Equal(33, cfg.Build.FirstAPILevel)
	s.Equal(BackendRedis, cfg.Switches.Backend)
	s.Equal(250*time.Millisecond, cfg.Switches.Redis.ReadTimeout)
	s.Equal("pihooks:switches", cfg.Switches.Redis.Hash, "defaults survive the overlay")
}

func (s *ConfigSuite) TestLoadErrors() {
	s.Run("missing file", func() {
		_, err := Load(filepath.Join(s.T().TempDir(), "absent.yaml"))
		s.ErrorContains(err, "failed to read config file")
	})

	s.Run("malformed yaml", func() {
		_, err := Load(s.writeFile("addr: [unterminated"))
		s.ErrorContains(err, "failed to parse config file")
	})

	s.Run("invalid backend", func() {
		_, err := Load(s.writeFile("switches:\n  backend: etcd\n"))
		s.ErrorContains(err, `unknown switches backend "etcd"`)
	})
}

func (s *ConfigSuite) TestApplyEnv() {
	env := map[string]string{
		"PIHOOKS_ADDR":                "127.0.0.1:8091",
		"PIHOOKS_SWITCHES_BACKEND":    BackendPostgres,
		"PIHOOKS_POSTGRES_DSN":        "postgres://pihooks@localhost/pihooks",
		"PIHOOKS_AUDIT_KAFKA_BROKERS": "broker-1:9092, broker-2:9092,",
		"PIHOOKS_AUDIT_QUEUE_SIZE":    "64",
		"PIHOOKS_LOG_FORMAT":          "text",
	}
	cfg := Default()

	s.Require().NoError(cfg.applyEnv(func(k string) string { return env[k] }))
	s.Equal("127.0.0.1:8091", cfg.Addr)
	s.Equal([]string{"broker-1:9092", "broker-2:9092"}, cfg.Audit.KafkaBrokers)
	s.Equal(64, cfg.Audit.QueueSize)
	s.Equal("text", cfg.Logging.Format)
	s.NoError(cfg.Validate())
}

func (s *ConfigSuite) TestApplyEnvRejectsBadQueueSize() {
	cfg := Default()
	err := cfg.applyEnv(func(k string) string {
		if k == "PIHOOKS_AUDIT_QUEUE_SIZE" {
			return "many"
		}
		return ""
	})
	s.ErrorContains(err, "PIHOOKS_AUDIT_QUEUE_SIZE")
}

func (s *ConfigSuite) TestValidate() {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"redis without url", func(c *Config) { c.Switches.Backend = BackendRedis }, "switches.redis.url"},
		{"postgres without dsn", func(c *Config) { c.Switches.Backend = BackendPostgres }, "switches.postgres.dsn"},
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr is required"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "unknown log format"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			cfg := Default()
			tt.mutate(&cfg)
			s.ErrorContains(cfg.Validate(), tt.wantErr)
		})
	}
}
