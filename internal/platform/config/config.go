package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"KMA-backend/internal/platform/db"
)

const (
	ModeDev     = "dev"
	ModeRelease = "release"

	// 環境変数の接頭辞（KMA_DATABASE_PASSWORD など）
	envPrefix = "KMA"
)

type Certs struct {
	Cert string `yaml:"cert" split_words:"true"`
	Key  string `yaml:"key"  split_words:"true"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"             split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
	AllowOrigins    []string      `yaml:"allow_origins"    split_words:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" split_words:"true"`
}

type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"    split_words:"true"`
	JWTSecret string `yaml:"jwt_secret" split_words:"true"`
	AdminRole string `yaml:"admin_role" split_words:"true"`
}

type RulesConfig struct {
	MaxSubcommittees  int      `yaml:"max_subcommittees"  split_words:"true"`
	ContactMinLength  int      `yaml:"contact_min_length" split_words:"true"`
	Timezone          string   `yaml:"timezone"           split_words:"true"`
	SubcommitteeOrder []string `yaml:"subcommittee_order" split_words:"true"`
}

type PaymentConfig struct {
	RatePerMeeting int64            `yaml:"rate_per_meeting" split_words:"true"`
	ConvenerBonus  int64            `yaml:"convener_bonus"   split_words:"true"`
	ContextRates   map[string]int64 `yaml:"context_rates"    split_words:"true"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" split_words:"true"`
}

type Config struct {
	Version     string            `yaml:"version"     split_words:"true"`
	Mode        string            `yaml:"mode"        split_words:"true"`
	Server      ServerConfig      `yaml:"server"      envconfig:"SERVER"`
	DB          db.DatabaseConfig `yaml:"database"    envconfig:"DATABASE"`
	Certificate Certs             `yaml:"certificate" envconfig:"CERTIFICATE"`
	Log         LogConfig         `yaml:"log"         envconfig:"LOG"`
	Auth        AuthConfig        `yaml:"auth"        envconfig:"AUTH"`
	Rules       RulesConfig       `yaml:"rules"       envconfig:"RULES"`
	Payment     PaymentConfig     `yaml:"payment"     envconfig:"PAYMENT"`
	Metrics     MetricsConfig     `yaml:"metrics"     envconfig:"METRICS"`
}

func Default() *Config {
	return &Config{
		Mode: ModeDev,
		Server: ServerConfig{
			Addr:            ":8443",
			ShutdownTimeout: 10 * time.Second,
			AllowOrigins:    []string{"http://localhost:3000"},
		},
		DB: db.DatabaseConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			DBName: "kma",
		},
		Log:  LogConfig{Level: "info"},
		Auth: AuthConfig{AdminRole: "admin"},
		Rules: RulesConfig{
			MaxSubcommittees:  2,
			ContactMinLength:  10,
			Timezone:          "Africa/Accra",
			SubcommitteeOrder: []string{"Transport", "Revenue", "Travel"},
		},
		Payment: PaymentConfig{
			RatePerMeeting: 100,
			ConvenerBonus:  50,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LoadConfig: .env → YAML → 環境変数 の順に重ねる。path が空ならYAMLは読まない。
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDev, ModeRelease, c.Mode)
	}
	if c.Rules.MaxSubcommittees <= 0 {
		return fmt.Errorf("rules.max_subcommittees must be > 0")
	}
	if c.Rules.ContactMinLength < 0 {
		return fmt.Errorf("rules.contact_min_length must be >= 0")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("rules.timezone: %w", err)
	}
	if c.Payment.RatePerMeeting < 0 || c.Payment.ConvenerBonus < 0 {
		return fmt.Errorf("payment amounts must be >= 0")
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	return nil
}

// Location: 出席日の境界に使うタイムゾーン
func (c *Config) Location() (*time.Location, error) {
	if c.Rules.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Rules.Timezone)
}

func (c *Config) IsDev() bool { return c.Mode == ModeDev }

func (c *Config) TLSEnabled() bool {
	return c.Certificate.Cert != "" && c.Certificate.Key != ""
}
