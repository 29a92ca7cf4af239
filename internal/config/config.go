package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. TENDERO_LEDGER_DRIVER.
const EnvPrefix = "TENDERO"

// DefaultConfigName is looked up in the working directory when no file is given.
const DefaultConfigName = "tendero"

const secretMask = "***"

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// Ledger drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the effective configuration of a tendero process.
type Config struct {
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
	Session       SessionConfig `mapstructure:"session" yaml:"session"`
	Redis         RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Ledger        LedgerConfig  `mapstructure:"ledger" yaml:"ledger"`
	HTTP          HTTPConfig    `mapstructure:"http" yaml:"http"`
	Auth          AuthConfig    `mapstructure:"auth" yaml:"auth"`
	CommitTimeout time.Duration `mapstructure:"commit_timeout" yaml:"commit_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type SessionConfig struct {
	Store       string        `mapstructure:"store" yaml:"store"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	LockTTL     time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
	Dir         string        `mapstructure:"dir" yaml:"dir"`
	// MirrorDir, when set, receives a redacted copy of every session write.
	MirrorDir string `mapstructure:"mirror_dir" yaml:"mirror_dir"`
	// EncryptionKey is a comma-separated list of hex AES-256 keys, active first.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
	// TTL lets redis expire abandoned sessions on its own. Zero keeps them.
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type LedgerConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url" yaml:"postgres_url"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// AllowedOrigins lists the browser origins granted CORS on the webhook
	// and the MCP SSE endpoint. Empty disables CORS.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type AuthConfig struct {
	// Open skips the account registry: every identity may sell.
	Open bool `mapstructure:"open" yaml:"open"`
}

// New returns a viper instance with defaults and environment binding set up.
// Cobra flags can be bound into it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("session.store", StoreMemory)
	v.SetDefault("session.idle_timeout", 30*time.Minute)
	v.SetDefault("session.lock_ttl", 30*time.Second)
	v.SetDefault("session.dir", ".tendero/sessions")
	v.SetDefault("session.mirror_dir", "")
	v.SetDefault("session.encryption_key", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tendero:")
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("ledger.driver", DriverMemory)
	v.SetDefault("ledger.sqlite_path", ".tendero/tendero.db")
	v.SetDefault("ledger.postgres_url", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{})
	v.SetDefault("auth.open", false)
	v.SetDefault("commit_timeout", 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), the config file and the environment into a
// validated Config. An empty file means ./tendero.yaml when it exists.
func Load(v *viper.Viper, file string) (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerations and the settings each backend requires.
func (c *Config) Validate() error {
	var errs []error

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	case StoreFile:
		if c.Session.Dir == "" {
			errs = append(errs, errors.New("session.dir is required for the file store"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.store must be memory, redis or file, got %q", c.Session.Store))
	}
	if c.Session.IdleTimeout < 0 {
		errs = append(errs, errors.New("session.idle_timeout must not be negative"))
	}

	switch c.Ledger.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Ledger.SQLitePath == "" {
			errs = append(errs, errors.New("ledger.sqlite_path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Ledger.PostgresURL == "" {
			errs = append(errs, errors.New("ledger.postgres_url is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ledger.driver must be memory, sqlite or postgres, got %q", c.Ledger.Driver))
	}

	if c.CommitTimeout <= 0 {
		errs = append(errs, errors.New("commit_timeout must be positive"))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Redis.Password != "" {
		c.Redis.Password = secretMask
	}
	if c.Session.EncryptionKey != "" {
		c.Session.EncryptionKey = secretMask
	}
	if c.Ledger.PostgresURL != "" {
		c.Ledger.PostgresURL = secretMask
	}
	return c
}

// YAML renders the redacted configuration.
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FileUsed reports the config file viper read, or "" when none.
func FileUsed(v *viper.Viper) string {
	f := v.ConfigFileUsed()
	if f == "" {
		return ""
	}
	if _, err := os.Stat(f); err != nil {
		return ""
	}
	return f
}
