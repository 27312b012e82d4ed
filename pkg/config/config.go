// Package config loads labforge settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/labforge/config.toml (or
// ~/.config/labforge/config.toml). A missing file is not an error: [Load]
// returns [Default]. Secrets and deployment-specific addresses can be
// supplied through the environment instead:
//
//	LABFORGE_ASSISTANT_ENDPOINT  overrides assistant.endpoint
//	LABFORGE_ASSISTANT_API_KEY   overrides assistant.api_key
//	LABFORGE_REDIS_ADDR          overrides cache.redis_addr
//
// Example:
//
//	[assistant]
//	enabled  = true
//	endpoint = "http://localhost:11434/v1/chat/completions"
//	model    = "llama3.1"
//	timeout  = "20s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[policy]
//	redundancy = "raidz2"
//	power_budget_w = 900
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	lferrors "github.com/matzehuels/labforge/pkg/errors"
	lfio "github.com/matzehuels/labforge/pkg/io"
)

const appName = "labforge"

// Environment variables that override file settings.
const (
	EnvAssistantEndpoint = "LABFORGE_ASSISTANT_ENDPOINT"
	EnvAssistantAPIKey   = "LABFORGE_ASSISTANT_API_KEY"
	EnvRedisAddr         = "LABFORGE_REDIS_ADDR"
)

// Duration is a time.Duration that decodes from TOML strings like "20s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Assistant configures the external advisory collaborator.
type Assistant struct {
	Enabled  bool     `toml:"enabled"`
	Endpoint string   `toml:"endpoint" validate:"omitempty,url"`
	Model    string   `toml:"model"`
	APIKey   string   `toml:"api_key"`
	Timeout  Duration `toml:"timeout"`
	CacheTTL Duration `toml:"cache_ttl"`
}

// Cache selects the assistant response cache.
type Cache struct {
	Backend   string `toml:"backend" validate:"oneof=file redis none"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int    `toml:"redis_db" validate:"gte=0,lte=15"`
}

// Server configures `labforge serve`.
type Server struct {
	Addr string `toml:"addr" validate:"required,hostname_port"`
}

// Config is the whole configuration file.
type Config struct {
	Assistant Assistant   `toml:"assistant"`
	Cache     Cache       `toml:"cache"`
	Server    Server      `toml:"server"`
	Policy    lfio.Policy `toml:"policy"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Assistant: Assistant{
			Model:    "gpt-4o-mini",
			Timeout:  Duration{20 * time.Second},
			CacheTTL: Duration{24 * time.Hour},
		},
		Cache:  Cache{Backend: "file"},
		Server: Server{Addr: "127.0.0.1:8080"},
		Policy: lfio.DefaultPolicy(),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of [Default], applies environment overrides and
// validates the result. An empty path means [DefaultPath]; a missing file
// at the default path yields the defaults, a missing explicit file is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return cfg, lferrors.Wrap(lferrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		default:
			return cfg, lferrors.Wrap(lferrors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of [Default] without environment overrides.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, lferrors.Wrap(lferrors.ErrCodeInvalidFormat, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAssistantEndpoint); v != "" {
		c.Assistant.Endpoint = v
	}
	if v := getenv(EnvAssistantAPIKey); v != "" {
		c.Assistant.APIKey = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
}

var validate = validator.New()

// Validate checks field constraints. Enabling the assistant requires an
// endpoint.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", strings.ToLower(fe.Namespace()), fe.Tag())
			}
			return lferrors.New(lferrors.ErrCodeInvalidInput, "invalid config: %s", strings.Join(msgs, "; "))
		}
		return lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "invalid config")
	}
	if c.Assistant.Enabled && c.Assistant.Endpoint == "" {
		return lferrors.New(lferrors.ErrCodeInvalidInput, "invalid config: assistant.enabled requires assistant.endpoint")
	}
	return nil
}
