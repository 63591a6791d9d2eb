package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the resolved application settings.
type Config struct {
	// BaseURL is the remote API host
	BaseURL string `mapstructure:"base_url"`

	// OrgID is the remote organization to sync
	OrgID string `mapstructure:"org_id"`

	// SessionKey authenticates against the remote
	SessionKey string `mapstructure:"session_key"`

	// Workspace is the local workspace root; empty means the current directory
	Workspace string `mapstructure:"workspace"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`

	// Timeout bounds each remote request
	Timeout time.Duration `mapstructure:"timeout"`
}

// Defaults are applied before any file, environment or flag value.
var Defaults = Config{
	BaseURL:  "https://claude.ai",
	LogLevel: "warn",
	Timeout:  30 * time.Second,
}

// envPrefix prefixes every environment variable, e.g. WORKSYNC_ORG_ID.
const envPrefix = "WORKSYNC"

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"base-url":  "base_url",
	"org":       "org_id",
	"workspace": "workspace",
	"log-level": "log_level",
	"timeout":   "timeout",
}

// Load resolves the configuration. cfgFile names an explicit config file,
// which must exist; otherwise paths.Config is read when present. flags may
// be nil.
func Load(paths *Paths, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"base_url", "org_id", "session_key", "workspace", "log_level", "timeout"} {
		_ = v.BindEnv(key)
	}

	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	case paths != nil:
		if _, err := os.Stat(paths.Config); err == nil {
			v.SetConfigFile(paths.Config)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", paths.Config, err)
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", Defaults.BaseURL)
	v.SetDefault("org_id", "")
	v.SetDefault("session_key", "")
	v.SetDefault("workspace", "")
	v.SetDefault("log_level", Defaults.LogLevel)
	v.SetDefault("timeout", Defaults.Timeout)
}

func (c *Config) validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	return nil
}

// ErrMissingCredentials indicates the remote cannot be reached without
// more configuration.
var ErrMissingCredentials = errors.New("missing remote credentials")

// RequireRemote checks the settings needed to talk to the remote.
func (c *Config) RequireRemote() error {
	var missing []string
	if c.OrgID == "" {
		missing = append(missing, "org_id (WORKSYNC_ORG_ID or --org)")
	}
	if c.SessionKey == "" {
		missing = append(missing, "session_key (WORKSYNC_SESSION_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// ParseLogLevel converts a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", level)
	}
}
