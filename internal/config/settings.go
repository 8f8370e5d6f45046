package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. COMPARATRIB_LOG_LEVEL
const EnvPrefix = "COMPARATRIB"

// Settings are the application-level options
type Settings struct {
	Log struct {
		Level  string
		Format string
	} `mapstructure:"log"`

	Store struct {
		Driver  string
		Path    string
		DSN     string
		Session string
	} `mapstructure:"store"`

	Server struct {
		Addr    string
		Metrics bool
	} `mapstructure:"server"`

	Calc struct {
		PeriodMonths int `mapstructure:"period_months"`
		Tables       string
	} `mapstructure:"calc"`
}

// DefaultSessionPath is the file store location under the user's home
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".comparatrib", "session.yaml")
	}
	return filepath.Join(home, ".comparatrib", "session.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", DefaultSessionPath())
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.session", "default")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics", true)
	v.SetDefault("calc.period_months", 12)
	v.SetDefault("calc.tables", "")
}

// LoadSettings reads settings from path (optional) with environment overrides
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return s, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks enumerated settings
func (s Settings) Validate() error {
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", s.Log.Level)
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", s.Log.Format)
	}
	switch s.Store.Driver {
	case "file", "postgres", "none":
	default:
		return fmt.Errorf("store.driver must be file, postgres or none, got %q", s.Store.Driver)
	}
	if s.Store.Driver == "postgres" && s.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for the postgres store")
	}
	if s.Calc.PeriodMonths < 1 || s.Calc.PeriodMonths > 12 {
		return fmt.Errorf("calc.period_months must be between 1 and 12, got %d", s.Calc.PeriodMonths)
	}
	return nil
}
