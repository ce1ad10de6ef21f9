// Package config loads service configuration from defaults, an optional
// YAML file and EXPATFORM_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-expatform/internal/logging"
	"github.com/goliatone/go-expatform/internal/store"
)

// EnvPrefix prefixes every environment override, for example
// EXPATFORM_SERVER_ADDR or EXPATFORM_STORE_DSN.
const EnvPrefix = "EXPATFORM"

type Server struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	PublicURL       string        `mapstructure:"public_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type Classifier struct {
	// RulesFile replaces the built-in keyword table when set.
	RulesFile string `mapstructure:"rules_file"`
	// ExtraRulesFile is consulted before the built-in table.
	ExtraRulesFile string `mapstructure:"extra_rules_file"`
}

type Translate struct {
	DefaultLanguage string `mapstructure:"default_language"`
	// GlossaryDir holds additional *.yaml glossaries.
	GlossaryDir string `mapstructure:"glossary_dir"`
}

type Extract struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxBytes     int64         `mapstructure:"max_bytes"`
}

// Config is the complete service configuration.
type Config struct {
	Server     Server         `mapstructure:"server"`
	Store      store.Config   `mapstructure:"store"`
	Log        logging.Config `mapstructure:"log"`
	Classifier Classifier     `mapstructure:"classifier"`
	Translate  Translate      `mapstructure:"translate"`
	Extract    Extract        `mapstructure:"extract"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.base_path":        "/api/pdf-form",
	"server.public_url":       "",
	"server.read_timeout":     "15s",
	"server.write_timeout":    "60s",
	"server.shutdown_timeout": "10s",
	"server.max_upload_bytes": int64(20 << 20),

	"store.driver":       store.DriverSQLite,
	"store.dsn":          "file:expatform.db?_pragma=foreign_keys(1)",
	"store.max_conns":    10,
	"store.dial_timeout": "5s",

	"log.level":        "info",
	"log.format":       logging.FormatJSON,
	"log.file":         "",
	"log.max_size_mb":  10,
	"log.max_backups":  3,
	"log.max_age_days": 28,
	"log.compress":     false,

	"classifier.rules_file":       "",
	"classifier.extra_rules_file": "",

	"translate.default_language": "de",
	"translate.glossary_dir":     "",

	"extract.fetch_timeout": "30s",
	"extract.max_bytes":     int64(20 << 20),
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when not empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must be positive"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	switch strings.ToLower(c.Store.Driver) {
	case store.DriverSQLite, "":
	case store.DriverPostgres, "pgx", "postgresql":
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not supported", c.Store.Driver))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not supported", c.Log.Format))
	}
	if c.Extract.FetchTimeout <= 0 {
		errs = append(errs, errors.New("extract.fetch_timeout must be positive"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}
