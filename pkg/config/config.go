package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied before the config file and the environment.
const (
	DefaultAddr           = ":8000"
	DefaultStaticDir      = "public"
	DefaultStaticPrefix   = "/public/"
	DefaultViewsDir       = "app/views"
	DefaultErrorTemplates = "app/views/errors"

	// DotenvFile is read from the working directory by Load.
	DotenvFile = ".env"

	// MinSecretLen is the shortest secret accepted outside debug mode.
	MinSecretLen = 32
)

// Environment variables overlaid by Load.
const (
	EnvDebug             = "SHIPY_DEBUG"
	EnvSecret            = "SHIPY_SECRET"
	EnvAddr              = "SHIPY_ADDR"
	EnvStaticDir         = "SHIPY_STATIC_DIR"
	EnvStaticPrefix      = "SHIPY_STATIC_PREFIX"
	EnvViewsDir          = "SHIPY_VIEWS_DIR"
	EnvErrorTemplates    = "SHIPY_ERROR_TEMPLATES"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvRedisURL          = "REDIS_URL"
	EnvSentryDSN         = "SENTRY_DSN"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvTrustProxy        = "SHIPY_TRUST_PROXY"
)

// Config is the application configuration.
type Config struct {
	Secret            string   `yaml:"secret"`
	Addr              string   `yaml:"addr"`
	StaticDir         string   `yaml:"static_dir"`
	StaticPrefix      string   `yaml:"static_prefix"`
	ViewsDir          string   `yaml:"views_dir"`
	DatabaseURL       string   `yaml:"database_url"`
	RedisURL          string   `yaml:"redis_url"`
	SentryDSN         string   `yaml:"sentry_dsn"`
	SentryEnvironment string   `yaml:"sentry_environment"`
	ErrorTemplates    []string `yaml:"error_templates"`
	Debug             bool     `yaml:"debug"`
	// TrustProxy means a reverse proxy sets X-Real-IP for every request.
	TrustProxy bool `yaml:"trust_proxy"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:           DefaultAddr,
		StaticDir:      DefaultStaticDir,
		StaticPrefix:   DefaultStaticPrefix,
		ViewsDir:       DefaultViewsDir,
		ErrorTemplates: []string{DefaultErrorTemplates},
	}
}

// Load builds the configuration in three layers: defaults, the YAML file at
// path (skipped when path is empty), then environment variables.
// Variables from a .env file in the working directory are exported first;
// they never override variables that are already set.
func Load(path string) (Config, error) {
	if err := godotenv.Load(DotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Join(ErrDotenv, err)
	}

	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadFile, err)
		}
		data = b
	}
	return build(data, os.LookupEnv)
}

func build(data []byte, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Join(ErrParseFile, err)
		}
	}
	if err := cfg.overlay(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlay(lookup func(string) (string, bool)) error {
	for name, dst := range map[string]*bool{
		EnvDebug:      &c.Debug,
		EnvTrustProxy: &c.TrustProxy,
	} {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidBool, name, v)
		}
		*dst = b
	}

	for name, dst := range map[string]*string{
		EnvSecret:            &c.Secret,
		EnvAddr:              &c.Addr,
		EnvStaticDir:         &c.StaticDir,
		EnvStaticPrefix:      &c.StaticPrefix,
		EnvViewsDir:          &c.ViewsDir,
		EnvDatabaseURL:       &c.DatabaseURL,
		EnvRedisURL:          &c.RedisURL,
		EnvSentryDSN:         &c.SentryDSN,
		EnvSentryEnvironment: &c.SentryEnvironment,
	} {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup(EnvErrorTemplates); ok && v != "" {
		c.ErrorTemplates = splitList(v)
	}
	return nil
}

// Validate checks the settings the runtime cannot work without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return ErrNoAddress
	}
	if !c.Debug && len(c.Secret) < MinSecretLen {
		return ErrWeakSecret
	}
	return nil
}

// parseBool accepts the strconv forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
