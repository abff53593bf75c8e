// Package config loads relay settings from an optional YAML file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is read when Load is given an empty path.
const DefaultPath = "config.yaml"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Retry     RetryConfig     `koanf:"retry"`
	Dates     DatesConfig     `koanf:"dates"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port           int    `koanf:"port"`
	RequestTimeout string `koanf:"request_timeout"` // Duration string like "60s"
}

// UpstreamConfig locates the CRM inbound webhook:
// {base_url}/{profile}/{token}/{method}.
type UpstreamConfig struct {
	BaseURL                 string `koanf:"base_url"`
	Profile                 string `koanf:"profile"`
	Token                   string `koanf:"token"`
	Timeout                 string `koanf:"timeout"`                   // Per-attempt timeout
	RestrictPrivateNetworks bool   `koanf:"restrict_private_networks"` // Refuse loopback/private upstream addresses
}

type RetryConfig struct {
	MaxAttempts int    `koanf:"max_attempts"`
	Delay       string `koanf:"delay"`
}

type DatesConfig struct {
	Field string `koanf:"field"` // Deal field receiving the shifted creation date
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Tracing     bool   `koanf:"tracing"`
	ServiceName string `koanf:"service_name"`
}

// Legacy environment variables used by earlier deployments of the relay.
const (
	LegacyBaseURLEnv = "BASE_URL_API_BITRIX"
	LegacyProfileEnv = "PROFILE"
	LegacyTokenEnv   = "CODIGO_BITRIX"
)

var defaults = map[string]any{
	"server.port":            8080,
	"server.request_timeout": "60s",
	"upstream.timeout":       "10s",
	"retry.max_attempts":     3,
	"retry.delay":            "5s",
	"dates.field":            "UF_CRM_1731416690056",
	"log.level":              "info",
	"log.format":             "json",
	"telemetry.service_name": "crm-webhook-relay",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads path (DefaultPath when empty; a missing file is not an error),
// then RELAY_* environment variables, then legacy variables for any upstream
// field still unset. Nested keys use a double underscore:
// RELAY_UPSTREAM__BASE_URL sets upstream.base_url.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("RELAY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "RELAY_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.Upstream.BaseURL = substituteEnvVars(cfg.Upstream.BaseURL)
	cfg.Upstream.Profile = substituteEnvVars(cfg.Upstream.Profile)
	cfg.Upstream.Token = substituteEnvVars(cfg.Upstream.Token)
	applyLegacyEnv(&cfg.Upstream)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges and duration syntax. Upstream credentials are
// checked by the CRM endpoint builder at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts))
	}
	for key, value := range map[string]string{
		"server.request_timeout": c.Server.RequestTimeout,
		"upstream.timeout":       c.Upstream.Timeout,
		"retry.delay":            c.Retry.Delay,
	} {
		if d, err := time.ParseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", key))
		}
	}
	return errors.Join(errs...)
}

// RequestTimeoutDuration returns server.request_timeout.
func (s ServerConfig) RequestTimeoutDuration() time.Duration {
	return mustDuration(s.RequestTimeout)
}

// TimeoutDuration returns upstream.timeout.
func (u UpstreamConfig) TimeoutDuration() time.Duration {
	return mustDuration(u.Timeout)
}

// DelayDuration returns retry.delay.
func (r RetryConfig) DelayDuration() time.Duration {
	return mustDuration(r.Delay)
}

// WorstCaseDispatch is the longest a single upstream operation can take:
// every attempt times out and is followed by the retry delay.
func (c *Config) WorstCaseDispatch() time.Duration {
	return time.Duration(c.Retry.MaxAttempts) * (c.Upstream.TimeoutDuration() + c.Retry.DelayDuration())
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func applyLegacyEnv(u *UpstreamConfig) {
	if u.BaseURL == "" {
		u.BaseURL = os.Getenv(LegacyBaseURLEnv)
	}
	if u.Profile == "" {
		u.Profile = os.Getenv(LegacyProfileEnv)
	}
	if u.Token == "" {
		u.Token = os.Getenv(LegacyTokenEnv)
	}
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
