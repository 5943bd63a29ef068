// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package config assembles the runtime configuration from defaults, an
// optional YAML file, an optional .env file and NEXUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Data source kinds.
const (
	SourceDir       = "dir"
	SourceHTTP      = "http"
	SourceConfigMap = "configmap"
)

const (
	defaultEnvFile         = ".env"
	defaultAddr            = ":8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultDataDir         = "data"
	defaultNamespace       = "default"
	defaultRateLimit       = 30
	defaultRateBurst       = 10
	defaultMaxClients      = 10000
	defaultSessionTTL      = 12 * time.Hour
	defaultMaxSessions     = 10000
	defaultLogLevel        = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Limits   LimitsConfig   `yaml:"limits"`
	Sessions SessionsConfig `yaml:"sessions"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DataConfig selects where the catalog documents come from.
type DataConfig struct {
	Source             string `yaml:"source"`
	Dir                string `yaml:"dir"`
	BaseURL            string `yaml:"baseURL"`
	ConfigMapNamespace string `yaml:"configMapNamespace"`
	ConfigMapName      string `yaml:"configMapName"`
}

// LimitsConfig configures per-client rate limiting.
type LimitsConfig struct {
	RatePerSecond float64 `yaml:"ratePerSecond"`
	Burst         int     `yaml:"burst"`

	// MaxClients bounds the number of tracked client limiters.
	MaxClients int `yaml:"maxClients"`

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool `yaml:"trustProxy"`
}

// SessionsConfig configures browser session retention.
type SessionsConfig struct {
	TTL          time.Duration `yaml:"ttl"`
	MaxSessions  int           `yaml:"maxSessions"`
	SecureCookie bool          `yaml:"secureCookie"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	configFile   string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithConfigFile sets the YAML configuration file. It overrides NEXUS_CONFIG.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over the system environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            defaultAddr,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Data: DataConfig{
			Source:             SourceDir,
			Dir:                defaultDataDir,
			ConfigMapNamespace: defaultNamespace,
		},
		Limits: LimitsConfig{
			RatePerSecond: defaultRateLimit,
			Burst:         defaultRateBurst,
			MaxClients:    defaultMaxClients,
		},
		Sessions: SessionsConfig{
			TTL:         defaultSessionTTL,
			MaxSessions: defaultMaxSessions,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}

// Load resolves the configuration. Precedence, lowest first: defaults, YAML
// file, .env file, process environment, explicit env map.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := options.envMap[key]; ok {
			return value, true
		}

		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}

		value, ok := dotEnvValues[key]

		return value, ok
	}

	cfg := Defaults()

	configFile := options.configFile
	if configFile == "" {
		configFile, _ = lookup("NEXUS_CONFIG")
	}

	if configFile != "" {
		if err := loadYAML(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	p := parser{lookup: lookup}

	p.setString("NEXUS_ADDR", &cfg.Server.Addr)
	p.setDuration("NEXUS_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	p.setDuration("NEXUS_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	p.setDuration("NEXUS_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	p.setDuration("NEXUS_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	p.setString("NEXUS_DATA_SOURCE", &cfg.Data.Source)
	p.setString("NEXUS_DATA_DIR", &cfg.Data.Dir)
	p.setString("NEXUS_DATA_URL", &cfg.Data.BaseURL)
	p.setString("NEXUS_CONFIGMAP_NAMESPACE", &cfg.Data.ConfigMapNamespace)
	p.setString("NEXUS_CONFIGMAP_NAME", &cfg.Data.ConfigMapName)
	p.setFloat("NEXUS_RATE_LIMIT", &cfg.Limits.RatePerSecond)
	p.setInt("NEXUS_RATE_BURST", &cfg.Limits.Burst)
	p.setInt("NEXUS_MAX_CLIENTS", &cfg.Limits.MaxClients)
	p.setBool("NEXUS_TRUST_PROXY", &cfg.Limits.TrustProxy)
	p.setDuration("NEXUS_SESSION_TTL", &cfg.Sessions.TTL)
	p.setInt("NEXUS_MAX_SESSIONS", &cfg.Sessions.MaxSessions)
	p.setBool("NEXUS_SECURE_COOKIE", &cfg.Sessions.SecureCookie)
	p.setString("NEXUS_LOG_LEVEL", &cfg.Log.Level)
	p.setBool("NEXUS_LOG_DEVELOPMENT", &cfg.Log.Development)

	if agg := p.errs.ToAggregate(); agg != nil {
		return Config{}, fmt.Errorf("parse environment: %w", agg)
	}

	if agg := cfg.Validate().ToAggregate(); agg != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", agg)
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() field.ErrorList {
	var errs field.ErrorList

	root := field.NewPath("config")

	if c.Server.Addr == "" {
		errs = append(errs, field.Required(root.Child("server", "addr"), ""))
	}

	data := root.Child("data")

	switch c.Data.Source {
	case SourceDir:
		if c.Data.Dir == "" {
			errs = append(errs, field.Required(data.Child("dir"), "required for the dir source"))
		}
	case SourceHTTP:
		if c.Data.BaseURL == "" {
			errs = append(errs, field.Required(data.Child("baseURL"), "required for the http source"))
		}
	case SourceConfigMap:
		if c.Data.ConfigMapName == "" {
			errs = append(errs, field.Required(data.Child("configMapName"), "required for the configmap source"))
		}
	default:
		errs = append(errs, field.NotSupported(data.Child("source"), c.Data.Source,
			[]string{SourceDir, SourceHTTP, SourceConfigMap}))
	}

	if c.Limits.RatePerSecond <= 0 {
		errs = append(errs, field.Invalid(root.Child("limits", "ratePerSecond"), c.Limits.RatePerSecond, "must be positive"))
	}

	if c.Limits.Burst < 1 {
		errs = append(errs, field.Invalid(root.Child("limits", "burst"), c.Limits.Burst, "must be at least 1"))
	}

	if c.Limits.MaxClients < 1 {
		errs = append(errs, field.Invalid(root.Child("limits", "maxClients"), c.Limits.MaxClients, "must be at least 1"))
	}

	if c.Sessions.TTL <= 0 {
		errs = append(errs, field.Invalid(root.Child("sessions", "ttl"), c.Sessions.TTL.String(), "must be positive"))
	}

	if c.Sessions.MaxSessions < 1 {
		errs = append(errs, field.Invalid(root.Child("sessions", "maxSessions"), c.Sessions.MaxSessions, "must be at least 1"))
	}

	return errs
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	return values, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

// parser applies environment overrides and collects parse errors.
type parser struct {
	lookup func(string) (string, bool)
	errs   field.ErrorList
}

func (p *parser) value(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}

	v = strings.TrimSpace(v)

	return v, v != ""
}

func (p *parser) setString(key string, dst *string) {
	if v, ok := p.value(key); ok {
		*dst = v
	}
}

func (p *parser) setDuration(key string, dst *time.Duration) {
	v, ok := p.value(key)
	if !ok {
		return
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, field.Invalid(field.NewPath(key), v, err.Error()))

		return
	}

	*dst = d
}

func (p *parser) setInt(key string, dst *int) {
	v, ok := p.value(key)
	if !ok {
		return
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, field.Invalid(field.NewPath(key), v, "must be an integer"))

		return
	}

	*dst = n
}

func (p *parser) setFloat(key string, dst *float64) {
	v, ok := p.value(key)
	if !ok {
		return
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, field.Invalid(field.NewPath(key), v, "must be a number"))

		return
	}

	*dst = f
}

func (p *parser) setBool(key string, dst *bool) {
	v, ok := p.value(key)
	if !ok {
		return
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, field.Invalid(field.NewPath(key), v, "must be a boolean"))

		return
	}

	*dst = b
}
