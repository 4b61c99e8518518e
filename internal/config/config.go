// Package config loads the settings of the autoinject commands from .env
// files, an optional YAML file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Ngone6325/autoinject"
	"github.com/Ngone6325/autoinject/di"
)

// Environment variables read by Load.
const (
	EnvConfigFile      = "AUTOINJECT_CONFIG"
	EnvEnvironment     = "AUTOINJECT_ENV"
	EnvLogLevel        = "AUTOINJECT_LOG_LEVEL"
	EnvServerAddress   = "AUTOINJECT_ADDR"
	EnvShutdownTimeout = "AUTOINJECT_SHUTDOWN_TIMEOUT"
	EnvAllow           = "AUTOINJECT_ALLOW"
	EnvDeny            = "AUTOINJECT_DENY"
	EnvOnDuplicate     = "AUTOINJECT_ON_DUPLICATE"
)

type Config struct {
	Environment     string        `yaml:"environment" validate:"required,oneof=development test staging production"`
	LogLevel        string        `yaml:"log_level" validate:"required,oneof=debug info warn error"`
	ServerAddress   string        `yaml:"server_address" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`

	// Allow lists the module prefixes registration scans. Empty scans everything discovered.
	Allow []string `yaml:"allow" validate:"dive,required"`
	// Deny lists module name fragments registration skips.
	Deny []string `yaml:"deny" validate:"dive,required"`
	// OnDuplicate is "error" or "replace".
	OnDuplicate string `yaml:"on_duplicate" validate:"required,oneof=error replace"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Environment:     "development",
		LogLevel:        "info",
		ServerAddress:   ":8080",
		ShutdownTimeout: 10 * time.Second,
		OnDuplicate:     "error",
	}
}

var validate = validator.New()

// Load reads the given .env files (".env" when none are given), then the YAML
// file named by AUTOINJECT_CONFIG, then the environment, and validates the
// result. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg := Default()
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, EnvEnvironment)
	setString(&c.LogLevel, EnvLogLevel)
	setString(&c.ServerAddress, EnvServerAddress)
	setString(&c.OnDuplicate, EnvOnDuplicate)
	setList(&c.Allow, EnvAllow)
	setList(&c.Deny, EnvDeny)

	if v, ok := os.LookupEnv(EnvShutdownTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setList(dst *[]string, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	*dst = nil
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*dst = append(*dst, item)
		}
	}
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// DuplicatePolicy maps OnDuplicate to the container policy.
func (c *Config) DuplicatePolicy() di.DuplicatePolicy {
	if c.OnDuplicate == "replace" {
		return di.ReplaceExisting
	}
	return di.RejectDuplicates
}

// ContainerOptions returns the container options this configuration implies.
func (c *Config) ContainerOptions(logger *zap.Logger) []di.Option {
	return []di.Option{di.WithDuplicatePolicy(c.DuplicatePolicy()), di.WithLogger(logger)}
}

// RegistrationOptions returns the module filter and logger options for
// autoinject.AddInjectableServices.
func (c *Config) RegistrationOptions(logger *zap.Logger) []autoinject.Option {
	opts := []autoinject.Option{autoinject.WithLogger(logger)}
	if len(c.Allow) > 0 {
		opts = append(opts, autoinject.WithAllow(c.Allow...))
	}
	if len(c.Deny) > 0 {
		opts = append(opts, autoinject.WithDeny(c.Deny...))
	}
	return opts
}
