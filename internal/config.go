package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvDBPath       = "CHAT_ROTATOR_DB"
	EnvPollInterval = "CHAT_ROTATOR_POLL"
	EnvMode         = "CHAT_ROTATOR_MODE"
	EnvHint         = "CHAT_ROTATOR_HINT"
)

const minPollInterval = 100 * time.Millisecond

// SignatureConfig controls tag truncation
type SignatureConfig struct {
	QuestionLen int `yaml:"question_len"`
	ServiceLen  int `yaml:"service_len"`
}

// Config is the tool configuration, merged from defaults, config file,
// .env and the process environment in that order
type Config struct {
	DBPath       string          `yaml:"db_path"`
	PollInterval time.Duration   `yaml:"poll_interval"`
	Mode         string          `yaml:"mode"`
	Hint         string          `yaml:"hint"`
	Signature    SignatureConfig `yaml:"signature"`
	Services     []ServiceConfig `yaml:"services"`

	path string
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig(paths DataPaths) *Config {
	return &Config{
		DBPath:       paths.DBPath(),
		PollInterval: DefaultPollInterval,
		Mode:         ModeManual.String(),
		Signature: SignatureConfig{
			QuestionLen: DefaultQuestionLen,
			ServiceLen:  DefaultServiceLen,
		},
		path: paths.ConfigPath(),
	}
}

// LoadConfig reads the config file at path (the default location when empty),
// then applies .env and environment overrides. A missing file is not an error.
func LoadConfig(path string, paths DataPaths) (*Config, error) {
	cfg := DefaultConfig(paths)
	if path != "" {
		cfg.path = path
	}

	data, err := os.ReadFile(cfg.path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Path: cfg.path, Err: err}
		}
	case errors.Is(err, fs.ErrNotExist):
		if path != "" {
			return nil, &ConfigError{Path: cfg.path, Err: err}
		}
	default:
		return nil, &ConfigError{Path: cfg.path, Err: err}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		LogWarn("Failed to load .env: %v", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, &ConfigError{Path: cfg.path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: cfg.path, Err: err}
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		c.PollInterval = d
	}
	if v := os.Getenv(EnvMode); v != "" {
		c.Mode = v
	}
	if v := os.Getenv(EnvHint); v != "" {
		c.Hint = v
	}
	return nil
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.PollInterval < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s", minPollInterval)
	}
	if _, err := ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Signature.QuestionLen <= 0 {
		c.Signature.QuestionLen = DefaultQuestionLen
	}
	if c.Signature.ServiceLen <= 0 {
		c.Signature.ServiceLen = DefaultServiceLen
	}
	for _, svc := range c.Services {
		if err := ValidateServiceName(svc.Name); err != nil {
			return err
		}
	}
	return nil
}

// SetPath changes where Save writes the config
func (c *Config) SetPath(path string) {
	c.path = path
}

// Path returns the config file location the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// CaptureMode returns the parsed capture mode
func (c *Config) CaptureMode() Mode {
	m, _ := ParseMode(c.Mode)
	return m
}

// Codec returns a signature codec honoring the configured lengths
func (c *Config) Codec() *SignatureCodec {
	return &SignatureCodec{QuestionLen: c.Signature.QuestionLen, ServiceLen: c.Signature.ServiceLen}
}

// Save writes the config back as YAML
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return &ConfigError{Path: c.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return &ConfigError{Path: c.path, Err: err}
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return &ConfigError{Path: c.path, Err: err}
	}
	return nil
}
