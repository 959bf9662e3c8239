package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the current directory.
const DefaultConfigFile = ".finscreen.yaml"

// Environment variables read by ApplyEnv.
const (
	EnvProxy     = "FINSCREEN_PROXY"
	EnvBaseURL   = "FINSCREEN_BASE_URL"
	EnvDelay     = "FINSCREEN_DELAY"
	EnvFetchMode = "FINSCREEN_FETCH_MODE"
	EnvUserAgent = "FINSCREEN_USER_AGENT"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// FindConfigFile returns the first existing config file: configPath when
// given, then .finscreen.yaml in the working directory, then config.yaml in
// the XDG config directory. It returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	p := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// LoadFile merges the YAML file at path into cfg. Keys absent from the file
// leave cfg unchanged.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from FINSCREEN_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvProxy); v != "" {
		cfg.ProxyURL = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getenv(EnvFetchMode); v != "" {
		cfg.FetchMode = strings.ToLower(v)
	}
	if v := getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv(EnvDelay); v != "" {
		d, err := ParseDelay(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDelay, err)
		}
		cfg.Delay = d
	}
	return nil
}

// ParseDelay accepts a Go duration ("1500ms") or a number of seconds ("1.5").
func ParseDelay(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Load builds a Config from defaults, the config file (when found), a .env
// file in the working directory and the environment.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()

	if path := FindConfigFile(configPath); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("%s: %w", configPath, ErrConfigNotFound)
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}
