package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings jot reads at startup.
type Config struct {
	APIURL               string
	RequestTimeout       time.Duration
	MaxDescriptionLength int
	LogFile              string
	LogLevel             string
}

// EnvAPIURL overrides api_url when set.
const EnvAPIURL = "JOT_API_URL"

const (
	defaultConfigPath           = "~/.config/jot/config.toml"
	defaultAPIURL               = "http://localhost:8000"
	defaultRequestTimeout       = 10 * time.Second
	defaultMaxDescriptionLength = 1000
	defaultLogFile              = "~/.local/state/jot/jot.log"
	defaultLogLevel             = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:               defaultAPIURL,
		RequestTimeout:       defaultRequestTimeout,
		MaxDescriptionLength: defaultMaxDescriptionLength,
		LogFile:              mustExpand(defaultLogFile),
		LogLevel:             defaultLogLevel,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
// JOT_API_URL, when set, wins over the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := loadFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		cfg.APIURL = env
	}
	return cfg, nil
}

func loadFile(resolved string) (Config, error) {
	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL               string `toml:"api_url"`
		RequestTimeout       string `toml:"request_timeout"`
		MaxDescriptionLength int    `toml:"max_description_length"`
		LogFile              string `toml:"log_file"`
		LogLevel             string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout must be positive, got %s", v)
		}
		cfg.RequestTimeout = d
	}
	if raw.MaxDescriptionLength < 0 {
		return Config{}, fmt.Errorf("parse config: max_description_length must not be negative, got %d", raw.MaxDescriptionLength)
	}
	if raw.MaxDescriptionLength > 0 {
		cfg.MaxDescriptionLength = raw.MaxDescriptionLength
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
