package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the notes service base URL used when nothing else is set.
const DefaultAPIURL = "http://localhost:8000/api/v1"

// Config is the on-disk configuration of the client.
//
// Example config.yaml:
//
//	api_url: https://notes.example.com/api/v1
//	timeout: 10s
//	session_file: ${HOME}/.local/state/inkwell/session.json
//	log_level: debug
type Config struct {
	APIURL      string        `yaml:"api_url"`
	Timeout     time.Duration `yaml:"timeout"`
	SessionFile string        `yaml:"session_file"`
	LogLevel    string        `yaml:"log_level"`

	// Path is the file the configuration was read from, empty when none.
	Path string `yaml:"-"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		LogLevel: "info",
	}
}

// DefaultConfigPath picks the config file: $INKWELL_CONFIG, else the
// nearest .inkwell.yaml above the working directory, else config.yaml in
// ConfigDir.
func DefaultConfigPath() (string, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return path, nil
	}
	if wd, err := os.Getwd(); err == nil {
		if path, err := FindProjectConfig(wd); err == nil {
			return path, nil
		}
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig loads the configuration from path, or from DefaultConfigPath
// when path is empty. A missing default file is not an error; a missing
// explicit one is. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return nil, err
		}
		explicit = os.Getenv(EnvConfig) != ""
	}

	cfg := DefaultConfig()
	err := cfg.loadFile(path)
	switch {
	case err == nil:
		cfg.Path = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.SessionFile = os.ExpandEnv(cfg.SessionFile)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvSessionFile); v != "" {
		c.SessionFile = v
	}
}

// Level parses LogLevel, defaulting to Info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Options translates the configuration into Notebook options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	if c.SessionFile != "" {
		opts = append(opts, WithSessionFile(c.SessionFile))
	}
	return opts
}
