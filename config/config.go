// Package config loads client settings from a TOML file and the
// environment. Settings are fixed once the program starts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// EnvBaseURL overrides base_url from the config file.
	EnvBaseURL = "CHAT_API_BASE_URL"
	// DefaultBaseURL is used when neither the env nor the file sets one.
	DefaultBaseURL = "http://localhost:8000"

	filename = "config.toml"
	dirname  = ".osa-chat"
)

// Config holds client settings stored at ~/.osa-chat/config.toml.
type Config struct {
	BaseURL  string `toml:"base_url"`
	Theme    string `toml:"theme"`
	WordWrap int    `toml:"word_wrap"`
	// Sidebar shows the conversation list at start.
	Sidebar bool      `toml:"sidebar"`
	Log     LogConfig `toml:"log"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// Dir returns the settings directory, ~/.osa-chat.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirname
	}
	return filepath.Join(home, dirname)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), filename)
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Theme:    "",
		WordWrap: 100,
		Sidebar:  true,
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults and applies env overrides. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Default(), fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.WordWrap <= 0 {
		cfg.WordWrap = Default().WordWrap
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the base URL is an absolute http(s) URL.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q: want an http or https URL", c.BaseURL)
	}
	return nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
