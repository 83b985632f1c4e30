package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DRAFTDESK_*). A .env file next to the
// config file is loaded first; it never overrides variables already set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DRAFTDESK_BACKEND_URL -> backend_url, etc.
	// Nested keys use a double underscore: DRAFTDESK_STUB__PORT -> stub.port.
	if err := k.Load(env.Provider("DRAFTDESK_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DRAFTDESK_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderClaude: true,
	ProviderOpenAI: true,
	ProviderGoogle: true,
	ProviderMeta:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend_url %q: must be an absolute http(s) URL", c.BackendURL)
	}

	if c.Provider != "" && !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of claude, openai, google, meta", c.Provider)
	}

	if c.DebounceMS <= 0 {
		return fmt.Errorf("debounce_ms must be positive")
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be non-negative")
	}

	if len(c.Sections) == 0 {
		return fmt.Errorf("sections must list at least one section title")
	}
	seen := make(map[string]bool, len(c.Sections))
	for _, title := range c.Sections {
		title = strings.TrimSpace(title)
		if title == "" {
			return fmt.Errorf("sections must not contain empty titles")
		}
		if seen[title] {
			return fmt.Errorf("duplicate section title %q", title)
		}
		seen[title] = true
	}

	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}

	return nil
}

// Debounce returns the configured debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout returns the configured HTTP request timeout; zero disables it.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
