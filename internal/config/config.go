package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bibliobot/internal/providers"
	"gopkg.in/yaml.v3"
)

const DefaultTimeout = 5 * time.Second

// Config holds everything the webhook needs at construction time
type Config struct {
	// SlackToken is the shared secret every inbound command must carry
	SlackToken string
	Timeout    time.Duration
	Providers  []providers.Provider
}

// ProviderFile is the optional YAML provider descriptor file
type ProviderFile struct {
	Providers []ProviderEntry `yaml:"providers"`
}

// ProviderEntry overrides or adds a provider descriptor
type ProviderEntry struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	BaseURL     string `yaml:"base_url"`
	FaviconURL  string `yaml:"favicon_url"`
	SecretEnv   string `yaml:"secret_env"`
	Territories string `yaml:"territories"`
}

// Load builds the configuration from the environment and, when path is not
// empty, a YAML providers file. An empty path falls back to PROVIDERS_FILE.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{
		SlackToken: getenv("SLACK_TOKEN"),
		Timeout:    DefaultTimeout,
	}

	if raw := getenv("LOOKUP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid LOOKUP_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = timeout
	}

	list := providers.Defaults()

	if path == "" {
		path = getenv("PROVIDERS_FILE")
	}
	if path != "" {
		file, err := readProviderFile(path)
		if err != nil {
			return nil, err
		}
		list = merge(list, file.Providers)
	}

	for i := range list {
		if list[i].SecretEnv != "" {
			list[i].Secret = getenv(list[i].SecretEnv)
		}
	}
	cfg.Providers = list

	return cfg, nil
}

func readProviderFile(path string) (*ProviderFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var file ProviderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse providers file %s: %w", path, err)
	}
	return &file, nil
}

// merge applies YAML entries to the built-in descriptors. Only fields set in
// an entry replace the built-in values.
func merge(list []providers.Provider, entries []ProviderEntry) []providers.Provider {
	for _, e := range entries {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		idx := -1
		for i, p := range list {
			if p.Name == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			list = append(list, providers.Provider{Name: name, Territories: providers.TerritoriesExcluded})
			idx = len(list) - 1
		}

		p := &list[idx]
		if e.DisplayName != "" {
			p.DisplayName = e.DisplayName
		}
		if e.BaseURL != "" {
			p.BaseURL = e.BaseURL
		}
		if e.FaviconURL != "" {
			p.FaviconURL = e.FaviconURL
		}
		if e.SecretEnv != "" {
			p.SecretEnv = e.SecretEnv
		}
		if e.Territories != "" {
			p.Territories = providers.TerritoryStyle(e.Territories)
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Name
		}
	}
	return list
}

// Validate checks the configuration. requireToken is set when serving
// inbound webhooks.
func (c *Config) Validate(requireToken bool) error {
	if requireToken && c.SlackToken == "" {
		return fmt.Errorf("SLACK_TOKEN environment variable not set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got %s", c.Timeout)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}
	for _, p := range c.Providers {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
