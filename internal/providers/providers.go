package providers

import (
	"fmt"
	"sort"
	"strings"
)

// TerritoryStyle controls how a provider's rights exclusions are rendered
type TerritoryStyle string

const (
	// TerritoriesExcluded renders "None" or the exclusion list
	TerritoriesExcluded TerritoryStyle = "excluded"
	// TerritoriesWorld renders "World" or "World excluding ..."
	TerritoriesWorld TerritoryStyle = "world"
)

// Provider describes one bibliographic metadata API
type Provider struct {
	// Name is the slash command that routes to this provider, without the slash
	Name        string
	DisplayName string
	BaseURL     string
	Secret      string
	FaviconURL  string
	// SecretEnv is the environment variable the secret is read from at config load
	SecretEnv   string
	Territories TerritoryStyle
}

// WorkURL returns the provider's detail page for a work
func (p Provider) WorkURL(workID string) string {
	return strings.TrimRight(p.BaseURL, "/") + "/works/" + workID
}

// Validate checks that the descriptor can be used for lookups
func (p Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("provider %s: base URL is required", p.Name)
	}
	switch p.Territories {
	case TerritoriesExcluded, TerritoriesWorld:
	default:
		return fmt.Errorf("provider %s: unsupported territory style: %q", p.Name, p.Territories)
	}
	return nil
}

// Defaults returns the two known providers without secrets
func Defaults() []Provider {
	return []Provider{
		{
			Name:        "bibliocloud",
			DisplayName: "Bibliocloud",
			BaseURL:     "https://app.bibliocloud.com",
			FaviconURL:  "https://app.bibliocloud.com/favicon-32x32.png",
			SecretEnv:   "BIBLIOCLOUD_TOKEN",
			Territories: TerritoriesExcluded,
		},
		{
			Name:        "consonance",
			DisplayName: "Consonance",
			BaseURL:     "https://web.consonance.app",
			FaviconURL:  "https://web.consonance.app/favicon-32x32.png",
			SecretEnv:   "CONSONANCE_TOKEN",
			Territories: TerritoriesWorld,
		},
	}
}

// Registry looks providers up by slash command name
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry from the given providers. Later entries
// replace earlier ones with the same name.
func NewRegistry(list []Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(list))}
	for _, p := range list {
		r.providers[strings.ToLower(p.Name)] = p
	}
	return r
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(name)]
	return p, ok
}

// Names returns the registered command names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
