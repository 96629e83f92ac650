// Package team holds the team configuration (repository owners, subject
// experts, on-call rotation) and the notification router built on it.
package team

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the team configuration filename in the data directory.
const DefaultConfigFile = "team_config.json"

// Failure categories understood by the router. Any other string is
// accepted but only matches a user-defined expertise entry.
const (
	CategoryGeneral    = "general"
	CategoryFrontend   = "frontend"
	CategoryBackend    = "backend"
	CategoryDeployment = "deployment"
	CategorySecurity   = "security"
)

// Categories lists the built-in failure categories.
var Categories = []string{
	CategoryGeneral,
	CategoryFrontend,
	CategoryBackend,
	CategoryDeployment,
	CategorySecurity,
}

// OnCall is the on-call rotation. An empty name disables that slot.
type OnCall struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
}

// Config is the effective team configuration.
type Config struct {
	Repositories map[string][]string `json:"repositories" yaml:"repositories"`
	Expertise    map[string][]string `json:"expertise" yaml:"expertise"`
	OnCall       OnCall              `json:"on_call" yaml:"on_call"`
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Repositories: map[string][]string{},
		Expertise: map[string][]string{
			CategoryFrontend:   {"frontend-lead"},
			CategoryBackend:    {"backend-lead"},
			CategoryDeployment: {"devops-lead"},
			CategorySecurity:   {"security-lead"},
			CategoryGeneral:    {"tech-lead"},
		},
		OnCall: OnCall{
			Primary:   "on-call-primary",
			Secondary: "on-call-secondary",
		},
	}
}

// overrides is the on-disk shape. Pointers distinguish "absent" from
// "explicitly empty".
type overrides struct {
	Repositories map[string][]string `json:"repositories" yaml:"repositories"`
	Expertise    map[string][]string `json:"expertise" yaml:"expertise"`
	OnCall       *struct {
		Primary   *string `json:"primary" yaml:"primary"`
		Secondary *string `json:"secondary" yaml:"secondary"`
	} `json:"on_call" yaml:"on_call"`
}

// apply merges o over cfg key by key: a repository or category present in
// o replaces only that entry, and each on-call slot is overridden on its own.
func (o *overrides) apply(cfg *Config) {
	for repo, people := range o.Repositories {
		cfg.Repositories[repo] = people
	}
	for cat, people := range o.Expertise {
		cfg.Expertise[cat] = people
	}
	if o.OnCall != nil {
		if o.OnCall.Primary != nil {
			cfg.OnCall.Primary = *o.OnCall.Primary
		}
		if o.OnCall.Secondary != nil {
			cfg.OnCall.Secondary = *o.OnCall.Secondary
		}
	}
}

// Parse decodes a partial configuration document and merges it over the
// defaults. format is "json" or "yaml".
func Parse(data []byte, format string) (*Config, error) {
	var o overrides
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("parsing team config (yaml): %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("parsing team config (json): %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported team config format %q", format)
	}

	cfg := Default()
	o.apply(cfg)
	return cfg, nil
}

// formatFor picks the decoder from the file extension.
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Load reads the configuration at path. A missing file yields the defaults
// and exists=false.
func Load(path string) (cfg *Config, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), false, nil
		}
		return nil, false, fmt.Errorf("reading team config: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return Default(), true, nil
	}
	cfg, err = Parse(data, formatFor(path))
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}
