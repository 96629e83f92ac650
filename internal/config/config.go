// Package config loads pr-agent settings from defaults, an optional config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/HendryAvila/pr-agent/internal/state"
	"github.com/HendryAvila/pr-agent/internal/team"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PR_AGENT"

// ConfigName is the config file basename searched for when none is given.
const ConfigName = "pr-agent"

// Seen-state backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the full runtime configuration.
type Config struct {
	DataDir        string        `mapstructure:"data_dir"`
	EventsFile     string        `mapstructure:"events_file"`
	TeamConfigFile string        `mapstructure:"team_config_file"`
	TemplatesDir   string        `mapstructure:"templates_dir"`
	State          StateConfig   `mapstructure:"state"`
	Slack          SlackConfig   `mapstructure:"slack"`
	Webhook        WebhookConfig `mapstructure:"webhook"`
	Log            LogConfig     `mapstructure:"log"`
}

// StateConfig selects and locates the seen-state store.
type StateConfig struct {
	Backend    string `mapstructure:"backend"`
	File       string `mapstructure:"file"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// SlackConfig configures the chat notifier.
type SlackConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// WebhookConfig configures the GitHub webhook receiver. An empty Addr
// disables it under "serve".
type WebhookConfig struct {
	Addr   string `mapstructure:"addr"`
	Secret string `mapstructure:"secret"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultDataDir returns ~/.pr-agent, or ".pr-agent" if the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pr-agent"
	}
	return filepath.Join(home, ".pr-agent")
}

// Load reads configuration. configFile may be empty, in which case
// pr-agent.{yaml,json,toml} is looked up in the working directory and the
// default data directory; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Conventional names used by GitHub and Slack tooling.
	_ = v.BindEnv("slack.webhook_url", EnvPrefix+"_SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL")
	_ = v.BindEnv("webhook.secret", EnvPrefix+"_WEBHOOK_SECRET", "GITHUB_WEBHOOK_SECRET")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("events_file", events.DefaultLogFile)
	v.SetDefault("team_config_file", team.DefaultConfigFile)
	v.SetDefault("templates_dir", "")
	v.SetDefault("state.backend", BackendFile)
	v.SetDefault("state.file", state.DefaultFile)
	v.SetDefault("state.sqlite_path", state.DefaultSQLiteFile)
	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("slack.timeout", 10*time.Second)
	v.SetDefault("webhook.addr", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("log.level", "info")
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.State.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("state.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.State.Backend)
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Slack.Timeout < 0 {
		return fmt.Errorf("slack.timeout must not be negative, got %s", c.Slack.Timeout)
	}
	return nil
}

// EventsPath is the absolute-or-data-dir-relative location of the event log.
func (c *Config) EventsPath() string { return c.resolve(c.EventsFile) }

// StatePath is the location of the JSON seen-state document.
func (c *Config) StatePath() string { return c.resolve(c.State.File) }

// SQLitePath is the location of the SQLite seen-state database.
func (c *Config) SQLitePath() string { return c.resolve(c.State.SQLitePath) }

// TeamConfigPath is the location of the team configuration file.
func (c *Config) TeamConfigPath() string { return c.resolve(c.TeamConfigFile) }

// TemplatesPath is the PR template override directory, or "" for none.
func (c *Config) TemplatesPath() string {
	if c.TemplatesDir == "" {
		return ""
	}
	return c.resolve(c.TemplatesDir)
}

// resolve joins relative paths onto DataDir.
func (c *Config) resolve(p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
