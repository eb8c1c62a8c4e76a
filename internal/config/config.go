package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultWorkerTimeout = 5 * time.Minute

// ContextDir maps a human name to an alternate working directory.
// Full-mode messages mentioning the name run the worker in that directory.
type ContextDir struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type Config struct {
	Slack struct {
		BotToken    string `yaml:"bot_token"`
		AppToken    string `yaml:"app_token"`
		AllowedUser string `yaml:"allowed_user"`
	} `yaml:"slack"`
	Worker struct {
		Command        string       `yaml:"command"`
		Model          string       `yaml:"model"`
		TimeoutSeconds int          `yaml:"timeout_seconds"`
		DefaultDir     string       `yaml:"default_dir"`
		Contexts       []ContextDir `yaml:"contexts"`
	} `yaml:"worker"`
	Anthropic struct {
		APIKey    string `yaml:"api_key"`
		Model     string `yaml:"model"`
		MaxTokens int64  `yaml:"max_tokens"`
	} `yaml:"anthropic"`
}

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, err
	}
	return c, nil
}

// Validate reports every missing required setting at once so a broken
// deployment fails fast with a complete list instead of one error per restart.
func (c Config) Validate() error {
	var missing []string
	if c.Slack.BotToken == "" {
		missing = append(missing, "slack.bot_token (SLACK_BOT_TOKEN)")
	}
	if c.Slack.AppToken == "" {
		missing = append(missing, "slack.app_token (SLACK_APP_TOKEN)")
	}
	if c.Slack.AllowedUser == "" {
		missing = append(missing, "slack.allowed_user (RELAY_ALLOWED_USER)")
	}
	if c.Worker.Command == "" {
		missing = append(missing, "worker.command")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// FastEnabled reports whether the fast path is available for this deployment.
// It is an all-or-nothing switch: no API key, no fast mode.
func (c Config) FastEnabled() bool {
	return c.Anthropic.APIKey != ""
}

// WorkerTimeout returns the full-mode wall-clock deadline.
func (c Config) WorkerTimeout() time.Duration {
	if c.Worker.TimeoutSeconds <= 0 {
		return defaultWorkerTimeout
	}
	return time.Duration(c.Worker.TimeoutSeconds) * time.Second
}

// DefaultWorkDir resolves the default full-mode working directory,
// falling back to the user's home directory.
func (c Config) DefaultWorkDir() string {
	if c.Worker.DefaultDir != "" {
		return c.Worker.DefaultDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
