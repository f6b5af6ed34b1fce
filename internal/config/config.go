package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the runtime configuration from .bughunt/config.yaml.
type Config struct {
	Mode     string        `yaml:"mode"`
	LogLevel string        `yaml:"log_level"`
	Repo     RepoConfig    `yaml:"repo"`
	Hunt     HuntConfig    `yaml:"hunt"`
	History  HistoryConfig `yaml:"history"`
	GitHub   GitHubConfig  `yaml:"github"`
}

// RepoConfig locates the repository under investigation and the log file
// its application writes.
type RepoConfig struct {
	Path          string `yaml:"path"`
	LogPath       string `yaml:"log_path"`
	DefaultBranch string `yaml:"default_branch"`
}

// HuntConfig defines bisection defaults.
type HuntConfig struct {
	DefaultDays int  `yaml:"default_days"`
	AutoExpand  bool `yaml:"auto_expand"`
	MaxDays     int  `yaml:"max_days"`
	RestartWait int  `yaml:"restart_wait"` // seconds to wait after each checkout
}

// HistoryConfig defines hunt report persistence.
type HistoryConfig struct {
	Persist bool   `yaml:"persist"`
	Path    string `yaml:"path"`
}

// GitHubConfig holds the optional release lookup settings. The token
// supports ${VAR} environment interpolation.
type GitHubConfig struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Token string `yaml:"token"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Mode:     "interactive",
		LogLevel: "info",
		Repo: RepoConfig{
			Path:          ".",
			LogPath:       "app.log",
			DefaultBranch: "main",
		},
		Hunt: HuntConfig{
			DefaultDays: 7,
			AutoExpand:  true,
			MaxDays:     90,
			RestartWait: 15,
		},
		History: HistoryConfig{
			Persist: true,
			Path:    ".bughunt/history.db",
		},
	}
}

// LoadConfig reads and parses a runtime config YAML file. Environment
// variables referenced as ${VAR} are interpolated before parsing.
// Returns default config if the file doesn't exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	interpolated := interpolateEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolateEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func interpolateEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match // Leave unresolved if not set.
	})
}
