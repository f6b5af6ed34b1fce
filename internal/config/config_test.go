package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Mode != "interactive" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "interactive")
	}
	if cfg.Repo.DefaultBranch != "main" {
		t.Errorf("Repo.DefaultBranch = %q, want %q", cfg.Repo.DefaultBranch, "main")
	}
	if !cfg.Hunt.AutoExpand {
		t.Error("Hunt.AutoExpand should be true by default")
	}
	if cfg.Hunt.MaxDays != 90 {
		t.Errorf("Hunt.MaxDays = %d, want %d", cfg.Hunt.MaxDays, 90)
	}
	if cfg.Hunt.RestartWait != 15 {
		t.Errorf("Hunt.RestartWait = %d, want %d", cfg.Hunt.RestartWait, 15)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
mode: run
log_level: debug
repo:
  path: /srv/consoleland
  log_path: /var/log/consoleland.log
  default_branch: master
hunt:
  default_days: 14
  auto_expand: false
  restart_wait: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Mode != "run" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "run")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Repo.Path != "/srv/consoleland" {
		t.Errorf("Repo.Path = %q, want %q", cfg.Repo.Path, "/srv/consoleland")
	}
	if cfg.Repo.DefaultBranch != "master" {
		t.Errorf("Repo.DefaultBranch = %q, want %q", cfg.Repo.DefaultBranch, "master")
	}
	if cfg.Hunt.DefaultDays != 14 {
		t.Errorf("Hunt.DefaultDays = %d, want %d", cfg.Hunt.DefaultDays, 14)
	}
	if cfg.Hunt.AutoExpand {
		t.Error("Hunt.AutoExpand should be false")
	}
	if cfg.Hunt.RestartWait != 5 {
		t.Errorf("Hunt.RestartWait = %d, want %d", cfg.Hunt.RestartWait, 5)
	}
	// Sections the file omits keep their defaults.
	if cfg.Hunt.MaxDays != 90 {
		t.Errorf("Hunt.MaxDays = %d, want default %d", cfg.Hunt.MaxDays, 90)
	}
	if !cfg.History.Persist {
		t.Error("History.Persist should keep its default")
	}
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Mode != "interactive" {
		t.Errorf("Mode = %q, want default %q", cfg.Mode, "interactive")
	}
}

func TestLoadConfigTokenInterpolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	t.Setenv("TEST_GH_TOKEN", "ghp_test123")

	yaml := `
github:
  owner: consoleland
  repo: consoleland
  token: "${TEST_GH_TOKEN}"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GitHub.Token != "ghp_test123" {
		t.Errorf("GitHub.Token = %q, want %q", cfg.GitHub.Token, "ghp_test123")
	}
	if cfg.GitHub.Owner != "consoleland" {
		t.Errorf("GitHub.Owner = %q, want %q", cfg.GitHub.Owner, "consoleland")
	}
}

func TestInterpolateEnvVars(t *testing.T) {
	t.Setenv("FOO", "bar")
	t.Setenv("NUM_123", "456")

	tests := []struct {
		input string
		want  string
	}{
		{"${FOO}", "bar"},
		{"prefix-${FOO}-suffix", "prefix-bar-suffix"},
		{"${UNSET_VAR}", "${UNSET_VAR}"}, // unresolved stays
		{"${FOO} and ${NUM_123}", "bar and 456"},
		{"no vars here", "no vars here"},
	}

	for _, tt := range tests {
		got := interpolateEnvVars(tt.input)
		if got != tt.want {
			t.Errorf("interpolateEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
