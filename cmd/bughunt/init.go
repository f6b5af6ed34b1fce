package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigYAML = `# bughunt configuration
mode: interactive
log_level: info

repo:
  path: .
  log_path: app.log
  default_branch: main

hunt:
  default_days: 7
  auto_expand: true
  max_days: 90
  restart_wait: 15

history:
  persist: true
  path: .bughunt/history.db

# Optional: release lookups against GitHub.
# github:
#   owner: myorg
#   repo: myapp
#   token: "${GITHUB_TOKEN}"
`

// handleInit implements `bughunt init`: scaffold .bughunt/config.yaml.
func handleInit() error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %q already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	fmt.Println("Edit it to point at the repository and log file to investigate, then run:")
	fmt.Println("  bughunt")
	return nil
}
