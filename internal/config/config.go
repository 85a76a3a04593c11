// Package config loads .mcpready.yml configuration files and .mcpready-ignore
// suppression lists.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleOverride allows per-rule severity or disable.
type RuleOverride struct {
	Severity string `yaml:"severity,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Semantic holds the semantic provider's endpoint settings.
type Semantic struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Path      string `yaml:"path,omitempty"`
	Model     string `yaml:"model,omitempty"`
	Flavor    string `yaml:"flavor,omitempty"` // openai or anthropic
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	TimeoutMS int    `yaml:"timeout_ms,omitempty"`
}

// Config represents the .mcpready.yml configuration file.
type Config struct {
	Providers     []string                `yaml:"providers,omitempty"`
	IgnoreRules   []string                `yaml:"ignore_rules,omitempty"`
	MinScore      *int                    `yaml:"min_score,omitempty"`
	FailOn        string                  `yaml:"fail_on,omitempty"`
	Format        string                  `yaml:"format,omitempty"`
	Rules         string                  `yaml:"rules,omitempty"`    // extra pattern rule directory
	Policies      string                  `yaml:"policies,omitempty"` // extra policy directory
	Concurrency   int                     `yaml:"concurrency,omitempty"`
	RuleOverrides map[string]RuleOverride `yaml:"rule_overrides,omitempty"`
	Semantic      Semantic                `yaml:"semantic,omitempty"`
}

// Load reads the .mcpready.yml or .mcpready.yaml config file from the given
// path. If path is a file, its parent directory is used. If no config file is
// found, it returns a zero Config (not an error).
func Load(dir string) (Config, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for _, name := range []string{".mcpready.yml", ".mcpready.yaml"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		if info.Size() > 1<<20 {
			return Config{}, fmt.Errorf("config file too large: %s (%d bytes, max 1 MB)", path, info.Size())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", path, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	return Config{}, nil
}

// LoadIgnoreFile reads a .mcpready-ignore file: one rule ID per line, blank
// lines and # comments skipped. A missing file yields no IDs, not an error.
func LoadIgnoreFile(dir string) ([]string, error) {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	path := filepath.Join(dir, ".mcpready-ignore")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer file.Close()

	var ids []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Allow trailing comments on the same line.
		if idx := strings.Index(line, "#"); idx > 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line != "" {
			ids = append(ids, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ids, nil
}
