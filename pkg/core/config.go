// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arc-language/extpkg/pkg/framework"
)

// PackagesPathEnv overrides the packages path from the config file
const PackagesPathEnv = "EXTPKG_PACKAGES_PATH"

// Config holds extpkg configuration
type Config struct {
	Root            string    `yaml:"root"`
	PackagesPath    string    `yaml:"packages_path"`
	CachePath       string    `yaml:"cache_path,omitempty"`
	Update          bool      `yaml:"update"`
	TargetFramework string    `yaml:"target_framework"`
	NotFound        string    `yaml:"not_found"`
	Debug           bool      `yaml:"debug"`
	Sources         []string  `yaml:"sources"` // highest priority first
	NoDefaultSource bool      `yaml:"no_default_source"`
	Packages        []Package `yaml:"packages"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Root:            ".",
		PackagesPath:    getDefaultPackagesPath(),
		TargetFramework: framework.Default.String(),
		NotFound:        "abort",
	}
}

// DefaultConfigPath returns $HOME/.config/extpkg/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "extpkg", "config.yaml"), nil
}

// LoadConfig loads configuration from file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if env := os.Getenv(PackagesPathEnv); env != "" {
		cfg.PackagesPath = env
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values LoadConfig cannot fix up on its own
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PackagesPath) == "" {
		return fmt.Errorf("packages_path must not be empty")
	}

	switch strings.ToLower(c.NotFound) {
	case "", "abort", "skip":
	default:
		return fmt.Errorf("not_found must be abort or skip, got %q", c.NotFound)
	}

	if c.TargetFramework != "" {
		if _, err := framework.Parse(c.TargetFramework); err != nil {
			return fmt.Errorf("target_framework: %w", err)
		}
	}

	for i, p := range c.Packages {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("packages[%d]: id is required", i)
		}
	}

	return nil
}

// Target returns the configured target framework, framework.Default when unset
func (c *Config) Target() (framework.Framework, error) {
	if c.TargetFramework == "" {
		return framework.Default, nil
	}
	return framework.Parse(c.TargetFramework)
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func getDefaultPackagesPath() string {
	if path := os.Getenv(PackagesPathEnv); path != "" {
		return path
	}
	return "packages"
}
