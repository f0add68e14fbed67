package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(PackagesPathEnv, "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
	if cfg.TargetFramework != "net46" {
		t.Errorf("TargetFramework = %q, want net46", cfg.TargetFramework)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(PackagesPathEnv, "")

	path := writeConfig(t, `
root: /srv/host
packages_path: ext
target_framework: netstandard2.0
not_found: skip
sources:
  - https://a.example/api/v2
  - /srv/feed
packages:
  - id: Plugin
    version: "[1.0,2.0)"
  - id: Private
    sources: [git+https://git.example/feed.git#main]
    exclusive: true
    prerelease: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Root != "/srv/host" || cfg.PackagesPath != "ext" || cfg.NotFound != "skip" {
		t.Errorf("cfg = %+v", cfg)
	}
	if want := []string{"https://a.example/api/v2", "/srv/feed"}; !reflect.DeepEqual(cfg.Sources, want) {
		t.Errorf("Sources = %v, want %v", cfg.Sources, want)
	}
	if len(cfg.Packages) != 2 {
		t.Fatalf("len(Packages) = %d, want 2", len(cfg.Packages))
	}
	if p := cfg.Packages[1]; !p.Exclusive || !p.Prerelease || len(p.Sources) != 1 {
		t.Errorf("Packages[1] = %+v", p)
	}

	target, err := cfg.Target()
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	if target.String() != "netstandard2.0" {
		t.Errorf("Target() = %s, want netstandard2.0", target)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv(PackagesPathEnv, "/opt/ext")

	cfg, err := LoadConfig(writeConfig(t, "packages_path: ext\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.PackagesPath != "/opt/ext" {
		t.Errorf("PackagesPath = %q, want /opt/ext", cfg.PackagesPath)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv(PackagesPathEnv, "")

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "packages: [", "parsing config"},
		{"empty packages path", "packages_path: \"\"\n", "packages_path"},
		{"bad policy", "not_found: retry\n", "not_found"},
		{"bad framework", "target_framework: banana\n", "target_framework"},
		{"missing id", "packages:\n  - version: \"1.0\"\n", "packages[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv(PackagesPathEnv, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Sources = []string{"/srv/feed"}
	cfg.Packages = []Package{{ID: "Plugin", Version: "[1.0]"}}

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("LoadConfig() = %+v, want %+v", got, cfg)
	}
}
