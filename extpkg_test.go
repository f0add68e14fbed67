package extpkg

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/arc-language/extpkg/pkg/core"
)

func writePackage(t *testing.T, dir, id, version string, files map[string]string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, id+"."+version+".nupkg"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := map[string]string{
		id + ".nuspec": fmt.Sprintf("<package><metadata><id>%s</id><version>%s</version></metadata></package>", id, version),
	}
	for name, body := range files {
		entries[name] = body
	}
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(body))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) (*Config, string) {
	t.Helper()

	base := t.TempDir()
	feed := filepath.Join(base, "feed")
	writePackage(t, feed, "Alpha", "1.0.0", map[string]string{
		"content/alpha.txt":            "a",
		"lib/net45/Alpha.dll":          "x",
		"lib/netstandard2.0/Alpha.dll": "x",
	})
	writePackage(t, feed, "Beta", "2.0.0", map[string]string{
		"content/beta.txt": "b",
		"lib/Beta.dll":     "x",
	})

	cfg := core.DefaultConfig()
	cfg.Root = filepath.Join(base, "host")
	cfg.PackagesPath = "packages"
	cfg.CachePath = filepath.Join(base, "cache")
	cfg.NoDefaultSource = true
	cfg.Sources = []string{feed}
	cfg.Packages = []core.Package{{ID: "Alpha"}, {ID: "Beta"}}
	return cfg, base
}

func TestManagerInstallAndResolve(t *testing.T) {
	cfg, base := testConfig(t)
	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx := context.Background()
	results, err := m.Install(ctx, false)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	packages := filepath.Join(base, "host", "packages")
	wantInputs := []string{
		filepath.Join(packages, "Beta.2.0.0", "content"),
		filepath.Join(packages, "Alpha.1.0.0", "content"),
		"input",
	}
	if got := m.InputPaths(); !reflect.DeepEqual(got, wantInputs) {
		t.Errorf("InputPaths() = %v, want %v", got, wantInputs)
	}

	assemblies, err := m.Assemblies(ctx)
	if err != nil {
		t.Fatalf("Assemblies() error = %v", err)
	}
	wantAssemblies := []string{
		filepath.Join(packages, "Alpha.1.0.0", "lib", "net45", "Alpha.dll"),
		filepath.Join(packages, "Beta.2.0.0", "lib", "Beta.dll"),
	}
	if !reflect.DeepEqual(assemblies, wantAssemblies) {
		t.Errorf("Assemblies() = %v, want %v", assemblies, wantAssemblies)
	}

	installed, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(installed) != 2 {
		t.Errorf("List() = %v, want 2 packages", installed)
	}
	if _, err := os.Stat(filepath.Join(packages, "extpkg.lock.toml")); err != nil {
		t.Errorf("install record missing: %v", err)
	}
}

func TestManagerNotFound(t *testing.T) {
	cfg, _ := testConfig(t)
	cfg.Packages = append(cfg.Packages, core.Package{ID: "Gamma", Version: "[3.0]"})

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	_, err = m.Install(context.Background(), false)
	if !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("Install() error = %v, want ErrPackageNotFound", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "install" {
		t.Errorf("err = %#v, want *Error with Op install", err)
	}
}

func TestManagerSourcesOrder(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Root = t.TempDir()
	cfg.Sources = []string{"https://first.example/api/v2", "/srv/second"}

	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	want := []string{"https://first.example/api/v2", "/srv/second", "https://packages.nuget.org/api/v2"}
	if got := m.Sources(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sources() = %v, want %v", got, want)
	}
}

func TestManagerInfo(t *testing.T) {
	cfg, base := testConfig(t)
	m, err := NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	meta, err := m.Info(context.Background(), "beta", "", false)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if meta.ID != "Beta" || meta.Version != "2.0.0" {
		t.Errorf("Info() = %s", meta)
	}
	if meta.Source != filepath.Join(base, "feed") {
		t.Errorf("Source = %q", meta.Source)
	}
}

func TestNewManagerRejectsEmptyPackagesPath(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.PackagesPath = ""
	if _, err := NewManager(cfg, nil); err == nil {
		t.Error("NewManager() error = nil")
	}
}
