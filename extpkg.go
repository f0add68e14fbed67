// extpkg.go
package extpkg

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/assembly"
	"github.com/arc-language/extpkg/pkg/core"
	"github.com/arc-language/extpkg/pkg/framework"
	"github.com/arc-language/extpkg/pkg/fsroot"
	"github.com/arc-language/extpkg/pkg/install"
	"github.com/arc-language/extpkg/pkg/nuget"
	"github.com/arc-language/extpkg/pkg/repository"
)

// Re-export types for convenience
type (
	Config    = core.Config
	Request   = install.Request
	Result    = install.Result
	Installed = repository.Installed
	Metadata  = repository.Metadata
	Framework = framework.Framework
	Set       = assembly.Set
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Manager installs the configured packages and resolves their assemblies
type Manager struct {
	config    *core.Config
	fs        *fsroot.FileSystem
	installer *install.Installer
	target    framework.Framework
	cachePath string
	logger    *log.Logger
}

// NewManager builds a manager from cfg. Sources are listed highest priority
// first and all rank above the default source.
func NewManager(cfg *Config, logger *log.Logger) (*Manager, error) {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "config", Err: err}
	}

	target, err := cfg.Target()
	if err != nil {
		return nil, &Error{Op: "config", Err: err}
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}
	fs, err := fsroot.New(root)
	if err != nil {
		return nil, &Error{Op: "root", Err: err}
	}

	// Ensure CachePath is set
	cachePath := cfg.CachePath
	if cachePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cachePath = filepath.Join(os.TempDir(), "extpkg")
		} else {
			cachePath = filepath.Join(home, ".cache", "extpkg")
		}
	}

	m := &Manager{
		config:    cfg,
		fs:        fs,
		target:    target,
		cachePath: cachePath,
		logger:    logger,
	}

	m.installer, err = install.New(fs, install.Options{
		PackagesPath:    cfg.PackagesPath,
		NoDefaultSource: cfg.NoDefaultSource,
		Opener:          install.OpenerFunc(m.open),
		NotFound:        install.NotFoundPolicy(cfg.NotFound),
		Lock:            true,
		Logger:          logger,
	})
	if err != nil {
		return nil, &Error{Op: "config", Err: err}
	}

	for i := len(cfg.Sources) - 1; i >= 0; i-- {
		m.installer.AddSource(cfg.Sources[i])
	}

	for _, p := range cfg.Packages {
		req := install.Request{
			ID:              p.ID,
			Sources:         p.Sources,
			VersionSpec:     p.Version,
			AllowPrerelease: p.Prerelease,
			AllowUnlisted:   p.Unlisted,
			Exclusive:       p.Exclusive,
		}
		if err := m.installer.AddPackage(req); err != nil {
			return nil, &Error{Op: "config", Package: p.ID, Err: err}
		}
	}

	return m, nil
}

func (m *Manager) nugetConfig(packagesPath string) *nuget.Config {
	return &nuget.Config{
		InstallPath: packagesPath,
		CachePath:   m.cachePath,
		Debug:       m.config.Debug,
		Logger:      m.logger,
	}
}

func (m *Manager) open(ctx context.Context, packagesPath string, sources []string) (install.PackageManager, error) {
	return nuget.OpenManager(sources, m.nugetConfig(packagesPath))
}

// Install installs every configured package. With update set, sources are
// searched for newer versions of packages already installed.
func (m *Manager) Install(ctx context.Context, update bool) ([]Result, error) {
	results, err := m.installer.InstallPackages(ctx, update)
	if err != nil {
		return results, &Error{Op: "install", Err: err}
	}
	return results, nil
}

// Assemblies returns the absolute paths of the installed binaries the
// target framework can load
func (m *Manager) Assemblies(ctx context.Context) ([]string, error) {
	paths, err := m.resolver().Resolve(ctx)
	if err != nil {
		return nil, &Error{Op: "assemblies", Err: err}
	}
	return paths, nil
}

// AssemblySets returns the resolved assemblies grouped by package
func (m *Manager) AssemblySets(ctx context.Context) ([]Set, error) {
	sets, err := m.resolver().ResolveSets(ctx)
	if err != nil {
		return nil, &Error{Op: "assemblies", Err: err}
	}
	return sets, nil
}

func (m *Manager) resolver() *assembly.Resolver {
	root := m.installer.AbsolutePackagesPath()
	return assembly.New(nuget.NewLocalRepository(root, m.logger), root, m.target, assembly.WithLogger(m.logger))
}

// List returns the packages installed under the packages path
func (m *Manager) List(ctx context.Context) ([]*Installed, error) {
	packages, err := nuget.NewLocalRepository(m.installer.AbsolutePackagesPath(), m.logger).List(ctx)
	if err != nil {
		return nil, &Error{Op: "list", Err: err}
	}
	return packages, nil
}

// Info looks a package up in the global sources without installing it
func (m *Manager) Info(ctx context.Context, id, versionSpec string, prerelease bool) (*Metadata, error) {
	if id == "" {
		return nil, &Error{Op: "info", Err: ErrSourceConfiguration}
	}

	pm, err := nuget.OpenManager(m.Sources(), m.nugetConfig(m.installer.AbsolutePackagesPath()))
	if err != nil {
		return nil, &Error{Op: "info", Package: id, Err: err}
	}

	meta, err := pm.Repository().Find(ctx, repository.Query{ID: id, VersionSpec: versionSpec, AllowPrerelease: prerelease})
	if err != nil {
		return nil, &Error{Op: "info", Package: id, Err: err}
	}
	return meta, nil
}

// Sources returns the global sources in search order
func (m *Manager) Sources() []string {
	return m.installer.Sources()
}

// Requests returns the configured package requests in install order
func (m *Manager) Requests() []Request {
	return m.installer.Requests()
}

// InputPaths returns the host input paths, content folders first
func (m *Manager) InputPaths() []string {
	return m.fs.InputPaths.Paths()
}

// PackagesPath returns the absolute packages directory
func (m *Manager) PackagesPath() string {
	return m.installer.AbsolutePackagesPath()
}

// Target returns the framework assemblies are resolved for
func (m *Manager) Target() Framework {
	return m.target
}

// Installer exposes the underlying installer for hosts that add sources or
// requests programmatically
func (m *Manager) Installer() *install.Installer {
	return m.installer
}
