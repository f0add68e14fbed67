// pkg/nuget/manager.go
package nuget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/repository"
)

// NewPackageManager creates a package manager installing from repo into
// cfg.InstallPath
func NewPackageManager(repo repository.Repository, cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{}
	}

	// Set defaults
	if cfg.InstallPath == "" {
		cfg.InstallPath = "packages"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	// Setup logger
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nuget", Level: log.DebugLevel})
		}
	}

	pm := &PackageManager{
		repo:   repo,
		local:  NewLocalRepository(cfg.InstallPath, logger),
		paths:  repository.PathResolver{Root: cfg.InstallPath},
		config: cfg,
		logger: logger,
	}

	pm.logger.Debug("Initialized NuGet PackageManager")
	pm.logger.Debugf("  Sources: %s", repo.Source())
	pm.logger.Debugf("  InstallPath: %s", cfg.InstallPath)

	return pm
}

// Repository returns the repository packages are installed from
func (pm *PackageManager) Repository() repository.Repository {
	return pm.repo
}

// InstallPath returns the directory a package version is unpacked into
func (pm *PackageManager) InstallPath(id, version string) string {
	return pm.paths.InstallPath(id, version)
}

// Install makes a package matching q available under the install root.
// An installed match is reused unless update is set, in which case the
// sources are asked for something newer.
func (pm *PackageManager) Install(ctx context.Context, q repository.Query, update bool) (*repository.Installed, error) {
	pm.logger.Debugf("Starting install for package: %s", q)

	// 1. Check the install root
	pm.logger.Debug("Step 1: Checking installed packages...")
	local, err := pm.local.Find(ctx, q)
	if err != nil && !errors.Is(err, repository.ErrPackageNotFound) {
		return nil, err
	}
	if local != nil {
		pm.logger.Debugf("  ✓ Installed: %s", local)
		if !update {
			return local, nil
		}
		if r, err := repository.ParseVersionSpec(q.VersionSpec); err == nil && r.IsExact() {
			pm.logger.Debugf("  %s is pinned, nothing to update", local)
			return local, nil
		}
	}

	// 2. Resolve against the sources
	pm.logger.Debug("Step 2: Querying sources...")
	meta, err := pm.repo.Find(ctx, q)
	if err != nil {
		if local != nil && errors.Is(err, repository.ErrPackageNotFound) {
			pm.logger.Debugf("  Nothing newer available, keeping %s", local)
			return local, nil
		}
		return nil, err
	}
	pm.logger.Debugf("  ✓ Package found: %s in %s", meta, meta.Source)

	if local != nil && versionsEqual(local.Version, meta.Version) {
		pm.logger.Debugf("  %s is already the newest match", local)
		return local, nil
	}

	// 3. Download and unpack
	pm.logger.Debug("Step 3: Downloading package...")
	installed, err := pm.install(ctx, meta)
	if err != nil {
		return nil, err
	}

	// 4. Drop the version it replaced
	if local != nil && local.InstallPath != installed.InstallPath {
		pm.logger.Debugf("Step 4: Removing replaced version %s", local)
		if err := os.RemoveAll(local.InstallPath); err != nil {
			pm.logger.Warnf("  Failed to remove %s: %v", local.InstallPath, err)
		}
	}

	pm.logger.Infof("✓ Package %s installed successfully", installed)
	return installed, nil
}

// install downloads meta and unpacks it into the directory named by the
// package's own manifest, which may differ in form from what the source
// reported. A failed install leaves no directory behind.
func (pm *PackageManager) install(ctx context.Context, meta *repository.Metadata) (*repository.Installed, error) {
	fail := func(op string, err error) (*repository.Installed, error) {
		return nil, &repository.InstallError{Op: op, ID: meta.ID, Version: meta.Version, Source: meta.Source, Err: err}
	}

	root := pm.config.InstallPath
	if err := os.MkdirAll(root, 0755); err != nil {
		return fail("mkdir", err)
	}

	staged := filepath.Join(root, "."+repository.DirName(meta.ID, meta.Version)+PackageExtension)
	defer os.Remove(staged)
	if err := pm.download(ctx, meta, staged); err != nil {
		return fail("download", err)
	}

	manifest, err := ReadManifest(staged)
	if err != nil {
		return fail("read", err)
	}
	id, version := manifest.Metadata.ID, manifest.Metadata.Version
	if id == "" || version == "" {
		id, version = meta.ID, meta.Version
	}

	dir := pm.InstallPath(id, version)
	cleanup := func(op string, err error) (*repository.Installed, error) {
		os.RemoveAll(dir)
		return fail(op, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fail("clean", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return cleanup("mkdir", err)
	}

	archive := filepath.Join(dir, id+"."+version+PackageExtension)
	if err := os.Rename(staged, archive); err != nil {
		return cleanup("move", err)
	}

	if err := Extract(archive, dir, pm.logger); err != nil {
		return cleanup("extract", err)
	}

	installed, err := ReadInstalled(dir)
	if err != nil {
		return cleanup("read", err)
	}
	installed.Source = meta.Source
	return installed, nil
}

// download writes the archive to a temporary file and renames it into place
func (pm *PackageManager) download(ctx context.Context, meta *repository.Metadata, dest string) error {
	tmp := dest + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := pm.repo.Fetch(ctx, meta, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing file: %w", err)
	}

	return os.Rename(tmp, dest)
}

func versionsEqual(a, b string) bool {
	va, errA := repository.ParseVersion(a)
	vb, errB := repository.ParseVersion(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return va.Equal(vb)
}

// Open creates the repository for a single source location: "git+" for a
// git-hosted folder, http(s) for a v2 feed, anything else for a folder.
func Open(location string, cfg *Config) (repository.Repository, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	switch {
	case strings.HasPrefix(location, GitPrefix):
		return NewGitRepository(location, cfg)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewRemoteRepository(location, cfg), nil
	case location == "":
		return nil, fmt.Errorf("empty source location")
	default:
		return NewFolderRepository(location, cfg.Logger), nil
	}
}

// OpenManager composes sources, in priority order, behind one package manager
func OpenManager(sources []string, cfg *Config) (*PackageManager, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	repos := make([]repository.Repository, 0, len(sources))
	for _, location := range sources {
		repo, err := Open(location, cfg)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}

	return NewPackageManager(repository.NewAggregate(cfg.Logger, repos...), cfg), nil
}
