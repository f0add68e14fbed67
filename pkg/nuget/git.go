// pkg/nuget/git.go
package nuget

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/index"
	"github.com/arc-language/extpkg/pkg/repository"
)

// GitRepository is a folder feed kept in a git repository. The checkout is
// synced on first use and served like any other folder.
type GitRepository struct {
	location string
	loc      index.Location
	cacheDir string
	logger   *log.Logger

	once   sync.Once
	folder *FolderRepository
	err    error
}

// NewGitRepository creates a repository for a "git+<url>[#<branch>]" location
func NewGitRepository(location string, cfg *Config) (*GitRepository, error) {
	loc, ok := index.ParseLocation(location, GitPrefix)
	if !ok {
		return nil, fmt.Errorf("invalid git source %q", location)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cacheDir := cfg.CachePath
	if cacheDir == "" {
		homeDir, _ := os.UserHomeDir()
		cacheDir = filepath.Join(homeDir, ".cache", "extpkg")
	}

	return &GitRepository{location: location, loc: loc, cacheDir: cacheDir, logger: logger}, nil
}

// Source returns the original git+ location
func (r *GitRepository) Source() string {
	return r.location
}

func (r *GitRepository) sync(ctx context.Context) (*FolderRepository, error) {
	r.once.Do(func() {
		dir, err := index.Sync(ctx, r.loc, r.cacheDir, r.logger)
		if err != nil {
			r.err = fmt.Errorf("syncing %s: %w", r.loc, err)
			return
		}
		r.folder = NewFolderRepository(dir, r.logger)
		r.folder.source = r.location
	})
	return r.folder, r.err
}

// Find syncs the checkout if needed and searches it
func (r *GitRepository) Find(ctx context.Context, q repository.Query) (*repository.Metadata, error) {
	folder, err := r.sync(ctx)
	if err != nil {
		return nil, err
	}
	return folder.Find(ctx, q)
}

// Fetch copies the archive for m out of the checkout
func (r *GitRepository) Fetch(ctx context.Context, m *repository.Metadata, w io.Writer) error {
	folder, err := r.sync(ctx)
	if err != nil {
		return err
	}
	return folder.Fetch(ctx, m, w)
}
