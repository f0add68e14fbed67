package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Location is a git-hosted package folder, written "git+<url>[#<branch>]"
type Location struct {
	URL    string
	Branch string // empty for the remote's default branch
}

// ParseLocation splits a "git+" source location. ok is false for any
// other kind of location.
func ParseLocation(location, prefix string) (Location, bool) {
	if !strings.HasPrefix(location, prefix) {
		return Location{}, false
	}
	rest := strings.TrimPrefix(location, prefix)
	if rest == "" {
		return Location{}, false
	}

	loc := Location{URL: rest}
	if i := strings.LastIndex(rest, "#"); i >= 0 {
		loc.URL, loc.Branch = rest[:i], rest[i+1:]
	}
	if loc.URL == "" {
		return Location{}, false
	}
	return loc, true
}

func (l Location) String() string {
	if l.Branch == "" {
		return l.URL
	}
	return l.URL + "#" + l.Branch
}

// CacheDir returns the checkout directory for l under cacheDir
func (l Location) CacheDir(cacheDir string) string {
	sum := sha256.Sum256([]byte(l.String()))
	return filepath.Join(cacheDir, "git", hex.EncodeToString(sum[:8]))
}

// Sync makes sure an up to date shallow checkout of loc exists under
// cacheDir and returns its path. An existing checkout is pulled; a
// checkout that cannot be opened is cloned again.
func Sync(ctx context.Context, loc Location, cacheDir string, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	dir := loc.CacheDir(cacheDir)

	if repo, err := git.PlainOpen(dir); err == nil {
		logger.Debugf("Updating package folder %s in %s", loc, dir)
		wt, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("opening worktree: %w", err)
		}

		opts := &git.PullOptions{RemoteName: "origin", SingleBranch: true, Depth: 1}
		if loc.Branch != "" {
			opts.ReferenceName = plumbing.NewBranchReferenceName(loc.Branch)
		}
		err = wt.PullContext(ctx, opts)
		if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
			return dir, nil
		}
		logger.Warnf("Pull of %s failed, cloning again: %v", loc, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clearing stale checkout: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	logger.Debugf("Cloning package folder %s into %s", loc, dir)
	opts := &git.CloneOptions{
		URL:          loc.URL,
		SingleBranch: true,
		Depth:        1,
	}
	if loc.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(loc.Branch)
	}
	if _, err := git.PlainCloneContext(ctx, dir, false, opts); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("git clone failed: %w", err)
	}

	return dir, nil
}
