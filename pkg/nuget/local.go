// pkg/nuget/local.go
package nuget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/framework"
	"github.com/arc-language/extpkg/pkg/repository"
)

// LocalRepository is the set of packages already unpacked under an install root
type LocalRepository struct {
	root   string
	logger *log.Logger
}

// NewLocalRepository opens the install root at root
func NewLocalRepository(root string, logger *log.Logger) *LocalRepository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LocalRepository{root: root, logger: logger}
}

// Source returns the install root
func (r *LocalRepository) Source() string {
	return r.root
}

// List returns every installed package, ordered by directory name. A
// missing root is an empty repository.
func (r *LocalRepository) List(ctx context.Context) ([]*repository.Installed, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading install root: %w", err)
	}

	var packages []*repository.Installed
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dir := filepath.Join(r.root, entry.Name())
		p, err := ReadInstalled(dir)
		if err != nil {
			r.logger.Debugf("Skipping %s: %v", dir, err)
			continue
		}
		packages = append(packages, p)
	}

	return packages, nil
}

// Find returns the highest installed version matching q
func (r *LocalRepository) Find(ctx context.Context, q repository.Query) (*repository.Installed, error) {
	installed, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*repository.Metadata, 0, len(installed))
	byKey := make(map[*repository.Metadata]*repository.Installed, len(installed))
	for _, p := range installed {
		m := &repository.Metadata{ID: p.ID, Version: p.Version, Source: r.root}
		candidates = append(candidates, m)
		byKey[m] = p
	}

	// Installed packages were chosen deliberately, so prerelease and
	// unlisted filters do not hide them.
	local := q
	local.AllowPrerelease = true
	local.AllowUnlisted = true

	best, err := repository.SelectBest(local, candidates)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, &repository.NotFoundError{ID: q.ID, VersionSpec: q.VersionSpec, Sources: []string{r.root}}
	}
	return byKey[best], nil
}

// ReadInstalled describes the unpacked package in dir from its manifest
// and its file tree
func ReadInstalled(dir string) (*repository.Installed, error) {
	manifest, err := findManifest(dir)
	if err != nil {
		return nil, err
	}

	p := &repository.Installed{
		ID:          manifest.Metadata.ID,
		Version:     manifest.Metadata.Version,
		InstallPath: dir,
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		segments := strings.Split(rel, "/")
		if len(segments) < 2 {
			return nil
		}

		switch {
		case strings.EqualFold(segments[0], ContentFolder):
			p.ContentFiles = append(p.ContentFiles, rel)
		case strings.EqualFold(segments[0], LibFolder):
			lib := repository.LibFile{Path: rel}
			if len(segments) > 2 {
				fw := framework.ParseFolder(segments[1])
				lib.Framework = &fw
			}
			p.LibFiles = append(p.LibFiles, lib)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(p.ContentFiles)
	sort.Slice(p.LibFiles, func(i, j int) bool { return p.LibFiles[i].Path < p.LibFiles[j].Path })

	return p, nil
}

// findManifest parses the .nuspec at the top of an unpacked package
func findManifest(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ManifestExtension) {
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseManifest(f)
	}

	return nil, fmt.Errorf("no %s manifest in %s", ManifestExtension, dir)
}
