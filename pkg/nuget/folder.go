// pkg/nuget/folder.go
package nuget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/repository"
)

// folderScanDepth bounds how deep a folder feed is searched for archives
const folderScanDepth = 3

// FolderRepository serves .nupkg files from a local directory tree
type FolderRepository struct {
	root   string
	source string
	logger *log.Logger
}

// NewFolderRepository creates a repository over the archives under root
func NewFolderRepository(root string, logger *log.Logger) *FolderRepository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FolderRepository{root: root, source: root, logger: logger}
}

// Source returns the folder location
func (r *FolderRepository) Source() string {
	return r.source
}

// Find scans the folder for archives of q.ID and picks the best match
func (r *FolderRepository) Find(ctx context.Context, q repository.Query) (*repository.Metadata, error) {
	if _, err := repository.ParseVersionSpec(q.VersionSpec); err != nil {
		return nil, err
	}

	all, err := r.Packages(ctx)
	if err != nil {
		return nil, err
	}

	best, err := repository.SelectBest(q, all)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, &repository.NotFoundError{ID: q.ID, VersionSpec: q.VersionSpec, Sources: []string{r.source}}
	}
	return best, nil
}

// Packages reads the manifest of every archive in the folder. Unreadable
// archives are logged and skipped.
func (r *FolderRepository) Packages(ctx context.Context) ([]*repository.Metadata, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("package folder %s does not exist", r.root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("package folder %s is not a directory", r.root)
	}

	var packages []*repository.Metadata
	err = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != r.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			rel, _ := filepath.Rel(r.root, path)
			if rel != "." && strings.Count(filepath.ToSlash(rel), "/")+1 >= folderScanDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(d.Name()), PackageExtension) {
			return nil
		}

		manifest, err := ReadManifest(path)
		if err != nil {
			r.logger.Warnf("Skipping %s: %v", path, err)
			return nil
		}

		m := manifest.ToMetadata()
		m.Source = r.source
		m.DownloadURL = path
		if info, err := d.Info(); err == nil {
			m.Size = info.Size()
		}
		packages = append(packages, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", r.root, err)
	}

	return packages, nil
}

// Fetch copies the archive for m into w
func (r *FolderRepository) Fetch(ctx context.Context, m *repository.Metadata, w io.Writer) error {
	if m.DownloadURL == "" {
		return fmt.Errorf("no archive recorded for %s", m)
	}

	f, err := os.Open(m.DownloadURL)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copying archive: %w", err)
	}
	return nil
}
