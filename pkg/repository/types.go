// Package repository defines the package repository capability the installer
// talks to, and composes ordered sources into a single queryable repository.
package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/arc-language/extpkg/pkg/framework"
)

// Repository is a single queryable package source
type Repository interface {
	// Source returns the location this repository was opened from
	Source() string

	// Find returns the best package matching q, or an error matching
	// ErrPackageNotFound when there is none
	Find(ctx context.Context, q Query) (*Metadata, error)

	// Fetch writes the package archive for m to w
	Fetch(ctx context.Context, m *Metadata, w io.Writer) error
}

// Query describes which package versions are acceptable
type Query struct {
	ID              string
	VersionSpec     string // NuGet interval notation, empty for any
	AllowPrerelease bool
	AllowUnlisted   bool
}

func (q Query) String() string {
	if q.VersionSpec == "" {
		return q.ID
	}
	return fmt.Sprintf("%s %s", q.ID, q.VersionSpec)
}

// Metadata describes a package version offered by a source
type Metadata struct {
	ID           string
	Version      string
	Source       string // location of the repository that answered
	Title        string
	Description  string
	Authors      string
	ProjectURL   string
	Dependencies []string // dependency ids, informational only
	Prerelease   bool
	Unlisted     bool
	DownloadURL  string // URL or local path of the archive
	Size         int64
}

func (m *Metadata) String() string {
	return m.ID + "." + m.Version
}

// LibFile is a file under the package's lib/ folder
type LibFile struct {
	Path      string               // package relative, slash separated
	Framework *framework.Framework // nil when framework agnostic
}

// Installed is a package materialized under an install root
type Installed struct {
	ID           string
	Version      string
	Source       string
	InstallPath  string
	ContentFiles []string // package relative, slash separated, on-disk casing
	LibFiles     []LibFile
}

func (p *Installed) String() string {
	return p.ID + "." + p.Version
}
