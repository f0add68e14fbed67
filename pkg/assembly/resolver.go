// Package assembly picks the binaries of installed packages that a host
// running a given target framework can load.
package assembly

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/framework"
	"github.com/arc-language/extpkg/pkg/repository"
)

// Lister enumerates the packages installed under a packages directory
type Lister interface {
	List(ctx context.Context) ([]*repository.Installed, error)
}

// Reason explains why a package contributed no assemblies
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoLibraries  Reason = "content-only package"
	ReasonIncompatible Reason = "no compatible framework"
	ReasonNoBinaries   Reason = "no binaries for the nearest framework"
)

// Set is the resolved assemblies of one package
type Set struct {
	Package    *repository.Installed
	Nearest    *framework.Framework // nil when only framework-agnostic files were used
	Assemblies []string             // absolute paths
	Reason     Reason               // set when Assemblies is empty
}

// Option configures a Resolver
type Option func(*Resolver)

// WithExtensions replaces the binary extensions kept, ".dll" by default
func WithExtensions(exts ...string) Option {
	return func(r *Resolver) {
		r.extensions = r.extensions[:0]
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			r.extensions = append(r.extensions, ext)
		}
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver computes the assemblies usable by target
type Resolver struct {
	local      Lister
	paths      repository.PathResolver
	target     framework.Framework
	extensions []string
	logger     *log.Logger
}

// New creates a resolver over the packages local lists, installed under root
func New(local Lister, root string, target framework.Framework, opts ...Option) *Resolver {
	r := &Resolver{
		local:      local,
		paths:      repository.PathResolver{Root: root},
		target:     target,
		extensions: []string{".dll"},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target returns the framework assemblies are resolved for
func (r *Resolver) Target() framework.Framework {
	return r.target
}

// Resolve returns the absolute path of every usable assembly, package by
// package in enumeration order
func (r *Resolver) Resolve(ctx context.Context) ([]string, error) {
	sets, err := r.ResolveSets(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, s := range sets {
		out = append(out, s.Assemblies...)
	}
	return out, nil
}

// ResolveSets returns one Set per installed package
func (r *Resolver) ResolveSets(ctx context.Context) ([]Set, error) {
	packages, err := r.local.List(ctx)
	if err != nil {
		return nil, err
	}

	sets := make([]Set, 0, len(packages))
	for _, p := range packages {
		s := r.resolve(p)
		if len(s.Assemblies) == 0 {
			r.report(s)
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func (r *Resolver) resolve(p *repository.Installed) Set {
	s := Set{Package: p}
	if len(p.LibFiles) == 0 {
		s.Reason = ReasonNoLibraries
		return s
	}

	var candidates []framework.Framework
	for _, f := range p.LibFiles {
		if f.Framework != nil {
			candidates = append(candidates, *f.Framework)
		}
	}

	nearest, ok := framework.Nearest(r.target, candidates)
	if ok {
		s.Nearest = &nearest
	}

	dir := p.InstallPath
	if dir == "" {
		dir = r.paths.InstallPath(p.ID, p.Version)
	}
	selected := 0
	for _, f := range p.LibFiles {
		if f.Framework != nil && !framework.Equal(f.Framework, s.Nearest) {
			continue
		}
		selected++

		if !r.isBinary(f.Path) {
			continue
		}

		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		r.logger.Debug("Adding assembly", "path", path, "package", p.ID, "version", p.Version)
		s.Assemblies = append(s.Assemblies, path)
	}

	switch {
	case len(s.Assemblies) > 0:
	case selected == 0:
		s.Reason = ReasonIncompatible
	default:
		s.Reason = ReasonNoBinaries
	}
	return s
}

func (r *Resolver) isBinary(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range r.extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func (r *Resolver) report(s Set) {
	p := s.Package
	switch s.Reason {
	case ReasonIncompatible:
		var declared []string
		seen := make(map[string]bool)
		for _, f := range p.LibFiles {
			if f.Framework == nil {
				continue
			}
			name := f.Framework.String()
			if !seen[name] {
				seen[name] = true
				declared = append(declared, name)
			}
		}
		r.logger.Info("No assemblies for package", "package", p.ID, "version", p.Version,
			"reason", string(s.Reason), "target", r.target.String(), "declared", strings.Join(declared, ", "))
	case ReasonNoBinaries:
		r.logger.Info("No assemblies for package", "package", p.ID, "version", p.Version,
			"reason", string(s.Reason), "nearest", nearestName(s.Nearest))
	default:
		r.logger.Info("No assemblies for package", "package", p.ID, "version", p.Version,
			"reason", string(s.Reason))
	}
}

func nearestName(f *framework.Framework) string {
	if f == nil {
		return "any"
	}
	return f.String()
}
