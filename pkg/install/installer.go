// Package install fetches the packages a host asked for, puts their content
// folders on the host's input paths and records what was installed.
package install

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
	"github.com/gofrs/flock"

	"github.com/arc-language/extpkg/pkg/fsroot"
	"github.com/arc-language/extpkg/pkg/lock"
	"github.com/arc-language/extpkg/pkg/repository"
	"github.com/arc-language/extpkg/pkg/source"
)

// DefaultPackagesPath is where packages land, relative to the root
const DefaultPackagesPath = "packages"

// lockFileName guards a packages directory against concurrent installers
const lockFileName = ".extpkg.lock"

// PackageManager installs packages into a single packages directory
type PackageManager interface {
	Install(ctx context.Context, q repository.Query, update bool) (*repository.Installed, error)
}

// Opener creates a package manager searching sources, in order, and
// installing into packagesPath
type Opener interface {
	Open(ctx context.Context, packagesPath string, sources []string) (PackageManager, error)
}

// OpenerFunc adapts a function to the Opener interface
type OpenerFunc func(ctx context.Context, packagesPath string, sources []string) (PackageManager, error)

// Open calls f
func (f OpenerFunc) Open(ctx context.Context, packagesPath string, sources []string) (PackageManager, error) {
	return f(ctx, packagesPath, sources)
}

// NotFoundPolicy decides what happens when no source has a requested package
type NotFoundPolicy string

const (
	// NotFoundAbort stops the run at the first missing package
	NotFoundAbort NotFoundPolicy = "abort"
	// NotFoundSkip logs a warning and carries on with the next request
	NotFoundSkip NotFoundPolicy = "skip"
)

// ParseNotFoundPolicy parses a policy name. Empty means NotFoundAbort.
func ParseNotFoundPolicy(s string) (NotFoundPolicy, error) {
	switch NotFoundPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", NotFoundAbort:
		return NotFoundAbort, nil
	case NotFoundSkip:
		return NotFoundSkip, nil
	}
	return "", fmt.Errorf("%w: unknown not_found policy %q", ErrSourceConfiguration, s)
}

// Status is the outcome of one request
type Status int

const (
	StatusInstalled Status = iota
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result reports what happened to one request
type Result struct {
	Request      Request
	Status       Status
	Package      *repository.Installed // nil unless Status is StatusInstalled
	ContentPaths []string              // input paths added for this package
	Err          error
}

// Options configures an Installer
type Options struct {
	PackagesPath    string // relative to the root unless absolute; DefaultPackagesPath when empty
	NoDefaultSource bool   // start with an empty source list
	Opener          Opener
	NotFound        NotFoundPolicy
	Lock            bool // hold a file lock and keep the install record
	Logger          *log.Logger
}

// Installer fetches requested packages into the packages directory
type Installer struct {
	fs           *fsroot.FileSystem
	sources      *source.List
	requests     []Request
	packagesPath string
	opener       Opener
	notFound     NotFoundPolicy
	lock         bool
	logger       *log.Logger
	installed    []*repository.Installed
}

// New creates an installer working under fs
func New(fs *fsroot.FileSystem, opts Options) (*Installer, error) {
	if fs == nil {
		return nil, fmt.Errorf("%w: file system is required", ErrSourceConfiguration)
	}
	if opts.Opener == nil {
		return nil, fmt.Errorf("%w: package opener is required", ErrSourceConfiguration)
	}

	policy, err := ParseNotFoundPolicy(string(opts.NotFound))
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sources := source.NewList()
	if opts.NoDefaultSource {
		sources = source.NewEmptyList()
	}

	packagesPath := opts.PackagesPath
	if packagesPath == "" {
		packagesPath = DefaultPackagesPath
	}

	return &Installer{
		fs:           fs,
		sources:      sources,
		packagesPath: packagesPath,
		opener:       opts.Opener,
		notFound:     policy,
		lock:         opts.Lock,
		logger:       logger,
	}, nil
}

// AddSource puts location ahead of every source added before it
func (in *Installer) AddSource(location string) {
	in.sources.Add(location)
}

// Sources returns the global sources in search order
func (in *Installer) Sources() []string {
	return in.sources.Sources()
}

// AddPackage queues a request. Requests install in the order they were added.
func (in *Installer) AddPackage(r Request) error {
	if err := r.Validate(); err != nil {
		return err
	}
	in.requests = append(in.requests, r)
	return nil
}

// Requests returns the queued requests in order
func (in *Installer) Requests() []Request {
	return append([]Request(nil), in.requests...)
}

// SetPackagesPath changes where packages are installed
func (in *Installer) SetPackagesPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: packages path must not be empty", ErrSourceConfiguration)
	}
	in.packagesPath = path
	return nil
}

// PackagesPath returns the packages path as configured
func (in *Installer) PackagesPath() string {
	return in.packagesPath
}

// AbsolutePackagesPath resolves the packages path against the root
func (in *Installer) AbsolutePackagesPath() string {
	if in.packagesPath == "" {
		return ""
	}
	return fsroot.Collapse(in.fs.Combine(in.packagesPath))
}

// Installed returns the packages installed by the last run
func (in *Installer) Installed() []*repository.Installed {
	return append([]*repository.Installed(nil), in.installed...)
}

// InstallPackages installs every queued request in order. With update set,
// sources are searched for newer versions of packages already installed.
// Results are returned for every request processed, including the one
// that stopped the run. Packages installed before a failure stay recorded.
func (in *Installer) InstallPackages(ctx context.Context, update bool) (results []Result, err error) {
	root := in.AbsolutePackagesPath()
	if root == "" {
		return nil, fmt.Errorf("%w: packages path must not be empty", ErrSourceConfiguration)
	}
	in.installed = nil

	if len(in.requests) == 0 {
		in.logger.Debug("No packages requested")
		return nil, nil
	}

	var record *lock.File
	if in.lock {
		unlock, lockErr := in.acquire(ctx, root)
		if lockErr != nil {
			return nil, lockErr
		}
		defer unlock()

		recordPath := filepath.Join(root, lock.FileName)
		var loadErr error
		if record, loadErr = lock.Load(recordPath); loadErr != nil {
			in.logger.Warnf("Ignoring unreadable install record: %v", loadErr)
			record = &lock.File{}
		}
		defer func() {
			saveErr := record.Save(recordPath)
			switch {
			case saveErr == nil:
			case err == nil:
				err = saveErr
			default:
				in.logger.Warnf("Failed to save install record: %v", saveErr)
			}
		}()
	}

	global := in.sources.Sources()
	results = make([]Result, 0, len(in.requests))

	for _, r := range in.requests {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := in.installOne(ctx, root, r, global, update)
		results = append(results, res)
		if err != nil {
			return results, err
		}
		if res.Status != StatusInstalled {
			continue
		}

		in.installed = append(in.installed, res.Package)
		if record != nil {
			if prev, ok := record.Get(res.Package.ID); ok && prev.Version != res.Package.Version {
				in.logger.Info("Package version changed", "id", res.Package.ID, "from", prev.Version, "to", res.Package.Version)
			}
			record.Put(lock.Entry{
				ID:           res.Package.ID,
				Version:      res.Package.Version,
				Source:       res.Package.Source,
				Path:         res.Package.InstallPath,
				ContentPaths: res.ContentPaths,
			})
		}
	}

	return results, nil
}

// installOne installs a single request and adds its content folders to the
// host input paths. The error is non-nil only when the run must stop.
func (in *Installer) installOne(ctx context.Context, root string, r Request, global []string, update bool) (Result, error) {
	res := Result{Request: r}
	sources := r.EffectiveSources(global)
	wrap := func(err error) error {
		return &RequestError{ID: r.ID, VersionSpec: r.VersionSpec, Sources: sources, Err: err}
	}

	in.logger.Debugf("Installing %s from %v", r, sources)

	pm, err := in.opener.Open(ctx, root, sources)
	if err != nil {
		res.Status, res.Err = StatusFailed, wrap(err)
		return res, res.Err
	}

	p, err := pm.Install(ctx, r.Query(), update)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			res.Status, res.Err = StatusNotFound, wrap(err)
			if in.notFound == NotFoundSkip {
				in.logger.Warnf("Skipping %s: %v", r, err)
				return res, nil
			}
			return res, res.Err
		}
		res.Status, res.Err = StatusFailed, wrap(err)
		return res, res.Err
	}

	res.Status = StatusInstalled
	res.Package = p
	res.ContentPaths = contentPaths(p)
	for _, path := range res.ContentPaths {
		in.logger.Debugf("Adding input path %s", path)
		in.fs.InputPaths.Prepend(path)
	}

	in.logger.Infof("Installed %s.%s", p.ID, p.Version)
	return res, nil
}

// contentPaths returns install path + first segment for every distinct
// first segment of p's content files, in first-seen order
func contentPaths(p *repository.Installed) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, f := range p.ContentFiles {
		segment := f
		if i := strings.Index(f, "/"); i >= 0 {
			segment = f[:i]
		}
		if segment == "" || seen[segment] {
			continue
		}
		seen[segment] = true
		paths = append(paths, filepath.Join(p.InstallPath, segment))
	}
	return paths
}

// acquire takes the packages directory lock, waiting until ctx is done
func (in *Installer) acquire(ctx context.Context, root string) (func(), error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating packages directory: %w", err)
	}

	fl := flock.New(filepath.Join(root, lockFileName))
	in.logger.Debugf("Locking %s", fl.Path())

	locked, err := fl.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", root, err)
	}
	if !locked {
		return nil, fmt.Errorf("locking %s: held by another process", root)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			in.logger.Warnf("Unlocking %s: %v", fl.Path(), err)
		}
	}, nil
}
