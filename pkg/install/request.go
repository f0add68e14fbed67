package install

import (
	"fmt"
	"strings"

	"github.com/arc-language/extpkg/pkg/repository"
)

// Request is one package the host asked for
type Request struct {
	ID              string
	Sources         []string // per-package sources, searched before or instead of the global list
	VersionSpec     string
	AllowPrerelease bool
	AllowUnlisted   bool
	Exclusive       bool // search only Sources
}

// Validate checks that the request names a package
func (r Request) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: package id is required", ErrSourceConfiguration)
	}
	if _, err := repository.ParseVersionSpec(r.VersionSpec); err != nil {
		return err
	}
	return nil
}

// EffectiveSources returns the sources to search for this request, in order.
// An exclusive request with no sources of its own falls back to global.
func (r Request) EffectiveSources(global []string) []string {
	if len(r.Sources) == 0 {
		return append([]string(nil), global...)
	}

	out := make([]string, 0, len(r.Sources)+len(global))
	out = append(out, r.Sources...)
	if !r.Exclusive {
		out = append(out, global...)
	}
	return out
}

// Query converts the request into a repository query
func (r Request) Query() repository.Query {
	return repository.Query{
		ID:              strings.TrimSpace(r.ID),
		VersionSpec:     r.VersionSpec,
		AllowPrerelease: r.AllowPrerelease,
		AllowUnlisted:   r.AllowUnlisted,
	}
}

func (r Request) String() string {
	return r.Query().String()
}
