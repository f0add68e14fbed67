// pkg/repository/aggregate.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Aggregate presents an ordered list of repositories as one. Lookups try
// each repository in order and return the first match.
type Aggregate struct {
	repos  []Repository
	logger *log.Logger
}

// NewAggregate composes repos in priority order
func NewAggregate(logger *log.Logger, repos ...Repository) *Aggregate {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Aggregate{repos: repos, logger: logger}
}

// Source returns the composed locations separated by ";"
func (a *Aggregate) Source() string {
	return strings.Join(a.Sources(), ";")
}

// Sources returns the composed locations in query order
func (a *Aggregate) Sources() []string {
	sources := make([]string, 0, len(a.repos))
	for _, r := range a.repos {
		sources = append(sources, r.Source())
	}
	return sources
}

// Find asks each repository in order. Sources that fail outright are
// skipped; if nothing matches and any source failed the failures are
// returned, otherwise a *NotFoundError listing every queried source.
func (a *Aggregate) Find(ctx context.Context, q Query) (*Metadata, error) {
	var failures []SourceFailure

	for _, r := range a.repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := r.Find(ctx, q)
		if err == nil {
			a.logger.Debugf("Found %s in %s", m, r.Source())
			if m.Source == "" {
				m.Source = r.Source()
			}
			return m, nil
		}

		if errors.Is(err, ErrPackageNotFound) {
			a.logger.Debugf("%s not found in %s", q, r.Source())
			continue
		}
		if errors.Is(err, ErrInvalidVersionSpec) {
			return nil, err
		}

		a.logger.Warnf("Source %s failed for %s: %v", r.Source(), q, err)
		failures = append(failures, SourceFailure{Source: r.Source(), Err: err})
	}

	if len(failures) > 0 {
		return nil, &SourceFailures{ID: q.ID, Failures: failures}
	}

	return nil, &NotFoundError{
		ID:          q.ID,
		VersionSpec: q.VersionSpec,
		Sources:     a.Sources(),
	}
}

// Fetch delegates to the repository that answered for m
func (a *Aggregate) Fetch(ctx context.Context, m *Metadata, w io.Writer) error {
	for _, r := range a.repos {
		if r.Source() == m.Source {
			return r.Fetch(ctx, m, w)
		}
	}
	return fmt.Errorf("no repository for source %q", m.Source)
}
