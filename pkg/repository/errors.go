// pkg/repository/errors.go
package repository

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPackageNotFound indicates no source offered a matching package
	ErrPackageNotFound = errors.New("package not found")

	// ErrInstall indicates a source or the local disk failed while fetching or unpacking
	ErrInstall = errors.New("install failed")

	// ErrInvalidVersionSpec indicates a malformed version constraint
	ErrInvalidVersionSpec = errors.New("invalid version spec")
)

// NotFoundError reports a package no queried source could satisfy
type NotFoundError struct {
	ID          string
	VersionSpec string
	Sources     []string
}

func (e *NotFoundError) Error() string {
	spec := e.VersionSpec
	if spec == "" {
		spec = "any version"
	}
	return fmt.Sprintf("package %s (%s) not found in sources [%s]", e.ID, spec, strings.Join(e.Sources, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPackageNotFound
}

// InstallError wraps a failure while fetching or unpacking one package
type InstallError struct {
	Op      string // Operation that failed
	ID      string
	Version string
	Source  string
	Err     error
}

func (e *InstallError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s %s.%s from %s: %v", e.Op, e.ID, e.Version, e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s.%s: %v", e.Op, e.ID, e.Version, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

func (e *InstallError) Is(target error) bool {
	return target == ErrInstall
}

// SourceFailure is one source that errored during an aggregate lookup
type SourceFailure struct {
	Source string
	Err    error
}

// SourceFailures is returned by an aggregate when nothing matched and at
// least one source failed outright
type SourceFailures struct {
	ID       string
	Failures []SourceFailure
}

func (e *SourceFailures) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "no source could be queried for %s:", e.ID)
	for _, f := range e.Failures {
		fmt.Fprintf(&buf, "\n\t%s: %v", f.Source, f.Err)
	}
	return buf.String()
}

func (e *SourceFailures) Is(target error) bool {
	return target == ErrInstall
}

func (e *SourceFailures) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
