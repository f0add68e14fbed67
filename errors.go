// errors.go
package extpkg

import (
	"fmt"

	"github.com/arc-language/extpkg/pkg/install"
	"github.com/arc-language/extpkg/pkg/repository"
)

var (
	// ErrPackageNotFound indicates no source offered a matching package
	ErrPackageNotFound = repository.ErrPackageNotFound

	// ErrInstall indicates a source or the disk failed while installing
	ErrInstall = repository.ErrInstall

	// ErrInvalidVersionSpec indicates a malformed version constraint
	ErrInvalidVersionSpec = repository.ErrInvalidVersionSpec

	// ErrSourceConfiguration indicates an unusable packages path or request
	ErrSourceConfiguration = install.ErrSourceConfiguration
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package id if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
