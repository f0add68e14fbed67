package install

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSourceConfiguration indicates the installer was configured with an
// unusable value, such as an empty packages path
var ErrSourceConfiguration = errors.New("invalid source configuration")

// RequestError names the package and the sources that were searched when
// a request fails
type RequestError struct {
	ID          string
	VersionSpec string
	Sources     []string
	Err         error
}

func (e *RequestError) Error() string {
	spec := ""
	if e.VersionSpec != "" {
		spec = " " + e.VersionSpec
	}
	return fmt.Sprintf("installing %s%s from [%s]: %v", e.ID, spec, strings.Join(e.Sources, ", "), e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
