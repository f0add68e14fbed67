// pkg/framework/framework.go
package framework

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Well-known framework identifiers
const (
	NETFramework = ".NETFramework"
	NETStandard  = ".NETStandard"
	NETCoreApp   = ".NETCoreApp"
	NETPortable  = ".NETPortable"
	Unsupported  = "Unsupported"
)

// Framework identifies a target execution framework. Values are immutable;
// the zero value is not a valid framework.
type Framework struct {
	Identifier string          // e.g. ".NETFramework"
	Version    *semver.Version // e.g. 4.5.0
	Profile    string          // e.g. "Client", empty for none
}

// New returns a framework from its parts. An empty version means 0.0.
func New(identifier, version, profile string) (Framework, error) {
	v, err := parseVersion(version)
	if err != nil {
		return Framework{}, fmt.Errorf("framework %s: %w", identifier, err)
	}
	return Framework{Identifier: identifier, Version: v, Profile: profile}, nil
}

// Default is the framework the host runtime targets unless configured otherwise.
var Default = MustParse("net46")

// IsUnsupported reports whether f came from a folder name that could not be parsed.
func (f Framework) IsUnsupported() bool {
	return strings.EqualFold(f.Identifier, Unsupported)
}

// Equal reports exact equality of identifier, version and profile.
// Identifiers and profiles are compared case-insensitively.
func (f Framework) Equal(other Framework) bool {
	if !strings.EqualFold(f.Identifier, other.Identifier) {
		return false
	}
	if !strings.EqualFold(f.Profile, other.Profile) {
		return false
	}
	return versionOf(f).Equal(versionOf(other))
}

// Equal reports whether a and b are both nil or both non-nil and equal.
func Equal(a, b *Framework) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// String returns the short folder name (net45, netstandard2.0, net40-client)
func (f Framework) String() string {
	if f.IsUnsupported() {
		return "unsupported"
	}

	v := versionOf(f)
	var short string
	switch {
	case strings.EqualFold(f.Identifier, NETFramework):
		short = "net" + compactVersion(v)
	case strings.EqualFold(f.Identifier, NETStandard):
		short = fmt.Sprintf("netstandard%d.%d", v.Major(), v.Minor())
	case strings.EqualFold(f.Identifier, NETCoreApp):
		if v.Major() >= 5 {
			short = fmt.Sprintf("net%d.%d", v.Major(), v.Minor())
		} else {
			short = fmt.Sprintf("netcoreapp%d.%d", v.Major(), v.Minor())
		}
	case strings.EqualFold(f.Identifier, NETPortable):
		return "portable-" + f.Profile
	default:
		return fmt.Sprintf("%s,Version=v%d.%d", f.Identifier, v.Major(), v.Minor())
	}

	if f.Profile != "" {
		short += "-" + strings.ToLower(f.Profile)
	}
	return short
}

// compactVersion renders 4.5.0 as "45" and 4.6.1 as "461"
func compactVersion(v *semver.Version) string {
	s := fmt.Sprintf("%d%d", v.Major(), v.Minor())
	if v.Patch() > 0 {
		s += fmt.Sprintf("%d", v.Patch())
	}
	return s
}

var zeroVersion = semver.MustParse("0.0.0")

func versionOf(f Framework) *semver.Version {
	if f.Version == nil {
		return zeroVersion
	}
	return f.Version
}
