// pkg/repository/version.go
package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a NuGet package version: a semantic version plus the optional
// fourth revision component, which orders before the prerelease label.
type Version struct {
	*semver.Version
	Revision uint64
}

// ParseVersion parses a NuGet package version. Four part versions are
// accepted and a zero revision is dropped.
func ParseVersion(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	core, suffix := s, ""
	if idx := strings.IndexAny(s, "-+"); idx >= 0 {
		core, suffix = s[:idx], s[idx:]
	}

	var rev uint64
	parts := strings.Split(core, ".")
	if len(parts) == 4 {
		n, err := strconv.ParseUint(parts[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: bad revision %q", s, parts[3])
		}
		rev = n
		core = strings.Join(parts[:3], ".")
	}

	v, err := semver.NewVersion(core + suffix)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return &Version{Version: v, Revision: rev}, nil
}

// Compare returns -1, 0 or 1. Major, minor, patch and revision are compared
// numerically before prerelease labels; build metadata is ignored.
func (v *Version) Compare(o *Version) int {
	for _, p := range [][2]uint64{
		{v.Major(), o.Major()},
		{v.Minor(), o.Minor()},
		{v.Patch(), o.Patch()},
		{v.Revision, o.Revision},
	} {
		switch {
		case p[0] < p[1]:
			return -1
		case p[0] > p[1]:
			return 1
		}
	}
	return v.Version.Compare(o.Version)
}

func (v *Version) Equal(o *Version) bool       { return v.Compare(o) == 0 }
func (v *Version) LessThan(o *Version) bool    { return v.Compare(o) < 0 }
func (v *Version) GreaterThan(o *Version) bool { return v.Compare(o) > 0 }

// String renders the version, four parts when the revision is set
func (v *Version) String() string {
	if v.Revision == 0 {
		return v.Version.String()
	}
	s := fmt.Sprintf("%d.%d.%d.%d", v.Major(), v.Minor(), v.Patch(), v.Revision)
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		s += "+" + meta
	}
	return s
}

// VersionRange is a parsed NuGet version spec. A zero value accepts any version.
type VersionRange struct {
	Min          *Version
	Max          *Version
	MinInclusive bool
	MaxInclusive bool

	spec string
}

// ParseVersionSpec parses NuGet interval notation:
//
//	1.0        >= 1.0
//	[1.0]      == 1.0
//	(,1.0]     <= 1.0
//	(1.0,)     >  1.0
//	[1.0,2.0)  >= 1.0 and < 2.0
func ParseVersionSpec(spec string) (VersionRange, error) {
	s := strings.TrimSpace(spec)
	r := VersionRange{spec: s}
	if s == "" {
		return r, nil
	}

	if s[0] != '[' && s[0] != '(' {
		v, err := ParseVersion(s)
		if err != nil {
			return r, fmt.Errorf("%w %q: %v", ErrInvalidVersionSpec, spec, err)
		}
		r.Min, r.MinInclusive = v, true
		return r, nil
	}

	last := s[len(s)-1]
	if len(s) < 3 || (last != ']' && last != ')') {
		return r, fmt.Errorf("%w %q", ErrInvalidVersionSpec, spec)
	}
	r.MinInclusive = s[0] == '['
	r.MaxInclusive = last == ']'
	inner := s[1 : len(s)-1]

	if !strings.Contains(inner, ",") {
		// only [x] is a valid single version interval
		if !r.MinInclusive || !r.MaxInclusive {
			return r, fmt.Errorf("%w %q", ErrInvalidVersionSpec, spec)
		}
		v, err := ParseVersion(inner)
		if err != nil {
			return r, fmt.Errorf("%w %q: %v", ErrInvalidVersionSpec, spec, err)
		}
		r.Min, r.Max = v, v
		return r, nil
	}

	bounds := strings.SplitN(inner, ",", 2)
	lo, hi := strings.TrimSpace(bounds[0]), strings.TrimSpace(bounds[1])
	if lo == "" && hi == "" {
		return r, fmt.Errorf("%w %q", ErrInvalidVersionSpec, spec)
	}

	if lo != "" {
		v, err := ParseVersion(lo)
		if err != nil {
			return r, fmt.Errorf("%w %q: %v", ErrInvalidVersionSpec, spec, err)
		}
		r.Min = v
	}
	if hi != "" {
		v, err := ParseVersion(hi)
		if err != nil {
			return r, fmt.Errorf("%w %q: %v", ErrInvalidVersionSpec, spec, err)
		}
		r.Max = v
	}

	if r.Min != nil && r.Max != nil && r.Max.LessThan(r.Min) {
		return r, fmt.Errorf("%w %q: upper bound below lower bound", ErrInvalidVersionSpec, spec)
	}

	return r, nil
}

// Satisfies reports whether v lies within the range
func (r VersionRange) Satisfies(v *Version) bool {
	if v == nil {
		return false
	}
	if r.Min != nil {
		c := v.Compare(r.Min)
		if c < 0 || (c == 0 && !r.MinInclusive) {
			return false
		}
	}
	if r.Max != nil {
		c := v.Compare(r.Max)
		if c > 0 || (c == 0 && !r.MaxInclusive) {
			return false
		}
	}
	return true
}

// IsExact reports whether the range pins a single version
func (r VersionRange) IsExact() bool {
	return r.Min != nil && r.Max != nil && r.MinInclusive && r.MaxInclusive && r.Min.Equal(r.Max)
}

func (r VersionRange) String() string {
	return r.spec
}

// SelectBest returns the highest candidate matching q, or nil if none do.
// Candidates whose version cannot be parsed are ignored.
func SelectBest(q Query, candidates []*Metadata) (*Metadata, error) {
	r, err := ParseVersionSpec(q.VersionSpec)
	if err != nil {
		return nil, err
	}

	var best *Metadata
	var bestVersion *Version

	for _, m := range candidates {
		if !strings.EqualFold(m.ID, q.ID) {
			continue
		}
		if m.Unlisted && !q.AllowUnlisted {
			continue
		}

		v, err := ParseVersion(m.Version)
		if err != nil {
			continue
		}
		if (m.Prerelease || v.Prerelease() != "") && !q.AllowPrerelease {
			continue
		}
		if !r.Satisfies(v) {
			continue
		}

		if best == nil || v.GreaterThan(bestVersion) {
			best, bestVersion = m, v
		}
	}

	return best, nil
}
