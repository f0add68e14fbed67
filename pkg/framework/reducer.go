// pkg/framework/reducer.go
package framework

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// standardSupport lists, per target identifier, the highest .NETStandard
// version a target at or above `from` can consume. Highest `from` first.
var standardSupport = map[string][]struct {
	from     *semver.Version
	standard *semver.Version
}{
	strings.ToLower(NETFramework): {
		{semver.MustParse("4.6.1"), semver.MustParse("2.0")},
		{semver.MustParse("4.6"), semver.MustParse("1.3")},
		{semver.MustParse("4.5.1"), semver.MustParse("1.2")},
		{semver.MustParse("4.5"), semver.MustParse("1.1")},
	},
	strings.ToLower(NETCoreApp): {
		{semver.MustParse("3.0"), semver.MustParse("2.1")},
		{semver.MustParse("2.0"), semver.MustParse("2.0")},
		{semver.MustParse("1.0"), semver.MustParse("1.6")},
	},
}

// Compatible reports whether assets built for candidate can be loaded by target.
func Compatible(target, candidate Framework) bool {
	if target.IsUnsupported() || candidate.IsUnsupported() {
		return false
	}

	if strings.EqualFold(target.Identifier, candidate.Identifier) {
		if versionOf(candidate).GreaterThan(versionOf(target)) {
			return false
		}
		return profileCompatible(target.Profile, candidate.Profile)
	}

	if strings.EqualFold(candidate.Identifier, NETStandard) {
		highest, ok := maxStandard(target)
		return ok && !versionOf(candidate).GreaterThan(highest)
	}

	return false
}

func profileCompatible(target, candidate string) bool {
	if candidate == "" || strings.EqualFold(target, candidate) {
		return true
	}
	// full framework targets can load client profile assets
	return target == "" && strings.EqualFold(candidate, "Client")
}

func maxStandard(target Framework) (*semver.Version, bool) {
	v := versionOf(target)
	for _, s := range standardSupport[strings.ToLower(target.Identifier)] {
		if !v.LessThan(s.from) {
			return s.standard, true
		}
	}
	return nil, false
}

// Nearest returns the candidate that best matches target, or false when no
// candidate is compatible. Preference: the target's own identifier over
// .NETStandard, then the higher version, then an exact profile match.
func Nearest(target Framework, candidates []Framework) (Framework, bool) {
	var best Framework
	found := false

	for _, c := range candidates {
		if !Compatible(target, c) {
			continue
		}
		if !found || better(target, c, best) {
			best = c
			found = true
		}
	}

	return best, found
}

// better reports whether a is strictly preferable to b for target
func better(target, a, b Framework) bool {
	ra, rb := identifierRank(target, a), identifierRank(target, b)
	if ra != rb {
		return ra > rb
	}

	va, vb := versionOf(a), versionOf(b)
	if !va.Equal(vb) {
		return va.GreaterThan(vb)
	}

	pa := strings.EqualFold(a.Profile, target.Profile)
	pb := strings.EqualFold(b.Profile, target.Profile)
	return pa && !pb
}

func identifierRank(target, f Framework) int {
	if strings.EqualFold(target.Identifier, f.Identifier) {
		return 2
	}
	return 1
}
