// pkg/framework/parse.go
package framework

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// shortNames maps folder name prefixes to identifiers. Longer prefixes first.
var shortNames = []struct {
	prefix     string
	identifier string
}{
	{"netstandard", NETStandard},
	{"netcoreapp", NETCoreApp},
	{"net", NETFramework},
}

// Parse parses a short folder name (net45, netstandard2.0, net40-client,
// net6.0) or a long name (.NETFramework4.5,
// .NETFramework,Version=v4.5,Profile=Client).
func Parse(name string) (Framework, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Framework{}, fmt.Errorf("empty framework name")
	}

	if strings.HasPrefix(name, ".") {
		return parseLong(name)
	}
	return parseShort(name)
}

// MustParse is like Parse but panics on error
func MustParse(name string) Framework {
	f, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseFolder parses a lib/ sub folder name. Names that are not frameworks
// yield the Unsupported framework, which is never compatible with anything.
func ParseFolder(name string) Framework {
	f, err := Parse(name)
	if err != nil {
		return Framework{Identifier: Unsupported, Version: zeroVersion}
	}
	return f
}

func parseShort(name string) (Framework, error) {
	lower := strings.ToLower(name)

	if strings.HasPrefix(lower, "portable-") {
		return Framework{
			Identifier: NETPortable,
			Version:    zeroVersion,
			Profile:    name[len("portable-"):],
		}, nil
	}

	base, profile := lower, ""
	if idx := strings.Index(lower, "-"); idx >= 0 {
		base, profile = lower[:idx], name[idx+1:]
	}

	for _, sn := range shortNames {
		if !strings.HasPrefix(base, sn.prefix) {
			continue
		}

		v, err := parseVersion(expandVersion(base[len(sn.prefix):]))
		if err != nil {
			return Framework{}, fmt.Errorf("invalid framework %q: %w", name, err)
		}

		identifier := sn.identifier
		// net5.0 and later are .NETCoreApp
		if identifier == NETFramework && v.Major() >= 5 {
			identifier = NETCoreApp
		}

		return Framework{
			Identifier: identifier,
			Version:    v,
			Profile:    normalizeProfile(profile),
		}, nil
	}

	return Framework{}, fmt.Errorf("unknown framework %q", name)
}

func parseLong(name string) (Framework, error) {
	// .NETFramework,Version=v4.5,Profile=Client
	if strings.Contains(name, ",") {
		parts := strings.Split(name, ",")
		f := Framework{Identifier: strings.TrimSpace(parts[0]), Version: zeroVersion}
		for _, part := range parts[1:] {
			kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
			if len(kv) != 2 {
				return Framework{}, fmt.Errorf("invalid framework %q", name)
			}
			switch strings.ToLower(kv[0]) {
			case "version":
				v, err := parseVersion(strings.TrimPrefix(strings.TrimPrefix(kv[1], "v"), "V"))
				if err != nil {
					return Framework{}, fmt.Errorf("invalid framework %q: %w", name, err)
				}
				f.Version = v
			case "profile":
				f.Profile = normalizeProfile(kv[1])
			}
		}
		return f, nil
	}

	// .NETFramework4.5
	idx := strings.IndexAny(name, "0123456789")
	if idx < 0 {
		return Framework{Identifier: name, Version: zeroVersion}, nil
	}
	v, err := parseVersion(name[idx:])
	if err != nil {
		return Framework{}, fmt.Errorf("invalid framework %q: %w", name, err)
	}
	return Framework{Identifier: name[:idx], Version: v}, nil
}

// expandVersion turns the compact "45" into "4.5"; dotted input is kept.
func expandVersion(s string) string {
	if s == "" || strings.Contains(s, ".") {
		return s
	}
	return strings.Join(strings.Split(s, ""), ".")
}

func parseVersion(s string) (*semver.Version, error) {
	if s == "" {
		return zeroVersion, nil
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return nil, fmt.Errorf("invalid version %q", s)
		}
	}
	if strings.Count(s, ".") > 2 {
		return nil, fmt.Errorf("invalid version %q", s)
	}
	return semver.NewVersion(s)
}

func normalizeProfile(p string) string {
	switch strings.ToLower(p) {
	case "", "full":
		return ""
	case "client":
		return "Client"
	}
	return p
}
