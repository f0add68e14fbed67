// pkg/core/package.go
package core

// Package is one entry of the packages list in the config file
type Package struct {
	ID         string   `yaml:"id"`
	Version    string   `yaml:"version,omitempty"`    // NuGet version spec, empty for latest
	Sources    []string `yaml:"sources,omitempty"`    // searched before the global sources
	Prerelease bool     `yaml:"prerelease,omitempty"` // allow prerelease versions
	Unlisted   bool     `yaml:"unlisted,omitempty"`   // allow unlisted versions
	Exclusive  bool     `yaml:"exclusive,omitempty"`  // search only Sources
}
