// pkg/nuget/nuspec.go
package nuget

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/arc-language/extpkg/pkg/repository"
)

// Manifest is a parsed .nuspec file
type Manifest struct {
	XMLName  xml.Name         `xml:"package"`
	Metadata ManifestMetadata `xml:"metadata"`
}

// ManifestMetadata is the <metadata> element of a .nuspec
type ManifestMetadata struct {
	ID           string               `xml:"id"`
	Version      string               `xml:"version"`
	Title        string               `xml:"title"`
	Authors      string               `xml:"authors"`
	Description  string               `xml:"description"`
	ProjectURL   string               `xml:"projectUrl"`
	Tags         string               `xml:"tags"`
	Dependencies ManifestDependencies `xml:"dependencies"`
}

// ManifestDependencies holds flat and framework grouped dependencies
type ManifestDependencies struct {
	Dependencies []ManifestDependency      `xml:"dependency"`
	Groups       []ManifestDependencyGroup `xml:"group"`
}

// ManifestDependency is a single <dependency>
type ManifestDependency struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

// ManifestDependencyGroup is a <group targetFramework="..."> of dependencies
type ManifestDependencyGroup struct {
	TargetFramework string               `xml:"targetFramework,attr"`
	Dependencies    []ManifestDependency `xml:"dependency"`
}

// ParseManifest parses a .nuspec document. id and version are required.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding nuspec: %w", err)
	}

	m.Metadata.ID = strings.TrimSpace(m.Metadata.ID)
	m.Metadata.Version = strings.TrimSpace(m.Metadata.Version)
	if m.Metadata.ID == "" {
		return nil, fmt.Errorf("nuspec is missing <id>")
	}
	if m.Metadata.Version == "" {
		return nil, fmt.Errorf("nuspec for %s is missing <version>", m.Metadata.ID)
	}

	return &m, nil
}

// DependencyIDs returns every dependency id across groups, first occurrence order
func (m *Manifest) DependencyIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(deps []ManifestDependency) {
		for _, d := range deps {
			if d.ID != "" && !seen[strings.ToLower(d.ID)] {
				seen[strings.ToLower(d.ID)] = true
				ids = append(ids, d.ID)
			}
		}
	}

	add(m.Metadata.Dependencies.Dependencies)
	for _, g := range m.Metadata.Dependencies.Groups {
		add(g.Dependencies)
	}
	return ids
}

// ToMetadata converts the manifest into repository metadata
func (m *Manifest) ToMetadata() *repository.Metadata {
	md := m.Metadata
	meta := &repository.Metadata{
		ID:           md.ID,
		Version:      md.Version,
		Title:        md.Title,
		Description:  strings.TrimSpace(md.Description),
		Authors:      md.Authors,
		ProjectURL:   md.ProjectURL,
		Dependencies: m.DependencyIDs(),
	}
	if v, err := repository.ParseVersion(md.Version); err == nil {
		meta.Prerelease = v.Prerelease() != ""
	}
	return meta
}
