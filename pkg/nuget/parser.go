// pkg/nuget/parser.go
package nuget

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arc-language/extpkg/pkg/repository"
)

// AtomFeed represents the NuGet V2 API response
type AtomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []AtomEntry `xml:"entry"`
	Links   []AtomLink  `xml:"link"`
}

// AtomLink is a feed level link; rel="next" points at the next page
type AtomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// AtomEntry represents a package entry in the feed
type AtomEntry struct {
	ID      string       `xml:"id"`
	Title   string       `xml:"title"`
	Summary string       `xml:"summary"`
	Author  AtomAuthor   `xml:"author"`
	Content AtomContent  `xml:"content"`
	Props   PackageProps `xml:"properties"`
}

// AtomAuthor represents the author element
type AtomAuthor struct {
	Name string `xml:"name"`
}

// AtomContent carries the package download URL
type AtomContent struct {
	Type string `xml:"type,attr"`
	Src  string `xml:"src,attr"`
}

// PackageProps represents the metadata properties
type PackageProps struct {
	ID           string `xml:"Id"`
	Version      string `xml:"Version"`
	Title        string `xml:"Title"`
	Description  string `xml:"Description"`
	Authors      string `xml:"Authors"`
	ProjectURL   string `xml:"ProjectUrl"`
	Dependencies string `xml:"Dependencies"`
	PackageSize  string `xml:"PackageSize"`
	Published    string `xml:"Published"`
	IsPrerelease string `xml:"IsPrerelease"`
	Listed       string `xml:"Listed"`
}

// ParseFeed parses a NuGet V2 Atom feed. It returns the entries and the
// href of the next page, empty on the last page.
func ParseFeed(r io.Reader) ([]*repository.Metadata, string, error) {
	var feed AtomFeed
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&feed); err != nil {
		return nil, "", fmt.Errorf("decoding feed: %w", err)
	}

	var packages []*repository.Metadata
	for _, entry := range feed.Entries {
		id := entry.Props.ID
		if id == "" {
			// nuget.org puts the id in the entry title
			id = strings.TrimSpace(entry.Title)
		}

		pkg := &repository.Metadata{
			ID:          id,
			Version:     entry.Props.Version,
			Title:       entry.Props.Title,
			Description: strings.TrimSpace(entry.Props.Description),
			Authors:     entry.Props.Authors,
			ProjectURL:  entry.Props.ProjectURL,
			DownloadURL: entry.Content.Src,
			Unlisted:    isUnlisted(entry.Props),
		}
		if pkg.Authors == "" {
			pkg.Authors = entry.Author.Name
		}

		if b, err := strconv.ParseBool(entry.Props.IsPrerelease); err == nil {
			pkg.Prerelease = b
		}

		if entry.Props.Dependencies != "" {
			pkg.Dependencies = parseDependencies(entry.Props.Dependencies)
		}

		if entry.Props.PackageSize != "" {
			if size, err := strconv.ParseInt(entry.Props.PackageSize, 10, 64); err == nil {
				pkg.Size = size
			}
		}

		packages = append(packages, pkg)
	}

	var next string
	for _, link := range feed.Links {
		if link.Rel == "next" {
			next = link.Href
		}
	}

	return packages, next, nil
}

// isUnlisted reports whether the feed marks the entry as hidden. v2 feeds
// signal this with Listed=false or a 1900-01-01 publish date.
func isUnlisted(p PackageProps) bool {
	if listed, err := strconv.ParseBool(p.Listed); err == nil && !listed {
		return true
	}
	return strings.HasPrefix(p.Published, "1900-")
}

// parseDependencies parses the dependency string
func parseDependencies(deps string) []string {
	if deps == "" {
		return nil
	}

	var result []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(deps, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// Format: "id:version:targetFramework", we just want the ID
		id := part
		if idx := strings.Index(part, ":"); idx >= 0 {
			id = part[:idx]
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
