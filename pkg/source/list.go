// pkg/source/list.go
package source

// DefaultSource is the public NuGet v2 feed every list starts with
const DefaultSource = "https://packages.nuget.org/api/v2"

// List is an ordered set of package source locations. Index 0 is queried
// first. Duplicates are allowed and simply get queried twice.
type List struct {
	sources []string
}

// NewList returns a list seeded with DefaultSource
func NewList() *List {
	return &List{sources: []string{DefaultSource}}
}

// NewEmptyList returns a list with no sources
func NewEmptyList() *List {
	return &List{}
}

// Add inserts location at the front so it outranks every existing source
func (l *List) Add(location string) {
	l.sources = append([]string{location}, l.sources...)
}

// Sources returns a copy of the list in priority order
func (l *List) Sources() []string {
	out := make([]string, len(l.sources))
	copy(out, l.sources)
	return out
}

// Len returns the number of sources
func (l *List) Len() int {
	return len(l.sources)
}
