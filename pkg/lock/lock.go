// pkg/lock/lock.go
package lock

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the install record kept in every packages directory
const FileName = "extpkg.lock.toml"

// Entry records one installed package
type Entry struct {
	ID           string   `toml:"id"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Path         string   `toml:"path"`
	ContentPaths []string `toml:"content_paths,omitempty"`
}

// File is the parsed install record
type File struct {
	Packages []Entry `toml:"package"`
}

// Load reads the record at path. A missing file is an empty record.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("lock: reading %s: %w", path, err)
	}

	var f File
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("lock: failed to parse '%s': %w", path, err)
	}
	return &f, nil
}

// Get returns the entry for id, matched case-insensitively
func (f *File) Get(id string) (Entry, bool) {
	for _, e := range f.Packages {
		if strings.EqualFold(e.ID, id) {
			return e, true
		}
	}
	return Entry{}, false
}

// Put adds e, replacing any entry with the same id
func (f *File) Put(e Entry) {
	for i := range f.Packages {
		if strings.EqualFold(f.Packages[i].ID, e.ID) {
			f.Packages[i] = e
			return
		}
	}
	f.Packages = append(f.Packages, e)
}

// Save writes the record to path, entries sorted by id
func (f *File) Save(path string) error {
	sort.SliceStable(f.Packages, func(i, j int) bool {
		return strings.ToLower(f.Packages[i].ID) < strings.ToLower(f.Packages[j].ID)
	})

	var buf bytes.Buffer
	buf.WriteString("# Generated by extpkg. Do not edit.\n\n")
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("lock: encoding: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("lock: creating directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("lock: writing %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
