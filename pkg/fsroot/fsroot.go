// Package fsroot models the host's file system root: the root path every
// relative path is resolved against, and the ordered list of input paths
// content is looked up in.
package fsroot

import (
	"path/filepath"
)

// DefaultInputPath is the input folder a new file system starts with
const DefaultInputPath = "input"

// FileSystem is a root path plus the host's input search paths
type FileSystem struct {
	RootPath   string
	InputPaths *PathList
}

// New returns a file system rooted at root (made absolute) with the
// default input path
func New(root string) (*FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &FileSystem{
		RootPath:   abs,
		InputPaths: NewPathList(DefaultInputPath),
	}, nil
}

// Combine joins elem onto the root. An absolute first element replaces the root.
func (fs *FileSystem) Combine(elem ...string) string {
	if len(elem) > 0 && filepath.IsAbs(elem[0]) {
		return filepath.Join(elem...)
	}
	return filepath.Join(append([]string{fs.RootPath}, elem...)...)
}

// Collapse removes "." and ".." segments
func Collapse(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// PathList is an ordered list of search paths; index 0 is searched first
type PathList struct {
	paths []string
}

// NewPathList returns a list holding paths in order
func NewPathList(paths ...string) *PathList {
	l := &PathList{}
	l.paths = append(l.paths, paths...)
	return l
}

// Prepend puts path at the front. A path already in the list is moved
// rather than duplicated.
func (l *PathList) Prepend(path string) {
	out := make([]string, 0, len(l.paths)+1)
	out = append(out, path)
	for _, p := range l.paths {
		if p != path {
			out = append(out, p)
		}
	}
	l.paths = out
}

// Paths returns a copy of the list
func (l *PathList) Paths() []string {
	out := make([]string, len(l.paths))
	copy(out, l.paths)
	return out
}

// Len returns the number of paths
func (l *PathList) Len() int {
	return len(l.paths)
}
