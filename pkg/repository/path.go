// pkg/repository/path.go
package repository

import "path/filepath"

// PathResolver maps packages to folders under an install root using the
// <id>.<version> naming convention
type PathResolver struct {
	Root string
}

// DirName returns the folder name for a package version
func DirName(id, version string) string {
	return id + "." + version
}

// InstallPath returns the absolute folder of a package version
func (p PathResolver) InstallPath(id, version string) string {
	return filepath.Join(p.Root, DirName(id, version))
}
