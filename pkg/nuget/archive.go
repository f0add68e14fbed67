// pkg/nuget/archive.go
package nuget

import (
	"archive/zip"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// isPackagingArtifact reports whether a zip entry is OPC bookkeeping
// rather than package content
func isPackagingArtifact(name string) bool {
	lower := strings.ToLower(name)
	return lower == "[content_types].xml" ||
		strings.HasPrefix(lower, "_rels/") ||
		strings.HasPrefix(lower, "package/services/metadata/")
}

// entryName decodes the percent-encoded name of a zip entry
func entryName(f *zip.File) string {
	name := strings.ReplaceAll(f.Name, "\\", "/")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// Extract unpacks a .nupkg (a ZIP archive) into extractPath
func Extract(nupkgPath, extractPath string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Debugf("Extracting package: %s -> %s", nupkgPath, extractPath)

	if err := os.MkdirAll(extractPath, 0755); err != nil {
		return fmt.Errorf("creating extract directory: %w", err)
	}

	reader, err := zip.OpenReader(nupkgPath)
	if err != nil {
		return fmt.Errorf("opening nupkg: %w", err)
	}
	defer reader.Close()

	root := filepath.Clean(extractPath) + string(os.PathSeparator)

	for _, file := range reader.File {
		name := entryName(file)
		if isPackagingArtifact(name) {
			continue
		}

		path := filepath.Join(extractPath, filepath.FromSlash(name))

		// Check for ZipSlip vulnerability
		if !strings.HasPrefix(path, root) {
			return fmt.Errorf("invalid file path: %s", file.Name)
		}

		if file.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0755); err != nil {
				return fmt.Errorf("creating directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}

		logger.Debugf("  Extracting: %s", name)
		if err := extractFile(file, path); err != nil {
			return fmt.Errorf("extracting file %s: %w", name, err)
		}
	}

	return nil
}

// extractFile extracts a single file from the ZIP
func extractFile(file *zip.File, destPath string) error {
	srcFile, err := file.Open()
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, srcFile)
	return err
}

// ReadManifest reads the root level .nuspec from a .nupkg
func ReadManifest(nupkgPath string) (*Manifest, error) {
	reader, err := zip.OpenReader(nupkgPath)
	if err != nil {
		return nil, fmt.Errorf("opening nupkg: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		name := entryName(file)
		if strings.Contains(name, "/") || !strings.EqualFold(filepath.Ext(name), ManifestExtension) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		m, err := ParseManifest(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(nupkgPath), err)
		}
		return m, nil
	}

	return nil, fmt.Errorf("%s has no %s manifest", filepath.Base(nupkgPath), ManifestExtension)
}
