package nuget

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func nuspec(id, version string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>%s</id>
    <version>%s</version>
    <authors>extpkg</authors>
    <description>test package</description>
  </metadata>
</package>`, id, version)
}

// buildNupkg returns a package archive holding a manifest plus files
func buildNupkg(t *testing.T, id, version string, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := map[string]string{
		id + ManifestExtension: nuspec(id, version),
		"[Content_Types].xml":  "<Types/>",
		"_rels/.rels":          "<Relationships/>",
	}
	entries["package/services/metadata/core-properties/x.psmdcp"] = "<coreProperties/>"
	for name, body := range files {
		entries[name] = body
	}

	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// writeNupkg writes a package archive named <id>.<version>.nupkg into dir
func writeNupkg(t *testing.T, dir, id, version string, files map[string]string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, id+"."+version+PackageExtension)
	if err := os.WriteFile(path, buildNupkg(t, id, version, files), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
