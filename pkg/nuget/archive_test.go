package nuget

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	archive := writeNupkg(t, dir, "Plugin", "1.0.0", map[string]string{
		"content/readme%20first.txt": "hello",
		"lib/net45/Plugin.dll":       "binary",
	})

	dest := filepath.Join(dir, "out")
	if err := Extract(archive, dest, nil); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "content", "readme first.txt"))
	if err != nil {
		t.Fatalf("decoded content file missing: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}

	for _, name := range []string{"Plugin.nuspec", filepath.Join("lib", "net45", "Plugin.dll")} {
		if _, err := os.Stat(filepath.Join(dest, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
	for _, name := range []string{"[Content_Types].xml", "_rels", "package"} {
		if _, err := os.Stat(filepath.Join(dest, name)); !os.IsNotExist(err) {
			t.Errorf("%s extracted, want skipped", name)
		}
	}
}

func TestExtractRejectsZipSlip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.nupkg")

	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("../escape.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("x"))
	zw.Close()
	f.Close()

	err = Extract(archive, filepath.Join(dir, "out"), nil)
	if err == nil || !strings.Contains(err.Error(), "invalid file path") {
		t.Fatalf("Extract() error = %v, want invalid file path", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("file written outside the destination")
	}
}

func TestReadManifest(t *testing.T) {
	archive := writeNupkg(t, t.TempDir(), "Plugin", "2.1.0-beta", nil)

	m, err := ReadManifest(archive)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Metadata.ID != "Plugin" || m.Metadata.Version != "2.1.0-beta" {
		t.Errorf("manifest = %s %s", m.Metadata.ID, m.Metadata.Version)
	}
	if meta := m.ToMetadata(); !meta.Prerelease {
		t.Error("ToMetadata().Prerelease = false, want true")
	}
}
