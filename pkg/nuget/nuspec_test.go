package nuget

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseManifest(t *testing.T) {
	doc := `<?xml version="1.0"?>
<package>
  <metadata>
    <id> Plugin.Core </id>
    <version>1.0.0.0</version>
    <title>Plugin Core</title>
    <authors>someone</authors>
    <dependencies>
      <dependency id="Shared" version="1.0" />
      <group targetFramework="net45">
        <dependency id="Shared" version="1.0" />
        <dependency id="Extra" version="[2.0]" />
      </group>
    </dependencies>
  </metadata>
</package>`

	m, err := ParseManifest(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if m.Metadata.ID != "Plugin.Core" {
		t.Errorf("ID = %q, want Plugin.Core", m.Metadata.ID)
	}
	if got, want := m.DependencyIDs(), []string{"Shared", "Extra"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DependencyIDs() = %v, want %v", got, want)
	}

	meta := m.ToMetadata()
	if meta.Title != "Plugin Core" || meta.Prerelease {
		t.Errorf("ToMetadata() = %+v", meta)
	}
}

func TestParseManifestRequiresIDAndVersion(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", `<package><metadata><version>1.0</version></metadata></package>`},
		{"missing version", `<package><metadata><id>x</id></metadata></package>`},
		{"not xml", `{"id": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest(strings.NewReader(tt.doc)); err == nil {
				t.Error("ParseManifest() error = nil")
			}
		})
	}
}
