package assembly

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/arc-language/extpkg/pkg/framework"
	"github.com/arc-language/extpkg/pkg/repository"
)

type staticLister struct {
	packages []*repository.Installed
	err      error
}

func (l staticLister) List(ctx context.Context) ([]*repository.Installed, error) {
	return l.packages, l.err
}

func fw(name string) *framework.Framework {
	f := framework.ParseFolder(name)
	return &f
}

func TestResolveNearestAndAgnostic(t *testing.T) {
	root := "/srv/packages"
	p := &repository.Installed{
		ID:      "Plugin",
		Version: "1.2.0",
		LibFiles: []repository.LibFile{
			{Path: "lib/B.dll"},
			{Path: "lib/net45/A.dll", Framework: fw("net45")},
			{Path: "lib/net45/A.xml", Framework: fw("net45")},
			{Path: "lib/netstandard2.0/A.dll", Framework: fw("netstandard2.0")},
		},
	}

	r := New(staticLister{packages: []*repository.Installed{p}}, root, framework.MustParse("net46"))
	sets, err := r.ResolveSets(context.Background())
	if err != nil {
		t.Fatalf("ResolveSets() error = %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("len(sets) = %d, want 1", len(sets))
	}

	dir := filepath.Join(root, "Plugin.1.2.0")
	want := []string{
		filepath.Join(dir, "lib", "B.dll"),
		filepath.Join(dir, "lib", "net45", "A.dll"),
	}
	if !reflect.DeepEqual(sets[0].Assemblies, want) {
		t.Errorf("Assemblies = %v, want %v", sets[0].Assemblies, want)
	}
	if sets[0].Nearest == nil || sets[0].Nearest.String() != "net45" {
		t.Errorf("Nearest = %v, want net45", sets[0].Nearest)
	}
	if sets[0].Reason != ReasonNone {
		t.Errorf("Reason = %q, want none", sets[0].Reason)
	}
}

func TestResolvePrefersStandardWhenSupported(t *testing.T) {
	p := &repository.Installed{
		ID:      "Plugin",
		Version: "1.0.0",
		LibFiles: []repository.LibFile{
			{Path: "lib/netstandard1.0/A.dll", Framework: fw("netstandard1.0")},
			{Path: "lib/netstandard2.0/A.dll", Framework: fw("netstandard2.0")},
		},
	}

	r := New(staticLister{packages: []*repository.Installed{p}}, "/p", framework.MustParse("net461"))
	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{filepath.Join("/p", "Plugin.1.0.0", "lib", "netstandard2.0", "A.dll")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveEmptyReasons(t *testing.T) {
	tests := []struct {
		name   string
		files  []repository.LibFile
		reason Reason
		logged string
	}{
		{
			name:   "content only",
			reason: ReasonNoLibraries,
			logged: "content-only package",
		},
		{
			name:   "incompatible",
			files:  []repository.LibFile{{Path: "lib/netstandard2.0/A.dll", Framework: fw("netstandard2.0")}},
			reason: ReasonIncompatible,
			logged: "netstandard2.0",
		},
		{
			name:   "unsupported folder",
			files:  []repository.LibFile{{Path: "lib/sl5/A.dll", Framework: fw("sl5")}},
			reason: ReasonIncompatible,
			logged: "no compatible framework",
		},
		{
			name:   "no binaries",
			files:  []repository.LibFile{{Path: "lib/net45/readme.txt", Framework: fw("net45")}},
			reason: ReasonNoBinaries,
			logged: "net45",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(&buf)

			p := &repository.Installed{ID: "Pkg", Version: "1.0.0", LibFiles: tt.files}
			r := New(staticLister{packages: []*repository.Installed{p}}, "/p", framework.MustParse("net46"), WithLogger(logger))

			sets, err := r.ResolveSets(context.Background())
			if err != nil {
				t.Fatalf("ResolveSets() error = %v", err)
			}
			if len(sets[0].Assemblies) != 0 {
				t.Errorf("Assemblies = %v, want none", sets[0].Assemblies)
			}
			if sets[0].Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", sets[0].Reason, tt.reason)
			}
			out := buf.String()
			if !strings.Contains(out, tt.logged) || !strings.Contains(out, "Pkg") {
				t.Errorf("log = %q, want it to mention Pkg and %q", out, tt.logged)
			}
			if !strings.Contains(out, "INFO") {
				t.Errorf("log = %q, want an INFO entry", out)
			}
			for _, level := range []string{"WARN", "ERRO"} {
				if strings.Contains(out, level) {
					t.Errorf("log = %q, want no %s entry", out, level)
				}
			}
		})
	}
}

func TestResolveUsesInstallPath(t *testing.T) {
	p := &repository.Installed{
		ID:          "Plugin",
		Version:     "1.0",
		InstallPath: filepath.Join("/p", "Plugin.1.0"),
		LibFiles:    []repository.LibFile{{Path: "lib/net45/A.dll", Framework: fw("net45")}},
	}
	r := New(staticLister{packages: []*repository.Installed{p}}, "/elsewhere", framework.MustParse("net46"))

	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{filepath.Join("/p", "Plugin.1.0", "lib", "net45", "A.dll")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveExtensions(t *testing.T) {
	p := &repository.Installed{
		ID:      "Pkg",
		Version: "1.0.0",
		LibFiles: []repository.LibFile{
			{Path: "lib/A.DLL"},
			{Path: "lib/A.so"},
			{Path: "lib/A.pdb"},
		},
	}
	lister := staticLister{packages: []*repository.Installed{p}}

	got, _ := New(lister, "/p", framework.Default).Resolve(context.Background())
	if len(got) != 1 || !strings.HasSuffix(got[0], "A.DLL") {
		t.Errorf("default extensions: Resolve() = %v", got)
	}

	got, _ = New(lister, "/p", framework.Default, WithExtensions("so", ".dll")).Resolve(context.Background())
	if len(got) != 2 {
		t.Errorf("WithExtensions: Resolve() = %v, want 2 paths", got)
	}
}

func TestResolveConcatenatesInListOrder(t *testing.T) {
	packages := []*repository.Installed{
		{ID: "A", Version: "1.0.0", LibFiles: []repository.LibFile{{Path: "lib/a.dll"}}},
		{ID: "B", Version: "1.0.0", ContentFiles: []string{"content/x.txt"}},
		{ID: "C", Version: "1.0.0", LibFiles: []repository.LibFile{{Path: "lib/c.dll"}}},
	}

	got, err := New(staticLister{packages: packages}, "/p", framework.Default).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{
		filepath.Join("/p", "A.1.0.0", "lib", "a.dll"),
		filepath.Join("/p", "C.1.0.0", "lib", "c.dll"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveListError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := New(staticLister{err: boom}, "/p", framework.Default).Resolve(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
