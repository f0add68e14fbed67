package index

import (
	"strings"
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		url    string
		branch string
	}{
		{"git+https://example.com/feed.git", true, "https://example.com/feed.git", ""},
		{"git+https://example.com/feed.git#stable", true, "https://example.com/feed.git", "stable"},
		{"git+file:///srv/feed#main", true, "file:///srv/feed", "main"},
		{"https://example.com/feed.git", false, "", ""},
		{"git+", false, "", ""},
		{"git+#main", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, ok := ParseLocation(tt.in, "git+")
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if loc.URL != tt.url || loc.Branch != tt.branch {
				t.Errorf("ParseLocation() = %+v, want %s#%s", loc, tt.url, tt.branch)
			}
		})
	}
}

func TestCacheDirStable(t *testing.T) {
	a := Location{URL: "https://example.com/feed.git", Branch: "main"}
	b := Location{URL: "https://example.com/feed.git"}

	if a.CacheDir("/c") != a.CacheDir("/c") {
		t.Error("CacheDir() not deterministic")
	}
	if a.CacheDir("/c") == b.CacheDir("/c") {
		t.Error("branches share a checkout")
	}
	if !strings.HasPrefix(a.CacheDir("/c"), "/c/git/") {
		t.Errorf("CacheDir() = %q", a.CacheDir("/c"))
	}
}
