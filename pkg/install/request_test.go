package install

import (
	"errors"
	"reflect"
	"testing"

	"github.com/arc-language/extpkg/pkg/repository"
)

func TestEffectiveSources(t *testing.T) {
	global := []string{"G1", "G2"}

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "exclusive with sources",
			req:  Request{ID: "p", Sources: []string{"S"}, Exclusive: true},
			want: []string{"S"},
		},
		{
			name: "non-exclusive with sources",
			req:  Request{ID: "p", Sources: []string{"S"}},
			want: []string{"S", "G1", "G2"},
		},
		{
			name: "no sources",
			req:  Request{ID: "p"},
			want: []string{"G1", "G2"},
		},
		{
			name: "exclusive without sources falls back to global",
			req:  Request{ID: "p", Exclusive: true},
			want: []string{"G1", "G2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.EffectiveSources(global)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EffectiveSources() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveSourcesDoesNotAlias(t *testing.T) {
	global := []string{"G1"}
	got := Request{ID: "p"}.EffectiveSources(global)
	got[0] = "changed"
	if global[0] != "G1" {
		t.Error("EffectiveSources() returned the caller's slice")
	}
}

func TestRequestValidate(t *testing.T) {
	if err := (Request{ID: "  "}).Validate(); !errors.Is(err, ErrSourceConfiguration) {
		t.Errorf("empty id: err = %v, want ErrSourceConfiguration", err)
	}
	if err := (Request{ID: "p", VersionSpec: "[1.0"}).Validate(); !errors.Is(err, repository.ErrInvalidVersionSpec) {
		t.Errorf("bad spec: err = %v, want ErrInvalidVersionSpec", err)
	}
	if err := (Request{ID: "p", VersionSpec: "[1.0,2.0)"}).Validate(); err != nil {
		t.Errorf("valid request: err = %v", err)
	}
}
