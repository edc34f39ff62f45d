package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func newFixtureResolver(t *testing.T, files ...string) *Resolver {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return NewResolver(root)
}

func TestPageImage(t *testing.T) {
	r := newFixtureResolver(t, "pages/page-3.png")

	rel, ok := r.PageImage(3)
	if !ok {
		t.Error("page 3 should exist")
	}
	if rel != filepath.Join("pages", "page-3.png") {
		t.Errorf("rel = %q", rel)
	}

	if _, ok := r.PageImage(4); ok {
		t.Error("page 4 should be missing")
	}
}

func TestPartsImage(t *testing.T) {
	r := newFixtureResolver(t, "parts/front-axle.png")

	if _, ok := r.PartsImage("Front Axle"); !ok {
		t.Error("parts image for 'Front Axle' should resolve via slug")
	}
	if _, ok := r.PartsImage("Gearbox"); ok {
		t.Error("missing parts image must degrade, not resolve")
	}
}

func TestHandoverImages(t *testing.T) {
	r := newFixtureResolver(t, "handover/receive-t1-t2.png", "handover/give-t1-t2.png")

	if _, ok := r.ReceiveImage(1, 2); !ok {
		t.Error("receive-t1-t2 should exist")
	}
	if _, ok := r.GiveImage(1, 2); !ok {
		t.Error("give-t1-t2 should exist")
	}
	if _, ok := r.ReceiveImage(2, 3); ok {
		t.Error("receive-t2-t3 should be missing")
	}
}

func TestReadPage(t *testing.T) {
	r := newFixtureResolver(t, "pages/page-1.png")

	data, ok := r.ReadPage(1)
	if !ok || len(data) == 0 {
		t.Errorf("ReadPage(1) = %d bytes, ok=%v", len(data), ok)
	}
	if _, ok := r.ReadPage(2); ok {
		t.Error("ReadPage of a missing page must report ok=false")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Front Axle", "front-axle"},
		{"  Cabin ", "cabin"},
		{"Step_2 (rear)", "step-2-rear"},
		{"Gearbox", "gearbox"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
