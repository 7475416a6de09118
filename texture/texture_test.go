// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"gorefresh/filesystem"
)

type created struct {
	name  string
	w, h  int
	flags TexPref
}

type creator struct {
	textures []created
}

func (c *creator) CreateTexture(name string, w, h int, flags TexPref, rgba []byte) uint32 {
	if len(rgba) != w*h*4 {
		panic("bad pixel count")
	}
	c.textures = append(c.textures, created{name, w, h, flags})
	return uint32(len(c.textures))
}

func wal(w, h int) []byte {
	b := make([]byte, 100+w*h)
	binary.LittleEndian.PutUint32(b[32:], uint32(w))
	binary.LittleEndian.PutUint32(b[36:], uint32(h))
	binary.LittleEndian.PutUint32(b[40:], 100)
	return b
}

func TestFindImage(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "baseq2", "textures", "e1u1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "floor1_3.wal"), wal(32, 16), 0o644); err != nil {
		t.Fatal(err)
	}
	filesystem.UseBaseDir(base)
	defer filesystem.UseBaseDir(t.TempDir())

	c := &creator{}
	m := NewManager(c)
	tests := []struct {
		name string
		w, h int
	}{
		{"e1u1/floor1_3", 32, 16},
		{"e1u1/missing", placeholderSize, placeholderSize},
		{"e1u1/floor1_3", 32, 16},
	}
	for _, tc := range tests {
		img, err := m.FindImage(tc.name)
		if err != nil {
			t.Fatalf("FindImage(%s): %v", tc.name, err)
		}
		if img.Width != tc.w || img.Height != tc.h {
			t.Errorf("FindImage(%s) = %dx%d, want %dx%d", tc.name, img.Width, img.Height, tc.w, tc.h)
		}
	}
	if len(c.textures) != 2 {
		t.Errorf("created %d textures, want 2", len(c.textures))
	}
}

func TestSky(t *testing.T) {
	filesystem.UseBaseDir(t.TempDir())
	c := &creator{}
	m := NewManager(c)
	s := m.Sky("unit1_")
	if s != m.Sky("unit1_") {
		t.Errorf("Sky not cached")
	}
	if len(c.textures) != 6 {
		t.Fatalf("created %d textures, want 6", len(c.textures))
	}
	if c.textures[4].name != "env/unit1_up.pcx" {
		t.Errorf("face 4 = %s", c.textures[4].name)
	}
	for i, h := range s {
		if h == 0 {
			t.Errorf("face %d without handle", i)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	_, _, a := Placeholder("e1u1/floor1_3")
	_, _, b := Placeholder("E1U1/FLOOR1_3")
	_, _, c := Placeholder("e1u1/wall")
	if string(a) != string(b) {
		t.Errorf("placeholder depends on case")
	}
	if string(a) == string(c) {
		t.Errorf("different names share a placeholder")
	}
}
