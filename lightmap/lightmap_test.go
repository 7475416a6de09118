// SPDX-License-Identifier: GPL-2.0-or-later

package lightmap

import (
	"testing"

	"github.com/pkg/errors"

	"gorefresh/bsp"
	"gorefresh/bsp/bsptest"
	"gorefresh/lightstyle"
	"gorefresh/math/vec"
)

type upload struct {
	page       int
	x, y, w, h int
	full       bool
}

type uploads struct {
	list []upload
}

func (u *uploads) UploadFullTexture(page int, pixels []byte) {
	u.list = append(u.list, upload{page: page, w: BlockWidth, h: BlockHeight, full: true})
}

func (u *uploads) UploadTextureRegion(page, x, y, w, h int, pixels []byte) {
	u.list = append(u.list, upload{page: page, x: x, y: y, w: w, h: h})
}

func TestAllocNoOverlap(t *testing.T) {
	a := NewAllocator(BlockWidth, BlockHeight)
	var used [BlockWidth][BlockHeight]bool
	sizes := [][2]int{{5, 5}, {34, 34}, {17, 3}, {1, 1}, {128, 2}, {9, 30}, {33, 8}, {2, 2}}
	for round := 0; round < 20; round++ {
		for _, sz := range sizes {
			x, y, ok := a.Alloc(sz[0], sz[1])
			if !ok {
				continue
			}
			if x < 0 || y < 0 || x+sz[0] > BlockWidth || y+sz[1] > BlockHeight {
				t.Fatalf("Alloc(%d,%d) = %d,%d out of bounds", sz[0], sz[1], x, y)
			}
			for i := x; i < x+sz[0]; i++ {
				for j := y; j < y+sz[1]; j++ {
					if used[i][j] {
						t.Fatalf("Alloc(%d,%d) = %d,%d overlaps", sz[0], sz[1], x, y)
					}
					used[i][j] = true
				}
			}
		}
	}
}

func TestAllocFullWidth(t *testing.T) {
	a := NewAllocator(BlockWidth, BlockHeight)
	x, y, ok := a.Alloc(BlockWidth, 10)
	if !ok || x != 0 || y != 0 {
		t.Errorf("Alloc(128,10) = %d,%d,%v", x, y, ok)
	}
	x, y, ok = a.Alloc(BlockWidth, 10)
	if !ok || x != 0 || y != 10 {
		t.Errorf("second Alloc(128,10) = %d,%d,%v", x, y, ok)
	}
	if h := a.MaxHeight(); h != 20 {
		t.Errorf("MaxHeight = %d", h)
	}
}

func TestAllocOversize(t *testing.T) {
	a := NewAllocator(BlockWidth, BlockHeight)
	if _, _, ok := a.Alloc(130, 130); ok {
		t.Errorf("Alloc(130,130) succeeded")
	}
	x, y, ok := a.Alloc(10, 10)
	if !ok || x != 0 || y != 0 {
		t.Errorf("Alloc(10,10) = %d,%d,%v", x, y, ok)
	}
	a.Reset()
	if !a.Empty() {
		t.Errorf("not empty after reset")
	}
}

func bigSurface(size int) *bsp.Surface {
	ext := (size - 1) * 16
	return &bsp.Surface{
		TexInfo: &bsp.TexInfo{},
		Extents: [2]int{ext, ext},
		Styles:  [4]byte{0, 255, 255, 255},
	}
}

func buildLight() *Light {
	return &Light{Styles: lightstyle.Unlit(), Modulate: 1}
}

func TestAtlasRotation(t *testing.T) {
	u := &uploads{}
	a := NewAtlas(u)
	a.BeginBuilding()
	var surfs []*bsp.Surface
	for i := 0; i < 10; i++ {
		s := bigSurface(34)
		if err := a.CreateSurfaceLightmap(s, buildLight()); err != nil {
			t.Fatalf("CreateSurfaceLightmap(%d): %v", i, err)
		}
		surfs = append(surfs, s)
	}
	if err := a.EndBuilding(); err != nil {
		t.Fatalf("EndBuilding: %v", err)
	}
	for i, s := range surfs[:9] {
		if s.LightmapPage != 1 {
			t.Errorf("surface %d on page %d", i, s.LightmapPage)
		}
	}
	if s := surfs[9]; s.LightmapPage != 2 || s.LightS != 0 || s.LightT != 0 {
		t.Errorf("surface 9 at page %d %d,%d", s.LightmapPage, s.LightS, s.LightT)
	}
	want := []int{0, 1, 2}
	if len(u.list) != len(want) {
		t.Fatalf("uploads %v", u.list)
	}
	for i, p := range want {
		if u.list[i].page != p || !u.list[i].full {
			t.Errorf("upload %d = %v", i, u.list[i])
		}
	}
	if a.Pages() != 2 {
		t.Errorf("Pages = %d", a.Pages())
	}
}

func TestAtlasOversize(t *testing.T) {
	a := NewAtlas(&uploads{})
	a.BeginBuilding()
	err := a.CreateSurfaceLightmap(bigSurface(130), buildLight())
	if errors.Cause(err) != ErrBlockTooLarge {
		t.Fatalf("err = %v", err)
	}
	s := bigSurface(10)
	if err := a.CreateSurfaceLightmap(s, buildLight()); err != nil {
		t.Fatal(err)
	}
	if s.LightmapPage != 1 || s.LightS != 0 || s.LightT != 0 {
		t.Errorf("placed at page %d %d,%d", s.LightmapPage, s.LightS, s.LightT)
	}
}

func TestAtlasTooMany(t *testing.T) {
	a := NewAtlas(&uploads{})
	a.BeginBuilding()
	var err error
	for i := 0; i < 9*MaxLightmaps && err == nil; i++ {
		err = a.CreateSurfaceLightmap(bigSurface(34), buildLight())
	}
	if err != ErrTooManyLightmaps {
		t.Errorf("err = %v", err)
	}
}

func TestBuildLightMap(t *testing.T) {
	tests := []struct {
		name    string
		sample  [3]byte
		rgb     vec.Vec3
		modul   float32
		want    [4]byte
	}{
		{"plain", [3]byte{128, 128, 128}, vec.Vec3{1, 1, 1}, 1, [4]byte{128, 128, 128, 128}},
		{"modulate", [3]byte{64, 32, 0}, vec.Vec3{1, 1, 1}, 2, [4]byte{128, 64, 0, 128}},
		{"saturated", [3]byte{255, 0, 0}, vec.Vec3{2, 2, 2}, 1, [4]byte{255, 0, 0, 255}},
		{"scaled", [3]byte{128, 64, 0}, vec.Vec3{4, 4, 4}, 1, [4]byte{255, 127, 0, 255}},
		{"dark", [3]byte{200, 200, 200}, vec.Vec3{0, 0, 0}, 1, [4]byte{0, 0, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := bigSurface(2)
			for i := 0; i < 4; i++ {
				s.Samples = append(s.Samples, tc.sample[:]...)
			}
			l := &Light{Styles: []lightstyle.Value{{RGB: tc.rgb}}, Modulate: tc.modul}
			dest := make([]byte, 4*4)
			if err := BuildLightMap(s, l, dest, 8); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 4; i++ {
				if got := [4]byte(dest[i*4 : i*4+4]); got != tc.want {
					t.Errorf("texel %d = %v, want %v", i, got, tc.want)
				}
			}
		})
	}
}

func TestBuildLightMapNoSamples(t *testing.T) {
	s := bigSurface(2)
	dest := make([]byte, 16)
	if err := BuildLightMap(s, buildLight(), dest, 8); err != nil {
		t.Fatal(err)
	}
	for i, b := range dest {
		if b != 255 {
			t.Fatalf("byte %d = %d", i, b)
		}
	}
}

func TestBuildLightMapNonLit(t *testing.T) {
	s := bigSurface(2)
	s.TexInfo.Flags = bsp.SurfWarp
	if err := BuildLightMap(s, buildLight(), make([]byte, 16), 8); err == nil {
		t.Errorf("expected error")
	}
}

func TestStale(t *testing.T) {
	s := bigSurface(2)
	s.Styles = [4]byte{0, 3, 255, 255}
	styles := make([]lightstyle.Value, 4)
	for i := range styles {
		styles[i] = lightstyle.Default()
	}
	SetCacheState(s, styles)
	if _, stale := Stale(s, styles); stale {
		t.Errorf("fresh surface is stale")
	}
	if m, _ := Stale(s, styles); m != 2 {
		t.Errorf("slot = %d", m)
	}
	styles[3].White = 1.5
	if m, stale := Stale(s, styles); !stale || m != 1 {
		t.Errorf("Stale = %d,%v", m, stale)
	}
}

func TestAllocDynamicRotation(t *testing.T) {
	u := &uploads{}
	a := NewAtlas(u)
	a.InitBlock()
	flushes := 0
	flush := func() error {
		flushes++
		return nil
	}
	// nine 34x34 blocks fill a page, the tenth starts it over
	for i := 0; i < 10; i++ {
		x, y, err := a.AllocDynamic(bigSurface(34), buildLight(), flush)
		if err != nil {
			t.Fatalf("AllocDynamic(%d): %v", i, err)
		}
		wantFlushes := 0
		if i == 9 {
			wantFlushes = 1
			if x != 0 || y != 0 {
				t.Errorf("AllocDynamic(9) = %d,%d, want 0,0", x, y)
			}
		}
		if flushes != wantFlushes {
			t.Errorf("flushes after block %d = %d, want %d", i, flushes, wantFlushes)
		}
	}
	if err := a.UploadBlock(true); err != nil {
		t.Fatal(err)
	}
	want := []upload{
		{page: DynamicPage, w: BlockWidth, h: 3 * 34},
		{page: DynamicPage, w: BlockWidth, h: 34},
	}
	if len(u.list) != len(want) {
		t.Fatalf("uploads = %v, want %v", u.list, want)
	}
	for i := range want {
		if u.list[i] != want[i] {
			t.Errorf("upload %d = %v, want %v", i, u.list[i], want[i])
		}
	}
}

func TestDynamicLight(t *testing.T) {
	m, err := bsptest.Load(bsptest.Floor(2, 0))
	if err != nil {
		t.Fatal(err)
	}
	lights := []DynamicLight{{Origin: vec.Vec3{32, 32, 40}, Intensity: 200, Color: vec.Vec3{1, 1, 1}}}
	PushLights(m, lights, 7)
	for i, s := range m.Surfaces {
		if s.DLightFrame != 7 || s.DLightBits != 1 {
			t.Errorf("surface %d frame %d bits %x", i, s.DLightFrame, s.DLightBits)
		}
	}

	s := m.Surfaces[0]
	l := &Light{Styles: lightstyle.Unlit(), DLights: lights, Modulate: 1}
	plain := make([]byte, 5*5*4)
	if err := BuildLightMap(s, l, plain, 20); err != nil {
		t.Fatal(err)
	}
	l.Frame = 7
	lit := make([]byte, 5*5*4)
	if err := BuildLightMap(s, l, lit, 20); err != nil {
		t.Fatal(err)
	}
	// texel 2,2 sits right below the light
	c := (2*5 + 2) * 4
	if plain[c] != 128 || lit[c] <= plain[c] {
		t.Errorf("centre texel %d -> %d", plain[c], lit[c])
	}
}

func TestMarkLightsOutOfReach(t *testing.T) {
	m, err := bsptest.Load(bsptest.Floor(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	lights := []DynamicLight{{Origin: vec.Vec3{32, 32, 500}, Intensity: 200}}
	PushLights(m, lights, 3)
	if s := m.Surfaces[0]; s.DLightFrame == 3 {
		t.Errorf("surface marked by distant light")
	}
}
