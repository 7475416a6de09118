// SPDX-License-Identifier: GPL-2.0-or-later

package capture

import (
	"testing"

	"gorefresh/bsp"
	"gorefresh/refresh"
)

func TestRecordAndReplay(t *testing.T) {
	r := &Recorder{}
	r.BeginFrame(&refresh.RefDef{Width: 320, Height: 200, FovX: 90, FovY: 73.7})
	r.SetTextureEnvMode(refresh.LightmapUnit, refresh.Combine)
	r.SetRGBScale(2)
	r.BindLightmap(3)
	r.BindTexture(17)
	r.SubmitPolygon(refresh.Polygon, []bsp.Vertex{
		{Pos: [3]float32{1, 2, 3}, S: 0.5, T: 0.25, LightS: -0.125, LightT: 1},
		{Pos: [3]float32{-4, 5, 6}},
		{Pos: [3]float32{7, -8, 9}},
	})
	r.UploadTextureRegion(0, 0, 0, 128, 5, make([]byte, 128*5*4))
	r.PopTransform()

	if n := r.Count(OpPolygon); n != 1 {
		t.Fatalf("Count(OpPolygon) = %d", n)
	}
	calls, err := Unmarshal(Marshal(r.Calls))
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != len(r.Calls) {
		t.Fatalf("got %d calls, want %d", len(calls), len(r.Calls))
	}
	for i, c := range calls {
		w := r.Calls[i]
		if c.Op != w.Op || len(c.Args) != len(w.Args) || len(c.Floats) != len(w.Floats) {
			t.Errorf("call %d = %v, want %v", i, c, w)
			continue
		}
		for j := range c.Args {
			if c.Args[j] != w.Args[j] {
				t.Errorf("call %d arg %d = %d, want %d", i, j, c.Args[j], w.Args[j])
			}
		}
		for j := range c.Floats {
			if c.Floats[j] != w.Floats[j] {
				t.Errorf("call %d float %d = %v, want %v", i, j, c.Floats[j], w.Floats[j])
			}
		}
	}
	vs := calls[5].Vertices()
	if len(vs) != 3 || vs[0].LightS != -0.125 || vs[2].Pos[1] != -8 {
		t.Errorf("vertices = %v", vs)
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	r := &Recorder{}
	r.BindTexture(1)
	r.SetColor(1, 1, 1, 0.5)
	b := Marshal(r.Calls)
	if _, err := Unmarshal(b[:len(b)-2]); err == nil {
		t.Errorf("truncated capture accepted")
	}
}

func TestOpString(t *testing.T) {
	if s := OpUploadRegion.String(); s != "UploadRegion" {
		t.Errorf("String = %q", s)
	}
	if s := Op(99).String(); s != "Op(99)" {
		t.Errorf("String = %q", s)
	}
}
