// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"testing"

	"gorefresh/bsp"
	"gorefresh/math/vec"
	"gorefresh/refresh"
)

func TestPackVertices(t *testing.T) {
	verts := []bsp.Vertex{
		{Pos: vec.Vec3{1, 2, 3}, S: 4, T: 5, LightS: 6, LightT: 7},
		{Pos: vec.Vec3{8, 9, 10}, S: 11, T: 12, LightS: 13, LightT: 14},
	}
	got := packVertices(make([]float32, 3), verts)
	if len(got) != 2*vertexSize {
		t.Fatalf("len = %d, want %d", len(got), 2*vertexSize)
	}
	for i, v := range got {
		if v != float32(i+1) {
			t.Fatalf("packVertices = %v", got)
		}
	}
}

func TestModelTransform(t *testing.T) {
	tests := []struct {
		name string
		tr   refresh.Transform
		in   [3]float32
		want [3]float32
	}{
		{"origin", refresh.Transform{Origin: vec.Vec3{10, 20, 30}}, [3]float32{1, 0, 0}, [3]float32{11, 20, 30}},
		{"yaw", refresh.Transform{Angles: vec.Vec3{0, 90, 0}}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
		{"axis", refresh.Transform{Axis: vec.Vec3{0, 0, 1}, Angle: 180}, [3]float32{1, 0, 0}, [3]float32{-1, 0, 0}},
	}
	for _, tc := range tests {
		got := modelTransform(Identity(), tc.tr).Apply(tc.in)
		for i := 0; i < 3; i++ {
			if !near(got[i], tc.want[i]) {
				t.Errorf("%s: modelTransform.Apply(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestLevels(t *testing.T) {
	tests := []struct{ w, h, want int }{
		{1, 1, 1},
		{64, 64, 7},
		{128, 32, 8},
	}
	for _, tc := range tests {
		if got := levels(tc.w, tc.h); int(got) != tc.want {
			t.Errorf("levels(%d, %d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}
