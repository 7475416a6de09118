// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"testing"

	"gorefresh/bsp"
)

func TestFovY(t *testing.T) {
	tests := []struct {
		fovX float32
		w, h int
		want float32
	}{
		{90, 100, 100, 90},
		{90, 0, 100, 90},
		{90, 640, 480, 73.739795},
	}
	for _, tc := range tests {
		got := fovY(tc.fovX, tc.w, tc.h)
		if d := got - tc.want; d > 1e-3 || d < -1e-3 {
			t.Errorf("fovY(%v, %d, %d) = %v, want %v", tc.fovX, tc.w, tc.h, got, tc.want)
		}
	}
}

func TestBrushEntities(t *testing.T) {
	m := &bsp.Model{
		Submodels: make([]bsp.Submodel, 3),
		Entities: bsp.ParseEntities([]byte(`
{ "classname" "worldspawn" }
{ "classname" "func_door" "model" "*1" }
{ "classname" "func_plat" "model" "*2" "origin" "0 0 16" }
{ "classname" "func_wall" "model" "*7" }
{ "classname" "misc_model" "model" "models/box.md2" }
`)),
	}
	es := brushEntities(m)
	if len(es) != 2 {
		t.Fatalf("brushEntities = %v, want 2 entities", es)
	}
	if es[0].Submodel != 1 || es[1].Submodel != 2 || es[1].Origin[2] != 16 {
		t.Errorf("brushEntities = %+v", es)
	}
}
