// SPDX-License-Identifier: GPL-2.0-or-later

package lightstyle

import (
	"testing"
)

func TestAnimate(t *testing.T) {
	tab := NewTable()
	if err := tab.Set(1, "amz"); err != nil {
		t.Fatal(err)
	}
	if err := tab.Set(MaxLightStyles, "a"); err == nil {
		t.Errorf("Set out of range did not fail")
	}
	tests := []struct {
		time float64
		flat Flat
		want float32
	}{
		{0, FlatOff, 0},
		{0.1, FlatOff, 1},
		{0.25, FlatOff, 25.0 / 12},
		{0.3, FlatOff, 0},
		{0, FlatPeak, 25.0 / 12},
		{0, FlatAverage, (0 + 1 + 25.0/12) / 3},
	}
	for _, tc := range tests {
		tab.Animate(tc.time, tc.flat)
		v := tab.Values()[1]
		if d := v.RGB[0] - tc.want; d > 1e-5 || d < -1e-5 {
			t.Errorf("Animate(%v, %v) = %v, want %v", tc.time, tc.flat, v.RGB[0], tc.want)
		}
		if d := v.White - 3*v.RGB[0]; d > 1e-5 || d < -1e-5 {
			t.Errorf("White = %v for rgb %v", v.White, v.RGB)
		}
		if o := tab.Values()[0]; o.White != 3 {
			t.Errorf("unset style white = %v, want 3", o.White)
		}
	}
}

func TestLoadStandard(t *testing.T) {
	tab := NewTable()
	tab.LoadStandard()
	tab.Animate(0.45, FlatOff)
	v := tab.Values()
	tests := []struct {
		style int
		want  float32
	}{
		{0, 1},
		// 'e' of the fading pattern
		{2, 4.0 / 12},
		{63, 0},
		{20, 1},
	}
	for _, tc := range tests {
		if got := v[tc.style].RGB[0]; got != tc.want {
			t.Errorf("style %d = %v, want %v", tc.style, got, tc.want)
		}
	}
	if tab.Pattern(9) != Standard[9] {
		t.Errorf("Pattern(9) = %q", tab.Pattern(9))
	}
}
