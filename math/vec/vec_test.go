// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"testing"

	"github.com/chewxy/math32"
)

var (
	NULL = Vec3{}
)

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	for _, v := range []Vec3{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}} {
		if v.Length() != 3 {
			t.Errorf("%v Length is not 3", v)
		}
	}
}

func TestAddSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Add(NULL, v); got != v {
		t.Errorf("Adding a null vector changed the vector")
	}
	if got, want := Add(v, v), (Vec3{2, 4, 6}); got != want {
		t.Errorf("Add(%v,%v) = %v, want %v", v, v, got, want)
	}
	if got := Sub(v, v); got != NULL {
		t.Errorf("Sub(%v,%v) = %v, want %v", v, v, got, NULL)
	}
}

func TestDotCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if got := Dot(x, y); got != 0 {
		t.Errorf("Dot(%v,%v) = %v, want 0", x, y, got)
	}
	if got, want := Cross(x, y), (Vec3{0, 0, 1}); got != want {
		t.Errorf("Cross(%v,%v) = %v, want %v", x, y, got, want)
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, 8}
	if got, want := Lerp(a, b, 0.5), (Vec3{1, 2, 4}); got != want {
		t.Errorf("Lerp(%v,%v,0.5) = %v, want %v", a, b, got, want)
	}
}

func TestAngleVectors(t *testing.T) {
	f, r, u := AngleVectors(Vec3{0, 90, 0})
	near := func(a, b Vec3) bool {
		for i := range a {
			if math32.Abs(a[i]-b[i]) > 1e-5 {
				return false
			}
		}
		return true
	}
	if !near(f, Vec3{0, 1, 0}) {
		t.Errorf("forward = %v, want {0 1 0}", f)
	}
	if !near(r, Vec3{1, 0, 0}) {
		t.Errorf("right = %v, want {1 0 0}", r)
	}
	if !near(u, Vec3{0, 0, 1}) {
		t.Errorf("up = %v, want {0 0 1}", u)
	}
}
