// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import "testing"

const (
	e = 1.e-15
)

func eq(a, b [16]float32) bool {
	for i := range a {
		if a[i]-b[i] > e {
			return false
		}
	}
	return true
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if !eq(m.m, [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity broken: %v", m.m)
	}
}

func TestTranslate(t *testing.T) {
	m := Identity()
	m.Translate(2, 3, 5)
	if !eq(m.m, [16]float32{
		1, 0, 0, 2,
		0, 1, 0, 3,
		0, 0, 1, 5,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.Translate(2,3,5) = %v", m.m)
	}
}

func TestScale(t *testing.T) {
	m := Identity()
	m.Scale(2, 3, 5)
	if !eq(m.m, [16]float32{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 5, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.Scale(2,3,5) = %v", m.m)
	}
}

func TestRotateX(t *testing.T) {
	m := Identity()
	m.RotateX(90)
	if !eq(m.m, [16]float32{
		1, 0, 0, 0,
		0, 0, -1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.RotateX(90) = %v", m.m)
	}
}

func TestRotateY(t *testing.T) {
	m := Identity()
	m.RotateY(90)
	if !eq(m.m, [16]float32{
		0, 0, 1, 0,
		0, 1, 0, 0,
		-1, 0, 0, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.RotateY(90) = %v", m.m)
	}
}

func TestRotateZ(t *testing.T) {
	m := Identity()
	m.RotateZ(90)
	if !eq(m.m, [16]float32{
		0, -1, 0, 0,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}) {
		t.Errorf("Identity.RotateZ(90) = %v", m.m)
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-5 && d > -1e-5
}

func TestRotate(t *testing.T) {
	a := Identity()
	a.RotateZ(30)
	b := Identity()
	b.Rotate(30, 0, 0, 2)
	for i := range a.m {
		if !near(a.m[i], b.m[i]) {
			t.Fatalf("Rotate(30, z) = %v, want %v", b.m, a.m)
		}
	}
}

func TestView(t *testing.T) {
	tests := []struct {
		name   string
		origin [3]float32
		angles [3]float32
		in     [3]float32
		want   [3]float32
	}{
		{"forward", [3]float32{}, [3]float32{}, [3]float32{10, 0, 0}, [3]float32{0, 0, -10}},
		{"left", [3]float32{}, [3]float32{}, [3]float32{0, 10, 0}, [3]float32{-10, 0, 0}},
		{"up", [3]float32{}, [3]float32{}, [3]float32{0, 0, 10}, [3]float32{0, 10, 0}},
		{"moved", [3]float32{5, 0, 0}, [3]float32{}, [3]float32{10, 0, 0}, [3]float32{0, 0, -5}},
		{"yaw", [3]float32{}, [3]float32{0, 90, 0}, [3]float32{0, 10, 0}, [3]float32{0, 0, -10}},
	}
	for _, tc := range tests {
		got := View(tc.origin, tc.angles).Apply(tc.in)
		for i := 0; i < 3; i++ {
			if !near(got[i], tc.want[i]) {
				t.Errorf("%s: View.Apply(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(90, 90, 4, 4096)
	if !near(m.m[0], 1) || !near(m.m[5], 1) || m.m[14] != -1 {
		t.Errorf("Perspective(90, 90) = %v", m.m)
	}
	// a point on the near plane ends at depth -1
	p := m.Apply([3]float32{0, 0, -4})
	if !near(p[2]/p[3], -1) {
		t.Errorf("near plane depth %v", p[2]/p[3])
	}
}
