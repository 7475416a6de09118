// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"gorefresh/math/vec"
)

// Distance returns the signed distance of p to the plane, using the axial
// fast path where possible.
func (p *Plane) Distance(v vec.Vec3) float32 {
	if p.Type < 3 {
		return v[p.Type] - p.Dist
	}
	return vec.Dot(v, p.Normal) - p.Dist
}

// BoxOnPlaneSide returns 1 if the box is in front of the plane, 2 if behind
// and 3 if it crosses the plane.
func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) int {
	if p.Type < 3 {
		if p.Dist <= mins[p.Type] {
			return 1
		}
		if p.Dist >= maxs[p.Type] {
			return 2
		}
		return 3
	}
	// d1 uses the corner furthest along the normal, d2 the nearest one
	var d1, d2 float32
	for i := 0; i < 3; i++ {
		n := p.Normal[i]
		if p.SignBits&(1<<i) != 0 {
			d1 += n * mins[i]
			d2 += n * maxs[i]
		} else {
			d1 += n * maxs[i]
			d2 += n * mins[i]
		}
	}
	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}

func signBits(n vec.Vec3) byte {
	var b byte
	for i := 0; i < 3; i++ {
		if n[i] < 0 {
			b |= 1 << i
		}
	}
	return b
}

// NewPlane fills in type and sign bits for a plane.
func NewPlane(normal vec.Vec3, dist float32) Plane {
	t := byte(3)
	for i := byte(0); i < 3; i++ {
		if normal[i] == 1 {
			t = i
		}
	}
	return Plane{
		Normal:   normal,
		Dist:     dist,
		Type:     t,
		SignBits: signBits(normal),
	}
}
