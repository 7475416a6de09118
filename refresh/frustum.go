// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"github.com/chewxy/math32"

	"gorefresh/bsp"
	"gorefresh/math/vec"
)

func deg2rad(a float32) float32 {
	a /= 180
	a *= math32.Pi
	return a
}

func turnVector(origin, forward, side vec.Vec3, angle float32) bsp.Plane {
	scaleSide, scaleForward := math32.Sincos(deg2rad(angle))
	n := vec.Add(vec.Scale(scaleForward, forward), vec.Scale(scaleSide, side))
	return bsp.NewPlane(n, vec.Dot(origin, n))
}

func (r *Renderer) setFrustum(rd *RefDef) {
	forward, right, up := vec.AngleVectors(rd.Angles)
	r.frustum[0] = turnVector(rd.Origin, forward, right, rd.FovX/2-90) // left
	r.frustum[1] = turnVector(rd.Origin, forward, right, 90-rd.FovX/2) // right
	r.frustum[2] = turnVector(rd.Origin, forward, up, 90-rd.FovY/2)    // bottom
	r.frustum[3] = turnVector(rd.Origin, forward, up, rd.FovY/2-90)    // top
}

// cullBox returns true if the box is completely outside the frustum
func (r *Renderer) cullBox(mins, maxs vec.Vec3) bool {
	if r.Settings.NoCull {
		return false
	}
	for i := range r.frustum {
		if r.frustum[i].BoxOnPlaneSide(mins, maxs) == 2 {
			return true
		}
	}
	return false
}
