// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/bsp"
	qmath "gorefresh/math"
	"gorefresh/math/vec"
)

const (
	skyDist = 2300
	// keep bilinear filtering away from the edges
	skyMin = 1.0 / 512
	skyMax = 511.0 / 512
)

// 1 = s, 2 = t, 3 = 2300
var stToVec = [6][3]int{
	{3, -1, 2},
	{-3, 1, 2},
	{1, 3, 2},
	{-1, -3, 2},
	{-2, -1, 3}, // 0 degrees yaw, look straight up
	{2, -1, -3}, // look straight down
}

// s = [0]/[2], t = [1]/[2]
var vecToSt = [6][3]int{
	{-2, 3, 1},
	{2, 3, -1},
	{1, 3, 2},
	{-1, 3, -2},
	{-2, -1, 3},
	{-2, 1, -3},
}

var skyTexOrder = [6]int{0, 2, 1, 3, 4, 5}

// skyBounds collects the part of every cube face covered by sky surfaces.
type skyBounds struct {
	mins [2][6]float32
	maxs [2][6]float32
}

func (b *skyBounds) clear() {
	for i := 0; i < 6; i++ {
		b.mins[0][i], b.mins[1][i] = 9999, 9999
		b.maxs[0][i], b.maxs[1][i] = -9999, -9999
	}
}

func (b *skyBounds) full() {
	for i := 0; i < 6; i++ {
		b.mins[0][i], b.mins[1][i] = -1, -1
		b.maxs[0][i], b.maxs[1][i] = 1, 1
	}
}

func (b *skyBounds) empty(face int) bool {
	return b.mins[0][face] >= b.maxs[0][face] || b.mins[1][face] >= b.maxs[1][face]
}

func component(v vec.Vec3, j int) float32 {
	if j < 0 {
		return -v[-j-1]
	}
	return v[j-1]
}

func (b *skyBounds) addSurface(s *bsp.Surface, origin vec.Vec3) {
	var vecs []vec.Vec3
	for _, p := range s.Polys {
		vecs = vecs[:0]
		for _, v := range p.Verts {
			vecs = append(vecs, vec.Sub(v.Pos, origin))
		}
		b.addPolygon(vecs)
	}
}

// addPolygon projects the polygon onto the cube face it mostly faces.
func (b *skyBounds) addPolygon(vecs []vec.Vec3) {
	var v vec.Vec3
	for _, p := range vecs {
		v = vec.Add(v, p)
	}
	av := v.Abs()
	var axis int
	switch {
	case av[0] > av[1] && av[0] > av[2]:
		axis = 0
		if v[0] < 0 {
			axis = 1
		}
	case av[1] > av[2] && av[1] > av[0]:
		axis = 2
		if v[1] < 0 {
			axis = 3
		}
	default:
		axis = 4
		if v[2] < 0 {
			axis = 5
		}
	}
	for _, p := range vecs {
		dv := component(p, vecToSt[axis][2])
		if dv < 0.001 {
			continue
		}
		s := qmath.Clamp(-1, component(p, vecToSt[axis][0])/dv, 1)
		t := qmath.Clamp(-1, component(p, vecToSt[axis][1])/dv, 1)
		b.mins[0][axis] = min(b.mins[0][axis], s)
		b.mins[1][axis] = min(b.mins[1][axis], t)
		b.maxs[0][axis] = max(b.maxs[0][axis], s)
		b.maxs[1][axis] = max(b.maxs[1][axis], t)
	}
}

func makeSkyVec(s, t float32, axis int) bsp.Vertex {
	b := vec.Vec3{s * skyDist, t * skyDist, skyDist}
	var v vec.Vec3
	for j := 0; j < 3; j++ {
		v[j] = component(b, stToVec[axis][j])
	}
	s = qmath.Clamp(skyMin, (s+1)*0.5, skyMax)
	t = qmath.Clamp(skyMin, (t+1)*0.5, skyMax)
	return bsp.Vertex{Pos: v, S: s, T: 1 - t}
}

func (r *Renderer) drawSkyBox() {
	b := &r.fs.sky
	if r.rd.SkyRotate != 0 {
		// a rotating sky is always drawn completely
		b.full()
	}
	visible := false
	for i := 0; i < 6; i++ {
		visible = visible || !b.empty(i)
	}
	if !visible {
		return
	}
	r.g.PushTransform(Transform{
		Origin: r.rd.Origin,
		Axis:   r.rd.SkyAxis,
		Angle:  float32(r.rd.Time) * r.rd.SkyRotate,
	})
	for i := 0; i < 6; i++ {
		if b.empty(i) {
			continue
		}
		h := r.rd.Sky[skyTexOrder[i]]
		if h == 0 {
			continue
		}
		r.boundTex = h
		r.g.BindTexture(h)
		r.verts = append(r.verts[:0],
			makeSkyVec(b.mins[0][i], b.mins[1][i], i),
			makeSkyVec(b.mins[0][i], b.maxs[1][i], i),
			makeSkyVec(b.maxs[0][i], b.maxs[1][i], i),
			makeSkyVec(b.maxs[0][i], b.mins[1][i], i))
		r.g.SubmitPolygon(Polygon, r.verts)
	}
	r.g.PopTransform()
}
