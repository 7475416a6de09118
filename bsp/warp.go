// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"gorefresh/math/vec"
)

const (
	SubdivideSize   = 64
	maxSubdivVerts  = 60
	subdivideMargin = 8
)

func boundPoly(verts []vec.Vec3) (vec.Vec3, vec.Vec3) {
	mins := vec.Vec3{9999, 9999, 9999}
	maxs := vec.Vec3{-9999, -9999, -9999}
	for _, v := range verts {
		for j := 0; j < 3; j++ {
			mins[j] = math32.Min(mins[j], v[j])
			maxs[j] = math32.Max(maxs[j], v[j])
		}
	}
	return mins, maxs
}

// subdivideSurface cuts a warped surface into pieces of at most
// SubdivideSize units so the water warp stays smooth.
func (s *Surface) subdivide(verts []vec.Vec3) error {
	if len(verts) > maxSubdivVerts {
		return errors.Errorf("subdivide: numverts = %d", len(verts))
	}
	mins, maxs := boundPoly(verts)
	for i := 0; i < 3; i++ {
		m := (mins[i] + maxs[i]) * 0.5
		m = SubdivideSize * math32.Floor(m/SubdivideSize+0.5)
		if maxs[i]-m < subdivideMargin || m-mins[i] < subdivideMargin {
			continue
		}
		n := len(verts)
		dist := make([]float32, n+1)
		for j, v := range verts {
			dist[j] = v[i] - m
		}
		dist[n] = dist[0]
		var front, back []vec.Vec3
		for j, v := range verts {
			if dist[j] >= 0 {
				front = append(front, v)
			}
			if dist[j] <= 0 {
				back = append(back, v)
			}
			if dist[j] == 0 || dist[j+1] == 0 {
				continue
			}
			if (dist[j] > 0) != (dist[j+1] > 0) {
				frac := dist[j] / (dist[j] - dist[j+1])
				mid := vec.Lerp(v, verts[(j+1)%n], frac)
				front = append(front, mid)
				back = append(back, mid)
			}
		}
		if err := s.subdivide(front); err != nil {
			return err
		}
		return s.subdivide(back)
	}
	s.addWarpPoly(verts)
	return nil
}

// addWarpPoly adds a fan around the centre of verts. The texture
// coordinates are raw texel units, the water warp scales them when drawing.
func (s *Surface) addWarpPoly(verts []vec.Vec3) {
	n := len(verts)
	p := &Poly{Verts: make([]Vertex, n+2)}
	ti := s.TexInfo
	var total vec.Vec3
	var ts, tt float32
	for i, v := range verts {
		sv := vec.Dot(v, vec.Vec3{ti.Vecs[0][0], ti.Vecs[0][1], ti.Vecs[0][2]})
		tv := vec.Dot(v, vec.Vec3{ti.Vecs[1][0], ti.Vecs[1][1], ti.Vecs[1][2]})
		p.Verts[i+1] = Vertex{Pos: v, S: sv, T: tv}
		total = vec.Add(total, v)
		ts += sv
		tt += tv
	}
	inv := 1 / float32(n)
	p.Verts[0] = Vertex{Pos: vec.Scale(inv, total), S: ts * inv, T: tt * inv}
	p.Verts[n+1] = p.Verts[1]
	s.Polys = append(s.Polys, p)
}
