// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"github.com/chewxy/math32"

	"gorefresh/bsp"
)

const turbScale = 256 / (2 * math32.Pi)

// 8 * sin over one period of 256 steps
var turbSin [256]float32

func init() {
	for i := range turbSin {
		turbSin[i] = 8 * math32.Sin(float32(i)*2*math32.Pi/256)
	}
}

func frac(v float64) float64 {
	return v - float64(int(v))
}

// flowingScroll is the base texture offset of flowing surfaces at time t.
// It repeats every 40 seconds and is never zero.
func flowingScroll(t float64) float32 {
	s := float32(-64 * frac(t/40))
	if s == 0 {
		s = -64
	}
	return s
}

// warpScroll is the offset of flowing liquids.
func warpScroll(t float64) float32 {
	return float32(-64 * frac(t*0.5))
}

func (r *Renderer) scrollFor(s *bsp.Surface) float32 {
	if s.TexInfo.Flags&bsp.SurfFlowing != 0 {
		return r.scroll
	}
	return 0
}

// emitPolys submits the fans of s. The base s coordinate is moved by scroll
// and the lightmap coordinates by ds,dt.
func (r *Renderer) emitPolys(s *bsp.Surface, scroll, ds, dt float32) {
	for _, p := range s.Polys {
		r.verts = r.verts[:0]
		for _, v := range p.Verts {
			v.S += scroll
			v.LightS -= ds
			v.LightT -= dt
			r.verts = append(r.verts, v)
		}
		r.g.SubmitPolygon(Polygon, r.verts)
	}
}

// emitWaterPolys submits the fans of a warped surface with the turbulence
// applied to the texture coordinates.
func (r *Renderer) emitWaterPolys(s *bsp.Surface) {
	t := float32(r.rd.Time)
	var scroll float32
	if s.TexInfo.Flags&bsp.SurfFlowing != 0 {
		scroll = warpScroll(r.rd.Time)
	}
	for _, p := range s.Polys {
		r.verts = r.verts[:0]
		for _, v := range p.Verts {
			os, ot := v.S, v.T
			ss := os + turbSin[int((ot*0.125+t)*turbScale)&255]
			ss += scroll
			tt := ot + turbSin[int((os*0.125+t)*turbScale)&255]
			v.S = ss * (1.0 / 64)
			v.T = tt * (1.0 / 64)
			r.verts = append(r.verts, v)
		}
		r.g.SubmitPolygon(Polygon, r.verts)
	}
}

// emitOutlines submits every triangle of the fans of s as a line loop.
func (r *Renderer) emitOutlines(s *bsp.Surface) {
	for _, p := range s.Polys {
		for j := 2; j < len(p.Verts); j++ {
			r.verts = append(r.verts[:0], p.Verts[0], p.Verts[j-1], p.Verts[j])
			r.g.SubmitPolygon(Outline, r.verts)
		}
	}
}
