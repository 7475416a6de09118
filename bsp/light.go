// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"gorefresh/lightstyle"
	"gorefresh/math/vec"
)

// recursiveLight traces from start to end and samples the lightmap of the
// first surface hit. It returns false if nothing was hit.
func (m *Model) recursiveLight(styles []lightstyle.Value, modulate float32, n int32, start, end vec.Vec3, c *vec.Vec3) bool {
	if n < 0 {
		return false
	}
	node := &m.Nodes[n]
	front := vec.Dot(start, node.Plane.Normal) - node.Plane.Dist
	back := vec.Dot(end, node.Plane.Normal) - node.Plane.Dist
	side := 0
	if front < 0 {
		side = 1
	}
	if (back < 0) == (front < 0) {
		return m.recursiveLight(styles, modulate, node.Children[side], start, end, c)
	}
	frac := front / (front - back)
	mid := vec.Lerp(start, end, frac)

	// front side
	if m.recursiveLight(styles, modulate, node.Children[side], start, mid, c) {
		return true
	}

	for _, s := range m.Surfaces[node.FirstSurface : node.FirstSurface+node.NumSurfaces] {
		if s.Flags&(SurfaceDrawTurb|SurfaceDrawSky) != 0 {
			continue
		}
		ds := int(texDot(mid, s.TexInfo.Vecs[0]))
		dt := int(texDot(mid, s.TexInfo.Vecs[1]))
		if ds < s.TextureMins[0] || dt < s.TextureMins[1] {
			continue
		}
		ds -= s.TextureMins[0]
		dt -= s.TextureMins[1]
		if ds > s.Extents[0] || dt > s.Extents[1] {
			continue
		}
		if len(s.Samples) == 0 {
			return true
		}
		smax, tmax := s.LightmapSize()
		size := smax * tmax * 3
		ofs := 3 * ((dt>>4)*smax + (ds >> 4))
		for maps := 0; maps < MaxLightmaps && s.Styles[maps] != StyleNone; maps++ {
			if ofs+2 >= len(s.Samples) {
				break
			}
			rgb := styles[s.Styles[maps]].RGB
			for i := 0; i < 3; i++ {
				(*c)[i] += float32(s.Samples[ofs+i]) * modulate * rgb[i] / 255
			}
			ofs += size
		}
		return true
	}
	// back side
	return m.recursiveLight(styles, modulate, node.Children[1-side], mid, end, c)
}

// LightAt returns the static light color below point p. Levels without
// light data are fully lit.
func (m *Model) LightAt(p vec.Vec3, styles []lightstyle.Value, modulate float32) vec.Vec3 {
	if len(m.LightData) == 0 || len(m.Nodes) == 0 {
		return vec.Vec3{1, 1, 1}
	}
	end := p
	end[2] -= 2048
	var color vec.Vec3
	m.recursiveLight(styles, modulate, 0, p, end, &color)
	return color
}
