// SPDX-License-Identifier: GPL-2.0-or-later

package lightmap

import (
	"gorefresh/bsp"
	"gorefresh/math/vec"
)

const (
	// MaxDLights is limited by the width of Surface.DLightBits.
	MaxDLights = 32
	cutoff     = 64
)

type DynamicLight struct {
	Origin    vec.Vec3
	Intensity float32
	Color     vec.Vec3
}

// MarkLights flags every surface below node that is within reach of light.
// Surfaces get their light bits reset the first time they are touched in
// frame.
func MarkLights(m *bsp.Model, light *DynamicLight, bit uint32, node int32, frame int) {
	for node >= 0 {
		n := &m.Nodes[node]
		dist := n.Plane.Distance(light.Origin)
		if dist > light.Intensity-cutoff {
			node = n.Children[0]
			continue
		}
		if dist < -light.Intensity+cutoff {
			node = n.Children[1]
			continue
		}
		for i := 0; i < n.NumSurfaces; i++ {
			s := m.Surfaces[n.FirstSurface+i]
			if s.DLightFrame != frame {
				s.DLightBits = 0
				s.DLightFrame = frame
			}
			s.DLightBits |= bit
		}
		MarkLights(m, light, bit, n.Children[0], frame)
		node = n.Children[1]
	}
}

// PushLights marks the surfaces of the world touched by lights.
func PushLights(m *bsp.Model, lights []DynamicLight, frame int) {
	for i := range lights {
		if i == MaxDLights {
			break
		}
		MarkLights(m, &lights[i], 1<<i, 0, frame)
	}
}

func addDynamicLights(s *bsp.Surface, lights []DynamicLight, bl []float32) {
	smax, tmax := s.LightmapSize()
	tex := s.TexInfo
	for n := range lights {
		if n == MaxDLights {
			break
		}
		if s.DLightBits&(1<<n) == 0 {
			continue
		}
		dl := &lights[n]
		fdist := s.Plane.Distance(dl.Origin)
		frad := dl.Intensity - abs(fdist)
		if frad < cutoff {
			continue
		}
		minLight := frad - cutoff
		impact := vec.Sub(dl.Origin, vec.Scale(fdist, s.Plane.Normal))
		local := [2]float32{
			vec.Dot(impact, vec.Vec3{tex.Vecs[0][0], tex.Vecs[0][1], tex.Vecs[0][2]}) + tex.Vecs[0][3] - float32(s.TextureMins[0]),
			vec.Dot(impact, vec.Vec3{tex.Vecs[1][0], tex.Vecs[1][1], tex.Vecs[1][2]}) + tex.Vecs[1][3] - float32(s.TextureMins[1]),
		}
		p := bl
		for t := 0; t < tmax; t++ {
			td := int(local[1]) - t*16
			if td < 0 {
				td = -td
			}
			for i := 0; i < smax; i++ {
				sd := int(local[0] - float32(i*16))
				if sd < 0 {
					sd = -sd
				}
				var d int
				if sd > td {
					d = sd + (td >> 1)
				} else {
					d = td + (sd >> 1)
				}
				if float32(d) < minLight {
					f := frad - float32(d)
					p[0] += f * dl.Color[0]
					p[1] += f * dl.Color[1]
					p[2] += f * dl.Color[2]
				}
				p = p[3:]
			}
		}
	}
}
