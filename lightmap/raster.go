// SPDX-License-Identifier: GPL-2.0-or-later

package lightmap

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"gorefresh/bsp"
	"gorefresh/lightstyle"
)

// largest lightmap a surface may have, in texels per axis
const maxBlockLights = 34

// Light is the lighting environment used to rasterize lightmaps.
type Light struct {
	Styles   []lightstyle.Value
	DLights  []DynamicLight
	Frame    int
	Modulate float32
}

var blockLights [maxBlockLights * maxBlockLights * 3]float32

func styleValue(styles []lightstyle.Value, style byte) lightstyle.Value {
	if int(style) < len(styles) {
		return styles[style]
	}
	return lightstyle.Default()
}

// BuildLightMap combines the light style maps of s and the dynamic lights
// touching it into RGBA texels written to dest.
func BuildLightMap(s *bsp.Surface, l *Light, dest []byte, stride int) error {
	if !HasLightmap(s) {
		return errors.New("BuildLightMap called for non-lit surface")
	}
	smax, tmax := s.LightmapSize()
	size := smax * tmax
	if size > maxBlockLights*maxBlockLights {
		return errors.Errorf("Bad blocklights size %dx%d", smax, tmax)
	}
	bl := blockLights[:size*3]

	switch {
	case s.Samples == nil:
		for i := range bl {
			bl[i] = 255
		}
	default:
		numMaps := 0
		for numMaps < bsp.MaxLightmaps && s.Styles[numMaps] != bsp.StyleNone {
			numMaps++
		}
		clear(bl)
		samples := s.Samples
		for m := 0; m < numMaps; m++ {
			if len(samples) < size*3 {
				return errors.Errorf("lightmap samples truncated in style %d", m)
			}
			rgb := styleValue(l.Styles, s.Styles[m]).RGB
			scale := [3]float32{l.Modulate * rgb[0], l.Modulate * rgb[1], l.Modulate * rgb[2]}
			for i := 0; i < size; i++ {
				bl[i*3+0] += float32(samples[i*3+0]) * scale[0]
				bl[i*3+1] += float32(samples[i*3+1]) * scale[1]
				bl[i*3+2] += float32(samples[i*3+2]) * scale[2]
			}
			samples = samples[size*3:]
		}
		if s.DLightFrame == l.Frame {
			addDynamicLights(s, l.DLights, bl)
		}
	}

	for t := 0; t < tmax; t++ {
		row := dest[t*stride:]
		for i := 0; i < smax; i++ {
			b := bl[(t*smax+i)*3:]
			r := max(int(b[0]), 0)
			g := max(int(b[1]), 0)
			bb := max(int(b[2]), 0)
			m := max(r, g, bb)
			a := m
			if m > 255 {
				f := 255 / float32(m)
				r = int(float32(r) * f)
				g = int(float32(g) * f)
				bb = int(float32(bb) * f)
				a = int(float32(a) * f)
			}
			row[i*4+0] = byte(r)
			row[i*4+1] = byte(g)
			row[i*4+2] = byte(bb)
			row[i*4+3] = byte(a)
		}
	}
	return nil
}

// SetCacheState records the style intensities s was last rasterized with.
func SetCacheState(s *bsp.Surface, styles []lightstyle.Value) {
	for m := 0; m < bsp.MaxLightmaps && s.Styles[m] != bsp.StyleNone; m++ {
		s.CachedLight[m] = styleValue(styles, s.Styles[m]).White
	}
}

// Stale returns whether one of the styles of s changed since the lightmap
// was rasterized and the slot index where the comparison stopped.
func Stale(s *bsp.Surface, styles []lightstyle.Value) (int, bool) {
	m := 0
	for ; m < bsp.MaxLightmaps && s.Styles[m] != bsp.StyleNone; m++ {
		if styleValue(styles, s.Styles[m]).White != s.CachedLight[m] {
			return m, true
		}
	}
	return m, false
}

func abs(v float32) float32 {
	return math32.Abs(v)
}
