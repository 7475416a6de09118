// SPDX-License-Identifier: GPL-2.0-or-later

// Package palette holds the global 8bit palette wall textures index into.
package palette

import (
	"github.com/pkg/errors"

	"gorefresh/filesystem"
	"gorefresh/image"
)

const Transparent = 255

var (
	Table [256 * 4]uint8
)

func init() {
	// grey ramp until a real palette is loaded
	for i := 0; i < 256; i++ {
		Table[i*4] = uint8(i)
		Table[i*4+1] = uint8(i)
		Table[i*4+2] = uint8(i)
		Table[i*4+3] = 255
	}
	Table[Transparent*4+3] = 0
}

// Init loads the palette stored in pics/colormap.pcx.
func Init() error {
	b, err := filesystem.ReadFile("pics/colormap.pcx")
	if err != nil {
		return errors.Wrap(err, "couldn't load pics/colormap.pcx")
	}
	p, err := image.DecodePCX(b)
	if err != nil {
		return errors.Wrap(err, "pics/colormap.pcx")
	}
	return Set(p.Palette[:])
}

// Set replaces the palette by 256 rgb triples.
func Set(rgb []byte) error {
	if 4*len(rgb) != 3*len(Table) {
		return errors.Errorf("palette has wrong size: %v", len(rgb))
	}
	bi := 0
	pi := 0
	for i := 0; i < 256; i++ {
		Table[pi] = rgb[bi]
		Table[pi+1] = rgb[bi+1]
		Table[pi+2] = rgb[bi+2]
		Table[pi+3] = 255
		pi += 4
		bi += 3
	}
	Table[Transparent*4+3] = 0
	return nil
}

// Expand converts indexed pixels to RGBA. Transparent texels get the
// average colour of their opaque neighbours.
func Expand(pixels []byte, w, h int) []byte {
	return ExpandWith(&Table, pixels, w, h)
}

func ExpandWith(table *[256 * 4]uint8, pixels []byte, w, h int) []byte {
	d := make([]byte, 4*len(pixels))
	holes := false
	for i, p := range pixels {
		copy(d[i*4:i*4+4], table[int(p)*4:int(p)*4+4])
		if d[i*4+3] == 0 {
			holes = true
		}
	}
	if holes {
		AlphaEdgeFix(w, h, d)
	}
	return d
}
