// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

type pcxHeader struct {
	Manufacturer uint8
	Version      uint8
	Encoding     uint8
	BitsPerPixel uint8
	XMin, YMin   uint16
	XMax, YMax   uint16
	HRes, VRes   uint16
	Palette16    [48]uint8
	Reserved     uint8
	ColorPlanes  uint8
	BytesPerLine uint16
	PaletteType  uint16
	Filler       [58]uint8
}

const (
	pcxHeaderSize  = 128
	pcxPaletteSize = 768
)

// Paletted is an 8bit image with its own 256 entry rgb palette.
type Paletted struct {
	Width   int
	Height  int
	Pixels  []byte
	Palette [pcxPaletteSize]byte
}

// DecodePCX reads a run length encoded 8bit pcx with a trailing palette.
func DecodePCX(data []byte) (*Paletted, error) {
	var h pcxHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "pcx header")
	}
	if h.Manufacturer != 0x0a || h.Version != 5 || h.Encoding != 1 || h.BitsPerPixel != 8 {
		return nil, errors.Errorf("bad pcx file (manufacturer %d, version %d, encoding %d, bpp %d)",
			h.Manufacturer, h.Version, h.Encoding, h.BitsPerPixel)
	}
	if h.XMax < h.XMin || h.YMax < h.YMin || h.XMax >= 640 || h.YMax >= 480 {
		return nil, errors.Errorf("bad pcx size %dx%d", int(h.XMax)+1, int(h.YMax)+1)
	}
	if len(data) < pcxHeaderSize+pcxPaletteSize+1 {
		return nil, errors.New("pcx file too short")
	}
	p := &Paletted{
		Width:  int(h.XMax-h.XMin) + 1,
		Height: int(h.YMax-h.YMin) + 1,
	}
	pal := data[len(data)-pcxPaletteSize-1:]
	if pal[0] != 0x0c {
		return nil, errors.New("pcx without 256 color palette")
	}
	copy(p.Palette[:], pal[1:])

	line := int(h.BytesPerLine)
	if line < p.Width {
		line = p.Width
	}
	p.Pixels = make([]byte, p.Width*p.Height)
	src := data[pcxHeaderSize : len(data)-pcxPaletteSize-1]
	pos := 0
	for y := 0; y < p.Height; y++ {
		for x := 0; x < line; {
			if pos >= len(src) {
				return nil, errors.Errorf("pcx data ends in row %d", y)
			}
			b := src[pos]
			pos++
			run := 1
			if b&0xc0 == 0xc0 {
				run = int(b & 0x3f)
				if pos >= len(src) {
					return nil, errors.Errorf("pcx data ends in row %d", y)
				}
				b = src[pos]
				pos++
			}
			for ; run > 0; run-- {
				if x < p.Width {
					p.Pixels[y*p.Width+x] = b
				}
				x++
			}
		}
	}
	return p, nil
}
