// SPDX-License-Identifier: GPL-2.0-or-later

// Package texture resolves wall and sky texture names to uploaded images.
package texture

import (
	"strings"

	"gorefresh/bsp"
	"gorefresh/conlog"
	"gorefresh/crc"
	"gorefresh/filesystem"
	"gorefresh/image"
	"gorefresh/palette"
)

type TexPref uint32

const (
	TexPrefMipMap TexPref = 1 << iota
	TexPrefLinear
	TexPrefRepeat
	TexPrefNone TexPref = 0
)

// Creator turns RGBA pixels into a texture handle of the graphics backend.
type Creator interface {
	CreateTexture(name string, w, h int, flags TexPref, rgba []byte) uint32
}

const placeholderSize = 64

// Manager implements bsp.ImageResolver. Every name is loaded once.
type Manager struct {
	c      Creator
	images map[string]*bsp.Image
	skies  map[string][6]uint32
}

func NewManager(c Creator) *Manager {
	return &Manager{
		c:      c,
		images: make(map[string]*bsp.Image),
		skies:  make(map[string][6]uint32),
	}
}

// FindImage loads textures/<name>.wal. Missing or broken textures are
// replaced by a placeholder so a level still loads.
func (m *Manager) FindImage(name string) (*bsp.Image, error) {
	if img, ok := m.images[name]; ok {
		return img, nil
	}
	w, h, rgba := m.loadWAL(name)
	img := &bsp.Image{
		Name:   name,
		Width:  w,
		Height: h,
		Handle: m.c.CreateTexture(name, w, h, TexPrefMipMap|TexPrefLinear|TexPrefRepeat, rgba),
	}
	m.images[name] = img
	return img, nil
}

func (m *Manager) loadWAL(name string) (int, int, []byte) {
	fn := "textures/" + name + ".wal"
	b, err := filesystem.ReadFile(fn)
	if err != nil {
		conlog.Printf("Couldn't load %s\n", fn)
		return Placeholder(name)
	}
	wal, err := image.DecodeWAL(b)
	if err != nil {
		conlog.Printf("%s: %v\n", fn, err)
		return Placeholder(name)
	}
	return wal.Width, wal.Height, palette.Expand(wal.Pixels, wal.Width, wal.Height)
}

var skySuffix = [6]string{"rt", "bk", "lf", "ft", "up", "dn"}

// Sky loads the six faces env/<name><suffix>.pcx. Faces are ordered
// rt, bk, lf, ft, up, dn.
func (m *Manager) Sky(name string) [6]uint32 {
	if s, ok := m.skies[name]; ok {
		return s
	}
	var s [6]uint32
	for i, suf := range skySuffix {
		fn := "env/" + name + suf + ".pcx"
		w, h, rgba := m.loadPCX(fn)
		s[i] = m.c.CreateTexture(fn, w, h, TexPrefLinear, rgba)
	}
	m.skies[name] = s
	return s
}

func (m *Manager) loadPCX(fn string) (int, int, []byte) {
	b, err := filesystem.ReadFile(fn)
	if err != nil {
		conlog.Printf("Couldn't load %s\n", fn)
		return Placeholder(fn)
	}
	p, err := image.DecodePCX(b)
	if err != nil {
		conlog.Printf("%s: %v\n", fn, err)
		return Placeholder(fn)
	}
	var table [256 * 4]uint8
	for i := 0; i < 256; i++ {
		copy(table[i*4:], p.Palette[i*3:i*3+3])
		table[i*4+3] = 255
	}
	return p.Width, p.Height, palette.ExpandWith(&table, p.Pixels, p.Width, p.Height)
}

// Placeholder is a checkerboard whose colour is derived from the name.
func Placeholder(name string) (int, int, []byte) {
	c := crc.Checksum([]byte(strings.ToLower(name)))
	r, g, b := byte(c>>8), byte(c), byte(c>>4)|0x40
	d := make([]byte, placeholderSize*placeholderSize*4)
	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			p := (y*placeholderSize + x) * 4
			if (x/8+y/8)%2 == 0 {
				d[p], d[p+1], d[p+2] = r, g, b
			} else {
				d[p], d[p+1], d[p+2] = r/2, g/2, b/2
			}
			d[p+3] = 255
		}
	}
	return placeholderSize, placeholderSize, d
}
