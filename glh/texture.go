// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"runtime"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gopxl/mainthread/v2"
)

type TexID uint32

// Texture2D is an immutable-storage RGBA8 texture. Uploads go through the
// direct state access calls and do not change the bound texture.
type Texture2D struct {
	id     uint32
	width  int
	height int
}

func deleteTexture(id uint32) {
	mainthread.CallNonBlock(func() {
		gl.DeleteTextures(1, &id)
	})
}

func levels(w, h int) int32 {
	l := int32(1)
	for w > 1 || h > 1 {
		w /= 2
		h /= 2
		l++
	}
	return l
}

func NewTexture2D(w, h int, mipmap bool) *Texture2D {
	t := &Texture2D{
		width:  w,
		height: h,
	}
	gl.CreateTextures(gl.TEXTURE_2D, 1, &t.id)
	l := int32(1)
	if mipmap {
		l = levels(w, h)
	}
	gl.TextureStorage2D(t.id, l, gl.RGBA8, int32(w), int32(h))
	runtime.AddCleanup(t, deleteTexture, t.id)
	return t
}

func (t *Texture2D) ID() TexID {
	return TexID(t.id)
}

func (t *Texture2D) Size() (int, int) {
	return t.width, t.height
}

func (t *Texture2D) SetFilter(linear, mipmap bool) {
	mag := int32(gl.NEAREST)
	min := int32(gl.NEAREST)
	if linear {
		mag = gl.LINEAR
		min = gl.LINEAR
		if mipmap {
			min = gl.LINEAR_MIPMAP_LINEAR
		}
	} else if mipmap {
		min = gl.NEAREST_MIPMAP_LINEAR
	}
	gl.TextureParameteri(t.id, gl.TEXTURE_MAG_FILTER, mag)
	gl.TextureParameteri(t.id, gl.TEXTURE_MIN_FILTER, min)
}

func (t *Texture2D) SetWrap(repeat bool) {
	w := int32(gl.CLAMP_TO_EDGE)
	if repeat {
		w = gl.REPEAT
	}
	gl.TextureParameteri(t.id, gl.TEXTURE_WRAP_S, w)
	gl.TextureParameteri(t.id, gl.TEXTURE_WRAP_T, w)
}

// Upload replaces the whole base level.
func (t *Texture2D) Upload(rgba []byte) {
	t.SubUpload(0, 0, t.width, t.height, rgba)
}

// SubUpload replaces a w*h block at x, y with tightly packed RGBA rows.
func (t *Texture2D) SubUpload(x, y, w, h int, rgba []byte) {
	if w <= 0 || h <= 0 || len(rgba) < w*h*4 {
		return
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TextureSubImage2D(t.id, 0, int32(x), int32(y), int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

func (t *Texture2D) GenerateMipmap() {
	gl.GenerateTextureMipmap(t.id)
}

// Bind makes the texture current on the given texture unit.
func (t *Texture2D) Bind(unit uint32) {
	gl.BindTextureUnit(unit, t.id)
}
