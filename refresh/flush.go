// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"slices"

	"gorefresh/bsp"
	"gorefresh/lightmap"
)

// flushBatches draws the chains collected for one model: the static
// lightmap pages, then the surfaces relit into the dynamic page, then the
// unlit texture chains.
func (r *Renderer) flushBatches() error {
	for page := 1; page < lightmap.MaxLightmaps; page++ {
		c := r.fs.lightmaps[page]
		if len(c) == 0 {
			continue
		}
		r.stats.VisibleLightmaps++
		r.bindLightmap(page)
		for _, s := range slices.Backward(c) {
			r.drawLightmapped(s, 0, 0)
		}
	}
	if err := r.flushDynamic(); err != nil {
		return err
	}
	r.drawTextureChains()
	return nil
}

func (r *Renderer) drawLightmapped(s *bsp.Surface, ds, dt float32) {
	r.stats.BrushPolys++
	r.bindTexture(s.TexInfo.Animation(r.animFrame))
	r.emitPolys(s, r.scrollFor(s), ds, dt)
	if r.Settings.ShowTris {
		r.fs.outlines.push(s)
	}
}

// flushDynamic places the relit surfaces on the dynamic page. Whenever the
// page is full the surfaces placed so far are drawn and the page starts
// over.
func (r *Renderer) flushDynamic() error {
	if len(r.fs.dynamic) == 0 {
		return nil
	}
	r.atlas.InitBlock()
	r.fs.placed = r.fs.placed[:0]
	draw := func() error {
		r.stats.DynamicFlushes++
		r.bindLightmap(lightmap.DynamicPage)
		for _, p := range r.fs.placed {
			ds := float32(p.s.LightS-p.x) / lightmap.BlockWidth
			dt := float32(p.s.LightT-p.y) / lightmap.BlockHeight
			r.drawLightmapped(p.s, ds, dt)
		}
		r.fs.placed = r.fs.placed[:0]
		return nil
	}
	for _, s := range slices.Backward(r.fs.dynamic) {
		x, y, err := r.atlas.AllocDynamic(s, &r.light, draw)
		if err != nil {
			return err
		}
		r.stats.DynamicRelights++
		r.fs.placed = append(r.fs.placed, placement{s: s, x: x, y: y})
	}
	if err := r.atlas.UploadBlock(true); err != nil {
		return err
	}
	return draw()
}

func (r *Renderer) drawTextureChains() {
	if len(r.fs.textureOrder) == 0 {
		return
	}
	r.g.EnableLightmap(false)
	for _, img := range r.fs.textureOrder {
		r.stats.VisibleTextures++
		for _, s := range slices.Backward(*r.fs.textures[img]) {
			r.renderBrushPoly(s, img)
		}
	}
	r.g.EnableLightmap(true)
}

// renderBrushPoly draws a surface without lightmap.
func (r *Renderer) renderBrushPoly(s *bsp.Surface, img *bsp.Image) {
	r.stats.BrushPolys++
	r.bindTexture(img)
	if s.Flags&bsp.SurfaceDrawTurb != 0 {
		inv := r.Settings.inverseIntensity()
		r.g.SetTextureEnvMode(BaseUnit, Modulate)
		r.g.SetColor(inv, inv, inv, 1)
		r.emitWaterPolys(s)
		r.g.SetTextureEnvMode(BaseUnit, Replace)
		return
	}
	r.emitPolys(s, r.scrollFor(s), 0, 0)
}

// drawAlphaSurfaces draws the translucent surfaces back to front and empties
// the chain.
func (r *Renderer) drawAlphaSurfaces() {
	if len(r.fs.alpha) == 0 {
		return
	}
	r.resetBinds()
	r.g.EnableBlend(true)
	r.g.SetTextureEnvMode(BaseUnit, Modulate)
	// the textures are prescaled up for a better lighting range
	inv := r.Settings.inverseIntensity()
	for _, s := range slices.Backward(r.fs.alpha) {
		r.stats.BrushPolys++
		r.stats.AlphaSurfaces++
		r.bindTexture(s.TexInfo.Image)
		r.g.SetColor(inv, inv, inv, Classify(s).Alpha)
		if s.Flags&bsp.SurfaceDrawTurb != 0 {
			r.emitWaterPolys(s)
		} else {
			r.emitPolys(s, r.scrollFor(s), 0, 0)
		}
	}
	r.g.SetTextureEnvMode(BaseUnit, Replace)
	r.g.SetColor(1, 1, 1, 1)
	r.g.EnableBlend(false)
	r.fs.alpha.reset()
}

func (r *Renderer) drawOutlines() {
	if !r.Settings.ShowTris || len(r.fs.outlines) == 0 {
		return
	}
	for _, s := range r.fs.outlines {
		r.emitOutlines(s)
	}
}
