// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/bsp"
	"gorefresh/lightmap"
)

func (r *Renderer) drawWorld() error {
	if !r.Settings.DrawWorld {
		return nil
	}
	r.modelOrg = r.rd.Origin
	r.animFrame = int(r.rd.Time * 2)
	r.resetBinds()
	r.fs.resetBatches()
	r.fs.sky.clear()

	r.g.SetColor(1, 1, 1, 1)
	r.setTexEnvs()
	r.g.EnableLightmap(true)
	r.recursiveWorldNode(0)
	if r.err != nil {
		r.g.EnableLightmap(false)
		return r.err
	}
	err := r.flushBatches()
	r.g.EnableLightmap(false)
	if err != nil {
		return err
	}
	r.drawSkyBox()
	return nil
}

func (r *Renderer) recursiveWorldNode(n int32) {
	w := r.world
	if n < 0 {
		leaf := &w.Leafs[bsp.LeafIndex(n)]
		if leaf.Contents == bsp.ContentsSolid ||
			leaf.VisFrame != r.pvs.frame ||
			r.cullBox(leaf.Mins, leaf.Maxs) {
			return
		}
		// check for door connected areas
		if !r.rd.areaVisible(leaf.Area) {
			return
		}
		for _, ms := range leaf.MarkSurfaces {
			w.Surfaces[ms].VisFrame = r.frameCount
		}
		return
	}

	node := &w.Nodes[n]
	if node.VisFrame != r.pvs.frame || r.cullBox(node.Mins, node.Maxs) {
		return
	}
	side, sideBit := 0, 0
	if node.Plane.Distance(r.modelOrg) < 0 {
		side, sideBit = 1, bsp.SurfacePlaneBack
	}
	r.recursiveWorldNode(node.Children[side])
	for i := 0; i < node.NumSurfaces; i++ {
		s := w.Surfaces[node.FirstSurface+i]
		if s.VisFrame != r.frameCount {
			continue
		}
		if s.Flags&bsp.SurfacePlaneBack != sideBit {
			continue
		}
		r.addWorldSurface(s)
	}
	r.recursiveWorldNode(node.Children[side^1])
}

func (r *Renderer) addWorldSurface(s *bsp.Surface) {
	switch Classify(s).Kind {
	case Sky:
		r.fs.sky.addSurface(s, r.rd.Origin)
	case Translucent:
		r.fs.alpha.push(s)
	case Liquid:
		r.fs.addTexture(s.TexInfo.Animation(r.animFrame), s)
	default:
		r.addLightmapped(s)
	}
}

// addLightmapped puts an opaque surface on the chain of its lightmap page.
// A surface whose lightmap is stale is relit first, either into its
// permanent slot or later into the dynamic page.
func (r *Renderer) addLightmapped(s *bsp.Surface) {
	if r.Settings.FullBright || len(r.world.LightData) == 0 || !lightmap.HasLightmap(s) {
		r.fs.addTexture(s.TexInfo.Animation(r.animFrame), s)
		return
	}
	slot, stale := lightmap.Stale(s, r.light.Styles)
	dlit := s.DLightFrame == r.frameCount
	if !r.Settings.Dynamic || (!stale && !dlit) {
		r.fs.lightmaps[s.LightmapPage].push(s)
		return
	}
	style := int(s.Style(slot))
	if (style >= r.Settings.DynamicStyleMin || style == 0) && !dlit {
		smax, tmax := s.LightmapSize()
		if err := lightmap.BuildLightMap(s, &r.light, r.relight, smax*lightmap.Bytes); err != nil {
			r.fail(err)
			return
		}
		lightmap.SetCacheState(s, r.light.Styles)
		r.g.UploadTextureRegion(s.LightmapPage, s.LightS, s.LightT, smax, tmax, r.relight[:smax*tmax*lightmap.Bytes])
		r.stats.PermanentRelights++
		r.fs.lightmaps[s.LightmapPage].push(s)
		return
	}
	r.fs.dynamic.push(s)
}
