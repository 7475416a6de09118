// SPDX-License-Identifier: GPL-2.0-or-later

// Package refresh draws the world of a compiled level: visibility, surface
// chains, lightmap upkeep and polygon emission.
package refresh

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gorefresh/bsp"
	"gorefresh/cmd"
	"gorefresh/lightmap"
	"gorefresh/lightstyle"
	"gorefresh/math/vec"
)

const noTexture = ^uint32(0)

type Renderer struct {
	// Settings is read at the start of every frame.
	Settings Settings

	g       Graphics
	atlas   *lightmap.Atlas
	world   *bsp.Model
	worldID uuid.UUID

	pvs     pvs
	frustum [4]bsp.Plane
	fs      *FrameState
	stats   FrameStats

	frameCount int
	rd         *RefDef
	modelOrg   vec.Vec3
	animFrame  int
	scroll     float32
	light      lightmap.Light

	boundTex  uint32
	boundPage int

	verts   []bsp.Vertex
	relight []byte
	err     error
}

func NewRenderer(g Graphics) *Renderer {
	return &Renderer{
		Settings: DefaultSettings(),
		g:        g,
		atlas:    lightmap.NewAtlas(g),
		pvs:      newPVS(),
		fs:       newFrameState(),
		verts:    make([]bsp.Vertex, 0, 64),
		relight:  make([]byte, 34*34*lightmap.Bytes),
	}
}

// SetWorld makes m the world model and builds its lightmap pages.
func (r *Renderer) SetWorld(m *bsp.Model) error {
	if m == nil {
		return errors.New("SetWorld: nil model")
	}
	if r.world == nil || m.ID != r.worldID {
		r.pvs = newPVS()
		r.fs = newFrameState()
	}
	r.world = m
	r.worldID = m.ID
	return r.buildLightmaps()
}

func (r *Renderer) buildLightmaps() error {
	l := &lightmap.Light{
		Styles:   lightstyle.Unlit(),
		Frame:    -1,
		Modulate: r.Settings.Modulate,
	}
	r.atlas.BeginBuilding()
	for i, s := range r.world.Surfaces {
		if err := r.atlas.CreateSurfaceLightmap(s, l); err != nil {
			return errors.Wrapf(err, "surface %d", i)
		}
	}
	return r.atlas.EndBuilding()
}

// World returns the current world model.
func (r *Renderer) World() *bsp.Model {
	return r.world
}

// Atlas returns the lightmap atlas of the world.
func (r *Renderer) Atlas() *lightmap.Atlas {
	return r.atlas
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

func (r *Renderer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// RenderView draws the world and the inline models of rd.
func (r *Renderer) RenderView(rd *RefDef) error {
	if r.world == nil {
		return errors.New("RenderView: no world model")
	}
	r.rd = rd
	r.err = nil
	r.stats = FrameStats{}
	r.fs.reset()
	r.frameCount++
	r.scroll = flowingScroll(rd.Time)
	r.light = lightmap.Light{
		Styles:   rd.LightStyles,
		DLights:  rd.DLights,
		Frame:    r.frameCount,
		Modulate: r.Settings.Modulate,
	}
	if len(r.light.Styles) == 0 {
		r.light.Styles = lightstyle.Unlit()
	}

	if !r.Settings.FlashBlend {
		lightmap.PushLights(r.world, rd.DLights, r.frameCount)
	}
	c1, c2, err := viewClusters(r.world, rd.Origin)
	if err != nil {
		return err
	}
	r.setFrustum(rd)
	r.g.BeginFrame(rd)
	r.pvs.markLeaves(r.world, c1, c2, r.Settings.NoVis, r.Settings.LockPVS)

	if err := r.drawWorld(); err != nil {
		return err
	}
	if err := r.drawEntities(); err != nil {
		return err
	}
	r.drawAlphaSurfaces()
	r.drawOutlines()

	if r.Settings.Speeds {
		log.Printf("%s", r.stats)
	}
	return nil
}

// RegisterCommands adds the console commands of the renderer.
func (r *Renderer) RegisterCommands() error {
	return cmd.AddCommand("r_atlasinfo", func(_ cmd.Arguments) error {
		r.atlas.PrintInfo()
		return nil
	})
}

func (r *Renderer) resetBinds() {
	r.boundTex = noTexture
	r.boundPage = -1
}

func (r *Renderer) bindTexture(img *bsp.Image) {
	h := img.Handle
	if h == r.boundTex {
		return
	}
	r.boundTex = h
	r.g.BindTexture(h)
}

func (r *Renderer) bindLightmap(page int) {
	if page == r.boundPage {
		return
	}
	r.boundPage = page
	r.g.BindLightmap(page)
}

// setTexEnvs prepares both texture units for lightmapped surfaces.
func (r *Renderer) setTexEnvs() {
	r.g.SetTextureEnvMode(BaseUnit, Replace)
	switch {
	case r.Settings.LightmapOnly:
		r.g.SetTextureEnvMode(LightmapUnit, Replace)
	case r.Settings.OverBrights > 1:
		r.g.SetTextureEnvMode(LightmapUnit, Combine)
		r.g.SetRGBScale(r.Settings.OverBrights)
	default:
		r.g.SetTextureEnvMode(LightmapUnit, Modulate)
	}
}
