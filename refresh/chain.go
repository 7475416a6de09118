// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/bsp"
	"gorefresh/lightmap"
)

// chain is a frame scoped LIFO list of surfaces. The last pushed surface is
// the head, walk it with slices.Backward.
type chain []*bsp.Surface

func (c *chain) push(s *bsp.Surface) {
	*c = append(*c, s)
}

func (c *chain) reset() {
	clear(*c)
	*c = (*c)[:0]
}

// placement is a surface relit into the dynamic page at x,y.
type placement struct {
	s    *bsp.Surface
	x, y int
}

// FrameState holds the surface chains built during traversal. It is rebuilt
// every frame and never read across frames.
type FrameState struct {
	lightmaps    [lightmap.MaxLightmaps]chain
	dynamic      chain
	textures     map[*bsp.Image]*chain
	textureOrder []*bsp.Image
	alpha        chain
	outlines     chain
	placed       []placement
	sky          skyBounds
}

func newFrameState() *FrameState {
	f := &FrameState{
		textures: make(map[*bsp.Image]*chain),
	}
	f.sky.clear()
	return f
}

// resetBatches drops the chains flushed per model.
func (f *FrameState) resetBatches() {
	for i := range f.lightmaps {
		if len(f.lightmaps[i]) != 0 {
			f.lightmaps[i].reset()
		}
	}
	f.dynamic.reset()
	for _, img := range f.textureOrder {
		f.textures[img].reset()
	}
	f.textureOrder = f.textureOrder[:0]
}

// reset drops everything, including the chains of the whole frame.
func (f *FrameState) reset() {
	f.resetBatches()
	f.alpha.reset()
	f.outlines.reset()
	f.sky.clear()
}

func (f *FrameState) addTexture(img *bsp.Image, s *bsp.Surface) {
	c, ok := f.textures[img]
	if !ok {
		c = &chain{}
		f.textures[img] = c
	}
	if len(*c) == 0 {
		f.textureOrder = append(f.textureOrder, img)
	}
	c.push(s)
}
