// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/google/uuid"

	"gorefresh/math/vec"
)

// leaf contents, nodes always carry ContentsNode
const (
	ContentsNode   = -1
	ContentsSolid  = 1
	ContentsWindow = 2
	ContentsAux    = 4
	ContentsLava   = 8
	ContentsSlime  = 16
	ContentsWater  = 32
	ContentsMist   = 64
	ContentsLiquid = ContentsLava | ContentsSlime | ContentsWater
)

// texinfo flags as written by the map compiler
const (
	SurfLight       = 0x1
	SurfSlick       = 0x2
	SurfSky         = 0x4
	SurfWarp        = 0x8
	SurfTrans33     = 0x10
	SurfTrans66     = 0x20
	SurfFlowing     = 0x40
	SurfNoDraw      = 0x80
	SurfAlphaTest   = 0x400
	SurfAlphaBanner = 0x800
)

// surface flags set by the loader
const (
	SurfacePlaneBack  = 0x2
	SurfaceDrawSky    = 0x4
	SurfaceDrawTurb   = 0x10
	SurfaceUnderWater = 0x80
)

const (
	BackFaceEpsilon = 0.01
	// light styles per surface
	MaxLightmaps = 4
	// terminates Surface.Styles
	StyleNone = 255
)

type Plane struct {
	Normal   vec.Vec3
	Dist     float32
	Type     byte // 0-2 axial, 3-5 mostly axial
	SignBits byte // bit n set if Normal[n] < 0
}

// Node is an internal node of the tree. Children >= 0 refer to Model.Nodes,
// negative children refer to leaf -(child+1).
type Node struct {
	Plane        *Plane
	Children     [2]int32
	Parent       int32 // -1 for a head node
	VisFrame     int
	Mins, Maxs   vec.Vec3
	FirstSurface int
	NumSurfaces  int
}

type Leaf struct {
	Contents     int32
	Cluster      int // -1 outside of any cluster
	Area         int
	MarkSurfaces []int32 // indices into Model.Surfaces
	Parent       int32
	VisFrame     int
	Mins, Maxs   vec.Vec3
}

// LeafIndex converts a negative child reference into a leaf index.
func LeafIndex(child int32) int {
	return int(-1 - child)
}

// Vertex is one corner of a polygon fan with base and lightmap coordinates.
type Vertex struct {
	Pos    vec.Vec3
	S, T   float32
	LightS float32
	LightT float32
}

type Poly struct {
	Verts []Vertex
}

// Image is a base texture. Handle is assigned by the graphics backend.
type Image struct {
	Name   string
	Width  int
	Height int
	Handle uint32
}

type TexInfo struct {
	Vecs      [2][4]float32
	Flags     int
	Value     int
	Name      string
	Image     *Image
	Next      *TexInfo // animation chain, nil when not animated
	NumFrames int
}

// Animation returns the image for the given animation frame.
func (t *TexInfo) Animation(frame int) *Image {
	if t.Next == nil {
		return t.Image
	}
	tex := t
	for c := frame % t.NumFrames; c > 0; c-- {
		tex = tex.Next
	}
	return tex.Image
}

type Surface struct {
	Plane       *Plane
	Flags       int
	TexInfo     *TexInfo
	TextureMins [2]int
	Extents     [2]int

	// static lightmap placement, assigned once while building the atlas
	LightmapPage int
	LightS       int
	LightT       int

	Styles      [MaxLightmaps]byte
	CachedLight [MaxLightmaps]float32
	Samples     []byte

	DLightFrame int
	DLightBits  uint32
	VisFrame    int

	Polys []*Poly
}

// LightmapSize returns the lightmap footprint in texels.
func (s *Surface) LightmapSize() (int, int) {
	return (s.Extents[0] >> 4) + 1, (s.Extents[1] >> 4) + 1
}

// Style returns the style in slot i, StyleNone past the last slot.
func (s *Surface) Style(i int) byte {
	if i < 0 || i >= MaxLightmaps {
		return StyleNone
	}
	return s.Styles[i]
}

// SetLightmapCoords records the static placement and recomputes the
// lightmap coordinates of every vertex.
func (s *Surface) SetLightmapCoords(page, ls, lt int) {
	s.LightmapPage = page
	s.LightS = ls
	s.LightT = lt
	ti := s.TexInfo
	for _, p := range s.Polys {
		for i := range p.Verts {
			v := &p.Verts[i]
			ds := texDot(v.Pos, ti.Vecs[0]) - float32(s.TextureMins[0])
			dt := texDot(v.Pos, ti.Vecs[1]) - float32(s.TextureMins[1])
			v.LightS = (ds + float32(ls*16) + 8) / (BlockWidth * 16)
			v.LightT = (dt + float32(lt*16) + 8) / (BlockHeight * 16)
		}
	}
}

func texDot(p vec.Vec3, v [4]float32) float32 {
	return p[0]*v[0] + p[1]*v[1] + p[2]*v[2] + v[3]
}

// lightmap page size in texels
const (
	BlockWidth  = 128
	BlockHeight = 128
)

type Submodel struct {
	Mins, Maxs vec.Vec3
	Origin     vec.Vec3
	Radius     float32
	HeadNode   int
	FirstFace  int
	NumFaces   int
}

type Model struct {
	// ID changes with every load, renderers use it to drop cached state
	ID       uuid.UUID
	Name     string
	Checksum uint16

	Planes    []Plane
	Nodes     []Node
	Leafs     []Leaf
	Surfaces  []*Surface
	TexInfos  []*TexInfo
	Submodels []Submodel
	Entities  []*Entity
	LightData []byte

	vis *visibility
}

// HasVis reports whether the level carries compiled visibility.
func (m *Model) HasVis() bool {
	return m.vis != nil
}

func (m *Model) NumClusters() int {
	if m.vis == nil {
		return 0
	}
	return m.vis.numClusters
}
