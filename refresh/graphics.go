// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/bsp"
	"gorefresh/lightmap"
	"gorefresh/math/vec"
)

// Unit is a texture unit. Brush surfaces are drawn with the base texture on
// BaseUnit and the lightmap page on LightmapUnit.
type Unit int

const (
	BaseUnit Unit = iota
	LightmapUnit
)

type TexEnv int

const (
	Replace TexEnv = iota
	Modulate
	// Combine modulates and scales the result by the rgb scale.
	Combine
)

func (e TexEnv) String() string {
	switch e {
	case Replace:
		return "replace"
	case Modulate:
		return "modulate"
	case Combine:
		return "combine"
	}
	return "unknown"
}

type Primitive int

const (
	// Polygon is a triangle fan.
	Polygon Primitive = iota
	// Outline is an untextured line loop drawn without depth test.
	Outline
)

// Transform places an inline model or the sky box. The rotation by Angle
// degrees around Axis is applied after Angles.
type Transform struct {
	Origin vec.Vec3
	Angles vec.Vec3
	Axis   vec.Vec3
	Angle  float32
}

// Graphics is the drawing backend. All calls succeed, pixel slices are only
// valid during the call.
type Graphics interface {
	lightmap.Uploader
	BeginFrame(rd *RefDef)
	BindTexture(handle uint32)
	BindLightmap(page int)
	SetTextureEnvMode(u Unit, mode TexEnv)
	SetRGBScale(scale float32)
	EnableLightmap(enable bool)
	EnableBlend(enable bool)
	SetColor(r, g, b, a float32)
	PushTransform(t Transform)
	PopTransform()
	SubmitPolygon(p Primitive, verts []bsp.Vertex)
}
