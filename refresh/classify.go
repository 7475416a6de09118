// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/bsp"
)

type Kind uint8

const (
	Opaque Kind = iota
	OpaqueFlowing
	Liquid
	Translucent
	Sky
)

func (k Kind) String() string {
	switch k {
	case Opaque:
		return "opaque"
	case OpaqueFlowing:
		return "opaque flowing"
	case Liquid:
		return "liquid"
	case Translucent:
		return "translucent"
	case Sky:
		return "sky"
	}
	return "unknown"
}

// Class is the draw class of a surface. Alpha is only meaningful for
// Translucent surfaces.
type Class struct {
	Kind  Kind
	Alpha float32
}

// Classify decides how s is drawn.
func Classify(s *bsp.Surface) Class {
	f := s.TexInfo.Flags
	switch {
	case f&bsp.SurfSky != 0:
		return Class{Kind: Sky}
	case f&bsp.SurfTrans33 != 0:
		return Class{Kind: Translucent, Alpha: 0.33}
	case f&bsp.SurfTrans66 != 0:
		return Class{Kind: Translucent, Alpha: 0.66}
	case f&(bsp.SurfAlphaTest|bsp.SurfAlphaBanner) != 0:
		return Class{Kind: Translucent, Alpha: 1}
	case s.Flags&bsp.SurfaceDrawTurb != 0:
		return Class{Kind: Liquid}
	case f&bsp.SurfFlowing != 0:
		return Class{Kind: OpaqueFlowing}
	}
	return Class{Kind: Opaque}
}
