// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/cvars"
	"gorefresh/lightmap"
	"gorefresh/lightstyle"
	"gorefresh/math/vec"
)

// Entity is an inline brush model placed in the world.
type Entity struct {
	Submodel    int
	Origin      vec.Vec3
	Angles      vec.Vec3
	Frame       int
	Translucent bool
}

// RefDef describes one view of the world.
type RefDef struct {
	Origin vec.Vec3
	Angles vec.Vec3
	FovX   float32
	FovY   float32
	Width  int
	Height int
	// seconds since the level started
	Time float64
	// one bit per area, nil if every area is connected
	AreaBits    []byte
	LightStyles []lightstyle.Value
	DLights     []lightmap.DynamicLight
	Entities    []Entity

	// sky box textures in the order rt, bk, lf, ft, up, dn
	Sky       [6]uint32
	SkyRotate float32
	SkyAxis   vec.Vec3
}

func (rd *RefDef) areaVisible(area int) bool {
	if rd.AreaBits == nil {
		return true
	}
	if area>>3 >= len(rd.AreaBits) {
		return false
	}
	return rd.AreaBits[area>>3]&(1<<(area&7)) != 0
}

// Settings is the renderer configuration for one frame.
type Settings struct {
	DrawWorld    bool
	NoVis        bool
	LockPVS      bool
	NoCull       bool
	FullBright   bool
	LightmapOnly bool
	Dynamic      bool
	// styles at or above this index relight into their permanent slot
	DynamicStyleMin int
	Modulate        float32
	FlashBlend      bool
	Intensity       float32
	OverBrights     float32
	ShowTris        bool
	Speeds          bool
}

func DefaultSettings() Settings {
	return Settings{
		DrawWorld:       true,
		Dynamic:         true,
		DynamicStyleMin: 32,
		Modulate:        1,
		Intensity:       1,
		OverBrights:     1,
	}
}

// SettingsFromCvars takes a snapshot of the console variables.
func SettingsFromCvars() Settings {
	return Settings{
		DrawWorld:       cvars.RDrawWorld.Bool(),
		NoVis:           cvars.RNoVis.Bool(),
		LockPVS:         cvars.GlLockPVS.Bool(),
		NoCull:          cvars.RNoCull.Bool(),
		FullBright:      cvars.RFullBright.Bool(),
		LightmapOnly:    cvars.GlLightmap.Bool(),
		Dynamic:         cvars.GlDynamic.Bool(),
		DynamicStyleMin: int(cvars.GlDynamicStyleMin.Value()),
		Modulate:        cvars.GlModulate.Value(),
		FlashBlend:      cvars.GlFlashBlend.Bool(),
		Intensity:       cvars.Intensity.Value(),
		OverBrights:     cvars.ROverBrights.Value(),
		ShowTris:        cvars.GlShowTris.Bool(),
		Speeds:          cvars.RSpeeds.Bool(),
	}
}

func (s *Settings) inverseIntensity() float32 {
	if s.Intensity <= 0 {
		return 1
	}
	return 1 / s.Intensity
}
