// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"gorefresh/cvar"
)

var (
	RDrawWorld        *cvar.Cvar
	RNoVis            *cvar.Cvar
	RNoCull           *cvar.Cvar
	RFullBright       *cvar.Cvar
	RSpeeds           *cvar.Cvar
	ROverBrights      *cvar.Cvar
	RFlatLightStyles  *cvar.Cvar
	GlLockPVS         *cvar.Cvar
	GlLightmap        *cvar.Cvar
	GlDynamic         *cvar.Cvar
	GlDynamicStyleMin *cvar.Cvar
	GlModulate        *cvar.Cvar
	GlFlashBlend      *cvar.Cvar
	GlShowTris        *cvar.Cvar
	Intensity         *cvar.Cvar
	HostMaxFps        *cvar.Cvar
	HostTimeScale     *cvar.Cvar
)

func init() {
	RDrawWorld = cvar.MustRegister("r_drawworld", "1", cvar.NONE)
	RNoVis = cvar.MustRegister("r_novis", "0", cvar.NONE)
	RNoCull = cvar.MustRegister("r_nocull", "0", cvar.NONE)
	RFullBright = cvar.MustRegister("r_fullbright", "0", cvar.NONE)
	RSpeeds = cvar.MustRegister("r_speeds", "0", cvar.NONE)
	ROverBrights = cvar.MustRegister("r_overbrights", "1", cvar.ARCHIVE)
	RFlatLightStyles = cvar.MustRegister("r_flatlightstyles", "0", cvar.NONE)
	GlLockPVS = cvar.MustRegister("gl_lockpvs", "0", cvar.NONE)
	GlLightmap = cvar.MustRegister("gl_lightmap", "0", cvar.NONE)
	GlDynamic = cvar.MustRegister("gl_dynamic", "1", cvar.NONE)
	GlDynamicStyleMin = cvar.MustRegister("gl_dynamic_stylemin", "32", cvar.NONE)
	GlModulate = cvar.MustRegister("gl_modulate", "1", cvar.ARCHIVE)
	GlFlashBlend = cvar.MustRegister("gl_flashblend", "0", cvar.ARCHIVE)
	GlShowTris = cvar.MustRegister("gl_showtris", "0", cvar.NONE)
	Intensity = cvar.MustRegister("intensity", "1", cvar.ARCHIVE)
	HostMaxFps = cvar.MustRegister("host_maxfps", "250", cvar.ARCHIVE)
	HostTimeScale = cvar.MustRegister("host_timescale", "0", cvar.NONE)
}
