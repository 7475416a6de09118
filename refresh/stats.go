// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"fmt"
)

// FrameStats counts the work of one frame.
type FrameStats struct {
	BrushPolys        int
	VisibleLightmaps  int
	VisibleTextures   int
	AlphaSurfaces     int
	PermanentRelights int
	DynamicRelights   int
	DynamicFlushes    int
}

func (s FrameStats) String() string {
	return fmt.Sprintf("%4d wpoly %4d lmaps %4d tex %4d alpha %3d/%3d relit %2d dflush",
		s.BrushPolys, s.VisibleLightmaps, s.VisibleTextures, s.AlphaSurfaces,
		s.PermanentRelights, s.DynamicRelights, s.DynamicFlushes)
}
