// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import "testing"

func TestUpdate(t *testing.T) {
	h := &GameTime{}
	tests := []struct {
		now       float64
		maxFPS    float64
		timeScale float64
		ok        bool
		frameTime float64
	}{
		{0.001, 100, 0, false, 0},
		{0.05, 100, 0, true, 0.05},
		{0.055, 100, 0, false, 0.05},
		{1.05, 100, 0, true, 0.1},
		{1.15, 100, 0.5, true, 0.05},
		// max fps is clamped to 1000
		{1.1505, 5000, 0, false, 0.05},
	}
	for i, tc := range tests {
		ok := h.update(tc.now, tc.maxFPS, tc.timeScale)
		if ok != tc.ok {
			t.Errorf("%d: update(%v) = %v, want %v", i, tc.now, ok, tc.ok)
		}
		if d := h.FrameTime() - tc.frameTime; d > 1e-9 || d < -1e-9 {
			t.Errorf("%d: FrameTime = %v, want %v", i, h.FrameTime(), tc.frameTime)
		}
	}
	if h.FrameCount() != 3 {
		t.Errorf("FrameCount = %d, want 3", h.FrameCount())
	}
}
