// SPDX-License-Identifier: GPL-2.0-or-later

// Package gametime paces the frame loop.
package gametime

import (
	"time"

	"gorefresh/cvars"
	"gorefresh/math"
)

type GameTime struct {
	start      time.Time
	time       float64
	oldTime    float64
	frameTime  float64
	frameCount int
}

func New() *GameTime {
	return &GameTime{
		start:     time.Now(),
		frameTime: 0.1,
	}
}

func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) OldTime() float64   { return h.oldTime }
func (h *GameTime) FrameTime() float64 { return h.frameTime }
func (h *GameTime) FrameCount() int    { return h.frameCount }

// UpdateTime advances the clock.
// Returns false if it would exceed max fps
func (h *GameTime) UpdateTime() bool {
	return h.update(time.Since(h.start).Seconds(),
		float64(cvars.HostMaxFps.Value()), float64(cvars.HostTimeScale.Value()))
}

func (h *GameTime) update(now, maxFPS, timeScale float64) bool {
	maxFPS = math.Clamp(10.0, maxFPS, 1000.0)
	if now-h.oldTime < 1/maxFPS {
		return false
	}
	h.time = now
	h.frameTime = h.time - h.oldTime
	h.oldTime = h.time
	h.frameCount++

	if timeScale > 0 {
		h.frameTime *= timeScale
	} else {
		h.frameTime = math.Clamp(0.001, h.frameTime, 0.1)
	}
	return true
}
