// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
)

var (
	fullscreen bool
	noVSync    bool

	bpp    int
	fsaa   int
	height int
	width  int

	basedir string
	game    string
	mapName string
)

func init() {
	flag.BoolVar(&fullscreen, "f", false, "")
	flag.BoolVar(&fullscreen, "fullscreen", false, "")
	flag.BoolVar(&noVSync, "novsync", false, "Disable vertical sync")

	flag.IntVar(&bpp, "bpp", -1, "window color depth, negative is unset")
	flag.IntVar(&fsaa, "fsaa", -1, "fsaa level, negative is unset")
	flag.IntVar(&height, "height", -1, "window height, negative is unset")
	flag.IntVar(&width, "width", -1, "window width, negative is unset")

	flag.StringVar(&basedir, "basedir", ".", "directory containing baseq2")
	flag.StringVar(&game, "game", "", "mod directory on top of baseq2")
	flag.StringVar(&mapName, "map", "base1", "level to load from maps/")
}

func BaseDirectory() string {
	return basedir
}

func Game() string {
	return game
}

func Map() string {
	return mapName
}

// Height returns the window height, falling back to def when unset.
func Height(def int) int {
	if height <= 0 {
		return def
	}
	return height
}

// Width returns the window width, falling back to def when unset.
func Width(def int) int {
	if width <= 0 {
		return def
	}
	return width
}

func Bpp() int {
	return bpp
}

func Fsaa() int {
	return fsaa
}

func Fullscreen() bool {
	return fullscreen
}

func VSync() bool {
	return !noVSync
}
