// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"log"
	"time"

	"github.com/gopxl/mainthread/v2"
	"github.com/veandco/go-sdl2/sdl"

	cmdl "gorefresh/commandline"
	"gorefresh/filesystem"
	"gorefresh/palette"
)

func main() {
	flag.Parse()
	mainthread.Run(run)
}

func run() {
	if err := runViewer(); err != nil {
		log.Fatal(err)
	}
}

func runViewer() error {
	v := sdl.Version{}
	sdl.GetVersion(&v)
	log.Printf("Found SDL version %d.%d.%d\n", v.Major, v.Minor, v.Patch)

	filesystem.UseBaseDir(cmdl.BaseDirectory())
	if g := cmdl.Game(); g != "" {
		filesystem.UseGameDir(g)
	}
	if err := palette.Init(); err != nil {
		log.Printf("%v, textures use a grey ramp", err)
	}

	var vw *viewer
	if err := mainthread.CallErr(func() error {
		var err error
		vw, err = newViewer(flag.Args())
		return err
	}); err != nil {
		return err
	}
	defer mainthread.Call(vw.shutdown)
	for !vw.quit {
		if !vw.clock.UpdateTime() {
			time.Sleep(time.Millisecond)
			continue
		}
		if err := mainthread.CallErr(vw.frame); err != nil {
			return err
		}
	}
	return nil
}
