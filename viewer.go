// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"gorefresh/alias"
	"gorefresh/bsp"
	"gorefresh/cbuf"
	"gorefresh/cmd"
	cmdl "gorefresh/commandline"
	"gorefresh/conlog"
	"gorefresh/cvar"
	"gorefresh/cvars"
	"gorefresh/filesystem"
	"gorefresh/gametime"
	"gorefresh/glh"
	"gorefresh/image"
	"gorefresh/lightmap"
	"gorefresh/lightstyle"
	"gorefresh/math/vec"
	"gorefresh/refresh"
	"gorefresh/shader"
	"gorefresh/texture"
	"gorefresh/window"
)

const (
	viewHeight = 22
	moveSpeed  = 300
	turnSpeed  = 140
	defaultSky = "unit1_"
)

type viewer struct {
	g      *glh.Backend
	r      *refresh.Renderer
	tex    *texture.Manager
	styles *lightstyle.Table
	cb     *cbuf.CommandBuffer
	rd     refresh.RefDef

	clock *gametime.GameTime
	flash bool
	shot  string
	quit  bool
}

func newViewer(args []string) (*viewer, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, err
	}
	m := window.Mode{
		Width:      int32(cmdl.Width(1024)),
		Height:     int32(cmdl.Height(768)),
		Bpp:        int32(cmdl.Bpp()),
		Fsaa:       cmdl.Fsaa(),
		Fullscreen: cmdl.Fullscreen(),
		VSync:      cmdl.VSync(),
	}
	if err := window.SetMode("gorefresh", m); err != nil {
		return nil, err
	}
	g, err := glh.NewBackend(shader.NewRegistry())
	if err != nil {
		return nil, err
	}
	v := &viewer{
		g:      g,
		r:      refresh.NewRenderer(g),
		tex:    texture.NewManager(g),
		styles: lightstyle.NewTable(),
		cb:     cbuf.New(),
	}
	al := alias.New()
	if err := al.Register(cmd.Global()); err != nil {
		return nil, err
	}
	v.cb.SetCommandExecutors([]cbuf.Efunc{cmd.Execute, al.Executor(v.cb), cvar.Execute})
	v.styles.LoadStandard()
	if err := v.registerCommands(); err != nil {
		return nil, err
	}

	// the command line may change settings the lightmaps are built with
	v.cb.AddText("exec autoexec.cfg\n")
	for i := 0; i+1 < len(args); i += 2 {
		v.cb.AddText(fmt.Sprintf("%s \"%s\"\n", args[i], args[i+1]))
	}
	if err := v.cb.Execute(); err != nil {
		conlog.Printf("%v\n", err)
	}
	v.r.Settings = refresh.SettingsFromCvars()
	if err := v.loadMap(cmdl.Map()); err != nil {
		return nil, err
	}
	v.clock = gametime.New()
	return v, nil
}

func (v *viewer) registerCommands() error {
	if err := v.r.RegisterCommands(); err != nil {
		return err
	}
	for name, f := range map[string]cmd.QFunc{
		"exec":       v.exec,
		"screenshot": v.screenshot,
		"lightpoint": v.lightpoint,
		"flashlight": v.flashlight,
		"quit":       v.quitCmd,
	} {
		if err := cmd.AddCommand(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (v *viewer) exec(a cmd.Arguments) error {
	n := a.Argv(1).String()
	if n == "" {
		conlog.Printf("exec <filename> : execute a script file\n")
		return nil
	}
	b, err := filesystem.ReadFile(n)
	if err != nil {
		conlog.Printf("couldn't exec %s\n", n)
		return nil
	}
	v.cb.InsertText(string(b))
	return nil
}

func (v *viewer) screenshot(a cmd.Arguments) error {
	n := a.Argv(1).String()
	if n == "" {
		n = fmt.Sprintf("shot%s.png", time.Now().Format("20060102-150405"))
	}
	v.shot = n
	return nil
}

func (v *viewer) lightpoint(_ cmd.Arguments) error {
	c := v.r.World().LightAt(v.rd.Origin, v.styles.Values(), cvars.GlModulate.Value())
	conlog.Printf("light at %v: %v\n", v.rd.Origin, c)
	return nil
}

func (v *viewer) flashlight(_ cmd.Arguments) error {
	v.flash = !v.flash
	return nil
}

func (v *viewer) quitCmd(_ cmd.Arguments) error {
	v.quit = true
	return nil
}

func (v *viewer) loadMap(name string) error {
	fn := "maps/" + name + ".bsp"
	b, err := filesystem.ReadFile(fn)
	if err != nil {
		return errors.Wrapf(err, "couldn't load %s", fn)
	}
	m, err := bsp.Load(fn, b, v.tex)
	if err != nil {
		return err
	}
	if err := v.r.SetWorld(m); err != nil {
		return err
	}
	v.r.Atlas().PrintInfo()

	v.rd = refresh.RefDef{
		FovX:     90,
		Entities: brushEntities(m),
	}
	sky := defaultSky
	if ws := m.FindEntity("worldspawn"); ws != nil {
		if s, ok := ws.Property("sky"); ok {
			sky = s
		}
		if r, ok := ws.Float("skyrotate"); ok {
			v.rd.SkyRotate = r
		}
		if a, ok := ws.Vector("skyaxis"); ok {
			v.rd.SkyAxis = a
		}
	}
	v.rd.Sky = v.tex.Sky(sky)
	if p := m.FindEntity("info_player_start"); p != nil {
		o, _ := p.Vector("origin")
		o[2] += viewHeight
		v.rd.Origin = o
		if a, ok := p.Float("angle"); ok {
			v.rd.Angles[1] = a
		}
	}
	return nil
}

// brushEntities places every entity with an inline model ("*n").
func brushEntities(m *bsp.Model) []refresh.Entity {
	var es []refresh.Entity
	for _, e := range m.Entities {
		s, ok := e.Property("model")
		if !ok || !strings.HasPrefix(s, "*") {
			continue
		}
		n, err := strconv.Atoi(s[1:])
		if err != nil || n <= 0 || n >= len(m.Submodels) {
			continue
		}
		o, _ := e.Vector("origin")
		es = append(es, refresh.Entity{
			Submodel: n,
			Origin:   o,
		})
	}
	return es
}

// fovY derives the vertical field of view from the horizontal one.
func fovY(fovX float32, w, h int) float32 {
	if w <= 0 || h <= 0 {
		return fovX
	}
	x := float32(w) / math32.Tan(fovX/360*math32.Pi)
	return math32.Atan(float32(h)/x) * 360 / math32.Pi
}

func (v *viewer) events() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			if t.Type == sdl.KEYDOWN && t.Keysym.Sym == sdl.K_ESCAPE {
				v.quit = true
			}
		case *sdl.QuitEvent:
			v.quit = true
		}
	}
}

func (v *viewer) move(dt float32) {
	keys := sdl.GetKeyboardState()
	down := func(s sdl.Scancode) float32 {
		if keys[s] != 0 {
			return 1
		}
		return 0
	}
	v.rd.Angles[1] += turnSpeed * dt * (down(sdl.SCANCODE_LEFT) - down(sdl.SCANCODE_RIGHT))
	v.rd.Angles[0] += turnSpeed * dt * (down(sdl.SCANCODE_DOWN) - down(sdl.SCANCODE_UP))
	v.rd.Angles[0] = math32.Max(-89, math32.Min(89, v.rd.Angles[0]))

	forward, right, up := vec.AngleVectors(v.rd.Angles)
	step := moveSpeed * dt
	v.rd.Origin = vec.Add(v.rd.Origin, vec.Scale(step*(down(sdl.SCANCODE_W)-down(sdl.SCANCODE_S)), forward))
	v.rd.Origin = vec.Add(v.rd.Origin, vec.Scale(step*(down(sdl.SCANCODE_D)-down(sdl.SCANCODE_A)), right))
	v.rd.Origin = vec.Add(v.rd.Origin, vec.Scale(step*(down(sdl.SCANCODE_SPACE)-down(sdl.SCANCODE_C)), up))
}

func (v *viewer) frame() error {
	dt := float32(v.clock.FrameTime())
	v.events()
	v.move(dt)
	if err := v.cb.Execute(); err != nil {
		conlog.Printf("%v\n", err)
	}

	t := v.clock.Time()
	v.styles.Animate(t, lightstyle.Flat(cvars.RFlatLightStyles.Value()))
	w, h := window.Size()
	v.rd.Width, v.rd.Height = w, h
	v.rd.FovY = fovY(v.rd.FovX, w, h)
	v.rd.Time = t
	v.rd.LightStyles = v.styles.Values()
	v.rd.DLights = v.rd.DLights[:0]
	if v.flash {
		v.rd.DLights = append(v.rd.DLights, lightmap.DynamicLight{
			Origin:    v.rd.Origin,
			Intensity: 200 + 20*math32.Sin(float32(t)*10),
			Color:     vec.Vec3{1, 0.9, 0.7},
		})
	}
	v.r.Settings = refresh.SettingsFromCvars()
	if err := v.r.RenderView(&v.rd); err != nil {
		return err
	}
	if v.shot != "" {
		d := glh.ReadPixels(w, h)
		image.FlipRows(d, w, h)
		if err := image.Write(v.shot, d, w, h); err != nil {
			conlog.Printf("screenshot: %v\n", err)
		} else {
			conlog.Printf("Wrote %s\n", v.shot)
		}
		v.shot = ""
	}
	window.EndRendering()
	return nil
}

func (v *viewer) shutdown() {
	window.Shutdown()
	sdl.Quit()
}
