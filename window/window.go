// SPDX-License-Identifier: GPL-2.0-or-later

package window

import (
	"log"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	window  *sdl.Window
	context sdl.GLContext
)

type Mode struct {
	Width, Height int32
	Bpp           int32
	Fsaa          int
	Fullscreen    bool
	VSync         bool
}

func Get() *sdl.Window {
	return window
}

func Size() (int, int) {
	w, h := window.GetSize()
	return int(w), int(h)
}

func Shutdown() {
	sdl.GLDeleteContext(context)
	context = nil
	window.Destroy()
	window = nil
}

func Fullscreen() bool {
	return window.GetFlags()&sdl.WINDOW_FULLSCREEN != 0
}

func createWindow(title string, m Mode) (*sdl.Window, error) {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_HIDDEN)
	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, m.Width, m.Height, flags)
	if err == nil {
		return w, nil
	}
	// retry with fewer demands, first multisampling then depth and stencil
	sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 0)
	sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, 0)
	if w, err = sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, m.Width, m.Height, flags); err == nil {
		return w, nil
	}
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 16)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 0)
	if w, err = sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, m.Width, m.Height, flags); err == nil {
		return w, nil
	}
	return nil, errors.Wrap(err, "couldn't create window")
}

// SetMode opens the window and its 4.6 core context. Must run on the main
// thread.
func SetMode(title string, m Mode) error {
	depthbits, stencilbits := 24, 8
	if m.Bpp == 16 {
		depthbits, stencilbits = 16, 0
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 6)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, depthbits)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, stencilbits)
	if m.Fsaa > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, m.Fsaa)
	}

	if window == nil {
		w, err := createWindow(title, m)
		if err != nil {
			return err
		}
		window = w
	}
	window.SetSize(m.Width, m.Height)
	window.SetPosition(sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED)
	if m.Fullscreen {
		if err := window.SetFullscreen(sdl.WINDOW_FULLSCREEN_DESKTOP); err != nil {
			return errors.Wrap(err, "couldn't set fullscreen state mode")
		}
	}
	window.Show()

	if context == nil {
		var err error
		context, err = window.GLCreateContext()
		if err != nil {
			return errors.Wrap(err, "couldn't create GL context")
		}
		if err := gl.Init(); err != nil {
			return errors.Wrap(err, "couldn't init gl")
		}
		gl.DebugMessageCallback(debugCb, unsafe.Pointer(nil))
	}
	interval := 0
	if m.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.Printf("Could not set swap interval: %v", err)
	}
	return nil
}

func debugCb(
	source uint32,
	gltype uint32,
	id uint32,
	severity uint32,
	length int32,
	message string,
	userParam unsafe.Pointer) {
	if severity == gl.DEBUG_SEVERITY_HIGH {
		log.Panicf("[GL_DEBUG] source %d gltype %d id %d severity %d length %d: %s", source, gltype, id, severity, length, message)
	} else {
		log.Printf("[GL_DEBUG] source %d gltype %d id %d severity %d length %d: %s", source, gltype, id, severity, length, message)
	}
}

func EndRendering() {
	window.GLSwap()
}
