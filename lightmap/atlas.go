// SPDX-License-Identifier: GPL-2.0-or-later

// Package lightmap packs surface lightmaps into texture pages and keeps
// them up to date with the animated light styles.
package lightmap

import (
	"github.com/pkg/errors"

	"gorefresh/bsp"
	"gorefresh/conlog"
)

const (
	BlockWidth  = bsp.BlockWidth
	BlockHeight = bsp.BlockHeight
	// texture pages, page 0 is reserved for dynamic relights
	MaxLightmaps = 128
	Bytes        = 4
	DynamicPage  = 0
	// first static page
	firstPage = 1
)

var (
	// ErrBlockTooLarge is returned for a block that does not fit an empty
	// page. This can only be caused by a broken level.
	ErrBlockTooLarge    = errors.New("lightmap block does not fit an empty page")
	ErrTooManyLightmaps = errors.New("MAX_LIGHTMAPS exceeded")
)

// Uploader receives finished lightmap pages. Pixels are RGBA rows of w
// texels without padding and are only valid during the call.
type Uploader interface {
	UploadFullTexture(page int, pixels []byte)
	UploadTextureRegion(page, x, y, w, h int, pixels []byte)
}

// Atlas owns the page being filled and its staging raster.
type Atlas struct {
	alloc   *Allocator
	current int
	staging []byte
	up      Uploader
}

func NewAtlas(up Uploader) *Atlas {
	return &Atlas{
		alloc:   NewAllocator(BlockWidth, BlockHeight),
		current: firstPage,
		staging: make([]byte, BlockWidth*BlockHeight*Bytes),
		up:      up,
	}
}

// BeginBuilding starts a new build pass and initializes the dynamic page.
func (a *Atlas) BeginBuilding() {
	a.alloc.Reset()
	clear(a.staging)
	a.current = firstPage
	a.up.UploadFullTexture(DynamicPage, a.staging)
}

// EndBuilding uploads the last static page.
func (a *Atlas) EndBuilding() error {
	return a.UploadBlock(false)
}

// Pages returns the number of static pages in use.
func (a *Atlas) Pages() int {
	return a.current - firstPage
}

// CurrentPage is the page being filled.
func (a *Atlas) CurrentPage() int {
	return a.current
}

// FillHeight is the highest column of the page being filled.
func (a *Atlas) FillHeight() int {
	return a.alloc.MaxHeight()
}

func (a *Atlas) InitBlock() {
	a.alloc.Reset()
}

// AllocBlock reserves a w x h texel block on the page being filled.
func (a *Atlas) AllocBlock(w, h int) (int, int, bool) {
	return a.alloc.Alloc(w, h)
}

// UploadBlock hands the staging raster to the uploader. The dynamic page is
// updated up to the fill height, a static page is uploaded completely and
// the atlas moves on to the next page.
func (a *Atlas) UploadBlock(dynamic bool) error {
	if dynamic {
		h := a.alloc.MaxHeight()
		a.up.UploadTextureRegion(DynamicPage, 0, 0, BlockWidth, h, a.staging[:BlockWidth*h*Bytes])
		return nil
	}
	a.up.UploadFullTexture(a.current, a.staging)
	a.current++
	if a.current == MaxLightmaps {
		return ErrTooManyLightmaps
	}
	return nil
}

// Staging returns the staging raster starting at texel x,y and its stride.
func (a *Atlas) Staging(x, y int) ([]byte, int) {
	return a.staging[(y*BlockWidth+x)*Bytes:], BlockWidth * Bytes
}

// allocWithRetry allocates a block, flushing the page once if it is full.
// flush is called with the page still holding the previous blocks.
func (a *Atlas) allocWithRetry(w, h int, flush func() error) (int, int, error) {
	if x, y, ok := a.AllocBlock(w, h); ok {
		return x, y, nil
	}
	if a.alloc.Empty() {
		return 0, 0, errors.Wrapf(ErrBlockTooLarge, "block %dx%d", w, h)
	}
	if err := flush(); err != nil {
		return 0, 0, err
	}
	a.InitBlock()
	x, y, ok := a.AllocBlock(w, h)
	if !ok {
		return 0, 0, errors.Wrapf(ErrBlockTooLarge, "consecutive calls to AllocBlock(%d,%d) failed", w, h)
	}
	return x, y, nil
}

// HasLightmap reports whether s gets a lightmap block.
func HasLightmap(s *bsp.Surface) bool {
	return s.TexInfo.Flags&(bsp.SurfSky|bsp.SurfTrans33|bsp.SurfTrans66|bsp.SurfWarp) == 0
}

// CreateSurfaceLightmap assigns the static placement of s and rasterizes
// its lightmap into the page being filled.
func (a *Atlas) CreateSurfaceLightmap(s *bsp.Surface, l *Light) error {
	if !HasLightmap(s) {
		return nil
	}
	smax, tmax := s.LightmapSize()
	x, y, err := a.allocWithRetry(smax, tmax, func() error {
		return a.UploadBlock(false)
	})
	if err != nil {
		return err
	}
	s.SetLightmapCoords(a.current, x, y)
	SetCacheState(s, l.Styles)
	dest, stride := a.Staging(x, y)
	return BuildLightMap(s, l, dest, stride)
}

// AllocDynamic places s on the dynamic page and rasterizes it there. flush
// is called when the page is full and must draw everything placed so far.
func (a *Atlas) AllocDynamic(s *bsp.Surface, l *Light, flush func() error) (int, int, error) {
	smax, tmax := s.LightmapSize()
	x, y, err := a.allocWithRetry(smax, tmax, func() error {
		if err := a.UploadBlock(true); err != nil {
			return err
		}
		return flush()
	})
	if err != nil {
		return 0, 0, err
	}
	dest, stride := a.Staging(x, y)
	if err := BuildLightMap(s, l, dest, stride); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// PrintInfo writes the atlas usage to the console.
func (a *Atlas) PrintInfo() {
	conlog.Printf("%d static lightmap pages, current page %d filled to %d of %d\n",
		a.Pages(), a.current, a.FillHeight(), BlockHeight)
}
