// SPDX-License-Identifier: GPL-2.0-or-later

// Package image decodes the paletted Quake 2 image formats and writes
// screenshots.
package image

import (
	"image"
	"image/png"
	"log"
	"os"

	"github.com/pkg/errors"
)

// Write expects RGBA 8bit data with the first row at the top.
func Write(name string, data []byte, width, height int) error {
	if len(data) < width*height*4 {
		return errors.Errorf("image %s: %d bytes for %dx%d", name, len(data), width, height)
	}
	img := &image.NRGBA{
		Pix:    data,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}

	f, err := os.Create(name)
	if err != nil {
		log.Println(err)
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Println(err)
		return err
	}
	return nil
}

// FlipRows reverses the row order of RGBA data in place. GL reads the frame
// buffer bottom up.
func FlipRows(data []byte, width, height int) {
	stride := width * 4
	row := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := data[top*stride : (top+1)*stride]
		b := data[bottom*stride : (bottom+1)*stride]
		copy(row, t)
		copy(t, b)
		copy(b, row)
	}
}
