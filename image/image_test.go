// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func pcxFile(w, h int, rle []byte) []byte {
	hd := pcxHeader{
		Manufacturer: 0x0a,
		Version:      5,
		Encoding:     1,
		BitsPerPixel: 8,
		XMax:         uint16(w - 1),
		YMax:         uint16(h - 1),
		ColorPlanes:  1,
		BytesPerLine: uint16(w),
	}
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, &hd)
	b.Write(rle)
	b.WriteByte(0x0c)
	pal := make([]byte, pcxPaletteSize)
	for i := range pal {
		pal[i] = byte(i / 3)
	}
	b.Write(pal)
	return b.Bytes()
}

func TestDecodePCX(t *testing.T) {
	// row 0: run of 3 times 7, then 0xc5 as a literal run of one
	// row 1: 1 2 3 4
	rle := []byte{0xc3, 7, 0xc1, 0xc5, 1, 2, 3, 4}
	p, err := DecodePCX(pcxFile(4, 2, rle))
	if err != nil {
		t.Fatal(err)
	}
	if p.Width != 4 || p.Height != 2 {
		t.Fatalf("size %dx%d, want 4x2", p.Width, p.Height)
	}
	want := []byte{7, 7, 7, 0xc5, 1, 2, 3, 4}
	if !bytes.Equal(p.Pixels, want) {
		t.Errorf("Pixels = %v, want %v", p.Pixels, want)
	}
	if p.Palette[3*10] != 10 {
		t.Errorf("Palette[10] = %d, want 10", p.Palette[3*10])
	}
}

func TestDecodePCXBroken(t *testing.T) {
	tests := map[string][]byte{
		"short":      {0x0a, 5, 1, 8},
		"truncated":  pcxFile(4, 2, []byte{0xc3, 7}),
		"no palette": pcxFile(4, 2, []byte{0xc4, 1, 0xc4, 2})[:pcxHeaderSize+4],
	}
	for name, data := range tests {
		if _, err := DecodePCX(data); err == nil {
			t.Errorf("DecodePCX(%s) succeeded", name)
		}
	}
}

func walFile(name, next string, w, h int) []byte {
	hd := walHeader{
		Width:  uint32(w),
		Height: uint32(h),
		Flags:  8,
	}
	copy(hd.Name[:], name)
	copy(hd.AnimName[:], next)
	hd.Offsets[0] = walHeaderSize
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, &hd)
	for i := 0; i < w*h; i++ {
		b.WriteByte(byte(i))
	}
	return b.Bytes()
}

func TestDecodeWAL(t *testing.T) {
	w, err := DecodeWAL(walFile("e1u1/floor1_3", "e1u1/floor1_4", 16, 8))
	if err != nil {
		t.Fatal(err)
	}
	if w.Name != "e1u1/floor1_3" || w.Next != "e1u1/floor1_4" {
		t.Errorf("names %q %q", w.Name, w.Next)
	}
	if w.Width != 16 || w.Height != 8 || len(w.Pixels) != 128 || w.Pixels[127] != 127 {
		t.Errorf("got %dx%d with %d pixels", w.Width, w.Height, len(w.Pixels))
	}
	if w.Flags != 8 {
		t.Errorf("Flags = %d, want 8", w.Flags)
	}
}

func TestDecodeWALTruncated(t *testing.T) {
	data := walFile("a", "", 16, 8)
	if _, err := DecodeWAL(data[:len(data)-1]); err == nil {
		t.Errorf("DecodeWAL of truncated texture succeeded")
	}
}

func TestFlipRows(t *testing.T) {
	d := []byte{
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
	}
	FlipRows(d, 1, 3)
	want := []byte{3, 3, 3, 3, 2, 2, 2, 2, 1, 1, 1, 1}
	if !bytes.Equal(d, want) {
		t.Errorf("FlipRows = %v, want %v", d, want)
	}
}
