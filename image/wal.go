// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

type walHeader struct {
	Name     [32]byte
	Width    uint32
	Height   uint32
	Offsets  [4]uint32
	AnimName [32]byte
	Flags    int32
	Contents int32
	Value    int32
}

const walHeaderSize = 100

// WAL is the first mip level of a wall texture. Pixels index the global
// palette.
type WAL struct {
	Name   string
	Next   string
	Width  int
	Height int
	Flags  int32
	Value  int32
	Pixels []byte
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func DecodeWAL(data []byte) (*WAL, error) {
	var h walHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "wal header")
	}
	w, ht := int(h.Width), int(h.Height)
	if w == 0 || ht == 0 || w > 4096 || ht > 4096 {
		return nil, errors.Errorf("bad wal size %dx%d", w, ht)
	}
	start := int(h.Offsets[0])
	if start < walHeaderSize || start+w*ht > len(data) {
		return nil, errors.Errorf("wal mip 0 at %d out of range", start)
	}
	return &WAL{
		Name:   cstring(h.Name[:]),
		Next:   cstring(h.AnimName[:]),
		Width:  w,
		Height: ht,
		Flags:  h.Flags,
		Value:  h.Value,
		Pixels: data[start : start+w*ht],
	}, nil
}
