// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"testing"
)

func TestVisDecompress(t *testing.T) {
	in := []byte{0x7, 0x0, 0x5, 0x5, 0x0, 0x3, 0x1, 0x1}
	got := decompressVis(in, 12)
	want := []byte{0x7, 0x0, 0x0, 0x0, 0x0, 0x0, 0x5, 0x0, 0x0, 0x0, 0x1, 0x1}
	if !bytes.Equal(got, want) {
		t.Errorf("decompressVis(%v) = %v, want %v", in, got, want)
	}
}

func TestVisDecompressNoVis(t *testing.T) {
	got := decompressVis(nil, 3)
	if !bytes.Equal(got, []byte{0xff, 0xff, 0xff}) {
		t.Errorf("decompressVis(nil) = %v", got)
	}
}

func TestVisDecompressTruncated(t *testing.T) {
	got := decompressVis([]byte{0x3, 0x0}, 4)
	if !bytes.Equal(got, []byte{0x3, 0, 0, 0}) {
		t.Errorf("decompressVis(truncated) = %v", got)
	}
}

func TestBitset(t *testing.T) {
	b := NewBitset(40)
	for _, c := range []int{0, 15, 33, 39} {
		b.Set(c)
	}
	for _, c := range []int{0, 15, 33, 39} {
		if !b.Has(c) {
			t.Errorf("Has(%d) = false", c)
		}
	}
	for _, c := range []int{1, 14, 32, 34, 1000, -1} {
		if b.Has(c) {
			t.Errorf("Has(%d) = true", c)
		}
	}
}
