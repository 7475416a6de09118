// SPDX-License-Identifier: GPL-2.0-or-later

package pack

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"
)

func TestPak(t *testing.T) {
	files := map[string][]byte{
		"maps/base1.bsp": []byte("IBSP"),
		"doc1.txt":       []byte("this is the first doc\r\n"),
	}
	var buf bytes.Buffer
	if err := Write(&buf, []string{"doc1.txt", "maps/base1.bsp"}, files); err != nil {
		t.Fatal(err)
	}
	p, err := NewReader("pak0.pak", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if p.String() != "pak0.pak" {
		t.Errorf("pack String error: want pak0.pak got %v", p.String())
	}
	if n := p.Names(); len(n) != 2 || n[0] != "doc1.txt" {
		t.Errorf("Names() = %v", n)
	}
	for name, want := range files {
		f, err := p.Open(name)
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		b, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("Could not read %s: %v", name, err)
		}
		if !bytes.Equal(b, want) {
			t.Errorf("%s contents is %q, want %q", name, b, want)
		}
	}
	if _, err := p.Open("missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) = %v, want ErrNotExist", err)
	}
}

func TestNotAPack(t *testing.T) {
	if _, err := NewReader("x", bytes.NewReader([]byte("WAD2xxxxxxxx"))); err == nil {
		t.Errorf("NewReader accepted a wad")
	}
}
