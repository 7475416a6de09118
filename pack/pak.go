// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads PAK archives: a 12 byte header followed by a directory
// of 64 byte entries.
package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

const entrySize = 64

type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader or os.ErrNotExist if the pak has no entry
// with the provided name.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NewSectionReader(p.r, q.offset, q.size), nil
}

// Names lists all entries in sorted order.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for k := range p.files {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

func (p *Pack) init() error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, 12), binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "reading pack header")
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return errors.New("not a pack")
	}
	if h.Size < 0 || h.Offset < 0 {
		return errors.New("corrupt pack directory")
	}
	filenum := h.Size / entrySize
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(filenum)*entrySize)
	p.files = make(map[string]qfile, filenum)
	for i := int32(0); i < filenum; i++ {
		var e entry
		if err := binary.Read(dir, binary.LittleEndian, &e); err != nil {
			return errors.Wrapf(err, "reading pack entry %d", i)
		}
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if _, ok := p.files[name]; ok {
			return errors.Errorf("file %s in pack is not unique", name)
		}
		p.files[name] = qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

// NewReader reads the directory of a pack held by r.
func NewReader(name string, r io.ReaderAt) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if err := p.init(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return p, nil
}

func NewPackReader(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	p, err := NewReader(name, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.c = f
	return p, nil
}

// Write creates a pack holding files, in the order given by names.
func Write(w io.Writer, names []string, files map[string][]byte) error {
	offset := int32(12)
	var data bytes.Buffer
	dir := make([]entry, 0, len(names))
	for _, n := range names {
		if len(n) >= 56 {
			return errors.Errorf("name %s too long", n)
		}
		var e entry
		copy(e.Name[:], n)
		e.Offset = offset
		e.Size = int32(len(files[n]))
		data.Write(files[n])
		offset += e.Size
		dir = append(dir, e)
	}
	h := header{
		Offset: offset,
		Size:   int32(len(dir) * entrySize),
	}
	copy(h.ID[:], "PACK")
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, dir)
}
