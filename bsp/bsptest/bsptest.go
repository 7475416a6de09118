// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsptest builds small compiled levels for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"
	"sync"

	"gorefresh/bsp"
	"gorefresh/math/vec"
)

type Plane struct {
	Normal [3]float32
	Dist   float32
	Type   int32
}

type TexInfo struct {
	Vecs  [2][4]float32
	Flags int32
	Name  string
	// index of the next animation frame, 0 for none
	Next int32
}

type Face struct {
	Verts    []vec.Vec3
	Plane    int
	Side     int
	TexInfo  int
	Styles   [4]byte
	LightOfs int32 // -1 for no light samples
}

type Node struct {
	Plane     int
	Children  [2]int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace int
	NumFaces  int
}

type Leaf struct {
	Contents int32
	Cluster  int16
	Area     int16
	Mins     [3]int16
	Maxs     [3]int16
	Faces    []uint16
}

type Model struct {
	Mins, Maxs, Origin [3]float32
	HeadNode           int32
	FirstFace          int32
	NumFaces           int32
}

type Level struct {
	Entities string
	Planes   []Plane
	TexInfos []TexInfo
	Faces    []Face
	Nodes    []Node
	Leafs    []Leaf
	Models   []Model
	Lighting []byte
	// uncompressed PVS row per cluster, nil for a level without vis
	Vis [][]byte
}

const numLumps = 19

type lump struct {
	Offset int32
	Length int32
}

type dtexinfo struct {
	Vecs        [2][4]float32
	Flags       int32
	Value       int32
	Texture     [32]byte
	NextTexInfo int32
}

type dface struct {
	PlaneNum  uint16
	Side      int16
	FirstEdge int32
	NumEdges  int16
	TexInfo   int16
	Styles    [4]uint8
	LightOfs  int32
}

type dnode struct {
	PlaneNum  int32
	Children  [2]int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
}

type dleaf struct {
	Contents       int32
	Cluster        int16
	Area           int16
	Mins           [3]int16
	Maxs           [3]int16
	FirstLeafFace  uint16
	NumLeafFaces   uint16
	FirstLeafBrush uint16
	NumLeafBrushes uint16
}

// compressVis run length encodes zero bytes.
func compressVis(row []byte) []byte {
	var out []byte
	for i := 0; i < len(row); i++ {
		if row[i] != 0 {
			out = append(out, row[i])
			continue
		}
		c := byte(0)
		for i < len(row) && row[i] == 0 && c < 255 {
			c++
			i++
		}
		i--
		out = append(out, 0, c)
	}
	return out
}

func encode(v any) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, v)
	return b.Bytes()
}

// Bytes encodes the level as an IBSP version 38 file.
func (l *Level) Bytes() []byte {
	var lumps [numLumps][]byte

	var verts [][3]float32
	edges := [][2]uint16{{0, 0}} // edge 0 is never used
	var surfEdges []int32
	faces := make([]dface, len(l.Faces))
	for i, f := range l.Faces {
		first := len(surfEdges)
		base := len(verts)
		for _, v := range f.Verts {
			verts = append(verts, [3]float32(v))
		}
		for j := range f.Verts {
			surfEdges = append(surfEdges, int32(len(edges)))
			edges = append(edges, [2]uint16{uint16(base + j), uint16(base + (j+1)%len(f.Verts))})
		}
		faces[i] = dface{
			PlaneNum:  uint16(f.Plane),
			Side:      int16(f.Side),
			FirstEdge: int32(first),
			NumEdges:  int16(len(f.Verts)),
			TexInfo:   int16(f.TexInfo),
			Styles:    f.Styles,
			LightOfs:  f.LightOfs,
		}
	}
	texinfos := make([]dtexinfo, len(l.TexInfos))
	for i, t := range l.TexInfos {
		texinfos[i] = dtexinfo{Vecs: t.Vecs, Flags: t.Flags, NextTexInfo: t.Next}
		copy(texinfos[i].Texture[:], t.Name)
	}
	nodes := make([]dnode, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = dnode{
			PlaneNum:  int32(n.Plane),
			Children:  n.Children,
			Mins:      n.Mins,
			Maxs:      n.Maxs,
			FirstFace: uint16(n.FirstFace),
			NumFaces:  uint16(n.NumFaces),
		}
	}
	var leafFaces []uint16
	leafs := make([]dleaf, len(l.Leafs))
	for i, lf := range l.Leafs {
		leafs[i] = dleaf{
			Contents:      lf.Contents,
			Cluster:       lf.Cluster,
			Area:          lf.Area,
			Mins:          lf.Mins,
			Maxs:          lf.Maxs,
			FirstLeafFace: uint16(len(leafFaces)),
			NumLeafFaces:  uint16(len(lf.Faces)),
		}
		leafFaces = append(leafFaces, lf.Faces...)
	}
	if l.Vis != nil {
		n := len(l.Vis)
		var rows []byte
		offsets := make([][2]int32, n)
		for i, r := range l.Vis {
			offsets[i][0] = int32(4 + 8*n + len(rows))
			offsets[i][1] = offsets[i][0]
			rows = append(rows, compressVis(r)...)
		}
		vis := encode(int32(n))
		vis = append(vis, encode(offsets)...)
		lumps[3] = append(vis, rows...)
	}

	lumps[0] = []byte(l.Entities)
	lumps[1] = encode(l.Planes)
	lumps[2] = encode(verts)
	lumps[4] = encode(nodes)
	lumps[5] = encode(texinfos)
	lumps[6] = encode(faces)
	lumps[7] = l.Lighting
	lumps[8] = encode(leafs)
	lumps[9] = encode(leafFaces)
	lumps[11] = encode(edges)
	lumps[12] = encode(surfEdges)
	lumps[13] = encode(l.Models)

	var dir [numLumps]lump
	offset := int32(8 + 8*numLumps)
	var body []byte
	for i, d := range lumps {
		dir[i] = lump{Offset: offset, Length: int32(len(d))}
		body = append(body, d...)
		offset += int32(len(d))
	}
	var out bytes.Buffer
	out.WriteString("IBSP")
	binary.Write(&out, binary.LittleEndian, int32(38))
	binary.Write(&out, binary.LittleEndian, dir)
	out.Write(body)
	return out.Bytes()
}

// Images resolves every name to a square image of Size texels, returning
// the same *bsp.Image for the same name.
type Images struct {
	Size   int
	mu     sync.Mutex
	images map[string]*bsp.Image
}

func (i *Images) FindImage(name string) (*bsp.Image, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.images == nil {
		i.images = make(map[string]*bsp.Image)
	}
	if img, ok := i.images[name]; ok {
		return img, nil
	}
	size := i.Size
	if size == 0 {
		size = 64
	}
	img := &bsp.Image{
		Name:   name,
		Width:  size,
		Height: size,
		Handle: uint32(len(i.images) + 1),
	}
	i.images[name] = img
	return img, nil
}

// Square returns the corners of an axis aligned square in the z plane.
func Square(x, y, z, size float32) []vec.Vec3 {
	return []vec.Vec3{
		{x, y, z},
		{x + size, y, z},
		{x + size, y + size, z},
		{x, y + size, z},
	}
}

// Samples returns n light samples of a single gray value.
func Samples(n int, v byte) []byte {
	return bytes.Repeat([]byte{v}, n*3)
}

var (
	XY = [2][4]float32{{1, 0, 0, 0}, {0, 1, 0, 0}}
	// a box around the origin big enough for all test geometry
	BigMins = [3]int16{-1024, -1024, -1024}
	BigMaxs = [3]int16{1024, 1024, 1024}
)

// Floor is a level with one cluster and two leaves. The node plane is z=0,
// leaf 0 is above and sees the n 64x64 floor faces, leaf 1 is below. Every
// face uses style 0 with 5x5 samples of value 128.
func Floor(n int, texFlags int32) *Level {
	l := &Level{
		Entities: `{
"classname" "worldspawn"
}
{
"classname" "info_player_start"
"origin" "32 32 64"
}
`,
		Planes:   []Plane{{Normal: [3]float32{0, 0, 1}, Dist: 0, Type: 2}},
		TexInfos: []TexInfo{{Vecs: XY, Flags: texFlags, Name: "e1u1/floor"}},
		Vis:      [][]byte{{0x01}},
	}
	var marks []uint16
	for i := 0; i < n; i++ {
		l.Faces = append(l.Faces, Face{
			Verts:    Square(float32(64*i), 0, 0, 64),
			Styles:   [4]byte{0, 255, 255, 255},
			LightOfs: int32(len(l.Lighting)),
		})
		l.Lighting = append(l.Lighting, Samples(25, 128)...)
		marks = append(marks, uint16(i))
	}
	l.Nodes = []Node{{
		Plane:    0,
		Children: [2]int32{-1, -2},
		Mins:     BigMins,
		Maxs:     BigMaxs,
		NumFaces: n,
	}}
	l.Leafs = []Leaf{
		{Cluster: 0, Mins: [3]int16{-1024, -1024, 0}, Maxs: BigMaxs, Faces: marks},
		{Cluster: 0, Mins: BigMins, Maxs: [3]int16{1024, 1024, 0}},
	}
	l.Models = []Model{{
		Mins:      [3]float32{-1024, -1024, -1024},
		Maxs:      [3]float32{1024, 1024, 1024},
		NumFaces:  int32(n),
		FirstFace: 0,
	}}
	return l
}

// Load encodes l and loads it with a fresh Images resolver.
func Load(l *Level) (*bsp.Model, error) {
	return bsp.Load("maps/test.bsp", l.Bytes(), &Images{})
}
