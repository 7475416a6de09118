// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"gorefresh/crc"
	"gorefresh/math/vec"
)

const (
	bspVersion = 38
)

var bspMagic = [4]byte{'I', 'B', 'S', 'P'}

const (
	lumpEntities = iota
	lumpPlanes
	lumpVertexes
	lumpVisibility
	lumpNodes
	lumpTexInfo
	lumpFaces
	lumpLighting
	lumpLeafs
	lumpLeafFaces
	lumpLeafBrushes
	lumpEdges
	lumpSurfEdges
	lumpModels
	lumpBrushes
	lumpBrushSides
	lumpPop
	lumpAreas
	lumpAreaPortals
	numLumps
)

type lump struct {
	Offset int32
	Length int32
}

type header struct {
	Ident   [4]byte
	Version int32
	Lumps   [numLumps]lump
}

type dplane struct {
	Normal [3]float32
	Dist   float32
	Type   int32
}

type dnode struct {
	PlaneNum  int32
	Children  [2]int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
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
	Styles    [MaxLightmaps]uint8
	LightOfs  int32
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

type dedge struct {
	V [2]uint16
}

type dmodel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

// ImageResolver provides the base texture for a texinfo name like
// "e1u1/floor1_3".
type ImageResolver interface {
	FindImage(name string) (*Image, error)
}

type loader struct {
	data   []byte
	h      header
	images ImageResolver
	m      *Model

	vertexes  []vec.Vec3
	edges     []dedge
	surfEdges []int32
}

func readLump[T any](l *loader, idx int, name string) ([]T, error) {
	d := l.h.Lumps[idx]
	var zero T
	size := binary.Size(zero)
	if d.Offset < 0 || d.Length < 0 || int(d.Offset)+int(d.Length) > len(l.data) {
		return nil, errors.Errorf("lump %s out of bounds", name)
	}
	if int(d.Length)%size != 0 {
		return nil, errors.Errorf("funny lump size of %s", name)
	}
	r := make([]T, int(d.Length)/size)
	if err := binary.Read(bytes.NewReader(l.data[d.Offset:d.Offset+d.Length]), binary.LittleEndian, r); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return r, nil
}

func (l *loader) lumpData(idx int) []byte {
	d := l.h.Lumps[idx]
	if d.Length <= 0 || d.Offset < 0 || int(d.Offset)+int(d.Length) > len(l.data) {
		return nil
	}
	return l.data[d.Offset : d.Offset+d.Length]
}

// Load parses a compiled level. Images for the texinfos are looked up
// through images.
func Load(name string, data []byte, images ImageResolver) (*Model, error) {
	l := &loader{
		data:   data,
		images: images,
		m: &Model{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     name,
			Checksum: crc.Checksum(data),
		},
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &l.h); err != nil {
		return nil, errors.Wrapf(err, "%s: reading header", name)
	}
	if l.h.Ident != bspMagic {
		return nil, errors.Errorf("%s: not a IBSP file", name)
	}
	if l.h.Version != bspVersion {
		return nil, errors.Errorf("%s has wrong version number (%d should be %d)", name, l.h.Version, bspVersion)
	}
	steps := []func() error{
		l.loadVertexes,
		l.loadEdges,
		l.loadSurfEdges,
		l.loadLighting,
		l.loadPlanes,
		l.loadTexInfo,
		l.loadFaces,
		l.loadLeafs,
		l.loadNodes,
		l.loadVisibility,
		l.loadSubmodels,
		l.loadEntities,
	}
	for _, s := range steps {
		if err := s(); err != nil {
			return nil, errors.Wrap(err, name)
		}
	}
	return l.m, nil
}

func (l *loader) loadVertexes() error {
	in, err := readLump[[3]float32](l, lumpVertexes, "vertexes")
	if err != nil {
		return err
	}
	l.vertexes = make([]vec.Vec3, len(in))
	for i, v := range in {
		l.vertexes[i] = vec.Vec3(v)
	}
	return nil
}

func (l *loader) loadEdges() error {
	in, err := readLump[dedge](l, lumpEdges, "edges")
	if err != nil {
		return err
	}
	for _, e := range in {
		if int(e.V[0]) >= len(l.vertexes) || int(e.V[1]) >= len(l.vertexes) {
			return errors.New("edge vertex out of range")
		}
	}
	l.edges = in
	return nil
}

func (l *loader) loadSurfEdges() error {
	in, err := readLump[int32](l, lumpSurfEdges, "surfedges")
	if err != nil {
		return err
	}
	for _, e := range in {
		if e < 0 {
			e = -e
		}
		if int(e) >= len(l.edges) {
			return errors.New("surfedge out of range")
		}
	}
	l.surfEdges = in
	return nil
}

func (l *loader) loadLighting() error {
	l.m.LightData = l.lumpData(lumpLighting)
	return nil
}

func (l *loader) loadPlanes() error {
	in, err := readLump[dplane](l, lumpPlanes, "planes")
	if err != nil {
		return err
	}
	l.m.Planes = make([]Plane, len(in))
	for i, p := range in {
		l.m.Planes[i] = Plane{
			Normal:   vec.Vec3(p.Normal),
			Dist:     p.Dist,
			Type:     byte(p.Type),
			SignBits: signBits(vec.Vec3(p.Normal)),
		}
	}
	return nil
}

func cString(b []byte) string {
	if n := bytes.IndexByte(b, 0); n >= 0 {
		b = b[:n]
	}
	return string(b)
}

func (l *loader) loadTexInfo() error {
	in, err := readLump[dtexinfo](l, lumpTexInfo, "texinfo")
	if err != nil {
		return err
	}
	l.m.TexInfos = make([]*TexInfo, len(in))
	for i, t := range in {
		name := strings.ToLower(cString(t.Texture[:]))
		img, err := l.images.FindImage(name)
		if err != nil {
			return errors.Wrapf(err, "texinfo %d", i)
		}
		l.m.TexInfos[i] = &TexInfo{
			Vecs:  t.Vecs,
			Flags: int(t.Flags),
			Value: int(t.Value),
			Name:  name,
			Image: img,
		}
	}
	for i, t := range in {
		if t.NextTexInfo > 0 {
			if int(t.NextTexInfo) >= len(in) {
				return errors.Errorf("texinfo %d: bad animation link", i)
			}
			l.m.TexInfos[i].Next = l.m.TexInfos[t.NextTexInfo]
		}
	}
	// count animation frames
	for _, ti := range l.m.TexInfos {
		ti.NumFrames = 1
		for step := ti.Next; step != nil && step != ti; step = step.Next {
			ti.NumFrames++
			if ti.NumFrames > len(in) {
				return errors.New("texinfo animation loop")
			}
		}
	}
	return nil
}

// calcSurfaceExtents computes the lightmap footprint of a face in 16 unit
// lightmap texels.
func (l *loader) calcSurfaceExtents(s *Surface, verts []vec.Vec3) error {
	mins := [2]float32{999999, 999999}
	maxs := [2]float32{-99999, -99999}
	for _, v := range verts {
		for j := 0; j < 2; j++ {
			val := texDot(v, s.TexInfo.Vecs[j])
			mins[j] = math32.Min(mins[j], val)
			maxs[j] = math32.Max(maxs[j], val)
		}
	}
	for i := 0; i < 2; i++ {
		bmin := int(math32.Floor(mins[i] / 16))
		bmax := int(math32.Ceil(maxs[i] / 16))
		s.TextureMins[i] = bmin * 16
		s.Extents[i] = (bmax - bmin) * 16
		if s.TexInfo.Flags&(SurfWarp|SurfSky) == 0 && s.Extents[i] > 512 {
			return errors.Errorf("bad surface extents %d", s.Extents[i])
		}
	}
	return nil
}

func (l *loader) faceVerts(f dface) ([]vec.Vec3, error) {
	first := int(f.FirstEdge)
	n := int(f.NumEdges)
	if first < 0 || n < 3 || first+n > len(l.surfEdges) {
		return nil, errors.New("bad face edges")
	}
	verts := make([]vec.Vec3, n)
	for i := 0; i < n; i++ {
		e := l.surfEdges[first+i]
		if e >= 0 {
			verts[i] = l.vertexes[l.edges[e].V[0]]
		} else {
			verts[i] = l.vertexes[l.edges[-e].V[1]]
		}
	}
	return verts, nil
}

// buildPolygon makes the fan of a non warped surface. Lightmap coordinates
// are filled in once the surface has its atlas placement.
func (s *Surface) buildPolygon(verts []vec.Vec3) {
	p := &Poly{Verts: make([]Vertex, len(verts))}
	ti := s.TexInfo
	for i, v := range verts {
		p.Verts[i] = Vertex{
			Pos: v,
			S:   texDot(v, ti.Vecs[0]) / float32(ti.Image.Width),
			T:   texDot(v, ti.Vecs[1]) / float32(ti.Image.Height),
		}
	}
	s.Polys = append(s.Polys, p)
	s.SetLightmapCoords(0, 0, 0)
}

func (l *loader) loadFaces() error {
	in, err := readLump[dface](l, lumpFaces, "faces")
	if err != nil {
		return err
	}
	l.m.Surfaces = make([]*Surface, len(in))
	for i, f := range in {
		if int(f.PlaneNum) >= len(l.m.Planes) || f.TexInfo < 0 || int(f.TexInfo) >= len(l.m.TexInfos) {
			return errors.Errorf("face %d: bad plane or texinfo", i)
		}
		s := &Surface{
			Plane:   &l.m.Planes[f.PlaneNum],
			TexInfo: l.m.TexInfos[f.TexInfo],
			Styles:  f.Styles,
		}
		if f.Side != 0 {
			s.Flags |= SurfacePlaneBack
		}
		verts, err := l.faceVerts(f)
		if err != nil {
			return errors.Wrapf(err, "face %d", i)
		}
		if err := l.calcSurfaceExtents(s, verts); err != nil {
			return errors.Wrapf(err, "face %d", i)
		}
		if f.LightOfs >= 0 && int(f.LightOfs) < len(l.m.LightData) {
			s.Samples = l.m.LightData[f.LightOfs:]
		}
		if s.TexInfo.Flags&SurfSky != 0 {
			s.Flags |= SurfaceDrawSky
		}
		if s.TexInfo.Flags&SurfWarp != 0 {
			s.Flags |= SurfaceDrawTurb
			for j := 0; j < 2; j++ {
				s.Extents[j] = 16384
				s.TextureMins[j] = -8192
			}
			if err := s.subdivide(verts); err != nil {
				return errors.Wrapf(err, "face %d", i)
			}
		} else {
			s.buildPolygon(verts)
		}
		l.m.Surfaces[i] = s
	}
	return nil
}

func toVec(v [3]int16) vec.Vec3 {
	return vec.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func (l *loader) loadLeafs() error {
	in, err := readLump[dleaf](l, lumpLeafs, "leafs")
	if err != nil {
		return err
	}
	leafFaces, err := readLump[uint16](l, lumpLeafFaces, "leaffaces")
	if err != nil {
		return err
	}
	for _, f := range leafFaces {
		if int(f) >= len(l.m.Surfaces) {
			return errors.New("leafface out of range")
		}
	}
	l.m.Leafs = make([]Leaf, len(in))
	for i, d := range in {
		first, n := int(d.FirstLeafFace), int(d.NumLeafFaces)
		if first+n > len(leafFaces) {
			return errors.Errorf("leaf %d: bad leaffaces", i)
		}
		marks := make([]int32, n)
		for j := range marks {
			marks[j] = int32(leafFaces[first+j])
		}
		lf := Leaf{
			Contents:     d.Contents,
			Cluster:      int(d.Cluster),
			Area:         int(d.Area),
			MarkSurfaces: marks,
			Parent:       -1,
			Mins:         toVec(d.Mins),
			Maxs:         toVec(d.Maxs),
		}
		// surfaces seen from inside liquids are drawn underwater
		if lf.Contents&ContentsLiquid != 0 {
			for _, m := range marks {
				l.m.Surfaces[m].Flags |= SurfaceUnderWater
			}
		}
		l.m.Leafs[i] = lf
	}
	return nil
}

func (l *loader) loadNodes() error {
	in, err := readLump[dnode](l, lumpNodes, "nodes")
	if err != nil {
		return err
	}
	l.m.Nodes = make([]Node, len(in))
	for i, d := range in {
		if d.PlaneNum < 0 || int(d.PlaneNum) >= len(l.m.Planes) {
			return errors.Errorf("node %d: bad plane", i)
		}
		if int(d.FirstFace)+int(d.NumFaces) > len(l.m.Surfaces) {
			return errors.Errorf("node %d: bad faces", i)
		}
		for _, c := range d.Children {
			if c >= 0 && int(c) >= len(in) || c < 0 && LeafIndex(c) >= len(l.m.Leafs) {
				return errors.Errorf("node %d: bad child %d", i, c)
			}
		}
		l.m.Nodes[i] = Node{
			Plane:        &l.m.Planes[d.PlaneNum],
			Children:     d.Children,
			Parent:       -1,
			Mins:         toVec(d.Mins),
			Maxs:         toVec(d.Maxs),
			FirstSurface: int(d.FirstFace),
			NumSurfaces:  int(d.NumFaces),
		}
	}
	if len(l.m.Nodes) > 0 {
		l.m.setParent(0, -1)
	}
	return nil
}

// setParent links every node and leaf below n back to parent.
func (m *Model) setParent(n, parent int32) {
	for n >= 0 {
		node := &m.Nodes[n]
		node.Parent = parent
		m.setParent(node.Children[0], n)
		parent = n
		n = node.Children[1]
	}
	m.Leafs[LeafIndex(n)].Parent = parent
}

func (l *loader) loadVisibility() error {
	v, err := loadVisibility(l.lumpData(lumpVisibility))
	if err != nil {
		return err
	}
	l.m.vis = v
	return nil
}

func (l *loader) loadSubmodels() error {
	in, err := readLump[dmodel](l, lumpModels, "models")
	if err != nil {
		return err
	}
	l.m.Submodels = make([]Submodel, len(in))
	for i, d := range in {
		sm := Submodel{
			// spread the bounds by one unit
			Mins:      vec.Sub(vec.Vec3(d.Mins), vec.Vec3{1, 1, 1}),
			Maxs:      vec.Add(vec.Vec3(d.Maxs), vec.Vec3{1, 1, 1}),
			Origin:    vec.Vec3(d.Origin),
			HeadNode:  int(d.HeadNode),
			FirstFace: int(d.FirstFace),
			NumFaces:  int(d.NumFaces),
		}
		if sm.FirstFace < 0 || sm.FirstFace+sm.NumFaces > len(l.m.Surfaces) {
			return errors.Errorf("model %d: bad faces", i)
		}
		var corner vec.Vec3
		for j := 0; j < 3; j++ {
			corner[j] = math32.Max(math32.Abs(sm.Mins[j]), math32.Abs(sm.Maxs[j]))
		}
		sm.Radius = corner.Length()
		if i > 0 && sm.HeadNode >= 0 && sm.HeadNode < len(l.m.Nodes) {
			l.m.setParent(int32(sm.HeadNode), -1)
		}
		l.m.Submodels[i] = sm
	}
	return nil
}

func (l *loader) loadEntities() error {
	l.m.Entities = ParseEntities(l.lumpData(lumpEntities))
	return nil
}
