// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"log"

	"github.com/pkg/errors"

	"gorefresh/math/vec"
)

const (
	visPVS = 0
	visPHS = 1
)

type visibility struct {
	numClusters int
	offsets     [][2]int32 // relative to the start of data
	data        []byte
}

func loadVisibility(data []byte) (*visibility, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, errors.New("visibility lump too short")
	}
	n := int(int32(binary.LittleEndian.Uint32(data)))
	if n < 0 || 4+n*8 > len(data) {
		return nil, errors.Errorf("bad cluster count %d", n)
	}
	v := &visibility{
		numClusters: n,
		offsets:     make([][2]int32, n),
		data:        data,
	}
	for i := 0; i < n; i++ {
		o := 4 + i*8
		v.offsets[i][visPVS] = int32(binary.LittleEndian.Uint32(data[o:]))
		v.offsets[i][visPHS] = int32(binary.LittleEndian.Uint32(data[o+4:]))
	}
	return v, nil
}

// Bitset holds one bit per cluster.
type Bitset []uint32

func NewBitset(n int) Bitset {
	return make(Bitset, (n+31)/32)
}

func (b Bitset) Has(i int) bool {
	w := i >> 5
	if i < 0 || w >= len(b) {
		return false
	}
	return b[w]&(1<<(i&31)) != 0
}

func (b Bitset) Set(i int) {
	b[i>>5] |= 1 << (i & 31)
}

// decompressVis expands the run length encoded vis row starting at in.
func decompressVis(in []byte, row int) []byte {
	out := make([]byte, row)
	if in == nil {
		for i := range out {
			out[i] = 0xff
		}
		return out
	}
	expandVis(in, row, func(i int, v byte) { out[i] = v })
	return out
}

// expandVis walks the run length encoded vis row starting at in and hands
// every non-zero byte with its offset to put. A zero byte is followed by the
// number of zero bytes it stands for.
func expandVis(in []byte, row int, put func(i int, v byte)) {
	i, o := 0, 0
	for o < row {
		if i >= len(in) {
			log.Printf("Faulty vis data")
			return
		}
		if in[i] != 0 {
			put(o, in[i])
			o++
			i++
			continue
		}
		if i+1 >= len(in) {
			log.Printf("Faulty vis data")
			return
		}
		o += int(in[i+1])
		i += 2
	}
}

// pvsSize is the number of bits a pvs Bitset of m needs.
func (m *Model) pvsSize() int {
	n := m.NumClusters()
	if n < len(m.Leafs) {
		n = len(m.Leafs)
	}
	return n
}

// ClusterPVS returns the clusters visible from cluster. Without vis data or
// for cluster -1 every cluster is visible.
func (m *Model) ClusterPVS(cluster int) Bitset {
	return m.ReadPVS(nil, cluster, false)
}

// ReadPVS writes the clusters visible from cluster into dst and returns it.
// With merge set they are added to the bits already in dst. A new Bitset is
// only allocated when dst is too short for the level.
func (m *Model) ReadPVS(dst Bitset, cluster int, merge bool) Bitset {
	words := (m.pvsSize() + 31) / 32
	if cap(dst) < words {
		b := NewBitset(m.pvsSize())
		if merge {
			copy(b, dst)
		}
		dst = b
	}
	if merge && len(dst) < words {
		clear(dst[len(dst):words])
	}
	dst = dst[:words]
	if !merge {
		clear(dst)
	}
	var in []byte
	if m.vis != nil && cluster >= 0 && cluster < m.vis.numClusters {
		ofs := int(m.vis.offsets[cluster][visPVS])
		if ofs >= 0 && ofs < len(m.vis.data) {
			in = m.vis.data[ofs:]
		} else {
			log.Printf("Faulty vis offset for cluster %d", cluster)
		}
	}
	if in == nil {
		for i := range dst {
			dst[i] = 0xffffffff
		}
		return dst
	}
	row := (m.vis.numClusters + 7) >> 3
	expandVis(in, row, func(i int, v byte) {
		dst[i/4] |= uint32(v) << (8 * (i % 4))
	})
	return dst
}

// PointInLeaf returns the index of the leaf containing p.
func (m *Model) PointInLeaf(p vec.Vec3) (int, error) {
	if m == nil || len(m.Nodes) == 0 {
		return 0, errors.New("PointInLeaf: bad model")
	}
	n := int32(0)
	for n >= 0 {
		node := &m.Nodes[n]
		if node.Plane.Distance(p) > 0 {
			n = node.Children[0]
		} else {
			n = node.Children[1]
		}
	}
	return LeafIndex(n), nil
}
