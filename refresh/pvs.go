// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"gorefresh/bsp"
	"gorefresh/math/vec"
)

// pvs keeps the visibility marks of the world and the clusters they were
// computed for.
type pvs struct {
	frame    int
	cluster  int
	cluster2 int
	// decompressed rows, reused across recomputes
	scratch bsp.Bitset
}

func newPVS() pvs {
	return pvs{cluster: -1, cluster2: -1}
}

// markLeaves stamps every leaf whose cluster is visible from c1 or c2, and
// all of its ancestors, with a new visibility frame. It returns false if the
// marks of the last call are still valid.
func (p *pvs) markLeaves(m *bsp.Model, c1, c2 int, noVis, lock bool) bool {
	if p.cluster == c1 && p.cluster2 == c2 && !noVis && c1 != -1 {
		return false
	}
	// development aid to let you run around and see where the pvs ends
	if lock {
		return false
	}
	p.frame++
	p.cluster = c1
	p.cluster2 = c2

	if noVis || c1 == -1 || !m.HasVis() {
		for i := range m.Leafs {
			m.Leafs[i].VisFrame = p.frame
		}
		for i := range m.Nodes {
			m.Nodes[i].VisFrame = p.frame
		}
		return true
	}

	p.scratch = m.ReadPVS(p.scratch, c1, false)
	if c2 != c1 {
		// may have to combine two clusters because of solid water boundaries
		p.scratch = m.ReadPVS(p.scratch, c2, true)
	}
	vis := p.scratch

	for i := range m.Leafs {
		l := &m.Leafs[i]
		if l.Cluster == -1 || !vis.Has(l.Cluster) {
			continue
		}
		if l.VisFrame == p.frame {
			continue
		}
		l.VisFrame = p.frame
		for n := l.Parent; n >= 0; {
			node := &m.Nodes[n]
			if node.VisFrame == p.frame {
				break
			}
			node.VisFrame = p.frame
			n = node.Parent
		}
	}
	return true
}

// viewClusters returns the cluster of origin and a second cluster 16 units
// below (or above when in liquid) to not draw wrong when crossing a water
// surface.
func viewClusters(m *bsp.Model, origin vec.Vec3) (int, int, error) {
	li, err := m.PointInLeaf(origin)
	if err != nil {
		return -1, -1, err
	}
	leaf := &m.Leafs[li]
	c1 := leaf.Cluster
	c2 := c1
	other := origin
	if leaf.Contents == 0 {
		other[2] -= 16
	} else {
		other[2] += 16
	}
	li, err = m.PointInLeaf(other)
	if err != nil {
		return -1, -1, err
	}
	leaf = &m.Leafs[li]
	if leaf.Contents&bsp.ContentsSolid == 0 && leaf.Cluster != c2 {
		c2 = leaf.Cluster
	}
	return c1, c2, nil
}
