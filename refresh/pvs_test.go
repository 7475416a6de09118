// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"slices"
	"testing"

	"gorefresh/bsp"
	"gorefresh/bsp/bsptest"
	"gorefresh/math/vec"
)

// node 0 splits on x, node 1 on y. Cluster 0 sees 0 and 1, cluster 1 sees
// itself, cluster 2 sees itself.
func threeLeaves(t *testing.T) *bsp.Model {
	t.Helper()
	l := &bsptest.Level{
		Planes: []bsptest.Plane{
			{Normal: [3]float32{1, 0, 0}, Type: 0},
			{Normal: [3]float32{0, 1, 0}, Type: 1},
		},
		Nodes: []bsptest.Node{
			{Plane: 0, Children: [2]int32{1, -1}, Mins: bsptest.BigMins, Maxs: bsptest.BigMaxs},
			{Plane: 1, Children: [2]int32{-2, -3}, Mins: bsptest.BigMins, Maxs: bsptest.BigMaxs},
		},
		Leafs: []bsptest.Leaf{
			{Cluster: 0, Mins: bsptest.BigMins, Maxs: bsptest.BigMaxs},
			{Cluster: 1, Mins: bsptest.BigMins, Maxs: bsptest.BigMaxs},
			{Cluster: 2, Mins: bsptest.BigMins, Maxs: bsptest.BigMaxs},
		},
		Models: []bsptest.Model{{}},
		Vis:    [][]byte{{0x03}, {0x02}, {0x04}},
	}
	m, err := bsptest.Load(l)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func marked(m *bsp.Model, frame int) (leafs []bool, nodes []bool) {
	for _, l := range m.Leafs {
		leafs = append(leafs, l.VisFrame == frame)
	}
	for _, n := range m.Nodes {
		nodes = append(nodes, n.VisFrame == frame)
	}
	return leafs, nodes
}

func TestMarkLeaves(t *testing.T) {
	tests := []struct {
		name      string
		c1, c2    int
		noVis     bool
		wantLeafs []bool
		wantNodes []bool
	}{
		{"cluster 0", 0, 0, false, []bool{true, true, false}, []bool{true, true}},
		{"cluster 1", 1, 1, false, []bool{false, true, false}, []bool{true, true}},
		{"cluster 2", 2, 2, false, []bool{false, false, true}, []bool{true, true}},
		{"fat", 1, 2, false, []bool{false, true, true}, []bool{true, true}},
		{"novis", 2, 2, true, []bool{true, true, true}, []bool{true, true}},
		{"outside", -1, -1, false, []bool{true, true, true}, []bool{true, true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := threeLeaves(t)
			p := newPVS()
			if !p.markLeaves(m, tc.c1, tc.c2, tc.noVis, false) {
				t.Fatalf("markLeaves did not run")
			}
			leafs, nodes := marked(m, p.frame)
			for i := range leafs {
				if leafs[i] != tc.wantLeafs[i] {
					t.Errorf("leaf %d marked = %v, want %v", i, leafs[i], tc.wantLeafs[i])
				}
			}
			for i := range nodes {
				if nodes[i] != tc.wantNodes[i] {
					t.Errorf("node %d marked = %v, want %v", i, nodes[i], tc.wantNodes[i])
				}
			}
		})
	}
}

func TestMarkLeavesAncestors(t *testing.T) {
	m := threeLeaves(t)
	p := newPVS()
	p.markLeaves(m, 2, 2, false, false)
	for i, l := range m.Leafs {
		if l.VisFrame != p.frame {
			continue
		}
		for n := l.Parent; n >= 0; n = m.Nodes[n].Parent {
			if m.Nodes[n].VisFrame != p.frame {
				t.Errorf("ancestor %d of leaf %d not marked", n, i)
			}
		}
	}
}

func TestMarkLeavesCache(t *testing.T) {
	m := threeLeaves(t)
	p := newPVS()
	p.markLeaves(m, 1, 1, false, false)
	frame := p.frame
	if p.markLeaves(m, 1, 1, false, false) {
		t.Errorf("unchanged clusters recomputed")
	}
	if p.frame != frame {
		t.Errorf("frame = %d, want %d", p.frame, frame)
	}
	if !p.markLeaves(m, 1, 1, true, false) {
		t.Errorf("novis did not recompute")
	}
	if p.markLeaves(m, 2, 2, false, true) {
		t.Errorf("locked pvs recomputed")
	}
	if !p.markLeaves(m, 2, 2, false, false) {
		t.Errorf("changed cluster not recomputed")
	}
}

func TestMarkLeavesScratch(t *testing.T) {
	m := threeLeaves(t)
	p := newPVS()
	p.markLeaves(m, 0, 0, false, false)
	if len(p.scratch) == 0 {
		t.Fatalf("no scratch row after markLeaves")
	}
	buf := &p.scratch[0]
	p.markLeaves(m, 1, 2, false, false)
	if &p.scratch[0] != buf {
		t.Errorf("fat pvs reallocated the scratch row")
	}
	// bits of cluster 0 must not survive into the new row
	leafs, _ := marked(m, p.frame)
	if want := []bool{false, true, true}; !slices.Equal(leafs, want) {
		t.Errorf("marked leafs = %v, want %v", leafs, want)
	}
	p.markLeaves(m, 2, 2, false, false)
	if &p.scratch[0] != buf {
		t.Errorf("single pvs reallocated the scratch row")
	}
}

func TestViewClusters(t *testing.T) {
	m, err := bsptest.Load(bsptest.Floor(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	c1, c2, err := viewClusters(m, vec.Vec3{32, 32, 64})
	if err != nil {
		t.Fatal(err)
	}
	if c1 != 0 || c2 != 0 {
		t.Errorf("viewClusters = %d,%d", c1, c2)
	}
}
