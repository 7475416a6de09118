// SPDX-License-Identifier: GPL-2.0-or-later

package lightmap

// Allocator is a skyline packer over one page. For every column it keeps
// the height up to which the column is filled.
type Allocator struct {
	width     int
	height    int
	allocated []int
}

func NewAllocator(width, height int) *Allocator {
	return &Allocator{
		width:     width,
		height:    height,
		allocated: make([]int, width),
	}
}

// Reset empties the page.
func (a *Allocator) Reset() {
	clear(a.allocated)
}

// Empty reports whether nothing was allocated since the last Reset.
func (a *Allocator) Empty() bool {
	return a.MaxHeight() == 0
}

// MaxHeight returns the highest fill height of all columns.
func (a *Allocator) MaxHeight() int {
	h := 0
	for _, v := range a.allocated {
		h = max(h, v)
	}
	return h
}

// Alloc places a w x h block at the lowest possible height, the leftmost
// position wins on ties. It returns false if the block does not fit.
func (a *Allocator) Alloc(w, h int) (int, int, bool) {
	if w <= 0 || h <= 0 || w > a.width {
		return 0, 0, false
	}
	best := a.height
	x := 0
	for i := 0; i <= a.width-w; i++ {
		best2 := 0
		j := 0
		for ; j < w; j++ {
			if a.allocated[i+j] >= best {
				break
			}
			best2 = max(best2, a.allocated[i+j])
		}
		if j == w {
			x = i
			best = best2
		}
	}
	if best+h > a.height {
		return 0, 0, false
	}
	for i := 0; i < w; i++ {
		a.allocated[x+i] = best + h
	}
	return x, best, true
}
