// SPDX-License-Identifier: GPL-2.0-or-later

package palette

// AlphaEdgeFix gives every fully transparent texel the average colour of its
// opaque neighbours, wrapping at the borders. Filtering would otherwise blend
// in the colour of the transparent index.
func AlphaEdgeFix(w, h int, d []byte) {
	alpha := func(p int) byte {
		return d[p+3]
	}
	for y := 0; y < h; y++ {
		prev := (y - 1 + h) % h
		next := (y + 1) % h
		prow := prev * w
		crow := y * w
		nrow := next * w
		for x := 0; x < w; x++ {
			pp := (x - 1 + w) % w
			np := (x + 1) % w
			p := [8]int{
				(pp + prow) * 4, (x + prow) * 4, (np + prow) * 4,
				(pp + crow) * 4 /*           */, (np + crow) * 4,
				(pp + nrow) * 4, (x + nrow) * 4, (np + nrow) * 4,
			}
			pixel := (x + crow) * 4
			if alpha(pixel) != 0 {
				continue
			}
			r, g, b := 0, 0, 0
			count := 0
			for _, rp := range p {
				if alpha(rp) != 0 {
					r += int(d[rp])
					g += int(d[rp+1])
					b += int(d[rp+2])
					count++
				}
			}
			if count != 0 {
				d[pixel] = byte(r / count)
				d[pixel+1] = byte(g / count)
				d[pixel+2] = byte(b / count)
			}
		}
	}
}
