package render

import "math"

// fillTriangle rasterizes one flat-colored triangle with a depth test.
// Screen coordinates are in pixels, z in NDC (smaller is nearer). This is
// the hot path; no allocation in the inner loop.
func fillTriangle(fb *frameBuffer, x [3]float64, y [3]float64, z [3]float64, r, g, b uint8) {
	minX := int(math.Min(math.Min(x[0], x[1]), x[2]))
	maxX := int(math.Max(math.Max(x[0], x[1]), x[2])) + 1
	minY := int(math.Min(math.Min(y[0], y[1]), y[2]))
	maxY := int(math.Max(math.Max(y[0], y[1]), y[2])) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX > fb.width {
		maxX = fb.width
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > fb.height {
		maxY = fb.height
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y[1]-y[2])*(x[0]-x[2]) + (x[2]-x[1])*(y[0]-y[2])
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y[1] - y[2]
	dx21 := x[2] - x[1]
	dy20 := y[2] - y[0]
	dx02 := x[0] - x[2]

	for py := minY; py < maxY; py++ {
		fy := float64(py) + 0.5
		rowOff := py * fb.width
		for px := minX; px < maxX; px++ {
			fx := float64(px) + 0.5

			w0 := (dy12*(fx-x[2]) + dx21*(fy-y[2])) * invDet
			w1 := (dy20*(fx-x[2]) + dx02*(fy-y[2])) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			depth := w0*z[0] + w1*z[1] + w2*z[2]
			idx := rowOff + px
			if depth >= fb.depth[idx] {
				continue
			}
			fb.depth[idx] = depth

			ci := idx * 3
			fb.color[ci] = r
			fb.color[ci+1] = g
			fb.color[ci+2] = b
		}
	}
}
