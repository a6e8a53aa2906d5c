package render

import "math"

// frameBuffer holds the id-map target as flat slices for cache locality.
// Color is RGB interleaved; Depth is NDC z per pixel, +inf where nothing
// has been drawn.
type frameBuffer struct {
	width  int
	height int
	color  []uint8
	depth  []float64
}

// newFrameBuffer allocates a buffer cleared to the background label on all
// three channels, the clear color the id-decode contract expects.
func newFrameBuffer(w, h int, background uint8) *frameBuffer {
	n := w * h
	color := make([]uint8, n*3)
	for i := range color {
		color[i] = background
	}
	depth := make([]float64, n)
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	return &frameBuffer{width: w, height: h, color: color, depth: depth}
}
