// Package idbuffer encodes and decodes per-object identity colors in a
// rendered RGB buffer. Each pixel carries a 16-bit object id split across
// the R and G channels and a class label in the B channel. One reserved
// label value marks background pixels and must not be assigned to objects.
package idbuffer

// DefaultBackgroundLabel is the reserved label written by the renderer's
// clear pass.
const DefaultBackgroundLabel uint8 = 0

// Encode packs an object id and label into an RGB triplet. Ids above 16 bits
// wrap; scenes are expected to stay well below 65536 objects per frame.
func Encode(id uint32, label uint8) (r, g, b uint8) {
	return uint8(id % 256), uint8(id / 256 % 256), label
}

// Decode recovers the object id and label from an RGB triplet.
func Decode(r, g, b uint8) (id uint32, label uint8) {
	return uint32(g)*256 + uint32(r), b
}

// Boundary accumulates the pixel-space extent of one object's visible
// pixels. Per-frame, discarded after box extraction.
type Boundary struct {
	MinX, MinY uint32
	MaxX, MaxY uint32
}

// ScanVisibility makes a single raster pass over an RGB buffer and returns
// the set of visible object ids mapped to their labels. A pixel contributes
// iff its label differs from the background label; the first pixel of an id
// registers its label (labels are constant per id by contract and are not
// re-validated).
func ScanVisibility(buf []uint8, width, height int, background uint8) map[uint32]uint32 {
	labels := make(map[uint32]uint32)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			label := buf[i+2]
			if label == background {
				continue
			}
			id, _ := Decode(buf[i], buf[i+1], label)
			if _, seen := labels[id]; !seen {
				labels[id] = uint32(label)
			}
		}
	}

	return labels
}

// ScanBoundaries performs the visibility pass and simultaneously accumulates
// per-object pixel boundaries in the same sweep.
func ScanBoundaries(buf []uint8, width, height int, background uint8) (map[uint32]uint32, map[uint32]Boundary) {
	labels := make(map[uint32]uint32)
	bounds := make(map[uint32]Boundary)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			label := buf[i+2]
			if label == background {
				continue
			}
			id, _ := Decode(buf[i], buf[i+1], label)

			bd, seen := bounds[id]
			if !seen {
				labels[id] = uint32(label)
				bd = Boundary{
					MinX: uint32(width),
					MinY: uint32(height),
				}
			}

			ux, uy := uint32(x), uint32(y)
			if ux < bd.MinX {
				bd.MinX = ux
			}
			if uy < bd.MinY {
				bd.MinY = uy
			}
			if ux > bd.MaxX {
				bd.MaxX = ux
			}
			if uy > bd.MaxY {
				bd.MaxY = uy
			}
			bounds[id] = bd
		}
	}

	return labels, bounds
}
