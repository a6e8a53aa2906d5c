package bbox

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"boxcam/internal/geom"
	"boxcam/internal/mathutil"
)

// groupByParent collects the per-frame box ids by merge group key. Member
// order within a group is ascending object id; group order is ascending
// parent name. Both orders are deterministic and test-visible.
func (c *Camera) groupByParent() ([]string, map[string][]uint32) {
	groups := make(map[string][]uint32)
	for _, id := range c.sortedBoxIDs() {
		parent := c.parentName(id)
		groups[parent] = append(groups[parent], id)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, groups
}

// mergeMulti2D unions the 2D boxes of each multi-part object and appends
// the merged results to the output in reverse group order.
func (c *Camera) mergeMulti2D() {
	names, groups := c.groupByParent()

	for _, name := range names {
		members := make([]BoundingBox, 0, len(groups[name]))
		for _, id := range groups[name] {
			members = append(members, c.boxes[id])
		}
		c.output = append(c.output, c.mergeBoxes2D(members))
	}

	reverseBoxes(c.output)
}

// mergeBoxes2D unions the member boxes into one. A single-member group
// passes through unchanged. Corners are floored to whole pixels; the merged
// label is the first member's, a deterministic member-order-dependent
// choice.
func (c *Camera) mergeBoxes2D(members []BoundingBox) BoundingBox {
	if len(members) == 1 {
		return members[0]
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, b := range members {
		minX = math.Min(minX, math.Trunc(b.Center[0]-b.Size[0]/2))
		maxX = math.Max(maxX, math.Trunc(b.Center[0]+b.Size[0]/2))
		minY = math.Min(minY, math.Trunc(b.Center[1]-b.Size[1]/2))
		maxY = math.Max(maxY, math.Trunc(b.Center[1]+b.Size[1]/2))
	}

	w := maxX - minX
	h := maxY - minY
	return BoundingBox{
		Type:   c.typ,
		Center: mathutil.Vec3{minX + math.Trunc(w/2), minY + math.Trunc(h/2), 0},
		Size:   mathutil.Vec3{w, h, 0},
		Label:  members[0].Label,
	}
}

// mergeMulti3D passes single-member groups through and, for multi-part
// objects, refits one oriented box over the combined camera-space point
// cloud of all members.
func (c *Camera) mergeMulti3D(view mathutil.Mat4) {
	names, groups := c.groupByParent()

	for _, name := range names {
		ids := groups[name]
		if len(ids) == 1 {
			c.output = append(c.output, c.boxes[ids[0]])
			continue
		}

		verts := c.cameraVertices(ids, view)
		fitted, err := geom.FitOrientedBox(verts)
		if err != nil {
			c.log.Error("cannot merge multi-part 3d box",
				zap.String("parent", name), zap.Error(err))
			continue
		}

		c.output = append(c.output, BoundingBox{
			Type:        Box3D,
			Center:      fitted.Center,
			Size:        fitted.Size,
			Orientation: fitted.Rotation,
			Label:       c.labels[ids[0]],
		})
	}

	reverseBoxes(c.output)
}

// reverseBoxes flips the output slice in place. The published order is the
// reverse of group-insertion order, a long-standing quirk callers rely on.
func reverseBoxes(boxes []BoundingBox) {
	for i, j := 0, len(boxes)-1; i < j; i, j = i+1, j-1 {
		boxes[i], boxes[j] = boxes[j], boxes[i]
	}
}
