package bbox

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"boxcam/internal/idbuffer"
	"boxcam/internal/mathutil"
	"boxcam/internal/scene"
)

// Camera extracts labeled bounding boxes from rendered id-map frames. It is
// single-threaded: one frame is processed start to finish per ReadFrame
// call, and all per-frame state is cleared before the result is published.
type Camera struct {
	log *zap.Logger

	scn  *scene.Scene
	view *scene.Camera

	typ        Type
	width      int
	height     int
	background uint8

	// per-frame state, valid only inside ReadFrame
	boxes  map[uint32]BoundingBox
	labels map[uint32]uint32
	items  map[uint32]*scene.Instance

	output []BoundingBox

	subs    map[int]func([]BoundingBox)
	nextSub int
}

// New builds a camera over the given scene and view. A nil logger disables
// reporting. The default mode is VisibleBox2D.
func New(scn *scene.Scene, view *scene.Camera, width, height int, log *zap.Logger) *Camera {
	if log == nil {
		log = zap.NewNop()
	}
	return &Camera{
		log:        log,
		scn:        scn,
		view:       view,
		typ:        VisibleBox2D,
		width:      width,
		height:     height,
		background: idbuffer.DefaultBackgroundLabel,
		subs:       make(map[int]func([]BoundingBox)),
	}
}

// SetType selects the box computation mode for subsequent frames.
func (c *Camera) SetType(t Type) { c.typ = t }

// Type returns the current box computation mode.
func (c *Camera) Type() Type { return c.typ }

// SetImageSize sets the id-buffer dimensions in pixels.
func (c *Camera) SetImageSize(width, height int) {
	c.width = width
	c.height = height
}

// ImageWidth returns the configured buffer width.
func (c *Camera) ImageWidth() int { return c.width }

// ImageHeight returns the configured buffer height.
func (c *Camera) ImageHeight() int { return c.height }

// SetBackgroundLabel overrides the reserved background label value.
func (c *Camera) SetBackgroundLabel(label uint8) { c.background = label }

// Boxes returns the result of the last processed frame. When the last
// ReadFrame was skipped because nobody was connected, this still holds the
// previous frame's result.
func (c *Camera) Boxes() []BoundingBox { return c.output }

// ReadFrame decodes one rendered id-map frame (width*height*3 RGB bytes),
// computes boxes in the configured mode, merges multi-part objects, and
// publishes the result to every connected subscriber. All computation is
// skipped when no subscriber is connected.
func (c *Camera) ReadFrame(buf []uint8) {
	if len(c.subs) == 0 {
		return
	}

	c.output = c.output[:0]

	if c.scn == nil || c.view == nil {
		c.log.Error("bounding-box camera has no scene or view, skipping frame")
		return
	}
	if len(buf) < c.width*c.height*3 {
		c.log.Error("id buffer too small",
			zap.Int("have", len(buf)),
			zap.Int("want", c.width*c.height*3))
		return
	}

	c.boxes = make(map[uint32]BoundingBox)
	c.labels = make(map[uint32]uint32)
	c.items = make(map[uint32]*scene.Instance, len(c.scn.Instances))
	for _, inst := range c.scn.Instances {
		c.items[inst.ID] = inst
	}

	switch c.typ {
	case VisibleBox2D:
		c.visibleBoxes(buf)
	case FullBox2D:
		c.fullBoxes(buf)
	case Box3D:
		c.boxes3D(buf)
	}

	// drop per-frame state before publishing so nothing leaks into the
	// next frame
	c.boxes = nil
	c.labels = nil
	c.items = nil

	c.publish()
}

// visibleBoxes builds tight boxes from the per-object pixel boundaries
// found in a single raster sweep.
func (c *Camera) visibleBoxes(buf []uint8) {
	labels, bounds := idbuffer.ScanBoundaries(buf, c.width, c.height, c.background)
	c.labels = labels

	for id, bd := range bounds {
		w := bd.MaxX - bd.MinX
		h := bd.MaxY - bd.MinY
		c.boxes[id] = BoundingBox{
			Type:   VisibleBox2D,
			Center: mathutil.Vec3{float64(bd.MinX + w/2), float64(bd.MinY + h/2), 0},
			Size:   mathutil.Vec3{float64(w), float64(h), 0},
			Label:  labels[id],
		}
	}

	c.mergeMulti2D()
}

// fullBoxes projects every visible object's full mesh to the screen,
// including occluded parts.
func (c *Camera) fullBoxes(buf []uint8) {
	c.labels = idbuffer.ScanVisibility(buf, c.width, c.height, c.background)

	view := c.view.ViewMatrix()
	proj := c.view.ProjectionMatrix()

	for _, inst := range c.scn.Instances {
		if _, visible := c.labels[inst.ID]; !visible {
			continue
		}
		if aabb := inst.WorldAABB(); aabb.IsEmpty() || !c.view.IsVisible(aabb) {
			continue
		}

		min, max, ok := c.screenExtents(inst, view, proj)
		if !ok {
			continue
		}

		// cull objects fully outside the clip range on either axis; a
		// straddling object is kept even when one extreme is out
		if (math.Abs(min[0]) > 1 && math.Abs(max[0]) > 1) ||
			(math.Abs(min[1]) > 1 && math.Abs(max[1]) > 1) {
			continue
		}

		min, max = c.toScreenCoords(min, max)

		w := max[0] - min[0]
		h := min[1] - max[1] // y flips during screen mapping
		c.boxes[inst.ID] = BoundingBox{
			Type:   FullBox2D,
			Center: mathutil.Vec3{min[0] + w/2, max[1] + h/2, 0},
			Size:   mathutil.Vec3{w, h, 0},
			Label:  c.labels[inst.ID],
		}
	}

	c.mergeMulti2D()
}

// boxes3D builds oriented camera-space boxes for every visible object.
func (c *Camera) boxes3D(buf []uint8) {
	c.labels = idbuffer.ScanVisibility(buf, c.width, c.height, c.background)

	view := c.view.ViewMatrix()
	viewRot := mathutil.Mat3ToQuat(view.Mat3Part())

	for _, inst := range c.scn.Instances {
		if _, visible := c.labels[inst.ID]; !visible {
			continue
		}
		aabb := inst.WorldAABB()
		if aabb.IsEmpty() || !c.view.IsVisible(aabb) {
			continue
		}

		local, err := inst.Mesh.LocalAABB()
		if err != nil {
			c.log.Error("cannot size 3d box", zap.String("instance", inst.Name), zap.Error(err))
			continue
		}

		c.boxes[inst.ID] = BoundingBox{
			Type:   Box3D,
			Center: view.MulPoint(aabb.Center()),
			Size:   local.Size().MulElem(inst.Scale),
			// compose the camera rotation with the object's world
			// rotation, not the world rotation alone
			Orientation: mathutil.QuatMul(viewRot, inst.Rotation),
			Label:       c.labels[inst.ID],
		}
	}

	c.mergeMulti3D(view)
}

// toScreenCoords clamps NDC extents to [-1,1] and maps them to whole-pixel
// coordinates, y flipped, clamped to the image bounds.
func (c *Camera) toScreenCoords(min, max mathutil.Vec3) (mathutil.Vec3, mathutil.Vec3) {
	clamp := func(v, lo, hi float64) float64 {
		return math.Max(lo, math.Min(hi, v))
	}

	w := float64(c.width)
	h := float64(c.height)

	minX := math.Trunc((clamp(min[0], -1, 1) + 1) / 2 * w)
	minY := math.Trunc((1 - clamp(min[1], -1, 1)) / 2 * h)
	maxX := math.Trunc((clamp(max[0], -1, 1) + 1) / 2 * w)
	maxY := math.Trunc((1 - clamp(max[1], -1, 1)) / 2 * h)

	minX = clamp(minX, 0, w-1)
	minY = clamp(minY, 0, h-1)
	maxX = clamp(maxX, 0, w-1)
	maxY = clamp(maxY, 0, h-1)

	return mathutil.Vec3{minX, minY, min[2]}, mathutil.Vec3{maxX, maxY, max[2]}
}

// sortedBoxIDs returns the per-frame box ids in ascending order, the
// deterministic member order used for grouping and labeling.
func (c *Camera) sortedBoxIDs() []uint32 {
	ids := make([]uint32, 0, len(c.boxes))
	for id := range c.boxes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// parentName resolves the merge group key for an object id.
func (c *Camera) parentName(id uint32) string {
	if inst := c.items[id]; inst != nil {
		return inst.ParentName()
	}
	// ids without a scene entry group alone
	c.log.Warn("id buffer contains unknown object id", zap.Uint32("id", id))
	return fmt.Sprintf("#%d", id)
}

func (c *Camera) publish() {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		c.subs[id](c.output)
	}
}
