// Package render produces the id-map buffer the bounding-box pipeline
// decodes: every instance's triangles are filled with its encoded id color
// under a depth test, over a background-label clear.
package render

import (
	"go.uber.org/zap"

	"boxcam/internal/idbuffer"
	"boxcam/internal/mathutil"
	"boxcam/internal/scene"
)

// Renderer rasterizes a scene into an RGB id buffer.
type Renderer struct {
	Width      int
	Height     int
	Background uint8

	log *zap.Logger
}

// New returns a renderer for the given image size. A nil logger disables
// reporting.
func New(width, height int, background uint8, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{Width: width, Height: height, Background: background, log: log}
}

// Render draws all scene instances and returns the RGB buffer
// (width*height*3 bytes). Sub-meshes with undecodable vertex streams are
// reported and skipped; the frame still completes.
func (r *Renderer) Render(scn *scene.Scene, cam *scene.Camera) []uint8 {
	fb := newFrameBuffer(r.Width, r.Height, r.Background)
	pv := mathutil.Mat4Mul(cam.ProjectionMatrix(), cam.ViewMatrix())

	for _, inst := range scn.Instances {
		cr, cg, cb := idbuffer.Encode(inst.ID, inst.Label)
		for smIdx, sm := range inst.Mesh.SubMeshes {
			px, py, pz, pw, err := r.projectSubMesh(sm, inst, pv)
			if err != nil {
				r.log.Error("skipping sub-mesh",
					zap.String("instance", inst.Name),
					zap.Int("submesh", smIdx),
					zap.Error(err))
				continue
			}

			for i := 0; i+2 < len(sm.Indices); i += 3 {
				i0, i1, i2 := sm.Indices[i], sm.Indices[i+1], sm.Indices[i+2]
				if int(i0) >= len(px) || int(i1) >= len(px) || int(i2) >= len(px) {
					continue
				}
				// drop triangles with any vertex at or behind the camera
				// plane rather than clipping them
				if pw[i0] <= 0 || pw[i1] <= 0 || pw[i2] <= 0 {
					continue
				}
				fillTriangle(fb,
					[3]float64{px[i0], px[i1], px[i2]},
					[3]float64{py[i0], py[i1], py[i2]},
					[3]float64{pz[i0], pz[i1], pz[i2]},
					cr, cg, cb)
			}
		}
	}

	return fb.color
}

// projectSubMesh transforms a sub-mesh's vertices to screen coordinates.
// Returned slices are pixel x, pixel y, NDC z, and clip w.
func (r *Renderer) projectSubMesh(sm scene.SubMesh, inst *scene.Instance, pv mathutil.Mat4) ([]float64, []float64, []float64, []float64, error) {
	n := sm.Positions.Count
	px := make([]float64, 0, n)
	py := make([]float64, 0, n)
	pz := make([]float64, 0, n)
	pw := make([]float64, 0, n)

	halfW := float64(r.Width) / 2
	halfH := float64(r.Height) / 2

	err := sm.Positions.EachVertex(func(v mathutil.Vec3) {
		world := inst.Rotation.Rotate(v.MulElem(inst.Scale)).Add(inst.Position)
		c := pv.MulVec4(mathutil.Vec4{world[0], world[1], world[2], 1})

		if c[3] > 0 {
			px = append(px, (c[0]/c[3]+1)*halfW)
			py = append(py, (1-c[1]/c[3])*halfH)
			pz = append(pz, c[2]/c[3])
		} else {
			px = append(px, 0)
			py = append(py, 0)
			pz = append(pz, 0)
		}
		pw = append(pw, c[3])
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return px, py, pz, pw, nil
}
