package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"boxcam/internal/mathutil"
)

// Scene description file schema. Rotations are Euler XYZ in degrees.
type fileSpec struct {
	Camera  cameraSpec   `yaml:"camera"`
	Objects []objectSpec `yaml:"objects"`
}

type cameraSpec struct {
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation"`
	HFOV     float64    `yaml:"hfov"` // degrees
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
}

type objectSpec struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"`
	Label    uint8       `yaml:"label"`
	Shape    shapeSpec   `yaml:"shape"`
	Position [3]float64  `yaml:"position"`
	Rotation [3]float64  `yaml:"rotation"`
	Scale    *[3]float64 `yaml:"scale"`
}

type shapeSpec struct {
	Type string     `yaml:"type"`
	Size [3]float64 `yaml:"size"`
	// Encoding selects the vertex stream layout: float3 (default) or half4.
	Encoding string `yaml:"encoding"`
}

// Load reads a YAML scene description. Object ids are assigned in file
// order starting at 1. The caller sets the camera's aspect ratio from the
// configured image dimensions.
func Load(path string) (*Scene, *Camera, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	cam := &Camera{
		Position: spec.Camera.Position,
		Rotation: mathutil.EulerDegToQuat(
			spec.Camera.Rotation[0], spec.Camera.Rotation[1], spec.Camera.Rotation[2]),
		HFOV: mathutil.Deg2Rad(spec.Camera.HFOV),
		Near: spec.Camera.Near,
		Far:  spec.Camera.Far,
	}
	if spec.Camera.HFOV == 0 {
		cam.HFOV = mathutil.Deg2Rad(60)
	}
	if cam.Near == 0 {
		cam.Near = 0.1
	}
	if cam.Far == 0 {
		cam.Far = 100
	}

	scn := &Scene{}
	for i, obj := range spec.Objects {
		if obj.Name == "" {
			return nil, nil, fmt.Errorf("scene: object %d has no name", i)
		}

		mesh, err := buildMesh(obj.Shape)
		if err != nil {
			return nil, nil, fmt.Errorf("scene: object %q: %w", obj.Name, err)
		}

		scale := mathutil.Vec3{1, 1, 1}
		if obj.Scale != nil {
			scale = *obj.Scale
		}
		label := obj.Label
		if label == 0 {
			label = 1
		}

		scn.Add(&Instance{
			ID:     uint32(i + 1),
			Name:   obj.Name,
			Parent: obj.Parent,
			Label:  label,
			Mesh:   mesh,
			Position: mathutil.Vec3{
				obj.Position[0], obj.Position[1], obj.Position[2]},
			Rotation: mathutil.EulerDegToQuat(
				obj.Rotation[0], obj.Rotation[1], obj.Rotation[2]),
			Scale: scale,
		})
	}

	return scn, cam, nil
}

func buildMesh(shape shapeSpec) (*Mesh, error) {
	size := mathutil.Vec3{shape.Size[0], shape.Size[1], shape.Size[2]}
	if size == (mathutil.Vec3{}) {
		size = mathutil.Vec3{1, 1, 1}
	}

	switch shape.Type {
	case "box", "":
		switch shape.Encoding {
		case "", "float3":
			return BoxMesh(size), nil
		case "half4":
			return BoxMeshHalf(size), nil
		default:
			return nil, fmt.Errorf("unknown vertex encoding %q", shape.Encoding)
		}
	default:
		return nil, fmt.Errorf("unknown shape type %q", shape.Type)
	}
}
