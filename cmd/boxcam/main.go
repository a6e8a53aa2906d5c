// Command boxcam renders a scene's id map, extracts labeled bounding boxes
// in the configured mode, and writes an annotated debug image.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"boxcam/internal/bbox"
	"boxcam/internal/config"
	"boxcam/internal/logging"
	"boxcam/internal/render"
	"boxcam/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	sceneFile := flag.String("scene", "", "Path to YAML scene description")
	output := flag.String("output", "", "Annotated image output path (.webp/.tga/.png)")
	mode := flag.String("mode", "", "Box mode: visible2d, full2d, box3d")
	width := flag.Int("width", 0, "Image width (default: 512)")
	height := flag.Int("height", 0, "Image height (default: 512)")
	scale := flag.Int("scale", 0, "Integer upscale factor for the debug image")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scene:  *sceneFile,
		Output: *output,
		Mode:   *mode,
		Width:  *width,
		Height: *height,
		Scale:  *scale,
	})

	if cfg.ScenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene file. Use -scene or a config file.")
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	boxType, err := bbox.ParseType(cfg.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scn, cam, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	cam.Aspect = float64(cfg.Width) / float64(cfg.Height)

	log.Info("scene loaded",
		zap.String("path", cfg.ScenePath),
		zap.Int("objects", len(scn.Instances)),
		zap.String("mode", cfg.Mode))

	// Render the id map and extract boxes.
	renderer := render.New(cfg.Width, cfg.Height, cfg.BackgroundLabel, log)
	buf := renderer.Render(scn, cam)

	boxCam := bbox.New(scn, cam, cfg.Width, cfg.Height, log)
	boxCam.SetType(boxType)
	boxCam.SetBackgroundLabel(cfg.BackgroundLabel)

	var boxes []bbox.BoundingBox
	conn := boxCam.Connect(func(bs []bbox.BoundingBox) {
		boxes = append(boxes[:0], bs...)
	})
	defer conn.Close()

	boxCam.ReadFrame(buf)

	// Print boxes as JSON lines.
	enc := json.NewEncoder(os.Stdout)
	for _, b := range boxes {
		if err := enc.Encode(boxJSON{
			Type:        b.Type.String(),
			Label:       b.Label,
			Center:      [3]float64(b.Center),
			Size:        [3]float64(b.Size),
			Orientation: [4]float64(b.Orientation),
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding box: %v\n", err)
			os.Exit(1)
		}
	}
	log.Info("boxes extracted", zap.Int("count", len(boxes)))

	// Draw the outlines over the id map and write the debug image.
	overlay := append([]uint8(nil), buf...)
	for _, b := range boxes {
		boxCam.DrawBoundingBox(overlay, color.RGBA{G: 255, A: 255}, b)
	}

	img := toImage(overlay, cfg.Width, cfg.Height)
	if cfg.Scale > 1 {
		img = upscale(img, cfg.Scale)
	}
	if err := writeImage(cfg.Output, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", cfg.Output, err)
		os.Exit(1)
	}
	log.Info("debug image written", zap.String("path", cfg.Output))
}

type boxJSON struct {
	Type        string     `json:"type"`
	Label       uint32     `json:"label"`
	Center      [3]float64 `json:"center"`
	Size        [3]float64 `json:"size"`
	Orientation [4]float64 `json:"orientation,omitempty"`
}

// toImage expands a packed RGB buffer into an NRGBA image.
func toImage(buf []uint8, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := (y*w + x) * 3
			di := img.PixOffset(x, y)
			img.Pix[di] = buf[si]
			img.Pix[di+1] = buf[si+1]
			img.Pix[di+2] = buf[si+2]
			img.Pix[di+3] = 255
		}
	}
	return img
}

// upscale enlarges the debug image by an integer factor with
// nearest-neighbour sampling, keeping id colors and outlines exact.
func upscale(img *image.NRGBA, factor int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return nativewebp.Encode(f, img, nil)
	case ".tga":
		return tga.Encode(f, img)
	case ".png":
		return png.Encode(f, img)
	default:
		return fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
}
