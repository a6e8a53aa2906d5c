// Package scene holds the minimal scene-graph surface the bounding-box
// pipeline reads: mesh instances with world transforms, raw vertex-position
// streams, and a perspective camera.
package scene

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"boxcam/internal/mathutil"
)

// Encoding identifies the wire layout of a vertex-position stream.
type Encoding int

const (
	// EncodingFloat3 is three little-endian float32 per vertex.
	EncodingFloat3 Encoding = iota
	// EncodingHalf4 is four little-endian IEEE754 binary16 per vertex;
	// the w component is padding and ignored.
	EncodingHalf4
)

func (e Encoding) String() string {
	switch e {
	case EncodingFloat3:
		return "float3"
	case EncodingHalf4:
		return "half4"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

func (e Encoding) stride() int {
	switch e {
	case EncodingFloat3:
		return 12
	case EncodingHalf4:
		return 8
	default:
		return 0
	}
}

// VertexStream is a raw vertex-position buffer as mapped from a mesh's
// vertex array. Decoding is lazy; the stream keeps only bytes.
type VertexStream struct {
	Encoding Encoding
	Count    int
	Data     []byte
}

// EachVertex decodes the stream one vertex at a time. It returns an error
// without invoking fn when the encoding is unknown or the buffer is shorter
// than Count vertices.
func (s VertexStream) EachVertex(fn func(mathutil.Vec3)) error {
	stride := s.Encoding.stride()
	if stride == 0 {
		return fmt.Errorf("scene: unsupported vertex encoding %s", s.Encoding)
	}
	if len(s.Data) < s.Count*stride {
		return fmt.Errorf("scene: vertex stream truncated: %d bytes for %d %s vertices",
			len(s.Data), s.Count, s.Encoding)
	}

	for i := 0; i < s.Count; i++ {
		p := s.Data[i*stride:]
		var v mathutil.Vec3
		switch s.Encoding {
		case EncodingFloat3:
			v[0] = float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
			v[1] = float64(math.Float32frombits(binary.LittleEndian.Uint32(p[4:])))
			v[2] = float64(math.Float32frombits(binary.LittleEndian.Uint32(p[8:])))
		case EncodingHalf4:
			v[0] = float64(float16.Frombits(binary.LittleEndian.Uint16(p)).Float32())
			v[1] = float64(float16.Frombits(binary.LittleEndian.Uint16(p[2:])).Float32())
			v[2] = float64(float16.Frombits(binary.LittleEndian.Uint16(p[4:])).Float32())
		}
		fn(v)
	}
	return nil
}

// NewFloat3Stream packs vertices as float3.
func NewFloat3Stream(verts []mathutil.Vec3) VertexStream {
	data := make([]byte, len(verts)*12)
	for i, v := range verts {
		p := data[i*12:]
		binary.LittleEndian.PutUint32(p, math.Float32bits(float32(v[0])))
		binary.LittleEndian.PutUint32(p[4:], math.Float32bits(float32(v[1])))
		binary.LittleEndian.PutUint32(p[8:], math.Float32bits(float32(v[2])))
	}
	return VertexStream{Encoding: EncodingFloat3, Count: len(verts), Data: data}
}

// NewHalf4Stream packs vertices as half4 with w=1.
func NewHalf4Stream(verts []mathutil.Vec3) VertexStream {
	one := float16.Fromfloat32(1).Bits()
	data := make([]byte, len(verts)*8)
	for i, v := range verts {
		p := data[i*8:]
		binary.LittleEndian.PutUint16(p, float16.Fromfloat32(float32(v[0])).Bits())
		binary.LittleEndian.PutUint16(p[2:], float16.Fromfloat32(float32(v[1])).Bits())
		binary.LittleEndian.PutUint16(p[4:], float16.Fromfloat32(float32(v[2])).Bits())
		binary.LittleEndian.PutUint16(p[6:], one)
	}
	return VertexStream{Encoding: EncodingHalf4, Count: len(verts), Data: data}
}
