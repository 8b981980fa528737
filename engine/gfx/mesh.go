package gfx

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Vertex is a single mesh vertex as laid out in GPU vertex buffers.
// Size: 32 bytes, tightly packed.
type Vertex struct {
	Position [3]float32 // offset  0
	Normal   [3]float32 // offset 12
	UV       [2]float32 // offset 24
}

// VertexSize is the size of Vertex in bytes.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Marshal serializes the vertex into a little-endian byte buffer.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (v Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.put(buf)
	return buf
}

func (v Vertex) put(buf []byte) {
	fields := [8]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2],
		v.UV[0], v.UV[1],
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Label    string
	Vertices []Vertex
	Indices  []uint32
}

// VertexBytes serializes all vertices for upload.
//
// Returns:
//   - []byte: the packed vertex data
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexSize)
	for i, v := range m.Vertices {
		v.put(buf[i*VertexSize:])
	}
	return buf
}

// IndexBytes serializes all indices as little-endian uint32 values.
//
// Returns:
//   - []byte: the packed index data
func (m *Mesh) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// NewGroundQuad creates a horizontal quad in the XZ plane at y = 0 facing +Y, spanning
// [-halfWidth, halfWidth] on X and [-halfDepth, halfDepth] on Z with texture coordinates 0..1.
//
// Parameters:
//   - label: the mesh label
//   - halfWidth, halfDepth: half extents on X and Z
//
// Returns:
//   - *Mesh: the quad
func NewGroundQuad(label string, halfWidth, halfDepth float32) *Mesh {
	up := [3]float32{0, 1, 0}
	return &Mesh{
		Label: label,
		Vertices: []Vertex{
			{Position: [3]float32{-halfWidth, 0, halfDepth}, Normal: up, UV: [2]float32{0, 0}},
			{Position: [3]float32{halfWidth, 0, halfDepth}, Normal: up, UV: [2]float32{1, 0}},
			{Position: [3]float32{halfWidth, 0, -halfDepth}, Normal: up, UV: [2]float32{1, 1}},
			{Position: [3]float32{-halfWidth, 0, -halfDepth}, Normal: up, UV: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// NewScreenQuad creates a quad in the XY plane facing +Z with its lower-left corner at the
// origin, used for overlay text.
//
// Parameters:
//   - label: the mesh label
//   - width, height: the quad size
//
// Returns:
//   - *Mesh: the quad
func NewScreenQuad(label string, width, height float32) *Mesh {
	front := [3]float32{0, 0, 1}
	return &Mesh{
		Label: label,
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}, Normal: front, UV: [2]float32{0, 0}},
			{Position: [3]float32{width, 0, 0}, Normal: front, UV: [2]float32{1, 0}},
			{Position: [3]float32{width, height, 0}, Normal: front, UV: [2]float32{1, 1}},
			{Position: [3]float32{0, height, 0}, Normal: front, UV: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// cuboidFaces lists the outward normal and the four corners (counter-clockwise seen from
// outside) of each face of the unit cube centered at the origin.
var cuboidFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
	{[3]float32{1, 0, 0}, [4][3]float32{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
}

// NewCuboid creates a unit cube centered at the origin with per-face normals and
// per-face texture coordinates 0..1. Scale it with the model-view matrix.
//
// Parameters:
//   - label: the mesh label
//
// Returns:
//   - *Mesh: the cube
func NewCuboid(label string) *Mesh {
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	m := &Mesh{
		Label:    label,
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range cuboidFaces {
		base := uint32(len(m.Vertices))
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: f.normal, UV: uvs[i]})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
