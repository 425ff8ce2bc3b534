package scene

import (
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// MaxColorSets and MaxUVSets are the fixed number of per-vertex color and
// texture coordinate slots of a Mesh.
const (
	MaxColorSets = 8
	MaxUVSets    = 8
)

// PrimitiveKind is the geometric primitive a mesh's indices describe.
type PrimitiveKind int

const (
	PrimitivePoint PrimitiveKind = iota
	PrimitiveLine
	PrimitiveTriangle
)

// String returns a human-readable primitive name.
func (p PrimitiveKind) String() string {
	switch p {
	case PrimitivePoint:
		return "Point"
	case PrimitiveLine:
		return "Line"
	case PrimitiveTriangle:
		return "Triangle"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min math.Vec3
	Max math.Vec3
}

// Mesh is a flattened mesh. Every vertex buffer holds exactly VertexCount
// elements; channels the source did not provide are zero-filled.
//
// Colors[1] is an intentional alias: when the source had no second color set
// it is the same backing slice as Colors[0] and SharedColor1 is true. Treat
// both as read-only.
type Mesh struct {
	Name        string
	Primitive   PrimitiveKind
	Material    int // index into Scene.Materials, NoIndex when absent
	Bounds      BoundingBox
	VertexCount int

	Positions  []math.Vec3
	Normals    []math.Vec3
	Tangents   []math.Vec3
	Bitangents []math.Vec3

	Colors       [MaxColorSets][]math.Color4
	SharedColor1 bool
	UVs          [MaxUVSets][]math.Vec3

	Indices []uint32
}

// HasMaterial reports whether the mesh references a material.
func (m *Mesh) HasMaterial() bool {
	return m.Material != NoIndex
}
