// Package importer defines the contract between asset importers and the
// flattener: the hierarchical, pointer-linked source scene, the processing
// flag set and the session lifecycle.
package importer

import (
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Fixed channel slot counts of a source mesh.
const (
	MaxColorSets = 8
	MaxTexCoords = 8
)

// EmbeddedMarker prefixes texture paths that refer to Scene.Textures by
// index, as in "*0".
const EmbeddedMarker = '*'

// EmbeddedPath returns the texture path referencing embedded texture i.
func EmbeddedPath(i int) string {
	return fmt.Sprintf("%c%d", EmbeddedMarker, i)
}

// SceneFlags carries importer status bits.
type SceneFlags uint32

const (
	// SceneIncomplete marks a scene that must not be consumed; Scene.Message
	// explains why.
	SceneIncomplete SceneFlags = 0x1
)

// Scene is the importer's view of a model. It is owned by the Session that
// produced it and must not be used after Session.Close.
type Scene struct {
	Name      string
	Flags     SceneFlags
	Message   string
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
	Textures  []*EmbeddedTexture
}

// Incomplete reports whether SceneIncomplete is set.
func (s *Scene) Incomplete() bool {
	return s.Flags&SceneIncomplete != 0
}

// MarkIncomplete sets SceneIncomplete with an explanation.
func (s *Scene) MarkIncomplete(format string, args ...any) {
	s.Flags |= SceneIncomplete
	s.Message = fmt.Sprintf(format, args...)
}

// Node is a source hierarchy node with a local transform.
type Node struct {
	Name      string
	Transform math.Mat4
	Children  []*Node
	Meshes    []int // indices into Scene.Meshes
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: math.Identity()}
}

// AddChild appends c to n's children.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// PrimitiveType is a bitmask of the primitive kinds present in a mesh.
type PrimitiveType uint32

const (
	PrimitivePoint    PrimitiveType = 0x1
	PrimitiveLine     PrimitiveType = 0x2
	PrimitiveTriangle PrimitiveType = 0x4
	PrimitivePolygon  PrimitiveType = 0x8
)

// PrimitiveFor returns the primitive bit for a face with n indices.
func PrimitiveFor(n int) PrimitiveType {
	switch n {
	case 1:
		return PrimitivePoint
	case 2:
		return PrimitiveLine
	case 3:
		return PrimitiveTriangle
	default:
		return PrimitivePolygon
	}
}

// Face is one primitive as a list of vertex indices.
type Face struct {
	Indices []uint32
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Mesh is a source mesh. Optional channels are nil when absent; present
// channels hold NumVertices elements.
type Mesh struct {
	Name           string
	PrimitiveTypes PrimitiveType
	NumVertices    int

	Positions  []math.Vec3
	Normals    []math.Vec3
	Tangents   []math.Vec3
	Bitangents []math.Vec3
	Colors     [MaxColorSets][]math.Color4
	TexCoords  [MaxTexCoords][]math.Vec3

	Faces         []Face
	AABB          AABB
	MaterialIndex int
}

// HasPositions reports whether the position channel is present.
func (m *Mesh) HasPositions() bool { return m.Positions != nil && m.NumVertices > 0 }

// HasNormals reports whether the normal channel is present.
func (m *Mesh) HasNormals() bool { return m.Normals != nil && m.NumVertices > 0 }

// HasTangentsAndBitangents reports whether both tangent channels are present.
func (m *Mesh) HasTangentsAndBitangents() bool {
	return m.Tangents != nil && m.Bitangents != nil && m.NumVertices > 0
}

// HasVertexColors reports whether color set i is present.
func (m *Mesh) HasVertexColors(i int) bool {
	return i >= 0 && i < MaxColorSets && m.Colors[i] != nil && m.NumVertices > 0
}

// HasTextureCoords reports whether UV set i is present.
func (m *Mesh) HasTextureCoords(i int) bool {
	return i >= 0 && i < MaxTexCoords && m.TexCoords[i] != nil && m.NumVertices > 0
}

// NumIndices returns the total index count over all faces.
func (m *Mesh) NumIndices() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f.Indices)
	}
	return n
}

// EmbeddedTexture is texture data stored inside the asset. Height == 0 means
// Texels is a compressed image file of Width bytes whose format is named by
// FormatHint ("png", "jpg"); otherwise Texels holds Width*Height RGBA8 pixels.
type EmbeddedTexture struct {
	Width      uint32
	Height     uint32
	FormatHint string
	Texels     []byte
}

// Compressed reports whether the texture is an encoded image file.
func (t *EmbeddedTexture) Compressed() bool {
	return t.Height == 0
}

// Size returns the number of texel bytes the dimensions describe.
func (t *EmbeddedTexture) Size() int {
	if t.Compressed() {
		return int(t.Width)
	}
	return int(t.Width) * int(t.Height) * 4
}
