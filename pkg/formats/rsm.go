// RSM (Resource Model) format parser for 3D models.
package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
	ErrInvalidRSMCount       = errors.New("invalid RSM element count")
)

const rsmMagic = "GRSM"

// Upper bounds on element counts; anything above is treated as corrupt data.
const (
	maxRSMNodes    = 10000
	maxRSMTextures = 1000
	maxRSMElements = 100000
	maxRSMKeys     = 10000
	maxRSMBoxes    = 1000
)

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// RSMShadingType represents the shading mode for rendering.
type RSMShadingType int32

const (
	RSMShadingNone   RSMShadingType = 0
	RSMShadingFlat   RSMShadingType = 1
	RSMShadingSmooth RSMShadingType = 2
)

// String returns a human-readable shading type name.
func (s RSMShadingType) String() string {
	switch s {
	case RSMShadingNone:
		return "None"
	case RSMShadingFlat:
		return "Flat"
	case RSMShadingSmooth:
		return "Smooth"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// RSMTexCoord represents a texture coordinate with optional vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // RGBA vertex color (v1.2+)
	U, V  float32
}

// RSMFace represents a triangle face in a mesh.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16 // index into the node's TextureIDs
	Padding     uint16
	TwoSide     int32
	SmoothGroup int32 // v1.2+
}

// RSMPosKeyframe represents a position animation keyframe.
type RSMPosKeyframe struct {
	Frame    int32
	Position [3]float32
}

// RSMRotKeyframe represents a rotation animation keyframe.
type RSMRotKeyframe struct {
	Frame      int32
	Quaternion [4]float32 // X, Y, Z, W
}

// RSMScaleKeyframe represents a scale animation keyframe.
type RSMScaleKeyframe struct {
	Frame int32
	Scale [3]float32
}

// RSMNode represents a node in the model hierarchy. Parents are referenced
// by name; an empty Parent marks a root.
type RSMNode struct {
	Name       string
	Parent     string
	TextureIDs []int32 // indices into RSM.Textures

	// Matrix and Offset only apply to this node's vertices, not to children.
	Matrix   [9]float32 // row-major 3x3
	Offset   [3]float32
	Position [3]float32
	RotAngle float32 // radians
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe // v < 1.5
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe // v >= 1.5
}

// RSMVolumeBox represents a bounding volume box.
type RSMVolumeBox struct {
	Size     [3]float32
	Position [3]float32
	Rotation [3]float32 // Euler angles
	Flag     int32      // v1.3+
}

// RSM represents a parsed RSM (Resource Model) file.
type RSM struct {
	Version     RSMVersion
	AnimLength  int32 // milliseconds
	Shading     RSMShadingType
	Alpha       float32 // 0-1, v1.4+
	Textures    []string
	RootNode    string
	Nodes       []RSMNode
	VolumeBoxes []RSMVolumeBox
}

// ParseRSM parses RSM data from a byte slice.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedRSMData
	}
	if string(data[:4]) != rsmMagic {
		return nil, ErrInvalidRSMMagic
	}

	r := newBinReader(data)
	r.skip(4)

	rsm := &RSM{Alpha: 1.0}
	r.read(&rsm.Version)

	if rsm.Version.Major < 1 || rsm.Version.Major > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	r.read(&rsm.AnimLength)
	r.read(&rsm.Shading)

	if rsm.Version.AtLeast(1, 4) {
		var alpha uint8
		r.read(&alpha)
		rsm.Alpha = float32(alpha) / 255.0
	}

	// reserved
	r.skip(16)

	textureCount := r.int32()
	if r.err == nil && (textureCount < 0 || textureCount > maxRSMTextures) {
		return nil, fmt.Errorf("%w: %d textures", ErrInvalidRSMCount, textureCount)
	}
	rsm.Textures = make([]string, 0, max(textureCount, 0))
	for i := int32(0); i < textureCount && r.err == nil; i++ {
		rsm.Textures = append(rsm.Textures, r.name())
	}

	rsm.RootNode = r.name()

	nodeCount := r.int32()
	if r.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedRSMData, r.err)
	}
	if nodeCount < 0 || nodeCount > maxRSMNodes {
		return nil, ErrInvalidNodeCount
	}

	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		if err := parseRSMNode(r, rsm.Version, &rsm.Nodes[i]); err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, err)
		}
	}

	// Volume boxes are optional trailing data.
	if r.r.Len() >= 4 {
		boxCount := r.int32()
		if boxCount > 0 && boxCount < maxRSMBoxes {
			boxes := make([]RSMVolumeBox, boxCount)
			for i := range boxes {
				box := &boxes[i]
				r.read(&box.Size)
				r.read(&box.Position)
				r.read(&box.Rotation)
				if rsm.Version.AtLeast(1, 3) {
					r.read(&box.Flag)
				}
			}
			if r.err == nil {
				rsm.VolumeBoxes = boxes
			}
		}
	}

	return rsm, nil
}

// count reads an element count and checks it against limit.
func count(r *binReader, what string, limit int32) (int, error) {
	n := r.int32()
	if r.err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncatedRSMData, r.err)
	}
	if n < 0 || n > limit {
		return 0, fmt.Errorf("%w: %d %s", ErrInvalidRSMCount, n, what)
	}
	return int(n), nil
}

func parseRSMNode(r *binReader, version RSMVersion, node *RSMNode) error {
	node.Name = r.name()
	node.Parent = r.name()

	n, err := count(r, "node textures", maxRSMTextures)
	if err != nil {
		return err
	}
	if n > 0 {
		node.TextureIDs = make([]int32, n)
		r.read(node.TextureIDs)
	}

	r.read(&node.Matrix)
	r.read(&node.Offset)
	r.read(&node.Position)
	r.read(&node.RotAngle)
	r.read(&node.RotAxis)
	r.read(&node.Scale)

	if n, err = count(r, "vertices", maxRSMElements); err != nil {
		return err
	}
	if n > 0 {
		node.Vertices = make([][3]float32, n)
		r.read(node.Vertices)
	}

	if n, err = count(r, "texture coordinates", maxRSMElements); err != nil {
		return err
	}
	if n > 0 {
		node.TexCoords = make([]RSMTexCoord, n)
		for i := range node.TexCoords {
			tc := &node.TexCoords[i]
			if version.AtLeast(1, 2) {
				r.read(&tc.Color)
			} else {
				tc.Color = [4]uint8{255, 255, 255, 255}
			}
			r.read(&tc.U)
			r.read(&tc.V)
		}
	}

	if n, err = count(r, "faces", maxRSMElements); err != nil {
		return err
	}
	if n > 0 {
		node.Faces = make([]RSMFace, n)
		for i := range node.Faces {
			face := &node.Faces[i]
			r.read(&face.VertexIDs)
			r.read(&face.TexCoordIDs)
			r.read(&face.TextureID)
			r.read(&face.Padding)
			r.read(&face.TwoSide)
			if version.AtLeast(1, 2) {
				r.read(&face.SmoothGroup)
			}
		}
	}

	if !version.AtLeast(1, 5) {
		if n, err = count(r, "position keys", maxRSMKeys); err != nil {
			return err
		}
		if n > 0 {
			node.PosKeys = make([]RSMPosKeyframe, n)
			r.read(node.PosKeys)
		}
	}

	if n, err = count(r, "rotation keys", maxRSMKeys); err != nil {
		return err
	}
	if n > 0 {
		node.RotKeys = make([]RSMRotKeyframe, n)
		r.read(node.RotKeys)
	}

	if version.AtLeast(1, 5) {
		if n, err = count(r, "scale keys", maxRSMKeys); err != nil {
			return err
		}
		if n > 0 {
			node.ScaleKeys = make([]RSMScaleKeyframe, n)
			r.read(node.ScaleKeys)
		}
	}

	if r.err != nil {
		return fmt.Errorf("%w: %v", ErrTruncatedRSMData, r.err)
	}
	return nil
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// Encode serializes the model in its Version's layout.
func (rsm *RSM) Encode() []byte {
	w := &binWriter{}
	w.buf.WriteString(rsmMagic)
	w.write(rsm.Version)
	w.write(rsm.AnimLength)
	w.write(rsm.Shading)
	if rsm.Version.AtLeast(1, 4) {
		w.write(uint8(rsm.Alpha*255 + 0.5))
	}
	w.write([16]byte{})

	w.write(int32(len(rsm.Textures)))
	for _, tex := range rsm.Textures {
		w.name(tex)
	}
	w.name(rsm.RootNode)

	w.write(int32(len(rsm.Nodes)))
	for i := range rsm.Nodes {
		encodeRSMNode(w, rsm.Version, &rsm.Nodes[i])
	}

	w.write(int32(len(rsm.VolumeBoxes)))
	for _, box := range rsm.VolumeBoxes {
		w.write(box.Size)
		w.write(box.Position)
		w.write(box.Rotation)
		if rsm.Version.AtLeast(1, 3) {
			w.write(box.Flag)
		}
	}
	return w.buf.Bytes()
}

func encodeRSMNode(w *binWriter, version RSMVersion, node *RSMNode) {
	w.name(node.Name)
	w.name(node.Parent)
	w.write(int32(len(node.TextureIDs)))
	w.write(node.TextureIDs)
	w.write(node.Matrix)
	w.write(node.Offset)
	w.write(node.Position)
	w.write(node.RotAngle)
	w.write(node.RotAxis)
	w.write(node.Scale)

	w.write(int32(len(node.Vertices)))
	w.write(node.Vertices)

	w.write(int32(len(node.TexCoords)))
	for _, tc := range node.TexCoords {
		if version.AtLeast(1, 2) {
			w.write(tc.Color)
		}
		w.write(tc.U)
		w.write(tc.V)
	}

	w.write(int32(len(node.Faces)))
	for _, f := range node.Faces {
		w.write(f.VertexIDs)
		w.write(f.TexCoordIDs)
		w.write(f.TextureID)
		w.write(f.Padding)
		w.write(f.TwoSide)
		if version.AtLeast(1, 2) {
			w.write(f.SmoothGroup)
		}
	}

	if !version.AtLeast(1, 5) {
		w.write(int32(len(node.PosKeys)))
		w.write(node.PosKeys)
	}
	w.write(int32(len(node.RotKeys)))
	w.write(node.RotKeys)
	if version.AtLeast(1, 5) {
		w.write(int32(len(node.ScaleKeys)))
		w.write(node.ScaleKeys)
	}
}

// TotalVertexCount returns the total number of vertices across all nodes.
func (rsm *RSM) TotalVertexCount() int {
	total := 0
	for _, node := range rsm.Nodes {
		total += len(node.Vertices)
	}
	return total
}

// TotalFaceCount returns the total number of faces across all nodes.
func (rsm *RSM) TotalFaceCount() int {
	total := 0
	for _, node := range rsm.Nodes {
		total += len(node.Faces)
	}
	return total
}

// NodeByName returns a node by its name, or nil if not found.
func (rsm *RSM) NodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// Root returns the node named by RootNode, falling back to the first
// parentless node and then to the first node.
func (rsm *RSM) Root() *RSMNode {
	if n := rsm.NodeByName(rsm.RootNode); n != nil {
		return n
	}
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == "" {
			return &rsm.Nodes[i]
		}
	}
	if len(rsm.Nodes) > 0 {
		return &rsm.Nodes[0]
	}
	return nil
}

// HasAnimation returns true if the model has any animation keyframes.
func (rsm *RSM) HasAnimation() bool {
	for _, node := range rsm.Nodes {
		if len(node.PosKeys) > 0 || len(node.RotKeys) > 0 || len(node.ScaleKeys) > 0 {
			return true
		}
	}
	return false
}
