package rsmimport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/pkg/formats"
	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
)

// defaultMaterialName names the material used by faces whose texture index
// does not resolve.
const defaultMaterialName = "DefaultMaterial"

type converter struct {
	rsm *formats.RSM
	log *zap.Logger
	s   *importer.Scene

	defaultMaterial int
}

func convert(rsm *formats.RSM, name string, log *zap.Logger) (*importer.Scene, error) {
	if len(rsm.Nodes) == 0 {
		return nil, ErrNoNodes
	}

	c := &converter{
		rsm:             rsm,
		log:             log,
		s:               &importer.Scene{Name: name},
		defaultMaterial: -1,
	}

	for i, tex := range rsm.Textures {
		c.s.Materials = append(c.s.Materials, c.material(i, tex))
	}

	nodes := make([]*importer.Node, len(rsm.Nodes))
	for i := range rsm.Nodes {
		nodes[i] = c.node(&rsm.Nodes[i])
	}

	root := rootIndex(rsm)
	parents := resolveParents(rsm, root)
	for i, p := range parents {
		if i == root {
			continue
		}
		if p < 0 {
			c.log.Debug("attaching RSM node to root",
				zap.String("node", rsm.Nodes[i].Name),
				zap.String("parent", rsm.Nodes[i].Parent))
			p = root
		}
		nodes[p].AddChild(nodes[i])
	}

	c.s.Root = nodes[root]
	return c.s, nil
}

// material builds the material for texture i. Faces of every node are
// scanned so two-sidedness matches the faces that use the texture.
func (c *converter) material(i int, tex string) *importer.Material {
	twoSided := false
	for n := range c.rsm.Nodes {
		node := &c.rsm.Nodes[n]
		for _, f := range node.Faces {
			if f.TwoSide != 0 && textureIndex(node, f) == i {
				twoSided = true
			}
		}
	}

	m := baseMaterial(tex, c.rsm).SetBool(importer.KeyTwoSided, twoSided)
	if tex != "" {
		m.AddTexture(importer.TextureDiffuse, TextureDir+tex)
	}
	return m
}

func baseMaterial(name string, rsm *formats.RSM) *importer.Material {
	return importer.NewMaterial(name).
		SetColor3(importer.KeyColorDiffuse, math.Color3{R: 1, G: 1, B: 1}).
		SetFloat(importer.KeyOpacity, rsm.Alpha).
		SetInt(importer.KeyShadingModel, shadingModel(rsm.Shading))
}

func shadingModel(s formats.RSMShadingType) int {
	switch s {
	case formats.RSMShadingFlat:
		return importer.ShadingFlat
	case formats.RSMShadingSmooth:
		return importer.ShadingGouraud
	default:
		return importer.ShadingNoShading
	}
}

// textureIndex maps a face to an index into RSM.Textures, or -1.
func textureIndex(node *formats.RSMNode, f formats.RSMFace) int {
	if int(f.TextureID) >= len(node.TextureIDs) {
		return -1
	}
	return int(node.TextureIDs[f.TextureID])
}

// materialFor returns the scene material for a face, creating the default
// material on first use.
func (c *converter) materialFor(node *formats.RSMNode, f formats.RSMFace) int {
	if t := textureIndex(node, f); t >= 0 && t < len(c.rsm.Textures) {
		return t
	}
	if c.defaultMaterial < 0 {
		c.defaultMaterial = len(c.s.Materials)
		c.s.Materials = append(c.s.Materials, baseMaterial(defaultMaterialName, c.rsm))
	}
	return c.defaultMaterial
}

// node converts one RSM node with its meshes.
func (c *converter) node(rn *formats.RSMNode) *importer.Node {
	n := importer.NewNode(rn.Name)
	n.Transform = localTransform(rn)

	// Offset and Matrix apply to this node's vertices only.
	vertexMatrix := math.Translate(rn.Offset[0], rn.Offset[1], rn.Offset[2]).
		Mul(math.FromMat3x3(rn.Matrix))

	groups := c.groupFaces(rn)
	for gi, g := range groups {
		m := buildMesh(c.rsm, rn, g.faces, vertexMatrix)
		m.MaterialIndex = g.material
		m.Name = rn.Name
		if len(groups) > 1 {
			m.Name = fmt.Sprintf("%s.%d", rn.Name, gi)
		}
		n.Meshes = append(n.Meshes, len(c.s.Meshes))
		c.s.Meshes = append(c.s.Meshes, m)
	}
	return n
}

type faceGroup struct {
	material int
	faces    []formats.RSMFace
}

// groupFaces splits a node's valid faces by material, in order of first use.
func (c *converter) groupFaces(rn *formats.RSMNode) []faceGroup {
	var groups []faceGroup
	byMaterial := make(map[int]int)
	skipped := 0

	for _, f := range rn.Faces {
		if !validFace(rn, f) {
			skipped++
			continue
		}
		mat := c.materialFor(rn, f)
		gi, ok := byMaterial[mat]
		if !ok {
			gi = len(groups)
			byMaterial[mat] = gi
			groups = append(groups, faceGroup{material: mat})
		}
		groups[gi].faces = append(groups[gi].faces, f)
	}

	if skipped > 0 {
		c.log.Warn("skipping RSM faces with out-of-range vertices",
			zap.String("node", rn.Name), zap.Int("faces", skipped))
	}
	return groups
}

func validFace(rn *formats.RSMNode, f formats.RSMFace) bool {
	for _, vid := range f.VertexIDs {
		if int(vid) >= len(rn.Vertices) {
			return false
		}
	}
	return true
}

// buildMesh emits one vertex per face corner.
func buildMesh(rsm *formats.RSM, rn *formats.RSMNode, faces []formats.RSMFace, vertexMatrix math.Mat4) *importer.Mesh {
	n := len(faces) * 3
	m := &importer.Mesh{
		PrimitiveTypes: importer.PrimitiveTriangle,
		NumVertices:    n,
		Positions:      make([]math.Vec3, 0, n),
		Faces:          make([]importer.Face, 0, len(faces)),
	}
	m.TexCoords[0] = make([]math.Vec3, 0, n)
	withColors := rsm.Version.AtLeast(1, 2)
	if withColors {
		m.Colors[0] = make([]math.Color4, 0, n)
	}

	for _, f := range faces {
		base := uint32(len(m.Positions))
		for j := 0; j < 3; j++ {
			p := vertexMatrix.TransformPoint(rn.Vertices[f.VertexIDs[j]])
			m.Positions = append(m.Positions, math.Vec3FromArray(p))

			tc := formats.RSMTexCoord{Color: [4]uint8{255, 255, 255, 255}}
			if int(f.TexCoordIDs[j]) < len(rn.TexCoords) {
				tc = rn.TexCoords[f.TexCoordIDs[j]]
			}
			m.TexCoords[0] = append(m.TexCoords[0], math.Vec3{X: tc.U, Y: tc.V})
			if withColors {
				m.Colors[0] = append(m.Colors[0], math.Color4FromBytes(tc.Color))
			}
		}
		m.Faces = append(m.Faces, importer.Face{Indices: []uint32{base, base + 1, base + 2}})
	}

	importer.ComputeAABB(m)
	return m
}

// localTransform is Translate(Position) * Rotation * Scale. The first rotation
// key replaces the axis-angle rotation, and the first scale key multiplies
// the static scale.
func localTransform(rn *formats.RSMNode) math.Mat4 {
	rot := math.QuatFromAxisAngle(math.Vec3FromArray(rn.RotAxis), rn.RotAngle)
	if len(rn.RotKeys) > 0 {
		rot = math.QuatFromArray(rn.RotKeys[0].Quaternion).Normalize()
	}

	scale := math.Vec3FromArray(rn.Scale)
	if len(rn.ScaleKeys) > 0 {
		k := rn.ScaleKeys[0].Scale
		scale = math.Vec3{X: scale.X * k[0], Y: scale.Y * k[1], Z: scale.Z * k[2]}
	}

	return math.Compose(math.Vec3FromArray(rn.Position), rot, scale)
}

// rootIndex returns the index of the model's root node.
func rootIndex(rsm *formats.RSM) int {
	root := rsm.Root()
	for i := range rsm.Nodes {
		if &rsm.Nodes[i] == root {
			return i
		}
	}
	return 0
}

// resolveParents maps each node to its parent's index, or -1 for nodes that
// must hang off the root: missing parents, self-parents and links that
// would close a cycle. Names resolve to the first node carrying them.
func resolveParents(rsm *formats.RSM, root int) []int {
	byName := make(map[string]int, len(rsm.Nodes))
	for i := range rsm.Nodes {
		if _, ok := byName[rsm.Nodes[i].Name]; !ok {
			byName[rsm.Nodes[i].Name] = i
		}
	}

	parents := make([]int, len(rsm.Nodes))
	for i := range rsm.Nodes {
		parents[i] = -1
		if i == root || rsm.Nodes[i].Parent == "" {
			continue
		}
		if p, ok := byName[rsm.Nodes[i].Parent]; ok && p != i {
			parents[i] = p
		}
	}

	// Cut each cycle at the first member reached in file order. A chain
	// that runs into a cycle it is not part of is left for that member.
	for i := range parents {
		seen := map[int]bool{i: true}
		for p := parents[i]; p >= 0; p = parents[p] {
			if p == i {
				parents[i] = -1
				break
			}
			if seen[p] {
				break
			}
			seen[p] = true
		}
	}
	return parents
}
