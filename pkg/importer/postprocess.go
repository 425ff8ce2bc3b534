package importer

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Validation errors reported by Validate.
var (
	ErrNoRoot             = errors.New("scene has no root node")
	ErrFaceIndexRange     = errors.New("face index out of range")
	ErrMaterialIndexRange = errors.New("material index out of range")
	ErrMeshIndexRange     = errors.New("node mesh index out of range")
	ErrChannelLength      = errors.New("vertex channel length mismatch")
)

// PostProcess applies the steps selected by flags to every mesh, in the
// order triangulation, normals, tangent space, bounding boxes, validation.
// A validation failure marks the scene incomplete. Flags not listed here are
// accepted without effect.
func PostProcess(s *Scene, flags Flags) {
	for _, m := range s.Meshes {
		if flags.Has(Triangulate) {
			TriangulateMesh(m)
		}
		if flags.Has(GenNormals) {
			GenerateNormals(m)
		}
		if flags.Has(CalcTangentSpace) {
			CalcTangents(m)
		}
		if flags.Has(GenBoundingBoxes) {
			ComputeAABB(m)
		}
	}
	if flags.Has(ValidateDataStructure) {
		if err := Validate(s); err != nil {
			s.MarkIncomplete("validation failed: %v", err)
		}
	}
}

// TriangulateMesh fan-splits faces with more than three indices. Point and
// line faces are kept.
func TriangulateMesh(m *Mesh) {
	if m.PrimitiveTypes&PrimitivePolygon == 0 {
		return
	}
	faces := make([]Face, 0, len(m.Faces))
	for _, f := range m.Faces {
		if len(f.Indices) <= 3 {
			faces = append(faces, f)
			continue
		}
		for i := 1; i+1 < len(f.Indices); i++ {
			faces = append(faces, Face{Indices: []uint32{f.Indices[0], f.Indices[i], f.Indices[i+1]}})
		}
	}
	m.Faces = faces
	m.PrimitiveTypes = m.PrimitiveTypes&^PrimitivePolygon | PrimitiveTriangle
}

// triangles calls fn for every three-index face whose indices are in range.
func (m *Mesh) triangles(fn func(i0, i1, i2 uint32)) {
	n := uint32(m.NumVertices)
	for _, f := range m.Faces {
		if len(f.Indices) != 3 {
			continue
		}
		i0, i1, i2 := f.Indices[0], f.Indices[1], f.Indices[2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		fn(i0, i1, i2)
	}
}

// GenerateNormals computes area-weighted smooth normals when the mesh has
// positions, triangles and no normals. Vertices not touched by any triangle
// get (0, 1, 0).
func GenerateNormals(m *Mesh) {
	if m.HasNormals() || !m.HasPositions() || m.PrimitiveTypes&PrimitiveTriangle == 0 {
		return
	}
	if len(m.Positions) != m.NumVertices {
		return
	}

	accum := make([]math.Vec3, m.NumVertices)
	m.triangles(func(i0, i1, i2 uint32) {
		p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]
		// Cross product length is twice the triangle area.
		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		accum[i0] = accum[i0].Add(fn)
		accum[i1] = accum[i1].Add(fn)
		accum[i2] = accum[i2].Add(fn)
	})

	for i := range accum {
		if accum[i].Length() < 1e-6 {
			accum[i] = math.Vec3{Y: 1}
			continue
		}
		accum[i] = accum[i].Normalize()
	}
	m.Normals = accum
}

// CalcTangents derives tangents and bitangents from the UV0 gradients. It
// needs positions, normals and UV0, and leaves existing tangents alone.
// Tangents are orthonormalized against the normal; bitangents are
// cross(N, T) with the sign of the accumulated UV bitangent.
func CalcTangents(m *Mesh) {
	if m.HasTangentsAndBitangents() || !m.HasPositions() || !m.HasNormals() || !m.HasTextureCoords(0) {
		return
	}
	n := m.NumVertices
	if len(m.Positions) != n || len(m.Normals) != n || len(m.TexCoords[0]) != n {
		return
	}

	tan := make([]math.Vec3, n)
	btan := make([]math.Vec3, n)
	uv := m.TexCoords[0]

	m.triangles(func(i0, i1, i2 uint32) {
		p0, p1, p2 := m.Positions[i0], m.Positions[i1], m.Positions[i2]
		edge1, edge2 := p1.Sub(p0), p2.Sub(p0)
		du1, dv1 := uv[i1].X-uv[i0].X, uv[i1].Y-uv[i0].Y
		du2, dv2 := uv[i2].X-uv[i0].X, uv[i2].Y-uv[i0].Y

		det := du1*dv2 - dv1*du2
		if det == 0 {
			return
		}
		inv := 1 / det
		t := edge1.Scale(dv2 * inv).Sub(edge2.Scale(dv1 * inv))
		b := edge2.Scale(du1 * inv).Sub(edge1.Scale(du2 * inv))

		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			btan[idx] = btan[idx].Add(b)
		}
	})

	m.Tangents = make([]math.Vec3, n)
	m.Bitangents = make([]math.Vec3, n)
	for i := 0; i < n; i++ {
		normal := m.Normals[i]
		// Gram-Schmidt
		ortho := tan[i].Sub(normal.Scale(normal.Dot(tan[i])))
		if ortho.Length() < 1e-6 {
			m.Tangents[i] = math.Vec3{X: 1}
			m.Bitangents[i] = normal.Cross(m.Tangents[i])
			continue
		}
		t := ortho.Normalize()
		b := normal.Cross(t)
		if b.Dot(btan[i]) < 0 {
			b = b.Scale(-1)
		}
		m.Tangents[i] = t
		m.Bitangents[i] = b
	}
}

// ComputeAABB sets the mesh bounds from its positions.
func ComputeAABB(m *Mesh) {
	if !m.HasPositions() {
		m.AABB = AABB{}
		return
	}
	box := AABB{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	m.AABB = box
}

// Validate checks the references inside a scene: the root exists, node mesh
// indices, mesh material indices, face indices and channel lengths are in
// range.
func Validate(s *Scene) error {
	if s.Root == nil {
		return ErrNoRoot
	}

	for i, m := range s.Meshes {
		if len(s.Materials) > 0 && (m.MaterialIndex < 0 || m.MaterialIndex >= len(s.Materials)) {
			return fmt.Errorf("%w: mesh %d (%s) uses material %d of %d",
				ErrMaterialIndexRange, i, m.Name, m.MaterialIndex, len(s.Materials))
		}
		if err := validateChannels(m); err != nil {
			return fmt.Errorf("mesh %d (%s): %w", i, m.Name, err)
		}
		for fi, f := range m.Faces {
			for _, idx := range f.Indices {
				if int(idx) >= m.NumVertices {
					return fmt.Errorf("%w: mesh %d (%s) face %d index %d, %d vertices",
						ErrFaceIndexRange, i, m.Name, fi, idx, m.NumVertices)
				}
			}
		}
	}

	var err error
	walkNodes(s.Root, func(n *Node) bool {
		for _, mi := range n.Meshes {
			if mi < 0 || mi >= len(s.Meshes) {
				err = fmt.Errorf("%w: node %q references mesh %d of %d",
					ErrMeshIndexRange, n.Name, mi, len(s.Meshes))
				return false
			}
		}
		return true
	})
	return err
}

func validateChannels(m *Mesh) error {
	check := func(name string, l int) error {
		if l != 0 && l != m.NumVertices {
			return fmt.Errorf("%w: %s has %d, want %d", ErrChannelLength, name, l, m.NumVertices)
		}
		return nil
	}
	if err := check("positions", len(m.Positions)); err != nil {
		return err
	}
	if err := check("normals", len(m.Normals)); err != nil {
		return err
	}
	if err := check("tangents", len(m.Tangents)); err != nil {
		return err
	}
	if err := check("bitangents", len(m.Bitangents)); err != nil {
		return err
	}
	for i := range m.Colors {
		if err := check(fmt.Sprintf("colors[%d]", i), len(m.Colors[i])); err != nil {
			return err
		}
	}
	for i := range m.TexCoords {
		if err := check(fmt.Sprintf("texcoords[%d]", i), len(m.TexCoords[i])); err != nil {
			return err
		}
	}
	return nil
}

// walkNodes visits each node reachable from root once, depth-first, until fn
// returns false.
func walkNodes(root *Node, fn func(*Node) bool) {
	seen := make(map[*Node]bool)
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		if !fn(n) {
			return
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
