package gltfimport

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/scenekit/pkg/importer"
	"github.com/Faultbox/scenekit/pkg/math"
)

// convertPrimitive reads one glTF primitive into a source mesh. Strips,
// loops and fans are expanded into separate faces.
func convertPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*importer.Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, ErrNoPositions
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	m := &importer.Mesh{NumVertices: len(positions)}
	m.Positions = toVec3(positions)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		m.Normals = toVec3(normals)
	}

	if idx, ok := prim.Attributes[gltf.TANGENT]; ok && m.Normals != nil {
		tangents, err := modeler.ReadTangent(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading tangents: %w", err)
		}
		m.Tangents = make([]math.Vec3, len(tangents))
		m.Bitangents = make([]math.Vec3, len(tangents))
		for i, t := range tangents {
			m.Tangents[i] = math.Vec3{X: t[0], Y: t[1], Z: t[2]}
			if i < len(m.Normals) {
				// w carries the bitangent handedness.
				m.Bitangents[i] = m.Normals[i].Cross(m.Tangents[i]).Scale(t[3])
			}
		}
	}

	for set := 0; set < importer.MaxTexCoords; set++ {
		idx, ok := prim.Attributes[fmt.Sprintf("TEXCOORD_%d", set)]
		if !ok {
			continue
		}
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading TEXCOORD_%d: %w", set, err)
		}
		buf := make([]math.Vec3, len(uvs))
		for i, uv := range uvs {
			buf[i] = math.Vec3{X: uv[0], Y: uv[1]}
		}
		m.TexCoords[set] = buf
	}

	for set := 0; set < importer.MaxColorSets; set++ {
		idx, ok := prim.Attributes[fmt.Sprintf("COLOR_%d", set)]
		if !ok {
			continue
		}
		colors, err := modeler.ReadColor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading COLOR_%d: %w", set, err)
		}
		buf := make([]math.Color4, len(colors))
		for i, c := range colors {
			buf[i] = math.Color4FromBytes(c)
		}
		m.Colors[set] = buf
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, m.NumVertices)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m.Faces, m.PrimitiveTypes = buildFaces(prim.Mode, indices)
	return m, nil
}

// buildFaces splits an index stream into faces according to the draw mode.
func buildFaces(mode gltf.PrimitiveMode, idx []uint32) ([]importer.Face, importer.PrimitiveType) {
	var faces []importer.Face
	face := func(ids ...uint32) {
		faces = append(faces, importer.Face{Indices: ids})
	}

	switch mode {
	case gltf.PrimitivePoints:
		for _, i := range idx {
			face(i)
		}
		return faces, importer.PrimitivePoint

	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(idx); i += 2 {
			face(idx[i], idx[i+1])
		}
		return faces, importer.PrimitiveLine

	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(idx); i++ {
			face(idx[i], idx[i+1])
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			face(idx[len(idx)-1], idx[0])
		}
		return faces, importer.PrimitiveLine

	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				face(idx[i], idx[i+1], idx[i+2])
			} else {
				face(idx[i+1], idx[i], idx[i+2])
			}
		}
		return faces, importer.PrimitiveTriangle

	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			face(idx[0], idx[i], idx[i+1])
		}
		return faces, importer.PrimitiveTriangle
	}

	for i := 0; i+2 < len(idx); i += 3 {
		face(idx[i], idx[i+1], idx[i+2])
	}
	return faces, importer.PrimitiveTriangle
}

func toVec3(a [][3]float32) []math.Vec3 {
	out := make([]math.Vec3, len(a))
	for i, v := range a {
		out[i] = math.Vec3FromArray(v)
	}
	return out
}
